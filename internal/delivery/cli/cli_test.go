package cli

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command tree in a scratch directory with a clean
// environment and returns stdout
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdir(t, t.TempDir())
	for _, name := range []string{"TG_BOT_TOKEN", "TG_APP_ID", "TG_APP_HASH", "TG_SESSION_STRING", "CACHE_BACKEND", "CACHE_TTL", "MTPROTO_RPS", "CACHE_MEMORY_SIZE", "GEMINI_API_KEY"} {
		t.Setenv(name, "")
	}
	t.Setenv("LOG_DIR", "")

	a := &app{}
	t.Cleanup(a.close)

	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	SetVersionInfo("1.2.3", "abc123", "2024-03-05")
	t.Cleanup(func() { SetVersionInfo("dev", "none", "unknown") })

	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "parserbot 1.2.3 (commit: abc123, built: 2024-03-05)\n", out)
}

func TestCacheKeyIsOrderIndependent(t *testing.T) {
	out, err := run(t, "cache", "key", "-c", "@b,@a", "-k", "y", "-k", "x", "-n", "10")
	require.NoError(t, err)
	assert.Equal(t, "c8e48c6f45c7bd41af1ff287971fe996\n", out)
}

func TestCacheKeyNormalizesLinks(t *testing.T) {
	a, err := run(t, "cache", "key", "-c", "https://t.me/b,a", "-k", "x,y")
	require.NoError(t, err)
	b, err := run(t, "cache", "key", "-c", "@a,@b", "-k", "x,y")
	require.NoError(t, err)
	assert.Equal(t, b, a)
}

func TestCacheInvalidateRemovesRecord(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CACHE_DIR", dir)
	path := filepath.Join(dir, "c8e48c6f45c7bd41af1ff287971fe996.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"timestamp": 0, "results": []}`), 0o644))

	out, err := run(t, "cache", "invalidate", "c8e48c6f45c7bd41af1ff287971fe996")
	require.NoError(t, err)
	assert.Contains(t, out, "removed c8e48c6f45c7bd41af1ff287971fe996")
	assert.NoFileExists(t, path)
}

func TestCacheInvalidateNeedsKeyOrSearch(t *testing.T) {
	_, err := run(t, "cache", "invalidate")
	assert.Error(t, err)
}

func TestSearchValidatesBeforeConnecting(t *testing.T) {
	_, err := run(t, "search", "-k", "price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--channel")

	_, err = run(t, "search", "-c", "@shop", "-k", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--keyword")
}

func TestSearchNeedsCredentials(t *testing.T) {
	_, err := run(t, "search", "-c", "@shop", "-k", "price")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TG_APP_ID")
}

func TestBotNeedsToken(t *testing.T) {
	_, err := run(t, "bot")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TG_BOT_TOKEN")
}

func TestSearchOptionsValidate(t *testing.T) {
	opts := searchOptions{
		channels: []string{"t.me/one", "@two", ""},
		keywords: []string{" price ", "a"},
		limit:    10,
	}
	channels, keywords, err := opts.validate()
	require.NoError(t, err)
	assert.Equal(t, []string{"@one", "@two"}, channels)
	assert.Equal(t, []string{"price"}, keywords)

	opts.limit = 0
	_, _, err = opts.validate()
	assert.Error(t, err)
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	got, err := prompt(newInput("  12345 \n"), &out, "Login code: ")
	require.NoError(t, err)
	assert.Equal(t, "12345", got)
	assert.Equal(t, "Login code: ", out.String())

	got, err = prompt(newInput("67890"), &out, "Login code: ")
	require.NoError(t, err)
	assert.Equal(t, "67890", got)

	_, err = prompt(newInput(""), &out, "Login code: ")
	assert.Error(t, err)
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "head", firstLine("head\nbody"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "", firstLine("\nx"))
}

func newInput(s string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(s))
}
