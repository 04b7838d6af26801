package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/tg-channel-parser/internal/usecase"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and clear cached search results",
	}

	var (
		channels []string
		keywords []string
		limit    int
	)
	addKeyFlags := func(c *cobra.Command) {
		c.Flags().StringSliceVarP(&channels, "channel", "c", nil, "channel, repeatable")
		c.Flags().StringSliceVarP(&keywords, "keyword", "k", nil, "keyword, repeatable")
		c.Flags().IntVarP(&limit, "limit", "n", 10, "result limit of the search")
	}
	key := func() string {
		return usecase.CacheKey(usecase.ValidateChannels(channels), usecase.ValidateKeywords(keywords), limit)
	}

	keyCmd := &cobra.Command{
		Use:   "key",
		Short: "Print the cache key of a search",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), key())
			return nil
		},
	}
	addKeyFlags(keyCmd)

	invalidateCmd := &cobra.Command{
		Use:   "invalidate [key...]",
		Short: "Delete cached results by key, or for the search given by flags",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, err := a.searchCache()
			if err != nil {
				return err
			}
			keys := args
			if len(keys) == 0 {
				if len(channels) == 0 || len(keywords) == 0 {
					return errors.New("pass cache keys or --channel and --keyword")
				}
				keys = []string{key()}
			}
			for _, k := range keys {
				if err := cache.Invalidate(cmd.Context(), k); err != nil {
					return fmt.Errorf("invalidate %s: %w", k, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", k)
			}
			return nil
		},
	}
	addKeyFlags(invalidateCmd)

	cmd.AddCommand(keyCmd, invalidateCmd)
	return cmd
}
