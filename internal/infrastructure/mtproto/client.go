// Package mtproto reads public channel history through a Telegram user
// account.
package mtproto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gotd/td/session"
	"github.com/gotd/td/telegram"
	"github.com/gotd/td/telegram/auth"
	"github.com/gotd/td/telegram/peers"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/yourusername/tg-channel-parser/internal/domain/entity"
	"github.com/yourusername/tg-channel-parser/internal/domain/repository"
	"github.com/yourusername/tg-channel-parser/internal/logging"
)

const (
	historyBatch = 100
	// maxFloodWait longer server-imposed waits fail the read instead of blocking
	maxFloodWait = time.Minute
)

// Config connection settings
type Config struct {
	AppID       int
	AppHash     string
	SessionFile string
	// RPS caps outgoing RPCs per second
	RPS    float64
	Logger *zap.Logger
}

// Client a repository.ChannelReader over gotd. Connect starts the MTProto
// session in the background; Close stops it.
type Client struct {
	client  *telegram.Client
	limiter *rate.Limiter
	log     *slog.Logger

	mu        sync.Mutex
	cancel    context.CancelFunc
	stopped   chan struct{}
	peers     *peers.Manager
	connected atomic.Bool
}

var _ repository.ChannelReader = (*Client)(nil)

// New creates the client without connecting
func New(cfg Config) (*Client, error) {
	if cfg.AppID == 0 || cfg.AppHash == "" {
		return nil, errors.New("app id and app hash are required")
	}
	if cfg.SessionFile == "" {
		return nil, errors.New("session file is required")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.SessionFile), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create session dir: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}

	client := telegram.NewClient(cfg.AppID, cfg.AppHash, telegram.Options{
		SessionStorage: &session.FileStorage{Path: cfg.SessionFile},
		Logger:         cfg.Logger,
	})

	return &Client{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		log:     logging.ForComponent(logging.CompMTProto),
	}, nil
}

// IsConnected reports whether the background session is running
func (c *Client) IsConnected() bool {
	return c.connected.Load()
}

// Connect starts the session and returns once it is usable. The session
// outlives ctx and runs until Close.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.connected.Load() {
		return nil
	}

	runCtx, cancel := context.WithCancel(context.Background())
	ready := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- c.client.Run(runCtx, func(ctx context.Context) error {
			close(ready)
			<-ctx.Done()
			return ctx.Err()
		})
	}()

	select {
	case <-ready:
	case err := <-done:
		cancel()
		return fmt.Errorf("mtproto connect: %w", err)
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}

	stopped := make(chan struct{})
	go func() {
		err := <-done
		c.connected.Store(false)
		if err != nil && !errors.Is(err, context.Canceled) {
			c.log.Error("mtproto session stopped", slog.Any("error", err))
		}
		close(stopped)
	}()

	c.cancel = cancel
	c.stopped = stopped
	c.peers = peers.Options{}.Build(c.client.API())
	c.connected.Store(true)
	c.log.Info("mtproto connected")
	return nil
}

// Close stops the background session
func (c *Client) Close() error {
	c.mu.Lock()
	cancel, stopped := c.cancel, c.stopped
	c.cancel, c.stopped = nil, nil
	c.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-stopped
	c.log.Info("mtproto disconnected")
	return nil
}

// IsAuthorized false without error when not connected
func (c *Client) IsAuthorized(ctx context.Context) (bool, error) {
	if !c.connected.Load() {
		return false, nil
	}
	status, err := c.client.Auth().Status(ctx)
	if err != nil {
		return false, fmt.Errorf("auth status: %w", err)
	}
	return status.Authorized, nil
}

// ResolveChannel resolves "@username" to a channel. Users, groups and
// unknown names are repository.ErrChannelUnavailable.
func (c *Client) ResolveChannel(ctx context.Context, name string) (entity.Channel, error) {
	manager, err := c.manager()
	if err != nil {
		return entity.Channel{}, err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return entity.Channel{}, err
	}

	domain := strings.TrimPrefix(strings.TrimSpace(name), "@")
	peer, err := manager.ResolveDomain(ctx, domain)
	if err != nil {
		return entity.Channel{}, fmt.Errorf("%w: %s: %w", repository.ErrChannelUnavailable, name, err)
	}

	username, _ := peer.Username()
	return channelFromPeer(name, peer.VisibleName(), username, peer.InputPeer())
}

func channelFromPeer(name, title, username string, input tg.InputPeerClass) (entity.Channel, error) {
	ch, ok := input.(*tg.InputPeerChannel)
	if !ok {
		return entity.Channel{}, fmt.Errorf("%w: %s is not a channel", repository.ErrChannelUnavailable, name)
	}
	return entity.Channel{
		Name:       name,
		Title:      title,
		Username:   username,
		ID:         ch.ChannelID,
		AccessHash: ch.AccessHash,
	}, nil
}

// IterMessages walks history newest first, at most limit messages, until fn
// returns false. Service messages count toward limit but are not yielded.
func (c *Client) IterMessages(ctx context.Context, channel entity.Channel, limit int, fn func(entity.ChannelMessage) bool) error {
	if !c.connected.Load() {
		return repository.ErrAuthRequired
	}
	api := c.client.API()
	peer := &tg.InputPeerChannel{ChannelID: channel.ID, AccessHash: channel.AccessHash}

	offsetID, fetched := 0, 0
	for fetched < limit {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		res, err := api.MessagesGetHistory(ctx, &tg.MessagesGetHistoryRequest{
			Peer:     peer,
			OffsetID: offsetID,
			Limit:    min(historyBatch, limit-fetched),
		})
		if err != nil {
			if wait, ok := tgerr.AsFloodWait(err); ok && wait <= maxFloodWait {
				c.log.Warn("flood wait", slog.String("channel", channel.Name), slog.Duration("wait", wait))
				select {
				case <-time.After(wait):
					continue
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return fmt.Errorf("get history %s: %w", channel.Name, err)
		}

		batch := historyMessages(res)
		if len(batch) == 0 {
			return nil
		}
		for _, m := range batch {
			fetched++
			offsetID = m.GetID()
			if msg, ok := toChannelMessage(m); ok && !fn(msg) {
				return nil
			}
			if fetched >= limit {
				return nil
			}
		}
	}
	return nil
}

func historyMessages(res tg.MessagesMessagesClass) []tg.MessageClass {
	switch v := res.(type) {
	case *tg.MessagesMessages:
		return v.Messages
	case *tg.MessagesMessagesSlice:
		return v.Messages
	case *tg.MessagesChannelMessages:
		return v.Messages
	default:
		return nil
	}
}

func toChannelMessage(m tg.MessageClass) (entity.ChannelMessage, bool) {
	msg, ok := m.(*tg.Message)
	if !ok {
		return entity.ChannelMessage{}, false
	}
	return entity.ChannelMessage{
		ID:   msg.ID,
		Text: msg.Message,
		Date: time.Unix(int64(msg.Date), 0).UTC(),
	}, true
}

func (c *Client) manager() (*peers.Manager, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected.Load() || c.peers == nil {
		return nil, repository.ErrAuthRequired
	}
	return c.peers, nil
}

// Login runs the interactive sign-in and stores the session. It must not be
// called while connected.
func (c *Client) Login(ctx context.Context, phone, password string, code auth.CodeAuthenticator) (string, error) {
	if c.connected.Load() {
		return "", errors.New("login while connected")
	}
	var name string
	err := c.client.Run(ctx, func(ctx context.Context) error {
		flow := auth.NewFlow(auth.Constant(phone, password, code), auth.SendCodeOptions{})
		if err := c.client.Auth().IfNecessary(ctx, flow); err != nil {
			return fmt.Errorf("sign in: %w", err)
		}
		self, err := c.client.Self(ctx)
		if err != nil {
			return fmt.Errorf("get self: %w", err)
		}
		name = strings.TrimSpace(self.FirstName + " " + self.LastName)
		return nil
	})
	if err != nil {
		return "", err
	}
	c.log.Info("logged in", slog.String("account", name))
	return name, nil
}

// ImportTelethonSession converts a Telethon string session into the session
// file used by Client
func ImportTelethonSession(ctx context.Context, sessionFile, encoded string) error {
	data, err := session.TelethonSession(encoded)
	if err != nil {
		return fmt.Errorf("decode string session: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(sessionFile), 0o700); err != nil {
		return fmt.Errorf("failed to create session dir: %w", err)
	}
	loader := session.Loader{Storage: &session.FileStorage{Path: sessionFile}}
	if err := loader.Save(ctx, data); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}
