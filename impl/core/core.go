package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"
	"time"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/locale"
	"ServerDesk/internal/registry"

	"github.com/google/uuid"
)

type QueryClient interface {
	Query(ctx context.Context, addr netip.Addr, port int) (*entity.QueryResult, error)
}

type Resolver interface {
	Resolve(key string) string
	Lookup(key string) (string, bool)
	Format(key string, args ...any) string
	Translate(key string) string
}

type Observer interface {
	CommandDispatched(event entity.DispatchEvent)
}

type handlerFunc func(ctx context.Context, req entity.CommandRequest) (entity.Lines, error)

type Core struct {
	tenantID string
	registry registry.Accessor
	query    QueryClient
	res      Resolver
	observer Observer
	handlers map[entity.CommandKind]handlerFunc
	guard    flight
	log      *slog.Logger
}

// New creates a dispatcher that accepts commands addressed to tenantID only.
func New(log *slog.Logger, tenantID string, res Resolver) *Core {
	c := &Core{
		tenantID: tenantID,
		res:      res,
		log:      log.With(sl.Module("core")),
	}
	c.handlers = map[entity.CommandKind]handlerFunc{
		entity.CommandInfo: func(ctx context.Context, req entity.CommandRequest) (entity.Lines, error) {
			return c.GetInfo(ctx, req.ChannelID, req.ProfileID)
		},
		entity.CommandList: func(ctx context.Context, req entity.CommandRequest) (entity.Lines, error) {
			return c.GetList(ctx, req.ChannelID)
		},
		entity.CommandStatus: func(ctx context.Context, req entity.CommandRequest) (entity.Lines, error) {
			return c.GetStatus(ctx, req.ChannelID, req.ProfileID)
		},
		entity.CommandBackup:   c.notImplemented(entity.CommandBackup),
		entity.CommandShutdown: c.notImplemented(entity.CommandShutdown),
		entity.CommandStop:     c.notImplemented(entity.CommandStop),
		entity.CommandStart:    c.notImplemented(entity.CommandStart),
		entity.CommandUpdate:   c.notImplemented(entity.CommandUpdate),
	}
	return c
}

func (c *Core) SetRegistry(reg registry.Accessor) {
	c.registry = reg
}

func (c *Core) SetQueryClient(query QueryClient) {
	c.query = query
}

func (c *Core) SetObserver(observer Observer) {
	c.observer = observer
}

// Dispatch runs one chat command and returns the reply lines.
//
// A nil result means the request was malformed and must not be answered. An
// empty result means it was addressed to another tenant. Every other outcome,
// failures included, is rendered as text.
func (c *Core) Dispatch(ctx context.Context, kind entity.CommandKind, tenantID, channelID, profileID string) entity.Lines {
	if strings.TrimSpace(tenantID) == "" || strings.TrimSpace(channelID) == "" {
		return nil
	}
	if tenantID != c.tenantID {
		return entity.Lines{}
	}

	release, ok := c.guard.TryAcquire()
	if !ok {
		c.log.With(
			slog.String("command", kind.String()),
			slog.String("channel", channelID),
		).Debug("command rejected, another one is running")
		return entity.Lines{c.res.Resolve(locale.KeyCommandRunning)}
	}
	defer release()

	req := entity.CommandRequest{
		Kind:      kind,
		TenantID:  tenantID,
		ChannelID: channelID,
		ProfileID: profileID,
	}
	id := uuid.NewString()
	logger := c.log.With(
		slog.String("id", id),
		slog.String("command", kind.String()),
		slog.String("channel", channelID),
		slog.String("profile", profileID),
	)

	start := time.Now()
	lines := c.run(ctx, logger, req)
	logger.With(
		slog.Int("lines", len(lines)),
		slog.Duration("duration", time.Since(start)),
	).Debug("command dispatched")

	if c.observer != nil {
		c.observer.CommandDispatched(entity.DispatchEvent{
			ID:        id,
			Kind:      kind,
			ChannelID: channelID,
			ProfileID: profileID,
			Lines:     len(lines),
			Duration:  time.Since(start),
			Time:      start,
		})
	}
	return lines
}

func (c *Core) run(ctx context.Context, logger *slog.Logger, req entity.CommandRequest) (lines entity.Lines) {
	defer func() {
		if p := recover(); p != nil {
			logger.Error("command panicked", slog.Any("panic", p))
			lines = entity.Lines{fmt.Sprint(p)}
		}
	}()

	handler, ok := c.handlers[req.Kind]
	if !ok {
		return entity.Lines{c.res.Format(locale.KeyCommandUnknown, req.Kind)}
	}

	lines, err := handler(ctx, req)
	if err != nil {
		logger.Warn("command failed", sl.Err(err))
		return entity.Lines{err.Error()}
	}
	return lines
}

// Translate resolves a message key for chat connectors.
func (c *Core) Translate(key string) string {
	return c.res.Translate(key)
}
