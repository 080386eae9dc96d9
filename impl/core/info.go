package core

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/netip"
	"strings"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/locale"
	"ServerDesk/internal/registry"
)

var loopback = netip.AddrFrom4([4]byte{127, 0, 0, 1})

type queryTarget struct {
	serverName string
	addr       netip.Addr
	port       int
}

// profileNotFoundError carries the localized reply as its message.
type profileNotFoundError struct {
	msg string
}

func (e *profileNotFoundError) Error() string { return e.msg }

func (e *profileNotFoundError) Unwrap() error { return registry.ErrNotFound }

// GetInfo queries the live state of one server profile bound to channelID.
func (c *Core) GetInfo(ctx context.Context, channelID, profileID string) (entity.Lines, error) {
	if strings.TrimSpace(profileID) == "" {
		return entity.Lines{c.res.Resolve(locale.KeyCommandProfileMissing)}, nil
	}
	if c.registry == nil {
		return nil, errors.New("server registry not available")
	}

	target, err := registry.Read(ctx, c.registry, func(servers []entity.ManagedServer) (queryTarget, error) {
		for _, s := range servers {
			if s.Profile.ChannelID != channelID || s.Profile.ProfileID != profileID {
				continue
			}
			return queryTarget{
				serverName: s.Profile.ServerName,
				addr:       parseServerIP(s.Profile.ServerIP),
				port:       s.Profile.QueryPort,
			}, nil
		}
		return queryTarget{}, &profileNotFoundError{msg: c.res.Format(locale.KeyProfileNotFound, profileID)}
	})
	if err != nil {
		return nil, err
	}

	info, err := c.queryServer(ctx, target)
	if err != nil || info == nil {
		c.log.With(
			slog.String("server", target.serverName),
			slog.String("addr", target.addr.String()),
			slog.Int("port", target.port),
			sl.Err(err),
		).Debug("server query failed")
		return entity.Lines{c.res.Format(locale.KeyInfoFailed, target.serverName)}, nil
	}

	mapName, ok := c.res.Lookup(locale.MapKey(info.Map))
	if !ok || mapName == "" {
		mapName = info.Map
	}

	return entity.Lines{fmt.Sprintf("```%s\n%s %s\n%s %d / %d```",
		info.Name,
		c.res.Resolve(locale.KeyMapLabel), mapName,
		c.res.Resolve(locale.KeyPlayersLabel), info.Players, info.MaxPlayers,
	)}, nil
}

func (c *Core) queryServer(ctx context.Context, target queryTarget) (info *entity.QueryResult, err error) {
	if c.query == nil {
		return nil, errors.New("query client not available")
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("query panicked: %v", p)
		}
	}()
	return c.query.Query(ctx, target.addr, target.port)
}

// parseServerIP falls back to the loopback address when ip is blank or invalid.
func parseServerIP(ip string) netip.Addr {
	addr, err := netip.ParseAddr(strings.TrimSpace(ip))
	if err != nil {
		return loopback
	}
	return addr
}
