package core

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"ServerDesk/entity"
	"ServerDesk/internal/locale"
	"ServerDesk/internal/registry"
)

// GetList describes every server profile bound to channelID.
func (c *Core) GetList(ctx context.Context, channelID string) (entity.Lines, error) {
	servers, err := c.snapshot(ctx, func(s entity.ManagedServer) bool {
		return s.Profile.ChannelID == channelID
	})
	if err != nil {
		return nil, err
	}

	lines := make(entity.Lines, 0, len(servers)+1)
	lines = append(lines, c.countLine(len(servers)))
	for _, s := range servers {
		lines = append(lines, fmt.Sprintf("```%s %s\n%s %s\n%s %s```",
			c.res.Resolve(locale.KeyProfileIDLabel), s.Profile.ProfileID,
			c.res.Resolve(locale.KeyProfileLabel), s.Profile.ProfileName,
			c.res.Resolve(locale.KeyServerNameLabel), s.Profile.ServerName,
		))
	}
	return lines, nil
}

// GetStatus reports runtime state for the servers bound to channelID, or only
// for profileID when one is given.
func (c *Core) GetStatus(ctx context.Context, channelID, profileID string) (entity.Lines, error) {
	anyProfile := strings.TrimSpace(profileID) == ""
	servers, err := c.snapshot(ctx, func(s entity.ManagedServer) bool {
		return s.Profile.ChannelID == channelID && (anyProfile || s.Profile.ProfileID == profileID)
	})
	if err != nil {
		return nil, err
	}

	lines := make(entity.Lines, 0, len(servers)+1)
	lines = append(lines, c.countLine(len(servers)))
	for _, s := range servers {
		lines = append(lines, fmt.Sprintf("```%s %s\n%s %s\n%s %s\n%s %s```",
			c.res.Resolve(locale.KeyProfileLabel), s.Profile.ProfileName,
			c.res.Resolve(locale.KeyServerNameLabel), s.Profile.ServerName,
			c.res.Resolve(locale.KeyStatusLabel), s.Runtime.StatusString,
			c.res.Resolve(locale.KeyAvailabilityLabel), c.res.Resolve(locale.AvailabilityKey(s.Runtime.Availability)),
		))
	}
	return lines, nil
}

func (c *Core) snapshot(ctx context.Context, match func(entity.ManagedServer) bool) ([]entity.ManagedServer, error) {
	if c.registry == nil {
		return nil, errors.New("server registry not available")
	}
	return registry.Read(ctx, c.registry, func(servers []entity.ManagedServer) ([]entity.ManagedServer, error) {
		var matched []entity.ManagedServer
		for _, s := range servers {
			if match(s) {
				matched = append(matched, s)
			}
		}
		return matched, nil
	})
}

func (c *Core) countLine(n int) string {
	return fmt.Sprintf("**%s** %s", c.res.Resolve(locale.KeyCountLabel), strconv.Itoa(n))
}
