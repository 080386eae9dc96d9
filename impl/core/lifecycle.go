package core

import (
	"context"
	"strings"

	"ServerDesk/entity"
	"ServerDesk/internal/locale"
)

// notImplemented answers a lifecycle command (backup, start, stop...) that this
// service cannot perform yet. It touches neither the registry nor the network.
// The reply names the command as it is displayed, e.g. "Backup".
func (c *Core) notImplemented(kind entity.CommandKind) handlerFunc {
	name := displayName(kind)
	return func(_ context.Context, _ entity.CommandRequest) (entity.Lines, error) {
		return entity.Lines{c.res.Format(locale.KeyCommandUnknown, name)}, nil
	}
}

func displayName(kind entity.CommandKind) string {
	s := kind.String()
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
