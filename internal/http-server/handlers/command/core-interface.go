package command

import (
	"context"

	"ServerDesk/entity"
)

type Core interface {
	Dispatch(ctx context.Context, kind entity.CommandKind, tenantID, channelID, profileID string) entity.Lines
	Translate(key string) string
}
