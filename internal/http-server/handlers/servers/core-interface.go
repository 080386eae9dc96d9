package servers

import (
	"context"

	"ServerDesk/entity"
)

type Core interface {
	ListServers(ctx context.Context) ([]entity.ManagedServer, error)
	SaveServer(ctx context.Context, profile entity.ServerProfile) error
	DeleteServer(ctx context.Context, profileID string) error
	SetRuntime(ctx context.Context, profileID string, runtime entity.ServerRuntime) error
}
