package fleet

import (
	"context"
	"fmt"
	"log/slog"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"
	"ServerDesk/internal/registry"
)

// Repository persists server profiles.
type Repository interface {
	GetServerProfiles(ctx context.Context) ([]entity.ServerProfile, error)
	UpsertServerProfile(ctx context.Context, profile *entity.ServerProfile) error
	DeleteServerProfile(ctx context.Context, profileID string) error
}

// Registry is the host side of the server registry.
type Registry interface {
	registry.Accessor
	Load(ctx context.Context, profiles []entity.ServerProfile) error
	Upsert(ctx context.Context, profile entity.ServerProfile) error
	Remove(ctx context.Context, profileID string) error
	SetRuntime(ctx context.Context, profileID string, runtime entity.ServerRuntime) error
}

// Service owns the managed server fleet on behalf of the host: it keeps the
// registry in sync with the profile store and records runtime state.
type Service struct {
	registry Registry
	repo     Repository
	log      *slog.Logger
}

func NewService(reg Registry, log *slog.Logger) *Service {
	return &Service{
		registry: reg,
		log:      log.With(sl.Module("fleet")),
	}
}

// SetRepository enables persistence. Without one, profiles live in memory only.
func (s *Service) SetRepository(repo Repository) {
	s.repo = repo
}

// Load fills the registry from the repository, or from static when no
// repository is set.
func (s *Service) Load(ctx context.Context, static []entity.ServerProfile) error {
	profiles := static
	if s.repo != nil {
		stored, err := s.repo.GetServerProfiles(ctx)
		if err != nil {
			return fmt.Errorf("loading profiles: %w", err)
		}
		profiles = stored
	}
	if err := s.registry.Load(ctx, profiles); err != nil {
		return fmt.Errorf("loading registry: %w", err)
	}
	s.log.With(
		slog.Int("count", len(profiles)),
		slog.Bool("persistent", s.repo != nil),
	).Info("server profiles loaded")
	return nil
}

func (s *Service) ListServers(ctx context.Context) ([]entity.ManagedServer, error) {
	return registry.Read(ctx, s.registry, func(servers []entity.ManagedServer) ([]entity.ManagedServer, error) {
		return servers, nil
	})
}

func (s *Service) SaveServer(ctx context.Context, profile entity.ServerProfile) error {
	if s.repo != nil {
		if err := s.repo.UpsertServerProfile(ctx, &profile); err != nil {
			return fmt.Errorf("saving profile: %w", err)
		}
	}
	return s.registry.Upsert(ctx, profile)
}

// DeleteServer removes the profile from the store first so a failed store
// call leaves the registry untouched.
func (s *Service) DeleteServer(ctx context.Context, profileID string) error {
	if s.repo != nil {
		if err := s.repo.DeleteServerProfile(ctx, profileID); err != nil {
			return fmt.Errorf("deleting profile: %w", err)
		}
	}
	return s.registry.Remove(ctx, profileID)
}

func (s *Service) SetRuntime(ctx context.Context, profileID string, runtime entity.ServerRuntime) error {
	return s.registry.SetRuntime(ctx, profileID, runtime)
}
