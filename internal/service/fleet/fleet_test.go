package fleet

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ServerDesk/entity"
	"ServerDesk/internal/registry"

	"github.com/stretchr/testify/require"
)

type memoryRepo struct {
	profiles map[string]entity.ServerProfile
	order    []string
	failGet    bool
	failDelete bool
}

func newMemoryRepo(profiles ...entity.ServerProfile) *memoryRepo {
	r := &memoryRepo{profiles: map[string]entity.ServerProfile{}}
	for _, p := range profiles {
		_ = r.UpsertServerProfile(context.Background(), &p)
	}
	return r
}

func (r *memoryRepo) GetServerProfiles(context.Context) ([]entity.ServerProfile, error) {
	if r.failGet {
		return nil, errors.New("connection refused")
	}
	out := make([]entity.ServerProfile, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.profiles[id])
	}
	return out, nil
}

func (r *memoryRepo) UpsertServerProfile(_ context.Context, p *entity.ServerProfile) error {
	if _, ok := r.profiles[p.ProfileID]; !ok {
		r.order = append(r.order, p.ProfileID)
	}
	r.profiles[p.ProfileID] = *p
	return nil
}

func (r *memoryRepo) DeleteServerProfile(_ context.Context, id string) error {
	if r.failDelete {
		return errors.New("mongo down")
	}
	delete(r.profiles, id)
	for i, v := range r.order {
		if v == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	reg := registry.New(time.Second, log)
	ctx, cancel := context.WithCancel(context.Background())
	go reg.Run(ctx)
	t.Cleanup(cancel)
	return NewService(reg, log)
}

func TestLoadStatic(t *testing.T) {
	s := newTestService(t)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []entity.ServerProfile{{ProfileID: "p1", ChannelID: "C1"}}))
	servers, err := s.ListServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 1)
}

func TestLoadFromRepository(t *testing.T) {
	s := newTestService(t)
	repo := newMemoryRepo(entity.ServerProfile{ProfileID: "db1", ChannelID: "C1"}, entity.ServerProfile{ProfileID: "db2", ChannelID: "C2"})
	s.SetRepository(repo)
	ctx := context.Background()

	require.NoError(t, s.Load(ctx, []entity.ServerProfile{{ProfileID: "static", ChannelID: "C1"}}))
	servers, err := s.ListServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 2)
	require.Equal(t, "db1", servers[0].Profile.ProfileID)

	repo.failGet = true
	require.Error(t, s.Load(ctx, nil))
}

func TestSaveDeleteAndRuntime(t *testing.T) {
	s := newTestService(t)
	repo := newMemoryRepo()
	s.SetRepository(repo)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, entity.ServerProfile{ProfileID: "p1", ChannelID: "C1"}))
	require.Contains(t, repo.profiles, "p1")

	require.NoError(t, s.SetRuntime(ctx, "p1", entity.ServerRuntime{StatusString: "Running", Availability: entity.AvailabilityAvailable}))
	servers, err := s.ListServers(ctx)
	require.NoError(t, err)
	require.Equal(t, "Running", servers[0].Runtime.StatusString)

	require.NoError(t, s.DeleteServer(ctx, "p1"))
	require.NotContains(t, repo.profiles, "p1")
	require.ErrorIs(t, s.DeleteServer(ctx, "p1"), registry.ErrNotFound)
}

func TestDeleteKeepsRegistryWhenStoreFails(t *testing.T) {
	s := newTestService(t)
	repo := newMemoryRepo()
	s.SetRepository(repo)
	ctx := context.Background()

	require.NoError(t, s.SaveServer(ctx, entity.ServerProfile{ProfileID: "p1", ChannelID: "C1"}))
	repo.failDelete = true

	err := s.DeleteServer(ctx, "p1")
	require.ErrorContains(t, err, "mongo down")
	require.Contains(t, repo.profiles, "p1")

	servers, err := s.ListServers(ctx)
	require.NoError(t, err)
	require.Len(t, servers, 1)
	require.Equal(t, "p1", servers[0].Profile.ProfileID)
}
