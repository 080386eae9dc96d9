// Package registry owns the live collection of managed servers. All access is
// handed off to a single owner goroutine started with Run; callers block until
// the owner has executed their closure.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"ServerDesk/entity"
	"ServerDesk/internal/lib/sl"
)

const DefaultTimeout = 10 * time.Second

var (
	ErrStopped      = errors.New("registry owner is not running")
	ErrOwnerTimeout = errors.New("registry owner did not respond")
	ErrNotFound     = errors.New("server profile not found")
)

// ReadFunc runs on the owner against a snapshot of the collection.
type ReadFunc func(servers []entity.ManagedServer) (any, error)

// Accessor is the read side of the registry.
type Accessor interface {
	RunOnOwner(ctx context.Context, fn ReadFunc) (any, error)
}

type result struct {
	value any
	err   error
}

type op struct {
	apply func(servers *[]entity.ManagedServer) (any, error)
	reply chan result
}

type Registry struct {
	ops     chan op
	done    chan struct{}
	timeout time.Duration
	servers []entity.ManagedServer
	log     *slog.Logger
}

// New creates a registry. Calls made without a context deadline wait at most
// timeout for the owner.
func New(timeout time.Duration, log *slog.Logger) *Registry {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Registry{
		ops:     make(chan op),
		done:    make(chan struct{}),
		timeout: timeout,
		log:     log.With(sl.Module("registry")),
	}
}

// Run is the owner loop. It returns when ctx is cancelled. Should be called in
// a goroutine, once.
func (r *Registry) Run(ctx context.Context) {
	defer close(r.done)
	r.log.Debug("registry owner started")

	for {
		select {
		case <-ctx.Done():
			r.log.Debug("registry owner stopped")
			return
		case o := <-r.ops:
			value, err := r.apply(o)
			o.reply <- result{value: value, err: err}
		}
	}
}

func (r *Registry) apply(o op) (value any, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("registry operation panicked: %v", p)
		}
	}()
	return o.apply(&r.servers)
}

func (r *Registry) submit(ctx context.Context, apply func(*[]entity.ManagedServer) (any, error)) (any, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	o := op{apply: apply, reply: make(chan result, 1)}
	select {
	case r.ops <- o:
	case <-r.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ownerErr(ctx)
	}

	select {
	case res := <-o.reply:
		return res.value, res.err
	case <-r.done:
		return nil, ErrStopped
	case <-ctx.Done():
		return nil, ownerErr(ctx)
	}
}

func ownerErr(ctx context.Context) error {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", ErrOwnerTimeout, ctx.Err())
	}
	return ctx.Err()
}

// RunOnOwner executes fn on the owner goroutine and returns its result. fn
// receives a copy of the collection, so values it returns are snapshots.
func (r *Registry) RunOnOwner(ctx context.Context, fn ReadFunc) (any, error) {
	return r.submit(ctx, func(servers *[]entity.ManagedServer) (any, error) {
		return fn(slices.Clone(*servers))
	})
}

// Read is RunOnOwner with a typed result.
func Read[T any](ctx context.Context, acc Accessor, fn func(servers []entity.ManagedServer) (T, error)) (T, error) {
	var zero T
	value, err := acc.RunOnOwner(ctx, func(servers []entity.ManagedServer) (any, error) {
		return fn(servers)
	})
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("registry read returned %T", value)
	}
	return typed, nil
}

// Load replaces the whole collection. Runtime state starts out unknown.
func (r *Registry) Load(ctx context.Context, profiles []entity.ServerProfile) error {
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if p.ProfileID == "" {
			return fmt.Errorf("profile %q has no id", p.ProfileName)
		}
		if seen[p.ProfileID] {
			return fmt.Errorf("duplicate profile id %q", p.ProfileID)
		}
		seen[p.ProfileID] = true
	}

	_, err := r.submit(ctx, func(servers *[]entity.ManagedServer) (any, error) {
		loaded := make([]entity.ManagedServer, 0, len(profiles))
		for _, p := range profiles {
			loaded = append(loaded, entity.ManagedServer{Profile: p})
		}
		*servers = loaded
		return nil, nil
	})
	return err
}

// Upsert adds a profile or replaces the profile with the same id, keeping its
// runtime state and position.
func (r *Registry) Upsert(ctx context.Context, profile entity.ServerProfile) error {
	if profile.ProfileID == "" {
		return fmt.Errorf("profile %q has no id", profile.ProfileName)
	}
	_, err := r.submit(ctx, func(servers *[]entity.ManagedServer) (any, error) {
		for i := range *servers {
			if (*servers)[i].Profile.ProfileID == profile.ProfileID {
				(*servers)[i].Profile = profile
				return nil, nil
			}
		}
		*servers = append(*servers, entity.ManagedServer{Profile: profile})
		return nil, nil
	})
	return err
}

func (r *Registry) Remove(ctx context.Context, profileID string) error {
	_, err := r.submit(ctx, func(servers *[]entity.ManagedServer) (any, error) {
		i := slices.IndexFunc(*servers, func(s entity.ManagedServer) bool {
			return s.Profile.ProfileID == profileID
		})
		if i < 0 {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, profileID)
		}
		*servers = slices.Delete(*servers, i, i+1)
		return nil, nil
	})
	return err
}

func (r *Registry) SetRuntime(ctx context.Context, profileID string, runtime entity.ServerRuntime) error {
	_, err := r.submit(ctx, func(servers *[]entity.ManagedServer) (any, error) {
		for i := range *servers {
			if (*servers)[i].Profile.ProfileID == profileID {
				(*servers)[i].Runtime = runtime
				return nil, nil
			}
		}
		return nil, fmt.Errorf("%w: %s", ErrNotFound, profileID)
	})
	return err
}
