package herostore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

type HeroService struct {
	store     BlobStore
	ids       IDGenerator
	serialize bool
	mu        sync.Mutex
}

// ServiceConfig holds configuration options for HeroService.
type ServiceConfig struct {
	IDs             IDGenerator // Allocation policy for new heroes (default: RandomIDGenerator)
	SerializeWrites bool        // Hold a process-local lock across create, update and delete
}

func NewHeroService(store BlobStore, cfg ServiceConfig) (*HeroService, error) {
	if store == nil {
		return nil, fmt.Errorf("new hero service: %w: store cannot be nil", ErrInvalidInput)
	}
	ids := cfg.IDs
	if ids == nil {
		ids = NewRandomIDGenerator(nil)
	}
	return &HeroService{
		store:     store,
		ids:       ids,
		serialize: cfg.SerializeWrites,
	}, nil
}

// List reads and decodes every blob in the container.
//
// The result holds exactly one hero per stored blob, in the order the store
// enumerates them. A single undecodable blob fails the whole call with
// ErrSerialization; there are no partial results.
//
// Returns an error if:
//   - Context is cancelled
//   - The store cannot be listed or a blob cannot be read (ErrStorageUnavailable)
//   - Any blob is not a valid hero document (ErrSerialization)
func (s *HeroService) List(ctx context.Context) ([]Hero, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}

	heroes := make([]Hero, 0)
	err := s.walk(ctx, func(_ string, h Hero) (bool, error) {
		heroes = append(heroes, h)
		return false, nil
	})
	if err != nil {
		return nil, fmt.Errorf("list heroes: %w", err)
	}

	return heroes, nil
}

// Get returns the first hero whose id matches.
// Returns ErrNotFound when no stored hero has the id.
func (s *HeroService) Get(ctx context.Context, id int) (Hero, error) {
	if err := ctx.Err(); err != nil {
		return Hero{}, fmt.Errorf("get hero: %w", err)
	}

	heroes, err := s.List(ctx)
	if err != nil {
		return Hero{}, fmt.Errorf("get hero %d: %w", id, err)
	}

	for _, h := range heroes {
		if h.ID == id {
			return h, nil
		}
	}

	return Hero{}, fmt.Errorf("get hero %d: %w", id, ErrNotFound)
}

// Create stores a new hero.
//
// The method performs the following steps:
//  1. Replaces hero.ID with idOverride when it is non-nil
//  2. Lists all heroes and rejects the hero if one with the same name exists
//  3. Allocates an id when hero.ID is a placeholder (0 or -1)
//  4. Writes the hero to BlobKey(hero.ID) without overwriting an existing blob
//
// Parameters:
//   - ctx: Context for cancellation and timeout
//   - hero: The hero to store
//   - idOverride: Optional id that takes precedence over hero.ID
//
// Returns:
//   - Hero: The stored hero with its final id
//   - error: Any error encountered
//
// Error types returned:
//   - ErrInvalidInput: The id does not fit a 32-bit signed integer
//   - ErrDuplicateName: A hero with the same name already exists, nothing written
//   - ErrAlreadyExists: The blob for the id is already taken
//   - ErrIDExhausted: The id generator could not find a free id
//   - ErrSerialization, ErrStorageUnavailable: Listing or writing failed
//
// Concurrency safety: the duplicate check and the write are separate steps.
// Two concurrent creates with the same name and different ids can both
// succeed unless the service was built with SerializeWrites, which only
// helps inside one process.
func (s *HeroService) Create(ctx context.Context, hero Hero, idOverride *int) (Hero, error) {
	if err := ctx.Err(); err != nil {
		return Hero{}, fmt.Errorf("create hero: %w", err)
	}

	if idOverride != nil {
		hero.ID = *idOverride
	}
	if err := CheckHeroID(hero.ID); err != nil {
		return Hero{}, fmt.Errorf("create hero %q: %w: %w", hero.Name, ErrInvalidInput, err)
	}

	s.lock()
	defer s.unlock()

	existing, err := s.List(ctx)
	if err != nil {
		return Hero{}, fmt.Errorf("create hero %q: %w", hero.Name, err)
	}

	taken := make(map[int]struct{}, len(existing))
	for _, h := range existing {
		if SameHero(h, hero) {
			return Hero{}, fmt.Errorf("create hero %q: %w", hero.Name, ErrDuplicateName)
		}
		taken[h.ID] = struct{}{}
	}

	if IsPlaceholderID(hero.ID) {
		id, idErr := s.ids.NextID(taken)
		if idErr != nil {
			return Hero{}, fmt.Errorf("create hero %q: %w", hero.Name, idErr)
		}
		slog.Info("no id supplied, using random id", "name", hero.Name, "id", id)
		hero.ID = id
	}

	data, err := EncodeHero(hero)
	if err != nil {
		return Hero{}, fmt.Errorf("create hero %q: %w", hero.Name, err)
	}

	key := BlobKey(hero.ID)
	if writeErr := s.store.Write(ctx, key, data, false); writeErr != nil {
		if errors.Is(writeErr, ErrAlreadyExists) {
			return Hero{}, fmt.Errorf("create hero %q: %s: %w", hero.Name, key, writeErr)
		}
		return Hero{}, fmt.Errorf("create hero %q: %w", hero.Name, storageError(writeErr))
	}

	return hero, nil
}

// Update replaces the first stored hero whose id matches hero.ID.
//
// Blobs are scanned in store order and the scan stops at the first match,
// which is overwritten in place with the full hero. Returns false without
// writing anything when no id matches. The name is not checked against
// other heroes, so an update can introduce a duplicate name.
func (s *HeroService) Update(ctx context.Context, hero Hero) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("update hero: %w", err)
	}

	s.lock()
	defer s.unlock()

	updated := false
	err := s.walk(ctx, func(blob string, existing Hero) (bool, error) {
		if existing.ID != hero.ID {
			return false, nil
		}

		data, encErr := EncodeHero(hero)
		if encErr != nil {
			return true, encErr
		}

		if writeErr := s.store.Write(ctx, blob, data, true); writeErr != nil {
			return true, storageError(writeErr)
		}

		updated = true
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("update hero %d: %w", hero.ID, err)
	}

	return updated, nil
}

// Delete removes the first stored hero whose id matches.
// Returns false and a nil error when no hero has the id.
func (s *HeroService) Delete(ctx context.Context, id int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("delete hero: %w", err)
	}

	s.lock()
	defer s.unlock()

	deleted := false
	err := s.walk(ctx, func(blob string, existing Hero) (bool, error) {
		if existing.ID != id {
			return false, nil
		}

		slog.Info("delete hero", "id", id, "blob", blob)
		delErr := s.store.Delete(ctx, blob)
		// Removed by someone else between the scan and the delete
		if errors.Is(delErr, ErrNotFound) {
			return true, nil
		}
		if delErr != nil {
			return true, storageError(delErr)
		}

		deleted = true
		return true, nil
	})
	if err != nil {
		return false, fmt.Errorf("delete hero %d: %w", id, err)
	}

	return deleted, nil
}

// Load creates each hero in turn and collects the outcome per hero.
// A failing hero does not stop the load; a cancelled context does.
func (s *HeroService) Load(ctx context.Context, heroes []Hero) (BulkResult, error) {
	result := BulkResult{
		Created: make([]Hero, 0, len(heroes)),
		Failed:  make([]BulkFailure, 0),
	}

	for _, h := range heroes {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("load heroes: %w", err)
		}

		created, err := s.Create(ctx, h, nil)
		if err != nil {
			result.Failed = append(result.Failed, BulkFailure{Hero: h, Error: err.Error()})
			continue
		}
		result.Created = append(result.Created, created)
	}

	return result, nil
}

// walk lists the container and decodes blobs one at a time, calling fn for
// each. It stops when fn returns true or an error.
func (s *HeroService) walk(ctx context.Context, fn func(blob string, h Hero) (bool, error)) error {
	items, err := s.store.List(ctx)
	if err != nil {
		return storageError(err)
	}

	for _, item := range items {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		data, readErr := s.store.Read(ctx, item.Name)
		if readErr != nil {
			return fmt.Errorf("read %s: %w", item.Name, storageError(readErr))
		}

		h, decodeErr := DecodeHero(data)
		if decodeErr != nil {
			return fmt.Errorf("blob %s: %w", item.Name, decodeErr)
		}

		done, fnErr := fn(item.Name, h)
		if fnErr != nil {
			return fnErr
		}
		if done {
			return nil
		}
	}

	return nil
}

func (s *HeroService) lock() {
	if s.serialize {
		s.mu.Lock()
	}
}

func (s *HeroService) unlock() {
	if s.serialize {
		s.mu.Unlock()
	}
}

// storageError marks a gateway failure as ErrStorageUnavailable.
// Context errors pass through untouched.
func storageError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrStorageUnavailable) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}
