package snapshot

import (
	"context"

	"github.com/eduline/eduline-client/internal/client/repositories/metadata"
)

// Adapter binds the snapshot codec to the durable key-value store under a
// single key. Absence of the key is a valid "logged out" state.
type Adapter struct {
	repo metadata.Repository
}

// NewAdapter constructs an Adapter over the given repository.
func NewAdapter(repo metadata.Repository) *Adapter {
	return &Adapter{repo: repo}
}

// Load reads the persisted snapshot. Returns (nil, nil) when none exists.
func (a *Adapter) Load(ctx context.Context) (*Snapshot, error) {
	data, err := a.repo.Get(ctx, Key)
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}

	s, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Save overwrites the persisted snapshot.
func (a *Adapter) Save(ctx context.Context, s Snapshot) error {
	data, err := Encode(s)
	if err != nil {
		return err
	}
	return a.repo.Set(ctx, Key, data)
}

// Clear removes the persisted snapshot. Idempotent.
func (a *Adapter) Clear(ctx context.Context) error {
	return a.repo.Delete(ctx, Key)
}
