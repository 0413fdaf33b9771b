package testutil

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/opencirc/circulation-engine-go/circulation"
)

// FakeHolderDirectory is an in-memory circulation.HolderDirectory for tests.
type FakeHolderDirectory struct {
	mu      sync.RWMutex
	holders map[uuid.UUID]circulation.Holder
}

// NewFakeHolderDirectory creates an empty directory.
func NewFakeHolderDirectory() *FakeHolderDirectory {
	return &FakeHolderDirectory{
		holders: make(map[uuid.UUID]circulation.Holder),
	}
}

// AddActiveHolder registers an active holder and returns its ID.
func (d *FakeHolderDirectory) AddActiveHolder(name string) uuid.UUID {
	return d.AddHolder(circulation.Holder{ID: uuid.New(), Name: name, Active: true})
}

// AddInactiveHolder registers an inactive holder and returns its ID.
func (d *FakeHolderDirectory) AddInactiveHolder(name string) uuid.UUID {
	return d.AddHolder(circulation.Holder{ID: uuid.New(), Name: name, Active: false})
}

// AddHolder registers the given holder record.
func (d *FakeHolderDirectory) AddHolder(holder circulation.Holder) uuid.UUID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.holders[holder.ID] = holder

	return holder.ID
}

// Deactivate flips the holder to inactive.
func (d *FakeHolderDirectory) Deactivate(holderID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if holder, exists := d.holders[holderID]; exists {
		holder.Active = false
		d.holders[holderID] = holder
	}
}

// GetHolder implements circulation.HolderDirectory.
func (d *FakeHolderDirectory) GetHolder(_ context.Context, holderID uuid.UUID) (circulation.Holder, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	holder, exists := d.holders[holderID]
	if !exists {
		return circulation.Holder{}, circulation.ErrHolderNotFound
	}

	return holder, nil
}

var _ circulation.HolderDirectory = (*FakeHolderDirectory)(nil)
