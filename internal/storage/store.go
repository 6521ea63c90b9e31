// Package storage provides item storage abstractions and implementations.
package storage

import (
	"errors"

	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
)

// ErrNotFound is returned when no item exists under the requested ID.
var ErrNotFound = errors.New("item not found")

// ItemStore defines the contract for item storage backends.
//
// Every operation either fully succeeds or returns ErrNotFound or a
// *validation.Error; no partial mutation is ever left visible. Bulk
// operations apply their whole batch under a single lock acquisition.
type ItemStore interface {
	// Create validates the payload, assigns a fresh ID and timestamps, and
	// stores the item. Returns the stored copy.
	Create(req *item.CreateRequest) (*item.Item, error)

	// Get returns the item under id, or ErrNotFound.
	Get(id string) (*item.Item, error)

	// Update applies the set fields of upd to the item under id and
	// refreshes its update timestamp. Returns ErrNotFound when absent.
	// The item ID is never mutated.
	Update(id string, upd *item.UpdateRequest) (*item.Item, error)

	// Delete removes and returns the item under id, or ErrNotFound.
	Delete(id string) (*item.Item, error)

	// List returns a pagination window over a consistent snapshot in
	// insertion order. skip must be >= 0 and limit >= 1; a skip beyond the
	// end yields an empty slice, never an error.
	List(skip, limit int) ([]*item.Item, error)

	// Search returns the items matching every specified criteria
	// predicate, in snapshot order.
	Search(criteria *item.SearchCriteria) ([]*item.Item, error)

	// BulkCreate creates all payloads atomically. The whole batch is
	// rejected when the batch bounds or any payload fail validation;
	// there is no partial insert.
	BulkCreate(reqs []*item.CreateRequest) ([]*item.Item, error)

	// BulkUpdate applies all updates under one lock acquisition,
	// partitioning results into updated items and not-found IDs.
	BulkUpdate(updates []*item.UpdateWithID) (*BulkUpdateResult, error)

	// BulkDelete removes all ids under one lock acquisition, partitioning
	// results into deleted items and not-found IDs.
	BulkDelete(ids []string) (*BulkDeleteResult, error)

	// Count returns the number of stored items.
	Count() int

	// Clear removes all stored items.
	Clear()

	// Stats reports read-only store introspection without blocking.
	Stats() Stats
}

// BulkUpdateResult partitions a bulk update into outcomes.
type BulkUpdateResult struct {
	Updated     []*item.Item
	NotFoundIDs []string
}

// BulkDeleteResult partitions a bulk delete into outcomes.
type BulkDeleteResult struct {
	Deleted     map[string]*item.Item
	NotFoundIDs []string
}

// Stats is a point-in-time, non-blocking view of the store.
type Stats struct {
	// ItemsCount is the number of stored items.
	ItemsCount int

	// LockAvailable reports whether the store lock could be acquired
	// without blocking at probe time.
	LockAvailable bool
}
