package storage

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/internal/id"
	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// InMemoryItemStore is a thread-safe in-memory implementation of ItemStore.
//
// A single RWMutex guards the backing map. Public operations acquire it
// exactly once and delegate to unexported *Locked helpers, so bulk
// operations run their whole batch inside one acquisition and can never
// self-deadlock. Insertion order is tracked alongside the map because
// pagination windows and search snapshots must stay stable across calls,
// and Go map iteration order is randomized.
//
// Items handed out are always clones; callers can never observe or cause
// mutation of shared state through a returned pointer.
type InMemoryItemStore struct {
	mu    sync.RWMutex
	items map[string]*item.Item
	order []string
}

// NewInMemoryItemStore creates an empty InMemoryItemStore.
func NewInMemoryItemStore() *InMemoryItemStore {
	return &InMemoryItemStore{
		items: make(map[string]*item.Item),
	}
}

// Create validates the payload, assigns a fresh ID and timestamps, and
// stores the item.
func (s *InMemoryItemStore) Create(req *item.CreateRequest) (*item.Item, error) {
	if req == nil {
		req = &item.CreateRequest{}
	}
	if err := req.Validate().Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createLocked(req), nil
}

// createLocked inserts a validated payload. Callers must hold the write
// lock.
func (s *InMemoryItemStore) createLocked(req *item.CreateRequest) *item.Item {
	it := req.NewItem()
	it.ID = id.New()

	// One stamp for both fields: updated_at equals created_at until the
	// first update.
	now := time.Now().UTC()
	it.CreatedAt = now
	it.UpdatedAt = now

	s.items[it.ID] = it
	s.order = append(s.order, it.ID)
	return it.Clone()
}

// Get returns the item under itemID, or ErrNotFound.
func (s *InMemoryItemStore) Get(itemID string) (*item.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	it, ok := s.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}
	return it.Clone(), nil
}

// Update applies the set fields of upd to the item under itemID and
// refreshes its update timestamp, even when no fields are set.
func (s *InMemoryItemStore) Update(itemID string, upd *item.UpdateRequest) (*item.Item, error) {
	if upd == nil {
		upd = &item.UpdateRequest{}
	}
	if err := upd.Validate().Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updateLocked(itemID, upd)
}

// updateLocked applies a validated update. Callers must hold the write
// lock. The only error it returns is ErrNotFound.
func (s *InMemoryItemStore) updateLocked(itemID string, upd *item.UpdateRequest) (*item.Item, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}

	upd.Apply(it)
	it.UpdatedAt = nextTimestamp(it.UpdatedAt)
	return it.Clone(), nil
}

// Delete removes and returns the item under itemID, or ErrNotFound.
func (s *InMemoryItemStore) Delete(itemID string) (*item.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.deleteLocked(itemID)
}

// deleteLocked removes an item. Callers must hold the write lock. The only
// error it returns is ErrNotFound.
func (s *InMemoryItemStore) deleteLocked(itemID string) (*item.Item, error) {
	it, ok := s.items[itemID]
	if !ok {
		return nil, ErrNotFound
	}

	delete(s.items, itemID)
	for i, oid := range s.order {
		if oid == itemID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return it, nil
}

// List returns a pagination window over a consistent snapshot in insertion
// order. A skip beyond the end yields an empty slice.
func (s *InMemoryItemStore) List(skip, limit int) ([]*item.Item, error) {
	result := validation.NewResult()
	if skip < 0 {
		result.AddError(validation.NewMinError("skip", validation.LocationQuery, 0, skip))
	}
	if limit < 1 {
		result.AddError(validation.NewMinError("limit", validation.LocationQuery, 1, limit))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if skip >= len(s.order) {
		return []*item.Item{}, nil
	}
	end := skip + limit
	if end > len(s.order) {
		end = len(s.order)
	}

	window := make([]*item.Item, 0, end-skip)
	for _, itemID := range s.order[skip:end] {
		window = append(window, s.items[itemID].Clone())
	}
	return window, nil
}

// Search returns the items matching every specified criteria predicate, in
// snapshot order. A nil criteria matches everything.
func (s *InMemoryItemStore) Search(criteria *item.SearchCriteria) ([]*item.Item, error) {
	if criteria == nil {
		criteria = &item.SearchCriteria{}
	}
	if err := criteria.Validate().Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*item.Item, 0)
	for _, itemID := range s.order {
		if it := s.items[itemID]; criteria.Matches(it) {
			results = append(results, it.Clone())
		}
	}
	return results, nil
}

// BulkCreate creates all payloads under one lock acquisition. The whole
// batch is rejected when the batch bounds or any payload fail validation.
func (s *InMemoryItemStore) BulkCreate(reqs []*item.CreateRequest) ([]*item.Item, error) {
	result := batchSizeResult("items", len(reqs))
	for i, req := range reqs {
		if req == nil {
			result.AddError(validation.NewTypeError(fmt.Sprintf("items[%d]", i), validation.LocationBody, "object", nil))
			continue
		}
		result.Merge(prefixFields(req.Validate(), fmt.Sprintf("items[%d]", i)))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	created := make([]*item.Item, 0, len(reqs))
	for _, req := range reqs {
		created = append(created, s.createLocked(req))
	}
	return created, nil
}

// BulkUpdate applies all updates under one lock acquisition, partitioning
// results into updated items and not-found IDs. The whole batch is
// rejected when the batch bounds or any update fail validation.
func (s *InMemoryItemStore) BulkUpdate(updates []*item.UpdateWithID) (*BulkUpdateResult, error) {
	result := batchSizeResult("updates", len(updates))
	for i, upd := range updates {
		if upd == nil {
			result.AddError(validation.NewTypeError(fmt.Sprintf("updates[%d]", i), validation.LocationBody, "object", nil))
			continue
		}
		result.Merge(prefixFields(upd.Validate(), fmt.Sprintf("updates[%d]", i)))
	}
	if err := result.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &BulkUpdateResult{
		Updated:     []*item.Item{},
		NotFoundIDs: []string{},
	}
	for _, upd := range updates {
		updated, err := s.updateLocked(upd.ID, &upd.UpdateRequest)
		if errors.Is(err, ErrNotFound) {
			res.NotFoundIDs = append(res.NotFoundIDs, upd.ID)
			continue
		}
		res.Updated = append(res.Updated, updated)
	}
	return res, nil
}

// BulkDelete removes all ids under one lock acquisition, partitioning
// results into deleted items and not-found IDs.
func (s *InMemoryItemStore) BulkDelete(ids []string) (*BulkDeleteResult, error) {
	if len(ids) < 1 {
		result := validation.NewResult()
		result.AddError(validation.NewMinItemsError("item_ids", validation.LocationBody, 1, len(ids)))
		return nil, result.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res := &BulkDeleteResult{
		Deleted:     make(map[string]*item.Item),
		NotFoundIDs: []string{},
	}
	for _, itemID := range ids {
		it, err := s.deleteLocked(itemID)
		if errors.Is(err, ErrNotFound) {
			res.NotFoundIDs = append(res.NotFoundIDs, itemID)
			continue
		}
		res.Deleted[itemID] = it
	}
	return res, nil
}

// Count returns the number of stored items.
func (s *InMemoryItemStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Clear removes all stored items.
func (s *InMemoryItemStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*item.Item)
	s.order = nil
}

// Stats reports the item count and whether the store lock is free. The
// availability probe itself never blocks; the count falls back to a read
// lock when the probe fails.
func (s *InMemoryItemStore) Stats() Stats {
	if s.mu.TryLock() {
		st := Stats{ItemsCount: len(s.items), LockAvailable: true}
		s.mu.Unlock()
		return st
	}

	// The write lock is held or readers are active; a read lock still
	// gives a consistent count.
	s.mu.RLock()
	st := Stats{ItemsCount: len(s.items), LockAvailable: false}
	s.mu.RUnlock()
	return st
}

// nextTimestamp returns the current time, nudged past prev when the clock
// has not advanced; updated_at must strictly increase on every mutation.
func nextTimestamp(prev time.Time) time.Time {
	now := time.Now().UTC()
	if !now.After(prev) {
		return prev.Add(time.Nanosecond)
	}
	return now
}

// batchSizeResult checks a bulk batch against the item batch bounds.
func batchSizeResult(field string, n int) *validation.Result {
	result := validation.NewResult()
	if n < item.BulkMinItems {
		result.AddError(validation.NewMinItemsError(field, validation.LocationBody, item.BulkMinItems, n))
	} else if n > item.BulkMaxItems {
		result.AddError(validation.NewMaxItemsError(field, validation.LocationBody, item.BulkMaxItems, n))
	}
	return result
}

// prefixFields rewrites the field names of a batch element's validation
// result so errors point at the offending element, e.g. "items[2].price".
func prefixFields(res *validation.Result, prefix string) *validation.Result {
	for _, fe := range res.Errors {
		if fe.Field == "" {
			fe.Field = prefix
		} else {
			fe.Field = prefix + "." + fe.Field
		}
	}
	return res
}

// Ensure InMemoryItemStore implements ItemStore.
var _ ItemStore = (*InMemoryItemStore)(nil)
