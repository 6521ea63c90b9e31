// Package storage provides item storage abstractions and implementations.
//
// It defines the ItemStore interface for storing, retrieving, and managing
// catalog items, along with the in-memory implementation backing the API.
//
// Key types:
//
//   - ItemStore: Interface defining the contract for item storage backends
//   - InMemoryItemStore: Thread-safe in-memory implementation of ItemStore
//
// The ItemStore interface supports:
//
//   - CRUD operations (Create, Get, Update, Delete)
//   - Paginated listing in insertion order
//   - Criteria search with ANDed predicates
//   - Bulk create, update, and delete under a single lock acquisition
//   - Counting, clearing, and non-blocking stats probes
//
// All mutating operations validate their payloads before touching state,
// so a failed call never leaves a partial write behind. Returned items are
// clones; the store's own records are never exposed to callers.
package storage
