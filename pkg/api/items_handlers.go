package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
	"github.com/k8s-lovers-korea/test-go-app/pkg/metrics"
	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// defaultListLimit is the page size when the limit query parameter is
// absent.
const defaultListLimit = 100

// handleCreateItem handles POST /items.
func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req item.CreateRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	created, err := s.store.Create(&req)
	if err != nil {
		s.writeStoreError(w, err, "create item")
		return
	}

	addCounter(metrics.ItemsCreatedTotal, 1)
	s.recordItemsCount()
	writeJSON(w, http.StatusCreated, created)
}

// handleListItems handles GET /items with skip/limit pagination.
func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	skip, ok := intQuery(r, "skip", 0)
	if !ok {
		s.writeFieldErrors(w, validation.NewTypeError("skip", validation.LocationQuery,
			"integer", r.URL.Query().Get("skip")))
		return
	}
	limit, ok := intQuery(r, "limit", defaultListLimit)
	if !ok {
		s.writeFieldErrors(w, validation.NewTypeError("limit", validation.LocationQuery,
			"integer", r.URL.Query().Get("limit")))
		return
	}

	items, err := s.store.List(skip, limit)
	if err != nil {
		s.writeStoreError(w, err, "list items")
		return
	}
	writeJSON(w, http.StatusOK, items)
}

// handleGetItem handles GET /items/{id}.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	found, err := s.store.Get(r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err, "get item")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

// handleUpdateItem handles PUT /items/{id}. An empty body is a valid
// no-field update that still refreshes the item's update timestamp.
func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req item.UpdateRequest
	if err := decodeOptionalJSONBody(r, &req); err != nil {
		s.log.Debug("invalid request body", "path", r.URL.Path, "error", err)
		s.writeFieldErrors(w, validation.NewInvalidJSONError(err.Error()))
		return
	}

	updated, err := s.store.Update(r.PathValue("id"), &req)
	if err != nil {
		s.writeStoreError(w, err, "update item")
		return
	}

	addCounter(metrics.ItemsUpdatedTotal, 1)
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteItem handles DELETE /items/{id}, returning the removed item.
func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")
	removed, err := s.store.Delete(itemID)
	if err != nil {
		s.writeStoreError(w, err, "delete item")
		return
	}

	addCounter(metrics.ItemsDeletedTotal, 1)
	s.recordItemsCount()
	writeJSON(w, http.StatusOK, DeleteItemResponse{
		Message: fmt.Sprintf("Item %s deleted successfully", itemID),
		Item:    removed,
	})
}

// handleSearchItems handles GET /items/search. All predicates are
// optional and ANDed; tags may repeat or be comma-separated.
func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	minPrice, ok := floatQuery(r, "min_price")
	if !ok {
		s.writeFieldErrors(w, validation.NewTypeError("min_price", validation.LocationQuery,
			"number", q.Get("min_price")))
		return
	}
	maxPrice, ok := floatQuery(r, "max_price")
	if !ok {
		s.writeFieldErrors(w, validation.NewTypeError("max_price", validation.LocationQuery,
			"number", q.Get("max_price")))
		return
	}
	inStock, ok := boolQuery(r, "in_stock")
	if !ok {
		s.writeFieldErrors(w, validation.NewTypeError("in_stock", validation.LocationQuery,
			"boolean", q.Get("in_stock")))
		return
	}

	var tags []string
	for _, raw := range q["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	criteria := &item.SearchCriteria{
		Query:    q.Get("query"),
		MinPrice: minPrice,
		MaxPrice: maxPrice,
		InStock:  inStock,
		Tags:     tags,
	}

	results, err := s.store.Search(criteria)
	if err != nil {
		s.writeStoreError(w, err, "search items")
		return
	}

	addCounter(metrics.SearchesTotal, 1)
	writeJSON(w, http.StatusOK, results)
}

// handleBulkCreateItems handles POST /items/bulk. The batch is all-or-
// nothing: any invalid payload rejects the whole request.
func (s *Server) handleBulkCreateItems(w http.ResponseWriter, r *http.Request) {
	var req BulkCreateRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	created, err := s.store.BulkCreate(req.Items)
	if err != nil {
		s.writeStoreError(w, err, "bulk create items")
		return
	}

	addCounter(metrics.ItemsCreatedTotal, float64(len(created)))
	s.recordItemsCount()
	writeJSON(w, http.StatusCreated, created)
}

// handleBulkUpdateItems handles PUT /items/bulk-update, partitioning the
// batch into updated items and not-found IDs.
func (s *Server) handleBulkUpdateItems(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if !s.decodeJSONBody(w, r, &req) {
		return
	}

	result, err := s.store.BulkUpdate(req.Updates)
	if err != nil {
		s.writeStoreError(w, err, "bulk update items")
		return
	}

	addCounter(metrics.ItemsUpdatedTotal, float64(len(result.Updated)))
	writeJSON(w, http.StatusOK, BulkUpdateResponse{
		Updated:       result.Updated,
		UpdatedCount:  len(result.Updated),
		NotFoundIDs:   result.NotFoundIDs,
		NotFoundCount: len(result.NotFoundIDs),
	})
}

// handleBulkDeleteItems handles POST /items/delete. The body is a bare
// JSON array of item IDs.
func (s *Server) handleBulkDeleteItems(w http.ResponseWriter, r *http.Request) {
	var ids []string
	if !s.decodeJSONBody(w, r, &ids) {
		return
	}

	result, err := s.store.BulkDelete(ids)
	if err != nil {
		s.writeStoreError(w, err, "bulk delete items")
		return
	}

	addCounter(metrics.ItemsDeletedTotal, float64(len(result.Deleted)))
	s.recordItemsCount()
	writeJSON(w, http.StatusOK, BulkDeleteResponse{
		Message:       "Bulk delete completed",
		DeletedCount:  len(result.Deleted),
		NotFoundCount: len(result.NotFoundIDs),
		DeletedItems:  result.Deleted,
		NotFoundIDs:   result.NotFoundIDs,
	})
}
