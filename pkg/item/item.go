// Package item defines the item records served by the catalog API and the
// request payloads that create, update, and search them.
package item

import (
	"strings"
	"time"

	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

// Field bounds enforced on item payloads.
const (
	NameMinLength        = 1
	NameMaxLength        = 100
	DescriptionMaxLength = 500

	// BulkMinItems and BulkMaxItems bound the batch size of bulk create
	// and bulk update requests.
	BulkMinItems = 1
	BulkMaxItems = 100
)

// Item is a single record in the in-memory catalog.
//
// ID is server-assigned and immutable. CreatedAt and UpdatedAt are stamped
// by the store; UpdatedAt equals CreatedAt until the first update and is
// refreshed on every mutation.
type Item struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       float64   `json:"price"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Tags        []string  `json:"tags"`
}

// Clone returns a deep copy of the item. The store hands out clones so
// callers can never observe (or cause) mutation of shared state.
func (i *Item) Clone() *Item {
	if i == nil {
		return nil
	}
	c := *i
	c.Tags = append([]string(nil), i.Tags...)
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return &c
}

// CreateRequest is the payload for creating an item.
//
// InStock is a pointer so an absent field can default to true, matching
// the catalog's historical behavior.
type CreateRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	InStock     *bool    `json:"in_stock,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// Validate checks the payload against the item field bounds.
func (r *CreateRequest) Validate() *validation.Result {
	result := validation.NewResult()

	switch {
	case strings.TrimSpace(r.Name) == "":
		result.AddError(validation.NewRequiredError("name", validation.LocationBody))
	case len(r.Name) > NameMaxLength:
		result.AddError(validation.NewMaxLengthError("name", validation.LocationBody, NameMaxLength, len(r.Name)))
	}

	if len(r.Description) > DescriptionMaxLength {
		result.AddError(validation.NewMaxLengthError("description", validation.LocationBody, DescriptionMaxLength, len(r.Description)))
	}

	if r.Price <= 0 {
		result.AddError(validation.NewExclusiveMinError("price", validation.LocationBody, 0, r.Price))
	}

	return result
}

// NewItem builds an Item from the payload with defaults applied. The store
// assigns ID and timestamps; they are zero here.
func (r *CreateRequest) NewItem() *Item {
	inStock := true
	if r.InStock != nil {
		inStock = *r.InStock
	}
	tags := append([]string(nil), r.Tags...)
	if tags == nil {
		tags = []string{}
	}
	return &Item{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		InStock:     inStock,
		Tags:        tags,
	}
}

// UpdateRequest is a partial update. Only non-nil fields are applied; the
// item ID itself is never updatable. Tags is a pointer to a slice so that
// "set tags to empty" and "leave tags alone" stay distinguishable.
type UpdateRequest struct {
	Name        *string   `json:"name,omitempty"`
	Description *string   `json:"description,omitempty"`
	Price       *float64  `json:"price,omitempty"`
	InStock     *bool     `json:"in_stock,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
}

// IsZero reports whether no fields are set.
func (r *UpdateRequest) IsZero() bool {
	return r.Name == nil && r.Description == nil && r.Price == nil &&
		r.InStock == nil && r.Tags == nil
}

// Validate checks every set field against the item field bounds.
func (r *UpdateRequest) Validate() *validation.Result {
	result := validation.NewResult()

	if r.Name != nil {
		switch {
		case strings.TrimSpace(*r.Name) == "":
			result.AddError(validation.NewMinLengthError("name", validation.LocationBody, NameMinLength, len(*r.Name)))
		case len(*r.Name) > NameMaxLength:
			result.AddError(validation.NewMaxLengthError("name", validation.LocationBody, NameMaxLength, len(*r.Name)))
		}
	}

	if r.Description != nil && len(*r.Description) > DescriptionMaxLength {
		result.AddError(validation.NewMaxLengthError("description", validation.LocationBody, DescriptionMaxLength, len(*r.Description)))
	}

	if r.Price != nil && *r.Price <= 0 {
		result.AddError(validation.NewExclusiveMinError("price", validation.LocationBody, 0, *r.Price))
	}

	return result
}

// Apply copies every set field onto the item. The caller refreshes
// UpdatedAt; Apply itself never touches ID or timestamps.
func (r *UpdateRequest) Apply(it *Item) {
	if r.Name != nil {
		it.Name = *r.Name
	}
	if r.Description != nil {
		it.Description = *r.Description
	}
	if r.Price != nil {
		it.Price = *r.Price
	}
	if r.InStock != nil {
		it.InStock = *r.InStock
	}
	if r.Tags != nil {
		tags := append([]string(nil), (*r.Tags)...)
		if tags == nil {
			tags = []string{}
		}
		it.Tags = tags
	}
}

// UpdateWithID pairs a partial update with the target item ID, for bulk
// updates.
type UpdateWithID struct {
	ID string `json:"id"`
	UpdateRequest
}

// Validate checks the target ID and the embedded update fields.
func (u *UpdateWithID) Validate() *validation.Result {
	result := validation.NewResult()
	if u.ID == "" {
		result.AddError(validation.NewRequiredError("id", validation.LocationBody))
	}
	result.Merge(u.UpdateRequest.Validate())
	return result
}

// SearchCriteria holds the optional predicates of a search call. A nil
// pointer or empty field means "not specified".
type SearchCriteria struct {
	Query    string   `json:"query,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	InStock  *bool    `json:"in_stock,omitempty"`
	Tags     []string `json:"tags,omitempty"`
}

// Validate rejects negative price bounds.
func (c *SearchCriteria) Validate() *validation.Result {
	result := validation.NewResult()
	if c.MinPrice != nil && *c.MinPrice < 0 {
		result.AddError(validation.NewMinError("min_price", validation.LocationQuery, 0, *c.MinPrice))
	}
	if c.MaxPrice != nil && *c.MaxPrice < 0 {
		result.AddError(validation.NewMinError("max_price", validation.LocationQuery, 0, *c.MaxPrice))
	}
	return result
}

// Matches reports whether the item satisfies every specified predicate.
// Predicates are ANDed:
//
//   - Query: case-insensitive substring match against name or description.
//   - MinPrice, MaxPrice: inclusive bounds.
//   - InStock: exact match.
//   - Tags: the item must carry at least one of the criteria tags; an item
//     with no tags never matches a non-empty tag filter.
func (c *SearchCriteria) Matches(it *Item) bool {
	if c.Query != "" {
		q := strings.ToLower(c.Query)
		inName := strings.Contains(strings.ToLower(it.Name), q)
		inDescription := it.Description != "" && strings.Contains(strings.ToLower(it.Description), q)
		if !inName && !inDescription {
			return false
		}
	}

	if c.MinPrice != nil && it.Price < *c.MinPrice {
		return false
	}
	if c.MaxPrice != nil && it.Price > *c.MaxPrice {
		return false
	}

	if c.InStock != nil && it.InStock != *c.InStock {
		return false
	}

	if len(c.Tags) > 0 {
		if len(it.Tags) == 0 {
			return false
		}
		found := false
		for _, want := range c.Tags {
			for _, have := range it.Tags {
				if have == want {
					found = true
					break
				}
			}
			if found {
				break
			}
		}
		if !found {
			return false
		}
	}

	return true
}
