package item

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k8s-lovers-korea/test-go-app/pkg/validation"
)

func boolPtr(b bool) *bool {
	return &b
}

func strPtr(s string) *string {
	return &s
}

func floatPtr(f float64) *float64 {
	return &f
}

func tagsPtr(t []string) *[]string {
	return &t
}

func TestCreateRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      CreateRequest
		wantCode string
	}{
		{
			name: "valid",
			req:  CreateRequest{Name: "Laptop", Price: 999.99},
		},
		{
			name:     "missing name",
			req:      CreateRequest{Price: 10},
			wantCode: validation.ErrCodeRequired,
		},
		{
			name:     "whitespace name",
			req:      CreateRequest{Name: "   ", Price: 10},
			wantCode: validation.ErrCodeRequired,
		},
		{
			name:     "name too long",
			req:      CreateRequest{Name: strings.Repeat("x", 101), Price: 10},
			wantCode: validation.ErrCodeMaxLength,
		},
		{
			name:     "description too long",
			req:      CreateRequest{Name: "ok", Description: strings.Repeat("d", 501), Price: 10},
			wantCode: validation.ErrCodeMaxLength,
		},
		{
			name:     "zero price",
			req:      CreateRequest{Name: "ok", Price: 0},
			wantCode: validation.ErrCodeExclusiveMin,
		},
		{
			name:     "negative price",
			req:      CreateRequest{Name: "ok", Price: -5},
			wantCode: validation.ErrCodeExclusiveMin,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.req.Validate()
			if tt.wantCode == "" {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.True(t, result.HasErrors())
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
		})
	}
}

func TestCreateRequest_ValidateCollectsAllErrors(t *testing.T) {
	req := CreateRequest{Description: strings.Repeat("d", 501), Price: -1}
	result := req.Validate()
	require.Len(t, result.Errors, 3) // name, description, price
}

func TestCreateRequest_NewItemDefaults(t *testing.T) {
	it := (&CreateRequest{Name: "Laptop", Price: 999.99}).NewItem()

	assert.True(t, it.InStock, "in_stock should default to true")
	require.NotNil(t, it.Tags, "tags should never be nil")
	assert.Empty(t, it.Tags)
	assert.Empty(t, it.ID)
	assert.True(t, it.CreatedAt.IsZero())

	it = (&CreateRequest{Name: "Out", Price: 1, InStock: boolPtr(false)}).NewItem()
	assert.False(t, it.InStock)
}

func TestItem_Clone(t *testing.T) {
	orig := (&CreateRequest{Name: "Laptop", Price: 1, Tags: []string{"a", "b"}}).NewItem()
	clone := orig.Clone()

	clone.Name = "changed"
	clone.Tags[0] = "z"

	assert.Equal(t, "Laptop", orig.Name)
	assert.Equal(t, "a", orig.Tags[0])
}

func TestUpdateRequest_IsZero(t *testing.T) {
	assert.True(t, (&UpdateRequest{}).IsZero())
	assert.False(t, (&UpdateRequest{Name: strPtr("n")}).IsZero())
	assert.False(t, (&UpdateRequest{Tags: tagsPtr(nil)}).IsZero())
}

func TestUpdateRequest_Validate(t *testing.T) {
	tests := []struct {
		name     string
		req      UpdateRequest
		wantCode string
	}{
		{name: "empty update is valid", req: UpdateRequest{}},
		{name: "valid name", req: UpdateRequest{Name: strPtr("new name")}},
		{name: "empty name", req: UpdateRequest{Name: strPtr("")}, wantCode: validation.ErrCodeMinLength},
		{name: "name too long", req: UpdateRequest{Name: strPtr(strings.Repeat("x", 101))}, wantCode: validation.ErrCodeMaxLength},
		{name: "description too long", req: UpdateRequest{Description: strPtr(strings.Repeat("d", 501))}, wantCode: validation.ErrCodeMaxLength},
		{name: "zero price", req: UpdateRequest{Price: floatPtr(0)}, wantCode: validation.ErrCodeExclusiveMin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.req.Validate()
			if tt.wantCode == "" {
				assert.True(t, result.Valid, "errors: %v", result.Errors)
				return
			}
			require.True(t, result.HasErrors())
			assert.Equal(t, tt.wantCode, result.Errors[0].Code)
		})
	}
}

func TestUpdateRequest_Apply(t *testing.T) {
	it := (&CreateRequest{Name: "Laptop", Description: "old", Price: 10, Tags: []string{"a"}}).NewItem()

	upd := UpdateRequest{
		Price:   floatPtr(20),
		InStock: boolPtr(false),
	}
	upd.Apply(it)

	assert.Equal(t, "Laptop", it.Name, "unset fields stay")
	assert.Equal(t, "old", it.Description)
	assert.Equal(t, 20.0, it.Price)
	assert.False(t, it.InStock)
	assert.Equal(t, []string{"a"}, it.Tags)
}

func TestUpdateRequest_ApplyTagsToEmpty(t *testing.T) {
	it := (&CreateRequest{Name: "Laptop", Price: 10, Tags: []string{"a"}}).NewItem()

	// Setting tags to an explicit empty list clears them; absent tags leave
	// them alone. The pointer-to-slice keeps the two distinguishable.
	(&UpdateRequest{Tags: tagsPtr([]string{})}).Apply(it)
	require.NotNil(t, it.Tags)
	assert.Empty(t, it.Tags)
}

func TestUpdateRequest_JSONRoundTripKeepsAbsence(t *testing.T) {
	var upd UpdateRequest
	require.NoError(t, json.Unmarshal([]byte(`{"price": 5.5}`), &upd))

	assert.Nil(t, upd.Name)
	assert.Nil(t, upd.Tags)
	require.NotNil(t, upd.Price)
	assert.Equal(t, 5.5, *upd.Price)
}

func TestUpdateWithID_Validate(t *testing.T) {
	u := UpdateWithID{UpdateRequest: UpdateRequest{Price: floatPtr(1)}}
	result := u.Validate()
	require.True(t, result.HasErrors())
	assert.Equal(t, validation.ErrCodeRequired, result.Errors[0].Code)
	assert.Equal(t, "id", result.Errors[0].Field)

	u.ID = "abc"
	assert.True(t, u.Validate().Valid)
}

func TestSearchCriteria_Validate(t *testing.T) {
	assert.True(t, (&SearchCriteria{}).Validate().Valid)
	assert.True(t, (&SearchCriteria{MinPrice: floatPtr(0)}).Validate().Valid)

	result := (&SearchCriteria{MinPrice: floatPtr(-1)}).Validate()
	require.True(t, result.HasErrors())
	assert.Equal(t, "min_price", result.Errors[0].Field)

	result = (&SearchCriteria{MaxPrice: floatPtr(-0.5)}).Validate()
	require.True(t, result.HasErrors())
	assert.Equal(t, "max_price", result.Errors[0].Field)
}

func TestSearchCriteria_Matches(t *testing.T) {
	laptop := &Item{Name: "Gaming Laptop", Description: "Fast machine", Price: 1500, InStock: true, Tags: []string{"gaming", "computers"}}
	chair := &Item{Name: "Office Chair", Price: 200, InStock: false, Tags: []string{"office"}}
	plain := &Item{Name: "Plain Box", Price: 15, InStock: true, Tags: []string{}}

	tests := []struct {
		name     string
		criteria SearchCriteria
		item     *Item
		want     bool
	}{
		{"no criteria matches all", SearchCriteria{}, chair, true},
		{"query matches name case-insensitively", SearchCriteria{Query: "gaming"}, laptop, true},
		{"query matches description", SearchCriteria{Query: "fast"}, laptop, true},
		{"query no match", SearchCriteria{Query: "desk"}, laptop, false},
		{"query does not match empty description", SearchCriteria{Query: "fast"}, chair, false},
		{"min price inclusive", SearchCriteria{MinPrice: floatPtr(1500)}, laptop, true},
		{"min price excludes below", SearchCriteria{MinPrice: floatPtr(1501)}, laptop, false},
		{"max price inclusive", SearchCriteria{MaxPrice: floatPtr(1500)}, laptop, true},
		{"max price excludes above", SearchCriteria{MaxPrice: floatPtr(1499)}, laptop, false},
		{"in stock match", SearchCriteria{InStock: boolPtr(true)}, laptop, true},
		{"in stock mismatch", SearchCriteria{InStock: boolPtr(true)}, chair, false},
		{"tag any-of matches", SearchCriteria{Tags: []string{"gaming", "unused"}}, laptop, true},
		{"tag filter excludes others", SearchCriteria{Tags: []string{"gaming"}}, chair, false},
		{"empty item tags never match tag filter", SearchCriteria{Tags: []string{"gaming"}}, plain, false},
		{"combined predicates AND", SearchCriteria{Query: "laptop", MinPrice: floatPtr(1000), InStock: boolPtr(true)}, laptop, true},
		{"combined predicates fail on one", SearchCriteria{Query: "laptop", MinPrice: floatPtr(2000)}, laptop, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.criteria.Matches(tt.item))
		})
	}
}
