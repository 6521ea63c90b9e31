package performance

import (
	"fmt"
	"testing"

	"github.com/k8s-lovers-korea/test-go-app/internal/storage"
	"github.com/k8s-lovers-korea/test-go-app/pkg/item"
)

// Store benchmarks measure the in-memory store directly, without the HTTP
// stack, to isolate data-path costs from transport costs.

func BenchmarkStore_Create(b *testing.B) {
	store := storage.NewInMemoryItemStore()
	req := &item.CreateRequest{Name: "Widget", Price: 9.99, Tags: []string{"bench"}}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Create(req); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStore_Get(b *testing.B) {
	store := storage.NewInMemoryItemStore()
	created, err := store.Create(&item.CreateRequest{Name: "Widget", Price: 9.99})
	if err != nil {
		b.Fatal(err)
	}
	seedStore(store, 10000)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Get(created.ID); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkStore_List(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			store := storage.NewInMemoryItemStore()
			seedStore(store, size)

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.List(0, 100); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStore_Search(b *testing.B) {
	for _, size := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("%d", size), func(b *testing.B) {
			store := storage.NewInMemoryItemStore()
			seedStore(store, size)
			minPrice := 100.0
			criteria := &item.SearchCriteria{
				Query:    "item",
				MinPrice: &minPrice,
				Tags:     []string{"gaming"},
			}

			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, err := store.Search(criteria); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkStore_BulkCreate(b *testing.B) {
	reqs := make([]*item.CreateRequest, 100)
	for i := range reqs {
		reqs[i] = &item.CreateRequest{
			Name:  fmt.Sprintf("Bulk %d", i),
			Price: float64(i) + 0.5,
		}
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		store := storage.NewInMemoryItemStore()
		if _, err := store.BulkCreate(reqs); err != nil {
			b.Fatal(err)
		}
	}
}
