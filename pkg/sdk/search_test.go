package nsnsearch

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/kailas-cloud/nsnsearch/internal/domain"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

func strPtr(s string) *string { return &s }

func TestSearch_ConvertsRequestAndPage(t *testing.T) {
	var got request.Request
	c := testClient(&mockSearchUC{
		resolveFn: func(_ context.Context, req request.Request) (result.Page, error) {
			got = req
			return result.Page{
				Results: []result.Result{{
					NSN:            "5330012345678",
					NIIN:           "012345678",
					FSC:            "5330",
					Name:           "GASKET",
					AAC:            "D",
					ClassIX:        true,
					UnitPrice:      strPtr("4.10"),
					AlternateNames: []string{"SEAL"},
				}},
				Total:      12,
				Page:       2,
				PageSize:   10,
				TotalPages: 2,
				Path:       result.PathDiscovery,
			}, nil
		},
	})

	page, err := c.Search(context.Background(), Query{
		Text:     "gasket",
		Filter:   Filter{FSC: "5330", ClassIX: Bool(true), MinPrice: "1", MaxPrice: "10"},
		Page:     2,
		PageSize: 10,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.Query() != "gasket" || got.Page() != 2 || got.PageSize() != 10 {
		t.Errorf("request = q:%q page:%d size:%d", got.Query(), got.Page(), got.PageSize())
	}
	if got.Filters().FSC() != "5330" || got.Filters().ClassIX() == nil || !got.Filters().HasPriceBound() {
		t.Error("filters not forwarded")
	}

	if page.Total != 12 || page.TotalPages != 2 || page.Path != PathDiscovery {
		t.Errorf("page = %+v", page)
	}
	if len(page.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(page.Items))
	}
	item := page.Items[0]
	if item.NSN != "5330012345678" || !item.ClassIX || *item.UnitPrice != "4.10" || item.AlternateNames[0] != "SEAL" {
		t.Errorf("item = %+v", item)
	}
}

func TestSearch_InvalidPaging(t *testing.T) {
	called := false
	c := testClient(&mockSearchUC{
		resolveFn: func(context.Context, request.Request) (result.Page, error) {
			called = true
			return result.Page{}, nil
		},
	})

	_, err := c.Search(context.Background(), Query{Text: "gasket", Page: -1})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
	if called {
		t.Error("Resolve should not be called")
	}
}

func TestSearch_StorageUnavailable(t *testing.T) {
	c := testClient(&mockSearchUC{
		resolveFn: func(context.Context, request.Request) (result.Page, error) {
			return result.Page{}, fmt.Errorf("%w: stock lookup", domain.ErrStorageUnavailable)
		},
	})

	_, err := c.Search(context.Background(), Query{Text: "012345678"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Fatalf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestSearch_EmptyPageHasNoItems(t *testing.T) {
	c := testClient(&mockSearchUC{
		resolveFn: func(_ context.Context, req request.Request) (result.Page, error) {
			return result.EmptyPage(req.Page(), req.PageSize(), result.PathNone), nil
		},
	})

	page, err := c.Search(context.Background(), Query{Text: "ab"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Items == nil || len(page.Items) != 0 || page.Path != PathNone {
		t.Errorf("page = %+v", page)
	}
	if page.Page != 1 || page.PageSize != 50 {
		t.Errorf("defaults = page %d size %d", page.Page, page.PageSize)
	}
}

func TestLookup(t *testing.T) {
	c := testClient(&mockSearchUC{
		lookupFn: func(_ context.Context, raw string) (result.Result, error) {
			if raw != "5330-01-234-5678" {
				t.Errorf("raw = %q", raw)
			}
			return result.Result{NIIN: "012345678", Name: "GASKET", Weight: strPtr("0.2")}, nil
		},
	})

	item, err := c.Lookup(context.Background(), "5330-01-234-5678")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.NIIN != "012345678" || item.Name != "GASKET" || *item.Weight != "0.2" {
		t.Errorf("item = %+v", item)
	}
}

func TestLookup_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", fmt.Errorf("%w: niin 012345678", domain.ErrNotFound), ErrNotFound},
		{"invalid", fmt.Errorf("%w: %q", domain.ErrInvalidNIIN, "12"), ErrInvalidNIIN},
		{"storage", domain.ErrStorageUnavailable, ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(&mockSearchUC{
				lookupFn: func(context.Context, string) (result.Result, error) {
					return result.Result{}, tt.err
				},
			})
			if _, err := c.Lookup(context.Background(), "x"); !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}
