package nsnsearch

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/nsnsearch/internal/domain"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/filter"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/request"
	"github.com/kailas-cloud/nsnsearch/internal/domain/search/result"
)

// Search resolves a query into one page of items. Unusable text and missing data
// give an empty page; only storage failures are errors (ErrStorageUnavailable).
func (c *Client) Search(ctx context.Context, q Query) (page Page, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opSearch, start, err) }()

	f := filter.New(q.Filter.FSC, q.Filter.ClassIX, q.Filter.MinPrice, q.Filter.MaxPrice)
	req, err := request.New(q.Text, f, q.Page, q.PageSize)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w: %w", domain.ErrInvalidRequest, err)
	}

	res, err := c.searchSvc.Resolve(ctx, req)
	if err != nil {
		return Page{}, fmt.Errorf("search: %w", err)
	}
	return pageFromResult(res), nil
}

// Lookup returns the full record of one NIIN (9 digits) or NSN (13 digits,
// dashes allowed). Unknown identifiers give ErrNotFound.
func (c *Client) Lookup(ctx context.Context, id string) (item Item, err error) {
	start := time.Now()
	defer func() { c.obs.observe(opLookup, start, err) }()

	rec, err := c.searchSvc.Lookup(ctx, id)
	if err != nil {
		return Item{}, fmt.Errorf("lookup: %w", err)
	}
	return itemFromResult(rec), nil
}

func pageFromResult(p result.Page) Page {
	items := make([]Item, len(p.Results))
	for i := range p.Results {
		items[i] = itemFromResult(p.Results[i])
	}
	return Page{
		Items:      items,
		Total:      p.Total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: p.TotalPages,
		Path:       Path(p.Path),
	}
}

func itemFromResult(r result.Result) Item {
	return Item{
		NSN:                   r.NSN,
		NIIN:                  r.NIIN,
		FSC:                   r.FSC,
		Name:                  r.Name,
		Description:           r.Description,
		Characteristics:       r.Characteristics,
		PublicationDate:       r.PublicationDate,
		AAC:                   r.AAC,
		ClassIX:               r.ClassIX,
		UnitPrice:             r.UnitPrice,
		UnitOfIssue:           r.UnitOfIssue,
		Weight:                r.Weight,
		Cube:                  r.Cube,
		WeightPublicationDate: r.WeightPublicationDate,
		RequirementsStatement: r.RequirementsStatement,
		ClearTextReply:        r.ClearTextReply,
		AlternateNames:        r.AlternateNames,
	}
}
