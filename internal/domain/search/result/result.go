// Package result builds the denormalized view of one NIIN and pages of them.
package result

import (
	"strings"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// UnknownName is shown when no table carries an item name.
const UnknownName = "Unknown Item"

// Result is the merged, denormalized record for one NIIN. It is never persisted.
type Result struct {
	NSN                   string   `json:"nsn"`
	NIIN                  string   `json:"niin"`
	FSC                   string   `json:"fsc"`
	Name                  string   `json:"name"`
	Description           *string  `json:"description"`
	Characteristics       *string  `json:"characteristics"`
	PublicationDate       *string  `json:"publicationDate"`
	AAC                   string   `json:"aac"`
	ClassIX               bool     `json:"classIX"`
	UnitPrice             *string  `json:"unitPrice"`
	UnitOfIssue           *string  `json:"unitOfIssue"`
	Weight                *string  `json:"weight"`
	Cube                  *string  `json:"cube"`
	WeightPublicationDate *string  `json:"weightPubDate"`
	RequirementsStatement *string  `json:"requirementsStatement"`
	ClearTextReply        *string  `json:"clearTextReply"`
	AlternateNames        []string `json:"alternateNames"`
}

// Merge joins the fragments of one NIIN into a Result. It is pure and total:
// any combination of present and absent rows yields a valid record.
//
// Precedence, first non-empty wins:
//
//	name         NameEntry.item_name, StockRecord.itemName, "Unknown Item"
//	description  NameEntry.common_name, StockRecord.commonName
//	fsc          NameEntry.fsc, StockRecord.fsc, FscEntry.fsc, fscCandidate
func Merge(niin, fscCandidate string, f *nsn.Fragments) Result {
	if f == nil {
		f = &nsn.Fragments{}
	}
	if niin == "" {
		niin = f.NIIN
	}

	primary, alternates := splitNames(f.Names)
	var stock nsn.StockRecord
	if f.Stock != nil {
		stock = *f.Stock
	}

	r := Result{
		NIIN:           niin,
		Name:           firstNonEmpty(primary.ItemName, stock.ItemName, UnknownName),
		Description:    optional(firstNonEmpty(primary.CommonName, stock.CommonName)),
		AlternateNames: alternates,
	}

	var fscEntry string
	if f.Fsc != nil {
		fscEntry = f.Fsc.FSC
	}
	r.FSC = firstNonEmpty(primary.FSC, stock.FSC, fscEntry, fscCandidate)
	r.NSN = niin
	if r.FSC != "" {
		r.NSN = r.FSC + niin
	}

	r.Characteristics = primary.Characteristics
	if r.Characteristics == nil {
		r.Characteristics = stock.Characteristics
	}
	r.PublicationDate = stock.PublicationDate

	if f.Aac != nil {
		r.AAC = strings.TrimSpace(f.Aac.AAC)
		r.ClassIX = nsn.IsClassIX(r.AAC)
	}
	if f.Price != nil {
		r.UnitPrice = f.Price.UnitPrice
		r.UnitOfIssue = f.Price.UnitOfIssue
	}
	if f.Weight != nil {
		r.Weight = f.Weight.Weight
		r.Cube = f.Weight.Cube
		r.WeightPublicationDate = f.Weight.PublicationDate
	}
	if f.Description != nil {
		r.RequirementsStatement = f.Description.RequirementsStatement
		r.ClearTextReply = f.Description.ClearTextReply
	}
	return r
}

// splitNames picks the first entry with an item name as primary. The item names of
// every other entry, in table order, become alternates.
func splitNames(names []nsn.NameEntry) (nsn.NameEntry, []string) {
	alternates := []string{}
	primaryIdx := -1
	for i := range names {
		if strings.TrimSpace(names[i].ItemName) != "" {
			primaryIdx = i
			break
		}
	}
	if primaryIdx < 0 {
		if len(names) > 0 {
			return names[0], alternates
		}
		return nsn.NameEntry{}, alternates
	}
	for i := range names {
		if i == primaryIdx {
			continue
		}
		if n := strings.TrimSpace(names[i].ItemName); n != "" {
			alternates = append(alternates, n)
		}
	}
	return names[primaryIdx], alternates
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
