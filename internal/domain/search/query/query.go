// Package query turns raw user input into a canonical search key.
package query

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/nsnsearch/internal/domain/nsn"
)

// Length limits for raw queries.
const (
	DefaultMinLength = 3
	MaxRawLength     = 256
	fullNSNLength    = nsn.FSCLength + nsn.NIINLength
)

// Kind classifies a cleaned query by shape.
type Kind string

// Query kinds.
const (
	// Invalid marks input that is empty or too short to search.
	Invalid         Kind = "invalid"
	FullStockNumber Kind = "full_stock_number"
	ItemIdentifier  Kind = "item_identifier"
	// PrefixOrCode is a partial numeric key: a NIIN prefix or a supply class code.
	PrefixOrCode Kind = "prefix_or_code"
	FreeText     Kind = "free_text"
)

// Descriptor is the structured form of a raw query.
type Descriptor struct {
	RawLength int
	Cleaned   string
	// Text is the name-match form: upper-cased, whitespace collapsed to single
	// spaces, punctuation kept.
	Text          string
	IsNumeric     bool
	NIINCandidate string
	FSCCandidate  string
	Kind          Kind
}

// IsValid reports whether the query may reach storage.
func (d Descriptor) IsValid() bool { return d.Kind != Invalid }

var foldAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize cleans and classifies raw with the default minimum length.
func Normalize(raw string) Descriptor {
	return NormalizeWithMin(raw, DefaultMinLength)
}

// NormalizeWithMin cleans raw (accents folded, everything but letters and ASCII digits
// stripped, upper-cased) and classifies the result. Text is built from the same pass
// but keeps punctuation. It never fails: unusable input
// yields an Invalid descriptor.
func NormalizeWithMin(raw string, minLength int) Descriptor {
	if minLength <= 0 {
		minLength = DefaultMinLength
	}
	d := Descriptor{RawLength: utf8.RuneCountInString(raw), Kind: Invalid}
	if d.RawLength > MaxRawLength {
		return d
	}

	folded, _, err := transform.String(foldAccents, raw)
	if err != nil {
		folded = raw
	}

	var b, text strings.Builder
	numeric := true
	space := false
	for _, r := range folded {
		switch {
		case unicode.IsSpace(r):
			space = text.Len() > 0
			continue
		case !unicode.IsGraphic(r):
			continue
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case unicode.IsLetter(r):
			r = unicode.ToUpper(r)
			b.WriteRune(r)
			numeric = false
		}
		if space {
			text.WriteByte(' ')
			space = false
		}
		text.WriteRune(r)
	}
	d.Cleaned = b.String()
	d.Text = text.String()

	n := utf8.RuneCountInString(d.Cleaned)
	if n == 0 || n < minLength {
		return d
	}
	d.IsNumeric = numeric

	switch {
	case !numeric:
		d.Kind = FreeText
	case n >= fullNSNLength:
		d.Kind = FullStockNumber
		d.FSCCandidate = d.Cleaned[:nsn.FSCLength]
		d.NIINCandidate = d.Cleaned[n-nsn.NIINLength:]
	case n == nsn.NIINLength:
		d.Kind = ItemIdentifier
		d.NIINCandidate = d.Cleaned
	default:
		d.Kind = PrefixOrCode
		d.NIINCandidate = d.Cleaned
	}
	return d
}

// IsClassCode reports whether the cleaned key can also be read as a supply class code.
func (d Descriptor) IsClassCode() bool {
	return d.IsNumeric && len(d.Cleaned) == nsn.FSCLength
}
