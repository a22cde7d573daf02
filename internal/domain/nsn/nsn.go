// Package nsn holds the reference entities of the parts dataset. Every table is keyed by NIIN.
package nsn

import "strings"

// NIINLength is the length of a normalized National Item Identification Number.
const NIINLength = 9

// FSCLength is the length of a Federal Supply Class code.
const FSCLength = 4

// StockRecord is the canonical item row (one per NIIN).
type StockRecord struct {
	NIIN            string  `json:"niin"`
	FSC             string  `json:"fsc,omitempty"`
	ItemName        string  `json:"item_name,omitempty"`
	CommonName      string  `json:"common_name,omitempty"`
	Characteristics *string `json:"characteristics,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
}

// NameEntry is an alternate name row. A NIIN may have any number of them.
type NameEntry struct {
	NIIN            string  `json:"niin"`
	ItemName        string  `json:"item_name,omitempty"`
	CommonName      string  `json:"common_name,omitempty"`
	FSC             string  `json:"fsc,omitempty"`
	Characteristics *string `json:"characteristics,omitempty"`
}

// PriceEntry holds the unit price. UnitPrice keeps the decimal text as stored.
type PriceEntry struct {
	NIIN        string  `json:"niin"`
	UnitPrice   *string `json:"unit_price,omitempty"`
	UnitOfIssue *string `json:"unit_of_issue,omitempty"`
}

// WeightEntry holds physical properties.
type WeightEntry struct {
	NIIN            string  `json:"niin"`
	Weight          *string `json:"dss_weight,omitempty"`
	Cube            *string `json:"dss_cube,omitempty"`
	PublicationDate *string `json:"publication_date,omitempty"`
}

// DescriptionEntry holds the free-text requirement statements.
type DescriptionEntry struct {
	NIIN                  string  `json:"niin"`
	RequirementsStatement *string `json:"requirements_statement,omitempty"`
	ClearTextReply        *string `json:"clear_text_reply,omitempty"`
}

// AacEntry holds the Acquisition Advice Code.
type AacEntry struct {
	NIIN string `json:"niin"`
	AAC  string `json:"aac"`
}

// FscEntry maps a NIIN to its supply class when the stock row lacks one.
type FscEntry struct {
	NIIN string `json:"niin"`
	FSC  string `json:"fsc"`
}

// IsClassIX reports whether the acquisition advice code marks a repair part (D, V or Z).
func IsClassIX(aac string) bool {
	switch strings.ToUpper(strings.TrimSpace(aac)) {
	case "D", "V", "Z":
		return true
	default:
		return false
	}
}

// IsNIIN reports whether s is exactly nine ASCII digits.
func IsNIIN(s string) bool {
	if len(s) != NIINLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
