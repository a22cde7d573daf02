package nsnsearch

// NameSearch controls how free-text queries are matched against item names.
type NameSearch string

// Name search modes.
const (
	NameSearchOff       NameSearch = "off"
	NameSearchPrefix    NameSearch = "prefix"
	NameSearchSubstring NameSearch = "substring"
)

// Path tells how Page.Total was counted.
type Path string

// Resolution paths.
const (
	// PathNone: the query was too short or empty and never reached storage.
	PathNone Path = "none"
	// PathExact: a complete identifier; Total is 0 or 1 after filters.
	PathExact Path = "exact"
	// PathDiscovery: Total counts candidates before filters, so pages may run short.
	PathDiscovery Path = "discovery"
)

// Filter narrows search results. Zero values leave a predicate unset.
// Prices are decimal strings; an unparsable bound matches nothing.
type Filter struct {
	FSC      string
	ClassIX  *bool
	MinPrice string
	MaxPrice string
}

// Query is one search call. Page and PageSize default to 1 and 50.
type Query struct {
	Text     string
	Filter   Filter
	Page     int
	PageSize int
}

// Item is the merged record of one stock number.
type Item struct {
	NSN                   string
	NIIN                  string
	FSC                   string
	Name                  string
	Description           *string
	Characteristics       *string
	PublicationDate       *string
	AAC                   string
	ClassIX               bool
	UnitPrice             *string
	UnitOfIssue           *string
	Weight                *string
	Cube                  *string
	WeightPublicationDate *string
	RequirementsStatement *string
	ClearTextReply        *string
	AlternateNames        []string
}

// Page is one window of search results.
type Page struct {
	Items      []Item
	Total      int
	Page       int
	PageSize   int
	TotalPages int
	Path       Path
}

// Bool returns a pointer to b, for Filter.ClassIX.
func Bool(b bool) *bool { return &b }
