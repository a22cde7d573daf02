package result

// Path tells callers how Page.Total was counted.
type Path string

// Total semantics per resolution path.
const (
	// PathNone: the query never reached storage, Total is 0.
	PathNone Path = "none"
	// PathExact: Total is 0 or 1, counted after the filters ran on the single record.
	PathExact Path = "exact"
	// PathDiscovery: Total is the distinct candidate count before post-merge filters,
	// so a page may hold fewer than PageSize results.
	PathDiscovery Path = "discovery"
)

// Page is one window of a resolved search.
type Page struct {
	Results    []Result `json:"results"`
	Total      int      `json:"total"`
	Page       int      `json:"page"`
	PageSize   int      `json:"pageSize"`
	TotalPages int      `json:"totalPages"`
	Path       Path     `json:"path"`
}

// EmptyPage returns a page with no results and total 0.
func EmptyPage(page, pageSize int, path Path) Page {
	return Page{Results: []Result{}, Page: page, PageSize: pageSize, Path: path}
}

// TotalPages returns ceil(total / pageSize).
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

// Window returns the [start, end) bounds of a 1-based page over n items.
func Window(n, page, pageSize int) (int, int) {
	if page < 1 || pageSize <= 0 {
		return 0, 0
	}
	if page-1 > n/pageSize {
		return n, n
	}
	start := (page - 1) * pageSize
	if start > n {
		start = n
	}
	end := start + pageSize
	if end > n {
		end = n
	}
	return start, end
}

// Slice returns the items of a 1-based page.
func Slice[T any](items []T, page, pageSize int) []T {
	start, end := Window(len(items), page, pageSize)
	return items[start:end]
}
