package domain

// SortOption selects the server-side ordering of catalog search results.
type SortOption string

const (
	SortPopularity SortOption = "popularity"
	SortNameAsc    SortOption = "name-asc"
	SortNameDesc   SortOption = "name-desc"
	SortGradeAsc   SortOption = "grade-asc"
	SortGradeDesc  SortOption = "grade-desc"
)

// QueryState holds the parameters identifying a catalog query. Page is the
// only field excluded from the query fingerprint.
type QueryState struct {
	Search   string     `json:"search"`
	Category string     `json:"category"` // empty means "any"
	Sort     SortOption `json:"sort"`
	Page     int        `json:"page"`
}

// DefaultQuery returns the initial query: no search, no category filter,
// popularity ordering, page 1.
func DefaultQuery() QueryState {
	return QueryState{Sort: SortPopularity, Page: 1}
}

// Fingerprint identifies the logical query (search, category, sort) excluding
// page. Two results belong to the same result set iff their fingerprints match.
func (q QueryState) Fingerprint() string {
	return q.Search + "\x00" + q.Category + "\x00" + string(q.Sort)
}
