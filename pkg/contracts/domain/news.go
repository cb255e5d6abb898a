package domain

// Headline is one news item for a company, as served by the news feed.
type Headline struct {
	Title  string `json:"title"`
	Link   string `json:"link"`
	Source string `json:"source,omitempty"`
	// Published is the local display form, e.g. "2025-08-22 16:30".
	// Empty when the feed item carries no usable date.
	Published string `json:"published,omitempty"`
}

// NewsResult is the outcome of a headline lookup: the resolved company,
// the search query that produced the items, and the items themselves.
// An empty item list is a valid outcome.
type NewsResult struct {
	Company CompanyRecord `json:"company"`
	Query   string        `json:"query"`
	Items   []Headline    `json:"items"`
}
