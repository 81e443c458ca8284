package catalog

// Wire types for the Socrata discovery API response. Only the fields the
// analyzer consumes are decoded; everything else in the document is ignored.
// Optional fields are pointers so that absence survives decoding.

type catalogResponse struct {
	Results       []resultEntry `json:"results"`
	ResultSetSize int           `json:"resultSetSize"`
}

type resultEntry struct {
	Resource       resourceEntry       `json:"resource"`
	Classification classificationEntry `json:"classification"`
	Permalink      string              `json:"permalink"`
}

type resourceEntry struct {
	Name          string     `json:"name"`
	ID            string     `json:"id"`
	Type          string     `json:"type"`
	UpdatedAt     string     `json:"updatedAt"`
	DownloadCount *int64     `json:"download_count"`
	PageViews     *pageViews `json:"page_views"`
}

type pageViews struct {
	LastWeek  *int64 `json:"page_views_last_week"`
	LastMonth *int64 `json:"page_views_last_month"`
	Total     *int64 `json:"page_views_total"`
}

type classificationEntry struct {
	DomainCategory *string  `json:"domain_category"`
	DomainTags     []string `json:"domain_tags"`
}
