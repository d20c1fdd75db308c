package dashboard

type IndexQuery struct {
	TitleContains string `query:"title_contains"`
}

type IndexResponse struct {
	*Counts
	NumVisits int `json:"num_visits"`
}
