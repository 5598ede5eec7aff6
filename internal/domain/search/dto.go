package search

// Request for POST /search
type Request struct {
	Query string `json:"query" validate:"required,min=3,max=1000"`
}

// Response is the recommendation text
type Response struct {
	Recommendation string `json:"recommendation"`
	Profiles       int    `json:"profiles_considered"`
	Cached         bool   `json:"cached"`
}
