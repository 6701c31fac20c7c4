package models

// URLListRequest is the shared body for the URL sanitize/unsanitize and
// domain extraction endpoints.
type URLListRequest struct {
	URLs []string `json:"urls" binding:"required" example:"https://example.com/path"`
}

// URLListResponse carries the transformed URLs (or extracted domains).
// SafeURLString keeps characters like '&' unescaped in the JSON output.
type URLListResponse struct {
	Results []SafeURLString `json:"results"`
}
