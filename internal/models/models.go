package models

// Link is one shortened URL as persisted.
type Link struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type ShortenReq struct {
	URL string `json:"url"`
}

type APIError struct {
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}
