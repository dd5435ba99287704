package dto

import (
	"time"
)

// CryptoPanicPostsResponse is the body of GET /posts/.
type CryptoPanicPostsResponse struct {
	Count   int               `json:"count"`
	Results []CryptoPanicPost `json:"results"`
}

// CryptoPanicPost is one news post.
type CryptoPanicPost struct {
	Kind        string            `json:"kind"`
	Title       string            `json:"title"`
	URL         string            `json:"url"`
	PublishedAt time.Time         `json:"published_at"`
	Source      CryptoPanicSource `json:"source"`
}

// CryptoPanicSource is the publisher of a post.
type CryptoPanicSource struct {
	Title  string `json:"title"`
	Domain string `json:"domain"`
}
