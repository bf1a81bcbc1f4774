package model

import "time"

// Source is a raw ingested item produced by an external scraper.
// Immutable once stored; the pipeline only reads it.
type Source struct {
	ID        string    `json:"id"`
	Platform  string    `json:"platform"`            // e.g. "twitter", "news", "whatsapp"
	Content   string    `json:"content"`             // Raw scraped text
	Author    string    `json:"author,omitempty"`
	URL       string    `json:"url,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Domain returns the host part of the source URL, or the platform name
// when the source has no URL (e.g. a forwarded message).
func (s Source) Domain() string {
	return DomainOf(s.URL, s.Platform)
}
