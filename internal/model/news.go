package model

import "time"

// NewsItem is a normalized story fetched from one source. It has no
// identity until the store accepts it.
type NewsItem struct {
	Title       string    `json:"title"`
	URL         string    `json:"url"`
	Content     string    `json:"content"`
	Source      string    `json:"source"`
	PublishedAt time.Time `json:"published_date"`
}

// NewsRecord is a persisted news item. Summary and AudioURL stay nil until
// the corresponding enrichment stage has written them through.
type NewsRecord struct {
	ID          string    `db:"id" json:"id"`
	Title       string    `db:"title" json:"title"`
	URL         string    `db:"url" json:"url"`
	Content     string    `db:"content" json:"content"`
	Summary     *string   `db:"summary" json:"summary,omitempty"`
	Source      string    `db:"source" json:"source"`
	PublishedAt time.Time `db:"published_date" json:"published_date"`
	AudioURL    *string   `db:"audio_url" json:"audio_url,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// HasSummary reports whether a real summary is attached, i.e. enrichment
// succeeded rather than producing the failure sentinel.
func (r *NewsRecord) HasSummary(sentinel string) bool {
	return r.Summary != nil && *r.Summary != "" && *r.Summary != sentinel
}
