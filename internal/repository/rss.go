package repository

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"ainews/internal/model"
)

const (
	// Only entries published within this window are kept.
	rssMaxAge = 24 * time.Hour

	// Cap per feed; the head of a feed is its freshest content.
	rssMaxEntries = 10
)

// rssFeed covers RSS 2.0, RDF and Atom documents with one struct: RSS 2.0
// nests items under channel, RDF and Atom list them at the top level.
type rssFeed struct {
	ChannelItems []rssEntry `xml:"channel>item"`
	Items        []rssEntry `xml:"item"`
}

type rssEntry struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Summary     string    `xml:"summary"`
	ContentText string    `xml:"content"`
	PubDate     string    `xml:"pubDate"`
	Date        string    `xml:"date"`
	Updated     string    `xml:"updated"`
	Published   string    `xml:"published"`
	ParsedDate  time.Time `xml:"-"`
}

// atomFeed is the fallback parse for Atom documents, where link is an
// element with an href attribute rather than character data.
type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title     string     `xml:"title"`
	Links     []atomLink `xml:"link"`
	Summary   string     `xml:"summary"`
	Content   string     `xml:"content"`
	Updated   string     `xml:"updated"`
	Published string     `xml:"published"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

// RSSSource fetches one named RSS/Atom feed and normalizes its entries.
type RSSSource struct {
	name       string
	feedURL    string
	httpClient *http.Client
	userAgent  string
}

// NewRSSSource creates a source for a single feed URL.
func NewRSSSource(name, feedURL string) *RSSSource {
	return &RSSSource{
		name:    name,
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "ainews/1.0",
	}
}

// DefaultRSSSources returns the built-in AI news feeds.
func DefaultRSSSources() []Source {
	return []Source{
		NewRSSSource("arXiv AI/ML", "http://export.arxiv.org/rss/cs.AI+cs.LG"),
		NewRSSSource("OpenAI Blog", "https://openai.com/blog/rss/"),
		NewRSSSource("HuggingFace Blog", "https://huggingface.co/blog/feed.xml"),
	}
}

func (s *RSSSource) Name() string {
	return s.name
}

// Fetch retrieves the feed and returns entries from the last 24 hours,
// at most 10 per fetch. Entries without a title get the "No Title"
// placeholder; entries without a link keep an empty URL.
func (s *RSSSource) Fetch(ctx context.Context) ([]model.NewsItem, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml, text/xml")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	entries, err := parseFeedEntries(body)
	if err != nil {
		return nil, fmt.Errorf("parsing feed: %w", err)
	}

	if len(entries) > rssMaxEntries {
		entries = entries[:rssMaxEntries]
	}

	cutoff := time.Now().Add(-rssMaxAge)
	var items []model.NewsItem
	for _, entry := range entries {
		published := entry.ParsedDate
		if published.IsZero() {
			published = time.Now()
		}
		if published.Before(cutoff) {
			continue
		}

		title := entry.Title
		if title == "" {
			title = "No Title"
		}

		items = append(items, model.NewsItem{
			Title:       title,
			URL:         entry.Link,
			Content:     entry.content(),
			Source:      s.name,
			PublishedAt: published,
		})
	}

	return items, nil
}

func (e *rssEntry) content() string {
	if e.Description != "" {
		return e.Description
	}
	if e.Summary != "" {
		return e.Summary
	}
	return e.ContentText
}

func (e *rssEntry) dateString() string {
	for _, s := range []string{e.PubDate, e.Published, e.Date, e.Updated} {
		if s != "" {
			return s
		}
	}
	return ""
}

// parseFeedEntries unmarshals a feed document, trying the generic RSS/RDF
// shape first and falling back to Atom when no items were found.
func parseFeedEntries(body []byte) ([]rssEntry, error) {
	var feed rssFeed
	if err := xml.Unmarshal(body, &feed); err != nil {
		return nil, err
	}

	entries := feed.ChannelItems
	if len(entries) == 0 {
		entries = feed.Items
	}

	if len(entries) == 0 {
		var atom atomFeed
		if err := xml.Unmarshal(body, &atom); err == nil {
			for _, ae := range atom.Entries {
				entries = append(entries, rssEntry{
					Title:       ae.Title,
					Link:        ae.alternateLink(),
					Description: ae.Summary,
					ContentText: ae.Content,
					Published:   ae.Published,
					Updated:     ae.Updated,
				})
			}
		}
	}

	for i := range entries {
		if dateStr := entries[i].dateString(); dateStr != "" {
			if parsedDate, err := parseRSSDate(dateStr); err == nil {
				entries[i].ParsedDate = parsedDate
			}
		}
	}

	return entries, nil
}

func (e *atomEntry) alternateLink() string {
	for _, l := range e.Links {
		if l.Rel == "" || l.Rel == "alternate" {
			return l.Href
		}
	}
	if len(e.Links) > 0 {
		return e.Links[0].Href
	}
	return ""
}

// parseRSSDate parses the date formats seen across feeds in the wild.
func parseRSSDate(dateStr string) (time.Time, error) {
	formats := []string{
		time.RFC1123Z,
		time.RFC1123,
		time.RFC3339,
		"Mon, 2 Jan 2006 15:04:05 -0700",
		"Mon, 2 Jan 2006 15:04:05 MST",
		"2006-01-02T15:04:05Z07:00",
		"2006-01-02 15:04:05",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, dateStr); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unable to parse date: %s", dateStr)
}
