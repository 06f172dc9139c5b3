package service

import (
	"context"
	"log"
	"sort"

	"ainews/internal/model"
	"ainews/internal/repository"
)

// Aggregator fans out to all registered sources concurrently and merges
// their items, newest first.
type Aggregator struct {
	sources []repository.Source
}

func NewAggregator(sources ...repository.Source) *Aggregator {
	return &Aggregator{sources: sources}
}

// FetchAll invokes every source in parallel. A source failure is logged
// and contributes nothing; it never fails the merge. Duplicates across
// sources are kept, dedup happens against storage downstream.
func (a *Aggregator) FetchAll(ctx context.Context) []model.NewsItem {
	type result struct {
		name  string
		items []model.NewsItem
		err   error
	}

	results := make(chan result, len(a.sources))

	for _, source := range a.sources {
		go func(src repository.Source) {
			items, err := src.Fetch(ctx)
			results <- result{name: src.Name(), items: items, err: err}
		}(source)
	}

	var allItems []model.NewsItem
	for range a.sources {
		res := <-results
		if res.err != nil {
			log.Printf("⚠️ Fetching from %s failed: %v", res.name, res.err)
			continue
		}
		log.Printf("📡 Fetched %d items from %s", len(res.items), res.name)
		allItems = append(allItems, res.items...)
	}

	sort.Slice(allItems, func(i, j int) bool {
		return allItems[i].PublishedAt.After(allItems[j].PublishedAt)
	})

	log.Printf("📰 Fetched %d total news items", len(allItems))
	return allItems
}
