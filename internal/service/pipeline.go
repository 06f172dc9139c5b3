package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"ainews/internal/model"
	"ainews/internal/repository"
)

// Pipeline sequences fetch, ingest and the two enrichment stages.
type Pipeline struct {
	aggregator *Aggregator
	store      repository.NewsStore
	summarizer repository.Summarizer
	speech     repository.SpeechSynthesizer
	blobs      repository.BlobStore

	// SummaryBatchSize items are summarized concurrently, then the
	// pipeline pauses for SummaryBatchPause before the next batch to
	// respect provider rate limits. Speech synthesis runs one item at
	// a time with SpeechPause between items; that provider has tighter
	// per-second limits and larger payloads.
	SummaryBatchSize  int
	SummaryBatchPause time.Duration
	SpeechPause       time.Duration
}

func NewPipeline(
	aggregator *Aggregator,
	store repository.NewsStore,
	summarizer repository.Summarizer,
	speech repository.SpeechSynthesizer,
	blobs repository.BlobStore,
) *Pipeline {
	return &Pipeline{
		aggregator:        aggregator,
		store:             store,
		summarizer:        summarizer,
		speech:            speech,
		blobs:             blobs,
		SummaryBatchSize:  5,
		SummaryBatchPause: time.Second,
		SpeechPause:       500 * time.Millisecond,
	}
}

// Run executes one full pipeline pass and returns the number of items
// observed this run (all fetched items, not only newly stored ones).
// Only a persistence failure at ingest is fatal; enrichment failures are
// absorbed per item.
func (p *Pipeline) Run(ctx context.Context) (int, error) {
	items := p.aggregator.FetchAll(ctx)

	newRecords, err := p.ingest(ctx, items)
	if err != nil {
		return 0, err
	}

	if len(newRecords) == 0 {
		return len(items), nil
	}

	summarized := p.summarizeAll(ctx, newRecords)
	p.synthesizeAll(ctx, summarized)

	log.Printf("🎉 News processing completed: %d fetched, %d new", len(items), len(newRecords))
	return len(items), nil
}

// ingest filters out items whose URL is already stored and persists the
// rest in one atomic batch, returning only the newly created records.
func (p *Pipeline) ingest(ctx context.Context, items []model.NewsItem) ([]model.NewsRecord, error) {
	if len(items) == 0 {
		return nil, nil
	}

	urls := make([]string, 0, len(items))
	for _, item := range items {
		urls = append(urls, item.URL)
	}

	existing, err := p.store.ExistingURLs(ctx, urls)
	if err != nil {
		return nil, fmt.Errorf("checking existing urls: %w", err)
	}

	var newItems []model.NewsItem
	for _, item := range items {
		if !existing[item.URL] {
			newItems = append(newItems, item)
		}
	}

	if len(newItems) == 0 {
		log.Printf("📋 No new items to process")
		return nil, nil
	}

	records, err := p.store.InsertBatch(ctx, newItems)
	if err != nil {
		return nil, fmt.Errorf("persisting new items: %w", err)
	}

	log.Printf("💾 Stored %d new items", len(records))
	return records, nil
}

// summarizeAll attaches a summary to every record, in concurrent batches.
// Each item's summary (or the failure sentinel) is written through to
// storage immediately, so a truncated run keeps what it already earned.
func (p *Pipeline) summarizeAll(ctx context.Context, records []model.NewsRecord) []model.NewsRecord {
	log.Printf("✍️ Generating summaries for %d items...", len(records))

	for start := 0; start < len(records); start += p.SummaryBatchSize {
		end := start + p.SummaryBatchSize
		if end > len(records) {
			end = len(records)
		}

		done := make(chan struct{}, end-start)
		for i := start; i < end; i++ {
			go func(rec *model.NewsRecord) {
				defer func() { done <- struct{}{} }()

				summary, err := p.summarizer.Summarize(ctx, rec.Title, rec.URL, rec.Content)
				if err != nil {
					log.Printf("⚠️ Summarization failed for %s: %v", rec.ID, err)
					summary = repository.FailedSummary
				}

				// Attach the summary only once it is stored; the speech
				// stage must never produce audio for a record whose
				// persisted summary is still NULL.
				if err := p.store.UpdateSummary(ctx, rec.ID, summary); err != nil {
					log.Printf("⚠️ Writing summary for %s failed: %v", rec.ID, err)
					return
				}
				rec.Summary = &summary
			}(&records[i])
		}
		for i := start; i < end; i++ {
			<-done
		}

		if end < len(records) && !sleepCtx(ctx, p.SummaryBatchPause) {
			break
		}
	}

	return records
}

// synthesizeAll renders audio for records carrying a real summary, one at
// a time, uploading each file and writing the reference through before
// moving on. Any failure skips just that item.
func (p *Pipeline) synthesizeAll(ctx context.Context, records []model.NewsRecord) {
	log.Printf("🔊 Generating speech audio...")

	for i := range records {
		rec := &records[i]
		if !rec.HasSummary(repository.FailedSummary) {
			continue
		}

		p.synthesizeOne(ctx, rec)

		// Pace between items whether or not this one produced audio;
		// the provider rate limit counts failed calls too.
		if i < len(records)-1 && !sleepCtx(ctx, p.SpeechPause) {
			return
		}
	}
}

func (p *Pipeline) synthesizeOne(ctx context.Context, rec *model.NewsRecord) {
	audio, err := p.speech.Synthesize(ctx, SpeechText(rec.Title, *rec.Summary))
	if err != nil {
		log.Printf("⚠️ Speech synthesis failed for %s: %v", rec.ID, err)
		return
	}

	// Timestamped key avoids collisions across enrichment retries.
	key := fmt.Sprintf("audio/%s_%d.mp3", rec.ID, time.Now().UnixMilli())
	audioURL, err := p.blobs.Put(ctx, key, audio, "audio/mpeg")
	if err != nil {
		log.Printf("⚠️ Audio upload failed for %s: %v", rec.ID, err)
		return
	}

	if err := p.store.UpdateAudioURL(ctx, rec.ID, audioURL); err != nil {
		log.Printf("⚠️ Writing audio url for %s failed: %v", rec.ID, err)
		return
	}
	rec.AudioURL = &audioURL
}

// sleepCtx pauses for d unless the context ends first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}
