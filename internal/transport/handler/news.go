package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"ainews/internal/model"
	"ainews/internal/transport/response"
)

const defaultNewsLimit = 50

// NewsReader is the read-side slice of the news store.
type NewsReader interface {
	Latest(ctx context.Context, limit int) ([]model.NewsRecord, error)
	ByDate(ctx context.Context, day time.Time) ([]model.NewsRecord, error)
}

// News serves the persisted feed. Records missing summary or audio are
// returned as-is; enrichment gaps never fail a read.
type News struct {
	store NewsReader
}

func NewNews(store NewsReader) *News {
	return &News{store: store}
}

func (h *News) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		records []model.NewsRecord
		err     error
	)

	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		day, parseErr := time.Parse("2006-01-02", dateStr)
		if parseErr != nil {
			response.WriteJSON(w, http.StatusBadRequest, response.Failure{Error: "invalid date, expected YYYY-MM-DD"})
			return
		}
		records, err = h.store.ByDate(ctx, day)
	} else {
		limit := defaultNewsLimit
		if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
			if parsed, parseErr := strconv.Atoi(limitStr); parseErr == nil && parsed > 0 {
				limit = parsed
			}
		}
		records, err = h.store.Latest(ctx, limit)
	}

	if err != nil {
		log.Printf("❌ Error fetching news: %v", err)
		response.WriteFailure(w, err.Error())
		return
	}

	if records == nil {
		records = []model.NewsRecord{}
	}

	response.WriteJSON(w, http.StatusOK, response.NewsResult{
		Success:   true,
		News:      records,
		Timestamp: response.Timestamp(),
	})
}
