package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"ainews/internal/transport/response"
)

// Wall-clock budget per pipeline run; a truncated run keeps whatever
// enrichment was already written through.
const runBudget = 5 * time.Minute

// PipelineRunner executes one aggregation-and-enrichment pass.
type PipelineRunner interface {
	Run(ctx context.Context) (int, error)
}

// Trigger starts a pipeline run. It serves both the scheduled and the
// manual trigger endpoint; the difference between them is middleware.
type Trigger struct {
	pipeline PipelineRunner
	budget   time.Duration
}

func NewTrigger(pipeline PipelineRunner) *Trigger {
	return &Trigger{
		pipeline: pipeline,
		budget:   runBudget,
	}
}

func (h *Trigger) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.budget)
	defer cancel()

	log.Printf("🕐 Starting news fetch job...")

	count, err := h.pipeline.Run(ctx)
	if err != nil {
		log.Printf("❌ News fetch job failed: %v", err)
		response.WriteFailure(w, err.Error())
		return
	}

	log.Printf("✅ News fetch job completed. Processed %d items.", count)
	response.WriteRunSuccess(w, count)
}
