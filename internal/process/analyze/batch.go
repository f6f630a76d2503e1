package analyze

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/brandpulse/sentiment-pipeline/internal/core/domain"
	"github.com/brandpulse/sentiment-pipeline/internal/platform/observability"
)

const progressFractions = 5

// Request is one unit of batch work.
type Request struct {
	Text    string
	Context string
}

// ProgressFunc observes batch completion counts. It must not block.
type ProgressFunc func(completed, total int)

// Orchestrator fans batch requests out over a bounded worker pool. Results
// land in submission order; a failed item degrades to the canonical empty
// result instead of failing the batch.
type Orchestrator struct {
	analyzer    *Analyzer
	workers     int
	submitDelay time.Duration
	progress    ProgressFunc
	logger      *zerolog.Logger

	// sleep is swapped out in tests to avoid real pacing waits.
	sleep func(ctx context.Context, d time.Duration)
}

func NewOrchestrator(analyzer *Analyzer, workers int, submitDelay time.Duration, logger *zerolog.Logger) *Orchestrator {
	if workers < 1 {
		workers = 1
	}

	return &Orchestrator{
		analyzer:    analyzer,
		workers:     workers,
		submitDelay: submitDelay,
		logger:      logger,
		sleep:       sleepFor,
	}
}

// SetProgress installs a completion observer. Call before Run.
func (o *Orchestrator) SetProgress(fn ProgressFunc) {
	o.progress = fn
}

type indexedRequest struct {
	index int
	req   Request
}

// Run analyzes every request and returns one result per input, in input
// order. Completion order across workers is unconstrained; each result slot
// is written exactly once by exactly one worker.
func (o *Orchestrator) Run(ctx context.Context, requests []Request) []domain.AnalysisResult {
	total := len(requests)
	if total == 0 {
		return nil
	}

	results := make([]domain.AnalysisResult, total)
	jobs := make(chan indexedRequest)

	var (
		wg        sync.WaitGroup
		completed atomic.Int32
	)

	progressEvery := total / progressFractions
	if progressEvery < 1 {
		progressEvery = 1
	}

	for w := 0; w < o.workers; w++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for job := range jobs {
				results[job.index] = o.analyzeOne(ctx, job)

				done := int(completed.Add(1))
				if o.progress != nil && (done%progressEvery == 0 || done == total) {
					o.progress(done, total)
				}
			}
		}()
	}

	// Submission is paced with a fixed delay so the remote API never sees a
	// burst, regardless of pool width.
	for i, req := range requests {
		jobs <- indexedRequest{index: i, req: req}

		if o.submitDelay > 0 && i < total-1 {
			o.sleep(ctx, o.submitDelay)
		}
	}

	close(jobs)
	wg.Wait()

	return results
}

// analyzeOne degrades any gateway failure, including exhausted retries, to
// the canonical empty result. One bad item never aborts the batch.
func (o *Orchestrator) analyzeOne(ctx context.Context, job indexedRequest) domain.AnalysisResult {
	result, err := o.analyzer.AnalyzeText(ctx, job.req.Text, job.req.Context)
	if err != nil {
		o.logger.Error().Err(err).Int("index", job.index).Msg("item analysis failed, using empty result")
		observability.BatchItems.WithLabelValues(observability.StatusDegraded).Inc()

		return o.analyzer.Repairer().EmptyResult()
	}

	observability.BatchItems.WithLabelValues(observability.StatusAnalyzed).Inc()

	return result
}

func sleepFor(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
