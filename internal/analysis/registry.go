// Package analysis contains the async AI analysis pipeline: a job registry
// with single-delivery polling and the analyzer that produces weather insight
// from a completion provider.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stratuslabs/stratus/pkg/models"
)

// ErrJobNotFound is returned by Poll for ids that are unknown, already
// collected, or swept by the TTL janitor.
var ErrJobNotFound = errors.New("analysis job not found")

const (
	defaultMaxWorkers = 4
	minSweepInterval  = time.Second
)

// Runner produces a fully-shaped AnalysisResult for a request. It must not
// panic as part of its contract, but the registry tolerates panics anyway.
type Runner interface {
	Run(ctx context.Context, req models.AnalysisRequest) models.AnalysisResult
}

// Config controls registry behaviour.
type Config struct {
	// MaxWorkers caps concurrent background analyses (and therefore
	// concurrent outstanding LLM calls). Defaults to 4.
	MaxWorkers int
	// JobTTL is how long an unpolled job may live before the janitor sweeps
	// it. Zero disables sweeping.
	JobTTL time.Duration
	// OnStatus, when set, observes every job transition (pending, completed,
	// expired). Used to mirror status into an external cache.
	OnStatus func(id uuid.UUID, status string)
}

type jobEntry struct {
	job       models.Job
	result    models.AnalysisResult
	completed bool
}

// Registry tracks in-flight AI analyses. Submit returns immediately with a
// job id and a placeholder result; the real work runs on a bounded worker
// pool; Poll delivers a completed result exactly once and removes the job.
// Jobs live only in process memory.
type Registry struct {
	mu   sync.Mutex
	jobs map[uuid.UUID]*jobEntry

	runner   Runner
	sem      chan struct{}
	ttl      time.Duration
	onStatus func(id uuid.UUID, status string)

	done      chan struct{}
	closeOnce sync.Once
}

// NewRegistry creates a Registry and, when cfg.JobTTL is positive, starts its
// sweep goroutine. Call Close to stop it.
func NewRegistry(runner Runner, cfg Config) *Registry {
	workers := cfg.MaxWorkers
	if workers <= 0 {
		workers = defaultMaxWorkers
	}

	r := &Registry{
		jobs:     make(map[uuid.UUID]*jobEntry),
		runner:   runner,
		sem:      make(chan struct{}, workers),
		ttl:      cfg.JobTTL,
		onStatus: cfg.OnStatus,
		done:     make(chan struct{}),
	}

	if r.ttl > 0 {
		go r.sweepLoop()
	}

	return r
}

// PlaceholderResult is the fixed pending sentinel returned by Submit. The
// dashboard renders it until the first completed poll.
func PlaceholderResult() models.AnalysisResult {
	return models.AnalysisResult{
		ContextWarnings:   []string{"AI analysis in progress..."},
		Suggestions:       []string{"Analyzing weather patterns..."},
		FunFacts:          []string{"Gathering weather insights..."},
		ClimateComparison: "Analysis in progress",
		AIGenerated:       false,
	}
}

// Submit registers a pending job, schedules the analysis on the worker pool,
// and returns immediately. It never blocks on the analyzer and never fails.
func (r *Registry) Submit(req models.AnalysisRequest) (models.Job, models.AnalysisResult) {
	job := models.Job{
		ID:        uuid.New(),
		Status:    models.JobStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	placeholder := PlaceholderResult()

	r.mu.Lock()
	r.jobs[job.ID] = &jobEntry{job: job, result: placeholder}
	r.mu.Unlock()

	r.notify(job.ID, models.JobStatusPending)

	go r.run(job.ID, req)

	return job, placeholder
}

// Poll reports a job's state. Unknown ids return ErrJobNotFound. A pending
// job returns completed=false with no side effects; polling is repeatable
// until completion. The first poll that observes completion receives the
// result and removes the job — a second poll of the same id is NotFound.
func (r *Registry) Poll(id uuid.UUID) (models.AnalysisResult, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.jobs[id]
	if !ok {
		return models.AnalysisResult{}, false, ErrJobNotFound
	}
	if !entry.completed {
		return models.AnalysisResult{}, false, nil
	}

	delete(r.jobs, id)
	return entry.result, true, nil
}

// Close stops the sweep goroutine. In-flight analyses still run to
// completion; their results are simply never collected.
func (r *Registry) Close() {
	r.closeOnce.Do(func() { close(r.done) })
}

// run executes the analysis on a worker slot. Any panic is converted into a
// completed degraded result; nothing escapes the goroutine.
func (r *Registry) run(id uuid.UUID, req models.AnalysisRequest) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("panic in analysis run", "error", rec, "job_id", id)
			r.complete(id, degradedResult(fmt.Sprintf("panic: %v", rec)))
		}
	}()

	r.sem <- struct{}{}
	defer func() { <-r.sem }()

	result := r.runner.Run(context.Background(), req)
	r.complete(id, result)
}

// complete records the result for a still-tracked job. A job swept before
// completion drops its result silently.
func (r *Registry) complete(id uuid.UUID, result models.AnalysisResult) {
	r.mu.Lock()
	entry, ok := r.jobs[id]
	if ok && !entry.completed {
		entry.result = result
		entry.completed = true
		entry.job.Status = models.JobStatusCompleted
	}
	r.mu.Unlock()

	if ok {
		r.notify(id, models.JobStatusCompleted)
	}
}

func (r *Registry) sweepLoop() {
	interval := r.ttl / 2
	if interval < minSweepInterval {
		interval = minSweepInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep(time.Now().UTC())
		}
	}
}

// sweep removes jobs older than the TTL, pending or completed. An abandoned
// poll would otherwise pin its job in memory forever.
func (r *Registry) sweep(now time.Time) {
	cutoff := now.Add(-r.ttl)

	r.mu.Lock()
	var expired []uuid.UUID
	for id, entry := range r.jobs {
		if entry.job.CreatedAt.Before(cutoff) {
			delete(r.jobs, id)
			expired = append(expired, id)
		}
	}
	r.mu.Unlock()

	for _, id := range expired {
		slog.Info("analysis job expired", "job_id", id)
		r.notify(id, models.JobStatusExpired)
	}
}

func (r *Registry) notify(id uuid.UUID, status string) {
	if r.onStatus != nil {
		r.onStatus(id, status)
	}
}
