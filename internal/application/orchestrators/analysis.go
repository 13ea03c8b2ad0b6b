package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"courtside/internal/domain/analysis"
)

// ErrAnalysisStale is the failure recorded for analyses that never finished.
var ErrAnalysisStale = errors.New("analysis timed out while processing")

// AnalysisStore is the persistence the analysis flows need.
type AnalysisStore interface {
	GetByID(ctx context.Context, id string) (analysis.Analysis, error)
	Save(ctx context.Context, a analysis.Analysis) error
	ListProcessingBefore(ctx context.Context, cutoff time.Time) ([]analysis.Analysis, error)
}

// AnalysisMetrics receives analysis outcomes.
type AnalysisMetrics interface {
	RecordAnalysis(status string, d time.Duration)
}

// StartAnalysisInput describes an uploaded clip.
type StartAnalysisInput struct {
	PlayerID     string
	VideoURI     string
	VideoType    string
	ThumbnailURL string
}

// AnalysisRunnerDeps holds dependencies for the AnalysisRunner. Metrics is optional.
type AnalysisRunnerDeps struct {
	AnalysisStore AnalysisStore
	PlayerLookup  PlayerLookup
	Analyzer      analysis.Analyzer
	Metrics       AnalysisMetrics
	Timeout       time.Duration
	GenerateID    func() string
	Now           func() time.Time
}

// AnalysisRunner persists new analyses and runs the analyzer for each in
// the background.
type AnalysisRunner struct {
	deps   AnalysisRunnerDeps
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewAnalysisRunner creates a runner. Close stops in-flight work.
func NewAnalysisRunner(deps AnalysisRunnerDeps) *AnalysisRunner {
	if deps.Timeout <= 0 {
		deps.Timeout = 30 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &AnalysisRunner{deps: deps, ctx: ctx, cancel: cancel}
}

// Start records a processing analysis and runs the analyzer asynchronously.
// PRE: PlayerID names an existing player; VideoURI non-empty
// POST: returned analysis is persisted with status processing
// POST: eventually the stored analysis is completed or failed
func (r *AnalysisRunner) Start(ctx context.Context, input StartAnalysisInput) (analysis.Analysis, error) {
	if _, err := r.deps.PlayerLookup.GetByID(ctx, input.PlayerID); err != nil {
		return analysis.Analysis{}, err
	}
	videoType := input.VideoType
	if videoType == "" {
		videoType = analysis.DefaultVideoType
	}
	a := analysis.Analysis{
		ID:           r.deps.GenerateID(),
		PlayerID:     input.PlayerID,
		VideoURI:     strings.TrimSpace(input.VideoURI),
		VideoType:    videoType,
		ThumbnailURL: strings.TrimSpace(input.ThumbnailURL),
		Status:       analysis.StatusProcessing,
		CreatedAt:    r.deps.Now(),
	}
	if err := a.Validate(); err != nil {
		return analysis.Analysis{}, err
	}
	if err := r.deps.AnalysisStore.Save(ctx, a); err != nil {
		return analysis.Analysis{}, err
	}
	slog.Info("analysis_event", "event", "analysis_started", "analysis_id", a.ID, "player_id", a.PlayerID, "video_type", a.VideoType)

	r.wg.Add(1)
	go r.run(a.ID, a.CreatedAt)
	return a, nil
}

func (r *AnalysisRunner) run(id string, startedAt time.Time) {
	defer r.wg.Done()

	ctx, cancel := context.WithTimeout(r.ctx, r.deps.Timeout)
	defer cancel()
	result, runErr := r.deps.Analyzer.Analyze(ctx, id)

	// The record may have been swept while the analyzer ran; persist with a
	// context that survives Close.
	saveCtx, saveCancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer saveCancel()
	a, err := r.deps.AnalysisStore.GetByID(saveCtx, id)
	if err != nil {
		slog.Error("analysis_reload_failed", "analysis_id", id, "error", err)
		return
	}

	now := r.deps.Now()
	if runErr != nil {
		err = a.Fail(runErr, now)
	} else {
		err = a.Complete(result, now)
	}
	if errors.Is(err, analysis.ErrNotProcessing) {
		slog.Warn("analysis_already_finished", "analysis_id", id, "status", a.Status)
		return
	}
	if err != nil {
		// Result failed validation; record it as a failure instead.
		if ferr := a.Fail(fmt.Errorf("invalid result: %w", err), now); ferr != nil {
			slog.Error("analysis_fail_failed", "analysis_id", id, "error", ferr)
			return
		}
	}
	if err := r.deps.AnalysisStore.Save(saveCtx, a); err != nil {
		slog.Error("analysis_save_failed", "analysis_id", id, "error", err)
		return
	}

	if r.deps.Metrics != nil {
		r.deps.Metrics.RecordAnalysis(a.Status, now.Sub(startedAt))
	}
	if a.Status == analysis.StatusFailed {
		slog.Warn("analysis_event", "event", "analysis_failed", "analysis_id", id, "error", a.ErrorMessage)
		return
	}
	slog.Info("analysis_event", "event", "analysis_completed", "analysis_id", id,
		"speed", a.Result.Speed, "technique_score", a.Result.TechniqueScore)
}

// Wait blocks until every started analysis has finished.
func (r *AnalysisRunner) Wait() {
	r.wg.Wait()
}

// Close cancels in-flight analyses and waits for them to record their failure.
func (r *AnalysisRunner) Close() {
	r.cancel()
	r.wg.Wait()
}

// SweepStaleAnalysesDeps holds dependencies for SweepStaleAnalyses.
type SweepStaleAnalysesDeps struct {
	AnalysisStore AnalysisStore
	MaxAge        time.Duration
	Now           func() time.Time
}

// ExecuteSweepStaleAnalyses fails analyses stuck in processing longer than MaxAge.
// PRE: MaxAge > 0
// POST: every analysis created before now-MaxAge and still processing is failed
func ExecuteSweepStaleAnalyses(ctx context.Context, deps SweepStaleAnalysesDeps) (int, error) {
	now := deps.Now()
	stale, err := deps.AnalysisStore.ListProcessingBefore(ctx, now.Add(-deps.MaxAge))
	if err != nil {
		return 0, fmt.Errorf("list stale analyses: %w", err)
	}
	swept := 0
	for _, a := range stale {
		if err := a.Fail(ErrAnalysisStale, now); err != nil {
			continue
		}
		if err := deps.AnalysisStore.Save(ctx, a); err != nil {
			return swept, fmt.Errorf("save analysis %s: %w", a.ID, err)
		}
		swept++
	}
	if swept > 0 {
		slog.Warn("analysis_event", "event", "stale_analyses_failed", "count", swept, "max_age", deps.MaxAge.String())
	}
	return swept, nil
}
