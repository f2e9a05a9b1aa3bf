package consolidate

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/dedupe"
	"github.com/archive-lab/magpie/pkg/logger"
	"github.com/archive-lab/magpie/pkg/merge"
	"github.com/archive-lab/magpie/pkg/names"
	"github.com/archive-lab/magpie/pkg/relate"
	"github.com/archive-lab/magpie/pkg/risk"
	"github.com/archive-lab/magpie/pkg/store"
)

// Params wires the stage configuration into one pipeline.
type Params struct {
	Dictionary *names.Dictionary
	Relate     relate.Params
	Risk       risk.Params
}

// Pipeline runs the consolidation stages in order: candidate detection,
// chain resolution, merge execution, co-mention graph rebuild, risk
// recompute. One pipeline run is exclusive-process and batch-oriented;
// each merge is individually durable, so an interrupted run leaves
// committed merges intact and reruns are safe.
type Pipeline struct {
	storage  store.Storage
	detector *dedupe.Detector
	executor *merge.Executor
	builder  *relate.Builder
	scorer   *risk.Scorer
}

func NewPipeline(storage store.Storage, params Params) *Pipeline {
	dict := params.Dictionary
	if dict == nil {
		dict = names.Default()
	}
	return &Pipeline{
		storage:  storage,
		detector: dedupe.NewDetector(dict),
		executor: merge.NewExecutor(storage),
		builder:  relate.NewBuilder(storage, params.Relate),
		scorer:   risk.NewScorer(storage, params.Risk),
	}
}

// Run executes the full pipeline and returns the run summary. With
// dryRun every stage computes and logs its outcome but commits nothing.
func (p *Pipeline) Run(ctx context.Context, dryRun bool) (common.RunSummary, error) {
	summary := common.RunSummary{
		RunID:  uuid.NewString(),
		DryRun: dryRun,
	}
	start := time.Now()

	logger.Info("[Consolidate] Run starting", "run_id", summary.RunID, "dry_run", dryRun)

	result, resolved, err := p.Consolidate(ctx, dryRun)
	if err != nil {
		return summary, err
	}
	summary.CandidatesFound = resolved.Found
	summary.CandidatesResolved = resolved.Kept
	summary.MergesApplied = result.Applied
	summary.MergesFailed = result.Failed

	edges, err := p.builder.Rebuild(ctx, dryRun)
	if err != nil {
		return summary, err
	}
	summary.EdgesWritten = edges

	distribution, err := p.scorer.Recompute(ctx, dryRun)
	if err != nil {
		return summary, err
	}
	summary.RatingCounts = distribution

	summary.Duration = time.Since(start)
	logger.Info("[Consolidate] Run complete",
		"run_id", summary.RunID,
		"candidates", summary.CandidatesFound,
		"merges_applied", summary.MergesApplied,
		"merges_failed", summary.MergesFailed,
		"edges_written", summary.EdgesWritten,
		"rating_distribution", summary.RatingCounts,
		"duration", summary.Duration.Round(time.Millisecond),
		"dry_run", dryRun,
	)
	return summary, nil
}

// Resolution counts the detection and chain-resolution outcome.
type Resolution struct {
	Found int
	Kept  int
}

// Consolidate runs detection, chain resolution and merge execution.
func (p *Pipeline) Consolidate(ctx context.Context, dryRun bool) (merge.BatchResult, Resolution, error) {
	entities, err := p.storage.ListPersonEntities(ctx)
	if err != nil {
		return merge.BatchResult{}, Resolution{}, err
	}

	candidates := p.detector.Detect(entities)
	logger.Info("[Consolidate] Candidates detected", "entities", len(entities), "candidates", len(candidates))

	resolved, redirects := dedupe.ResolveChains(candidates)
	logger.Info("[Consolidate] Chains resolved", "kept", len(resolved), "redirects", len(redirects))

	result, err := p.executor.ApplyAll(ctx, resolved, dryRun)
	if err != nil {
		return result, Resolution{Found: len(candidates), Kept: len(resolved)}, err
	}
	return result, Resolution{Found: len(candidates), Kept: len(resolved)}, nil
}

// Relationships rebuilds the co-mention graph only.
func (p *Pipeline) Relationships(ctx context.Context, dryRun bool) (int, error) {
	return p.builder.Rebuild(ctx, dryRun)
}

// Risk recomputes ratings only.
func (p *Pipeline) Risk(ctx context.Context, dryRun bool) (map[int]int, error) {
	return p.scorer.Recompute(ctx, dryRun)
}
