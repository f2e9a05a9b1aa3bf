package merge

import (
	"context"
	"errors"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/logger"
)

// BatchResult counts the outcome of one batch of resolved candidates.
type BatchResult struct {
	Applied int
	Failed  int
	Entries []common.AuditEntry
}

// ApplyAll drives a batch of resolved candidates through Apply. One
// failed merge is logged and counted but does not abort the run; the
// exception is an audit-write failure, which is fatal because the run
// must not continue without its trail.
func (e *Executor) ApplyAll(ctx context.Context, candidates []common.MergeCandidate, dryRun bool) (BatchResult, error) {
	var result BatchResult
	for _, cand := range candidates {
		entry, err := e.Apply(ctx, cand, dryRun)
		if err != nil {
			if errors.Is(err, ErrAuditWrite) {
				return result, err
			}
			logger.Error("[Merge] Merge failed",
				"source_id", cand.SourceID,
				"source_name", cand.SourceName,
				"target_id", cand.TargetID,
				"err", err,
			)
			result.Failed++
			continue
		}

		result.Applied++
		result.Entries = append(result.Entries, entry)
		logger.Info("[Merge] Merged entity",
			"source_id", entry.SourceID,
			"source_name", entry.SourceName,
			"target_id", entry.TargetID,
			"target_name", entry.TargetName,
			"mentions_transferred", entry.MentionsTransferred,
			"confidence", entry.Confidence,
			"dry_run", dryRun,
		)
	}
	return result, nil
}
