package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/archive-lab/magpie/pkg/consolidate"
	"github.com/archive-lab/magpie/pkg/logger"
)

// ConsolidateJob is the message body published onto consolidate_queue.
// Stage selects which part of the pipeline to run; empty means the full
// run.
type ConsolidateJob struct {
	Stage  string `json:"stage,omitempty"`
	DryRun bool   `json:"dry_run,omitempty"`
}

const (
	StageConsolidate   = "consolidate"
	StageRelationships = "relationships"
	StageRisk          = "risk"
)

// ProcessConsolidateMessage handles one job from consolidate_queue.
func ProcessConsolidateMessage(ctx context.Context, pipeline *consolidate.Pipeline, body string) error {
	var job ConsolidateJob
	if err := json.Unmarshal([]byte(body), &job); err != nil {
		return fmt.Errorf("failed to parse consolidate job: %w", err)
	}

	logger.Info("[Queue] Consolidate job received", "stage", job.Stage, "dry_run", job.DryRun)

	switch job.Stage {
	case StageConsolidate:
		_, _, err := pipeline.Consolidate(ctx, job.DryRun)
		return err
	case StageRelationships:
		_, err := pipeline.Relationships(ctx, job.DryRun)
		return err
	case StageRisk:
		_, err := pipeline.Risk(ctx, job.DryRun)
		return err
	case "":
		_, err := pipeline.Run(ctx, job.DryRun)
		return err
	default:
		return fmt.Errorf("unknown consolidate stage %q", job.Stage)
	}
}
