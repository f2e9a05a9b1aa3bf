package risk

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/logger"
	"github.com/archive-lab/magpie/pkg/store"
)

// Params names the fixed anchor entities and the sensitive keyword
// list. Anchors are resolved to ids at run start; names without a live
// entity are excluded.
type Params struct {
	Anchors  []string
	Keywords []string
}

// Scorer assigns every person entity a 1-5 rating and a risk level
// from mention volume, graph proximity to the anchor set, evidence
// richness and sensitive-keyword co-occurrence. Each invocation is a
// full recompute.
type Scorer struct {
	storage store.Storage
	params  Params
}

func NewScorer(storage store.Storage, params Params) *Scorer {
	return &Scorer{storage: storage, params: params}
}

// Score computes the additive composite score for one entity's signals.
func Score(sig common.RiskSignals) float64 {
	exposure := math.Log10(float64(sig.Mentions)+1) * 3
	network := math.Min(10, 2*float64(sig.AnchorEdgeCount)+float64(sig.AnchorEdgeStrength)/10)
	media := math.Min(5, float64(sig.MediaCount)*1.5)

	total := exposure + network + media
	if sig.CodewordMention {
		total += 8
	}
	if sig.AvgSignificance > 2 {
		total += 3
	}
	return total
}

// RatingForScore maps a composite score onto the 1-5 rating scale.
func RatingForScore(score float64) int {
	switch {
	case score > 20:
		return 5
	case score > 12:
		return 4
	case score > 7:
		return 3
	case score > 3:
		return 2
	default:
		return 1
	}
}

// Rate computes the stored rating for one entity, applying the VIP
// floor: a VIP's previously stored rating is never lowered by a
// recompute, though it may rise.
func Rate(sig common.RiskSignals) int {
	rating := RatingForScore(Score(sig))
	if sig.IsVIP && sig.StoredRating > rating {
		return sig.StoredRating
	}
	return rating
}

// Recompute scores every person entity and overwrites its rating and
// level. Returns the resulting rating distribution. With dryRun the
// ratings are computed and logged but not stored.
func (s *Scorer) Recompute(ctx context.Context, dryRun bool) (map[int]int, error) {
	anchorIDs, err := s.resolveAnchors(ctx)
	if err != nil {
		return nil, err
	}

	signals, err := s.storage.RiskSignals(ctx, anchorIDs, s.params.Keywords)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(signals))
	for id := range signals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	distribution := make(map[int]int)
	for _, id := range ids {
		sig := signals[id]
		rating := Rate(sig)
		level := common.LevelForRating(rating)
		distribution[rating]++

		if dryRun {
			logger.Debug("[Risk] Would update rating",
				"entity_id", id, "name", sig.Name, "rating", rating, "level", level)
			continue
		}

		description := describeFactors(sig)
		if err := s.storage.UpdateEntityRisk(ctx, id, rating, level, description); err != nil {
			return nil, fmt.Errorf("failed to store rating for entity %d: %w", id, err)
		}
	}

	logger.Info("[Risk] Recompute complete",
		"entities", len(ids),
		"anchors", len(anchorIDs),
		"dry_run", dryRun,
	)
	return distribution, nil
}

// resolveAnchors maps the configured anchor names to live entity ids.
// Anchors missing from the entity table are silently excluded.
func (s *Scorer) resolveAnchors(ctx context.Context) ([]int64, error) {
	resolved, err := s.storage.ResolveEntityIDs(ctx, s.params.Anchors)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(resolved))
	for _, name := range s.params.Anchors {
		id, ok := resolved[name]
		if !ok {
			logger.Debug("[Risk] Anchor has no live entity, excluded", "anchor", name)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func describeFactors(sig common.RiskSignals) string {
	return fmt.Sprintf(
		"mentions=%d anchor_links=%d anchor_strength=%d media=%d codeword=%t avg_significance=%.1f",
		sig.Mentions, sig.AnchorEdgeCount, sig.AnchorEdgeStrength,
		sig.MediaCount, sig.CodewordMention, sig.AvgSignificance,
	)
}
