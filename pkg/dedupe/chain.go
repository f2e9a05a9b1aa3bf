package dedupe

import (
	"sort"

	"github.com/archive-lab/magpie/pkg/common"
)

// ResolveChains makes a candidate list safe to apply sequentially by
// collapsing transitive merge chains into direct source -> final-target
// redirects. Candidates are processed by descending confidence; a
// source already consumed by a higher-confidence merge is skipped, and
// targets are resolved through the redirect map with a visited set so
// redirect cycles terminate. Self-merges are dropped.
//
// After resolution no two surviving candidates share a source and the
// returned redirect map holds source id -> final surviving id for the
// run.
func ResolveChains(candidates []common.MergeCandidate) ([]common.MergeCandidate, map[int64]int64) {
	ordered := make([]common.MergeCandidate, len(candidates))
	copy(ordered, candidates)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Confidence > ordered[j].Confidence
	})

	redirects := make(map[int64]int64, len(ordered))
	resolved := make([]common.MergeCandidate, 0, len(ordered))

	for _, cand := range ordered {
		if _, consumed := redirects[cand.SourceID]; consumed {
			continue
		}

		target := followRedirects(redirects, cand.TargetID)
		if target == cand.SourceID {
			// Collapsed into a self-merge, nothing to apply.
			continue
		}

		cand.TargetID = target
		redirects[cand.SourceID] = target
		resolved = append(resolved, cand)
	}

	return resolved, redirects
}

// followRedirects iteratively resolves an id through the redirect map.
// If a node is revisited the walk stops and the last resolved id wins,
// so a cycle in the input cannot loop forever.
func followRedirects(redirects map[int64]int64, id int64) int64 {
	visited := map[int64]bool{id: true}
	for {
		next, ok := redirects[id]
		if !ok {
			return id
		}
		if visited[next] {
			return id
		}
		visited[next] = true
		id = next
	}
}
