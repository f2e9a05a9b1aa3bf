package dedupe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archive-lab/magpie/pkg/common"
	"github.com/archive-lab/magpie/pkg/names"
)

// MethodNickname tags candidates produced by nickname-group matching.
const MethodNickname = "nickname_match"

// nicknameConfidence is the fixed confidence assigned to nickname-group
// matches with an identical name remainder.
const nicknameConfidence = 85

// Detector finds merge candidates among person entities whose first
// names share a nickname group and whose remaining name tokens match
// exactly.
type Detector struct {
	dict *names.Dictionary
}

func NewDetector(dict *names.Dictionary) *Detector {
	return &Detector{dict: dict}
}

type indexedEntity struct {
	entity common.Entity
	tokens []string
}

// Detect produces scored merge candidates for the given live entity
// set. Single-token names are excluded as ambiguous. Candidates may
// still overlap transitively across pairs; ResolveChains must run
// before execution.
func (d *Detector) Detect(entities []common.Entity) []common.MergeCandidate {
	// Bucket by surname token for O(1) candidate lookup.
	buckets := make(map[string][]indexedEntity)
	for _, e := range entities {
		tokens := names.Normalize(e.Name)
		if len(tokens) < 2 {
			continue
		}
		surname := tokens[len(tokens)-1]
		buckets[surname] = append(buckets[surname], indexedEntity{entity: e, tokens: tokens})
	}

	seen := make(map[[2]int64]bool)
	var candidates []common.MergeCandidate

	for _, bucket := range buckets {
		for i := range bucket {
			a := bucket[i]
			if !d.dict.Known(a.tokens[0]) {
				continue
			}
			group := d.dict.Group(a.tokens[0])
			for j := range bucket {
				if i == j {
					continue
				}
				b := bucket[j]
				if d.dict.Group(b.tokens[0]) != group {
					continue
				}
				if !equalRemainder(a.tokens, b.tokens) {
					continue
				}

				source, target := orient(a.entity, b.entity)
				key := [2]int64{source.ID, target.ID}
				if seen[key] {
					continue
				}
				seen[key] = true

				candidates = append(candidates, common.MergeCandidate{
					SourceID:   source.ID,
					SourceName: source.Name,
					TargetID:   target.ID,
					TargetName: target.Name,
					Confidence: nicknameConfidence,
					Reason:     fmt.Sprintf("first names %q and %q share nickname group %q", a.tokens[0], b.tokens[0], group),
					Method:     MethodNickname,
				})
			}
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].SourceID != candidates[j].SourceID {
			return candidates[i].SourceID < candidates[j].SourceID
		}
		return candidates[i].TargetID < candidates[j].TargetID
	})
	return candidates
}

// equalRemainder reports whether everything after the first token is
// token-for-token identical. Middle-name mismatches are rejected to
// bound false positives.
func equalRemainder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	return strings.Join(a[1:], " ") == strings.Join(b[1:], " ")
}

// orient picks the entity with fewer mentions as the merge source. On
// equal mention counts the entity with the higher id becomes the
// source, so the newer record folds into the older one.
func orient(a, b common.Entity) (source, target common.Entity) {
	if a.Mentions < b.Mentions {
		return a, b
	}
	if b.Mentions < a.Mentions {
		return b, a
	}
	if a.ID > b.ID {
		return a, b
	}
	return b, a
}
