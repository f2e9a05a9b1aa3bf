package dedupe

import (
	"reflect"
	"testing"

	"github.com/archive-lab/magpie/pkg/common"
)

func TestResolveChainsCollapsesTransitiveChain(t *testing.T) {
	candidates := []common.MergeCandidate{
		{SourceID: 1, TargetID: 2, Confidence: 85}, // A -> B
		{SourceID: 2, TargetID: 3, Confidence: 90}, // B -> C, higher confidence
	}

	resolved, redirects := ResolveChains(candidates)
	if len(resolved) != 2 {
		t.Fatalf("expected 2 surviving candidates, got %d", len(resolved))
	}

	// B -> C applies first, then A -> B resolves into A -> C.
	if resolved[0].SourceID != 2 || resolved[0].TargetID != 3 {
		t.Fatalf("expected first candidate 2->3, got %d->%d", resolved[0].SourceID, resolved[0].TargetID)
	}
	if resolved[1].SourceID != 1 || resolved[1].TargetID != 3 {
		t.Fatalf("expected second candidate rewritten to 1->3, got %d->%d", resolved[1].SourceID, resolved[1].TargetID)
	}

	want := map[int64]int64{1: 3, 2: 3}
	if !reflect.DeepEqual(redirects, want) {
		t.Fatalf("expected redirects %v, got %v", want, redirects)
	}
}

func TestResolveChainsSkipsConsumedSource(t *testing.T) {
	candidates := []common.MergeCandidate{
		{SourceID: 1, TargetID: 2, Confidence: 90},
		{SourceID: 1, TargetID: 3, Confidence: 85},
	}

	resolved, _ := ResolveChains(candidates)
	if len(resolved) != 1 {
		t.Fatalf("expected 1 surviving candidate, got %d", len(resolved))
	}
	if resolved[0].TargetID != 2 {
		t.Fatalf("higher-confidence target should win, got %d", resolved[0].TargetID)
	}
}

func TestResolveChainsDropsSelfMerge(t *testing.T) {
	candidates := []common.MergeCandidate{
		{SourceID: 2, TargetID: 1, Confidence: 90},
		{SourceID: 1, TargetID: 2, Confidence: 85}, // resolves 2 -> 1 == own source
	}

	resolved, _ := ResolveChains(candidates)
	if len(resolved) != 1 {
		t.Fatalf("expected self-merge to be dropped, got %d candidates", len(resolved))
	}
	if resolved[0].SourceID != 2 || resolved[0].TargetID != 1 {
		t.Fatalf("expected only 2->1 to survive, got %d->%d", resolved[0].SourceID, resolved[0].TargetID)
	}
}

func TestResolveChainsNoSharedSources(t *testing.T) {
	candidates := []common.MergeCandidate{
		{SourceID: 1, TargetID: 2, Confidence: 85},
		{SourceID: 1, TargetID: 3, Confidence: 85},
		{SourceID: 2, TargetID: 3, Confidence: 85},
		{SourceID: 3, TargetID: 4, Confidence: 85},
	}

	resolved, _ := ResolveChains(candidates)
	sources := make(map[int64]bool)
	for _, c := range resolved {
		if sources[c.SourceID] {
			t.Fatalf("source %d appears in more than one surviving candidate", c.SourceID)
		}
		sources[c.SourceID] = true
		if c.SourceID == c.TargetID {
			t.Fatalf("self-merge survived: %d->%d", c.SourceID, c.TargetID)
		}
	}
}

func TestFollowRedirectsTerminatesOnCycle(t *testing.T) {
	redirects := map[int64]int64{1: 2, 2: 3, 3: 1}

	// Must terminate and settle on the last id resolved before the
	// revisit.
	got := followRedirects(redirects, 1)
	if got != 3 {
		t.Fatalf("expected cycle walk from 1 to stop at 3, got %d", got)
	}
}

func TestFollowRedirectsNoRedirect(t *testing.T) {
	if got := followRedirects(map[int64]int64{}, 9); got != 9 {
		t.Fatalf("expected unmapped id to resolve to itself, got %d", got)
	}
}
