package hybridsearch

import "testing"

func TestFuse_RanksAgreementHigher(t *testing.T) {
	keyword := []RankedID{{ID: "a", Score: 5}, {ID: "b", Score: 3}, {ID: "c", Score: 1}}
	semantic := []RankedID{{ID: "b", Score: 0.9}, {ID: "a", Score: 0.5}, {ID: "d", Score: 0.2}}

	fused := Fuse(keyword, semantic)
	if len(fused) != 4 {
		t.Fatalf("expected 4 fused results, got %d", len(fused))
	}

	// a: rank1 keyword + rank2 semantic = 1/61 + 1/62
	// b: rank2 keyword + rank1 semantic = 1/62 + 1/61 (same sum as a)
	// both a and b should outrank c (rank3 keyword only) and d (rank3 semantic only)
	top := map[string]bool{fused[0].DocumentID: true, fused[1].DocumentID: true}
	if !top["a"] || !top["b"] {
		t.Errorf("expected a and b to be the top 2 fused results, got %v", fused)
	}
}

func TestFuse_SingleSourceOnly(t *testing.T) {
	keyword := []RankedID{{ID: "a", Score: 1}}
	fused := Fuse(keyword, nil)
	if len(fused) != 1 || fused[0].DocumentID != "a" {
		t.Fatalf("expected single result a, got %v", fused)
	}
	if fused[0].SemanticRank != 0 {
		t.Errorf("expected SemanticRank 0 for keyword-only hit, got %d", fused[0].SemanticRank)
	}
}

func TestFuse_Empty(t *testing.T) {
	fused := Fuse(nil, nil)
	if len(fused) != 0 {
		t.Errorf("expected empty result, got %v", fused)
	}
}
