package domainconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

const sampleYAML = `
domains:
  startup_funding:
    compound_rules:
      - ["지원", "기업"]
      - ["창업", "자금"]
    representative_queries:
      - "창업 지원금 신청 방법이 궁금합니다"
    suggest_action_keywords:
      - "사업계획서"
  hr_labor:
    compound_rules:
      - ["근로", "계약"]
    representative_queries:
      - "근로계약서 작성 시 유의사항"
`

func TestParse_BuildsCompoundRulesAndRepresentativeQueries(t *testing.T) {
	table, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.CompoundRules) != 3 {
		t.Fatalf("expected 3 compound rules, got %d", len(table.CompoundRules))
	}
	if len(table.RepresentativeQueries[ragmodel.DomainStartupFunding]) != 1 {
		t.Fatalf("expected 1 representative query for startup_funding, got %d", len(table.RepresentativeQueries[ragmodel.DomainStartupFunding]))
	}
	if len(table.SuggestActionKeywords[ragmodel.DomainStartupFunding]) != 1 {
		t.Fatalf("expected 1 suggest-action keyword for startup_funding")
	}
	if _, ok := table.RepresentativeQueries[ragmodel.DomainHRLabor]; !ok {
		t.Fatal("expected hr_labor representative queries to be present")
	}
}

func TestParse_EmptyRuleRowIsSkipped(t *testing.T) {
	table, err := Parse([]byte(`
domains:
  law_common:
    compound_rules:
      - []
      - ["법률", "자문"]
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.CompoundRules) != 1 {
		t.Fatalf("expected the empty rule row to be skipped, got %d rules", len(table.CompoundRules))
	}
}

func TestLoad_MissingFileReturnsNilNotError(t *testing.T) {
	table, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error, got %v", err)
	}
	if table != nil {
		t.Fatal("expected a nil table for a missing file")
	}
}

func TestLoad_EmptyPathReturnsNilNotError(t *testing.T) {
	table, err := Load("")
	if err != nil || table != nil {
		t.Fatalf("expected (nil, nil) for an empty path, got (%v, %v)", table, err)
	}
}

func TestLoad_ReadsFileFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "domains.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o644); err != nil {
		t.Fatal(err)
	}
	table, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.CompoundRules) != 3 {
		t.Fatalf("expected 3 compound rules, got %d", len(table.CompoundRules))
	}
}
