// Package domainconfig loads the operator-editable table of per-domain
// keyword compound rules and representative queries, and watches it for
// changes so the classifier can hot-reload without a restart.
package domainconfig

import (
	"fmt"
	"os"

	"github.com/konsult-ai/rag-router/internal/classify"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
	"gopkg.in/yaml.v3"
)

// DomainEntry is one domain's editable classification and prompt
// configuration, as it appears under its domain key in domains.yaml.
type DomainEntry struct {
	CompoundRules         [][]string `yaml:"compound_rules"`
	RepresentativeQueries []string   `yaml:"representative_queries"`
	SuggestActionKeywords []string   `yaml:"suggest_action_keywords"`
}

// File is the root shape of domains.yaml: a map keyed by domain name.
type File struct {
	Domains map[ragmodel.Domain]DomainEntry `yaml:"domains"`
}

// Table is the parsed, classifier-ready form of a File.
type Table struct {
	CompoundRules         []classify.CompoundRule
	RepresentativeQueries map[ragmodel.Domain][]string
	SuggestActionKeywords map[ragmodel.Domain][]string
}

// Load reads and parses path. A missing file is not an error — callers
// fall back to the built-in defaults in internal/classify, matching
// spec.md §4.13's "Optional domain configuration table... loaded once at
// startup".
func Load(path string) (*Table, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("domainconfig: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes raw YAML bytes into a Table.
func Parse(data []byte) (*Table, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("domainconfig: parse: %w", err)
	}
	return f.toTable(), nil
}

func (f File) toTable() *Table {
	t := &Table{
		RepresentativeQueries: make(map[ragmodel.Domain][]string, len(f.Domains)),
		SuggestActionKeywords: make(map[ragmodel.Domain][]string, len(f.Domains)),
	}
	for domain, entry := range f.Domains {
		for _, terms := range entry.CompoundRules {
			if len(terms) == 0 {
				continue
			}
			t.CompoundRules = append(t.CompoundRules, classify.CompoundRule{Domain: domain, Terms: terms})
		}
		if len(entry.RepresentativeQueries) > 0 {
			t.RepresentativeQueries[domain] = entry.RepresentativeQueries
		}
		if len(entry.SuggestActionKeywords) > 0 {
			t.SuggestActionKeywords[domain] = entry.SuggestActionKeywords
		}
	}
	return t
}
