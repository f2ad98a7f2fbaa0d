package retrieve

import "testing"

func baseCfg() BudgetConfig {
	return BudgetConfig{
		BaseK:              6,
		MinDomainK:         2,
		MaxPerDomain:       8,
		MaxRetrievalDocs:   12,
		RetryKIncrement:    3,
		MaxLegalSupplement: 3,
		MaxRetryLevel:      4,
	}
}

func TestPerDomainK_AddsCitationBonusClampedToMax(t *testing.T) {
	calc := NewDocumentBudgetCalculator(baseCfg())
	if got := calc.PerDomainK(true); got != 8 {
		t.Errorf("PerDomainK(true) = %d, want 8 (clamped to max_per_domain)", got)
	}
	if got := calc.PerDomainK(false); got != 6 {
		t.Errorf("PerDomainK(false) = %d, want 6", got)
	}
}

func TestPerDomainK_ClampsToMinDomainK(t *testing.T) {
	cfg := baseCfg()
	cfg.BaseK = 0
	calc := NewDocumentBudgetCalculator(cfg)
	if got := calc.PerDomainK(false); got != cfg.MinDomainK {
		t.Errorf("PerDomainK(false) = %d, want min_domain_k %d", got, cfg.MinDomainK)
	}
}

func TestAllocateAcrossDomains_RespectsTotalBudget(t *testing.T) {
	calc := NewDocumentBudgetCalculator(baseCfg())
	allocations := calc.AllocateAcrossDomains(3, false)
	total := 0
	for _, a := range allocations {
		total += a
		if a < baseCfg().MinDomainK {
			t.Errorf("allocation %d below min_domain_k", a)
		}
	}
	if total > baseCfg().MaxRetrievalDocs {
		t.Errorf("total allocation %d exceeds max_retrieval_docs %d", total, baseCfg().MaxRetrievalDocs)
	}
}

func TestAllocateAcrossDomains_SingleDomainKeepsFullBaseK(t *testing.T) {
	calc := NewDocumentBudgetCalculator(baseCfg())
	allocations := calc.AllocateAcrossDomains(1, false)
	if len(allocations) != 1 || allocations[0] != 6 {
		t.Errorf("expected single allocation of 6, got %v", allocations)
	}
}
