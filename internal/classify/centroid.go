package classify

import (
	"context"
	"fmt"
	"sync"

	"github.com/konsult-ai/rag-router/internal/embedclient"
	"github.com/konsult-ai/rag-router/internal/ragmodel"
)

// DefaultRepresentativeQueries seeds each domain's centroid. Real
// deployments override these via NewCentroidCache's queries argument with
// a larger, curated set.
var DefaultRepresentativeQueries = map[ragmodel.Domain][]string{
	ragmodel.DomainStartupFunding: {
		"창업 지원금 신청 방법이 궁금합니다",
		"정부 지원사업 공고는 어디서 확인하나요",
		"소상공인 정책자금 대출 조건",
	},
	ragmodel.DomainFinanceTax: {
		"부가가치세 신고 기한이 언제인가요",
		"종합소득세 절세 방법",
		"법인세 계산 방법을 알려주세요",
	},
	ragmodel.DomainHRLabor: {
		"근로계약서 작성 시 유의사항",
		"퇴직금 계산 방법이 궁금합니다",
		"최저임금 위반 시 처벌 규정",
	},
	ragmodel.DomainLawCommon: {
		"계약서 검토를 받고 싶습니다",
		"거래처와의 분쟁을 어떻게 해결하나요",
		"소상공인을 위한 법률 자문이 필요합니다",
	},
}

// CentroidCache computes and caches a per-domain mean embedding over a
// fixed set of representative queries. Each domain's centroid is
// computed at most once, behind a double-checked lock keyed by domain,
// per the same lazy-registry shape used elsewhere in this module
// (vectorstore.Store, lexical.Registry).
type CentroidCache struct {
	embedder embedclient.Embedder
	queries  map[ragmodel.Domain][]string

	mu       sync.Mutex
	once     map[ragmodel.Domain]*sync.Once
	vectors  map[ragmodel.Domain][]float32
	errs     map[ragmodel.Domain]error
}

// NewCentroidCache builds a cache over the given representative queries.
// A nil/empty map falls back to DefaultRepresentativeQueries.
func NewCentroidCache(embedder embedclient.Embedder, queries map[ragmodel.Domain][]string) *CentroidCache {
	if len(queries) == 0 {
		queries = DefaultRepresentativeQueries
	}
	return &CentroidCache{
		embedder: embedder,
		queries:  queries,
		once:     make(map[ragmodel.Domain]*sync.Once),
		vectors:  make(map[ragmodel.Domain][]float32),
		errs:     make(map[ragmodel.Domain]error),
	}
}

// Centroid returns domain's cached representative-query centroid,
// computing it on first use.
func (c *CentroidCache) Centroid(ctx context.Context, domain ragmodel.Domain) ([]float32, error) {
	c.mu.Lock()
	once, ok := c.once[domain]
	if !ok {
		once = &sync.Once{}
		c.once[domain] = once
	}
	c.mu.Unlock()

	once.Do(func() {
		vec, err := c.computeCentroid(ctx, domain)
		c.mu.Lock()
		c.vectors[domain] = vec
		c.errs[domain] = err
		c.mu.Unlock()
	})

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.vectors[domain], c.errs[domain]
}

func (c *CentroidCache) computeCentroid(ctx context.Context, domain ragmodel.Domain) ([]float32, error) {
	queries := c.queries[domain]
	if len(queries) == 0 {
		return nil, fmt.Errorf("classify: no representative queries for domain %s", domain)
	}

	var sum []float32
	for _, q := range queries {
		vec, err := c.embedder.Embed(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("classify: embed representative query: %w", err)
		}
		if sum == nil {
			sum = make([]float32, len(vec))
		}
		for i, v := range vec {
			sum[i] += v
		}
	}
	n := float32(len(queries))
	for i := range sum {
		sum[i] /= n
	}
	embedclient.NormalizeL2(sum)
	return sum, nil
}
