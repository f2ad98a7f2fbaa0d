package config

// ApplyDefaults sets default values for any zero values in cfg, mirroring
// spec.md §6's documented defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}

	p := &cfg.Pipeline
	if p.ClassifierMode == "" {
		p.ClassifierMode = "hybrid"
	}
	if p.MaxRetryLevel == 0 {
		p.MaxRetryLevel = 4
	}
	if p.RetrievalK == 0 {
		p.RetrievalK = 6
	}
	if p.MaxRetrievalDocs == 0 {
		p.MaxRetrievalDocs = 12
	}
	if p.PipelineTotalTimeoutSec == 0 {
		p.PipelineTotalTimeoutSec = 120
	}
	if p.GenerationMaxTokens == 0 {
		p.GenerationMaxTokens = 1024
	}
	if p.RejectionVectorThreshold == 0 {
		p.RejectionVectorThreshold = 0.35
	}
	if p.MultiDomainGap == 0 {
		p.MultiDomainGap = 0.1
	}
	if p.MinDomainK == 0 {
		p.MinDomainK = 2
	}
	if p.MaxPerDomain == 0 {
		p.MaxPerDomain = 8
	}
	if p.RetryKIncrement == 0 {
		p.RetryKIncrement = 3
	}
	if p.MaxLegalSupplement == 0 {
		p.MaxLegalSupplement = 3
	}
	if p.RRFK == 0 {
		p.RRFK = 60
	}
	if p.RerankMultiplier == 0 {
		p.RerankMultiplier = 4
	}

	if cfg.Embedding.ModelPath == "" {
		cfg.Embedding.ModelPath = "./data/models/embedding.onnx"
	}
	if cfg.Embedding.Dimensions == 0 {
		cfg.Embedding.Dimensions = 384
	}
	if cfg.Embedding.MaxTokens == 0 {
		cfg.Embedding.MaxTokens = 256
	}
	if cfg.Embedding.CacheSize == 0 {
		cfg.Embedding.CacheSize = 10000
	}
	if cfg.LLM.ModelID == "" {
		cfg.LLM.ModelID = "claude-sonnet-4-5"
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = 0.3
	}
	if cfg.Reranker.ModelID == "" {
		cfg.Reranker.ModelID = "cross-encoder-ko-reranker"
	}
	if cfg.Reranker.MaxTokens == 0 {
		cfg.Reranker.MaxTokens = 256
	}
	if cfg.Cache.Backend == "" {
		cfg.Cache.Backend = "memory"
	}
	if cfg.Cache.Capacity == 0 {
		cfg.Cache.Capacity = 500
	}
	if cfg.Cache.TTLSec == 0 {
		cfg.Cache.TTLSec = 3600
	}
	if cfg.RateLimit.RequestsPerSecond == 0 {
		cfg.RateLimit.RequestsPerSecond = 5
	}
	if cfg.RateLimit.Burst == 0 {
		cfg.RateLimit.Burst = 10
	}
	if cfg.DomainConfigPath == "" {
		cfg.DomainConfigPath = "./config/domains.yaml"
	}
	if cfg.CorpusPath == "" {
		cfg.CorpusPath = "./config/corpus.yaml"
	}
}
