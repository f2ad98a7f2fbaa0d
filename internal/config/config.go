// Package config provides configuration loading for the RAG router: a
// YAML file plus §6 environment variable overrides, defaulted the way
// the teacher's sagasu config loads and defaults server/storage settings.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the router process.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	LLM       LLMConfig       `yaml:"llm"`
	Reranker  RerankerConfig  `yaml:"reranker"`
	Vector    VectorConfig    `yaml:"vector"`
	Cache     CacheConfig     `yaml:"cache"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	// DomainConfigPath points at the YAML table of per-domain keywords,
	// compound rules, and representative queries; hot-reloaded (see
	// internal/domainconfig).
	DomainConfigPath string `yaml:"domain_config_path"`
	// CorpusPath points at the prebuilt document fixture loaded once at
	// startup (see internal/corpus). A missing file yields empty
	// collections rather than a startup failure.
	CorpusPath string `yaml:"corpus_path"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// PipelineConfig holds the router/retrieval/generation feature flags and
// numeric knobs enumerated in spec.md §6.
type PipelineConfig struct {
	ClassifierMode              string  `yaml:"classifier_mode"`
	EnableHybridSearch           bool    `yaml:"enable_hybrid_search"`
	EnableReranking              bool    `yaml:"enable_reranking"`
	EnableCrossDomainRerank      bool    `yaml:"enable_cross_domain_rerank"`
	EnableLegalSupplement        bool    `yaml:"enable_legal_supplement"`
	EnableAdaptiveSearch         bool    `yaml:"enable_adaptive_search"`
	EnablePostEvalRetry          bool    `yaml:"enable_post_eval_retry"`
	EnableResponseCache          bool    `yaml:"enable_response_cache"`
	EnableActionAwareGeneration  bool    `yaml:"enable_action_aware_generation"`
	EnableIntegratedGeneration   bool    `yaml:"enable_integrated_generation"`
	MaxRetryLevel                int     `yaml:"max_retry_level"`
	RetrievalK                   int     `yaml:"retrieval_k"`
	MaxRetrievalDocs             int     `yaml:"max_retrieval_docs"`
	PipelineTotalTimeoutSec      int     `yaml:"pipeline_total_timeout"`
	GenerationMaxTokens          int     `yaml:"generation_max_tokens"`
	RejectionVectorThreshold     float64 `yaml:"rejection_vector_threshold"`
	MultiDomainGap               float64 `yaml:"multi_domain_gap"`

	MinDomainK         int `yaml:"min_domain_k"`
	MaxPerDomain       int `yaml:"max_per_domain"`
	RetryKIncrement    int `yaml:"retry_k_increment"`
	MaxLegalSupplement int `yaml:"max_legal_supplement"`
	RRFK               int `yaml:"rrf_k"`
	RerankMultiplier   int `yaml:"rerank_multiplier"`
}

// EmbeddingConfig holds embedding client settings.
type EmbeddingConfig struct {
	ModelID    string `yaml:"model_id"`
	ModelPath  string `yaml:"model_path"`
	Dimensions int    `yaml:"dimensions"`
	MaxTokens  int    `yaml:"max_tokens"`
	CacheSize  int    `yaml:"cache_size"`
}

// LLMConfig holds chat LLM client settings.
type LLMConfig struct {
	ModelID     string  `yaml:"model_id"`
	APIKey      string  `yaml:"api_key"`
	Temperature float64 `yaml:"temperature"`
}

// RerankerConfig holds cross-encoder reranker settings.
type RerankerConfig struct {
	ModelID   string `yaml:"model_id"`
	ModelPath string `yaml:"model_path"`
	MaxTokens int    `yaml:"max_tokens"`
}

// VectorConfig holds vector store connection settings.
type VectorConfig struct {
	URL string `yaml:"url"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	Backend  string `yaml:"backend"` // "memory" or "redis"
	Capacity int    `yaml:"capacity"`
	TTLSec   int    `yaml:"ttl_seconds"`
	RedisURL string `yaml:"redis_url"`
}

// RateLimitConfig holds the per-client token-bucket rate limiter settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	Burst             int     `yaml:"burst"`
}

// Load reads and parses the config file at path, expands paths, applies
// defaults, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Embedding.ModelPath = expandPath(cfg.Embedding.ModelPath, configDir)
	cfg.DomainConfigPath = expandPath(cfg.DomainConfigPath, configDir)
	cfg.CorpusPath = expandPath(cfg.CorpusPath, configDir)

	ApplyEnvOverrides(&cfg)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are
// relative to configDir; other relative paths are relative to the home
// directory. Mirrors the teacher's sagasu path-expansion convention.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}

func lookupBool(env string, dst *bool) {
	if v, ok := os.LookupEnv(env); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func lookupInt(env string, dst *int) {
	if v, ok := os.LookupEnv(env); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func lookupFloat(env string, dst *float64) {
	if v, ok := os.LookupEnv(env); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func lookupString(env string, dst *string) {
	if v, ok := os.LookupEnv(env); ok && v != "" {
		*dst = v
	}
}

// ApplyEnvOverrides applies every §6 environment variable over the
// already-defaulted config, by name.
func ApplyEnvOverrides(cfg *Config) {
	p := &cfg.Pipeline
	lookupString("CLASSIFIER_MODE", &p.ClassifierMode)
	lookupBool("ENABLE_HYBRID_SEARCH", &p.EnableHybridSearch)
	lookupBool("ENABLE_RERANKING", &p.EnableReranking)
	lookupBool("ENABLE_CROSS_DOMAIN_RERANK", &p.EnableCrossDomainRerank)
	lookupBool("ENABLE_LEGAL_SUPPLEMENT", &p.EnableLegalSupplement)
	lookupBool("ENABLE_ADAPTIVE_SEARCH", &p.EnableAdaptiveSearch)
	lookupBool("ENABLE_POST_EVAL_RETRY", &p.EnablePostEvalRetry)
	lookupBool("ENABLE_RESPONSE_CACHE", &p.EnableResponseCache)
	lookupBool("ENABLE_ACTION_AWARE_GENERATION", &p.EnableActionAwareGeneration)
	lookupBool("ENABLE_INTEGRATED_GENERATION", &p.EnableIntegratedGeneration)
	lookupInt("MAX_RETRY_LEVEL", &p.MaxRetryLevel)
	lookupInt("RETRIEVAL_K", &p.RetrievalK)
	lookupInt("MAX_RETRIEVAL_DOCS", &p.MaxRetrievalDocs)
	lookupInt("PIPELINE_TOTAL_TIMEOUT", &p.PipelineTotalTimeoutSec)
	lookupInt("GENERATION_MAX_TOKENS", &p.GenerationMaxTokens)
	lookupFloat("REJECTION_VECTOR_THRESHOLD", &p.RejectionVectorThreshold)
	lookupFloat("MULTI_DOMAIN_GAP", &p.MultiDomainGap)

	lookupString("VECTOR_STORE_URL", &cfg.Vector.URL)
	lookupString("EMBEDDING_MODEL_ID", &cfg.Embedding.ModelID)
	lookupString("RERANKER_MODEL_ID", &cfg.Reranker.ModelID)
	lookupString("LLM_MODEL_ID", &cfg.LLM.ModelID)
	lookupString("ANTHROPIC_API_KEY", &cfg.LLM.APIKey)
	lookupString("CACHE_REDIS_URL", &cfg.Cache.RedisURL)
	lookupString("DOMAIN_CONFIG_PATH", &cfg.DomainConfigPath)
	lookupString("CORPUS_PATH", &cfg.CorpusPath)
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
