package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the segmatch API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Catalog   CatalogConfig   `yaml:"catalog"`
	Records   RecordsConfig   `yaml:"records"`
	Cache     CacheConfig     `yaml:"cache"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Search    SearchConfig    `yaml:"search"`
	Cluster   ClusterConfig   `yaml:"cluster"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CatalogConfig holds variable catalog source settings.
type CatalogConfig struct {
	Path       string `yaml:"path"`       // CSV or Parquet file with variable metadata
	Format     string `yaml:"format"`     // csv, parquet (default: inferred from extension)
	Embeddings string `yaml:"embeddings"` // optional Parquet file with precomputed vectors
}

// RecordsConfig holds the per-record dataset used for segmentation.
type RecordsConfig struct {
	Path string `yaml:"path"` // CSV file with one row per individual record
}

// CacheConfig holds embedding cache settings. Empty addrs disables caching.
type CacheConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	KeyPrefix        string   `yaml:"key_prefix"`
	TTLSec           int      `yaml:"ttl_sec"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings. Empty api_key disables
// the semantic path and the service degrades to keyword-only search.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// SearchConfig holds search pipeline settings.
type SearchConfig struct {
	TopK            int     `yaml:"top_k"`
	MaxFeatures     int     `yaml:"max_features"`
	KeywordWeight   float64 `yaml:"keyword_weight"`
	SemanticWeight  float64 `yaml:"semantic_weight"`
	KeywordCeiling  float64 `yaml:"keyword_ceiling"`
	DedupeThreshold float64 `yaml:"dedupe_threshold"`
	MaxPerGroup     int     `yaml:"max_per_group"`
	DisableConcepts bool    `yaml:"disable_concepts"`
}

// ClusterConfig holds constrained clustering settings.
type ClusterConfig struct {
	MinPct           float64 `yaml:"min_pct"`
	MaxPct           float64 `yaml:"max_pct"`
	MaxClusters      int     `yaml:"max_clusters"`
	RepairIterations int     `yaml:"repair_iterations"`
	Restarts         int     `yaml:"restarts"`
	Seed             int64   `yaml:"seed"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Catalog.Format == "" {
		switch strings.ToLower(filepath.Ext(c.Catalog.Path)) {
		case ".parquet":
			c.Catalog.Format = "parquet"
		default:
			c.Catalog.Format = "csv"
		}
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "segmatch:"
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 86400
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 20
	}
	if c.Search.MaxFeatures <= 0 {
		c.Search.MaxFeatures = 5000
	}
	if c.Search.KeywordWeight <= 0 {
		c.Search.KeywordWeight = 0.3
	}
	if c.Search.SemanticWeight <= 0 {
		c.Search.SemanticWeight = 0.7
	}
	if c.Search.KeywordCeiling <= 0 {
		c.Search.KeywordCeiling = 1.0
	}
	if c.Search.DedupeThreshold <= 0 {
		c.Search.DedupeThreshold = 0.85
	}
	if c.Search.MaxPerGroup <= 0 {
		c.Search.MaxPerGroup = 3
	}
	if c.Cluster.MinPct <= 0 {
		c.Cluster.MinPct = 0.05
	}
	if c.Cluster.MaxPct <= 0 {
		c.Cluster.MaxPct = 0.10
	}
	if c.Cluster.MaxClusters <= 0 {
		c.Cluster.MaxClusters = 20
	}
	if c.Cluster.RepairIterations <= 0 {
		c.Cluster.RepairIterations = 10
	}
	if c.Cluster.Restarts <= 0 {
		c.Cluster.Restarts = 4
	}
	if c.Cluster.Seed == 0 {
		c.Cluster.Seed = 42
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("catalog.path is required")
	}
	switch c.Catalog.Format {
	case "csv", "parquet":
	default:
		return fmt.Errorf("catalog.format must be \"csv\" or \"parquet\", got %q", c.Catalog.Format)
	}
	if c.Search.KeywordWeight+c.Search.SemanticWeight <= 0 {
		return fmt.Errorf("search weights must sum to a positive value")
	}
	if c.Cluster.MinPct > c.Cluster.MaxPct {
		return fmt.Errorf(
			"cluster.min_pct %.3f must not exceed cluster.max_pct %.3f",
			c.Cluster.MinPct, c.Cluster.MaxPct,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
