// internal/common/config/config.go
package config

import "fmt"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Camunda    CamundaConfig           `mapstructure:"camunda"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Extraction ExtractionConfig        `mapstructure:"extraction"`
	Scoring    ScoringConfig           `mapstructure:"scoring"`
	APIs       APIsConfig              `mapstructure:"apis"`
	Audit      AuditConfig             `mapstructure:"audit"`
	Workers    map[string]WorkerConfig `mapstructure:"workers"`
	Logging    LoggingConfig           `mapstructure:"logging"`
}

// --- Core App/Infrastructure Config ---

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

type DatabaseConfig struct {
	Postgres      PostgresConfig      `mapstructure:"postgres"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
	Redis         RedisConfig         `mapstructure:"redis"`
}

type PostgresConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port"`
	Database       string `mapstructure:"database"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	MaxConnections int    `mapstructure:"max_connections"`
	MaxIdle        int    `mapstructure:"max_idle"`
	SSLMode        string `mapstructure:"sslmode"`
}

// GetDSN returns the PostgreSQL connection string.
func (p PostgresConfig) GetDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

type ElasticsearchConfig struct {
	Addresses []string `mapstructure:"addresses"`
	Username  string   `mapstructure:"username"`
	Password  string   `mapstructure:"password"`
	URL       string   `mapstructure:"url"` // Single URL for backwards compatibility
}

// GetURL returns the first address or the URL field.
func (e ElasticsearchConfig) GetURL() string {
	if e.URL != "" {
		return e.URL
	}
	if len(e.Addresses) > 0 {
		return e.Addresses[0]
	}
	return ""
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// --- Engine Configuration Sections ---

// ExtractionConfig holds skill-extraction settings.
type ExtractionConfig struct {
	Index         string  `mapstructure:"index"`          // skill corpus index name
	CorpusVersion string  `mapstructure:"corpus_version"` // stamped into audit records
	MaxResults    int     `mapstructure:"max_results"`    // default result cap per call
	MinScore      float64 `mapstructure:"min_score"`      // default normalized score cutoff
	CacheTTL      int     `mapstructure:"cache_ttl"`      // seconds
	CacheMaxSize  int     `mapstructure:"cache_max_size"` // in-process cache entry bound
	CacheBackend  string  `mapstructure:"cache_backend"`  // "memory" or "redis"
	Timeout       int     `mapstructure:"timeout"`        // milliseconds
}

// ScoringConfig holds blend weights and gate settings.
type ScoringConfig struct {
	MLWeight      float64 `mapstructure:"ml_weight"`
	LLMWeight     float64 `mapstructure:"llm_weight"`
	GateFloor     float64 `mapstructure:"gate_floor"`
	CalibrationID string  `mapstructure:"calibration_id"`
}

type APIsConfig struct {
	GenAI     GenAIConfig     `mapstructure:"genai"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
}

type GenAIConfig struct {
	BaseURL       string `mapstructure:"base_url"`
	APIKey        string `mapstructure:"api_key"`
	PromptVersion string `mapstructure:"prompt_version"`
	Timeout       int    `mapstructure:"timeout"` // milliseconds
	MaxRetries    int    `mapstructure:"max_retries"`
}

type EmbeddingConfig struct {
	BaseURL           string `mapstructure:"base_url"`
	ModelID           string `mapstructure:"model_id"`
	Dimensions        int    `mapstructure:"dimensions"`
	Timeout           int    `mapstructure:"timeout"` // milliseconds, per item
	MaxConcurrency    int    `mapstructure:"max_concurrency"`
	MemoryThresholdMB int    `mapstructure:"memory_threshold_mb"`
}

type AuditConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Dir     string `mapstructure:"dir"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"`     // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"` // For error handling
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}
