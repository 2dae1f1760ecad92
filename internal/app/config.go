package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/curriculum/batch"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/db"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/data/kv"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/observability"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/envutil"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/pkg/logger"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/platform/gemini"
	"github.com/mindfulclassroomcreations/TeacherArena-sub000/internal/platform/openai"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"
	ProviderMock   = "mock"

	StagingMemory = "memory"
	StagingFile   = "file"
	StagingDB     = "db"
	StagingRedis  = "redis"

	ProgressLog   = "log"
	ProgressRedis = "redis"
)

type StagingConfig struct {
	Backend string `yaml:"backend"`
	Dir     string `yaml:"dir"`
}

// ProviderConfig selects one backend and a model per provider mode.
type ProviderConfig struct {
	Name         string        `yaml:"name"`
	GeneralModel string        `yaml:"general_model"`
	LessonModel  string        `yaml:"lesson_model"`
	OpenAI       openai.Config `yaml:"openai"`
	Gemini       gemini.Config `yaml:"gemini"`
}

type BatchConfig struct {
	MaxAttempts    int           `yaml:"max_attempts"`
	Backoff        time.Duration `yaml:"backoff"`
	InterUnitDelay time.Duration `yaml:"inter_unit_delay"`
	Retention      time.Duration `yaml:"retention"`
	ProgressSink   string        `yaml:"progress_sink"`
}

func (b BatchConfig) Policy() batch.RetryPolicy {
	return batch.RetryPolicy{
		MaxAttempts:    b.MaxAttempts,
		Backoff:        b.Backoff,
		InterUnitDelay: b.InterUnitDelay,
	}
}

type Config struct {
	HTTPAddr    string                   `yaml:"http_addr"`
	LogMode     string                   `yaml:"log_mode"`
	CORSOrigins []string                 `yaml:"cors_origins"`
	DB          db.Config                `yaml:"db"`
	Staging     StagingConfig            `yaml:"staging"`
	Redis       kv.RedisConfig           `yaml:"redis"`
	Provider    ProviderConfig           `yaml:"provider"`
	Batch       BatchConfig              `yaml:"batch"`
	Otel        observability.OtelConfig `yaml:"otel"`
}

func DefaultConfig() Config {
	policy := batch.DefaultRetryPolicy()
	return Config{
		HTTPAddr: ":8080",
		LogMode:  "development",
		DB: db.Config{
			Driver:     db.DriverSQLite,
			Host:       "localhost",
			Port:       "5432",
			SSLMode:    "disable",
			SQLitePath: "curriculum.db",
		},
		Staging: StagingConfig{Backend: StagingDB, Dir: "staging-data"},
		Redis:   kv.RedisConfig{Addr: "localhost:6379"},
		Provider: ProviderConfig{
			Name:   ProviderMock,
			OpenAI: openai.Config{Timeout: 120 * time.Second, MaxRetries: 2},
			Gemini: gemini.Config{Timeout: 120 * time.Second},
		},
		Batch: BatchConfig{
			MaxAttempts:    policy.MaxAttempts,
			Backoff:        policy.Backoff,
			InterUnitDelay: policy.InterUnitDelay,
			Retention:      time.Hour,
			ProgressSink:   ProgressLog,
		},
		Otel: observability.OtelConfig{ServiceName: "curriculum-orchestrator", SampleRatio: 0.1},
	}
}

// LoadConfig layers defaults, then CONFIG_FILE (YAML), then the environment
// (including a .env file when present).
func LoadConfig(log *logger.Logger) (Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Info("Loaded .env")
	}
	cfg := DefaultConfig()
	if path := envutil.String("CONFIG_FILE", "", log); path != "" {
		if err := overlayYAML(&cfg, path); err != nil {
			return Config{}, err
		}
		log.Info("Loaded config file", "path", path)
	}
	applyEnv(&cfg, log)
	return cfg, cfg.Validate()
}

func overlayYAML(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, log *logger.Logger) {
	cfg.HTTPAddr = envutil.String("HTTP_ADDR", cfg.HTTPAddr, log)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode, log)
	cfg.CORSOrigins = envutil.List("CORS_ORIGINS", cfg.CORSOrigins)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host, log)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port, log)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User, log)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password, nil)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name, log)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode, log)
	cfg.DB.SQLitePath = envutil.String("SQLITE_PATH", cfg.DB.SQLitePath, log)

	cfg.Staging.Backend = envutil.String("STAGING_BACKEND", cfg.Staging.Backend, log)
	cfg.Staging.Dir = envutil.String("STAGING_DIR", cfg.Staging.Dir, log)

	cfg.Redis.Addr = envutil.String("REDIS_ADDR", cfg.Redis.Addr, log)
	cfg.Redis.Password = envutil.String("REDIS_PASSWORD", cfg.Redis.Password, nil)
	cfg.Redis.DB = envutil.Int("REDIS_DB", cfg.Redis.DB, log)
	cfg.Redis.Prefix = envutil.String("REDIS_PREFIX", cfg.Redis.Prefix, log)
	cfg.Redis.Channel = envutil.String("REDIS_PROGRESS_CHANNEL", cfg.Redis.Channel, log)

	p := &cfg.Provider
	p.Name = envutil.String("PROVIDER", p.Name, log)
	p.GeneralModel = envutil.String("PROVIDER_GENERAL_MODEL", p.GeneralModel, log)
	p.LessonModel = envutil.String("PROVIDER_LESSON_MODEL", p.LessonModel, log)
	rps := envutil.Float("PROVIDER_RPS", p.OpenAI.RPS, log)
	timeout := envutil.Millis("PROVIDER_TIMEOUT_MS", p.OpenAI.Timeout, log)

	p.OpenAI.APIKey = envutil.String("OPENAI_API_KEY", p.OpenAI.APIKey, nil)
	p.OpenAI.BaseURL = envutil.String("OPENAI_BASE_URL", p.OpenAI.BaseURL, log)
	p.OpenAI.MaxRetries = envutil.Int("OPENAI_MAX_RETRIES", p.OpenAI.MaxRetries, log)
	p.OpenAI.RPS = rps
	p.OpenAI.Timeout = timeout

	p.Gemini.APIKey = envutil.String("GEMINI_API_KEY", p.Gemini.APIKey, nil)
	p.Gemini.BaseURL = envutil.String("GEMINI_BASE_URL", p.Gemini.BaseURL, log)
	p.Gemini.RPS = rps
	p.Gemini.Timeout = timeout

	b := &cfg.Batch
	b.MaxAttempts = envutil.Int("BATCH_MAX_ATTEMPTS", b.MaxAttempts, log)
	b.Backoff = envutil.Millis("BATCH_BACKOFF_MS", b.Backoff, log)
	b.InterUnitDelay = envutil.Millis("BATCH_INTER_UNIT_DELAY_MS", b.InterUnitDelay, log)
	b.Retention = envutil.Millis("BATCH_RETENTION_MS", b.Retention, log)
	b.ProgressSink = envutil.String("BATCH_PROGRESS_SINK", b.ProgressSink, log)

	o := &cfg.Otel
	o.Enabled = envutil.Bool("OTEL_ENABLED", o.Enabled)
	o.ServiceName = envutil.String("OTEL_SERVICE_NAME", o.ServiceName, log)
	o.Environment = envutil.String("APP_ENV", o.Environment, log)
	o.Version = envutil.String("APP_VERSION", o.Version, log)
	o.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", o.Endpoint, log)
	if h := observability.ParseHeaders(envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", nil)); h != nil {
		o.Headers = h
	}
	o.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", o.Insecure)
	o.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", o.SampleRatio, log)
}

func (c Config) Validate() error {
	switch strings.ToLower(c.Provider.Name) {
	case ProviderMock:
	case ProviderOpenAI:
		if strings.TrimSpace(c.Provider.OpenAI.APIKey) == "" {
			return fmt.Errorf("provider %q requires OPENAI_API_KEY", c.Provider.Name)
		}
	case ProviderGemini:
		if strings.TrimSpace(c.Provider.Gemini.APIKey) == "" {
			return fmt.Errorf("provider %q requires GEMINI_API_KEY", c.Provider.Name)
		}
	default:
		return fmt.Errorf("unknown provider %q", c.Provider.Name)
	}
	switch strings.ToLower(c.Staging.Backend) {
	case StagingMemory, StagingFile, StagingDB, StagingRedis:
	default:
		return fmt.Errorf("unknown staging backend %q", c.Staging.Backend)
	}
	switch strings.ToLower(c.Batch.ProgressSink) {
	case ProgressLog, ProgressRedis:
	default:
		return fmt.Errorf("unknown progress sink %q", c.Batch.ProgressSink)
	}
	return nil
}

// needsRedis reports whether any component is backed by redis.
func (c Config) needsRedis() bool {
	return strings.EqualFold(c.Staging.Backend, StagingRedis) || strings.EqualFold(c.Batch.ProgressSink, ProgressRedis)
}
