package conf

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultHttpAddr         = ":8080"
	DefaultJudgeTick        = time.Second
	DefaultCompileDelay     = 1500 * time.Millisecond
	DefaultRunDelay         = 2500 * time.Millisecond
	DefaultReferenceProblem = "p1"
	DefaultCorsOrigins      = "https://*,http://*"
	DefaultLogLevel         = "info"
)

type Config struct {
	HttpAddr    string
	JwtKey      string
	CorsOrigins []string

	LogFile  string
	LogLevel string

	Judge JudgeConfig

	// SeedFile overrides the embedded demo data when set.
	SeedFile string
	// SnapshotFile is read on start and written on shutdown when set.
	SnapshotFile string
}

type JudgeConfig struct {
	Tick             time.Duration
	CompileDelay     time.Duration
	RunDelay         time.Duration
	ReferenceProblem string
}

// NewConfig reads the environment, loading a .env file first if one
// exists. Unset values fall back to defaults with a warning.
func NewConfig() (*Config, error) {
	log := slog.Default().With("module", "conf")

	if _, err := os.Stat(".env"); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := godotenv.Load(".env"); err != nil {
		return nil, err
	}

	cfg := &Config{
		HttpAddr:     strEnv(log, "HTTP_ADDR", DefaultHttpAddr),
		JwtKey:       os.Getenv("JWT_KEY"),
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     strEnv(log, "LOG_LEVEL", DefaultLogLevel),
		SeedFile:     os.Getenv("SEED_FILE"),
		SnapshotFile: os.Getenv("SNAPSHOT_FILE"),
	}
	for _, o := range strings.Split(strEnv(log, "CORS_ORIGINS", DefaultCorsOrigins), ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CorsOrigins = append(cfg.CorsOrigins, o)
		}
	}

	var err error
	if cfg.Judge.Tick, err = durEnv(log, "JUDGE_TICK", DefaultJudgeTick); err != nil {
		return nil, err
	}
	if cfg.Judge.CompileDelay, err = durEnv(log, "JUDGE_COMPILE_DELAY", DefaultCompileDelay); err != nil {
		return nil, err
	}
	if cfg.Judge.RunDelay, err = durEnv(log, "JUDGE_RUN_DELAY", DefaultRunDelay); err != nil {
		return nil, err
	}
	cfg.Judge.ReferenceProblem = strEnv(log, "JUDGE_REFERENCE_PROBLEM", DefaultReferenceProblem)

	return cfg, nil
}

func strEnv(log *slog.Logger, key, def string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Warn("env var is not set, using default", "key", key, "default", def)
		return def
	}
	return v
}

func durEnv(log *slog.Logger, key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		log.Warn("env var is not set, using default", "key", key, "default", def.String())
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, &ParseError{Key: key, Value: v, Err: err}
	}
	if d <= 0 {
		return 0, &ParseError{Key: key, Value: v, Err: errors.New("must be positive")}
	}
	return d, nil
}

type ParseError struct {
	Key   string
	Value string
	Err   error
}

func (e *ParseError) Error() string {
	return "failed to parse " + e.Key + "=" + e.Value + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error { return e.Err }
