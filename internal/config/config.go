package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	NATS      NATSConfig      `yaml:"nats"`
	Log       LogConfig       `yaml:"log"`
	Admin     AdminConfig     `yaml:"admin"`
	Matching  MatchingConfig  `yaml:"matching"`
	Sweep     SweepConfig     `yaml:"sweep"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// ServerConfig holds the admin/health HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// RedisConfig holds the flow-state store settings.
type RedisConfig struct {
	Addr         string        `yaml:"addr"           env:"REDIS_ADDR"           env-default:"localhost:6379"`
	Password     string        `yaml:"password"       env:"REDIS_PASSWORD"`
	DB           int           `yaml:"db"             env:"REDIS_DB"             env-default:"0"`
	FlowStateTTL time.Duration `yaml:"flow_state_ttl" env:"REDIS_FLOW_STATE_TTL" env-default:"30m"`
}

// NATSConfig holds the notification publisher settings. An empty URL
// disables the publisher; notifications fall back to the log notifier.
type NATSConfig struct {
	URL           string `yaml:"url"            env:"NATS_URL"`
	SubjectPrefix string `yaml:"subject_prefix" env:"NATS_SUBJECT_PREFIX" env-default:"counseling.notify"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// AdminConfig holds the operations contact. Zero chat id silences ops
// alerts (they still land in the log).
type AdminConfig struct {
	ChatID int64 `yaml:"chat_id" env:"ADMIN_CHAT_ID"`
}

// MatchingConfig holds session assignment parameters.
type MatchingConfig struct {
	// CounselorCap is the maximum concurrent matched+active sessions per counselor.
	CounselorCap int `yaml:"counselor_cap"  env:"MATCHING_COUNSELOR_CAP"  env-default:"3"`
	// PendingBatch bounds how many requested sessions one auto-match pass processes.
	PendingBatch int `yaml:"pending_batch"  env:"MATCHING_PENDING_BATCH"  env-default:"50"`
	// RetryAttempts and RetryBase shape the bounded backoff around
	// transactional state transitions under transient store contention.
	RetryAttempts int           `yaml:"retry_attempts" env:"MATCHING_RETRY_ATTEMPTS" env-default:"3"`
	RetryBase     time.Duration `yaml:"retry_base"     env:"MATCHING_RETRY_BASE"     env-default:"500ms"`
}

// SweepConfig holds background sweeper parameters.
type SweepConfig struct {
	TimeoutInterval   time.Duration `yaml:"timeout_interval"   env:"SWEEP_TIMEOUT_INTERVAL"   env-default:"5m"`
	AutoMatchInterval time.Duration `yaml:"automatch_interval" env:"SWEEP_AUTOMATCH_INTERVAL" env-default:"5m"`
	RetentionInterval time.Duration `yaml:"retention_interval" env:"SWEEP_RETENTION_INTERVAL" env-default:"24h"`
	SessionTimeout    time.Duration `yaml:"session_timeout"    env:"SWEEP_SESSION_TIMEOUT"    env-default:"24h"`
	RetentionAge      time.Duration `yaml:"retention_age"      env:"SWEEP_RETENTION_AGE"      env-default:"720h"`
}

// RateLimitConfig holds the per-action sliding-window limits.
type RateLimitConfig struct {
	MessageMax           int           `yaml:"message_max"            env:"RATE_MESSAGE_MAX"            env-default:"20"`
	MessageWindow        time.Duration `yaml:"message_window"         env:"RATE_MESSAGE_WINDOW"         env-default:"1m"`
	SessionRequestMax    int           `yaml:"session_request_max"    env:"RATE_SESSION_REQUEST_MAX"    env-default:"3"`
	SessionRequestWindow time.Duration `yaml:"session_request_window" env:"RATE_SESSION_REQUEST_WINDOW" env-default:"1h"`
	ButtonClickMax       int           `yaml:"button_click_max"       env:"RATE_BUTTON_CLICK_MAX"       env-default:"30"`
	ButtonClickWindow    time.Duration `yaml:"button_click_window"    env:"RATE_BUTTON_CLICK_WINDOW"    env-default:"1m"`
	RegisterMax          int           `yaml:"register_max"           env:"RATE_REGISTER_MAX"           env-default:"2"`
	RegisterWindow       time.Duration `yaml:"register_window"        env:"RATE_REGISTER_WINDOW"        env-default:"24h"`
	ReapInterval         time.Duration `yaml:"reap_interval"          env:"RATE_REAP_INTERVAL"          env-default:"1h"`
	ReapAge              time.Duration `yaml:"reap_age"               env:"RATE_REAP_AGE"               env-default:"24h"`
}
