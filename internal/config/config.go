// Package config 从环境变量装配引擎运行配置。
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler"
)

// Config 进程完整配置
type Config struct {
	App      AppConfig      `yaml:"app"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Run      RunConfig      `yaml:"run"`
	Engine   EngineConfig   `yaml:"engine"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// AppConfig 进程标识与运行环境
type AppConfig struct {
	Name string `yaml:"name"`
	Env  string `yaml:"env"`
}

// DatabaseConfig PostgreSQL 连接参数
type DatabaseConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Name            string        `yaml:"name"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

// DSN 拼接 lib/pq 连接串
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `yaml:"level"`
	Format   string `yaml:"format"` // json/console，空值按运行环境决定
	Output   string `yaml:"output"` // stdout/stderr/file
	FilePath string `yaml:"file_path"`
}

// RunConfig 单次求解运行的输入来源。
// SnapshotFile 非空时从 JSON 快照文件读取，否则按组织和日期窗口查询数据库。
type RunConfig struct {
	SnapshotFile string `yaml:"snapshot_file"`
	OrgID        string `yaml:"org_id"`
	WindowStart  string `yaml:"window_start"` // YYYY-MM-DD
	WindowEnd    string `yaml:"window_end"`   // YYYY-MM-DD，含当日
}

// EngineConfig 求解引擎配置，字段与引擎运行配置一一对应
type EngineConfig struct {
	MaxHoursWeek         float64 `yaml:"max_hours_week"`
	MinRestHours         float64 `yaml:"min_rest_hours"`
	MaxConsecutiveDays   int     `yaml:"max_consecutive_days"`
	MaxConsecutiveNights int     `yaml:"max_consecutive_nights"`
	FairnessSlack        int     `yaml:"fairness_slack"`
	FairnessWeight       float64 `yaml:"fairness_weight"`
	NightPremiumPerHour  float64 `yaml:"night_premium_per_hour"`
	TimeLimitSeconds     float64 `yaml:"time_limit_seconds"`
	WorkerThreads        int     `yaml:"worker_threads"`
	UseLazyFeasibility   bool    `yaml:"use_lazy_feasibility"`
	NightWindowStart     string  `yaml:"night_window_start"`
	NightWindowEnd       string  `yaml:"night_window_end"`
}

// Options 转换为引擎运行配置
func (c *EngineConfig) Options() scheduler.Options {
	return scheduler.Options{
		MaxHoursWeek:         c.MaxHoursWeek,
		MinRestHours:         c.MinRestHours,
		MaxConsecutiveDays:   c.MaxConsecutiveDays,
		MaxConsecutiveNights: c.MaxConsecutiveNights,
		FairnessSlack:        c.FairnessSlack,
		FairnessWeight:       c.FairnessWeight,
		NightPremiumPerHour:  c.NightPremiumPerHour,
		TimeLimitSeconds:     c.TimeLimitSeconds,
		WorkerThreads:        c.WorkerThreads,
		UseLazyFeasibility:   c.UseLazyFeasibility,
		NightWindowStart:     c.NightWindowStart,
		NightWindowEnd:       c.NightWindowEnd,
	}
}

// MetricsConfig 指标端点配置
type MetricsConfig struct {
	Addr string `yaml:"addr"` // 空表示不启动指标端点
	Path string `yaml:"path"`
}

// Load 读取环境变量并填充默认值
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name: envStr("APP_NAME", "rostracore"),
			Env:  envStr("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            envStr("DB_HOST", "localhost"),
			Port:            envInt("DB_PORT", 5432),
			Name:            envStr("DB_NAME", "rostra"),
			User:            envStr("DB_USER", "rostra"),
			Password:        envStr("DB_PASSWORD", "rostra123"),
			SSLMode:         envStr("DB_SSL_MODE", "disable"),
			MaxOpenConns:    envInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    envInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: envDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
		},
		Log: LogConfig{
			Level:    envStr("LOG_LEVEL", "info"),
			Format:   envStr("LOG_FORMAT", ""),
			Output:   envStr("LOG_OUTPUT", "stderr"),
			FilePath: envStr("LOG_FILE_PATH", ""),
		},
		Run: RunConfig{
			SnapshotFile: envStr("SNAPSHOT_FILE", ""),
			OrgID:        envStr("ORG_ID", ""),
			WindowStart:  envStr("RUN_WINDOW_START", ""),
			WindowEnd:    envStr("RUN_WINDOW_END", ""),
		},
		Engine: EngineConfig{
			MaxHoursWeek:         envFloat("ENGINE_MAX_HOURS_WEEK", 0),
			MinRestHours:         envFloat("ENGINE_MIN_REST_HOURS", 0),
			MaxConsecutiveDays:   envInt("ENGINE_MAX_CONSECUTIVE_DAYS", scheduler.DefaultMaxConsecutiveDays),
			MaxConsecutiveNights: envInt("ENGINE_MAX_CONSECUTIVE_NIGHTS", scheduler.DefaultMaxConsecutiveNights),
			FairnessSlack:        envInt("ENGINE_FAIRNESS_SLACK", scheduler.DefaultFairnessSlack),
			FairnessWeight:       envFloat("ENGINE_FAIRNESS_WEIGHT", 0),
			NightPremiumPerHour:  envFloat("ENGINE_NIGHT_PREMIUM_PER_HOUR", 0),
			TimeLimitSeconds:     envFloat("ENGINE_TIME_LIMIT_SECONDS", scheduler.DefaultTimeLimitSeconds),
			WorkerThreads:        envInt("ENGINE_WORKER_THREADS", 0),
			UseLazyFeasibility:   envBool("ENGINE_USE_LAZY_FEASIBILITY", false),
			NightWindowStart:     envStr("ENGINE_NIGHT_WINDOW_START", scheduler.DefaultNightWindowStart),
			NightWindowEnd:       envStr("ENGINE_NIGHT_WINDOW_END", scheduler.DefaultNightWindowEnd),
		},
		Metrics: MetricsConfig{
			Addr: envStr("METRICS_ADDR", ""),
			Path: envStr("METRICS_PATH", "/metrics"),
		},
	}

	return cfg, nil
}

// LoggerFormat 返回日志输出格式，未显式配置时生产环境用 json
func (c *Config) LoggerFormat() string {
	if c.Log.Format != "" {
		return c.Log.Format
	}
	if c.IsProduction() {
		return "json"
	}
	return "console"
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.App.Env == "production"
}

// 环境变量读取,空值一律按未设置处理
func envStr(key, fallback string) string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	return v
}

func envInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if f, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return f
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
