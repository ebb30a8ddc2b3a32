// Package logger 基于 zerolog 封装引擎的结构化日志。
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	initOnce sync.Once
	base     zerolog.Logger
)

// Config 日志配置
type Config struct {
	Level      string `yaml:"level" json:"level"`
	Format     string `yaml:"format" json:"format"` // json 或 console
	Output     string `yaml:"output" json:"output"` // stdout/stderr/file
	FilePath   string `yaml:"file_path,omitempty" json:"file_path,omitempty"`
	TimeFormat string `yaml:"time_format,omitempty" json:"time_format,omitempty"`
}

// Init 按配置初始化全局日志器,仅首次调用生效
func Init(cfg Config) {
	initOnce.Do(func() {
		zerolog.SetGlobalLevel(parseLevel(cfg.Level))
		base = zerolog.New(writerFor(cfg)).With().Timestamp().Logger()
	})
}

// Get 返回全局日志器,未显式 Init 时退回 info 级 console 输出
func Get() *zerolog.Logger {
	Init(Config{Level: "info", Format: "console"})
	return &base
}

func parseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// writerFor 选择输出目标,file 打不开时退回标准输出
func writerFor(cfg Config) io.Writer {
	var out io.Writer = os.Stdout
	switch cfg.Output {
	case "stderr":
		out = os.Stderr
	case "file":
		if cfg.FilePath != "" {
			if f, err := os.OpenFile(cfg.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644); err == nil {
				out = f
			}
		}
	}

	if cfg.Format == "console" {
		tf := cfg.TimeFormat
		if tf == "" {
			tf = time.RFC3339
		}
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: tf}
	}
	return out
}

// Debug 调试级日志
func Debug() *zerolog.Event { return Get().Debug() }

// Info 信息级日志
func Info() *zerolog.Event { return Get().Info() }

// Warn 警告级日志
func Warn() *zerolog.Event { return Get().Warn() }

// Error 错误级日志
func Error() *zerolog.Event { return Get().Error() }

// Fatal 致命错误日志,输出后进程退出
func Fatal() *zerolog.Event { return Get().Fatal() }

// WithError 错误级日志并附加 err 字段
func WithError(err error) *zerolog.Event { return Get().Error().Err(err) }

// EngineLogger 求解引擎专用日志器
type EngineLogger struct {
	base *zerolog.Logger
}

// NewEngineLogger 创建求解引擎日志器
func NewEngineLogger() *EngineLogger {
	l := Get().With().Str("component", "engine").Logger()
	return &EngineLogger{base: &l}
}

// RunStart 记录求解开始
func (l *EngineLogger) RunStart(runID string, workers, shifts int) {
	l.base.Info().
		Str("run_id", runID).
		Int("workers", workers).
		Int("shifts", shifts).
		Msg("开始求解排班")
}

// StageComplete 记录流水线阶段完成
func (l *EngineLogger) StageComplete(stage string, duration time.Duration) {
	l.base.Debug().
		Str("stage", stage).
		Dur("duration", duration).
		Msg("阶段完成")
}

// SolveComplete 记录求解器返回
func (l *EngineLogger) SolveComplete(status string, objective float64, wallTime time.Duration) {
	l.base.Info().
		Str("status", status).
		Float64("objective", objective).
		Dur("wall_time", wallTime).
		Msg("求解器返回")
}

// SolveFailed 记录求解器内部错误,附模型规模便于复现
func (l *EngineLogger) SolveFailed(err error, pairVars, conflicts int) {
	l.base.Error().
		Err(err).
		Int("pair_variables", pairVars).
		Int("conflict_pairs", conflicts).
		Msg("求解器调用失败")
}

// RunComplete 记录求解结束
func (l *EngineLogger) RunComplete(runID, status string, duration time.Duration, filled, unfilled int) {
	l.base.Info().
		Str("run_id", runID).
		Str("status", status).
		Dur("duration", duration).
		Int("filled", filled).
		Int("unfilled", unfilled).
		Msg("排班求解完成")
}
