// RostraCore 排班优化引擎
// 主程序入口

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/Dipanapana/RostraCore-sub000/internal/config"
	"github.com/Dipanapana/RostraCore-sub000/internal/database"
	"github.com/Dipanapana/RostraCore-sub000/internal/metrics"
	"github.com/Dipanapana/RostraCore-sub000/internal/repository"
	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/logger"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler"
	"github.com/Dipanapana/RostraCore-sub000/pkg/validator"
)

// 构建信息（通过 ldflags 注入）
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// .env 存在时先行装载，便于本地运行
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
		os.Exit(1)
	}

	logger.Init(logger.Config{
		Level:    cfg.Log.Level,
		Format:   cfg.LoggerFormat(),
		Output:   cfg.Log.Output,
		FilePath: cfg.Log.FilePath,
	})

	logger.Info().
		Str("version", Version).
		Str("build", BuildTime).
		Str("commit", GitCommit).
		Msg("RostraCore 排班引擎启动")

	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, cfg.Metrics.Path)
	}

	if err := run(cfg); err != nil {
		logger.WithError(err).Msg("求解运行失败")
		os.Exit(1)
	}

	// 指标端点保持在线供抓取，收到信号后退出
	if cfg.Metrics.Addr != "" {
		logger.Info().Msg("求解完成，指标端点保持在线")
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
	}
}

// run 装载输入、执行一次求解并输出结果
func run(cfg *config.Config) error {
	snap, err := loadSnapshot(cfg)
	if err != nil {
		return err
	}

	engine := scheduler.NewEngine(cfg.Engine.Options())

	start := time.Now()
	result, err := engine.Run(context.Background(), snap)
	metrics.ObserveRun(result, time.Since(start))
	if err != nil {
		// 失败路径同样输出结果骨架，调用方按 status 统一处理
		printResult(result)
		return err
	}

	auditResult(engine.Options(), snap, result)
	return printResult(result)
}

// auditResult 用独立的审计器复核已接受的解，违规仅记录告警
func auditResult(opts scheduler.Options, snap *model.Snapshot, result *scheduler.Result) {
	if !result.Status.Succeeded() {
		return
	}

	auditCfg, err := opts.AuditConfig(snap.HolidaySet())
	if err != nil {
		return
	}

	workers := make([]*model.Worker, 0, len(snap.Workers))
	for _, w := range snap.Workers {
		if w.IsActive() {
			workers = append(workers, w)
		}
	}

	violations := validator.NewAuditor(auditCfg).Audit(workers, snap.Shifts, result.Assignments, result.UnfilledShifts)
	for _, v := range violations {
		logger.Warn().
			Str("type", string(v.Type)).
			Str("detail", v.Message).
			Msg("事后审计发现违规")
	}
}

// loadSnapshot 按配置选择输入来源：快照文件优先，否则查询数据库
func loadSnapshot(cfg *config.Config) (*model.Snapshot, error) {
	if cfg.Run.SnapshotFile != "" {
		logger.Info().Str("file", cfg.Run.SnapshotFile).Msg("从快照文件装载输入")
		return repository.LoadSnapshotFile(cfg.Run.SnapshotFile)
	}

	orgID, err := uuid.Parse(cfg.Run.OrgID)
	if err != nil {
		return nil, errors.InvalidInput("ORG_ID", err.Error())
	}
	if cfg.Run.WindowStart == "" || cfg.Run.WindowEnd == "" {
		return nil, errors.New(errors.CodeInvalidInput, "数据库装载需要 RUN_WINDOW_START 与 RUN_WINDOW_END")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	return repository.NewSnapshotRepository(db).Load(
		context.Background(), orgID, cfg.Run.WindowStart, cfg.Run.WindowEnd)
}

// printResult 把结果 JSON 写到标准输出
func printResult(result *scheduler.Result) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

// serveMetrics 暴露 Prometheus 指标端点
func serveMetrics(addr, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())

	logger.Info().Str("addr", addr).Str("path", path).Msg("指标端点启动")
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.WithError(err).Msg("指标端点退出")
	}
}
