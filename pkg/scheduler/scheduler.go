// Package scheduler 实现排班优化引擎的编排入口。
// 数据流依次为可行性评估 → 约束建模 → 目标组装 → 求解 → 结果提取，
// 每个阶段只依赖上一阶段的输出；每次运行持有独立的索引、缓存与模型，
// 运行之间不共享任何可变状态。
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/logger"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/sat"
)

// 求解流水线阶段名，同时作为耗时统计的键
const (
	stageFeasibility = "feasibility"
	stageModelBuild  = "model_build"
	stageObjective   = "objective"
	stageSolve       = "solve"
	stageReport      = "report"
)

// Engine 排班优化引擎。
// 配置在构造时注入且不再变化，同一实例可为不同组织并发发起相互独立的运行。
type Engine struct {
	opts Options
	log  *logger.EngineLogger
}

// NewEngine 创建引擎实例
func NewEngine(opts Options) *Engine {
	return &Engine{
		opts: opts.normalized(),
		log:  logger.NewEngineLogger(),
	}
}

// Options 返回引擎生效的配置副本
func (e *Engine) Options() Options {
	return e.opts
}

// Run 对输入快照执行一次完整求解。
// 返回的结果在任何路径下都已填充 status 与 diagnostics。
// 无可行解与超时降级属于正常业务结果，error 为 nil；
// 输入无效、建模失败、求解器内部错误返回非空 error，同时结果结构仍然可用。
func (e *Engine) Run(ctx context.Context, snap *model.Snapshot) (result *Result, err error) {
	runStart := time.Now()
	runID := uuid.New().String()
	result = newResult()

	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.CodeSolverFailure, "求解过程发生未预期的崩溃: %v", r)
			result.Status = model.StatusUnknown
			result.Diagnostics.StatusName = string(errors.CodeSolverFailure)
			e.log.RunComplete(runID, string(errors.CodeSolverFailure), time.Since(runStart), 0, 0)
		}
	}()

	if verr := e.opts.Validate(); verr != nil {
		return e.fail(result, runID, runStart, verr)
	}
	if snap == nil {
		return e.fail(result, runID, runStart, errors.New(errors.CodeInvalidInput, "输入快照为空"))
	}

	workers := activeWorkers(snap.Workers)
	if len(workers) == 0 {
		return e.fail(result, runID, runStart, errors.New(errors.CodeInvalidInput, "没有可参与排班的人员"))
	}
	if len(snap.Shifts) == 0 {
		return e.fail(result, runID, runStart, errors.New(errors.CodeInvalidInput, "没有待排班次"))
	}

	e.log.RunStart(runID, len(workers), len(snap.Shifts))

	holidays := snap.HolidaySet()
	fparams, err := e.opts.feasibilityParams(holidays)
	if err != nil {
		return e.fail(result, runID, runStart, err)
	}
	sparams, err := e.opts.satParams(holidays)
	if err != nil {
		return e.fail(result, runID, runStart, err)
	}

	clock := &stageClock{timings: result.Diagnostics.StageTimings, log: e.log}

	// 可行性评估
	stageStart := time.Now()
	ix := feasibility.NewIndex(workers, snap.Shifts)
	eval := feasibility.NewEvaluator(ix, feasibility.NewChecker(fparams), e.opts.UseLazyFeasibility)
	clock.done(stageFeasibility, stageStart)

	// 约束建模
	stageStart = time.Now()
	mdl, err := sat.NewBuilder(ix, eval, sparams).Build()
	if err != nil {
		return e.fail(result, runID, runStart, err)
	}
	clock.done(stageModelBuild, stageStart)

	rc := &reportContext{
		ix:         ix,
		eval:       eval,
		mdl:        mdl,
		opts:       e.opts,
		holidays:   holidays,
		nightStart: fparams.NightWindowStart,
		nightEnd:   fparams.NightWindowEnd,
	}

	// 所有班次都凑不齐候选人时模型中没有任何覆盖约束，无需进入求解器
	if len(mdl.Uncovered) == ix.NumShifts() {
		stageStart = time.Now()
		rc.populate(result, &sat.Solution{Status: model.StatusInfeasible})
		clock.done(stageReport, stageStart)
		e.log.RunComplete(runID, string(result.Status), time.Since(runStart), 0, len(result.UnfilledShifts))
		return result, nil
	}

	// 目标组装
	stageStart = time.Now()
	if oerr := sat.ComposeObjective(mdl, eval, sparams); oerr != nil {
		return e.fail(result, runID, runStart, oerr)
	}
	clock.done(stageObjective, stageStart)

	// 求解
	stageStart = time.Now()
	sol, err := sat.NewDriver(e.opts.timeLimit(), e.opts.WorkerThreads).Solve(ctx, mdl)
	if err != nil {
		result.Diagnostics.PairVariables = mdl.NumPairVars
		result.Diagnostics.ConflictPairs = mdl.NumConflicts
		e.log.SolveFailed(err, mdl.NumPairVars, mdl.NumConflicts)
		return e.fail(result, runID, runStart, err)
	}
	clock.done(stageSolve, stageStart)
	e.log.SolveComplete(sol.StatusName(), sol.Objective, sol.WallTime)

	// 结果提取与诊断
	stageStart = time.Now()
	rc.populate(result, sol)
	clock.done(stageReport, stageStart)

	e.log.RunComplete(runID, string(result.Status), time.Since(runStart),
		len(result.Assignments), len(result.UnfilledShifts))
	return result, nil
}

// fail 以统一的结果形状返回致命错误
func (e *Engine) fail(result *Result, runID string, runStart time.Time, ferr error) (*Result, error) {
	code := string(errors.GetCode(ferr))
	result.Status = model.StatusUnknown
	result.Diagnostics.StatusName = code
	e.log.RunComplete(runID, code, time.Since(runStart), 0, 0)
	return result, ferr
}

// activeWorkers 过滤出可参与排班的人员
func activeWorkers(all []*model.Worker) []*model.Worker {
	out := make([]*model.Worker, 0, len(all))
	for _, w := range all {
		if w.IsActive() {
			out = append(out, w)
		}
	}
	return out
}

// stageClock 累计各阶段耗时并写日志
type stageClock struct {
	timings map[string]float64
	log     *logger.EngineLogger
}

func (c *stageClock) done(stage string, start time.Time) {
	d := time.Since(start)
	c.timings[stage] = d.Seconds()
	c.log.StageComplete(stage, d)
}
