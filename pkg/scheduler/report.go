package scheduler

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/sat"
	"github.com/Dipanapana/RostraCore-sub000/pkg/stats"
)

// reportContext 结果提取阶段所需的运行期对象
type reportContext struct {
	ix         *feasibility.Index
	eval       feasibility.Evaluator
	mdl        *sat.Model
	opts       Options
	holidays   map[string]bool
	nightStart int
	nightEnd   int
}

// populate 将求解输出转换为调用方结果
func (rc *reportContext) populate(result *Result, sol *sat.Solution) {
	result.Status = sol.Status
	result.Diagnostics.StatusName = sol.StatusName()
	result.Diagnostics.SolveTime = sol.WallTime.Seconds()

	decisions := rc.assignments(sol)
	result.Assignments = decisions
	result.UnfilledShifts = rc.unfilled(sol)

	cov := stats.ComputeCoverage(rc.ix.Shifts, decisions, rc.ix.Workers, rc.opts.MaxHoursWeek)
	fair := stats.ComputeFairness(stats.FairnessInput{
		Workers:          rc.ix.Workers,
		Shifts:           rc.ix.Shifts,
		Decisions:        decisions,
		Holidays:         rc.holidays,
		NightWindowStart: rc.nightStart,
		NightWindowEnd:   rc.nightEnd,
	})

	result.Summary = Summary{
		TotalCost:         cov.TotalCost,
		TotalShiftsFilled: cov.FilledSlots,
		FillRate:          cov.FillRate,
		EmployeeHours:     cov.WorkerHours,
		FairnessScore:     fair.Score,
	}
	result.Diagnostics.DemandHours = cov.DemandHours
	result.Diagnostics.CapacityHours = cov.CapacityHours

	// 未能满足的需求要能向运营方解释原因
	if sol.Status == model.StatusInfeasible || len(result.UnfilledShifts) > 0 {
		result.Diagnostics.TopInfeasibilityReasons = tallyReasons(rc.ix, rc.eval)
	}

	cache := rc.eval.Stats()
	result.Diagnostics.CacheHits = cache.Hits
	result.Diagnostics.CacheMisses = cache.Misses
	result.Diagnostics.PairVariables = rc.mdl.NumPairVars
	result.Diagnostics.ConflictPairs = rc.mdl.NumConflicts
}

// assignments 提取解中取真的决策变量，按班次开始时间排列
func (rc *reportContext) assignments(sol *sat.Solution) []model.AssignmentDecision {
	decisions := make([]model.AssignmentDecision, 0)
	if !sol.Status.Succeeded() {
		return decisions
	}
	for s := 0; s < rc.ix.NumShifts(); s++ {
		for w := 0; w < rc.ix.NumWorkers(); w++ {
			v, ok := rc.mdl.Pairs.At(w, s)
			if !ok || !sol.Assigned(v) {
				continue
			}
			decisions = append(decisions, model.AssignmentDecision{
				WorkerID: rc.ix.Workers[w].ID,
				ShiftID:  rc.ix.Shifts[s].ID,
				Cost:     rc.eval.At(w, s).Cost,
			})
		}
	}
	return decisions
}

// unfilled 返回没有任何决策变量取真的班次。
// 无解时所有班次都未被满足；有解时恰为候选人手不足、未进入模型的班次。
func (rc *reportContext) unfilled(sol *sat.Solution) []uuid.UUID {
	ids := make([]uuid.UUID, 0)
	if !sol.Status.Succeeded() {
		for _, s := range rc.ix.Shifts {
			ids = append(ids, s.ID)
		}
		return ids
	}
	for _, si := range rc.mdl.Uncovered {
		ids = append(ids, rc.ix.Shifts[si].ID)
	}
	return ids
}

// tallyReasons 统计全部 (人员, 班次) 对的不可行原因，按出现频次降序。
// 懒加载模式下这一步会补齐整个矩阵。
func tallyReasons(ix *feasibility.Index, eval feasibility.Evaluator) []ReasonCount {
	counts := make(map[feasibility.Reason]int)
	for w := 0; w < ix.NumWorkers(); w++ {
		for s := 0; s < ix.NumShifts(); s++ {
			res := eval.At(w, s)
			if res.Feasible {
				continue
			}
			for _, reason := range res.Reasons {
				counts[reason]++
			}
		}
	}

	tally := make([]ReasonCount, 0, len(counts))
	for _, reason := range feasibility.AllReasons() {
		if n := counts[reason]; n > 0 {
			tally = append(tally, ReasonCount{Reason: reason, Count: n})
		}
	}
	sort.SliceStable(tally, func(i, j int) bool { return tally[i].Count > tally[j].Count })
	return tally
}
