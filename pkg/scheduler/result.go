package scheduler

import (
	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

// Result 一次求解运行的完整输出。
// 所有失败路径返回同一形状，status 与 diagnostics 始终填充。
type Result struct {
	Status         model.SolveStatus          `json:"status"`
	Assignments    []model.AssignmentDecision `json:"assignments"`
	UnfilledShifts []uuid.UUID                `json:"unfilled_shifts"`
	Summary        Summary                    `json:"summary"`
	Diagnostics    Diagnostics                `json:"diagnostics"`
}

// Summary 汇总统计
type Summary struct {
	TotalCost         float64            `json:"total_cost"`
	TotalShiftsFilled int                `json:"total_shifts_filled"`
	FillRate          float64            `json:"fill_rate"`      // 百分比
	EmployeeHours     map[string]float64 `json:"employee_hours"` // 人员ID → 已派工时
	FairnessScore     float64            `json:"fairness_score"` // 0~1，1 表示完全均衡
}

// ReasonCount 某一不可行原因的出现次数
type ReasonCount struct {
	Reason feasibility.Reason `json:"reason"`
	Count  int                `json:"count"`
}

// Diagnostics 运行诊断信息
type Diagnostics struct {
	SolveTime  float64 `json:"solve_time"`  // 求解阶段墙钟耗时（秒）
	StatusName string  `json:"status_name"` // 求解器原始状态，致命失败时为错误码

	// 不可行原因统计，按出现频次降序；仅在无解或存在未满足班次时填充
	TopInfeasibilityReasons []ReasonCount `json:"top_infeasibility_reasons,omitempty"`

	StageTimings map[string]float64 `json:"stage_timings"` // 各阶段耗时（秒）

	// 需求工时与理论产能对比，用于区分"人手不足"和"结构性无解"
	DemandHours   float64 `json:"demand_hours"`
	CapacityHours float64 `json:"capacity_hours"`

	CacheHits     int64 `json:"cache_hits"`
	CacheMisses   int64 `json:"cache_misses"`
	PairVariables int   `json:"pair_variables"` // 决策变量数
	ConflictPairs int   `json:"conflict_pairs"` // 互斥班次对数
}

// newResult 构造空结果骨架
func newResult() *Result {
	return &Result{
		Status:         model.StatusUnknown,
		Assignments:    []model.AssignmentDecision{},
		UnfilledShifts: []uuid.UUID{},
		Summary:        Summary{EmployeeHours: map[string]float64{}},
		Diagnostics:    Diagnostics{StageTimings: map[string]float64{}},
	}
}
