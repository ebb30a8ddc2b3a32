// Package model 定义排班优化引擎的核心数据模型
package model

import (
	"time"

	"github.com/google/uuid"
)

// Snapshot 一次求解运行的输入快照
// 由数据访问层一次性装载，运行期间不可变
type Snapshot struct {
	OrgID    uuid.UUID      `json:"org_id"`
	Workers  []*Worker      `json:"workers"`
	Shifts   []*ShiftDemand `json:"shifts"`
	Holidays []string       `json:"holidays,omitempty"` // 公共假日（YYYY-MM-DD）
	LoadedAt time.Time      `json:"loaded_at"`
}

// HolidaySet 返回公共假日集合
func (s *Snapshot) HolidaySet() map[string]bool {
	set := make(map[string]bool, len(s.Holidays))
	for _, d := range s.Holidays {
		set[d] = true
	}
	return set
}

// DateRange 返回所有班次覆盖的日期范围（首末日期，YYYY-MM-DD）
// 无班次时返回空字符串
func (s *Snapshot) DateRange() (first, last string) {
	for _, shift := range s.Shifts {
		d := shift.Date()
		if first == "" || d < first {
			first = d
		}
		if d > last {
			last = d
		}
	}
	return first, last
}

// SolveStatus 求解结果状态
type SolveStatus string

const (
	StatusOptimal    SolveStatus = "OPTIMAL"    // 已证明最优
	StatusFeasible   SolveStatus = "FEASIBLE"   // 可行解（时间预算内未证明最优）
	StatusInfeasible SolveStatus = "INFEASIBLE" // 已证明无可行解
	StatusUnknown    SolveStatus = "UNKNOWN"    // 预算内未找到解，也未证明不可行
)

// Succeeded 检查状态是否带有可用的分配方案
func (st SolveStatus) Succeeded() bool {
	return st == StatusOptimal || st == StatusFeasible
}

// AssignmentDecision 求解输出的单条分配决策
type AssignmentDecision struct {
	WorkerID uuid.UUID `json:"worker_id"`
	ShiftID  uuid.UUID `json:"shift_id"`
	Cost     float64   `json:"cost"`
}
