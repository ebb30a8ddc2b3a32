package feasibility

import (
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// 法定溢价倍率，节假日优先于周日
const (
	holidayMultiplier = 2.0
	sundayMultiplier  = 1.5
)

// Params 可行性判定所需的配置，构造后不再变化
type Params struct {
	MaxHoursWeek        float64
	NightWindowStart    int // 自零点起的分钟数
	NightWindowEnd      int
	NightPremiumPerHour float64
	Holidays            map[string]bool
}

// Checker 对单个 (worker, shift) 对执行硬约束判定并估算成本
type Checker struct {
	params Params
}

// NewChecker 创建判定器
func NewChecker(params Params) *Checker {
	return &Checker{params: params}
}

// Evaluate 判定一个 (worker, shift) 对。
// 收集全部违反原因而非首个，诊断统计需要完整的原因集合。
// 成本仅在可行时计算。
func (c *Checker) Evaluate(w *model.Worker, s *model.ShiftDemand) *Result {
	var reasons []Reason
	date := s.Date()

	if !w.CoversRole(s.RequiredRole) {
		reasons = append(reasons, ReasonSkillMismatch)
	}

	if s.RequiredGrade != "" {
		best := w.BestGradeOn(date)
		if best == "" {
			reasons = append(reasons, ReasonCertificationInvalid)
		} else if !best.Covers(s.RequiredGrade) {
			reasons = append(reasons, ReasonGradeInsufficient)
		}
	}

	if s.RequiredFirearm != "" && !w.HasFirearmOn(date, s.RequiredFirearm) {
		reasons = append(reasons, ReasonFirearmInsufficient)
	}

	if !c.available(w, s) {
		reasons = append(reasons, ReasonUnavailable)
	}

	if c.exceedsWeeklyCap(w, s) {
		reasons = append(reasons, ReasonWeeklyHoursExceeded)
	}

	res := &Result{
		Feasible: len(reasons) == 0,
		Reasons:  reasons,
	}
	if res.Feasible {
		res.Cost = c.cost(w, s)
	}
	return res
}

// available 检查可用性：当日无记录默认可用，有记录则须标记可用且时段完整覆盖班次
func (c *Checker) available(w *model.Worker, s *model.ShiftDemand) bool {
	date := s.Date()
	found := false
	for i := range w.Availability {
		av := &w.Availability[i]
		if av.Date != date {
			continue
		}
		found = true
		if av.Covers(s.TimeRange()) {
			return true
		}
	}
	return !found
}

// exceedsWeeklyCap 检查既有锁定工时加上该班次是否突破周上限
func (c *Checker) exceedsWeeklyCap(w *model.Worker, s *model.ShiftDemand) bool {
	limit := w.WeeklyCap(c.params.MaxHoursWeek)
	if limit <= 0 {
		return false
	}
	committed := w.CommittedOn(s.Week())
	return committed+s.PaidHours > limit
}

// cost 计算成本：时薪×计薪工时，节假日2.0倍、周日1.5倍（节假日优先），
// 夜间窗口起始的班次再加每小时夜班津贴
func (c *Checker) cost(w *model.Worker, s *model.ShiftDemand) float64 {
	multiplier := 1.0
	switch {
	case s.IsHolidayIn(c.params.Holidays):
		multiplier = holidayMultiplier
	case s.IsSunday():
		multiplier = sundayMultiplier
	}

	cost := w.HourlyRate * s.PaidHours * multiplier
	if c.params.NightPremiumPerHour > 0 && s.StartsInWindow(c.params.NightWindowStart, c.params.NightWindowEnd) {
		cost += c.params.NightPremiumPerHour * s.PaidHours
	}
	return cost
}
