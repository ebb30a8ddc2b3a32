// Package feasibility 实现 worker×shift 逐对可行性判定与成本估算
package feasibility

// Reason 不可行原因，封闭枚举
type Reason string

const (
	ReasonSkillMismatch        Reason = "skill_mismatch"
	ReasonCertificationInvalid Reason = "certification_invalid"
	ReasonGradeInsufficient    Reason = "grade_insufficient"
	ReasonFirearmInsufficient  Reason = "firearm_insufficient"
	ReasonUnavailable          Reason = "unavailable"
	ReasonWeeklyHoursExceeded  Reason = "weekly_hours_exceeded"
)

// AllReasons 返回全部原因，顺序固定，用于诊断统计的穷举遍历
func AllReasons() []Reason {
	return []Reason{
		ReasonSkillMismatch,
		ReasonCertificationInvalid,
		ReasonGradeInsufficient,
		ReasonFirearmInsufficient,
		ReasonUnavailable,
		ReasonWeeklyHoursExceeded,
	}
}

// Result 单个 (worker, shift) 对的可行性判定结果
type Result struct {
	Feasible bool
	Cost     float64
	Reasons  []Reason
}

// Has 检查结果是否包含指定原因
func (r *Result) Has(reason Reason) bool {
	for _, x := range r.Reasons {
		if x == reason {
			return true
		}
	}
	return false
}
