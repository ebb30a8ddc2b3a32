// Package validator 对求解输出执行事后审计。
// 审计独立于建模路径重新核对每条硬性约束，发现违规即说明引擎存在缺陷。
package validator

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

// ViolationType 违规类型
type ViolationType string

const (
	ViolationCoverage      ViolationType = "coverage"      // 班次分配人数与要求不符
	ViolationQualification ViolationType = "qualification" // 资质、岗位或可用性不符
	ViolationOverlap       ViolationType = "overlap"       // 时间重叠
	ViolationRest          ViolationType = "rest"          // 休息时间不足
	ViolationWeeklyHours   ViolationType = "weekly_hours"  // 周工时超限
	ViolationWorkDays      ViolationType = "work_days"     // 滑动窗口出勤天数超限
	ViolationNights        ViolationType = "nights"        // 滑动窗口夜班数超限
	ViolationFairness      ViolationType = "fairness"      // 溢价班次分布超差
)

// Violation 审计发现的违规
type Violation struct {
	Type     ViolationType `json:"type"`
	WorkerID uuid.UUID     `json:"worker_id,omitempty"`
	ShiftIDs []uuid.UUID   `json:"shift_ids,omitempty"`
	Date     string        `json:"date,omitempty"`
	Message  string        `json:"message"`
}

// AuditConfig 审计参数，必须与求解时的配置一致
type AuditConfig struct {
	MaxHoursWeek         float64
	MinRestHours         float64
	MaxConsecutiveDays   int
	MaxConsecutiveNights int
	FairnessSlack        int
	NightWindowStart     int // 自零点起的分钟数
	NightWindowEnd       int
	Holidays             map[string]bool
}

// DefaultAuditConfig 返回与引擎缺省一致的审计参数
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		MaxConsecutiveDays:   6,
		MaxConsecutiveNights: 3,
		FairnessSlack:        2,
		NightWindowStart:     22 * 60,
		NightWindowEnd:       6 * 60,
	}
}

// Auditor 求解结果审计器
type Auditor struct {
	config *AuditConfig
}

// NewAuditor 创建审计器
func NewAuditor(config *AuditConfig) *Auditor {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &Auditor{config: config}
}

// Audit 对一次求解输出执行全量审计，返回发现的所有违规
func (a *Auditor) Audit(workers []*model.Worker, shifts []*model.ShiftDemand, decisions []model.AssignmentDecision, unfilled []uuid.UUID) []Violation {
	var violations []Violation

	workerByID := make(map[uuid.UUID]*model.Worker, len(workers))
	for _, w := range workers {
		workerByID[w.ID] = w
	}
	shiftByID := make(map[uuid.UUID]*model.ShiftDemand, len(shifts))
	for _, s := range shifts {
		shiftByID[s.ID] = s
	}

	violations = append(violations, a.auditCoverage(shiftByID, shifts, decisions, unfilled)...)
	violations = append(violations, a.auditQualifications(workerByID, shiftByID, decisions)...)

	byWorker := groupByWorker(decisions, shiftByID)
	for _, w := range workers {
		assigned := byWorker[w.ID]
		violations = append(violations, a.auditPairwise(w, assigned)...)
		violations = append(violations, a.auditWeeklyHours(w, assigned)...)
		violations = append(violations, a.auditRollingDays(w, assigned)...)
		violations = append(violations, a.auditRollingNights(w, assigned)...)
	}

	violations = append(violations, a.auditFairness(workers, shifts, byWorker)...)
	return violations
}

// auditCoverage 核对每个班次的分配人数：
// 已满足的班次人数必须恰好等于需求，列为未满足的班次不得再出现分配。
func (a *Auditor) auditCoverage(shiftByID map[uuid.UUID]*model.ShiftDemand, shifts []*model.ShiftDemand, decisions []model.AssignmentDecision, unfilled []uuid.UUID) []Violation {
	var violations []Violation

	filled := make(map[uuid.UUID]int)
	for _, d := range decisions {
		if _, ok := shiftByID[d.ShiftID]; !ok {
			violations = append(violations, Violation{
				Type:     ViolationCoverage,
				WorkerID: d.WorkerID,
				ShiftIDs: []uuid.UUID{d.ShiftID},
				Message:  fmt.Sprintf("分配指向不存在的班次 %s", d.ShiftID),
			})
			continue
		}
		filled[d.ShiftID]++
	}

	unfilledSet := make(map[uuid.UUID]bool, len(unfilled))
	for _, id := range unfilled {
		unfilledSet[id] = true
	}

	for _, s := range shifts {
		n := filled[s.ID]
		switch {
		case unfilledSet[s.ID] && n > 0:
			violations = append(violations, Violation{
				Type:     ViolationCoverage,
				ShiftIDs: []uuid.UUID{s.ID},
				Date:     s.Date(),
				Message:  fmt.Sprintf("班次 %s 列为未满足却有 %d 条分配", s.ID, n),
			})
		case !unfilledSet[s.ID] && n != s.Count():
			violations = append(violations, Violation{
				Type:     ViolationCoverage,
				ShiftIDs: []uuid.UUID{s.ID},
				Date:     s.Date(),
				Message:  fmt.Sprintf("班次 %s 需要 %d 人，实际分配 %d 人", s.ID, s.Count(), n),
			})
		}
	}
	return violations
}

// auditQualifications 逐条复核资质、岗位与可用性。
// 周工时原因由聚合审计单独核对，此处跳过。
func (a *Auditor) auditQualifications(workerByID map[uuid.UUID]*model.Worker, shiftByID map[uuid.UUID]*model.ShiftDemand, decisions []model.AssignmentDecision) []Violation {
	checker := feasibility.NewChecker(feasibility.Params{
		MaxHoursWeek:     a.config.MaxHoursWeek,
		NightWindowStart: a.config.NightWindowStart,
		NightWindowEnd:   a.config.NightWindowEnd,
		Holidays:         a.config.Holidays,
	})

	var violations []Violation
	for _, d := range decisions {
		w := workerByID[d.WorkerID]
		s := shiftByID[d.ShiftID]
		if s == nil {
			continue // 已由覆盖审计报告
		}
		if w == nil {
			violations = append(violations, Violation{
				Type:     ViolationQualification,
				WorkerID: d.WorkerID,
				ShiftIDs: []uuid.UUID{d.ShiftID},
				Message:  fmt.Sprintf("分配指向不存在的人员 %s", d.WorkerID),
			})
			continue
		}

		res := checker.Evaluate(w, s)
		for _, reason := range res.Reasons {
			if reason == feasibility.ReasonWeeklyHoursExceeded {
				continue
			}
			violations = append(violations, Violation{
				Type:     ViolationQualification,
				WorkerID: w.ID,
				ShiftIDs: []uuid.UUID{s.ID},
				Date:     s.Date(),
				Message:  fmt.Sprintf("人员 %s 不符合班次要求: %s", w.Name, reason),
			})
		}
	}
	return violations
}

// auditPairwise 核对同一人任意两个班次的重叠与休息间隔
func (a *Auditor) auditPairwise(w *model.Worker, assigned []*model.ShiftDemand) []Violation {
	if len(assigned) < 2 {
		return nil
	}

	sorted := make([]*model.ShiftDemand, len(assigned))
	copy(sorted, assigned)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].StartTime.Before(sorted[j].StartTime) })

	minRest := time.Duration(a.config.MinRestHours * float64(time.Hour))
	var violations []Violation
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[i].Overlaps(sorted[j]) {
				violations = append(violations, Violation{
					Type:     ViolationOverlap,
					WorkerID: w.ID,
					ShiftIDs: []uuid.UUID{sorted[i].ID, sorted[j].ID},
					Date:     sorted[i].Date(),
					Message:  fmt.Sprintf("人员 %s 的两个班次时间重叠", w.Name),
				})
				continue
			}
			rest := sorted[j].StartTime.Sub(sorted[i].EndTime)
			if rest < minRest {
				violations = append(violations, Violation{
					Type:     ViolationRest,
					WorkerID: w.ID,
					ShiftIDs: []uuid.UUID{sorted[i].ID, sorted[j].ID},
					Date:     sorted[j].Date(),
					Message:  fmt.Sprintf("人员 %s 班次间休息仅 %.1f 小时，少于要求的 %.1f 小时", w.Name, rest.Hours(), a.config.MinRestHours),
				})
			}
		}
	}
	return violations
}

// auditWeeklyHours 核对每个ISO周的总工时（含窗口外已锁定工时）
func (a *Auditor) auditWeeklyHours(w *model.Worker, assigned []*model.ShiftDemand) []Violation {
	limit := w.WeeklyCap(a.config.MaxHoursWeek)
	if limit <= 0 {
		return nil
	}

	weekly := make(map[model.ISOWeek]float64)
	for _, s := range assigned {
		weekly[s.Week()] += s.PaidHours
	}

	weeks := make([]model.ISOWeek, 0, len(weekly))
	for week := range weekly {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})

	var violations []Violation
	for _, week := range weeks {
		total := weekly[week] + w.CommittedOn(week)
		if total > limit+1e-9 {
			violations = append(violations, Violation{
				Type:     ViolationWeeklyHours,
				WorkerID: w.ID,
				Message:  fmt.Sprintf("人员 %s 在 %s 周工时 %.1f 小时，超过上限 %.1f 小时", w.Name, week, total, limit),
			})
		}
	}
	return violations
}

// auditRollingDays 任意 max+1 天窗口内出勤天数不得超过 max
func (a *Auditor) auditRollingDays(w *model.Worker, assigned []*model.ShiftDemand) []Violation {
	dates := workedDates(assigned, func(*model.ShiftDemand) bool { return true })
	return a.windowViolations(w, dates, a.config.MaxConsecutiveDays, ViolationWorkDays, "出勤")
}

// auditRollingNights 任意 max+1 天窗口内夜班天数不得超过 max
func (a *Auditor) auditRollingNights(w *model.Worker, assigned []*model.ShiftDemand) []Violation {
	dates := workedDates(assigned, func(s *model.ShiftDemand) bool {
		return s.StartsInWindow(a.config.NightWindowStart, a.config.NightWindowEnd)
	})
	return a.windowViolations(w, dates, a.config.MaxConsecutiveNights, ViolationNights, "夜班")
}

// auditFairness 核对各溢价类别的班次数量分布差值
func (a *Auditor) auditFairness(workers []*model.Worker, shifts []*model.ShiftDemand, byWorker map[uuid.UUID][]*model.ShiftDemand) []Violation {
	if len(workers) < 2 {
		return nil
	}

	categories := []struct {
		name  string
		match func(*model.ShiftDemand) bool
	}{
		{"夜班", func(s *model.ShiftDemand) bool {
			return s.StartsInWindow(a.config.NightWindowStart, a.config.NightWindowEnd)
		}},
		{"周末", func(s *model.ShiftDemand) bool { return s.IsWeekend() }},
		{"节假日", func(s *model.ShiftDemand) bool { return s.IsHolidayIn(a.config.Holidays) }},
		{"周日", func(s *model.ShiftDemand) bool { return s.IsSunday() }},
	}

	var violations []Violation
	for _, cat := range categories {
		qualifying := 0
		for _, s := range shifts {
			if cat.match(s) {
				qualifying++
			}
		}
		if qualifying == 0 {
			continue
		}

		lo, hi := -1, 0
		for _, w := range workers {
			count := 0
			for _, s := range byWorker[w.ID] {
				if cat.match(s) {
					count++
				}
			}
			if lo < 0 || count < lo {
				lo = count
			}
			if count > hi {
				hi = count
			}
		}
		if hi-lo > a.config.FairnessSlack {
			violations = append(violations, Violation{
				Type:    ViolationFairness,
				Message: fmt.Sprintf("%s数量分布差值 %d 超过允许值 %d", cat.name, hi-lo, a.config.FairnessSlack),
			})
		}
	}
	return violations
}

// windowViolations 检查任意 maxCount+1 天窗口内命中日期数是否超过 maxCount
func (a *Auditor) windowViolations(w *model.Worker, dates []time.Time, maxCount int, vtype ViolationType, label string) []Violation {
	if maxCount <= 0 || len(dates) <= maxCount {
		return nil
	}

	windowDays := maxCount + 1
	var violations []Violation
	for i := range dates {
		end := dates[i].AddDate(0, 0, windowDays)
		count := 0
		for j := i; j < len(dates) && dates[j].Before(end); j++ {
			count++
		}
		if count > maxCount {
			violations = append(violations, Violation{
				Type:     vtype,
				WorkerID: w.ID,
				Date:     model.DateKey(dates[i]),
				Message: fmt.Sprintf("人员 %s 自 %s 起 %d 天内%s %d 天，超过上限 %d 天",
					w.Name, model.DateKey(dates[i]), windowDays, label, count, maxCount),
			})
		}
	}
	return violations
}

// workedDates 返回满足谓词的班次所覆盖的去重日期，升序
func workedDates(assigned []*model.ShiftDemand, match func(*model.ShiftDemand) bool) []time.Time {
	set := make(map[string]bool)
	for _, s := range assigned {
		if match(s) {
			set[s.Date()] = true
		}
	}

	keys := make([]string, 0, len(set))
	for d := range set {
		keys = append(keys, d)
	}
	sort.Strings(keys)

	dates := make([]time.Time, 0, len(keys))
	for _, k := range keys {
		if t, err := model.ParseDateKey(k); err == nil {
			dates = append(dates, t)
		}
	}
	return dates
}

// groupByWorker 将分配决策按人员归组为班次对象
func groupByWorker(decisions []model.AssignmentDecision, shiftByID map[uuid.UUID]*model.ShiftDemand) map[uuid.UUID][]*model.ShiftDemand {
	out := make(map[uuid.UUID][]*model.ShiftDemand)
	for _, d := range decisions {
		if s, ok := shiftByID[d.ShiftID]; ok {
			out[d.WorkerID] = append(out[d.WorkerID], s)
		}
	}
	return out
}
