package stats

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// CoverageMetrics 覆盖与产能指标
type CoverageMetrics struct {
	TotalSlots    int                `json:"total_slots"`    // 总需求人次
	FilledSlots   int                `json:"filled_slots"`   // 已派人次
	FillRate      float64            `json:"fill_rate"`      // 覆盖率 (%)
	TotalCost     float64            `json:"total_cost"`     // 总成本
	DemandHours   float64            `json:"demand_hours"`   // 需求工时合计
	CapacityHours float64            `json:"capacity_hours"` // 理论产能工时合计
	WorkerHours   map[string]float64 `json:"worker_hours"`   // 人员ID → 已派工时

	// 每日覆盖情况，按日期升序
	Daily []DayCoverage `json:"daily"`
}

// DayCoverage 单日覆盖情况
type DayCoverage struct {
	Date     string  `json:"date"`
	Slots    int     `json:"slots"`
	Filled   int     `json:"filled"`
	FillRate float64 `json:"fill_rate"`
	Hours    float64 `json:"hours"`
}

// ComputeCoverage 统计覆盖率、成本与需求/产能对比。
// 产能按每人每周上限乘以视野内的ISO周数，扣除已锁定工时。
func ComputeCoverage(shifts []*model.ShiftDemand, decisions []model.AssignmentDecision, workers []*model.Worker, globalMaxHours float64) *CoverageMetrics {
	m := &CoverageMetrics{WorkerHours: make(map[string]float64)}

	shiftByID := make(map[uuid.UUID]*model.ShiftDemand, len(shifts))
	weeks := make(map[model.ISOWeek]bool)
	daily := make(map[string]*DayCoverage)

	for _, s := range shifts {
		shiftByID[s.ID] = s
		weeks[s.Week()] = true
		m.TotalSlots += s.Count()
		m.DemandHours += s.PaidHours * float64(s.Count())

		day, ok := daily[s.Date()]
		if !ok {
			day = &DayCoverage{Date: s.Date()}
			daily[s.Date()] = day
		}
		day.Slots += s.Count()
	}

	for _, d := range decisions {
		shift, ok := shiftByID[d.ShiftID]
		if !ok {
			continue
		}
		m.FilledSlots++
		m.TotalCost += d.Cost
		m.WorkerHours[d.WorkerID.String()] += shift.PaidHours

		if day, ok := daily[shift.Date()]; ok {
			day.Filled++
			day.Hours += shift.PaidHours
		}
	}

	if m.TotalSlots > 0 {
		m.FillRate = float64(m.FilledSlots) / float64(m.TotalSlots) * 100
	}

	numWeeks := float64(len(weeks))
	for _, w := range workers {
		limit := w.WeeklyCap(globalMaxHours)
		if limit <= 0 {
			continue
		}
		capacity := limit * numWeeks
		for _, committed := range w.CommittedHours {
			capacity -= committed
		}
		if capacity > 0 {
			m.CapacityHours += capacity
		}
	}

	m.Daily = make([]DayCoverage, 0, len(daily))
	for _, day := range daily {
		if day.Slots > 0 {
			day.FillRate = float64(day.Filled) / float64(day.Slots) * 100
		}
		m.Daily = append(m.Daily, *day)
	}
	sort.Slice(m.Daily, func(i, j int) bool { return m.Daily[i].Date < m.Daily[j].Date })

	return m
}
