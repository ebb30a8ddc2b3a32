// Package stats 提供排班结果的统计分析
package stats

import (
	"math"
	"sort"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// FairnessMetrics 公平性指标
type FairnessMetrics struct {
	// 工时公平性
	AvgHours   float64 `json:"avg_hours"`   // 人均工时
	MaxHours   float64 `json:"max_hours"`   // 最大工时
	MinHours   float64 `json:"min_hours"`   // 最小工时
	HoursRange float64 `json:"hours_range"` // 工时极差
	StdDev     float64 `json:"std_dev"`     // 工时标准差
	Gini       float64 `json:"gini"`        // 工时基尼系数 (0=完全公平)

	// 溢价班次分布：类别 → 每人次数的极差
	PremiumSpread map[string]int `json:"premium_spread"`

	// 人员级别统计，按工时降序
	WorkerStats []WorkerStat `json:"worker_stats"`

	// 归一化评分 (0-1, 1=完全公平)，取 1 − 工时极差/最大工时
	Score float64 `json:"score"`
}

// WorkerStat 单人统计
type WorkerStat struct {
	WorkerID      string  `json:"worker_id"`
	Name          string  `json:"name"`
	TotalHours    float64 `json:"total_hours"`
	ShiftCount    int     `json:"shift_count"`
	NightShifts   int     `json:"night_shifts"`
	WeekendShifts int     `json:"weekend_shifts"`
	HolidayShifts int     `json:"holiday_shifts"`
	SundayShifts  int     `json:"sunday_shifts"`
}

// FairnessInput 公平性分析的输入
type FairnessInput struct {
	Workers          []*model.Worker
	Shifts           []*model.ShiftDemand
	Decisions        []model.AssignmentDecision
	Holidays         map[string]bool
	NightWindowStart int
	NightWindowEnd   int
}

// ComputeFairness 分析一次求解结果的公平性。
// 未获派班的人员同样计入极差与评分。
func ComputeFairness(in FairnessInput) *FairnessMetrics {
	shiftByID := make(map[uuid.UUID]*model.ShiftDemand, len(in.Shifts))
	for _, s := range in.Shifts {
		shiftByID[s.ID] = s
	}

	statByID := make(map[uuid.UUID]*WorkerStat, len(in.Workers))
	for _, w := range in.Workers {
		statByID[w.ID] = &WorkerStat{WorkerID: w.ID.String(), Name: w.Name}
	}

	for _, d := range in.Decisions {
		stat, ok := statByID[d.WorkerID]
		if !ok {
			continue
		}
		shift, ok := shiftByID[d.ShiftID]
		if !ok {
			continue
		}
		stat.TotalHours += shift.PaidHours
		stat.ShiftCount++
		if shift.StartsInWindow(in.NightWindowStart, in.NightWindowEnd) {
			stat.NightShifts++
		}
		if shift.IsWeekend() {
			stat.WeekendShifts++
		}
		if shift.IsHolidayIn(in.Holidays) {
			stat.HolidayShifts++
		}
		if shift.IsSunday() {
			stat.SundayShifts++
		}
	}

	stats := make([]WorkerStat, 0, len(statByID))
	hours := make([]float64, 0, len(statByID))
	for _, w := range in.Workers {
		stat := statByID[w.ID]
		stats = append(stats, *stat)
		hours = append(hours, stat.TotalHours)
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].TotalHours != stats[j].TotalHours {
			return stats[i].TotalHours > stats[j].TotalHours
		}
		return stats[i].WorkerID < stats[j].WorkerID
	})

	avg := mean(hours)
	maxH, minH := valueRange(hours)

	m := &FairnessMetrics{
		AvgHours:      avg,
		MaxHours:      maxH,
		MinHours:      minH,
		HoursRange:    maxH - minH,
		StdDev:        math.Sqrt(variance(hours, avg)),
		Gini:          gini(hours),
		PremiumSpread: premiumSpreads(stats),
		WorkerStats:   stats,
		Score:         fairnessScore(maxH, minH),
	}
	return m
}

// premiumSpreads 各溢价类别的每人次数极差
func premiumSpreads(stats []WorkerStat) map[string]int {
	if len(stats) == 0 {
		return map[string]int{}
	}
	spread := func(pick func(WorkerStat) int) int {
		maxV, minV := pick(stats[0]), pick(stats[0])
		for _, st := range stats[1:] {
			v := pick(st)
			if v > maxV {
				maxV = v
			}
			if v < minV {
				minV = v
			}
		}
		return maxV - minV
	}
	return map[string]int{
		"night":   spread(func(s WorkerStat) int { return s.NightShifts }),
		"weekend": spread(func(s WorkerStat) int { return s.WeekendShifts }),
		"holiday": spread(func(s WorkerStat) int { return s.HolidayShifts }),
		"sunday":  spread(func(s WorkerStat) int { return s.SundayShifts }),
	}
}

// fairnessScore 归一化工时极差：无班可计时视为完全公平
func fairnessScore(maxH, minH float64) float64 {
	if maxH <= 0 {
		return 1
	}
	score := 1 - (maxH-minH)/maxH
	return math.Max(0, math.Min(1, score))
}

// mean 计算平均值
func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// variance 计算方差
func variance(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sumSquares := 0.0
	for _, v := range values {
		diff := v - mean
		sumSquares += diff * diff
	}
	return sumSquares / float64(len(values))
}

// valueRange 计算极值
func valueRange(values []float64) (max, min float64) {
	if len(values) == 0 {
		return 0, 0
	}
	max, min = values[0], values[0]
	for _, v := range values[1:] {
		if v > max {
			max = v
		}
		if v < min {
			min = v
		}
	}
	return
}

// gini 计算基尼系数
func gini(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	sum := 0.0
	for _, v := range sorted {
		sum += v
	}
	if sum == 0 {
		return 0
	}

	g := 0.0
	for i, v := range sorted {
		g += (2*float64(i+1) - float64(n) - 1) * v
	}
	g = g / (float64(n) * sum)
	return math.Max(0, math.Min(1, g))
}
