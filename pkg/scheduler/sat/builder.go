package sat

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

// Params 建模与目标合成所需的配置，构造后不再变化
type Params struct {
	MaxHoursWeek         float64
	MinRestHours         float64
	MaxConsecutiveDays   int
	MaxConsecutiveNights int
	FairnessSlack        int
	FairnessWeight       float64
	NightWindowStart     int
	NightWindowEnd       int
	Holidays             map[string]bool
}

// PairVars 按 (worker, shift) 稠密下标存放决策变量，缺位表示不可行对
type PairVars struct {
	shifts  int
	vars    []cpmodel.BoolVar
	present []bool
}

func newPairVars(workers, shifts int) *PairVars {
	return &PairVars{
		shifts:  shifts,
		vars:    make([]cpmodel.BoolVar, workers*shifts),
		present: make([]bool, workers*shifts),
	}
}

func (p *PairVars) set(w, s int, v cpmodel.BoolVar) {
	pos := w*p.shifts + s
	p.vars[pos] = v
	p.present[pos] = true
}

// At 返回 (w, s) 对应的决策变量，第二个返回值标识变量是否存在
func (p *PairVars) At(w, s int) (cpmodel.BoolVar, bool) {
	pos := w*p.shifts + s
	return p.vars[pos], p.present[pos]
}

// CategorySpread 一个溢价类别的计数极差变量，供目标合成复用
type CategorySpread struct {
	Name string
	Max  cpmodel.IntVar
	Min  cpmodel.IntVar
}

// Model 构建完成、待合成目标的约束模型
type Model struct {
	Pairs        *PairVars
	Uncovered    []int
	Spreads      []CategorySpread
	NumPairVars  int
	NumConflicts int

	cp *cpmodel.Builder
	ix *feasibility.Index
}

// Builder 把可行性矩阵翻译为 CP-SAT 约束模型
type Builder struct {
	ix     *feasibility.Index
	eval   feasibility.Evaluator
	params Params
}

// NewBuilder 创建模型构建器
func NewBuilder(ix *feasibility.Index, eval feasibility.Evaluator, params Params) *Builder {
	return &Builder{ix: ix, eval: eval, params: params}
}

// Build 依次生成决策变量与全部硬约束。
// 候选人数不足的班次不进入覆盖约束，由结果阶段报告为未排班。
func (b *Builder) Build() (*Model, error) {
	cp := cpmodel.NewCpModelBuilder()
	m := &Model{cp: cp, ix: b.ix}

	candidates := b.collectCandidates()
	b.addPairVariables(cp, m, candidates)
	b.addCoverage(cp, m, candidates)
	b.addConflictExclusions(cp, m)
	b.addWeeklyHourCaps(cp, m)
	if err := b.addRollingWindows(cp, m); err != nil {
		return nil, err
	}
	b.addFairnessBounds(cp, m)
	return m, nil
}

// collectCandidates 逐班次收集可行人员下标
func (b *Builder) collectCandidates() [][]int {
	candidates := make([][]int, b.ix.NumShifts())
	for s := 0; s < b.ix.NumShifts(); s++ {
		for w := 0; w < b.ix.NumWorkers(); w++ {
			if b.eval.At(w, s).Feasible {
				candidates[s] = append(candidates[s], w)
			}
		}
	}
	return candidates
}

// addPairVariables 仅为可行对创建布尔决策变量，候选不足的班次整体跳过
func (b *Builder) addPairVariables(cp *cpmodel.Builder, m *Model, candidates [][]int) {
	m.Pairs = newPairVars(b.ix.NumWorkers(), b.ix.NumShifts())
	for s, cands := range candidates {
		if len(cands) < b.ix.Shifts[s].Count() {
			m.Uncovered = append(m.Uncovered, s)
			continue
		}
		for _, w := range cands {
			v := cp.NewBoolVar().WithName(fmt.Sprintf("x_w%d_s%d", w, s))
			m.Pairs.set(w, s, v)
			m.NumPairVars++
		}
	}
}

// addCoverage 覆盖约束：单人班次恰好一人，多人班次人数恰好等于需求
func (b *Builder) addCoverage(cp *cpmodel.Builder, m *Model, candidates [][]int) {
	uncovered := make(map[int]bool, len(m.Uncovered))
	for _, s := range m.Uncovered {
		uncovered[s] = true
	}

	for s, cands := range candidates {
		if uncovered[s] {
			continue
		}
		vars := make([]cpmodel.BoolVar, 0, len(cands))
		for _, w := range cands {
			if v, ok := m.Pairs.At(w, s); ok {
				vars = append(vars, v)
			}
		}
		required := b.ix.Shifts[s].Count()
		if required == 1 {
			cp.AddExactlyOne(vars...)
			continue
		}
		sum := cpmodel.NewLinearExpr()
		for _, v := range vars {
			sum.Add(v)
		}
		cp.AddEquality(sum, cpmodel.NewConstant(int64(required)))
	}
}

// ConflictPairs 在按开始时间排序的班次序列上扫描，
// 产出同一人不可兼任的班次对：时间重叠，或间隔小于最短休息时间。
// 排序保证一旦后续班次的开始时刻越过 end+rest 即可停止内层扫描。
func ConflictPairs(shifts []*model.ShiftDemand, minRest time.Duration) [][2]int {
	var out [][2]int
	for i := 0; i < len(shifts); i++ {
		horizon := shifts[i].EndTime.Add(minRest)
		for j := i + 1; j < len(shifts); j++ {
			if !shifts[j].StartTime.Before(horizon) {
				break
			}
			out = append(out, [2]int{i, j})
		}
	}
	return out
}

// addConflictExclusions 对每个冲突班次对、每个同时具备两个变量的人员加互斥
func (b *Builder) addConflictExclusions(cp *cpmodel.Builder, m *Model) {
	minRest := time.Duration(b.params.MinRestHours * float64(time.Hour))
	for _, pair := range ConflictPairs(b.ix.Shifts, minRest) {
		for w := 0; w < b.ix.NumWorkers(); w++ {
			vi, oki := m.Pairs.At(w, pair[0])
			vj, okj := m.Pairs.At(w, pair[1])
			if oki && okj {
				cp.AddAtMostOne(vi, vj)
				m.NumConflicts++
			}
		}
	}
}

// addWeeklyHourCaps 周工时约束：每人每个ISO周一个辅助整型变量，
// 等于该周各班次计薪分钟与决策变量的加权和，上界为周上限扣除已锁定工时。
func (b *Builder) addWeeklyHourCaps(cp *cpmodel.Builder, m *Model) {
	byWeek := make(map[model.ISOWeek][]int)
	for s, shift := range b.ix.Shifts {
		week := shift.Week()
		byWeek[week] = append(byWeek[week], s)
	}
	weeks := make([]model.ISOWeek, 0, len(byWeek))
	for week := range byWeek {
		weeks = append(weeks, week)
	}
	sort.Slice(weeks, func(i, j int) bool {
		if weeks[i].Year != weeks[j].Year {
			return weeks[i].Year < weeks[j].Year
		}
		return weeks[i].Week < weeks[j].Week
	})

	for w, worker := range b.ix.Workers {
		limit := worker.WeeklyCap(b.params.MaxHoursWeek)
		if limit <= 0 {
			continue
		}
		capMinutes := MinutesOf(limit)

		for _, week := range weeks {
			expr := cpmodel.NewLinearExpr()
			count := 0
			for _, s := range byWeek[week] {
				v, ok := m.Pairs.At(w, s)
				if !ok {
					continue
				}
				expr.AddTerm(v, int64(b.ix.Shifts[s].PaidMinutes()))
				count++
			}
			if count == 0 {
				continue
			}
			ub := capMinutes - MinutesOf(worker.CommittedOn(week))
			if ub < 0 {
				ub = 0
			}
			hoursVar := cp.NewIntVar(0, int64(ub)).
				WithName(fmt.Sprintf("mins_w%d_%s", w, week))
			cp.AddEquality(hoursVar, expr)
		}
	}
}

// addRollingWindows 连续上班与连续夜班的滑动窗口约束。
// 窗口按日历日滚动，空档日同样占据窗口位置。
func (b *Builder) addRollingWindows(cp *cpmodel.Builder, m *Model) error {
	dates, dateIdx, err := horizonDates(b.ix.Shifts)
	if err != nil {
		return err
	}

	byDate := make([][]int, len(dates))
	nightByDate := make([][]int, len(dates))
	for s, shift := range b.ix.Shifts {
		di := dateIdx[shift.Date()]
		byDate[di] = append(byDate[di], s)
		if shift.StartsInWindow(b.params.NightWindowStart, b.params.NightWindowEnd) {
			nightByDate[di] = append(nightByDate[di], s)
		}
	}

	for w := 0; w < b.ix.NumWorkers(); w++ {
		works := b.dayIndicators(cp, m, w, byDate, dates, "works")
		nights := b.dayIndicators(cp, m, w, nightByDate, dates, "night")
		addWindowCap(cp, works, len(dates), b.params.MaxConsecutiveDays)
		addWindowCap(cp, nights, len(dates), b.params.MaxConsecutiveNights)
	}
	return nil
}

// dayIndicators 为有班可排的日历日建立 (人员, 日期) 布尔指示变量，
// 变量取当日各决策变量的最大值
func (b *Builder) dayIndicators(cp *cpmodel.Builder, m *Model, w int, byDate [][]int, dates []string, prefix string) map[int]cpmodel.BoolVar {
	indicators := make(map[int]cpmodel.BoolVar)
	for di, shiftIdxs := range byDate {
		var dayVars []cpmodel.LinearArgument
		for _, s := range shiftIdxs {
			if v, ok := m.Pairs.At(w, s); ok {
				dayVars = append(dayVars, v)
			}
		}
		if len(dayVars) == 0 {
			continue
		}
		iv := cp.NewBoolVar().WithName(fmt.Sprintf("%s_w%d_%s", prefix, w, dates[di]))
		cp.AddMaxEquality(iv, dayVars...)
		indicators[di] = iv
	}
	return indicators
}

// addWindowCap 对每个 maxCount+1 天的窗口限制指示变量之和。
// 窗口内变量数不超过上限时约束恒真，直接跳过。
func addWindowCap(cp *cpmodel.Builder, indicators map[int]cpmodel.BoolVar, numDates, maxCount int) {
	if maxCount <= 0 || len(indicators) <= maxCount {
		return
	}
	window := maxCount + 1
	for start := 0; start+window <= numDates; start++ {
		var vars []cpmodel.BoolVar
		for d := start; d < start+window; d++ {
			if v, ok := indicators[d]; ok {
				vars = append(vars, v)
			}
		}
		if len(vars) <= maxCount {
			continue
		}
		sum := cpmodel.NewLinearExpr()
		for _, v := range vars {
			sum.Add(v)
		}
		cp.AddLessOrEqual(sum, cpmodel.NewConstant(int64(maxCount)))
	}
}

// premiumCategories 溢价类别的判定谓词，顺序固定
func (b *Builder) premiumCategories() []struct {
	name  string
	match func(*model.ShiftDemand) bool
} {
	return []struct {
		name  string
		match func(*model.ShiftDemand) bool
	}{
		{"night", func(s *model.ShiftDemand) bool {
			return s.StartsInWindow(b.params.NightWindowStart, b.params.NightWindowEnd)
		}},
		{"weekend", (*model.ShiftDemand).IsWeekend},
		{"holiday", func(s *model.ShiftDemand) bool { return s.IsHolidayIn(b.params.Holidays) }},
		{"sunday", (*model.ShiftDemand).IsSunday},
	}
}

// addFairnessBounds 溢价班次计数的极差约束：
// 每类别为每人建立计数变量，max−min ≤ fairness_slack。
// 没有候选变量的人员计数恒为0。无合格班次的类别整体跳过。
func (b *Builder) addFairnessBounds(cp *cpmodel.Builder, m *Model) {
	if b.ix.NumWorkers() < 2 {
		return
	}

	for _, cat := range b.premiumCategories() {
		var qualifying []int
		for s, shift := range b.ix.Shifts {
			if cat.match(shift) {
				qualifying = append(qualifying, s)
			}
		}
		if len(qualifying) == 0 {
			continue
		}

		hasVars := false
		for _, s := range qualifying {
			for w := 0; w < b.ix.NumWorkers(); w++ {
				if _, ok := m.Pairs.At(w, s); ok {
					hasVars = true
					break
				}
			}
			if hasVars {
				break
			}
		}
		if !hasVars {
			continue
		}

		ub := int64(len(qualifying))
		counts := make([]cpmodel.LinearArgument, 0, b.ix.NumWorkers())
		for w := 0; w < b.ix.NumWorkers(); w++ {
			expr := cpmodel.NewLinearExpr()
			n := 0
			for _, s := range qualifying {
				if v, ok := m.Pairs.At(w, s); ok {
					expr.Add(v)
					n++
				}
			}
			if n == 0 {
				counts = append(counts, cpmodel.NewConstant(0))
				continue
			}
			cv := cp.NewIntVar(0, ub).WithName(fmt.Sprintf("cnt_%s_w%d", cat.name, w))
			cp.AddEquality(cv, expr)
			counts = append(counts, cv)
		}

		maxVar := cp.NewIntVar(0, ub).WithName(fmt.Sprintf("cnt_%s_max", cat.name))
		minVar := cp.NewIntVar(0, ub).WithName(fmt.Sprintf("cnt_%s_min", cat.name))
		cp.AddMaxEquality(maxVar, counts...)
		cp.AddMinEquality(minVar, counts...)

		spread := cpmodel.NewLinearExpr().Add(maxVar).AddTerm(minVar, -1)
		cp.AddLessOrEqual(spread, cpmodel.NewConstant(int64(b.params.FairnessSlack)))

		m.Spreads = append(m.Spreads, CategorySpread{Name: cat.name, Max: maxVar, Min: minVar})
	}
}

// horizonDates 枚举从最早到最晚班次日期之间的每个日历日
func horizonDates(shifts []*model.ShiftDemand) ([]string, map[string]int, error) {
	if len(shifts) == 0 {
		return nil, map[string]int{}, nil
	}
	first, last := shifts[0].Date(), shifts[0].Date()
	for _, s := range shifts[1:] {
		if d := s.Date(); d < first {
			first = d
		} else if d > last {
			last = d
		}
	}

	start, err := model.ParseDateKey(first)
	if err != nil {
		return nil, nil, errors.ModelBuild("calendar", fmt.Sprintf("班次日期无法解析: %s", first))
	}
	end, err := model.ParseDateKey(last)
	if err != nil {
		return nil, nil, errors.ModelBuild("calendar", fmt.Sprintf("班次日期无法解析: %s", last))
	}

	var dates []string
	dateIdx := make(map[string]int)
	for t := start; !t.After(end); t = t.AddDate(0, 0, 1) {
		key := model.DateKey(t)
		dateIdx[key] = len(dates)
		dates = append(dates, key)
	}
	return dates, dateIdx, nil
}
