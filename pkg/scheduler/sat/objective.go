package sat

import (
	"fmt"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

// ComposeObjective 合成单一最小化目标：
// 总成本，加公平惩罚（总工时极差与各溢价类别计数极差，均乘公平权重）。
// 所有系数先换算到统一整数刻度，溢出转为建模错误。
func ComposeObjective(m *Model, eval feasibility.Evaluator, params Params) error {
	obj := cpmodel.NewLinearExpr()

	var totalCents int64
	for w := 0; w < m.ix.NumWorkers(); w++ {
		for s := 0; s < m.ix.NumShifts(); s++ {
			v, ok := m.Pairs.At(w, s)
			if !ok {
				continue
			}
			cents, err := CostCents(eval.At(w, s).Cost)
			if err != nil {
				return err
			}
			totalCents += cents
			if totalCents > maxCostCents {
				return errors.ModelBuild("objective", "目标成本系数总和溢出")
			}
			obj.AddTerm(v, cents*minutesPerHour)
		}
	}

	if weight := WeightCentis(params.FairnessWeight); weight > 0 && m.ix.NumWorkers() >= 2 {
		addHourSpreadTerm(m, obj, weight)
	}
	if weight := WeightScaled(params.FairnessWeight); weight > 0 {
		for _, sp := range m.Spreads {
			obj.AddTerm(sp.Max, weight)
			obj.AddTerm(sp.Min, -weight)
		}
	}

	m.cp.Minimize(obj)
	return nil
}

// addHourSpreadTerm 把总工时极差并入目标。
// 每人一个总分钟变量，上界取其全部可行班次分钟和；无可行班次的人员计为常量0。
func addHourSpreadTerm(m *Model, obj *cpmodel.LinearExpr, weight int64) {
	totals := make([]cpmodel.LinearArgument, 0, m.ix.NumWorkers())
	var maxUB int64

	for w := 0; w < m.ix.NumWorkers(); w++ {
		expr := cpmodel.NewLinearExpr()
		var ub int64
		for s := 0; s < m.ix.NumShifts(); s++ {
			v, ok := m.Pairs.At(w, s)
			if !ok {
				continue
			}
			minutes := int64(m.ix.Shifts[s].PaidMinutes())
			expr.AddTerm(v, minutes)
			ub += minutes
		}
		if ub == 0 {
			totals = append(totals, cpmodel.NewConstant(0))
			continue
		}
		tv := m.cp.NewIntVar(0, ub).WithName(fmt.Sprintf("mins_total_w%d", w))
		m.cp.AddEquality(tv, expr)
		totals = append(totals, tv)
		if ub > maxUB {
			maxUB = ub
		}
	}
	if maxUB == 0 {
		return
	}

	spreadMax := m.cp.NewIntVar(0, maxUB).WithName("mins_spread_max")
	spreadMin := m.cp.NewIntVar(0, maxUB).WithName("mins_spread_min")
	m.cp.AddMaxEquality(spreadMax, totals...)
	m.cp.AddMinEquality(spreadMin, totals...)

	obj.AddTerm(spreadMax, weight)
	obj.AddTerm(spreadMin, -weight)
}

// Finalize 校验并导出底层模型协议
func (m *Model) Finalize() (*cmpb.CpModelProto, error) {
	proto, err := m.cp.Model()
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeModelBuildFailed, "模型协议导出失败").
			WithField("stage", "finalize")
	}
	return proto, nil
}
