package scheduler

import (
	"testing"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/sat"
)

func TestTallyReasons(t *testing.T) {
	monday := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	w1 := schedWorker("张三")
	w2 := schedWorker("李四")
	w2.Role = "patrol"

	s := schedShift(monday, 8)
	s.RequiredFirearm = "rifle"

	fparams, err := DefaultOptions().feasibilityParams(nil)
	if err != nil {
		t.Fatalf("feasibilityParams: %v", err)
	}

	ix := feasibility.NewIndex([]*model.Worker{w1, w2}, []*model.ShiftDemand{s})
	eval := feasibility.NewEvaluator(ix, feasibility.NewChecker(fparams), false)

	tally := tallyReasons(ix, eval)
	if len(tally) != 2 {
		t.Fatalf("原因种类 = %d, expected 2: %v", len(tally), tally)
	}

	// 两人都缺持枪资质，只有一人岗位不符，频次高者在前
	if tally[0].Reason != feasibility.ReasonFirearmInsufficient || tally[0].Count != 2 {
		t.Errorf("tally[0] = %+v", tally[0])
	}
	if tally[1].Reason != feasibility.ReasonSkillMismatch || tally[1].Count != 1 {
		t.Errorf("tally[1] = %+v", tally[1])
	}
}

func TestReportContext_PopulateInfeasible(t *testing.T) {
	monday := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	w := schedWorker("张三")
	s := schedShift(monday, 8)
	s.RequiredFirearm = "rifle" // 无人持证，班次没有候选人

	opts := DefaultOptions()
	opts.MaxHoursWeek = 48

	holidays := map[string]bool{}
	fparams, err := opts.feasibilityParams(holidays)
	if err != nil {
		t.Fatalf("feasibilityParams: %v", err)
	}
	sparams, err := opts.satParams(holidays)
	if err != nil {
		t.Fatalf("satParams: %v", err)
	}

	ix := feasibility.NewIndex([]*model.Worker{w}, []*model.ShiftDemand{s})
	eval := feasibility.NewEvaluator(ix, feasibility.NewChecker(fparams), false)
	mdl, err := sat.NewBuilder(ix, eval, sparams).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if len(mdl.Uncovered) != 1 {
		t.Fatalf("Uncovered = %v, expected 1 个班次", mdl.Uncovered)
	}

	rc := &reportContext{
		ix:         ix,
		eval:       eval,
		mdl:        mdl,
		opts:       opts,
		holidays:   holidays,
		nightStart: fparams.NightWindowStart,
		nightEnd:   fparams.NightWindowEnd,
	}
	result := newResult()
	rc.populate(result, &sat.Solution{Status: model.StatusInfeasible})

	if result.Status != model.StatusInfeasible {
		t.Errorf("Status = %s, expected %s", result.Status, model.StatusInfeasible)
	}
	if result.Diagnostics.StatusName != string(model.StatusInfeasible) {
		t.Errorf("StatusName = %s", result.Diagnostics.StatusName)
	}
	if len(result.Assignments) != 0 {
		t.Errorf("Assignments = %v, expected empty", result.Assignments)
	}
	if len(result.UnfilledShifts) != 1 || result.UnfilledShifts[0] != s.ID {
		t.Errorf("UnfilledShifts = %v", result.UnfilledShifts)
	}
	if len(result.Diagnostics.TopInfeasibilityReasons) == 0 {
		t.Error("应给出不可行原因统计")
	}
	if result.Summary.FillRate != 0 {
		t.Errorf("FillRate = %v, expected 0", result.Summary.FillRate)
	}
	if result.Diagnostics.DemandHours != 8 {
		t.Errorf("DemandHours = %v, expected 8", result.Diagnostics.DemandHours)
	}
	if result.Diagnostics.CapacityHours != 48 {
		t.Errorf("CapacityHours = %v, expected 48", result.Diagnostics.CapacityHours)
	}
	if result.Diagnostics.PairVariables != 0 {
		t.Errorf("PairVariables = %d, expected 0", result.Diagnostics.PairVariables)
	}
}
