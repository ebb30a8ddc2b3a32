package scenario

import (
	"testing"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

// TestFirearmNobodyHolds 无人持有要求的枪械资质时应判定无解并逐人记录原因
func TestFirearmNobodyHolds(t *testing.T) {
	w1 := newGuard("钱进", 100)
	w2 := newGuard("何俊", 100)
	s := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 8)
	s.RequiredFirearm = "rifle"

	result := runEngine(t, baseOptions(), newSnapshot(
		[]*model.Worker{w1, w2}, []*model.ShiftDemand{s}))

	if result.Status != model.StatusInfeasible {
		t.Fatalf("状态 = %s, 期望 INFEASIBLE", result.Status)
	}
	if len(result.Assignments) != 0 {
		t.Errorf("分配数 = %d, 期望 0", len(result.Assignments))
	}
	if len(result.UnfilledShifts) != 1 || result.UnfilledShifts[0] != s.ID {
		t.Errorf("未排班次 = %v, 期望仅含 %s", result.UnfilledShifts, s.ID)
	}
	if n := reasonCount(result.Diagnostics.TopInfeasibilityReasons, feasibility.ReasonFirearmInsufficient); n != 2 {
		t.Errorf("持枪资质不足原因计数 = %d, 期望 2", n)
	}
}

// TestFirearmShiftLeftUnfilled 持枪班次无人可排时其余班次照常排出
func TestFirearmShiftLeftUnfilled(t *testing.T) {
	w1 := newGuard("宋江", 100)
	w2 := newGuard("林冲", 100)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 8)
	s2 := newShift(time.Date(2026, 8, 18, 8, 0, 0, 0, time.UTC), 8)
	s2.RequiredFirearm = "rifle"

	result := runEngine(t, baseOptions(), newSnapshot(
		[]*model.Worker{w1, w2}, []*model.ShiftDemand{s1, s2}))

	if result.Status != model.StatusOptimal {
		t.Fatalf("状态 = %s, 期望 OPTIMAL", result.Status)
	}
	if len(result.Assignments) != 1 || result.Assignments[0].ShiftID != s1.ID {
		t.Errorf("分配 = %+v, 期望仅排出普通班次", result.Assignments)
	}
	if len(result.UnfilledShifts) != 1 || result.UnfilledShifts[0] != s2.ID {
		t.Errorf("未排班次 = %v, 期望仅含持枪班次 %s", result.UnfilledShifts, s2.ID)
	}
	if result.Summary.FillRate != 50 {
		t.Errorf("满足率 = %.1f, 期望 50", result.Summary.FillRate)
	}
	if n := reasonCount(result.Diagnostics.TopInfeasibilityReasons, feasibility.ReasonFirearmInsufficient); n != 2 {
		t.Errorf("持枪资质不足原因计数 = %d, 期望 2", n)
	}
}

// TestArmedGuardSelected 持枪班次应派给具备对应资质的人员，即使时薪更高
func TestArmedGuardSelected(t *testing.T) {
	armed := newGuard("周芳", 100)
	armed.Certifications = append(armed.Certifications, model.Certification{
		Type: "firearm", Grade: model.GradeC, FirearmType: "rifle",
		ExpiryDate: "2027-12-31", Verified: true,
	})
	unarmed := newGuard("吴军", 60)
	s := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 8)
	s.RequiredFirearm = "rifle"

	result := runEngine(t, baseOptions(), newSnapshot(
		[]*model.Worker{armed, unarmed}, []*model.ShiftDemand{s}))

	if result.Status != model.StatusOptimal {
		t.Fatalf("状态 = %s, 期望 OPTIMAL", result.Status)
	}
	if len(result.Assignments) != 1 {
		t.Fatalf("分配数 = %d, 期望 1", len(result.Assignments))
	}
	if result.Assignments[0].WorkerID != armed.ID {
		t.Errorf("派给了 %s, 期望持枪人员 %s", result.Assignments[0].WorkerID, armed.ID)
	}
}
