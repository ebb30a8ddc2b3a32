package scenario

import (
	"testing"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// TestRestConflictForcesSplit 间隔不足最短休息时间的两个班次必须派给不同人员
func TestRestConflictForcesSplit(t *testing.T) {
	// 时薪差距拉大，互斥约束一旦失效低时薪人员会包揽两班
	cheap := newGuard("何平", 60)
	costly := newGuard("罗刚", 150)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 4)
	s2 := newShift(time.Date(2026, 8, 17, 16, 0, 0, 0, time.UTC), 4)

	result := runEngine(t, baseOptions(), newSnapshot(
		[]*model.Worker{cheap, costly}, []*model.ShiftDemand{s1, s2}))

	if result.Status != model.StatusOptimal {
		t.Fatalf("状态 = %s, 期望 OPTIMAL", result.Status)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(result.Assignments))
	}
	if len(result.UnfilledShifts) != 0 {
		t.Errorf("未排班次数 = %d, 期望 0", len(result.UnfilledShifts))
	}
	if result.Assignments[0].WorkerID == result.Assignments[1].WorkerID {
		t.Error("间隔 4 小时的两个班次被派给同一人，最短休息 8 小时未生效")
	}
}

// TestRestConflictSingleWorkerInfeasible 仅有一人时互斥班次对无法全部排出
func TestRestConflictSingleWorkerInfeasible(t *testing.T) {
	w := newGuard("何平", 60)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 4)
	s2 := newShift(time.Date(2026, 8, 17, 16, 0, 0, 0, time.UTC), 4)

	result := runEngine(t, baseOptions(), newSnapshot(
		[]*model.Worker{w}, []*model.ShiftDemand{s1, s2}))

	if result.Status != model.StatusInfeasible {
		t.Fatalf("状态 = %s, 期望 INFEASIBLE", result.Status)
	}
	if len(result.Assignments) != 0 {
		t.Errorf("分配数 = %d, 期望 0", len(result.Assignments))
	}
	if len(result.UnfilledShifts) != 2 {
		t.Errorf("未排班次数 = %d, 期望 2", len(result.UnfilledShifts))
	}
	if result.Diagnostics.ConflictPairs != 1 {
		t.Errorf("互斥班次对数 = %d, 期望 1", result.Diagnostics.ConflictPairs)
	}
}

// TestNoRestRequirementAllowsBoth 不设最短休息时同一人可连排两班
func TestNoRestRequirementAllowsBoth(t *testing.T) {
	w := newGuard("何平", 60)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 4)
	s2 := newShift(time.Date(2026, 8, 17, 16, 0, 0, 0, time.UTC), 4)

	opts := baseOptions()
	opts.MinRestHours = 0

	result := runEngine(t, opts, newSnapshot(
		[]*model.Worker{w}, []*model.ShiftDemand{s1, s2}))

	if result.Status != model.StatusOptimal {
		t.Fatalf("状态 = %s, 期望 OPTIMAL", result.Status)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(result.Assignments))
	}
	if got := result.Summary.EmployeeHours[w.ID.String()]; got != 8 {
		t.Errorf("人员工时 = %.1f, 期望 8", got)
	}
}

// TestOverlapForcesDistinctWorkers 时间重叠的班次不能由同一人兼任
func TestOverlapForcesDistinctWorkers(t *testing.T) {
	cheap := newGuard("梁山", 70)
	costly := newGuard("石秀", 140)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 8)
	s2 := newShift(time.Date(2026, 8, 17, 12, 0, 0, 0, time.UTC), 8)

	opts := baseOptions()
	opts.MinRestHours = 0

	result := runEngine(t, opts, newSnapshot(
		[]*model.Worker{cheap, costly}, []*model.ShiftDemand{s1, s2}))

	if result.Status != model.StatusOptimal {
		t.Fatalf("状态 = %s, 期望 OPTIMAL", result.Status)
	}
	if len(result.Assignments) != 2 {
		t.Fatalf("分配数 = %d, 期望 2", len(result.Assignments))
	}
	if result.Assignments[0].WorkerID == result.Assignments[1].WorkerID {
		t.Error("重叠班次被派给同一人")
	}
	// 每人在两个班次上都可行，互斥对按人计数
	if result.Diagnostics.ConflictPairs != 2 {
		t.Errorf("互斥班次对数 = %d, 期望 2", result.Diagnostics.ConflictPairs)
	}
}
