package scenario

import (
	"testing"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler"
)

// TestLazyMatchesEager 惰性与预计算两种可行性评估应产出一致的排班
func TestLazyMatchesEager(t *testing.T) {
	// 成本结构保证唯一最优解：低时薪人员包揽两班
	cheap := newGuard("李想", 60)
	costly := newGuard("高磊", 90)
	s1 := newShift(time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC), 8)
	s2 := newShift(time.Date(2026, 8, 18, 8, 0, 0, 0, time.UTC), 4)
	snap := newSnapshot([]*model.Worker{cheap, costly}, []*model.ShiftDemand{s1, s2})

	lazyOpts := baseOptions()
	lazyOpts.UseLazyFeasibility = true

	eager := runEngine(t, baseOptions(), snap)
	lazy := runEngine(t, lazyOpts, snap)

	if eager.Status != lazy.Status {
		t.Fatalf("状态不一致: eager=%s lazy=%s", eager.Status, lazy.Status)
	}
	if eager.Summary.TotalCost != lazy.Summary.TotalCost {
		t.Errorf("总成本不一致: %.1f vs %.1f", eager.Summary.TotalCost, lazy.Summary.TotalCost)
	}

	for name, r := range map[string]*scheduler.Result{"eager": eager, "lazy": lazy} {
		if r.Status != model.StatusOptimal {
			t.Errorf("%s 状态 = %s, 期望 OPTIMAL", name, r.Status)
		}
		if len(r.Assignments) != 2 {
			t.Fatalf("%s 分配数 = %d, 期望 2", name, len(r.Assignments))
		}
		for _, a := range r.Assignments {
			if a.WorkerID != cheap.ID {
				t.Errorf("%s 把班次 %s 派给了 %s, 期望 %s", name, a.ShiftID, a.WorkerID, cheap.ID)
			}
		}
		if r.Summary.TotalCost != 720 {
			t.Errorf("%s 总成本 = %.1f, 期望 720", name, r.Summary.TotalCost)
		}
	}

	if lazy.Diagnostics.CacheMisses == 0 {
		t.Error("惰性模式应产生缓存未命中计数")
	}
	if lazy.Diagnostics.CacheHits == 0 {
		t.Error("惰性模式的重复查询应命中缓存")
	}
	if eager.Diagnostics.CacheMisses != 0 {
		t.Errorf("预计算模式未命中数 = %d, 期望 0", eager.Diagnostics.CacheMisses)
	}
}
