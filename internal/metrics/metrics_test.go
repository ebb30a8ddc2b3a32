package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler"
)

func TestObserveRun(t *testing.T) {
	result := &scheduler.Result{
		Status: model.StatusOptimal,
		Summary: scheduler.Summary{
			TotalCost: 2400,
			FillRate:  75,
		},
		Diagnostics: scheduler.Diagnostics{
			StageTimings:  map[string]float64{"feasibility": 0.01, "solve": 1.2},
			CacheHits:     10,
			CacheMisses:   4,
			PairVariables: 6,
			ConflictPairs: 2,
		},
	}

	ObserveRun(result, 1500*time.Millisecond)

	if got := testutil.ToFloat64(RunsTotal.WithLabelValues("OPTIMAL")); got != 1 {
		t.Errorf("runs_total{status=OPTIMAL} = %v, expected 1", got)
	}
	if got := testutil.ToFloat64(FillRate); got != 75 {
		t.Errorf("fill_rate = %v, expected 75", got)
	}
	if got := testutil.ToFloat64(SolutionCost); got != 2400 {
		t.Errorf("solution_cost = %v, expected 2400", got)
	}
	if got := testutil.ToFloat64(FeasibilityCacheHits); got != 10 {
		t.Errorf("cache_hits = %v, expected 10", got)
	}
	if got := testutil.ToFloat64(PairVariables); got != 6 {
		t.Errorf("pair_variables = %v, expected 6", got)
	}
}

func TestObserveRun_NilResult(t *testing.T) {
	before := testutil.ToFloat64(FeasibilityCacheMisses)
	ObserveRun(nil, time.Second)
	if after := testutil.ToFloat64(FeasibilityCacheMisses); after != before {
		t.Error("空结果不应写入任何指标")
	}
}
