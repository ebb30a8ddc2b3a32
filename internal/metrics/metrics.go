// Package metrics 提供Prometheus监控指标
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler"
)

// Registry 应用专用注册表，不混入默认注册表的进程指标
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

// RunsTotal 求解运行总次数，按最终状态分类
var RunsTotal = factory.NewCounterVec(prometheus.CounterOpts{
	Namespace: "rostra",
	Name:      "runs_total",
	Help:      "求解运行总次数，按最终状态分类",
}, []string{"status"})

// RunDurationSeconds 单次求解运行的全程耗时
var RunDurationSeconds = factory.NewHistogram(prometheus.HistogramOpts{
	Namespace: "rostra",
	Name:      "run_duration_seconds",
	Help:      "单次求解运行的全程耗时",
	Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
})

// StageDurationSeconds 流水线各阶段耗时
var StageDurationSeconds = factory.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: "rostra",
	Name:      "stage_duration_seconds",
	Help:      "流水线各阶段耗时",
	Buckets:   []float64{0.001, 0.005, 0.025, 0.1, 0.5, 1, 5, 30, 60},
}, []string{"stage"})

// FeasibilityCacheHits 惰性可行性缓存命中次数
var FeasibilityCacheHits = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "rostra",
	Name:      "feasibility_cache_hits_total",
	Help:      "惰性可行性缓存命中次数",
})

// FeasibilityCacheMisses 惰性可行性缓存未命中次数
var FeasibilityCacheMisses = factory.NewCounter(prometheus.CounterOpts{
	Namespace: "rostra",
	Name:      "feasibility_cache_misses_total",
	Help:      "惰性可行性缓存未命中次数",
})

// FillRate 最近一次运行的班次覆盖率（百分比）
var FillRate = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "rostra",
	Name:      "fill_rate",
	Help:      "最近一次运行的班次覆盖率（百分比）",
})

// SolutionCost 最近一次运行方案的总人力成本
var SolutionCost = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "rostra",
	Name:      "solution_cost",
	Help:      "最近一次运行方案的总人力成本",
})

// PairVariables 最近一次运行的决策变量数
var PairVariables = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "rostra",
	Name:      "pair_variables",
	Help:      "最近一次运行的人员班次决策变量数",
})

// ConflictPairs 最近一次运行的互斥班次对数
var ConflictPairs = factory.NewGauge(prometheus.GaugeOpts{
	Namespace: "rostra",
	Name:      "conflict_pairs",
	Help:      "最近一次运行的互斥班次对数",
})

// ObserveRun 把一次求解运行的结果写入指标
func ObserveRun(result *scheduler.Result, duration time.Duration) {
	if result == nil {
		return
	}

	RunsTotal.WithLabelValues(string(result.Status)).Inc()
	RunDurationSeconds.Observe(duration.Seconds())

	for stage, seconds := range result.Diagnostics.StageTimings {
		StageDurationSeconds.WithLabelValues(stage).Observe(seconds)
	}

	FeasibilityCacheHits.Add(float64(result.Diagnostics.CacheHits))
	FeasibilityCacheMisses.Add(float64(result.Diagnostics.CacheMisses))

	FillRate.Set(result.Summary.FillRate)
	SolutionCost.Set(result.Summary.TotalCost)
	PairVariables.Set(float64(result.Diagnostics.PairVariables))
	ConflictPairs.Set(float64(result.Diagnostics.ConflictPairs))
}

// Handler 返回 Prometheus 指标端点处理器
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
