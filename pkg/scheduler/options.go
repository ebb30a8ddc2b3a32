package scheduler

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/sat"
)

// 未显式配置时的缺省值
const (
	DefaultMaxConsecutiveDays   = 6
	DefaultMaxConsecutiveNights = 3
	DefaultFairnessSlack        = 2
	DefaultTimeLimitSeconds     = 30.0
	DefaultNightWindowStart     = "22:00"
	DefaultNightWindowEnd       = "06:00"
)

// Options 一次求解运行的配置值对象。
// 构造后视为不可变，引擎不读取任何全局可变状态。
type Options struct {
	MaxHoursWeek         float64 `json:"max_hours_week" validate:"min=0"`         // 全局周工时上限，0 表示不设全局上限
	MinRestHours         float64 `json:"min_rest_hours" validate:"min=0"`         // 班次间最短休息小时数
	MaxConsecutiveDays   int     `json:"max_consecutive_days" validate:"min=0"`   // 任意7天窗口内最多出勤天数
	MaxConsecutiveNights int     `json:"max_consecutive_nights" validate:"min=0"` // 滑动窗口内最多夜班数
	FairnessSlack        int     `json:"fairness_slack" validate:"min=0"`         // 溢价班次数量 max-min 允许差值
	FairnessWeight       float64 `json:"fairness_weight" validate:"min=0"`        // 工时均衡目标项权重，0 表示关闭软性均衡项
	NightPremiumPerHour  float64 `json:"night_premium_per_hour" validate:"min=0"` // 夜班每小时补贴
	TimeLimitSeconds     float64 `json:"time_limit_seconds" validate:"min=0"`     // 求解墙钟预算（秒），0 表示不限制
	WorkerThreads        int     `json:"worker_threads" validate:"min=0"`         // 求解器内部线程数，0 交由求解器决定
	UseLazyFeasibility   bool    `json:"use_lazy_feasibility"`                    // true 时可行性矩阵按需计算

	// 夜班分类窗口，HH:MM，起点晚于终点表示跨零点
	NightWindowStart string `json:"night_window_start" validate:"omitempty,datetime=15:04"`
	NightWindowEnd   string `json:"night_window_end" validate:"omitempty,datetime=15:04"`
}

// DefaultOptions 返回带缺省值的配置
func DefaultOptions() Options {
	return Options{
		MaxConsecutiveDays:   DefaultMaxConsecutiveDays,
		MaxConsecutiveNights: DefaultMaxConsecutiveNights,
		FairnessSlack:        DefaultFairnessSlack,
		TimeLimitSeconds:     DefaultTimeLimitSeconds,
		NightWindowStart:     DefaultNightWindowStart,
		NightWindowEnd:       DefaultNightWindowEnd,
	}
}

var validate = validator.New()

// Validate 校验配置取值范围
func (o Options) Validate() error {
	if err := validate.Struct(o); err != nil {
		return errors.Wrap(err, errors.CodeInvalidInput, "配置校验失败")
	}
	return nil
}

// normalized 返回填充缺省值后的副本。
// 连续出勤/夜班上限取零会令模型退化为禁止一切排班，按未配置处理；
// 夜班窗口为空时若原样传递，零值窗口会把所有班次都判为夜班。
func (o Options) normalized() Options {
	if o.MaxConsecutiveDays <= 0 {
		o.MaxConsecutiveDays = DefaultMaxConsecutiveDays
	}
	if o.MaxConsecutiveNights <= 0 {
		o.MaxConsecutiveNights = DefaultMaxConsecutiveNights
	}
	if o.NightWindowStart == "" {
		o.NightWindowStart = DefaultNightWindowStart
	}
	if o.NightWindowEnd == "" {
		o.NightWindowEnd = DefaultNightWindowEnd
	}
	return o
}

// parseClock 解析 HH:MM 为自零点起的分钟偏移
func parseClock(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, errors.InvalidInput("night_window", err.Error())
	}
	return t.Hour()*60 + t.Minute(), nil
}

// nightWindow 返回夜班窗口的分钟偏移区间
func (o Options) nightWindow() (startMin, endMin int, err error) {
	if startMin, err = parseClock(o.NightWindowStart); err != nil {
		return 0, 0, err
	}
	if endMin, err = parseClock(o.NightWindowEnd); err != nil {
		return 0, 0, err
	}
	return startMin, endMin, nil
}

// feasibilityParams 组装可行性评估参数
func (o Options) feasibilityParams(holidays map[string]bool) (feasibility.Params, error) {
	start, end, err := o.nightWindow()
	if err != nil {
		return feasibility.Params{}, err
	}
	return feasibility.Params{
		MaxHoursWeek:        o.MaxHoursWeek,
		NightWindowStart:    start,
		NightWindowEnd:      end,
		NightPremiumPerHour: o.NightPremiumPerHour,
		Holidays:            holidays,
	}, nil
}

// satParams 组装约束建模参数
func (o Options) satParams(holidays map[string]bool) (sat.Params, error) {
	start, end, err := o.nightWindow()
	if err != nil {
		return sat.Params{}, err
	}
	return sat.Params{
		MaxHoursWeek:         o.MaxHoursWeek,
		MinRestHours:         o.MinRestHours,
		MaxConsecutiveDays:   o.MaxConsecutiveDays,
		MaxConsecutiveNights: o.MaxConsecutiveNights,
		FairnessSlack:        o.FairnessSlack,
		FairnessWeight:       o.FairnessWeight,
		NightWindowStart:     start,
		NightWindowEnd:       end,
		Holidays:             holidays,
	}, nil
}

// timeLimit 返回求解墙钟预算
func (o Options) timeLimit() time.Duration {
	return time.Duration(o.TimeLimitSeconds * float64(time.Second))
}
