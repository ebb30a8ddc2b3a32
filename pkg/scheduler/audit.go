package scheduler

import (
	"github.com/Dipanapana/RostraCore-sub000/pkg/validator"
)

// AuditConfig 组装与本配置一致的事后审计参数。
// 审计必须使用求解时生效的同一组上限与夜班窗口，否则复核结论没有意义。
func (o Options) AuditConfig(holidays map[string]bool) (*validator.AuditConfig, error) {
	start, end, err := o.nightWindow()
	if err != nil {
		return nil, err
	}
	return &validator.AuditConfig{
		MaxHoursWeek:         o.MaxHoursWeek,
		MinRestHours:         o.MinRestHours,
		MaxConsecutiveDays:   o.MaxConsecutiveDays,
		MaxConsecutiveNights: o.MaxConsecutiveNights,
		FairnessSlack:        o.FairnessSlack,
		NightWindowStart:     start,
		NightWindowEnd:       end,
		Holidays:             holidays,
	}, nil
}
