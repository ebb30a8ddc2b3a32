// Package model 定义排班优化引擎的核心数据模型
package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// ShiftDemand 班次需求，表示某站点在某时间段需要的人力
type ShiftDemand struct {
	BaseModel
	OrgID    uuid.UUID `json:"org_id" db:"org_id"`
	SiteID   uuid.UUID `json:"site_id" db:"site_id"`
	SiteName string    `json:"site_name,omitempty" db:"site_name"`

	StartTime time.Time `json:"start_time" db:"start_time"`
	EndTime   time.Time `json:"end_time" db:"end_time"`

	RequiredRole    string `json:"required_role" db:"required_role"`
	RequiredGrade   Grade  `json:"required_grade" db:"required_grade"`
	RequiredFirearm string `json:"required_firearm,omitempty" db:"required_firearm"` // 空表示岗位不需持枪

	// 计薪工时（已扣除不计薪的用餐休息）
	PaidHours     float64 `json:"paid_hours" db:"paid_hours"`
	RequiredCount int     `json:"required_count" db:"required_count"`
}

// Date 返回班次开始日期（YYYY-MM-DD）
func (s *ShiftDemand) Date() string {
	return DateKey(s.StartTime)
}

// Week 返回班次所在的 ISO 周
func (s *ShiftDemand) Week() ISOWeek {
	return ISOWeekOf(s.StartTime)
}

// TimeRange 返回班次的起止时间范围
func (s *ShiftDemand) TimeRange() TimeRange {
	return TimeRange{Start: s.StartTime, End: s.EndTime}
}

// Overlaps 检查两个班次是否时间重叠
func (s *ShiftDemand) Overlaps(other *ShiftDemand) bool {
	return s.TimeRange().Overlaps(other.TimeRange())
}

// PaidMinutes 返回计薪分钟数（四舍五入到整分钟）
func (s *ShiftDemand) PaidMinutes() int {
	return int(math.Round(s.PaidHours * 60))
}

// Count 返回需求人数，未填（0）按 1 处理
func (s *ShiftDemand) Count() int {
	if s.RequiredCount <= 0 {
		return 1
	}
	return s.RequiredCount
}

// IsSunday 检查班次是否在周日开始
func (s *ShiftDemand) IsSunday() bool {
	return s.StartTime.Weekday() == time.Sunday
}

// IsWeekend 检查班次是否在周末（周六或周日）开始
func (s *ShiftDemand) IsWeekend() bool {
	wd := s.StartTime.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsHolidayIn 检查班次开始日期是否为集合中的公共假日
func (s *ShiftDemand) IsHolidayIn(holidays map[string]bool) bool {
	return holidays[s.Date()]
}

// StartsInWindow 检查班次开始时刻是否落在 [startMin, endMin) 的时钟窗口内
// 窗口以自午夜起的分钟数表示，endMin <= startMin 表示跨午夜窗口
func (s *ShiftDemand) StartsInWindow(startMin, endMin int) bool {
	m := s.StartTime.Hour()*60 + s.StartTime.Minute()
	if endMin <= startMin {
		return m >= startMin || m < endMin
	}
	return m >= startMin && m < endMin
}
