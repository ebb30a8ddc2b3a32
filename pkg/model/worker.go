// Package model 定义排班优化引擎的核心数据模型
package model

import (
	"github.com/google/uuid"
)

// 安保角色
const (
	RoleSupervisor = "supervisor" // 督导可覆盖任意岗位
)

// Worker 安保人员
type Worker struct {
	BaseModel
	OrgID  uuid.UUID `json:"org_id" db:"org_id"`
	Name   string    `json:"name" db:"name"`
	Code   string    `json:"code" db:"code"`
	Role   string    `json:"role" db:"role"`
	Status string    `json:"status" db:"status"` // active/inactive/leave

	HourlyRate      float64 `json:"hourly_rate" db:"hourly_rate"`
	MaxHoursPerWeek float64 `json:"max_hours_per_week" db:"max_hours_per_week"` // 0 表示仅受全局周工时上限约束

	Certifications []Certification `json:"certifications,omitempty" db:"certifications"`
	Availability   []Availability  `json:"availability,omitempty" db:"-"`

	// 规划窗口之外已锁定排班占用的周工时
	// key: ISO 周标识（如 2026-W08），value: 小时数
	CommittedHours map[string]float64 `json:"committed_hours,omitempty" db:"-"`
}

// Certification 资质证书
type Certification struct {
	Type        string `json:"type" db:"type"`
	Grade       Grade  `json:"grade" db:"grade"`
	FirearmType string `json:"firearm_type,omitempty" db:"firearm_type"` // 空表示无持枪资质
	ExpiryDate  string `json:"expiry_date" db:"expiry_date"`             // YYYY-MM-DD
	Verified    bool   `json:"verified" db:"verified"`
}

// ValidOn 检查证书在指定日期是否有效（已核验且未过期）
func (c Certification) ValidOn(date string) bool {
	return c.Verified && c.ExpiryDate >= date
}

// 可用性类型
const (
	AvailabilityAvailable   = "available"
	AvailabilityUnavailable = "unavailable"
)

// Availability 人员可用性记录，按日期登记
type Availability struct {
	WorkerID   uuid.UUID   `json:"worker_id" db:"worker_id"`
	Date       string      `json:"date" db:"date"` // YYYY-MM-DD
	Type       string      `json:"type" db:"type"` // available/unavailable
	TimeRanges []TimeRange `json:"time_ranges,omitempty" db:"time_ranges"`
	Reason     string      `json:"reason,omitempty" db:"reason"`
}

// IsAvailable 检查记录是否标记为可用
func (a Availability) IsAvailable() bool {
	return a.Type == AvailabilityAvailable
}

// Covers 检查可用时段是否完整覆盖指定时间范围
// 未登记具体时段表示全天可用
func (a Availability) Covers(tr TimeRange) bool {
	if !a.IsAvailable() {
		return false
	}
	if len(a.TimeRanges) == 0 {
		return true
	}
	for _, r := range a.TimeRanges {
		if r.ContainsRange(tr) {
			return true
		}
	}
	return false
}

// IsActive 检查人员是否在职
func (w *Worker) IsActive() bool {
	return w.Status == "active"
}

// CoversRole 检查人员角色是否可承担指定岗位
func (w *Worker) CoversRole(role string) bool {
	if role == "" {
		return true
	}
	return w.Role == role || w.Role == RoleSupervisor
}

// ValidCertifications 返回指定日期仍有效的证书
func (w *Worker) ValidCertifications(date string) []Certification {
	var valid []Certification
	for _, c := range w.Certifications {
		if c.ValidOn(date) {
			valid = append(valid, c)
		}
	}
	return valid
}

// BestGradeOn 返回指定日期有效证书中的最高等级，无有效证书返回空
func (w *Worker) BestGradeOn(date string) Grade {
	best := Grade("")
	for _, c := range w.Certifications {
		if !c.ValidOn(date) {
			continue
		}
		if c.Grade.Rank() > best.Rank() {
			best = c.Grade
		}
	}
	return best
}

// HasFirearmOn 检查指定日期是否持有匹配的有效持枪资质
// firearmType 为空时任意持枪资质均可
func (w *Worker) HasFirearmOn(date, firearmType string) bool {
	for _, c := range w.Certifications {
		if !c.ValidOn(date) || c.FirearmType == "" {
			continue
		}
		if firearmType == "" || c.FirearmType == firearmType {
			return true
		}
	}
	return false
}

// WeeklyCap 返回实际生效的周工时上限：min(全局上限, 个人上限)
func (w *Worker) WeeklyCap(globalMax float64) float64 {
	if w.MaxHoursPerWeek > 0 && w.MaxHoursPerWeek < globalMax {
		return w.MaxHoursPerWeek
	}
	return globalMax
}

// CommittedOn 返回指定 ISO 周已锁定的工时
func (w *Worker) CommittedOn(week ISOWeek) float64 {
	if w.CommittedHours == nil {
		return 0
	}
	return w.CommittedHours[week.String()]
}
