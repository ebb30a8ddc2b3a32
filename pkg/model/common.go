// Package model 定义排班优化引擎的核心数据模型
package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BaseModel 库表公共字段
type BaseModel struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt *time.Time `json:"-" db:"deleted_at"`
}

// NewBaseModel 生成带新 ID 的公共字段
func NewBaseModel() BaseModel {
	now := time.Now()
	return BaseModel{
		ID:        uuid.New(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Organization 租户组织
type Organization struct {
	BaseModel
	Name     string  `json:"name" db:"name"`
	Code     string  `json:"code" db:"code"`
	Settings JSONMap `json:"settings" db:"settings"`
}

// JSONMap 对应 PostgreSQL 的 JSONB 列
type JSONMap map[string]interface{}

// TimeRange 半开时间区间 [Start, End)
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Duration 区间长度
func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

// Overlaps 判断两个区间是否相交
func (tr TimeRange) Overlaps(other TimeRange) bool {
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Contains 判断时间点是否落在区间内
func (tr TimeRange) Contains(t time.Time) bool {
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// ContainsRange 检查时间范围是否完整包含另一个范围
func (tr TimeRange) ContainsRange(other TimeRange) bool {
	return !other.Start.Before(tr.Start) && !other.End.After(tr.End)
}

// Grade 证书等级，A 最高、E 最低，高等级可覆盖低等级岗位
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeE Grade = "E"
)

var gradeRank = map[Grade]int{
	GradeA: 5,
	GradeB: 4,
	GradeC: 3,
	GradeD: 2,
	GradeE: 1,
}

// Rank 返回等级序号（越大等级越高），未知等级返回 0
func (g Grade) Rank() int {
	return gradeRank[g]
}

// IsValid 检查是否为已知等级
func (g Grade) IsValid() bool {
	return gradeRank[g] > 0
}

// Covers 检查本等级是否满足要求等级，空的要求等级表示不限
func (g Grade) Covers(required Grade) bool {
	if required == "" {
		return true
	}
	rr := gradeRank[required]
	if rr == 0 {
		return false
	}
	return gradeRank[g] >= rr
}

// ISOWeek ISO 日历周
type ISOWeek struct {
	Year int `json:"year"`
	Week int `json:"week"`
}

// ISOWeekOf 返回时间所在的 ISO 周
func ISOWeekOf(t time.Time) ISOWeek {
	year, week := t.ISOWeek()
	return ISOWeek{Year: year, Week: week}
}

// String 返回形如 2026-W08 的周标识
func (w ISOWeek) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// DateKey 日期键（YYYY-MM-DD）
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}

// ParseDateKey 解析日期键
func ParseDateKey(date string) (time.Time, error) {
	return time.Parse("2006-01-02", date)
}
