package model

import (
	"testing"
	"time"
)

func TestTimeRange_Overlaps(t *testing.T) {
	base := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		a        TimeRange
		b        TimeRange
		expected bool
	}{
		{
			name:     "完全重叠",
			a:        TimeRange{Start: base, End: base.Add(8 * time.Hour)},
			b:        TimeRange{Start: base, End: base.Add(8 * time.Hour)},
			expected: true,
		},
		{
			name:     "部分重叠",
			a:        TimeRange{Start: base, End: base.Add(8 * time.Hour)},
			b:        TimeRange{Start: base.Add(4 * time.Hour), End: base.Add(12 * time.Hour)},
			expected: true,
		},
		{
			name:     "首尾相接不算重叠",
			a:        TimeRange{Start: base, End: base.Add(8 * time.Hour)},
			b:        TimeRange{Start: base.Add(8 * time.Hour), End: base.Add(16 * time.Hour)},
			expected: false,
		},
		{
			name:     "完全分离",
			a:        TimeRange{Start: base, End: base.Add(4 * time.Hour)},
			b:        TimeRange{Start: base.Add(10 * time.Hour), End: base.Add(14 * time.Hour)},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.expected {
				t.Errorf("Overlaps() = %v, expected %v", got, tt.expected)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.expected {
				t.Errorf("Overlaps() 应满足对称性, got %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestTimeRange_ContainsRange(t *testing.T) {
	base := time.Date(2026, 8, 17, 6, 0, 0, 0, time.UTC)
	outer := TimeRange{Start: base, End: base.Add(12 * time.Hour)}

	tests := []struct {
		name     string
		inner    TimeRange
		expected bool
	}{
		{"完整包含", TimeRange{Start: base.Add(2 * time.Hour), End: base.Add(10 * time.Hour)}, true},
		{"边界对齐", TimeRange{Start: base, End: base.Add(12 * time.Hour)}, true},
		{"起点越界", TimeRange{Start: base.Add(-1 * time.Hour), End: base.Add(4 * time.Hour)}, false},
		{"终点越界", TimeRange{Start: base.Add(8 * time.Hour), End: base.Add(13 * time.Hour)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := outer.ContainsRange(tt.inner); got != tt.expected {
				t.Errorf("ContainsRange() = %v, expected %v", got, tt.expected)
			}
		})
	}
}

func TestGrade_Covers(t *testing.T) {
	tests := []struct {
		name     string
		grade    Grade
		required Grade
		expected bool
	}{
		{"同级满足", GradeC, GradeC, true},
		{"高级覆盖低级", GradeA, GradeC, true},
		{"低级不能覆盖高级", GradeD, GradeB, false},
		{"不限等级", GradeE, "", true},
		{"未知要求等级不可覆盖", GradeA, Grade("X"), false},
		{"未知持有等级不可覆盖", Grade("X"), GradeE, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.grade.Covers(tt.required); got != tt.expected {
				t.Errorf("Covers(%s, %s) = %v, expected %v", tt.grade, tt.required, got, tt.expected)
			}
		})
	}
}

func TestISOWeekOf(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{"年中日期", time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), "2026-W34"},
		{"跨年周属于次年", time.Date(2024, 12, 30, 0, 0, 0, 0, time.UTC), "2025-W01"},
		{"年初日期", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), "2026-W01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ISOWeekOf(tt.date).String(); got != tt.expected {
				t.Errorf("ISOWeekOf(%s) = %s, expected %s", tt.date.Format("2006-01-02"), got, tt.expected)
			}
		})
	}
}

func TestNewBaseModel(t *testing.T) {
	base := NewBaseModel()

	if base.ID.String() == "" {
		t.Error("ID should not be empty")
	}
	if base.CreatedAt.IsZero() {
		t.Error("CreatedAt should not be zero")
	}
	if base.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should not be zero")
	}
}
