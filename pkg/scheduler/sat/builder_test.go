package sat

import (
	"testing"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
	"github.com/Dipanapana/RostraCore-sub000/pkg/scheduler/feasibility"
)

func shiftAt(start time.Time, hours float64) *model.ShiftDemand {
	return &model.ShiftDemand{
		BaseModel:     model.NewBaseModel(),
		StartTime:     start,
		EndTime:       start.Add(time.Duration(hours * float64(time.Hour))),
		RequiredRole:  "guard",
		RequiredGrade: model.GradeC,
		PaidHours:     hours,
		RequiredCount: 1,
	}
}

func TestConflictPairs(t *testing.T) {
	base := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		starts   []time.Duration // 相对 base 的开始偏移，时长均8小时
		minRest  time.Duration
		expected [][2]int
	}{
		{
			name:     "时间重叠",
			starts:   []time.Duration{0, 4 * time.Hour},
			minRest:  0,
			expected: [][2]int{{0, 1}},
		},
		{
			name:     "间隔4小时不足8小时休息",
			starts:   []time.Duration{0, 12 * time.Hour},
			minRest:  8 * time.Hour,
			expected: [][2]int{{0, 1}},
		},
		{
			name:     "间隔恰好等于休息时间",
			starts:   []time.Duration{0, 16 * time.Hour},
			minRest:  8 * time.Hour,
			expected: nil,
		},
		{
			name:     "间隔充足",
			starts:   []time.Duration{0, 24 * time.Hour},
			minRest:  8 * time.Hour,
			expected: nil,
		},
		{
			name:     "紧邻班次在零休息要求下可以连排",
			starts:   []time.Duration{0, 8 * time.Hour},
			minRest:  0,
			expected: nil,
		},
		{
			name:    "连续三班两两冲突",
			starts:  []time.Duration{0, 4 * time.Hour, 8 * time.Hour},
			minRest: 8 * time.Hour,
			expected: [][2]int{
				{0, 1}, {0, 2}, {1, 2},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shifts := make([]*model.ShiftDemand, len(tt.starts))
			for i, off := range tt.starts {
				shifts[i] = shiftAt(base.Add(off), 8)
			}
			got := ConflictPairs(shifts, tt.minRest)
			if len(got) != len(tt.expected) {
				t.Fatalf("ConflictPairs() = %v, expected %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("pair[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestHorizonDates(t *testing.T) {
	base := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)
	shifts := []*model.ShiftDemand{
		shiftAt(base, 8),
		shiftAt(base.Add(72*time.Hour), 8), // 中间隔两个空档日
	}

	dates, idx, err := horizonDates(shifts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := []string{"2026-08-17", "2026-08-18", "2026-08-19", "2026-08-20"}
	if len(dates) != len(expected) {
		t.Fatalf("dates = %v, expected %v", dates, expected)
	}
	for i, d := range expected {
		if dates[i] != d {
			t.Errorf("dates[%d] = %s, expected %s", i, dates[i], d)
		}
		if idx[d] != i {
			t.Errorf("idx[%s] = %d, expected %d", d, idx[d], i)
		}
	}
}

func buildParams() Params {
	return Params{
		MaxHoursWeek:         48,
		MinRestHours:         8,
		MaxConsecutiveDays:   6,
		MaxConsecutiveNights: 3,
		FairnessSlack:        2,
		FairnessWeight:       0.5,
		NightWindowStart:     22 * 60,
		NightWindowEnd:       6 * 60,
	}
}

func TestBuilder_Build(t *testing.T) {
	base := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	w1 := &model.Worker{
		BaseModel: model.NewBaseModel(), Role: "guard", Status: "active", HourlyRate: 100,
		Certifications: []model.Certification{{Type: "guard", Grade: model.GradeB, ExpiryDate: "2027-12-31", Verified: true}},
	}
	w2 := &model.Worker{
		BaseModel: model.NewBaseModel(), Role: "guard", Status: "active", HourlyRate: 120,
		Certifications: []model.Certification{{Type: "guard", Grade: model.GradeA, ExpiryDate: "2027-12-31", Verified: true}},
	}

	s1 := shiftAt(base, 8)
	s2 := shiftAt(base.Add(24*time.Hour), 8)
	s3 := shiftAt(base.Add(48*time.Hour), 8)
	s3.RequiredFirearm = "rifle" // 无人持有，应被排除出覆盖

	ix := feasibility.NewIndex([]*model.Worker{w1, w2}, []*model.ShiftDemand{s1, s2, s3})
	eval := feasibility.NewEagerMatrix(ix, feasibility.NewChecker(feasibility.Params{MaxHoursWeek: 48}))

	b := NewBuilder(ix, eval, buildParams())
	m, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	if m.NumPairVars != 4 {
		t.Errorf("NumPairVars = %d, expected 4", m.NumPairVars)
	}
	if len(m.Uncovered) != 1 {
		t.Fatalf("Uncovered = %v, expected 1个班次", m.Uncovered)
	}
	si, _ := ix.ShiftIndex(s3.ID)
	if m.Uncovered[0] != si {
		t.Errorf("Uncovered[0] = %d, expected %d", m.Uncovered[0], si)
	}
	for w := 0; w < 2; w++ {
		if _, ok := m.Pairs.At(w, si); ok {
			t.Error("被排除班次不应持有决策变量")
		}
	}

	if err := ComposeObjective(m, eval, buildParams()); err != nil {
		t.Fatalf("ComposeObjective() error: %v", err)
	}
	if _, err := m.Finalize(); err != nil {
		t.Fatalf("Finalize() error: %v", err)
	}
}

func TestBuilder_Build_InsufficientHeadcount(t *testing.T) {
	base := time.Date(2026, 8, 17, 8, 0, 0, 0, time.UTC)

	w := &model.Worker{
		BaseModel: model.NewBaseModel(), Role: "guard", Status: "active", HourlyRate: 100,
		Certifications: []model.Certification{{Type: "guard", Grade: model.GradeB, ExpiryDate: "2027-12-31", Verified: true}},
	}
	s := shiftAt(base, 8)
	s.RequiredCount = 2 // 只有一名候选

	ix := feasibility.NewIndex([]*model.Worker{w}, []*model.ShiftDemand{s})
	eval := feasibility.NewEagerMatrix(ix, feasibility.NewChecker(feasibility.Params{MaxHoursWeek: 48}))

	m, err := NewBuilder(ix, eval, buildParams()).Build()
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	if len(m.Uncovered) != 1 || m.NumPairVars != 0 {
		t.Errorf("候选不足的班次应整体排除: Uncovered=%v NumPairVars=%d", m.Uncovered, m.NumPairVars)
	}
}
