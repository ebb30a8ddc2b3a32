package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// ShiftRepository 班次需求仓储
type ShiftRepository struct {
	db DB
}

// NewShiftRepository 创建班次需求仓储
func NewShiftRepository(db DB) *ShiftRepository {
	return &ShiftRepository{db: db}
}

// ListOpen 获取规划窗口内待排的班次需求，按开始时间排序
func (r *ShiftRepository) ListOpen(ctx context.Context, orgID uuid.UUID, windowStart, windowEndExcl time.Time) ([]*model.ShiftDemand, error) {
	query := `
		SELECT id, org_id, site_id, site_name, start_time, end_time,
			required_role, required_grade, required_firearm,
			paid_hours, required_count, created_at, updated_at
		FROM shift_demands
		WHERE org_id = $1 AND status = 'open' AND deleted_at IS NULL
			AND start_time >= $2 AND start_time < $3
		ORDER BY start_time, id
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, windowStart, windowEndExcl)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "查询班次需求失败")
	}
	defer rows.Close()

	var shifts []*model.ShiftDemand
	for rows.Next() {
		s, err := scanShift(rows)
		if err != nil {
			return nil, err
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "遍历班次需求结果失败")
	}

	return shifts, nil
}

// scanShift 扫描班次需求数据
func scanShift(row Scanner) (*model.ShiftDemand, error) {
	s := &model.ShiftDemand{}
	var siteName, grade, firearm sql.NullString

	err := row.Scan(
		&s.ID, &s.OrgID, &s.SiteID, &siteName, &s.StartTime, &s.EndTime,
		&s.RequiredRole, &grade, &firearm,
		&s.PaidHours, &s.RequiredCount, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "扫描班次需求数据失败")
	}

	s.SiteName = siteName.String
	s.RequiredGrade = model.Grade(grade.String)
	s.RequiredFirearm = firearm.String

	return s, nil
}
