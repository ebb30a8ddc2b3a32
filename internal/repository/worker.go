package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// WorkerRepository 人员仓储
type WorkerRepository struct {
	db DB
}

// NewWorkerRepository 创建人员仓储
func NewWorkerRepository(db DB) *WorkerRepository {
	return &WorkerRepository{db: db}
}

// ListActive 获取组织下全部在职人员（含证书）
func (r *WorkerRepository) ListActive(ctx context.Context, orgID uuid.UUID) ([]*model.Worker, error) {
	query := `
		SELECT id, org_id, name, code, role, status,
			hourly_rate, max_hours_per_week, certifications,
			created_at, updated_at
		FROM workers
		WHERE org_id = $1 AND status = 'active' AND deleted_at IS NULL
		ORDER BY code, id
	`

	rows, err := r.db.QueryContext(ctx, query, orgID)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "查询人员失败")
	}
	defer rows.Close()

	var workers []*model.Worker
	for rows.Next() {
		w, err := scanWorker(rows)
		if err != nil {
			return nil, err
		}
		workers = append(workers, w)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "遍历人员结果失败")
	}

	return workers, nil
}

// attachAvailability 装载规划窗口内的可用性登记。
// start、end 为 YYYY-MM-DD，含两端。
func (r *WorkerRepository) attachAvailability(ctx context.Context, workers []*model.Worker, orgID uuid.UUID, start, end string) error {
	if len(workers) == 0 {
		return nil
	}

	query := `
		SELECT worker_id, date, type, time_ranges, reason
		FROM worker_availability
		WHERE org_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY worker_id, date
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "查询可用性失败")
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*model.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}

	for rows.Next() {
		var (
			av         model.Availability
			date       time.Time
			rangesJSON []byte
			reason     sql.NullString
		)
		if err := rows.Scan(&av.WorkerID, &date, &av.Type, &rangesJSON, &reason); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "扫描可用性数据失败")
		}
		av.Date = model.DateKey(date)
		av.Reason = reason.String
		if len(rangesJSON) > 0 {
			if err := json.Unmarshal(rangesJSON, &av.TimeRanges); err != nil {
				return errors.Wrap(err, errors.CodeDatabaseError, "解析可用时段失败")
			}
		}
		if w, ok := byID[av.WorkerID]; ok {
			w.Availability = append(w.Availability, av)
		}
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "遍历可用性结果失败")
	}

	return nil
}

// attachCommittedHours 统计规划窗口之外已发布排班占用的周工时。
// 只统计与窗口重叠的 ISO 周，窗口内的班次由本次求解重新决定，不计入。
func (r *WorkerRepository) attachCommittedHours(ctx context.Context, workers []*model.Worker, orgID uuid.UUID, windowStart, windowEndExcl time.Time) error {
	if len(workers) == 0 {
		return nil
	}

	weekStart := mondayOf(windowStart)
	weekEnd := mondayOf(windowEndExcl.AddDate(0, 0, -1)).AddDate(0, 0, 7)

	query := `
		SELECT a.worker_id, to_char(d.start_time, 'IYYY-"W"IW') AS week, SUM(d.paid_hours)
		FROM shift_assignments a
		JOIN shift_demands d ON d.id = a.shift_id
		WHERE a.org_id = $1 AND a.status = 'published'
			AND d.start_time >= $2 AND d.start_time < $3
			AND (d.start_time < $4 OR d.start_time >= $5)
		GROUP BY a.worker_id, week
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, weekStart, weekEnd, windowStart, windowEndExcl)
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "查询已锁定工时失败")
	}
	defer rows.Close()

	byID := make(map[uuid.UUID]*model.Worker, len(workers))
	for _, w := range workers {
		byID[w.ID] = w
	}

	for rows.Next() {
		var (
			workerID uuid.UUID
			week     string
			hours    float64
		)
		if err := rows.Scan(&workerID, &week, &hours); err != nil {
			return errors.Wrap(err, errors.CodeDatabaseError, "扫描已锁定工时失败")
		}
		w, ok := byID[workerID]
		if !ok {
			continue
		}
		if w.CommittedHours == nil {
			w.CommittedHours = make(map[string]float64)
		}
		w.CommittedHours[week] = hours
	}
	if err := rows.Err(); err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "遍历已锁定工时结果失败")
	}

	return nil
}

// scanWorker 扫描人员数据
func scanWorker(row Scanner) (*model.Worker, error) {
	w := &model.Worker{}
	var certsJSON []byte

	err := row.Scan(
		&w.ID, &w.OrgID, &w.Name, &w.Code, &w.Role, &w.Status,
		&w.HourlyRate, &w.MaxHoursPerWeek, &certsJSON,
		&w.CreatedAt, &w.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "扫描人员数据失败")
	}

	if len(certsJSON) > 0 {
		if err := json.Unmarshal(certsJSON, &w.Certifications); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "解析证书数据失败")
		}
	}

	return w, nil
}

// mondayOf 返回日期所在 ISO 周的周一
func mondayOf(t time.Time) time.Time {
	wd := int(t.Weekday())
	if wd == 0 {
		wd = 7
	}
	return t.AddDate(0, 0, 1-wd)
}
