package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/logger"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// SnapshotRepository 快照仓储，把一次求解运行的全部输入一次性装载
type SnapshotRepository struct {
	db      DB
	workers *WorkerRepository
	shifts  *ShiftRepository
}

// NewSnapshotRepository 创建快照仓储
func NewSnapshotRepository(db DB) *SnapshotRepository {
	return &SnapshotRepository{
		db:      db,
		workers: NewWorkerRepository(db),
		shifts:  NewShiftRepository(db),
	}
}

// Load 装载组织在 [start, end] 日期窗口内的排班输入。
// start、end 为 YYYY-MM-DD，含两端。
func (r *SnapshotRepository) Load(ctx context.Context, orgID uuid.UUID, start, end string) (*model.Snapshot, error) {
	startDay, err := model.ParseDateKey(start)
	if err != nil {
		return nil, errors.InvalidInput("window_start", err.Error())
	}
	endDay, err := model.ParseDateKey(end)
	if err != nil {
		return nil, errors.InvalidInput("window_end", err.Error())
	}
	if endDay.Before(startDay) {
		return nil, errors.New(errors.CodeInvalidInput, "规划窗口结束日期早于开始日期")
	}
	windowEndExcl := endDay.AddDate(0, 0, 1)

	if err := r.ensureOrganization(ctx, orgID); err != nil {
		return nil, err
	}

	workers, err := r.workers.ListActive(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := r.workers.attachAvailability(ctx, workers, orgID, start, end); err != nil {
		return nil, err
	}
	if err := r.workers.attachCommittedHours(ctx, workers, orgID, startDay, windowEndExcl); err != nil {
		return nil, err
	}

	shifts, err := r.shifts.ListOpen(ctx, orgID, startDay, windowEndExcl)
	if err != nil {
		return nil, err
	}

	holidays, err := r.listHolidays(ctx, orgID, start, end)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("org_id", orgID.String()).
		Str("window", start+"~"+end).
		Int("workers", len(workers)).
		Int("shifts", len(shifts)).
		Int("holidays", len(holidays)).
		Msg("排班输入装载完成")

	return &model.Snapshot{
		OrgID:    orgID,
		Workers:  workers,
		Shifts:   shifts,
		Holidays: holidays,
		LoadedAt: time.Now(),
	}, nil
}

// ensureOrganization 确认组织存在
func (r *SnapshotRepository) ensureOrganization(ctx context.Context, orgID uuid.UUID) error {
	query := `SELECT id FROM organizations WHERE id = $1 AND deleted_at IS NULL`

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx, query, orgID).Scan(&id)
	if err == sql.ErrNoRows {
		return errors.NotFound("组织", orgID.String())
	}
	if err != nil {
		return errors.Wrap(err, errors.CodeDatabaseError, "查询组织失败")
	}

	return nil
}

// listHolidays 获取窗口内登记的公共假日
func (r *SnapshotRepository) listHolidays(ctx context.Context, orgID uuid.UUID, start, end string) ([]string, error) {
	query := `
		SELECT date FROM holidays
		WHERE org_id = $1 AND date BETWEEN $2 AND $3
		ORDER BY date
	`

	rows, err := r.db.QueryContext(ctx, query, orgID, start, end)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "查询节假日失败")
	}
	defer rows.Close()

	var holidays []string
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, errors.Wrap(err, errors.CodeDatabaseError, "扫描节假日数据失败")
		}
		holidays = append(holidays, model.DateKey(d))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "遍历节假日结果失败")
	}

	return holidays, nil
}
