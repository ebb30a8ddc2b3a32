package feasibility

import (
	"sort"

	"github.com/google/uuid"

	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// Index 为一次求解建立 worker/shift 的稠密整数索引。
// 班次按开始时间排序（同刻按ID），后续的冲突对生成依赖这个顺序。
type Index struct {
	Workers []*model.Worker
	Shifts  []*model.ShiftDemand

	workerIdx map[uuid.UUID]int
	shiftIdx  map[uuid.UUID]int
}

// NewIndex 构建索引，不修改传入的切片
func NewIndex(workers []*model.Worker, shifts []*model.ShiftDemand) *Index {
	sorted := make([]*model.ShiftDemand, len(shifts))
	copy(sorted, shifts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].StartTime.Equal(sorted[j].StartTime) {
			return sorted[i].StartTime.Before(sorted[j].StartTime)
		}
		return sorted[i].ID.String() < sorted[j].ID.String()
	})

	ix := &Index{
		Workers:   workers,
		Shifts:    sorted,
		workerIdx: make(map[uuid.UUID]int, len(workers)),
		shiftIdx:  make(map[uuid.UUID]int, len(sorted)),
	}
	for i, w := range workers {
		ix.workerIdx[w.ID] = i
	}
	for i, s := range sorted {
		ix.shiftIdx[s.ID] = i
	}
	return ix
}

// NumWorkers 返回人员数
func (ix *Index) NumWorkers() int {
	return len(ix.Workers)
}

// NumShifts 返回班次数
func (ix *Index) NumShifts() int {
	return len(ix.Shifts)
}

// WorkerIndex 按ID查人员下标
func (ix *Index) WorkerIndex(id uuid.UUID) (int, bool) {
	i, ok := ix.workerIdx[id]
	return i, ok
}

// ShiftIndex 按ID查班次下标
func (ix *Index) ShiftIndex(id uuid.UUID) (int, bool) {
	i, ok := ix.shiftIdx[id]
	return i, ok
}
