package feasibility

// CacheStats 可行性查询的命中统计
type CacheStats struct {
	Hits   int64
	Misses int64
}

// Evaluator 可行性矩阵的统一访问接口。
// 预计算与惰性两种实现对任意 (w, s) 必须返回相同结果。
type Evaluator interface {
	// At 返回下标为 (w, s) 的判定结果，下标越界视为编程错误
	At(w, s int) *Result
	// Stats 返回截至当前的查询命中统计
	Stats() CacheStats
}

// EagerMatrix 构造时一次性算满整个矩阵
type EagerMatrix struct {
	shifts  int
	cells   []*Result
	lookups int64
}

// NewEagerMatrix 预计算全部 worker×shift 对
func NewEagerMatrix(ix *Index, ck *Checker) *EagerMatrix {
	m := &EagerMatrix{
		shifts: ix.NumShifts(),
		cells:  make([]*Result, ix.NumWorkers()*ix.NumShifts()),
	}
	for w, worker := range ix.Workers {
		base := w * m.shifts
		for s, shift := range ix.Shifts {
			m.cells[base+s] = ck.Evaluate(worker, shift)
		}
	}
	return m
}

// At 返回预计算的结果
func (m *EagerMatrix) At(w, s int) *Result {
	m.lookups++
	return m.cells[w*m.shifts+s]
}

// Stats 预计算模式下所有查询都视为命中
func (m *EagerMatrix) Stats() CacheStats {
	return CacheStats{Hits: m.lookups}
}

// LazyMatrix 首次访问时计算并缓存，nil 槽位表示尚未计算
type LazyMatrix struct {
	ix     *Index
	ck     *Checker
	cells  []*Result
	hits   int64
	misses int64
}

// NewLazyMatrix 创建惰性矩阵，只分配槽位不做计算
func NewLazyMatrix(ix *Index, ck *Checker) *LazyMatrix {
	return &LazyMatrix{
		ix:    ix,
		ck:    ck,
		cells: make([]*Result, ix.NumWorkers()*ix.NumShifts()),
	}
}

// At 返回缓存结果，未计算则现算现存
func (m *LazyMatrix) At(w, s int) *Result {
	pos := w*m.ix.NumShifts() + s
	if m.cells[pos] != nil {
		m.hits++
		return m.cells[pos]
	}
	m.misses++
	m.cells[pos] = m.ck.Evaluate(m.ix.Workers[w], m.ix.Shifts[s])
	return m.cells[pos]
}

// Stats 返回命中统计
func (m *LazyMatrix) Stats() CacheStats {
	return CacheStats{Hits: m.hits, Misses: m.misses}
}

// NewEvaluator 按配置选择实现
func NewEvaluator(ix *Index, ck *Checker, lazy bool) Evaluator {
	if lazy {
		return NewLazyMatrix(ix, ck)
	}
	return NewEagerMatrix(ix, ck)
}
