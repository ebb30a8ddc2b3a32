package sat

import (
	"context"
	"time"

	"github.com/google/or-tools/ortools/sat/go/cpmodel"
	cmpb "github.com/google/or-tools/ortools/sat/proto/cpmodel"
	sppb "github.com/google/or-tools/ortools/sat/proto/satparameters"
	"google.golang.org/protobuf/proto"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/model"
)

// Solution 求解器的原始返回
type Solution struct {
	Status    model.SolveStatus
	Response  *cmpb.CpSolverResponse
	Objective float64
	WallTime  time.Duration
}

// Assigned 判定某决策变量在解中是否取真
func (sol *Solution) Assigned(v cpmodel.BoolVar) bool {
	if sol.Response == nil {
		return false
	}
	return cpmodel.SolutionBooleanValue(sol.Response, v)
}

// StatusName 返回求解器的原始状态名，无响应时退回归一化状态
func (sol *Solution) StatusName() string {
	if sol.Response == nil {
		return string(sol.Status)
	}
	return sol.Response.GetStatus().String()
}

// Driver 以墙钟预算驱动 CP-SAT 求解
type Driver struct {
	TimeLimit time.Duration
	Threads   int
}

// NewDriver 创建求解驱动
func NewDriver(timeLimit time.Duration, threads int) *Driver {
	return &Driver{TimeLimit: timeLimit, Threads: threads}
}

// Solve 求解模型并归一化状态。
// 上下文剩余时限比配置预算更紧时取更紧者；预算耗尽前找到的最好解按 FEASIBLE 返回。
// 预算在调用前已经耗尽时不再进入求解器，直接返回 UNKNOWN。
func (d *Driver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	modelProto, err := m.Finalize()
	if err != nil {
		return nil, err
	}

	budget := d.TimeLimit.Seconds()
	if deadline, ok := ctx.Deadline(); ok {
		remaining := time.Until(deadline).Seconds()
		if remaining <= 0 {
			return &Solution{Status: model.StatusUnknown}, nil
		}
		if budget <= 0 || remaining < budget {
			budget = remaining
		}
	}

	params := &sppb.SatParameters{}
	if budget > 0 {
		params.MaxTimeInSeconds = proto.Float64(budget)
	}
	if d.Threads > 0 {
		params.NumWorkers = proto.Int32(int32(d.Threads))
	}

	resp, err := cpmodel.SolveCpModelWithParameters(modelProto, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeSolverFailure, "求解器调用失败")
	}

	sol := &Solution{
		Response:  resp,
		Objective: Descale(resp.GetObjectiveValue()),
		WallTime:  time.Duration(resp.GetWallTime() * float64(time.Second)),
	}
	switch resp.GetStatus() {
	case cmpb.CpSolverStatus_OPTIMAL:
		sol.Status = model.StatusOptimal
	case cmpb.CpSolverStatus_FEASIBLE:
		sol.Status = model.StatusFeasible
	case cmpb.CpSolverStatus_INFEASIBLE:
		sol.Status = model.StatusInfeasible
	case cmpb.CpSolverStatus_MODEL_INVALID:
		return nil, errors.SolverFailure("模型被求解器判为无效").
			WithField("detail", resp.GetSolutionInfo())
	default:
		sol.Status = model.StatusUnknown
	}
	return sol, nil
}
