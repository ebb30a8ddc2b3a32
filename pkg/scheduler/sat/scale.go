// Package sat 基于 CP-SAT 构建约束模型并驱动求解
package sat

import (
	"fmt"
	"math"

	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
)

// 目标函数整体放大 objectiveScale 倍以保持整数系数：
// 成本项取 分×60，工时差项取 分钟×(权重×100)，溢价次数差项取 次数×(权重×6000)，
// 三者对真实目标的缩放一致。
const (
	centsPerUnit   = 100
	minutesPerHour = 60
	objectiveScale = centsPerUnit * minutesPerHour
)

// 单项成本上限，防止系数求和时越过 int64
const maxCostCents = int64(1) << 44

// CostCents 将成本转为整数分，负值或超限视为建模失败
func CostCents(cost float64) (int64, error) {
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return 0, errors.ModelBuild("objective", "成本不是有限数值")
	}
	if cost < 0 {
		return 0, errors.ModelBuild("objective", fmt.Sprintf("成本为负: %v", cost))
	}
	cents := math.Round(cost * centsPerUnit)
	if cents > float64(maxCostCents) {
		return 0, errors.ModelBuild("objective", fmt.Sprintf("成本缩放溢出: %v", cost))
	}
	return int64(cents), nil
}

// WeightCentis 公平权重按百分之一离散化，用于分钟级工时差项
func WeightCentis(weight float64) int64 {
	if weight <= 0 {
		return 0
	}
	return int64(math.Round(weight * 100))
}

// WeightScaled 公平权重按整体缩放离散化，用于溢价次数差项
func WeightScaled(weight float64) int64 {
	if weight <= 0 {
		return 0
	}
	return int64(math.Round(weight * objectiveScale))
}

// Descale 把求解器返回的目标值还原为原始货币单位
func Descale(objective float64) float64 {
	return objective / objectiveScale
}

// MinutesOf 将小时数转为整数分钟
func MinutesOf(hours float64) int {
	return int(math.Round(hours * minutesPerHour))
}
