// Package errors 定义排班引擎统一的错误码体系。
//
// 引擎对外只暴露少量稳定错误码,调用方按码分流,不应解析错误文本。
package errors

import (
	"errors"
	"fmt"
)

// Code 稳定错误码,跨版本保持不变
type Code string

const (
	// 基础
	CodeUnknown      Code = "UNKNOWN"
	CodeInternal     Code = "INTERNAL_ERROR"
	CodeInvalidInput Code = "INPUT_INVALID"
	CodeNotFound     Code = "NOT_FOUND"
	CodeTimeout      Code = "TIMEOUT"

	// 求解链路
	CodeModelBuildFailed   Code = "MODEL_BUILD_FAILED"
	CodeNoFeasibleSolution Code = "NO_FEASIBLE_SOLUTION"
	CodeSolverFailure      Code = "SOLVER_FAILURE"

	// 数据访问
	CodeDatabaseError Code = "DATABASE_ERROR"
)

// Error 携带错误码的引擎错误
type Error struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Fields  map[string]interface{} `json:"fields,omitempty"`
}

func (e *Error) Error() string {
	s := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Cause != nil {
		s += ": " + e.Cause.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Cause }

// WithField 附加结构化字段,用于日志与诊断输出
func (e *Error) WithField(key string, value interface{}) *Error {
	if e.Fields == nil {
		e.Fields = map[string]interface{}{}
	}
	e.Fields[key] = value
	return e
}

// New 构造带码错误
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf 构造带格式化消息的错误
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap 为底层错误附加错误码与上下文消息
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, Cause: err}
}

// GetCode 提取错误码,非本包错误返回 CodeUnknown
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeUnknown
}

// InvalidInput 标记某个输入字段不合法
func InvalidInput(field, reason string) *Error {
	return Newf(CodeInvalidInput, "字段 '%s' 无效: %s", field, reason)
}

// NotFound 标记资源不存在
func NotFound(resource, id string) *Error {
	return Newf(CodeNotFound, "%s '%s' 不存在", resource, id)
}

// ModelBuild 标记约束建模失败,stage 指明出错的构建阶段
func ModelBuild(stage, details string) *Error {
	return Newf(CodeModelBuildFailed, "阶段 '%s' 建模失败: %s", stage, details).
		WithField("stage", stage)
}

// SolverFailure 标记求解器内部错误,区别于正常的不可行结论
func SolverFailure(details string) *Error {
	return Newf(CodeSolverFailure, "求解器内部错误: %s", details)
}
