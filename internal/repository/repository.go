// Package repository 提供排班输入的数据访问层。
// 求解引擎不直接访问数据库，仓储把一个组织在规划窗口内的
// 全部输入一次性装配为不可变快照。
package repository

import (
	"context"
	"database/sql"
)

// DB 数据库查询接口，装载快照只读
type DB interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// Scanner 行扫描接口，sql.Row 与 sql.Rows 均满足
type Scanner interface {
	Scan(dest ...interface{}) error
}
