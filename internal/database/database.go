// Package database 管理排班引擎的 PostgreSQL 只读连接。
//
// 引擎每次求解只做一轮快照加载,连接池保持小规格即可。
package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Dipanapana/RostraCore-sub000/internal/config"
	"github.com/Dipanapana/RostraCore-sub000/pkg/errors"
	"github.com/Dipanapana/RostraCore-sub000/pkg/logger"

	_ "github.com/lib/pq" // PostgreSQL 驱动
)

const (
	driverName         = "postgres"
	pingTimeout        = 5 * time.Second
	slowQueryThreshold = 100 * time.Millisecond
	maxLoggedQueryLen  = 200
)

// DB 包装 *sql.DB 并为查询附加慢日志。排班输入只读,不提供写入口。
type DB struct {
	*sql.DB
}

// New 建立连接池并验证连通性
func New(cfg *config.DatabaseConfig) (*DB, error) {
	raw, err := sql.Open(driverName, cfg.DSN())
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "打开数据库连接失败")
	}

	raw.SetMaxOpenConns(cfg.MaxOpenConns)
	raw.SetMaxIdleConns(cfg.MaxIdleConns)
	raw.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := raw.PingContext(ctx); err != nil {
		raw.Close()
		return nil, errors.Wrap(err, errors.CodeDatabaseError, "数据库连接测试失败")
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Str("database", cfg.Name).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("数据库连接成功")

	return &DB{DB: raw}, nil
}

// Close 关闭连接池
func (db *DB) Close() error {
	if db.DB == nil {
		return nil
	}
	logger.Info().Msg("关闭数据库连接")
	return db.DB.Close()
}

// QueryContext 执行查询,超过阈值时记录慢查询警告
func (db *DB) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	defer db.warnSlow(query, time.Now())
	return db.DB.QueryContext(ctx, query, args...)
}

// QueryRowContext 执行单行查询,同样纳入慢查询观测
func (db *DB) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	defer db.warnSlow(query, time.Now())
	return db.DB.QueryRowContext(ctx, query, args...)
}

func (db *DB) warnSlow(query string, start time.Time) {
	elapsed := time.Since(start)
	if elapsed <= slowQueryThreshold {
		return
	}
	logger.Warn().
		Str("query", compactQuery(query)).
		Dur("duration", elapsed).
		Msg("慢SQL查询")
}

// compactQuery 把多行 SQL 压成单行并截断,避免日志刷屏
func compactQuery(query string) string {
	q := strings.Join(strings.Fields(query), " ")
	if len(q) > maxLoggedQueryLen {
		return q[:maxLoggedQueryLen] + "..."
	}
	return q
}
