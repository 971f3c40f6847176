package database

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/compile"
	"github.com/ArnabChatterjee20k/LaserORM/dialect"
)

var (
	ErrRecordNotFound    = errors.New("record not found")
	ErrNestedTransaction = errors.New("nested transactions not supported")
	ErrUnsupportedDriver = errors.New("unsupported driver")
)

// WriteResult 写语句的执行结果
type WriteResult struct {
	Affected    int64
	InsertID    int64
	HasInsertID bool
}

// Record 一行查询结果，列名到原始后端值的映射
type Record interface {
	Fields() map[string]any
}

// Database 后端适配器接口
// 只负责执行编译好的语句并返回行，语句的构造全部在 compile 包完成
type Database interface {
	// ExecDDL 执行建表/建索引语句
	ExecDDL(ctx context.Context, stmt compile.Statement) error

	// ExecWrite 执行写语句，返回受影响行数和可选的生成标识
	ExecWrite(ctx context.Context, stmt compile.Statement) (WriteResult, error)

	// Query 执行查询语句
	Query(ctx context.Context, stmt compile.Statement) ([]Record, error)

	// Dialect 该后端的方言描述符
	Dialect() *dialect.Dialect

	// BeginTx 开始事务
	BeginTx(ctx context.Context) (Tx, error)

	// WithTx 在事务中执行操作，出错或 panic 时回滚
	WithTx(ctx context.Context, fn func(tx Database) error) error

	// Close 关闭连接
	Close() error
}

// Tx 事务接口
type Tx interface {
	Database
	Commit() error
	Rollback() error
}
