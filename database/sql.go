package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/compile"
	"github.com/ArnabChatterjee20k/LaserORM/dialect"
)

type SQLOptions struct {
	Driver   string `cfg:"driver" def:"sqlite3"`
	DSN      string `cfg:"dsn"`
	Host     string `cfg:"host" def:"localhost"`
	Port     string `cfg:"port"`
	Database string `cfg:"database"`
	Username string `cfg:"username"`
	Password string `cfg:"password"`
	SSLMode  string `cfg:"sslMode" def:"disable"`
	Charset  string `cfg:"charset" def:"utf8mb4"`
	MaxConns int    `cfg:"maxConns" def:"10"`
	MaxIdle  int    `cfg:"maxIdle" def:"5"`
}

// SQL database/sql 之上的后端适配器
// 方言差异（占位符、类型亲和、写回方式）都在编译阶段处理，这里只执行
type SQL struct {
	db      *sql.DB
	dialect *dialect.Dialect
}

func NewSQLWithOptions(options *SQLOptions) (*SQL, error) {
	d, err := dialect.ForDriver(options.Driver)
	if err != nil {
		return nil, errors.Wrapf(ErrUnsupportedDriver, "%s", options.Driver)
	}

	dsn := options.DSN
	if dsn == "" {
		switch options.Driver {
		case "sqlite3":
			dsn = options.Database
		case "postgres":
			port := options.Port
			if port == "" {
				port = "5432"
			}
			dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
				options.Host, port, options.Username, options.Password, options.Database, options.SSLMode)
		case "mysql":
			port := options.Port
			if port == "" {
				port = "3306"
			}
			dsn = fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
				options.Username, options.Password, options.Host, port, options.Database, options.Charset)
		}
	}

	db, err := sql.Open(options.Driver, dsn)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(options.MaxConns)
	db.SetMaxIdleConns(options.MaxIdle)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return &SQL{db: db, dialect: d}, nil
}

func (s *SQL) Dialect() *dialect.Dialect {
	return s.dialect
}

func (s *SQL) ExecDDL(ctx context.Context, stmt compile.Statement) error {
	if _, err := s.db.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return errors.Wrapf(err, "ddl failed: %s", stmt.SQL)
	}
	return nil
}

func (s *SQL) ExecWrite(ctx context.Context, stmt compile.Statement) (WriteResult, error) {
	return execWrite(ctx, s.db, stmt)
}

func (s *SQL) Query(ctx context.Context, stmt compile.Statement) ([]Record, error) {
	return query(ctx, s.db, stmt)
}

func (s *SQL) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &SQLTx{tx: tx, dialect: s.dialect}, nil
}

func (s *SQL) WithTx(ctx context.Context, fn func(tx Database) error) error {
	tx, err := s.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit()
}

func (s *SQL) Close() error {
	return s.db.Close()
}

// SQLTx 事务，执行路径与 SQL 一致
type SQLTx struct {
	tx      *sql.Tx
	dialect *dialect.Dialect
}

func (t *SQLTx) Dialect() *dialect.Dialect {
	return t.dialect
}

func (t *SQLTx) ExecDDL(ctx context.Context, stmt compile.Statement) error {
	if _, err := t.tx.ExecContext(ctx, stmt.SQL, stmt.Args...); err != nil {
		return errors.Wrapf(err, "ddl failed: %s", stmt.SQL)
	}
	return nil
}

func (t *SQLTx) ExecWrite(ctx context.Context, stmt compile.Statement) (WriteResult, error) {
	return execWrite(ctx, t.tx, stmt)
}

func (t *SQLTx) Query(ctx context.Context, stmt compile.Statement) ([]Record, error) {
	return query(ctx, t.tx, stmt)
}

func (t *SQLTx) BeginTx(ctx context.Context) (Tx, error) {
	return nil, ErrNestedTransaction
}

func (t *SQLTx) WithTx(ctx context.Context, fn func(tx Database) error) error {
	return fn(t)
}

func (t *SQLTx) Commit() error {
	return t.tx.Commit()
}

func (t *SQLTx) Rollback() error {
	return t.tx.Rollback()
}

func (t *SQLTx) Close() error {
	return nil
}

// executor database/sql 连接与事务的公共面
type executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func execWrite(ctx context.Context, e executor, stmt compile.Statement) (WriteResult, error) {
	// 带 RETURNING 的语句要扫描生成标识
	if stmt.Returning != "" {
		var id int64
		err := e.QueryRowContext(ctx, stmt.SQL, stmt.Args...).Scan(&id)
		// 冲突被忽略时没有行返回，不算失败
		if errors.Is(err, sql.ErrNoRows) {
			return WriteResult{}, nil
		}
		if err != nil {
			return WriteResult{}, errors.Wrapf(err, "write failed: %s", stmt.SQL)
		}
		return WriteResult{Affected: 1, InsertID: id, HasInsertID: true}, nil
	}

	result, err := e.ExecContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return WriteResult{}, errors.Wrapf(err, "write failed: %s", stmt.SQL)
	}

	write := WriteResult{}
	if affected, err := result.RowsAffected(); err == nil {
		write.Affected = affected
	}
	// 驱动的 LastInsertId 在更新/删除或被忽略的插入之后是陈旧值
	if stmt.Insert && write.Affected > 0 {
		if id, err := result.LastInsertId(); err == nil && id > 0 {
			write.InsertID = id
			write.HasInsertID = true
		}
	}

	return write, nil
}

func query(ctx context.Context, e executor, stmt compile.Statement) ([]Record, error) {
	rows, err := e.QueryContext(ctx, stmt.SQL, stmt.Args...)
	if err != nil {
		return nil, errors.Wrapf(err, "query failed: %s", stmt.SQL)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		record, err := scanRowToRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// SQLRecord 一行原始结果
type SQLRecord struct {
	data map[string]any
}

func (r *SQLRecord) Fields() map[string]any {
	return r.data
}

func scanRowToRecord(rows *sql.Rows) (Record, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(columns))
	valuePtrs := make([]any, len(columns))
	for i := range values {
		valuePtrs[i] = &values[i]
	}

	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, err
	}

	data := make(map[string]any)
	for i, column := range columns {
		data[column] = values[i]
	}

	return &SQLRecord{data: data}, nil
}
