package orm

import (
	"context"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/compile"
	"github.com/ArnabChatterjee20k/LaserORM/database"
	"github.com/ArnabChatterjee20k/LaserORM/expr"
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// Repository 模型到单表的数据访问层
// 描述符构建一次后复用，语句每次重新编译
type Repository[T any] struct {
	db    database.Database
	model *schema.Model
}

func NewRepository[T any](db database.Database) (*Repository[T], error) {
	var zero T
	model, err := schema.Build(zero)
	if err != nil {
		return nil, err
	}
	return &Repository[T]{db: db, model: model}, nil
}

// Model 模型描述符，用于构建表达式
func (r *Repository[T]) Model() *schema.Model {
	return r.model
}

// Migrate 创建表和索引，可以重复执行
func (r *Repository[T]) Migrate(ctx context.Context) error {
	statements, err := compile.Schema(r.model, r.db.Dialect())
	if err != nil {
		return err
	}

	for _, stmt := range statements {
		if err := r.db.ExecDDL(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// Create 插入记录并把生成的标识写回结构体
func (r *Repository[T]) Create(ctx context.Context, record *T, opts ...compile.InsertOption) error {
	values, err := extractValues(r.model, record)
	if err != nil {
		return err
	}

	stmt, err := compile.Insert(r.model, r.db.Dialect(), values, opts...)
	if err != nil {
		return err
	}

	result, err := r.db.ExecWrite(ctx, stmt)
	if err != nil {
		return err
	}

	if result.HasInsertID {
		if err := assignIdentity(r.model, record, result.InsertID); err != nil {
			return err
		}
	}
	return nil
}

// Get 查询单条记录，没有匹配时返回 ErrRecordNotFound
func (r *Repository[T]) Get(ctx context.Context, where expr.Expr, opts ...compile.SelectOption) (*T, error) {
	opts = append(opts, compile.WithLimit(1))
	records, err := r.query(ctx, where, opts...)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, database.ErrRecordNotFound
	}
	return records[0], nil
}

// Find 查询多条记录，配合 WithLimit 和 WithAfterID 做键集分页
func (r *Repository[T]) Find(ctx context.Context, where expr.Expr, opts ...compile.SelectOption) ([]*T, error) {
	return r.query(ctx, where, opts...)
}

// Filter 相等过滤映射的查询糖，等价于等值比较的合取
func (r *Repository[T]) Filter(filters map[string]any) (expr.Expr, error) {
	return expr.FromMap(r.model, filters)
}

// Update 按过滤条件更新，返回受影响行数；条件不能为空
func (r *Repository[T]) Update(ctx context.Context, where expr.Expr, values map[string]any) (int64, error) {
	stmt, err := compile.Update(r.model, r.db.Dialect(), where, values)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecWrite(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return result.Affected, nil
}

// Delete 按过滤条件删除，返回受影响行数；条件不能为空
func (r *Repository[T]) Delete(ctx context.Context, where expr.Expr) (int64, error) {
	stmt, err := compile.Delete(r.model, r.db.Dialect(), where)
	if err != nil {
		return 0, err
	}

	result, err := r.db.ExecWrite(ctx, stmt)
	if err != nil {
		return 0, err
	}
	return result.Affected, nil
}

// Count 按过滤条件统计行数
func (r *Repository[T]) Count(ctx context.Context, where expr.Expr) (int64, error) {
	stmt, err := compile.Count(r.model, r.db.Dialect(), where)
	if err != nil {
		return 0, err
	}

	records, err := r.db.Query(ctx, stmt)
	if err != nil {
		return 0, err
	}
	if len(records) == 0 {
		return 0, nil
	}

	raw, ok := records[0].Fields()["count"]
	if !ok {
		return 0, errors.New("count column missing from result")
	}

	switch v := raw.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case []byte:
		return parseInt(v)
	}
	return 0, errors.Errorf("unexpected count type %T", raw)
}

// WithTx 在事务中执行一组仓库操作
func (r *Repository[T]) WithTx(ctx context.Context, fn func(tx *Repository[T]) error) error {
	return r.db.WithTx(ctx, func(tx database.Database) error {
		return fn(&Repository[T]{db: tx, model: r.model})
	})
}

func (r *Repository[T]) query(ctx context.Context, where expr.Expr, opts ...compile.SelectOption) ([]*T, error) {
	stmt, err := compile.Select(r.model, r.db.Dialect(), where, opts...)
	if err != nil {
		return nil, err
	}

	records, err := r.db.Query(ctx, stmt)
	if err != nil {
		return nil, err
	}

	results := make([]*T, 0, len(records))
	for _, record := range records {
		decoded := new(T)
		if err := decodeRecord(r.model, record, decoded); err != nil {
			return nil, err
		}
		results = append(results, decoded)
	}
	return results, nil
}

func parseInt(data []byte) (int64, error) {
	var n int64
	for _, c := range data {
		if c < '0' || c > '9' {
			return 0, errors.Errorf("unexpected count value %q", data)
		}
		n = n*10 + int64(c-'0')
	}
	return n, nil
}
