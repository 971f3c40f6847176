package compile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/dialect"
	"github.com/ArnabChatterjee20k/LaserORM/expr"
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

var (
	ErrUnsafeStatement = errors.New("unsafe statement")
	ErrCompilation     = errors.New("compilation failed")
)

// InsertOptions 插入时的冲突处理选项
type InsertOptions struct {
	IgnoreConflict   bool
	UpdateOnConflict bool
}

type InsertOption func(*InsertOptions)

func WithIgnoreConflict() InsertOption {
	return func(o *InsertOptions) { o.IgnoreConflict = true }
}

func WithUpdateOnConflict() InsertOption {
	return func(o *InsertOptions) { o.UpdateOnConflict = true }
}

// SelectOptions 查询选项
type SelectOptions struct {
	Limit     int
	AfterID   any
	ForUpdate bool
}

type SelectOption func(*SelectOptions)

// WithLimit 限制返回行数，不设置表示不限制
func WithLimit(limit int) SelectOption {
	return func(o *SelectOptions) { o.Limit = limit }
}

// WithAfterID 键集分页游标：上一页最后一行的标识值
func WithAfterID(id any) SelectOption {
	return func(o *SelectOptions) { o.AfterID = id }
}

// WithForUpdate 行级锁定查询，方言不支持时编译失败
func WithForUpdate() SelectOption {
	return func(o *SelectOptions) { o.ForUpdate = true }
}

// Schema 生成建表语句和索引语句
// 第一条为 CREATE TABLE IF NOT EXISTS，其后是每个非唯一索引字段的 CREATE INDEX；
// 全部使用 IF NOT EXISTS 语义，重复执行不报错
func Schema(m *schema.Model, d *dialect.Dialect) ([]Statement, error) {
	columns := make([]string, 0, len(m.Fields))
	var indexes []Statement

	for i := range m.Fields {
		fd := &m.Fields[i]

		column, err := columnDefinition(fd, d)
		if err != nil {
			return nil, err
		}
		columns = append(columns, column)

		if fd.Indexed && !fd.Unique && !fd.PrimaryKey {
			indexes = append(indexes, indexStatement(m.Table, fd, d))
		}
	}

	table := Statement{
		SQL: fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n  %s\n)", m.Table, strings.Join(columns, ",\n  ")),
	}

	return append([]Statement{table}, indexes...), nil
}

// columnDefinition 单个字段的列定义
func columnDefinition(fd *schema.FieldDescriptor, d *dialect.Dialect) (string, error) {
	if fd.PrimaryKey && fd.AutoIncrement {
		return fmt.Sprintf("%s %s", fd.Name, d.AutoIncrementPK), nil
	}

	columnType, err := d.ColumnType(fd.Type)
	if err != nil {
		return "", err
	}

	parts := []string{fd.Name, columnType}

	if fd.PrimaryKey {
		parts = append(parts, "PRIMARY KEY")
		return strings.Join(parts, " "), nil
	}

	if fd.Unique {
		parts = append(parts, "UNIQUE")
	}
	if !fd.Nullable {
		parts = append(parts, "NOT NULL")
	}

	if fd.DefaultTimestamp {
		parts = append(parts, "DEFAULT "+d.CurrentTimestamp)
	} else if fd.HasDefault {
		literal, err := defaultLiteral(fd, d)
		if err != nil {
			return "", err
		}
		parts = append(parts, "DEFAULT "+literal)
	}

	return strings.Join(parts, " "), nil
}

// defaultLiteral 默认值的 DDL 字面量
func defaultLiteral(fd *schema.FieldDescriptor, d *dialect.Dialect) (string, error) {
	if fd.Default == nil {
		return "NULL", nil
	}

	switch v := fd.Default.(type) {
	case string:
		if fd.Type == schema.FieldTypeJSON {
			data, err := json.Marshal(v)
			if err != nil {
				return "", errors.Wrapf(ErrCompilation, "cannot serialize default for %s: %v", fd.Name, err)
			}
			return fmt.Sprintf("'%s'", strings.ReplaceAll(string(data), "'", "''")), nil
		}
		return fmt.Sprintf("'%s'", strings.ReplaceAll(v, "'", "''")), nil
	case bool:
		return d.BoolLiteral(v), nil
	default:
		if fd.Type == schema.FieldTypeJSON {
			data, err := json.Marshal(v)
			if err != nil {
				return "", errors.Wrapf(ErrCompilation, "cannot serialize default for %s: %v", fd.Name, err)
			}
			return fmt.Sprintf("'%s'", strings.ReplaceAll(string(data), "'", "''")), nil
		}
		return fmt.Sprintf("%v", v), nil
	}
}

func indexStatement(table string, fd *schema.FieldDescriptor, d *dialect.Dialect) Statement {
	ifNotExists := ""
	if d.IndexIfNotExists {
		ifNotExists = "IF NOT EXISTS "
	}

	using := ""
	if fd.Type == schema.FieldTypeJSON && d.JSONIndexUsing != "" {
		using = " USING " + d.JSONIndexUsing
	}

	return Statement{
		SQL: fmt.Sprintf("CREATE INDEX %s%s_%s_idx ON %s%s (%s)",
			ifNotExists, table, fd.Name, table, using, fd.Name),
	}
}

// Insert 生成插入语句
// 按模型字段顺序参数化每个给定值；自增标识字段省略，除非显式提供；
// 方言支持 RETURNING 且标识省略时追加写回子句
func Insert(m *schema.Model, d *dialect.Dialect, values map[string]any, opts ...InsertOption) (Statement, error) {
	options := &InsertOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.IgnoreConflict && options.UpdateOnConflict {
		return Statement{}, errors.Wrap(ErrCompilation, "ignore and update on conflict are mutually exclusive")
	}

	if err := checkColumns(m, values); err != nil {
		return Statement{}, err
	}

	var columns []string
	var placeholders []string
	var args []any
	counter := &argCounter{}
	identityOmitted := false

	for i := range m.Fields {
		fd := &m.Fields[i]

		value, ok := values[fd.Name]
		if !ok {
			if fd.PrimaryKey && fd.AutoIncrement {
				identityOmitted = true
			}
			continue
		}

		encoded, err := encodeValue(fd, value, d)
		if err != nil {
			return Statement{}, err
		}

		columns = append(columns, fd.Name)
		placeholders = append(placeholders, counter.next(d))
		args = append(args, encoded)
	}

	if len(columns) == 0 {
		return Statement{}, errors.Wrapf(ErrCompilation, "no values to insert into %s", m.Table)
	}

	prefix, suffix, err := insertClauses(m, d, options, columns)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("%s %s (%s) VALUES (%s)",
		prefix, m.Table, strings.Join(columns, ","), strings.Join(placeholders, ","))
	if suffix != "" {
		sql += " " + suffix
	}

	stmt := Statement{SQL: sql, Args: args, Insert: true}

	pk := m.PrimaryKey()
	if d.SupportsReturning && pk != nil && pk.AutoIncrement && identityOmitted {
		stmt.SQL += " RETURNING " + pk.Name
		stmt.Returning = pk.Name
	}

	return stmt, nil
}

// insertClauses 冲突处理的前后缀，差异全部来自方言数据
func insertClauses(m *schema.Model, d *dialect.Dialect, options *InsertOptions, columns []string) (string, string, error) {
	if options.IgnoreConflict {
		if d.InsertIgnorePrefix != "" {
			return d.InsertIgnorePrefix, "", nil
		}
		if d.InsertIgnoreSuffix != "" {
			return "INSERT INTO", d.InsertIgnoreSuffix, nil
		}
		return "", "", errors.Wrapf(ErrCompilation, "%s does not support conflict ignore", d.Name)
	}

	if options.UpdateOnConflict {
		if d.UpsertPrefix != "" {
			return d.UpsertPrefix, "", nil
		}
		if d.UpsertSuffix != "" {
			pk := m.PrimaryKey()
			assignments := make([]string, 0, len(columns))
			for _, column := range columns {
				if pk != nil && column == pk.Name {
					continue
				}
				assignments = append(assignments, fmt.Sprintf(d.UpsertAssign, column, column))
			}
			if len(assignments) == 0 {
				return "", "", errors.Wrapf(ErrCompilation, "nothing to update on conflict for %s", m.Table)
			}
			if d.UpsertWithTarget {
				if pk == nil {
					return "", "", errors.Wrapf(ErrCompilation, "%s upsert requires a primary key on %s", d.Name, m.Table)
				}
				return "INSERT INTO", fmt.Sprintf(d.UpsertSuffix, pk.Name, strings.Join(assignments, ", ")), nil
			}
			return "INSERT INTO", fmt.Sprintf(d.UpsertSuffix, strings.Join(assignments, ", ")), nil
		}
		return "", "", errors.Wrapf(ErrCompilation, "%s does not support upsert", d.Name)
	}

	return "INSERT INTO", "", nil
}

// Select 生成查询语句
// where 为 nil 时不带 WHERE；结果总是按标识升序，配合 WithAfterID 构成键集分页
func Select(m *schema.Model, d *dialect.Dialect, where expr.Expr, opts ...SelectOption) (Statement, error) {
	options := &SelectOptions{}
	for _, opt := range opts {
		opt(options)
	}

	counter := &argCounter{}
	var conditions []string
	var args []any

	if where != nil {
		whereSQL, whereArgs, err := lowerExpr(where, d, counter)
		if err != nil {
			return Statement{}, err
		}
		conditions = append(conditions, whereSQL)
		args = append(args, whereArgs...)
	}

	pk := m.PrimaryKey()

	if options.AfterID != nil {
		if pk == nil {
			return Statement{}, errors.Wrapf(ErrCompilation, "keyset pagination requires a primary key on %s", m.Table)
		}
		conditions = append(conditions, fmt.Sprintf("%s > %s", pk.Name, counter.next(d)))
		args = append(args, options.AfterID)
	}

	sql := "SELECT * FROM " + m.Table
	if len(conditions) > 0 {
		sql += " WHERE " + strings.Join(conditions, " AND ")
	}
	if pk != nil {
		sql += fmt.Sprintf(" ORDER BY %s ASC", pk.Name)
	}
	if options.Limit > 0 {
		sql += fmt.Sprintf(" LIMIT %d", options.Limit)
	}
	if options.ForUpdate {
		if !d.SupportsSelectForUpdate {
			return Statement{}, errors.Wrapf(ErrCompilation, "%s does not support select for update", d.Name)
		}
		sql += " FOR UPDATE"
	}

	return Statement{SQL: sql, Args: args}, nil
}

// Count 生成计数语句
func Count(m *schema.Model, d *dialect.Dialect, where expr.Expr) (Statement, error) {
	counter := &argCounter{}
	sql := "SELECT COUNT(*) AS count FROM " + m.Table
	var args []any

	if where != nil {
		whereSQL, whereArgs, err := lowerExpr(where, d, counter)
		if err != nil {
			return Statement{}, err
		}
		sql += " WHERE " + whereSQL
		args = whereArgs
	}

	return Statement{SQL: sql, Args: args}, nil
}

// Update 生成更新语句，必须带过滤条件，防止整表误更新
func Update(m *schema.Model, d *dialect.Dialect, where expr.Expr, values map[string]any) (Statement, error) {
	if where == nil {
		return Statement{}, errors.Wrapf(ErrUnsafeStatement, "unconditioned update on %s", m.Table)
	}
	if len(values) == 0 {
		return Statement{}, errors.Wrapf(ErrCompilation, "no values to update on %s", m.Table)
	}
	if err := checkColumns(m, values); err != nil {
		return Statement{}, err
	}

	counter := &argCounter{}
	var setParts []string
	var args []any

	for i := range m.Fields {
		fd := &m.Fields[i]

		value, ok := values[fd.Name]
		if !ok {
			continue
		}
		if fd.PrimaryKey {
			return Statement{}, errors.Wrapf(ErrCompilation, "cannot update primary key %s on %s", fd.Name, m.Table)
		}

		encoded, err := encodeValue(fd, value, d)
		if err != nil {
			return Statement{}, err
		}

		setParts = append(setParts, fmt.Sprintf("%s = %s", fd.Name, counter.next(d)))
		args = append(args, encoded)
	}

	whereSQL, whereArgs, err := lowerExpr(where, d, counter)
	if err != nil {
		return Statement{}, err
	}
	args = append(args, whereArgs...)

	sql := fmt.Sprintf("UPDATE %s SET %s WHERE %s", m.Table, strings.Join(setParts, ", "), whereSQL)
	return Statement{SQL: sql, Args: args}, nil
}

// Delete 生成删除语句，必须带过滤条件，防止整表误删除
func Delete(m *schema.Model, d *dialect.Dialect, where expr.Expr) (Statement, error) {
	if where == nil {
		return Statement{}, errors.Wrapf(ErrUnsafeStatement, "unconditioned delete on %s", m.Table)
	}

	counter := &argCounter{}
	whereSQL, args, err := lowerExpr(where, d, counter)
	if err != nil {
		return Statement{}, err
	}

	sql := fmt.Sprintf("DELETE FROM %s WHERE %s", m.Table, whereSQL)
	return Statement{SQL: sql, Args: args}, nil
}

// checkColumns 校验值映射里的列名都存在于模型
func checkColumns(m *schema.Model, values map[string]any) error {
	for column := range values {
		if _, ok := m.Field(column); !ok {
			return errors.Wrapf(ErrCompilation, "unknown column %s on %s", column, m.Table)
		}
	}
	return nil
}
