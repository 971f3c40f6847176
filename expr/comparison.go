package expr

import (
	"time"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// Eq 等于
func Eq(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpEq, value)
}

// Ne 不等于
func Ne(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpNe, value)
}

// Lt 小于
func Lt(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpLt, value)
}

// Le 小于等于
func Le(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpLe, value)
}

// Gt 大于
func Gt(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpGt, value)
}

// Ge 大于等于
func Ge(m *schema.Model, field string, value any) (Expr, error) {
	return compare(m, field, OpGe, value)
}

// In 集合成员，集合不能为空，元素顺序保留
func In(m *schema.Model, field string, values ...any) (Expr, error) {
	return membership(m, field, OpIn, values)
}

// NotIn 集合非成员，集合不能为空
func NotIn(m *schema.Model, field string, values ...any) (Expr, error) {
	return membership(m, field, OpNotIn, values)
}

func compare(m *schema.Model, field string, op Operator, value any) (Expr, error) {
	fd, err := lookup(m, field)
	if err != nil {
		return nil, err
	}

	value = Resolve(value)
	if err := checkScalar(fd, value); err != nil {
		return nil, err
	}

	return Comparison{Field: *fd, Op: op, Value: value}, nil
}

func membership(m *schema.Model, field string, op Operator, values []any) (Expr, error) {
	fd, err := lookup(m, field)
	if err != nil {
		return nil, err
	}

	if len(values) == 0 {
		return nil, errors.Wrapf(ErrExpressionType, "empty %s set for field %s", op, fd.Name)
	}

	resolved := make([]any, len(values))
	for i, v := range values {
		v = Resolve(v)
		if err := checkScalar(fd, v); err != nil {
			return nil, err
		}
		resolved[i] = v
	}

	return Comparison{Field: *fd, Op: op, Values: resolved}, nil
}

func lookup(m *schema.Model, field string) (*schema.FieldDescriptor, error) {
	fd, ok := m.Field(field)
	if !ok {
		return nil, errors.Wrapf(ErrExpressionType, "unknown field %s on %s", field, m.Table)
	}
	return fd, nil
}

// checkScalar 在构建表达式时检查操作数类型，不合法的表达式不会进入编译阶段
func checkScalar(fd *schema.FieldDescriptor, value any) error {
	if value == nil {
		return errors.Wrapf(ErrExpressionType, "nil value for field %s, expected %s", fd.Name, fd.Type)
	}

	ok := false
	switch fd.Type {
	case schema.FieldTypeString:
		_, ok = value.(string)
	case schema.FieldTypeInt:
		switch value.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ok = true
		}
	case schema.FieldTypeFloat:
		switch value.(type) {
		case float32, float64, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			ok = true
		}
	case schema.FieldTypeBool:
		_, ok = value.(bool)
	case schema.FieldTypeTime:
		_, ok = value.(time.Time)
	case schema.FieldTypeJSON:
		// JSON 字段的比较值在编译阶段序列化时校验
		ok = true
	}

	if !ok {
		return errors.Wrapf(ErrExpressionType, "invalid value type %T for field %s, expected %s", value, fd.Name, fd.Type)
	}
	return nil
}
