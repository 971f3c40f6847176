package expr

import (
	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// ContainsValue 构建包含过滤
// JSON 字段接受任意可序列化的值，文本字段只接受字符串
func ContainsValue(m *schema.Model, field string, value any) (Expr, error) {
	fd, err := lookup(m, field)
	if err != nil {
		return nil, err
	}

	value = Resolve(value)
	if value == nil {
		return nil, errors.Wrapf(ErrExpressionType, "nil contains value for field %s", fd.Name)
	}

	switch fd.Type {
	case schema.FieldTypeJSON:
	case schema.FieldTypeString:
		if _, ok := value.(string); !ok {
			return nil, errors.Wrapf(ErrExpressionType, "invalid contains value type %T for field %s, expected string", value, fd.Name)
		}
	default:
		return nil, errors.Wrapf(ErrExpressionType, "contains not supported on field %s of type %s", fd.Name, fd.Type)
	}

	return Contains{Field: *fd, Value: value}, nil
}
