package expr

import (
	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// FromMap 把相等过滤映射转换为等值比较的合取
// 遍历顺序跟随模型字段顺序，保证编译结果确定
func FromMap(m *schema.Model, filters map[string]any) (Expr, error) {
	if len(filters) == 0 {
		return nil, nil
	}

	matched := 0
	var result Expr
	for _, fd := range m.Fields {
		value, ok := filters[fd.Name]
		if !ok {
			continue
		}
		matched++

		cmp, err := Eq(m, fd.Name, value)
		if err != nil {
			return nil, err
		}

		if result == nil {
			result = cmp
		} else {
			result = AndExpr(result, cmp)
		}
	}

	if matched != len(filters) {
		for key := range filters {
			if _, ok := m.Field(key); !ok {
				return nil, errors.Wrapf(ErrExpressionType, "unknown field %s on %s", key, m.Table)
			}
		}
	}

	return result, nil
}
