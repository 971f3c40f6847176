package compile

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/dialect"
	"github.com/ArnabChatterjee20k/LaserORM/expr"
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// lowerExpr 深度优先遍历表达式树生成谓词 SQL
// 参数顺序与占位符顺序严格一致；内部节点强制加括号，不依赖后端的优先级规则
func lowerExpr(e expr.Expr, d *dialect.Dialect, c *argCounter) (string, []any, error) {
	switch node := e.(type) {
	case expr.And:
		return lowerBinary(node.Left, node.Right, "AND", d, c)

	case expr.Or:
		return lowerBinary(node.Left, node.Right, "OR", d, c)

	case expr.Comparison:
		return lowerComparison(node, d, c)

	case expr.Contains:
		return lowerContains(node, d, c)
	}

	return "", nil, errors.Wrapf(ErrCompilation, "unsupported expression node %T", e)
}

func lowerBinary(left, right expr.Expr, op string, d *dialect.Dialect, c *argCounter) (string, []any, error) {
	leftSQL, leftArgs, err := lowerExpr(left, d, c)
	if err != nil {
		return "", nil, err
	}

	rightSQL, rightArgs, err := lowerExpr(right, d, c)
	if err != nil {
		return "", nil, err
	}

	return fmt.Sprintf("(%s %s %s)", leftSQL, op, rightSQL), append(leftArgs, rightArgs...), nil
}

func lowerComparison(node expr.Comparison, d *dialect.Dialect, c *argCounter) (string, []any, error) {
	if node.Op == expr.OpIn || node.Op == expr.OpNotIn {
		placeholders := make([]string, len(node.Values))
		args := make([]any, 0, len(node.Values))
		for i, v := range node.Values {
			encoded, err := encodeValue(&node.Field, v, d)
			if err != nil {
				return "", nil, err
			}
			placeholders[i] = c.next(d)
			args = append(args, encoded)
		}
		return fmt.Sprintf("%s %s (%s)", node.Field.Name, node.Op, strings.Join(placeholders, ",")), args, nil
	}

	encoded, err := encodeValue(&node.Field, node.Value, d)
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("%s %s %s", node.Field.Name, node.Op, c.next(d)), []any{encoded}, nil
}

func lowerContains(node expr.Contains, d *dialect.Dialect, c *argCounter) (string, []any, error) {
	if node.Field.Type == schema.FieldTypeJSON {
		if d.JSONContains == "" {
			return "", nil, errors.Wrapf(ErrCompilation, "%s does not support containment on json field %s", d.Name, node.Field.Name)
		}
		encoded, err := encodeValue(&node.Field, node.Value, d)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf(d.JSONContains, node.Field.Name, c.next(d)), []any{encoded}, nil
	}

	return fmt.Sprintf(d.TextContains, node.Field.Name, c.next(d)), []any{fmt.Sprintf("%%%v%%", node.Value)}, nil
}
