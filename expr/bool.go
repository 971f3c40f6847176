package expr

import (
	"github.com/pkg/errors"
)

// And 内部节点：左右子树同时成立
type And struct {
	Left  Expr
	Right Expr
}

func (And) isExpr() {}

// Or 内部节点：左右子树任一成立
type Or struct {
	Left  Expr
	Right Expr
}

func (Or) isExpr() {}

// AndExpr 组合两棵子树，不修改操作数
func AndExpr(left, right Expr) Expr {
	return And{Left: left, Right: right}
}

// OrExpr 组合两棵子树，不修改操作数
func OrExpr(left, right Expr) Expr {
	return Or{Left: left, Right: right}
}

// Not 对比较节点取反，运算符成对翻转（Eq↔Ne、Lt↔Ge、Gt↔Le、In↔NotIn）
// 布尔组合节点和包含节点不支持取反
func Not(e Expr) (Expr, error) {
	cmp, ok := e.(Comparison)
	if !ok {
		return nil, errors.Wrapf(ErrExpressionType, "cannot negate %T", e)
	}

	inverse := map[Operator]Operator{
		OpEq:    OpNe,
		OpNe:    OpEq,
		OpLt:    OpGe,
		OpGe:    OpLt,
		OpGt:    OpLe,
		OpLe:    OpGt,
		OpIn:    OpNotIn,
		OpNotIn: OpIn,
	}

	cmp.Op = inverse[cmp.Op]
	return cmp, nil
}
