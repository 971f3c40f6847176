package expr

import (
	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

var (
	ErrExpressionType = errors.New("expression type mismatch")
)

// Operator 比较运算符
type Operator string

const (
	OpEq    Operator = "="
	OpNe    Operator = "!="
	OpLt    Operator = "<"
	OpLe    Operator = "<="
	OpGt    Operator = ">"
	OpGe    Operator = ">="
	OpIn    Operator = "IN"
	OpNotIn Operator = "NOT IN"
)

// Expr 过滤表达式树节点，节点都是不可变值，可以安全复用组合
type Expr interface {
	isExpr()
}

// Comparison 叶子节点：字段与值的比较
// 标量运算符使用 Value，集合运算符（IN/NOT IN）使用 Values
type Comparison struct {
	Field  schema.FieldDescriptor
	Op     Operator
	Value  any
	Values []any
}

func (Comparison) isExpr() {}

// Contains 叶子节点：结构化字段包含过滤
// JSON 字段降低为方言的包含子句，文本字段降低为 LIKE
type Contains struct {
	Field schema.FieldDescriptor
	Value any
}

func (Contains) isExpr() {}
