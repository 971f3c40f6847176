package expr

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

type ExprUser struct {
	ID       int       `orm:"id"`
	UID      string    `orm:"uid,unique,index"`
	Score    int       `orm:"score"`
	Rating   float64   `orm:"rating"`
	Active   bool      `orm:"active"`
	CreateAt time.Time `orm:"create_at"`
	Tags     []string  `orm:"tags"`
}

func (ExprUser) TableName() string {
	return "users"
}

func exprModel(t *testing.T) *schema.Model {
	m, err := schema.Build(ExprUser{})
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func TestComparison(t *testing.T) {
	m := exprModel(t)

	Convey("测试比较表达式构建", t, func() {
		Convey("合法的标量比较", func() {
			e, err := Eq(m, "uid", "u1")
			So(err, ShouldBeNil)

			cmp := e.(Comparison)
			So(cmp.Field.Name, ShouldEqual, "uid")
			So(cmp.Op, ShouldEqual, OpEq)
			So(cmp.Value, ShouldEqual, "u1")
		})

		Convey("每种运算符", func() {
			for _, build := range []func(*schema.Model, string, any) (Expr, error){Eq, Ne, Lt, Le, Gt, Ge} {
				e, err := build(m, "score", 10)
				So(err, ShouldBeNil)
				So(e, ShouldNotBeNil)
			}
		})

		Convey("整数可以比较浮点字段", func() {
			for _, v := range []any{4, int8(4), int16(4), int32(4), int64(4), uint(4), uint8(4), uint16(4), uint32(4), uint64(4)} {
				_, err := Ge(m, "rating", v)
				So(err, ShouldBeNil)
			}
		})

		Convey("时间字段只接受 time.Time", func() {
			_, err := Gt(m, "create_at", time.Now())
			So(err, ShouldBeNil)

			_, err = Gt(m, "create_at", "2024-01-01")
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})

		Convey("未知字段报错", func() {
			_, err := Eq(m, "missing", "x")
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "missing")
		})

		Convey("类型不匹配报错", func() {
			_, err := Eq(m, "uid", 42)
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "uid")
			So(err.Error(), ShouldContainSubstring, "string")
		})

		Convey("nil 值报错", func() {
			_, err := Eq(m, "uid", nil)
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})
	})
}

func TestMembership(t *testing.T) {
	m := exprModel(t)

	Convey("测试集合表达式构建", t, func() {
		Convey("合法的 In 表达式保留元素顺序", func() {
			e, err := In(m, "uid", "a", "b", "c")
			So(err, ShouldBeNil)

			cmp := e.(Comparison)
			So(cmp.Op, ShouldEqual, OpIn)
			So(cmp.Values, ShouldResemble, []any{"a", "b", "c"})
		})

		Convey("空集合报错，不会进入编译", func() {
			_, err := In(m, "uid")
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)

			_, err = NotIn(m, "uid")
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})

		Convey("集合元素逐个校验类型", func() {
			_, err := In(m, "uid", "a", 42)
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})
	})
}

func TestValueFunc(t *testing.T) {
	m := exprModel(t)

	Convey("测试延迟值解析", t, func() {
		Convey("生成器在构建时调用一次", func() {
			calls := 0
			producer := ValueFunc(func() any {
				calls++
				return "u1"
			})

			e, err := Eq(m, "uid", producer)
			So(err, ShouldBeNil)
			So(calls, ShouldEqual, 1)

			// 表达式复用不会再次调用生成器
			cmp := e.(Comparison)
			So(cmp.Value, ShouldEqual, "u1")
			So(calls, ShouldEqual, 1)
		})

		Convey("普通函数值不会被隐式调用", func() {
			_, err := Eq(m, "uid", func() any { return "u1" })
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})
	})
}

func TestContainsValue(t *testing.T) {
	m := exprModel(t)

	Convey("测试包含表达式构建", t, func() {
		Convey("JSON 字段接受结构化值", func() {
			e, err := ContainsValue(m, "tags", []string{"go"})
			So(err, ShouldBeNil)
			So(e.(Contains).Field.Name, ShouldEqual, "tags")
		})

		Convey("文本字段只接受字符串", func() {
			_, err := ContainsValue(m, "uid", "u")
			So(err, ShouldBeNil)

			_, err = ContainsValue(m, "uid", 42)
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})

		Convey("数值字段不支持包含过滤", func() {
			_, err := ContainsValue(m, "score", 1)
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})
	})
}
