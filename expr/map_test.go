package expr

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"
)

func TestFromMap(t *testing.T) {
	m := exprModel(t)

	Convey("测试相等过滤映射", t, func() {
		Convey("单个键生成等值比较", func() {
			e, err := FromMap(m, map[string]any{"uid": "u1"})
			So(err, ShouldBeNil)

			cmp := e.(Comparison)
			So(cmp.Field.Name, ShouldEqual, "uid")
			So(cmp.Op, ShouldEqual, OpEq)
			So(cmp.Value, ShouldEqual, "u1")
		})

		Convey("多个键按模型字段顺序合取", func() {
			e, err := FromMap(m, map[string]any{"score": 10, "uid": "u1"})
			So(err, ShouldBeNil)

			// uid 先于 score 声明，所以左子树是 uid
			and := e.(And)
			So(and.Left.(Comparison).Field.Name, ShouldEqual, "uid")
			So(and.Right.(Comparison).Field.Name, ShouldEqual, "score")
		})

		Convey("三个键左结合", func() {
			e, err := FromMap(m, map[string]any{"uid": "u1", "score": 10, "active": true})
			So(err, ShouldBeNil)

			outer := e.(And)
			So(outer.Right.(Comparison).Field.Name, ShouldEqual, "active")

			inner := outer.Left.(And)
			So(inner.Left.(Comparison).Field.Name, ShouldEqual, "uid")
			So(inner.Right.(Comparison).Field.Name, ShouldEqual, "score")
		})

		Convey("空映射不生成条件", func() {
			e, err := FromMap(m, map[string]any{})
			So(err, ShouldBeNil)
			So(e, ShouldBeNil)
		})

		Convey("未知键报错", func() {
			_, err := FromMap(m, map[string]any{"missing": 1})
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "missing")
		})

		Convey("值类型不匹配报错", func() {
			_, err := FromMap(m, map[string]any{"uid": 42})
			So(errors.Is(err, ErrExpressionType), ShouldBeTrue)
		})
	})
}
