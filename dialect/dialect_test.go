package dialect

import (
	"testing"

	"github.com/pkg/errors"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

func TestPlaceholder(t *testing.T) {
	Convey("测试占位符渲染", t, func() {
		Convey("问号风格与序号无关", func() {
			So(SQLite.Placeholder(1), ShouldEqual, "?")
			So(SQLite.Placeholder(7), ShouldEqual, "?")
			So(MySQL.Placeholder(3), ShouldEqual, "?")
		})

		Convey("编号风格带序号", func() {
			So(Postgres.Placeholder(1), ShouldEqual, "$1")
			So(Postgres.Placeholder(12), ShouldEqual, "$12")
		})
	})
}

func TestColumnType(t *testing.T) {
	Convey("测试列类型映射", t, func() {
		Convey("每个方言对语义类型全集封闭", func() {
			types := []schema.FieldType{
				schema.FieldTypeString,
				schema.FieldTypeInt,
				schema.FieldTypeFloat,
				schema.FieldTypeBool,
				schema.FieldTypeTime,
				schema.FieldTypeJSON,
			}

			for _, d := range []*Dialect{SQLite, Postgres, MySQL} {
				for _, ft := range types {
					columnType, err := d.ColumnType(ft)
					So(err, ShouldBeNil)
					So(columnType, ShouldNotBeEmpty)
				}
			}
		})

		Convey("JSON 列类型因方言而异", func() {
			sqliteJSON, _ := SQLite.ColumnType(schema.FieldTypeJSON)
			So(sqliteJSON, ShouldEqual, "TEXT")

			postgresJSON, _ := Postgres.ColumnType(schema.FieldTypeJSON)
			So(postgresJSON, ShouldEqual, "JSONB")

			mysqlJSON, _ := MySQL.ColumnType(schema.FieldTypeJSON)
			So(mysqlJSON, ShouldEqual, "JSON")
		})

		Convey("缺失映射报错", func() {
			partial := &Dialect{
				Name: "partial",
				Types: map[schema.FieldType]string{
					schema.FieldTypeString: "TEXT",
				},
			}

			_, err := partial.ColumnType(schema.FieldTypeJSON)
			So(errors.Is(err, ErrUnsupportedType), ShouldBeTrue)
			So(err.Error(), ShouldContainSubstring, "partial")
		})
	})
}

func TestBoolLiteral(t *testing.T) {
	Convey("测试布尔字面量", t, func() {
		So(SQLite.BoolLiteral(true), ShouldEqual, "1")
		So(SQLite.BoolLiteral(false), ShouldEqual, "0")
		So(Postgres.BoolLiteral(true), ShouldEqual, "TRUE")
		So(Postgres.BoolLiteral(false), ShouldEqual, "FALSE")
	})
}

func TestForDriver(t *testing.T) {
	Convey("测试驱动名查找方言", t, func() {
		Convey("已知驱动", func() {
			d, err := ForDriver("sqlite3")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, SQLite)

			d, err = ForDriver("postgres")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, Postgres)

			d, err = ForDriver("mysql")
			So(err, ShouldBeNil)
			So(d, ShouldEqual, MySQL)
		})

		Convey("未知驱动报错", func() {
			_, err := ForDriver("oracle")
			So(errors.Is(err, ErrUnknownDialect), ShouldBeTrue)
		})
	})
}
