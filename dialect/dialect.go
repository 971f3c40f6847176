package dialect

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

var (
	ErrUnsupportedType = errors.New("unsupported field type")
	ErrUnknownDialect  = errors.New("unknown dialect")
)

// Dialect 后端方言描述符，只包含数据，编译器不按后端名字分支
type Dialect struct {
	Name string

	// 占位符风格：false 为 ?，true 为 $1 $2 ...
	NumberedPlaceholders bool

	// 语义类型到列类型的映射
	Types map[schema.FieldType]string

	// 自增主键的完整列定义子句（含 PRIMARY KEY）
	AutoIncrementPK string

	CurrentTimestamp string
	TrueLiteral      string
	FalseLiteral     string

	// 写回生成标识的方式：支持 RETURNING 时由编译器追加子句，
	// 否则适配器使用驱动的 LastInsertId
	SupportsReturning bool

	// 冲突忽略插入：前缀替换 INSERT INTO，或在语句尾追加后缀
	InsertIgnorePrefix string
	InsertIgnoreSuffix string

	// 冲突更新插入：前缀替换 INSERT INTO，或按模板生成尾部子句
	// UpsertSuffix 模板在 UpsertWithTarget 为 true 时先填冲突列再填赋值列表
	UpsertPrefix     string
	UpsertSuffix     string
	UpsertAssign     string
	UpsertWithTarget bool

	// CREATE INDEX 是否支持 IF NOT EXISTS
	IndexIfNotExists bool
	// JSON 字段索引的 USING 子句（如 GIN），为空表示普通索引
	JSONIndexUsing string

	// 包含过滤的降低模板，字段名在前占位符在后；JSONContains 为空表示不支持
	JSONContains string
	TextContains string

	SupportsSelectForUpdate bool
}

// Placeholder 渲染第 i 个参数占位符，i 从 1 开始
func (d *Dialect) Placeholder(i int) string {
	if d.NumberedPlaceholders {
		return fmt.Sprintf("$%d", i)
	}
	return "?"
}

// ColumnType 语义类型映射到列类型，映射对枚举全集封闭
func (d *Dialect) ColumnType(t schema.FieldType) (string, error) {
	columnType, ok := d.Types[t]
	if !ok {
		return "", errors.Wrapf(ErrUnsupportedType, "%s has no column type for %s", d.Name, t)
	}
	return columnType, nil
}

// BoolLiteral 布尔默认值的字面量
func (d *Dialect) BoolLiteral(v bool) string {
	if v {
		return d.TrueLiteral
	}
	return d.FalseLiteral
}

// ForDriver 按 database/sql 驱动名查找方言
func ForDriver(driver string) (*Dialect, error) {
	switch driver {
	case "sqlite3":
		return SQLite, nil
	case "postgres":
		return Postgres, nil
	case "mysql":
		return MySQL, nil
	}
	return nil, errors.Wrapf(ErrUnknownDialect, "no dialect for driver %s", driver)
}
