package schema

import (
	"github.com/pkg/errors"
)

var (
	ErrInvalidModel = errors.New("invalid model")
)

// FieldType 字段语义类型，独立于任何后端的列类型
type FieldType string

const (
	FieldTypeString FieldType = "string"
	FieldTypeInt    FieldType = "int"
	FieldTypeFloat  FieldType = "float"
	FieldTypeBool   FieldType = "bool"
	FieldTypeTime   FieldType = "time"
	FieldTypeJSON   FieldType = "json"
)

// FieldDescriptor 字段描述符
type FieldDescriptor struct {
	Name          string
	Type          FieldType
	Nullable      bool
	PrimaryKey    bool
	AutoIncrement bool
	Unique        bool
	Indexed       bool

	// 默认值，在构建描述符时解析一次
	Default    any
	HasDefault bool
	// 时间类型的默认值生成器映射为方言的 CURRENT_TIMESTAMP
	DefaultTimestamp bool

	// 对应的 Go 结构体字段名，合成的标识字段为空
	StructField string
}

// Model 模型描述符，字段顺序决定 DDL 列顺序和参数绑定顺序
type Model struct {
	Table  string
	Fields []FieldDescriptor
}

// PrimaryKey 返回主键字段描述符
func (m *Model) PrimaryKey() *FieldDescriptor {
	for i := range m.Fields {
		if m.Fields[i].PrimaryKey {
			return &m.Fields[i]
		}
	}
	return nil
}

// Field 按列名查找字段描述符
func (m *Model) Field(name string) (*FieldDescriptor, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// TableNamer 自定义表名接口
type TableNamer interface {
	TableName() string
}

// DefaultProvider 字段默认值接口
// 值可以是普通值，也可以是 func() any 形式的生成器，生成器在构建描述符时只调用一次
type DefaultProvider interface {
	FieldDefaults() map[string]any
}
