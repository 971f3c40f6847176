package schema

import (
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
)

var cache sync.Map // reflect.Type -> *cacheEntry

type cacheEntry struct {
	once  sync.Once
	model *Model
	err   error
}

// Build 从结构体构建模型描述符
// 支持的 tag 格式：
// - `orm:"column_name,primary,auto_increment,unique,index,required,type=string,default=..."`
// 同一模型类型只构建一次，结果进程内缓存，并发构建收敛到同一份结果
func Build(v any) (*Model, error) {
	rt := reflect.TypeOf(v)
	if rt == nil {
		return nil, errors.Wrap(ErrInvalidModel, "expected struct, got nil")
	}
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, errors.Wrapf(ErrInvalidModel, "expected struct, got %s", rt.Kind())
	}

	e, _ := cache.LoadOrStore(rt, &cacheEntry{})
	entry := e.(*cacheEntry)
	entry.once.Do(func() {
		entry.model, entry.err = buildModel(rt)
	})
	return entry.model, entry.err
}

func buildModel(rt reflect.Type) (*Model, error) {
	model := &Model{
		Table: tableName(rt),
	}

	seen := make(map[string]bool)
	primaryCount := 0

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if !sf.IsExported() {
			continue
		}

		tag := sf.Tag.Get("orm")
		if tag == "-" {
			continue
		}

		fd, err := parseField(sf, tag)
		if err != nil {
			return nil, err
		}

		if seen[fd.Name] {
			return nil, errors.Wrapf(ErrInvalidModel, "duplicate field %s in %s", fd.Name, rt.Name())
		}
		seen[fd.Name] = true

		if fd.PrimaryKey {
			primaryCount++
		}

		model.Fields = append(model.Fields, fd)
	}

	if primaryCount > 1 {
		return nil, errors.Wrapf(ErrInvalidModel, "multiple primary keys in %s", rt.Name())
	}

	if err := applyDefaults(rt, model); err != nil {
		return nil, err
	}

	// 没有显式主键时合成自增整型标识字段
	if primaryCount == 0 {
		if fd, ok := model.Field("id"); ok {
			fd.PrimaryKey = true
			if fd.Type == FieldTypeInt {
				fd.AutoIncrement = true
			}
		} else {
			identity := FieldDescriptor{
				Name:          "id",
				Type:          FieldTypeInt,
				PrimaryKey:    true,
				AutoIncrement: true,
			}
			model.Fields = append([]FieldDescriptor{identity}, model.Fields...)
		}
	}

	return model, nil
}

// tableName 优先使用 TableName 方法，否则使用结构体名的小写形式
func tableName(rt reflect.Type) string {
	if tn, ok := reflect.New(rt).Elem().Interface().(TableNamer); ok {
		return tn.TableName()
	}
	if tn, ok := reflect.New(rt).Interface().(TableNamer); ok {
		return tn.TableName()
	}
	return strings.ToLower(rt.Name())
}

// applyDefaults 解析 FieldDefaults 提供的默认值，生成器只调用一次
func applyDefaults(rt reflect.Type, model *Model) (err error) {
	provider, ok := reflect.New(rt).Interface().(DefaultProvider)
	if !ok {
		if p, okV := reflect.New(rt).Elem().Interface().(DefaultProvider); okV {
			provider = p
		} else {
			return nil
		}
	}

	defer func() {
		if r := recover(); r != nil {
			err = errors.Wrapf(ErrInvalidModel, "default producer panicked: %v", r)
		}
	}()

	for name, value := range provider.FieldDefaults() {
		fd, found := model.Field(name)
		if !found {
			return errors.Wrapf(ErrInvalidModel, "default for unknown field %s", name)
		}

		if producer, isFunc := value.(func() any); isFunc {
			if fd.Type == FieldTypeTime {
				fd.DefaultTimestamp = true
				continue
			}
			value = producer()
		}

		fd.Default = value
		fd.HasDefault = true
	}

	return nil
}

// parseField 解析单个字段的 orm tag
func parseField(sf reflect.StructField, tag string) (FieldDescriptor, error) {
	ft := sf.Type
	nullable := false
	if ft.Kind() == reflect.Ptr {
		nullable = true
		ft = ft.Elem()
	}

	fieldType := inferFieldType(ft)
	if fieldType == FieldTypeJSON {
		nullable = true
	}

	fd := FieldDescriptor{
		Name:        strings.ToLower(sf.Name),
		Type:        fieldType,
		Nullable:    nullable,
		StructField: sf.Name,
	}

	if tag == "" {
		return fd, nil
	}

	parts := strings.Split(tag, ",")

	// 第一部分是列名（如果指定）
	if parts[0] != "" && !strings.Contains(parts[0], "=") {
		fd.Name = parts[0]
		parts = parts[1:]
	}

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "=") {
			kv := strings.SplitN(part, "=", 2)
			key := strings.TrimSpace(kv[0])
			value := strings.TrimSpace(kv[1])

			switch key {
			case "type":
				t := FieldType(value)
				switch t {
				case FieldTypeString, FieldTypeInt, FieldTypeFloat, FieldTypeBool, FieldTypeTime, FieldTypeJSON:
					fd.Type = t
				default:
					return fd, errors.Wrapf(ErrInvalidModel, "unknown field type %q for %s", value, sf.Name)
				}
			case "default":
				if fd.Type == FieldTypeTime && value == "now" {
					fd.DefaultTimestamp = true
					continue
				}
				fd.Default = parseDefaultValue(value, fd.Type)
				fd.HasDefault = true
			default:
				return fd, errors.Wrapf(ErrInvalidModel, "unknown tag option %q for %s", key, sf.Name)
			}
		} else {
			switch part {
			case "primary", "pk":
				fd.PrimaryKey = true
			case "auto_increment", "auto":
				fd.AutoIncrement = true
			case "unique":
				fd.Unique = true
			case "index":
				fd.Indexed = true
			case "required", "not_null":
				fd.Nullable = false
			default:
				return fd, errors.Wrapf(ErrInvalidModel, "unknown tag option %q for %s", part, sf.Name)
			}
		}
	}

	return fd, nil
}

// inferFieldType 从 Go 类型推断字段语义类型
func inferFieldType(t reflect.Type) FieldType {
	switch t.Kind() {
	case reflect.String:
		return FieldTypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return FieldTypeInt
	case reflect.Float32, reflect.Float64:
		return FieldTypeFloat
	case reflect.Bool:
		return FieldTypeBool
	default:
		if t == reflect.TypeOf(time.Time{}) {
			return FieldTypeTime
		}
		// 其他复杂类型（map、slice、嵌套结构体）按 JSON 处理
		return FieldTypeJSON
	}
}

// parseDefaultValue 按字段类型解析默认值字面量
func parseDefaultValue(value string, fieldType FieldType) any {
	switch fieldType {
	case FieldTypeString:
		if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
			return value[1 : len(value)-1]
		}
		return value
	case FieldTypeInt:
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		return 0
	case FieldTypeFloat:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
		return 0.0
	case FieldTypeBool:
		return value == "true" || value == "1"
	default:
		return value
	}
}
