package orm

import (
	"reflect"
	"time"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/compile"
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// extractValues 按模型字段顺序从结构体提取待绑定的值
// 自增标识的零值省略；可空字段的 nil 指针绑定为 NULL
func extractValues[T any](m *schema.Model, record *T) (map[string]any, error) {
	rv := reflect.ValueOf(record).Elem()
	if rv.Kind() != reflect.Struct {
		return nil, errors.Errorf("expected struct, got %T", record)
	}

	values := make(map[string]any)
	for i := range m.Fields {
		fd := &m.Fields[i]
		if fd.StructField == "" {
			continue
		}

		fv := rv.FieldByName(fd.StructField)
		if !fv.IsValid() {
			continue
		}

		if fd.AutoIncrement && fv.IsZero() {
			continue
		}

		// 零值且有默认值的字段省略，让列默认值生效
		if (fd.HasDefault || fd.DefaultTimestamp) && fv.IsZero() {
			continue
		}

		if fv.Kind() == reflect.Ptr {
			if fv.IsNil() {
				if fd.Nullable {
					values[fd.Name] = nil
				}
				continue
			}
			values[fd.Name] = fv.Elem().Interface()
			continue
		}

		if fd.Type == schema.FieldTypeJSON && fv.IsZero() {
			continue
		}

		values[fd.Name] = fv.Interface()
	}

	return values, nil
}

// assignIdentity 把后端生成的标识写回结构体
func assignIdentity[T any](m *schema.Model, record *T, id int64) error {
	pk := m.PrimaryKey()
	if pk == nil || pk.StructField == "" {
		return nil
	}

	fv := reflect.ValueOf(record).Elem().FieldByName(pk.StructField)
	if !fv.IsValid() || !fv.CanSet() {
		return nil
	}

	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fv.SetInt(id)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fv.SetUint(uint64(id))
	default:
		return errors.Errorf("cannot assign identity to field %s of kind %s", pk.StructField, fv.Kind())
	}
	return nil
}

// decodeRecord 把一行原始结果解码回结构体
// JSON 字段反序列化，布尔从整数还原，时间从驱动返回的字符串解析
func decodeRecord[T any](m *schema.Model, record interface{ Fields() map[string]any }, dest *T) error {
	rv := reflect.ValueOf(dest).Elem()
	data := record.Fields()

	for i := range m.Fields {
		fd := &m.Fields[i]
		if fd.StructField == "" {
			continue
		}

		raw, ok := data[fd.Name]
		if !ok || raw == nil {
			continue
		}

		fv := rv.FieldByName(fd.StructField)
		if !fv.IsValid() || !fv.CanSet() {
			continue
		}

		if fv.Kind() == reflect.Ptr {
			elem := reflect.New(fv.Type().Elem())
			if err := setFieldValue(fd, elem.Elem(), raw); err != nil {
				return err
			}
			fv.Set(elem)
			continue
		}

		if err := setFieldValue(fd, fv, raw); err != nil {
			return err
		}
	}

	return nil
}

func setFieldValue(fd *schema.FieldDescriptor, fv reflect.Value, raw any) error {
	if fd.Type == schema.FieldTypeJSON {
		if err := compile.DecodeJSON(raw, fv.Addr().Interface()); err != nil {
			return errors.Wrapf(err, "failed to decode field %s", fd.Name)
		}
		return nil
	}

	// 后端的布尔列可能按整数返回
	if fv.Kind() == reflect.Bool {
		switch v := raw.(type) {
		case bool:
			fv.SetBool(v)
			return nil
		case int64:
			fv.SetBool(v != 0)
			return nil
		case int:
			fv.SetBool(v != 0)
			return nil
		}
	}

	if fv.Type() == reflect.TypeOf(time.Time{}) {
		switch v := raw.(type) {
		case time.Time:
			fv.Set(reflect.ValueOf(v))
			return nil
		case string:
			return setTimeValue(fd, fv, v)
		case []byte:
			return setTimeValue(fd, fv, string(v))
		}
	}

	// 文本列在部分驱动下按字节返回
	if fv.Kind() == reflect.String {
		if b, ok := raw.([]byte); ok {
			fv.SetString(string(b))
			return nil
		}
	}

	rawValue := reflect.ValueOf(raw)
	if rawValue.Type().AssignableTo(fv.Type()) {
		fv.Set(rawValue)
		return nil
	}
	if rawValue.Type().ConvertibleTo(fv.Type()) {
		fv.Set(rawValue.Convert(fv.Type()))
		return nil
	}

	return errors.Errorf("cannot convert %T to %s for field %s", raw, fv.Type(), fd.Name)
}

func setTimeValue(fd *schema.FieldDescriptor, fv reflect.Value, raw string) error {
	formats := []string{
		"2006-01-02 15:04:05.999999-07:00",
		"2006-01-02 15:04:05.999999",
		"2006-01-02 15:04:05",
		time.RFC3339Nano,
		time.RFC3339,
	}

	var lastErr error
	for _, format := range formats {
		parsed, err := time.Parse(format, raw)
		if err == nil {
			fv.Set(reflect.ValueOf(parsed))
			return nil
		}
		lastErr = err
	}

	return errors.Wrapf(lastErr, "cannot parse time %q for field %s", raw, fd.Name)
}
