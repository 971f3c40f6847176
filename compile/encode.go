package compile

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/ArnabChatterjee20k/LaserORM/dialect"
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// encodeValue 绑定前的值序列化
// JSON 字段序列化为文本；其余类型交给驱动处理
func encodeValue(fd *schema.FieldDescriptor, value any, d *dialect.Dialect) (any, error) {
	if value == nil {
		return nil, nil
	}

	if fd.Type == schema.FieldTypeJSON {
		data, err := json.Marshal(value)
		if err != nil {
			return nil, errors.Wrapf(ErrCompilation, "cannot serialize json field %s: %v", fd.Name, err)
		}
		return string(data), nil
	}

	return value, nil
}

// DecodeJSON 读取侧的结构化字段反序列化，和 encodeValue 构成往返约定
func DecodeJSON(raw any, dest any) error {
	switch v := raw.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	}
	return errors.Wrapf(ErrCompilation, "cannot deserialize json from %T", raw)
}
