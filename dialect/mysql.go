package dialect

import (
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// MySQL 客户端-服务器数据库方言
// 索引创建不支持 IF NOT EXISTS，标识写回走 LastInsertId
var MySQL = &Dialect{
	Name: "mysql",

	NumberedPlaceholders: false,

	Types: map[schema.FieldType]string{
		schema.FieldTypeString: "VARCHAR(255)",
		schema.FieldTypeInt:    "INT",
		schema.FieldTypeFloat:  "DOUBLE",
		schema.FieldTypeBool:   "BOOLEAN",
		schema.FieldTypeTime:   "DATETIME",
		schema.FieldTypeJSON:   "JSON",
	},

	AutoIncrementPK:  "INT AUTO_INCREMENT PRIMARY KEY",
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TrueLiteral:      "1",
	FalseLiteral:     "0",

	SupportsReturning: false,

	InsertIgnorePrefix: "INSERT IGNORE INTO",
	UpsertSuffix:       "ON DUPLICATE KEY UPDATE %s",
	UpsertAssign:       "%s = VALUES(%s)",

	IndexIfNotExists: false,

	TextContains: "%s LIKE %s",

	SupportsSelectForUpdate: true,
}
