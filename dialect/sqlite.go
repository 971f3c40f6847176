package dialect

import (
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// SQLite 嵌入式文件数据库方言
// 标识写回走驱动的 LastInsertId，不需要 RETURNING
var SQLite = &Dialect{
	Name: "sqlite",

	NumberedPlaceholders: false,

	Types: map[schema.FieldType]string{
		schema.FieldTypeString: "TEXT",
		schema.FieldTypeInt:    "INTEGER",
		schema.FieldTypeFloat:  "REAL",
		schema.FieldTypeBool:   "INTEGER",
		schema.FieldTypeTime:   "TIMESTAMP",
		schema.FieldTypeJSON:   "TEXT",
	},

	AutoIncrementPK:  "INTEGER PRIMARY KEY AUTOINCREMENT",
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TrueLiteral:      "1",
	FalseLiteral:     "0",

	SupportsReturning: false,

	InsertIgnorePrefix: "INSERT OR IGNORE INTO",
	UpsertPrefix:       "INSERT OR REPLACE INTO",

	IndexIfNotExists: true,

	TextContains: "%s LIKE %s",

	SupportsSelectForUpdate: false,
}
