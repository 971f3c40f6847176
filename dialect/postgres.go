package dialect

import (
	"github.com/ArnabChatterjee20k/LaserORM/schema"
)

// Postgres 客户端-服务器数据库方言
// $n 占位符，RETURNING 写回生成标识，JSONB 列支持 GIN 索引和包含过滤
var Postgres = &Dialect{
	Name: "postgres",

	NumberedPlaceholders: true,

	Types: map[schema.FieldType]string{
		schema.FieldTypeString: "TEXT",
		schema.FieldTypeInt:    "INTEGER",
		schema.FieldTypeFloat:  "REAL",
		schema.FieldTypeBool:   "BOOLEAN",
		schema.FieldTypeTime:   "TIMESTAMP",
		schema.FieldTypeJSON:   "JSONB",
	},

	AutoIncrementPK:  "SERIAL PRIMARY KEY",
	CurrentTimestamp: "CURRENT_TIMESTAMP",
	TrueLiteral:      "TRUE",
	FalseLiteral:     "FALSE",

	SupportsReturning: true,

	InsertIgnoreSuffix: "ON CONFLICT DO NOTHING",
	UpsertSuffix:       "ON CONFLICT (%s) DO UPDATE SET %s",
	UpsertAssign:       "%s = EXCLUDED.%s",
	UpsertWithTarget:   true,

	IndexIfNotExists: true,
	JSONIndexUsing:   "GIN",

	JSONContains: "%s @> %s::jsonb",
	TextContains: "%s LIKE %s",

	SupportsSelectForUpdate: true,
}
