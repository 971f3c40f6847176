package compile

import (
	"github.com/ArnabChatterjee20k/LaserORM/dialect"
)

// Statement 编译产物：参数化 SQL 文本加有序参数列表
// 每次编译都产生新的语句，参数位置依赖表达式形状，不跨表达式缓存
type Statement struct {
	SQL  string
	Args []any

	// 需要扫描回生成标识时的列名，适配器据此选择执行方式
	Returning string

	// 插入语句标记，适配器只在插入时读取驱动生成的标识
	Insert bool
}

// argCounter 占位符计数器，编号贯穿整条语句（SET 在前 WHERE 在后）
type argCounter struct {
	n int
}

func (c *argCounter) next(d *dialect.Dialect) string {
	c.n++
	return d.Placeholder(c.n)
}
