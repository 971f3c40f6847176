package expr

// ValueFunc 延迟取值的生成器
// 只有显式声明为 ValueFunc 的值才会被调用，普通函数值不会被隐式执行
type ValueFunc func() any

// Resolve 在表达式构建时解析延迟值，只调用一次
// 生成器即使是非确定的，同一个表达式实例也总是编译出相同的字面量
func Resolve(value any) any {
	if f, ok := value.(ValueFunc); ok {
		return f()
	}
	return value
}
