package project

// Kind 节点类型标签
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Valid 判断是否为已知的节点类型
func (k Kind) Valid() bool {
	return k == KindFile || k == KindDirectory
}

// Node 表示扫描得到的一个文件系统条目
//
// kind 与 children 不导出：节点类型在构造后不可更改，
// 文件节点永远没有 children，目录节点只能通过 AddChild 追加子节点。
type Node struct {
	Path  string
	Name  string
	Attrs Attributes

	kind     Kind
	children []*Node
}

// Forest 一次扫描的结果：单个根节点，或按配置顺序排列的多个根节点
//
// Multi 为 true 时清单序列化为数组，否则序列化为单个对象。
type Forest struct {
	Roots []*Node
	Multi bool
}

// EnhanceFunc 调用方提供的节点增强函数，可就地修改节点属性
type EnhanceFunc func(node *Node, opts Options)

// VisitorFunc 定义了访问节点的函数类型
type VisitorFunc func(node *Node, depth int) error

// VisitFile 实现 NodeVisitor 接口
func (f VisitorFunc) VisitFile(node *Node, depth int) error {
	return f(node, depth)
}

// VisitDirectory 实现 NodeVisitor 接口
func (f VisitorFunc) VisitDirectory(node *Node, depth int) error {
	return f(node, depth)
}
