package project

// Enhance 以前序深度优先的顺序对森林中每个节点调用 fn
//
// 每次调用都会重新构造 scan.Merge(top)，top 中的键优先。
// 节点先于其子节点被增强；子节点列表在 fn 返回后读取。
// 原地修改并返回同一个森林，fn 为 nil 时直接返回。
func Enhance(f *Forest, fn EnhanceFunc, top, scan Options) *Forest {
	if f == nil || fn == nil {
		return f
	}
	for _, root := range f.Roots {
		enhanceNode(root, fn, top, scan)
	}
	return f
}

func enhanceNode(n *Node, fn EnhanceFunc, top, scan Options) {
	fn(n, scan.Merge(top))
	for _, child := range n.Children() {
		enhanceNode(child, fn, top, scan)
	}
}
