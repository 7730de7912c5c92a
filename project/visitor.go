package project

import "errors"

// SkipChildren 由访问器返回，跳过当前目录的子节点
var SkipChildren = errors.New("skip children")

// NodeVisitor 定义了节点访问器的接口
type NodeVisitor interface {
	// VisitDirectory 访问目录节点
	VisitDirectory(node *Node, depth int) error
	// VisitFile 访问文件节点
	VisitFile(node *Node, depth int) error
}

// FilteredVisitor 在访问前按条件过滤节点
type FilteredVisitor struct {
	Visitor    NodeVisitor           // 实际的访问器
	FileFilter func(node *Node) bool // 文件过滤函数
	DirFilter  func(node *Node) bool // 目录过滤函数
}

// VisitDirectory 实现 NodeVisitor 接口
func (fv *FilteredVisitor) VisitDirectory(node *Node, depth int) error {
	if fv.DirFilter != nil && !fv.DirFilter(node) {
		return SkipChildren
	}
	return fv.Visitor.VisitDirectory(node, depth)
}

// VisitFile 实现 NodeVisitor 接口
func (fv *FilteredVisitor) VisitFile(node *Node, depth int) error {
	if fv.FileFilter != nil && !fv.FileFilter(node) {
		return nil // 跳过此文件
	}
	return fv.Visitor.VisitFile(node, depth)
}

// Walk 前序遍历节点子树
func Walk(node *Node, visitor NodeVisitor) error {
	return walk(node, visitor, 0)
}

// WalkForest 依次前序遍历每个根节点
func WalkForest(f *Forest, visitor NodeVisitor) error {
	if f == nil {
		return nil
	}
	for _, root := range f.Roots {
		if err := Walk(root, visitor); err != nil {
			return err
		}
	}
	return nil
}

func walk(node *Node, visitor NodeVisitor, depth int) error {
	if node == nil {
		return nil
	}
	if !node.IsDir() {
		return visitor.VisitFile(node, depth)
	}
	if err := visitor.VisitDirectory(node, depth); err != nil {
		if errors.Is(err, SkipChildren) {
			return nil
		}
		return err
	}
	for _, child := range node.children {
		if err := walk(child, visitor, depth+1); err != nil {
			return err
		}
	}
	return nil
}
