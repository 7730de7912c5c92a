package project

// FilePaths 深度优先收集森林中所有文件节点的 path，按根节点顺序展开，不去重
func (f *Forest) FilePaths() []string {
	if f == nil {
		return nil
	}
	var paths []string
	for _, root := range f.Roots {
		paths = appendFilePaths(paths, root)
	}
	return paths
}

// FilePaths 深度优先收集节点子树中所有文件的 path
func (n *Node) FilePaths() []string {
	return appendFilePaths(nil, n)
}

// appendFilePaths 将 n 子树中的文件路径追加到 dst，调用方必须使用返回值
func appendFilePaths(dst []string, n *Node) []string {
	if n == nil {
		return dst
	}
	if n.kind == KindFile {
		return append(dst, n.Path)
	}
	for _, child := range n.children {
		dst = appendFilePaths(dst, child)
	}
	return dst
}
