package project

// NewForest 创建森林
func NewForest(multi bool, roots ...*Node) *Forest {
	if len(roots) > 1 {
		multi = true
	}
	return &Forest{Roots: roots, Multi: multi}
}

// Root 返回第一个根节点
func (f *Forest) Root() *Node {
	if f == nil || len(f.Roots) == 0 {
		return nil
	}
	return f.Roots[0]
}

// CountNodes 所有根节点下的节点总数
func (f *Forest) CountNodes() int {
	if f == nil {
		return 0
	}
	count := 0
	for _, root := range f.Roots {
		count += root.CountNodes()
	}
	return count
}

// Validate 检查所有根节点的不变式
func (f *Forest) Validate() error {
	if f == nil {
		return nil
	}
	for _, root := range f.Roots {
		if err := root.Validate(); err != nil {
			return err
		}
	}
	return nil
}
