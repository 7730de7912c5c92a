package project

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWalk(t *testing.T) {
	root := enhanceSample().Root()

	var visited []string
	var depths []int
	err := Walk(root, VisitorFunc(func(n *Node, depth int) error {
		visited = append(visited, n.Name)
		depths = append(depths, depth)
		return nil
	}))
	assert.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "b", "c"}, visited)
	assert.Equal(t, []int{0, 1, 2, 1}, depths)
}

func TestWalkSkipChildren(t *testing.T) {
	root := enhanceSample().Root()

	var visited []string
	err := Walk(root, VisitorFunc(func(n *Node, depth int) error {
		visited = append(visited, n.Name)
		if n.Name == "a" {
			return SkipChildren
		}
		return nil
	}))
	assert.NoError(t, err)
	assert.Equal(t, []string{"root", "a", "c"}, visited)
}

func TestWalkStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	count := 0
	err := Walk(enhanceSample().Root(), VisitorFunc(func(n *Node, depth int) error {
		count++
		if n.Name == "b" {
			return boom
		}
		return nil
	}))
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 3, count)
}

func TestFilteredVisitor(t *testing.T) {
	f := NewForest(true,
		NewDirectory("src", NewFile(filepath.Join("src", "a.go")), NewFile(filepath.Join("src", "a.md"))),
		NewDirectory("vendor", NewFile(filepath.Join("vendor", "v.go"))),
	)

	var files []string
	visitor := &FilteredVisitor{
		Visitor: VisitorFunc(func(n *Node, depth int) error {
			if !n.IsDir() {
				files = append(files, n.Path)
			}
			return nil
		}),
		FileFilter: func(n *Node) bool { return strings.HasSuffix(n.Name, ".go") },
		DirFilter:  func(n *Node) bool { return n.Name != "vendor" },
	}
	assert.NoError(t, WalkForest(f, visitor))
	assert.Equal(t, []string{filepath.Join("src", "a.go")}, files)
}
