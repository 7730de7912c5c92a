package coroutine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxWorkers 默认并发数
func DefaultMaxWorkers() int {
	return runtime.NumCPU()
}

// Each 并行执行forEach操作，对输入切片中的每个元素应用函数
//
// 每个元素的错误互相隔离，按下标返回；函数在所有工作完成后才返回。
// ctx 取消后尚未开始的元素不再执行，其错误为 ctx.Err()。
func Each[T any](ctx context.Context, maxWorkers int, items []T, eachFunc func(context.Context, T) error) []error {
	errs := make([]error, len(items))
	if len(items) == 0 {
		return errs
	}

	if maxWorkers <= 0 {
		maxWorkers = DefaultMaxWorkers()
	}

	var g errgroup.Group
	g.SetLimit(maxWorkers)

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			// 剩余元素全部标记为取消
			for j := i; j < len(items); j++ {
				errs[j] = err
			}
			break
		}
		g.Go(func() error {
			// 每个 goroutine 只写自己的下标，无需加锁
			errs[i] = eachFunc(ctx, item)
			return nil
		})
	}

	g.Wait()
	return errs
}

// Map 并行执行map操作，将输入切片中的每个元素应用函数并返回结果
func Map[T, R any](ctx context.Context, maxWorkers int, items []T, mapFunc func(context.Context, T) (R, error)) ([]R, []error) {
	results := make([]R, len(items))
	errs := Each(ctx, maxWorkers, indexes(len(items)), func(ctx context.Context, i int) error {
		r, err := mapFunc(ctx, items[i])
		results[i] = r
		return err
	})
	return results, errs
}

func indexes(n int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	return idx
}
