package helper

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Progress 终端进度条，可在多个 goroutine 中并发调用 Increment
type Progress struct {
	out       io.Writer
	title     string
	width     int
	startTime time.Time

	mu       sync.Mutex
	total    int
	current  int
	finished bool
}

// ProgressOption 进度条选项
type ProgressOption func(*Progress)

// WithWidth 设置进度条宽度
func WithWidth(width int) ProgressOption {
	return func(p *Progress) {
		p.width = width
	}
}

func NewProgress(out io.Writer, title string, total int, opts ...ProgressOption) *Progress {
	p := &Progress{
		out:       out,
		title:     title,
		width:     30,
		total:     total,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetTotal 总数在开始时未知的情况下补充设置
func (p *Progress) SetTotal(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
}

func (p *Progress) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current++
	p.render()
}

// Finish 完成进度条并换行，可重复调用
func (p *Progress) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.finished {
		return
	}
	p.finished = true
	if p.total > 0 {
		p.render()
		fmt.Fprintln(p.out)
	}
}

// render 调用方需持有锁
func (p *Progress) render() {
	if p.total == 0 {
		return
	}
	current := p.current
	if current > p.total {
		current = p.total
	}
	filled := current * p.width / p.total
	bar := strings.Repeat("█", filled) + strings.Repeat("░", p.width-filled)

	fmt.Fprintf(p.out, "\r%s [%s] %.1f%% (%d/%d) %s", p.title, bar,
		float64(current)*100/float64(p.total), current, p.total,
		formatDuration(time.Since(p.startTime)))
}

// formatDuration 格式化时间显示
func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.0fs", d.Seconds())
	} else if d < time.Hour {
		minutes := int(d.Minutes())
		seconds := int(d.Seconds()) - minutes*60
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	}
	hours := int(d.Hours())
	minutes := int(d.Minutes()) - hours*60
	return fmt.Sprintf("%dh%dm", hours, minutes)
}
