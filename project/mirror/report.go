package mirror

// Status 单个文件的镜像结果
type Status int

const (
	StatusFailed Status = iota
	StatusCopied
	StatusUnchanged
	StatusMissing
)

func (s Status) String() string {
	switch s {
	case StatusCopied:
		return "copied"
	case StatusUnchanged:
		return "unchanged"
	case StatusMissing:
		return "missing"
	default:
		return "failed"
	}
}

// Result 单个文件的处理结果
type Result struct {
	Src    string
	Dest   string
	Status Status
	Err    error
}

// Report 一批文件的处理结果，顺序与输入一致
type Report struct {
	Results []Result
}

// Errors 收集所有失败文件的错误
func (r *Report) Errors() []error {
	if r == nil {
		return nil
	}
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errs
}

// Count 统计某种状态的文件数
func (r *Report) Count(s Status) int {
	if r == nil {
		return 0
	}
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Len 处理的文件总数
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Results)
}
