package enum

// SolveState 列生成循环的状态
type SolveState int

const (
	// Bootstrapping 预热阶段：为每个约束找到至少一个满足它的模式
	Bootstrapping SolveState = iota
	// Optimizing 优化阶段：主问题对偶价驱动定价子问题
	Optimizing
	// Done 收敛
	Done
	// TimedOut 超时，当前主问题解作为尽力而为的结果
	TimedOut
)

func (s SolveState) String() string {
	switch s {
	case Bootstrapping:
		return "BOOTSTRAPPING"
	case Optimizing:
		return "OPTIMIZING"
	case Done:
		return "DONE"
	case TimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// Terminal 是否终止状态
func (s SolveState) Terminal() bool {
	return s == Done || s == TimedOut
}
