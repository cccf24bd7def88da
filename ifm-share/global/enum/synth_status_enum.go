package enum

/*
synthStatus 合成任务状态：
SYNTH_EXEC 执行中
SYNTH_FINISH 完成
SYNTH_TIMEOUT 超时完成（结果可能违反部分约束）
SYNTH_FAIL 失败
*/

const (
	SYNTH_EXEC    = "SYNTH_EXEC"
	SYNTH_FINISH  = "SYNTH_FINISH"
	SYNTH_TIMEOUT = "SYNTH_TIMEOUT"
	SYNTH_FAIL    = "SYNTH_FAIL"
)

// SolveStateToStatus 循环终止状态 转化为 任务状态
func SolveStateToStatus(s SolveState) string {
	switch s {
	case Done:
		return SYNTH_FINISH
	case TimedOut:
		return SYNTH_TIMEOUT
	case Bootstrapping, Optimizing:
		return SYNTH_EXEC
	default:
		return SYNTH_FAIL
	}
}
