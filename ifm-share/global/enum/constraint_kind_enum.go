package enum

// ConstraintKind 约束类型，决定主问题里约束行的形态
type ConstraintKind int

const (
	// Frequency 频繁约束，上下界都生效
	Frequency ConstraintKind = iota
	// Infrequency 非频繁约束，下界固定为0，只有上界生效
	Infrequency
)

func (k ConstraintKind) String() string {
	switch k {
	case Frequency:
		return "frequency"
	case Infrequency:
		return "infrequency"
	default:
		return "unknown"
	}
}

// ParseConstraintKind 从配置/yaml中的字符串解析约束类型
func ParseConstraintKind(s string) (ConstraintKind, bool) {
	switch s {
	case "frequency", "fc", "f":
		return Frequency, true
	case "infrequency", "ic", "i":
		return Infrequency, true
	default:
		return Frequency, false
	}
}
