package enum

// AttributeKind 属性类型
type AttributeKind int

const (
	// SingleValue 单值属性，每行恰好一个值
	SingleValue AttributeKind = iota
	// MultiValue 多值属性，每行是一个值集合
	MultiValue
)

const (
	SV = "sv"
	MV = "mv"
)

func (k AttributeKind) String() string {
	if k == MultiValue {
		return MV
	}
	return SV
}

func ParseAttributeKind(s string) (AttributeKind, bool) {
	switch s {
	case SV:
		return SingleValue, true
	case MV:
		return MultiValue, true
	default:
		return SingleValue, false
	}
}
