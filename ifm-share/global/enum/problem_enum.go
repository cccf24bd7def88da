package enum

/*
problem 问题类型：
IFM   只使用频繁约束
IFM_I 频繁约束 + 由边界(frontier)推导出的非频繁约束
*/

const (
	IFM   = "IFM"
	IFM_I = "IFM_I"
)
