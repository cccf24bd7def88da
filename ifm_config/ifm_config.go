package ifm_config

const GinPort = "19123"

// 定价子问题阈值
const (
	// BootstrapThreshold 预热阶段定价目标的下限，至少覆盖一个未满足约束
	BootstrapThreshold = 0.01
	// ReducedCostEpsilon 优化阶段检验数需要超过的正数
	ReducedCostEpsilon = 0.0001
)

// 求解器数值容差
const (
	SimplexTolerance = 1e-9
	FeasibilityTol   = 1e-6
	// IntegralityTol 0-1变量取值判断
	IntegralityTol = 0.5
)

// 表文件格式
const (
	FieldSeparator = ";"
	ValueSeparator = " "
	// OutputFieldSeparator 写出时字段之间的分隔符
	OutputFieldSeparator = "; "
)

// 约束命名前缀，只用于展示，类型由enum.ConstraintKind决定
const (
	FrequencyPrefix   = "fc"
	InfrequencyPrefix = "ic"
)

// 主问题变量/约束行命名
const (
	PatternVarPrefix  = "x"
	ShortfallPrefix   = "w_"
	ExcessPrefix      = "w2_"
	SizeShortfallName = "w0"
	LowerRowPrefix    = "C6"
	UpperRowPrefix    = "C7"
	InfreqRowPrefix   = "C8"
	SizeLowerRowName  = "C10"
	SizeUpperRowName  = "C11"
)

// 报表文件后缀
const (
	ReportSuffix  = ".report.csv"
	DotSuffix     = ".coverage.dot"
	ParquetSuffix = ".parquet"
)
