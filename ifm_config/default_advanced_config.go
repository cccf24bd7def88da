package ifm_config

const (
	PoolCapacity   = 30
	NodeLimit      = 2000000
	MinimumSupport = float64(0.1)
	ScaleFactor    = float64(1)
	TimeCutMinutes = 0
	MaxIterations  = 0 // 0 不限制

	OutputDir     = "result"
	ExportParquet = false
	ExportDot     = false
)
