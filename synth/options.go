package synth

import (
	"time"

	"ifm-synth/ifm_config"
)

// Options 一次合成的参数
type Options struct {
	TaskId      string
	ScaleFactor float64
	// EmptySet 允许取空集合的多值属性
	EmptySet []string
	// TimeCut 墙钟时间预算，0 表示不限
	TimeCut time.Duration
	// MaxIterations 优化阶段最多轮数，0 表示不限
	MaxIterations int

	PoolCapacity       int
	NodeLimit          int
	BootstrapThreshold float64
	Epsilon            float64
	SimplexTolerance   float64

	// Now 测试中可替换
	Now func() time.Time
}

func DefaultOptions() Options {
	return Options{
		ScaleFactor:        ifm_config.ScaleFactor,
		TimeCut:            time.Duration(ifm_config.TimeCutMinutes) * time.Minute,
		MaxIterations:      ifm_config.MaxIterations,
		PoolCapacity:       ifm_config.PoolCapacity,
		NodeLimit:          ifm_config.NodeLimit,
		BootstrapThreshold: ifm_config.BootstrapThreshold,
		Epsilon:            ifm_config.ReducedCostEpsilon,
		SimplexTolerance:   ifm_config.SimplexTolerance,
		Now:                time.Now,
	}
}

func (o *Options) fill() {
	d := DefaultOptions()
	if o.ScaleFactor <= 0 {
		o.ScaleFactor = d.ScaleFactor
	}
	if o.PoolCapacity <= 0 {
		o.PoolCapacity = d.PoolCapacity
	}
	if o.BootstrapThreshold <= 0 {
		o.BootstrapThreshold = d.BootstrapThreshold
	}
	if o.Epsilon <= 0 {
		o.Epsilon = d.Epsilon
	}
	if o.SimplexTolerance <= 0 {
		o.SimplexTolerance = d.SimplexTolerance
	}
	if o.Now == nil {
		o.Now = time.Now
	}
}
