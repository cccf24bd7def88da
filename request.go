package main

import (
	"time"

	"ifm-synth/ifm-share/base/config"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
)

type SynthRequest struct {
	Table           Table    `json:"table"`
	EmptySet        []string `json:"emptySet"`
	MinimumSupport  float64  `json:"minimumSupport"`
	Problem         string   `json:"problem"`
	ScaleFactor     float64  `json:"scaleFactor"`
	TimeCut         int      `json:"timeCut"` // 分钟
	OutputTableName string   `json:"outputTableName"`
	ConstraintsFile string   `json:"constraintsFile"`
}

type Table struct {
	Path       string                 `json:"path"`
	Attributes []config.AttributeConf `json:"attributes"`
}

// JobConf 请求转为任务配置，未填的参数取默认值
func (r *SynthRequest) JobConf() (*config.JobConf, error) {
	job := config.NewJobConf()
	job.InputTableName = r.Table.Path
	job.Attributes = r.Table.Attributes
	job.EmptySet = r.EmptySet
	job.OutputTableName = r.OutputTableName
	job.ConstraintsFile = r.ConstraintsFile
	if r.MinimumSupport > 0 {
		job.MinimumSupport = r.MinimumSupport
	}
	if r.Problem != "" {
		job.Problem = r.Problem
	} else {
		job.Problem = enum.IFM
	}
	if r.ScaleFactor > 0 {
		job.ScaleFactor = r.ScaleFactor
	} else {
		job.ScaleFactor = ifm_config.ScaleFactor
	}
	if r.TimeCut > 0 {
		job.TimeCut = time.Duration(r.TimeCut) * time.Minute
	}
	return job, job.Check()
}
