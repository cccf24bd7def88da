package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/base/config"
	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
	"ifm-synth/mining"
	"ifm-synth/report"
	"ifm-synth/synth"
	"ifm-synth/table"
	"ifm-synth/utils"
)

// TaskResult 一次合成的产出
type TaskResult struct {
	Status      string  `json:"status"`
	OutputPath  string  `json:"outputPath"`
	ReportPath  string  `json:"reportPath"`
	ParquetPath string  `json:"parquetPath,omitempty"`
	DotPath     string  `json:"dotPath,omitempty"`
	Rows        int     `json:"rows"`
	Constraints int     `json:"constraints"`
	Violations  int     `json:"violations"`
	Iterations  int     `json:"iterations"`
	Objective   float64 `json:"objective"`
	SpentTime   int64   `json:"spentTime"` // ms
}

// Synthesize 读表、得到约束、列生成求解、写出合成表和报表。w为nil时不打印表格
func Synthesize(ctx context.Context, taskId string, job *config.JobConf, w io.Writer) (*TaskResult, error) {
	startTime := time.Now().UnixMilli()
	logger.Infof("taskId:%v, 合成开始, input:%s, problem:%s", taskId, job.InputTableName, job.Problem)

	attrs, err := attributes(job)
	if err != nil {
		return nil, err
	}
	source, err := table.ReadFile(job.InputTableName, attrs)
	if err != nil {
		logger.Errorf("taskId:%v, read table %s failed: %v", taskId, job.InputTableName, err)
		return nil, utils.ErrReadTable.Wrap(err)
	}
	logger.Infof("taskId:%v, 输入表行数:%d", taskId, source.Size())

	cs, err := constraintsOf(taskId, job, source, w)
	if err != nil {
		return nil, err
	}
	if w != nil && job.ShowFrequencyConstraint {
		report.RenderConstraintSet(w, cs)
	}

	session, err := synth.NewSession(source, cs, synthOptions(taskId, job))
	if err != nil {
		return nil, err
	}
	res, err := session.Run(ctx)
	if err != nil {
		logger.Errorf("taskId:%v, synthesis failed: %v", taskId, err)
		return nil, err
	}

	name := filepath.Base(job.OutputTableName)
	synthetic, err := res.Materialize(name)
	if err != nil {
		return nil, utils.ErrWriteTable.Wrap(err)
	}

	sc := solverConfig()
	out := &TaskResult{
		Status:      enum.SolveStateToStatus(res.State),
		OutputPath:  filepath.Join(sc.OutputDir, name),
		Rows:        synthetic.Size(),
		Constraints: len(cs),
		Iterations:  res.Iterations,
		Objective:   res.Objective,
	}
	if err = synthetic.WriteFile(out.OutputPath); err != nil {
		return nil, utils.ErrWriteTable.Wrap(err)
	}

	lines := report.Build(cs, synthetic)
	out.Violations = report.Violations(lines)
	out.ReportPath = out.OutputPath + ifm_config.ReportSuffix
	if err = report.WriteCSV(out.ReportPath, lines); err != nil {
		return nil, utils.ErrWriteTable.Wrap(err)
	}
	if w != nil {
		report.RenderPatterns(w, res, cs)
		report.RenderConstraints(w, lines)
	}

	if sc.ExportParquet {
		out.ParquetPath = out.OutputPath + ifm_config.ParquetSuffix
		if err = synthetic.ExportParquet(out.ParquetPath); err != nil {
			return nil, utils.ErrWriteTable.Wrap(err)
		}
	}
	if sc.ExportDot {
		out.DotPath = out.OutputPath + ifm_config.DotSuffix
		if err = report.ExportDot(out.DotPath, res, cs); err != nil {
			return nil, utils.ErrWriteTable.Wrap(err)
		}
	}

	out.SpentTime = time.Now().UnixMilli() - startTime
	if out.Violations > 0 {
		logger.Warnf("taskId:%v, %d constraints violated, state:%s", taskId, out.Violations, res.State)
	}
	logger.Infof("taskId:%v, 合成已完成, 耗时%dms, 输出:%s, 行数:%d, 约束:%d, 违反:%d",
		taskId, out.SpentTime, out.OutputPath, out.Rows, out.Constraints, out.Violations)
	return out, nil
}

func attributes(job *config.JobConf) ([]table.Attribute, error) {
	attrs := make([]table.Attribute, 0, len(job.Attributes))
	for _, a := range job.Attributes {
		kind, ok := enum.ParseAttributeKind(a.Kind)
		if !ok {
			return nil, utils.ErrParameter.Wrap(fmt.Errorf("attribute %s has unknown kind %q", a.Name, a.Kind))
		}
		attrs = append(attrs, table.Attribute{Name: a.Name, Kind: kind})
	}
	return attrs, nil
}

// constraintsOf 有约束文件时直接读取，否则由频繁项集推导
func constraintsOf(taskId string, job *config.JobConf, source *table.Table, w io.Writer) ([]*constraint.Constraint, error) {
	if job.ConstraintsFile != "" {
		cs, err := constraint.LoadYAML(job.ConstraintsFile)
		if err != nil {
			return nil, utils.ErrConstraintDerivate.Wrap(err)
		}
		logger.Infof("taskId:%v, 从%s读取约束%d条", taskId, job.ConstraintsFile, len(cs))
		return cs, nil
	}

	itemsets := mining.Apriori(source.Transactions(), job.MinimumSupport)
	logger.Infof("taskId:%v, 频繁项集数:%d", taskId, len(itemsets))
	if w != nil && job.ShowFrequentItemsets {
		report.RenderItemsets(w, itemsets, source.Size())
	}

	cs, err := constraint.BuildFrequency(itemsets, source, job.MinimumSupport, job.ScaleFactor)
	if err != nil {
		return nil, utils.ErrConstraintDerivate.Wrap(err)
	}
	if job.Problem == enum.IFM_I {
		frontier := constraint.Frontier(itemsets, source, job.MinimumSupport)
		ics, err := constraint.BuildInfrequency(frontier, source, job.MinimumSupport, job.ScaleFactor)
		if err != nil {
			return nil, utils.ErrConstraintDerivate.Wrap(err)
		}
		cs = append(cs, ics...)
	}
	logger.Infof("taskId:%v, 约束数:%d", taskId, len(cs))
	return cs, nil
}

func solverConfig() config.SolverConfig {
	if config.All != nil {
		return config.All.Solver
	}
	return config.Default().Solver
}

func synthOptions(taskId string, job *config.JobConf) synth.Options {
	sc := solverConfig()
	opts := synth.DefaultOptions()
	opts.TaskId = taskId
	opts.ScaleFactor = job.ScaleFactor
	opts.EmptySet = job.EmptySet
	opts.TimeCut = job.TimeCut
	opts.MaxIterations = sc.MaxIterations
	opts.PoolCapacity = sc.PoolCapacity
	opts.NodeLimit = sc.NodeLimit
	opts.BootstrapThreshold = sc.BootstrapThreshold
	opts.Epsilon = sc.ReducedCostEpsilon
	opts.SimplexTolerance = sc.SimplexTolerance
	return opts
}
