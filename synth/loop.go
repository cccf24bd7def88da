package synth

import (
	"context"
	"fmt"
	"time"

	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/table"
)

// PatternValue 模式及其在主问题解中的重数
type PatternValue struct {
	*Pattern
	Value float64
}

// Result 循环结束时的结果，TimedOut为true时是尽力而为的解
type Result struct {
	State      enum.SolveState
	Patterns   []PatternValue
	Iterations int
	Objective  float64
	TimedOut   bool
	Elapsed    time.Duration

	attributes []table.Attribute
}

// Run 列生成主循环：BOOTSTRAPPING -> OPTIMIZING -> DONE / TIMED_OUT。
// 每轮开始检查ctx，主问题求解后检查时间预算
func (s *Session) Run(ctx context.Context) (*Result, error) {
	start := s.opts.Now()
	var deadline time.Time
	if s.opts.TimeCut > 0 {
		deadline = start.Add(s.opts.TimeCut)
	}
	expired := func() bool {
		return !deadline.IsZero() && !s.opts.Now().Before(deadline)
	}

	state := enum.Bootstrapping
	var sol *MasterSolution
	iterations := 0
	var err error
	for !state.Terminal() {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		switch state {
		case enum.Bootstrapping:
			if expired() {
				logger.Warnf("[Synth] taskId:%s, time cut reached while bootstrapping, uncovered:%v", s.opts.TaskId, s.UncoveredNames())
				state = enum.TimedOut
				break
			}
			var cands []Candidate
			cands, err = s.pricing.GenerateCandidates(ctx, s.bootstrapCoefficients(), s.opts.BootstrapThreshold, s.takePending())
			if err != nil {
				return nil, err
			}
			if len(cands) == 0 {
				return nil, fmt.Errorf("%w: %v", ErrBootstrapInfeasible, s.UncoveredNames())
			}
			accepted := 0
			for _, c := range cands {
				if s.accept(c) {
					accepted++
				}
			}
			logger.Infof("[Synth] taskId:%s, state:%s, pool:%d, accepted:%d, patterns:%d, uncovered:%d",
				s.opts.TaskId, state, len(cands), accepted, len(s.patterns), len(s.uncovered))
			if len(s.uncovered) == 0 {
				s.master.InstallRows()
				state = enum.Optimizing
			}

		case enum.Optimizing:
			sol, err = s.master.Solve(ctx)
			if err != nil {
				return nil, err
			}
			iterations++
			if expired() || (s.opts.MaxIterations > 0 && iterations >= s.opts.MaxIterations) {
				logger.Warnf("[Synth] taskId:%s, budget exhausted at iteration:%d, objective:%v", s.opts.TaskId, iterations, sol.Objective)
				state = enum.TimedOut
				break
			}
			var cands []Candidate
			cands, err = s.pricing.GenerateCandidates(ctx, sol.ConstraintDuals, s.opts.Epsilon-sol.SizeDualSum, s.takePending())
			if err != nil {
				return nil, err
			}
			accepted := 0
			for _, c := range cands {
				if c.Value+sol.SizeDualSum > s.opts.Epsilon && s.accept(c) {
					accepted++
				}
			}
			logger.Infof("[Synth] taskId:%s, state:%s, iteration:%d, objective:%v, pool:%d, accepted:%d, patterns:%d",
				s.opts.TaskId, state, iterations, sol.Objective, len(cands), accepted, len(s.patterns))
			if accepted == 0 {
				state = enum.Done
			}
		}
	}

	if sol == nil {
		// 预热阶段超时，未覆盖的约束由松弛变量承担
		s.master.InstallRows()
		if sol, err = s.master.Solve(ctx); err != nil {
			return nil, err
		}
	}

	res := &Result{
		State:      state,
		Iterations: iterations,
		Objective:  sol.Objective,
		TimedOut:   state == enum.TimedOut,
		Elapsed:    s.opts.Now().Sub(start),
		attributes: s.table.Attributes(),
	}
	for p, pat := range s.patterns {
		res.Patterns = append(res.Patterns, PatternValue{Pattern: pat, Value: sol.Values[p]})
	}
	logger.Infof("[Synth] taskId:%s, finish state:%s, iterations:%d, objective:%v, patterns:%d, elapsed:%v",
		s.opts.TaskId, res.State, res.Iterations, res.Objective, len(res.Patterns), res.Elapsed)
	return res, nil
}

// Attributes 源表的属性描述
func (r *Result) Attributes() []table.Attribute {
	return r.attributes
}

// Active 重数大于0的模式
func (r *Result) Active() []PatternValue {
	var out []PatternValue
	for _, p := range r.Patterns {
		if p.Value > 0 {
			out = append(out, p)
		}
	}
	return out
}
