package synth

import (
	"context"
	"fmt"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
	"ifm-synth/solver/lp"
)

// Master 受限主问题：模式变量的连续LP。
// 频繁约束上下界各带一个松弛变量，非频繁约束上界为硬约束，
// 总行数下界带松弛变量w0、上界为硬约束，目标为全部松弛之和最小
type Master struct {
	model       *lp.Model
	solver      lp.Solver
	constraints []*constraint.Constraint
	size        float64

	shortfall []int
	excess    []int
	sizeSlack int

	lowRow  []int
	upRow   []int
	sizeLow int
	sizeUp  int

	installed bool
	patterns  []int
	covers    [][]int
}

// MasterSolution 主问题解。ConstraintDuals 对频繁约束是上下界两行对偶价之和
type MasterSolution struct {
	Objective       float64
	Values          []float64
	ConstraintDuals []float64
	SizeDualSum     float64
}

func NewMaster(cs []*constraint.Constraint, size float64, solver lp.Solver) *Master {
	m := &Master{
		model:       lp.NewModel("master", lp.Minimize),
		solver:      solver,
		constraints: cs,
		size:        size,
		shortfall:   make([]int, len(cs)),
		excess:      make([]int, len(cs)),
		lowRow:      make([]int, len(cs)),
		upRow:       make([]int, len(cs)),
	}
	for i, c := range cs {
		m.shortfall[i], m.excess[i] = -1, -1
		m.lowRow[i], m.upRow[i] = -1, -1
		if c.Kind == enum.Frequency {
			m.shortfall[i] = m.model.AddVar(ifm_config.ShortfallPrefix+c.Name, lp.Continuous, 0, lp.Inf, 1)
			m.excess[i] = m.model.AddVar(ifm_config.ExcessPrefix+c.Name, lp.Continuous, 0, lp.Inf, 1)
		}
	}
	m.sizeSlack = m.model.AddVar(ifm_config.SizeShortfallName, lp.Continuous, 0, lp.Inf, 1)
	return m
}

// AddPattern 新增模式变量，约束行已安装时同时接入对应的行
func (m *Master) AddPattern(covers []int) int {
	id := len(m.patterns)
	v := m.model.AddVar(fmt.Sprintf("%s%d", ifm_config.PatternVarPrefix, id), lp.Continuous, 0, lp.Inf, 0)
	m.patterns = append(m.patterns, v)
	m.covers = append(m.covers, covers)
	if m.installed {
		m.wire(v, covers)
	}
	return id
}

func (m *Master) wire(v int, covers []int) {
	for _, i := range covers {
		if m.lowRow[i] >= 0 {
			m.model.AddTerm(m.lowRow[i], v, 1)
		}
		m.model.AddTerm(m.upRow[i], v, 1)
	}
	m.model.AddTerm(m.sizeLow, v, 1)
	m.model.AddTerm(m.sizeUp, v, 1)
}

// InstallRows 预热结束后安装全部约束行，并接入已有模式变量
func (m *Master) InstallRows() {
	if m.installed {
		return
	}
	model := m.model
	for i, c := range m.constraints {
		if c.Kind == enum.Frequency {
			m.lowRow[i] = model.AddRow(ifm_config.LowerRowPrefix+c.Name, lp.GE, float64(c.LowerBound))
			model.AddTerm(m.lowRow[i], m.shortfall[i], 1)
			m.upRow[i] = model.AddRow(ifm_config.UpperRowPrefix+c.Name, lp.LE, float64(c.UpperBound))
			model.AddTerm(m.upRow[i], m.excess[i], -1)
		} else {
			m.upRow[i] = model.AddRow(ifm_config.InfreqRowPrefix+c.Name, lp.LE, float64(c.UpperBound))
		}
	}
	m.sizeLow = model.AddRow(ifm_config.SizeLowerRowName, lp.GE, m.size)
	model.AddTerm(m.sizeLow, m.sizeSlack, 1)
	m.sizeUp = model.AddRow(ifm_config.SizeUpperRowName, lp.LE, m.size)
	m.installed = true
	for p, v := range m.patterns {
		m.wire(v, m.covers[p])
	}
}

func (m *Master) Installed() bool {
	return m.installed
}

func (m *Master) NumPatterns() int {
	return len(m.patterns)
}

// Solve 求解并提取对偶价
func (m *Master) Solve(ctx context.Context) (*MasterSolution, error) {
	if !m.installed {
		return nil, fmt.Errorf("master: rows not installed")
	}
	sol, err := m.solver.Solve(ctx, m.model)
	if err != nil {
		return nil, fmt.Errorf("master: %w", err)
	}
	if sol.Status != lp.Optimal {
		return nil, fmt.Errorf("%w: %s", ErrMasterInfeasible, sol.Status)
	}

	out := &MasterSolution{
		Objective:       sol.Objective,
		Values:          make([]float64, len(m.patterns)),
		ConstraintDuals: make([]float64, len(m.constraints)),
		SizeDualSum:     sol.Dual[m.sizeLow] + sol.Dual[m.sizeUp],
	}
	for p, v := range m.patterns {
		out.Values[p] = sol.Primal[v]
	}
	for i := range m.constraints {
		d := sol.Dual[m.upRow[i]]
		if m.lowRow[i] >= 0 {
			d += sol.Dual[m.lowRow[i]]
		}
		out.ConstraintDuals[i] = d
	}
	return out, nil
}
