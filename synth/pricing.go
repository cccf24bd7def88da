package synth

import (
	"context"
	"fmt"

	"golang.org/x/exp/slices"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
	"ifm-synth/solver/lp"
	"ifm-synth/table"
)

// Candidate 定价子问题给出的候选模式
type Candidate struct {
	Row table.Row
	// Value 满足的约束对应系数之和
	Value float64
	// Covers 满足的约束下标，有序
	Covers []int
}

// Pricing 0-1定价子问题：每个(属性,值)一个选择变量，每个约束一个指示变量，
// 指示变量为1当且仅当约束要求的值全部被选中
type Pricing struct {
	model       *lp.Model
	solver      lp.Solver
	attrs       []table.Attribute
	domains     map[string][]int
	valueVars   map[table.Item]int
	constraints []*constraint.Constraint
	indicators  []int
	threshold   int
	cuts        map[string]bool
}

func NewPricing(tbl *table.Table, cs []*constraint.Constraint, emptySet []string, solver lp.Solver) *Pricing {
	p := &Pricing{
		model:       lp.NewModel("pricing", lp.Maximize),
		solver:      solver,
		attrs:       tbl.Attributes(),
		domains:     map[string][]int{},
		valueVars:   map[table.Item]int{},
		constraints: cs,
		cuts:        map[string]bool{},
	}
	m := p.model

	for _, a := range p.attrs {
		domain := tbl.Domain(a.Name)
		p.domains[a.Name] = domain
		var r int
		if a.Kind == enum.SingleValue {
			r = m.AddRow("partition_"+a.Name, lp.EQ, 1)
		} else {
			need := 1.0
			if slices.Contains(emptySet, a.Name) {
				need = 0
			}
			r = m.AddRow("cover_"+a.Name, lp.GE, need)
		}
		for _, v := range domain {
			it := table.Item{Attr: a.Name, Value: v}
			id := m.AddVar(it.String(), lp.Binary, 0, 1, 0)
			p.valueVars[it] = id
			m.AddTerm(r, id, 1)
		}
	}

	for _, c := range cs {
		ind := m.AddVar(c.Name, lp.Binary, 0, 1, 0)
		p.indicators = append(p.indicators, ind)
		req := c.Items()
		link := m.AddRow("link_"+c.Name, lp.LE, float64(len(req)-1))
		m.AddTerm(link, ind, -1)
		for _, it := range req {
			v := p.valueVars[it]
			m.AddTerm(link, v, 1)
			need := m.AddRow(fmt.Sprintf("need_%s_%s", c.Name, it), lp.GE, 0)
			m.AddTerm(need, v, 1)
			m.AddTerm(need, ind, -1)
		}
	}
	p.threshold = m.AddRow("threshold", lp.GE, 0)
	return p
}

// Forbid 为模式安装no-good割，之后该取值组合不再可行。重复调用无副作用
func (p *Pricing) Forbid(r table.Row) {
	key := r.Key()
	if p.cuts[key] {
		return
	}
	p.cuts[key] = true

	chosen := map[table.Item]bool{}
	for _, it := range r.Items() {
		chosen[it] = true
	}
	m := p.model
	cut := m.AddRow(fmt.Sprintf("nogood_%d", len(p.cuts)), lp.GE, float64(1-len(chosen)))
	for it, v := range p.valueVars {
		if chosen[it] {
			m.AddTerm(cut, v, -1)
		} else {
			m.AddTerm(cut, v, 1)
		}
	}
}

// Cuts 已安装的no-good割数量
func (p *Pricing) Cuts() int {
	return len(p.cuts)
}

// GenerateCandidates 设置指示变量的目标系数和阈值行，为新禁止的模式加割后求解，
// 返回解池中的全部候选，目标值高的在前。返回空表示没有满足阈值的模式
func (p *Pricing) GenerateCandidates(ctx context.Context, coefs []float64, threshold float64, forbidden []table.Row) ([]Candidate, error) {
	if len(coefs) != len(p.indicators) {
		return nil, fmt.Errorf("pricing: %d coefficients for %d constraints", len(coefs), len(p.indicators))
	}
	m := p.model
	for i, ind := range p.indicators {
		m.SetObjCoef(ind, coefs[i])
		m.SetCoef(p.threshold, ind, coefs[i])
	}
	m.SetRHS(p.threshold, threshold)
	for _, r := range forbidden {
		p.Forbid(r)
	}

	sol, err := p.solver.Solve(ctx, m)
	if err != nil {
		return nil, fmt.Errorf("pricing: %w", err)
	}
	switch sol.Status {
	case lp.Infeasible:
		return nil, nil
	case lp.NodeLimit:
		logger.Warnf("[Pricing] node limit reached without a feasible pattern, nodes:%d", sol.Nodes)
		return nil, nil
	case lp.Feasible:
		logger.Warnf("[Pricing] node limit reached, pool may be incomplete, nodes:%d, pool:%d", sol.Nodes, len(sol.Pool))
	}

	out := make([]Candidate, 0, len(sol.Pool))
	for _, e := range sol.Pool {
		c, err := p.decode(e)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (p *Pricing) decode(e lp.PoolEntry) (Candidate, error) {
	row := table.NewRow()
	for _, a := range p.attrs {
		if a.Kind == enum.MultiValue {
			row.Multi[a.Name] = []int{}
		}
		for _, v := range p.domains[a.Name] {
			if e.Values[p.valueVars[table.Item{Attr: a.Name, Value: v}]] < ifm_config.IntegralityTol {
				continue
			}
			if a.Kind == enum.MultiValue {
				row.Multi[a.Name] = append(row.Multi[a.Name], v)
			} else {
				row.Single[a.Name] = v
			}
		}
	}

	var covers []int
	for i, ind := range p.indicators {
		on := e.Values[ind] >= ifm_config.IntegralityTol
		if on != p.constraints[i].SatisfiedBy(row) {
			return Candidate{}, fmt.Errorf("%w: %s on %s", ErrCoverageMismatch, p.constraints[i].Name, row.Key())
		}
		if on {
			covers = append(covers, i)
		}
	}
	return Candidate{Row: row, Value: e.Objective, Covers: covers}, nil
}
