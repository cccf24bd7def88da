package synth

import (
	"fmt"

	"golang.org/x/exp/slices"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/solver/lp"
	"ifm-synth/table"
)

// Pattern 已接受的模式
type Pattern struct {
	Row    table.Row
	Key    string
	Covers []int
}

// Session 一次求解的全部状态：模式登记、约束、主问题和定价子问题、no-good列表。
// 只能被一个循环独占使用
type Session struct {
	table       *table.Table
	constraints []*constraint.Constraint
	opts        Options

	pricing *Pricing
	master  *Master

	patterns []*Pattern
	byKey    map[string]int

	uncovered map[int]bool
	// pending 已接受但还没有安装no-good割的模式
	pending []table.Row
}

// NewSession 校验约束后构建定价子问题和主问题
func NewSession(tbl *table.Table, cs []*constraint.Constraint, opts Options) (*Session, error) {
	opts.fill()
	if len(cs) == 0 {
		return nil, ErrNoConstraints
	}
	for _, c := range cs {
		if err := c.Validate(tbl); err != nil {
			return nil, err
		}
	}
	for _, e := range opts.EmptySet {
		a, ok := tbl.Attribute(e)
		if !ok {
			return nil, fmt.Errorf("%w: empty set attribute %s", ErrUnknownAttribute, e)
		}
		if a.Kind != enum.MultiValue {
			return nil, fmt.Errorf("%w: empty set attribute %s is single-value", constraint.ErrKindMismatch, e)
		}
	}

	s := &Session{
		table:       tbl,
		constraints: cs,
		opts:        opts,
		byKey:       map[string]int{},
		uncovered:   make(map[int]bool, len(cs)),
	}
	s.pricing = NewPricing(tbl, cs, opts.EmptySet, lp.NewBinarySolver(opts.PoolCapacity, opts.NodeLimit))
	simplex := lp.NewSimplexSolver()
	simplex.Tol = opts.SimplexTolerance
	s.master = NewMaster(cs, float64(tbl.Size())*opts.ScaleFactor, simplex)
	for i := range cs {
		s.uncovered[i] = true
	}
	return s, nil
}

// accept 登记模式并接入主问题，已登记的模式返回false
func (s *Session) accept(c Candidate) bool {
	key := c.Row.Key()
	if _, ok := s.byKey[key]; ok {
		return false
	}
	s.byKey[key] = len(s.patterns)
	s.patterns = append(s.patterns, &Pattern{Row: c.Row, Key: key, Covers: c.Covers})
	s.master.AddPattern(c.Covers)
	s.pending = append(s.pending, c.Row)
	for _, i := range c.Covers {
		delete(s.uncovered, i)
	}
	return true
}

// takePending 取出待安装割的模式
func (s *Session) takePending() []table.Row {
	p := s.pending
	s.pending = nil
	return p
}

func (s *Session) bootstrapCoefficients() []float64 {
	coefs := make([]float64, len(s.constraints))
	for i := range coefs {
		if s.uncovered[i] {
			coefs[i] = 1
		}
	}
	return coefs
}

// UncoveredNames 还没有任何模式满足的约束名，有序
func (s *Session) UncoveredNames() []string {
	names := make([]string, 0, len(s.uncovered))
	for i := range s.uncovered {
		names = append(names, s.constraints[i].Name)
	}
	slices.Sort(names)
	return names
}

func (s *Session) Patterns() []*Pattern {
	return s.patterns
}

func (s *Session) Constraints() []*constraint.Constraint {
	return s.constraints
}

func (s *Session) Table() *table.Table {
	return s.table
}
