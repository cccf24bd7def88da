package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

var (
	ErrNotBinary    = errors.New("lp: variable is not binary")
	ErrDualityGap   = errors.New("lp: primal and dual objectives disagree")
	ErrUnknownRow   = errors.New("lp: unknown row")
	ErrUnknownVar   = errors.New("lp: unknown variable")
	ErrFreeVariable = errors.New("lp: variable without finite lower bound")
)

type VarType int

const (
	Continuous VarType = iota
	Binary
)

type Sense int

const (
	LE Sense = iota
	GE
	EQ
)

func (s Sense) String() string {
	switch s {
	case LE:
		return "<="
	case GE:
		return ">="
	default:
		return "="
	}
}

type ObjSense int

const (
	Minimize ObjSense = iota
	Maximize
)

type Status int

const (
	Optimal Status = iota
	// Feasible 搜索被截断，但已有可行解
	Feasible
	Infeasible
	Unbounded
	// NodeLimit 搜索被截断且没有可行解
	NodeLimit
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "OPTIMAL"
	case Feasible:
		return "FEASIBLE"
	case Infeasible:
		return "INFEASIBLE"
	case Unbounded:
		return "UNBOUNDED"
	case NodeLimit:
		return "NODE_LIMIT"
	default:
		return "UNKNOWN"
	}
}

var Inf = math.Inf(1)

// Var 变量定义
type Var struct {
	Name  string
	Type  VarType
	Lower float64
	Upper float64
	Obj   float64
}

// Term 约束行中的一项
type Term struct {
	Var  int
	Coef float64
}

type row struct {
	name     string
	sense    Sense
	rhs      float64
	coefs    map[int]float64
	disabled bool
}

// Model 增量构建的线性/0-1模型，变量和约束行的编号在整个生命周期内不变
type Model struct {
	Name  string
	Sense ObjSense

	vars      []Var
	rows      []*row
	rowByName map[string]int
}

func NewModel(name string, sense ObjSense) *Model {
	return &Model{Name: name, Sense: sense, rowByName: map[string]int{}}
}

// AddVar 新增变量，返回编号。Binary变量的上下界固定为[0,1]
func (m *Model) AddVar(name string, typ VarType, lower, upper, obj float64) int {
	if typ == Binary {
		lower, upper = 0, 1
	}
	m.vars = append(m.vars, Var{Name: name, Type: typ, Lower: lower, Upper: upper, Obj: obj})
	return len(m.vars) - 1
}

// AddRow 新增约束行，返回编号
func (m *Model) AddRow(name string, sense Sense, rhs float64) int {
	m.rows = append(m.rows, &row{name: name, sense: sense, rhs: rhs, coefs: map[int]float64{}})
	id := len(m.rows) - 1
	if name != "" {
		m.rowByName[name] = id
	}
	return id
}

// AddTerm 在已有系数上累加
func (m *Model) AddTerm(r, v int, coef float64) {
	m.SetCoef(r, v, m.rows[r].coefs[v]+coef)
}

// SetCoef 覆盖系数，0表示移除
func (m *Model) SetCoef(r, v int, coef float64) {
	if coef == 0 {
		delete(m.rows[r].coefs, v)
		return
	}
	m.rows[r].coefs[v] = coef
}

func (m *Model) Coef(r, v int) float64 {
	return m.rows[r].coefs[v]
}

func (m *Model) SetObjCoef(v int, coef float64) {
	m.vars[v].Obj = coef
}

func (m *Model) SetRHS(r int, rhs float64) {
	m.rows[r].rhs = rhs
}

func (m *Model) RHS(r int) float64 {
	return m.rows[r].rhs
}

func (m *Model) DisableRow(r int) {
	m.rows[r].disabled = true
}

func (m *Model) EnableRow(r int) {
	m.rows[r].disabled = false
}

func (m *Model) RowEnabled(r int) bool {
	return !m.rows[r].disabled
}

func (m *Model) NumVars() int {
	return len(m.vars)
}

func (m *Model) NumRows() int {
	return len(m.rows)
}

func (m *Model) Var(v int) Var {
	return m.vars[v]
}

func (m *Model) RowName(r int) string {
	return m.rows[r].name
}

func (m *Model) RowSense(r int) Sense {
	return m.rows[r].sense
}

// RowByName 按名字查找约束行
func (m *Model) RowByName(name string) (int, error) {
	r, ok := m.rowByName[name]
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrUnknownRow, name)
	}
	return r, nil
}

// Terms 约束行的非零项，按变量编号排序
func (m *Model) Terms(r int) []Term {
	ids := maps.Keys(m.rows[r].coefs)
	slices.Sort(ids)
	terms := make([]Term, len(ids))
	for i, v := range ids {
		terms[i] = Term{Var: v, Coef: m.rows[r].coefs[v]}
	}
	return terms
}

// Activity 给定取值下约束行左端的值
func (m *Model) Activity(r int, x []float64) float64 {
	var s float64
	for v, c := range m.rows[r].coefs {
		s += c * x[v]
	}
	return s
}

// Objective 给定取值下的目标函数值
func (m *Model) Objective(x []float64) float64 {
	var s float64
	for v, vr := range m.vars {
		s += vr.Obj * x[v]
	}
	return s
}

// Violated 返回在容差tol下被违反的启用约束行
func (m *Model) Violated(x []float64, tol float64) []int {
	var out []int
	for r, rw := range m.rows {
		if rw.disabled {
			continue
		}
		act := m.Activity(r, x)
		switch rw.sense {
		case LE:
			if act > rw.rhs+tol {
				out = append(out, r)
			}
		case GE:
			if act < rw.rhs-tol {
				out = append(out, r)
			}
		case EQ:
			if math.Abs(act-rw.rhs) > tol {
				out = append(out, r)
			}
		}
	}
	return out
}

// PoolEntry 解池中的一个解
type PoolEntry struct {
	Objective float64
	Values    []float64
}

// Solution 求解结果。Dual是目标值对右端项的灵敏度，最小化问题中>=行非负、<=行非正，禁用行为0
type Solution struct {
	Status    Status
	Objective float64
	Primal    []float64
	Dual      []float64
	Pool      []PoolEntry
	Nodes     int
}

// Solver 求解能力抽象
type Solver interface {
	Solve(ctx context.Context, m *Model) (*Solution, error)
}
