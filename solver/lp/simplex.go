package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	convexlp "gonum.org/v1/gonum/optimize/convex/lp"

	"ifm-synth/ifm_config"
)

// SimplexSolver 连续松弛的单纯形求解，Binary变量按[0,1]连续变量处理。
// 原问题转成标准型后交给gonum求解，对偶价通过同一例程求解对偶问题得到。
type SimplexSolver struct {
	Tol float64
	// GapTol 原始目标与对偶目标允许的相对误差
	GapTol float64
}

func NewSimplexSolver() *SimplexSolver {
	return &SimplexSolver{Tol: ifm_config.SimplexTolerance, GapTol: ifm_config.FeasibilityTol}
}

// stdCol 标准型中的一列对应原变量的一部分：x_v = offset_v + Σ sign * x'
type stdCol struct {
	v    int
	sign float64
}

// stdRow 标准型中的一行，origin为-1表示由变量上界生成
type stdRow struct {
	coefs  map[int]float64
	sense  Sense
	rhs    float64
	origin int
}

type standardForm struct {
	cols     []stdCol
	cost     []float64
	rows     []stdRow
	offset   []float64
	constant float64
	// zeroCols 不出现在任何行中的列
	zeroCols map[int]bool
}

// Solve 最小化/最大化模型的连续松弛
func (s *SimplexSolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sf, infeasible, err := s.toStandard(m)
	if err != nil {
		return nil, err
	}
	if infeasible {
		return &Solution{Status: Infeasible}, nil
	}

	nc := len(sf.cols)
	xs := make([]float64, nc)
	for k := range sf.zeroCols {
		if sf.cost[k] < 0 {
			return &Solution{Status: Unbounded}, nil
		}
	}

	active := make([]int, 0, nc)
	for k := 0; k < nc; k++ {
		if !sf.zeroCols[k] {
			active = append(active, k)
		}
	}

	var primalObj float64
	mRows := len(sf.rows)
	if mRows > 0 {
		n := len(active) + mRows
		a := mat.NewDense(mRows, n, nil)
		b := make([]float64, mRows)
		c := make([]float64, n)
		pos := make(map[int]int, len(active))
		for i, k := range active {
			pos[k] = i
			c[i] = sf.cost[k]
		}
		for r, row := range sf.rows {
			for k, coef := range row.coefs {
				a.Set(r, pos[k], coef)
			}
			if row.sense == LE {
				a.Set(r, len(active)+r, 1)
			} else {
				a.Set(r, len(active)+r, -1)
			}
			b[r] = row.rhs
		}

		optF, optX, err := convexlp.Simplex(c, a, b, s.Tol, nil)
		switch {
		case errors.Is(err, convexlp.ErrInfeasible):
			return &Solution{Status: Infeasible}, nil
		case errors.Is(err, convexlp.ErrUnbounded):
			return &Solution{Status: Unbounded}, nil
		case err != nil:
			return nil, fmt.Errorf("simplex %s: %w", m.Name, err)
		}
		for i, k := range active {
			xs[k] = optX[i]
		}
		primalObj = optF
	}

	primal := make([]float64, m.NumVars())
	copy(primal, sf.offset)
	for k, col := range sf.cols {
		primal[col.v] += col.sign * xs[k]
	}

	dual := make([]float64, m.NumRows())
	if mRows > 0 {
		y, dualObj, err := s.solveDual(m.Name, sf, active)
		if err != nil {
			return nil, err
		}
		if math.Abs(primalObj-dualObj) > s.GapTol*math.Max(1, math.Abs(primalObj)) {
			return nil, fmt.Errorf("%w: %s primal %v dual %v", ErrDualityGap, m.Name, primalObj, dualObj)
		}
		for r, row := range sf.rows {
			if row.origin >= 0 {
				dual[row.origin] += y[r]
			}
		}
	}

	obj := primalObj + sf.constant
	if m.Sense == Maximize {
		obj = -obj
		for r := range dual {
			dual[r] = -dual[r]
		}
	}
	return &Solution{Status: Optimal, Objective: obj, Primal: primal, Dual: dual}, nil
}

// solveDual 对偶问题：min -Σ σ_r b_r u_r  s.t. Σ_r σ_r a_rk u_r + t_k = c_k, u,t >= 0。
// σ_r 对 >= 行为+1，对 <= 行为-1，行对偶价 y_r = σ_r u_r
func (s *SimplexSolver) solveDual(name string, sf *standardForm, active []int) ([]float64, float64, error) {
	mRows := len(sf.rows)
	nRows := len(active)
	n := mRows + nRows
	a := mat.NewDense(nRows, n, nil)
	b := make([]float64, nRows)
	c := make([]float64, n)
	pos := make(map[int]int, nRows)
	for i, k := range active {
		pos[k] = i
		b[i] = sf.cost[k]
		a.Set(i, mRows+i, 1)
	}
	sigma := make([]float64, mRows)
	for r, row := range sf.rows {
		sigma[r] = 1
		if row.sense == LE {
			sigma[r] = -1
		}
		c[r] = -sigma[r] * row.rhs
		for k, coef := range row.coefs {
			a.Set(pos[k], r, sigma[r]*coef)
		}
	}

	optF, optU, err := convexlp.Simplex(c, a, b, s.Tol, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("dual simplex %s: %w", name, err)
	}
	y := make([]float64, mRows)
	for r := range y {
		y[r] = sigma[r] * optU[r]
	}
	return y, -optF, nil
}

// toStandard 平移下界、上界转成约束行、等式行拆成两行、空行直接检查
func (s *SimplexSolver) toStandard(m *Model) (*standardForm, bool, error) {
	sf := &standardForm{offset: make([]float64, m.NumVars()), zeroCols: map[int]bool{}}
	sign := 1.0
	if m.Sense == Maximize {
		sign = -1
	}
	pieces := make([][]int, m.NumVars())
	var boundRows []stdRow
	for v, vr := range m.vars {
		lower, upper := vr.Lower, vr.Upper
		if vr.Type == Binary {
			lower, upper = 0, 1
		}
		if upper < lower {
			return nil, true, nil
		}
		cost := sign * vr.Obj
		switch {
		case !math.IsInf(lower, -1):
			sf.offset[v] = lower
			sf.constant += cost * lower
			k := len(sf.cols)
			sf.cols = append(sf.cols, stdCol{v: v, sign: 1})
			sf.cost = append(sf.cost, cost)
			pieces[v] = []int{k}
			if !math.IsInf(upper, 1) {
				boundRows = append(boundRows, stdRow{coefs: map[int]float64{k: 1}, sense: LE, rhs: upper - lower, origin: -1})
			}
		case !math.IsInf(upper, 1):
			sf.offset[v] = upper
			sf.constant += cost * upper
			k := len(sf.cols)
			sf.cols = append(sf.cols, stdCol{v: v, sign: -1})
			sf.cost = append(sf.cost, -cost)
			pieces[v] = []int{k}
		default:
			return nil, false, fmt.Errorf("%w: %s", ErrFreeVariable, vr.Name)
		}
	}

	for r, rw := range m.rows {
		if rw.disabled {
			continue
		}
		coefs := map[int]float64{}
		rhs := rw.rhs
		for v, c := range rw.coefs {
			rhs -= c * sf.offset[v]
			for _, k := range pieces[v] {
				coefs[k] += c * sf.cols[k].sign
			}
		}
		for k, c := range coefs {
			if c == 0 {
				delete(coefs, k)
			}
		}
		if len(coefs) == 0 {
			if !emptyRowHolds(rw.sense, rhs, s.GapTol) {
				return nil, true, nil
			}
			continue
		}
		switch rw.sense {
		case EQ:
			sf.rows = append(sf.rows,
				stdRow{coefs: coefs, sense: GE, rhs: rhs, origin: r},
				stdRow{coefs: coefs, sense: LE, rhs: rhs, origin: r})
		default:
			sf.rows = append(sf.rows, stdRow{coefs: coefs, sense: rw.sense, rhs: rhs, origin: r})
		}
	}
	sf.rows = append(sf.rows, boundRows...)

	used := make([]bool, len(sf.cols))
	for _, row := range sf.rows {
		for k := range row.coefs {
			used[k] = true
		}
	}
	for k, u := range used {
		if !u {
			sf.zeroCols[k] = true
		}
	}
	return sf, false, nil
}

func emptyRowHolds(sense Sense, rhs, tol float64) bool {
	switch sense {
	case LE:
		return 0 <= rhs+tol
	case GE:
		return 0 >= rhs-tol
	default:
		return math.Abs(rhs) <= tol
	}
}
