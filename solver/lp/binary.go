package lp

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/exp/slices"

	"ifm-synth/ifm_config"
)

// BinarySolver 0-1规划的深度优先分支定界，带解池。
// 约束传播基于行活动度的上下界，目标界为已固定部分加上未固定变量的正系数之和。
type BinarySolver struct {
	// PoolCapacity 解池大小，<=0 时只保留最优解
	PoolCapacity int
	// PoolGap 与最优解的目标差超过该值的解不进入解池，<=0 表示不限制
	PoolGap float64
	// NodeLimit 搜索节点上限，<=0 表示不限制
	NodeLimit int
	Tol       float64
}

func NewBinarySolver(poolCapacity, nodeLimit int) *BinarySolver {
	return &BinarySolver{PoolCapacity: poolCapacity, NodeLimit: nodeLimit, Tol: ifm_config.FeasibilityTol}
}

type bnbTerm struct {
	idx  int
	coef float64
}

type bnb struct {
	ctx context.Context
	cfg *BinarySolver

	obj      []float64
	order    []int
	varRows  [][]bnbTerm
	rowTerms [][]bnbTerm
	lo, hi   []float64
	minAct   []float64
	maxAct   []float64

	fixed    []int8
	trail    []int
	fixedObj float64
	posFree  float64

	inQueue []bool
	pool    []PoolEntry
	nodes   int
	limit   bool
	err     error
}

// Solve 只接受全部为Binary的模型
func (s *BinarySolver) Solve(ctx context.Context, m *Model) (*Solution, error) {
	n := m.NumVars()
	b := &bnb{
		ctx:     ctx,
		cfg:     s,
		obj:     make([]float64, n),
		varRows: make([][]bnbTerm, n),
		fixed:   make([]int8, n),
	}
	sign := 1.0
	if m.Sense == Minimize {
		sign = -1
	}
	for v, vr := range m.vars {
		if vr.Type != Binary {
			return nil, fmt.Errorf("%w: %s", ErrNotBinary, vr.Name)
		}
		b.obj[v] = sign * vr.Obj
		b.fixed[v] = -1
		if b.obj[v] > 0 {
			b.posFree += b.obj[v]
		}
	}

	for r, rw := range m.rows {
		if rw.disabled {
			continue
		}
		lo, hi := math.Inf(-1), math.Inf(1)
		switch rw.sense {
		case LE:
			hi = rw.rhs
		case GE:
			lo = rw.rhs
		case EQ:
			lo, hi = rw.rhs, rw.rhs
		}
		idx := len(b.rowTerms)
		var terms []bnbTerm
		var minAct, maxAct float64
		for _, t := range m.Terms(r) {
			terms = append(terms, bnbTerm{idx: t.Var, coef: t.Coef})
			b.varRows[t.Var] = append(b.varRows[t.Var], bnbTerm{idx: idx, coef: t.Coef})
			if t.Coef > 0 {
				maxAct += t.Coef
			} else {
				minAct += t.Coef
			}
		}
		b.rowTerms = append(b.rowTerms, terms)
		b.lo = append(b.lo, lo)
		b.hi = append(b.hi, hi)
		b.minAct = append(b.minAct, minAct)
		b.maxAct = append(b.maxAct, maxAct)
	}
	b.inQueue = make([]bool, len(b.rowTerms))

	// 按目标系数绝对值降序分支，相同时按编号
	b.order = make([]int, n)
	for i := range b.order {
		b.order[i] = i
	}
	slices.SortStableFunc(b.order, func(x, y int) bool {
		return math.Abs(b.obj[x]) > math.Abs(b.obj[y])
	})

	all := make([]int, len(b.rowTerms))
	for i := range all {
		all[i] = i
	}
	if b.propagate(all) {
		b.search(0)
	}
	if b.err != nil {
		return nil, b.err
	}

	sol := &Solution{Nodes: b.nodes}
	for _, e := range b.pool {
		sol.Pool = append(sol.Pool, PoolEntry{Objective: sign * e.Objective, Values: e.Values})
	}
	switch {
	case len(sol.Pool) == 0 && b.limit:
		sol.Status = NodeLimit
	case len(sol.Pool) == 0:
		sol.Status = Infeasible
	case b.limit:
		sol.Status = Feasible
	default:
		sol.Status = Optimal
	}
	if len(sol.Pool) > 0 {
		sol.Objective = sol.Pool[0].Objective
		sol.Primal = sol.Pool[0].Values
	}
	return sol, nil
}

func (b *bnb) capacity() int {
	if b.cfg.PoolCapacity <= 0 {
		return 1
	}
	return b.cfg.PoolCapacity
}

func (b *bnb) rowOK(r int) bool {
	return b.maxAct[r] >= b.lo[r]-b.cfg.Tol && b.minAct[r] <= b.hi[r]+b.cfg.Tol
}

// fix 固定变量并更新所在行的活动度，返回所有行是否仍可满足
func (b *bnb) fix(j int, val int8) bool {
	b.fixed[j] = val
	b.trail = append(b.trail, j)
	if b.obj[j] > 0 {
		b.posFree -= b.obj[j]
	}
	if val == 1 {
		b.fixedObj += b.obj[j]
	}
	ok := true
	for _, t := range b.varRows[j] {
		b.shift(t.idx, t.coef, val, 1)
		if !b.rowOK(t.idx) {
			ok = false
		}
	}
	return ok
}

// shift dir=1 表示固定，dir=-1 表示撤销
func (b *bnb) shift(r int, coef float64, val int8, dir float64) {
	switch {
	case coef > 0 && val == 1:
		b.minAct[r] += dir * coef
	case coef > 0 && val == 0:
		b.maxAct[r] -= dir * coef
	case coef < 0 && val == 1:
		b.maxAct[r] += dir * coef
	case coef < 0 && val == 0:
		b.minAct[r] -= dir * coef
	}
}

func (b *bnb) undo(mark int) {
	for len(b.trail) > mark {
		j := b.trail[len(b.trail)-1]
		b.trail = b.trail[:len(b.trail)-1]
		val := b.fixed[j]
		for _, t := range b.varRows[j] {
			b.shift(t.idx, t.coef, val, -1)
		}
		if val == 1 {
			b.fixedObj -= b.obj[j]
		}
		if b.obj[j] > 0 {
			b.posFree += b.obj[j]
		}
		b.fixed[j] = -1
	}
}

// propagate 行活动度传播，直到没有变量被强制固定
func (b *bnb) propagate(rows []int) bool {
	queue := make([]int, 0, len(rows))
	for _, r := range rows {
		if !b.inQueue[r] {
			b.inQueue[r] = true
			queue = append(queue, r)
		}
	}
	defer func() {
		for _, r := range queue {
			b.inQueue[r] = false
		}
	}()

	tol := b.cfg.Tol
	for head := 0; head < len(queue); head++ {
		r := queue[head]
		b.inQueue[r] = false
		if !b.rowOK(r) {
			return false
		}
		for _, t := range b.rowTerms[r] {
			if b.fixed[t.idx] >= 0 {
				continue
			}
			var need0, need1 bool
			if t.coef > 0 {
				need1 = b.maxAct[r]-t.coef < b.lo[r]-tol
				need0 = b.minAct[r]+t.coef > b.hi[r]+tol
			} else {
				need0 = b.maxAct[r]+t.coef < b.lo[r]-tol
				need1 = b.minAct[r]-t.coef > b.hi[r]+tol
			}
			if need0 && need1 {
				return false
			}
			if !need0 && !need1 {
				continue
			}
			val := int8(0)
			if need1 {
				val = 1
			}
			if !b.fix(t.idx, val) {
				return false
			}
			for _, vr := range b.varRows[t.idx] {
				if !b.inQueue[vr.idx] {
					b.inQueue[vr.idx] = true
					queue = append(queue, vr.idx)
				}
			}
		}
	}
	return true
}

// prune 解池已满时，目标界不超过最差解的子树不再搜索
func (b *bnb) prune(bound float64) bool {
	tol := b.cfg.Tol
	if len(b.pool) >= b.capacity() && bound <= b.pool[len(b.pool)-1].Objective+tol {
		return true
	}
	if b.cfg.PoolGap > 0 && len(b.pool) > 0 && bound < b.pool[0].Objective-b.cfg.PoolGap-tol {
		return true
	}
	return false
}

func (b *bnb) search(pos int) {
	b.nodes++
	if b.cfg.NodeLimit > 0 && b.nodes > b.cfg.NodeLimit {
		b.limit = true
		return
	}
	if b.nodes%1024 == 0 {
		if err := b.ctx.Err(); err != nil {
			b.err = err
			return
		}
	}
	if b.prune(b.fixedObj + b.posFree) {
		return
	}
	for pos < len(b.order) && b.fixed[b.order[pos]] >= 0 {
		pos++
	}
	if pos == len(b.order) {
		b.record()
		return
	}

	j := b.order[pos]
	first := int8(1)
	if b.obj[j] < 0 {
		first = 0
	}
	for _, val := range [2]int8{first, 1 - first} {
		mark := len(b.trail)
		if b.fix(j, val) {
			rows := make([]int, len(b.varRows[j]))
			for i, t := range b.varRows[j] {
				rows[i] = t.idx
			}
			if b.propagate(rows) {
				b.search(pos + 1)
			}
		}
		b.undo(mark)
		if b.limit || b.err != nil {
			return
		}
	}
}

// record 叶子节点，按目标值降序插入解池，相同目标值保持发现顺序
func (b *bnb) record() {
	values := make([]float64, len(b.fixed))
	for j, v := range b.fixed {
		values[j] = float64(v)
	}
	entry := PoolEntry{Objective: b.fixedObj, Values: values}
	at := len(b.pool)
	for at > 0 && b.pool[at-1].Objective < entry.Objective-b.cfg.Tol {
		at--
	}
	b.pool = slices.Insert(b.pool, at, entry)
	if len(b.pool) > b.capacity() {
		b.pool = b.pool[:b.capacity()]
	}
	if b.cfg.PoolGap > 0 {
		best := b.pool[0].Objective
		for len(b.pool) > 0 && b.pool[len(b.pool)-1].Objective < best-b.cfg.PoolGap-b.cfg.Tol {
			b.pool = b.pool[:len(b.pool)-1]
		}
	}
}
