package lp

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinaryPool(t *testing.T) {
	m := NewModel("pool", Maximize)
	var xs []int
	for i := 0; i < 3; i++ {
		xs = append(xs, m.AddVar("x", Binary, 0, 1, 1))
	}
	r := m.AddRow("atMostTwo", LE, 2)
	for _, x := range xs {
		m.AddTerm(r, x, 1)
	}

	sol, err := NewBinarySolver(5, 0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	require.Len(t, sol.Pool, 5)
	assert.Equal(t, 2.0, sol.Objective)
	for i, e := range sol.Pool {
		if i < 3 {
			assert.Equal(t, 2.0, e.Objective)
		} else {
			assert.Equal(t, 1.0, e.Objective)
		}
		assert.Empty(t, m.Violated(e.Values, eps))
		assert.InDelta(t, e.Objective, m.Objective(e.Values), eps)
	}
	seen := map[[3]float64]bool{}
	for _, e := range sol.Pool {
		key := [3]float64{e.Values[0], e.Values[1], e.Values[2]}
		assert.False(t, seen[key])
		seen[key] = true
	}
}

func TestBinaryPoolGap(t *testing.T) {
	m := NewModel("gap", Maximize)
	a := m.AddVar("a", Binary, 0, 1, 5)
	b := m.AddVar("b", Binary, 0, 1, 1)
	r := m.AddRow("one", LE, 1)
	m.AddTerm(r, a, 1)
	m.AddTerm(r, b, 1)

	s := NewBinarySolver(10, 0)
	s.PoolGap = 2
	sol, err := s.Solve(context.Background(), m)
	require.NoError(t, err)
	require.Len(t, sol.Pool, 1)
	assert.Equal(t, 1.0, sol.Primal[a])
}

func TestBinaryMinimizeAndInfeasible(t *testing.T) {
	m := NewModel("min", Minimize)
	a := m.AddVar("a", Binary, 0, 1, 1)
	b := m.AddVar("b", Binary, 0, 1, 2)
	r := m.AddRow("cover", GE, 1)
	m.AddTerm(r, a, 1)
	m.AddTerm(r, b, 1)

	sol, err := NewBinarySolver(1, 0).Solve(context.Background(), m)
	require.NoError(t, err)
	require.Equal(t, Optimal, sol.Status)
	assert.Equal(t, 1.0, sol.Objective)
	assert.Equal(t, []float64{1, 0}, sol.Primal)

	bad := m.AddRow("tooMany", GE, 3)
	m.AddTerm(bad, a, 1)
	m.AddTerm(bad, b, 1)
	sol, err = NewBinarySolver(1, 0).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, sol.Status)
	assert.Empty(t, sol.Pool)

	m.DisableRow(bad)
	empty := m.AddRow("positive", GE, 0.5)
	sol, err = NewBinarySolver(1, 0).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Equal(t, Infeasible, sol.Status)
	m.DisableRow(empty)

	m.AddVar("c", Continuous, 0, 1, 0)
	_, err = NewBinarySolver(1, 0).Solve(context.Background(), m)
	assert.ErrorIs(t, err, ErrNotBinary)
}

func TestBinaryNodeLimit(t *testing.T) {
	m := NewModel("limit", Maximize)
	r := m.AddRow("half", LE, 10)
	for i := 0; i < 20; i++ {
		x := m.AddVar("x", Binary, 0, 1, float64(i%3))
		m.AddTerm(r, x, 1)
	}
	sol, err := NewBinarySolver(100, 5).Solve(context.Background(), m)
	require.NoError(t, err)
	assert.Contains(t, []Status{Feasible, NodeLimit}, sol.Status)
}

func TestBinaryContextCancel(t *testing.T) {
	m := NewModel("cancel", Maximize)
	for i := 0; i < 30; i++ {
		m.AddVar("x", Binary, 0, 1, 0)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewBinarySolver(1<<20, 0).Solve(ctx, m)
	assert.ErrorIs(t, err, context.Canceled)
}

// 与穷举比较最优值
func TestBinaryMatchesEnumeration(t *testing.T) {
	rnd := rand.New(rand.NewSource(7))
	for round := 0; round < 20; round++ {
		n := 8
		m := NewModel("random", Maximize)
		for j := 0; j < n; j++ {
			m.AddVar("x", Binary, 0, 1, float64(rnd.Intn(11)-5))
		}
		for k := 0; k < 4; k++ {
			sense := Sense(rnd.Intn(3))
			r := m.AddRow("r", sense, float64(rnd.Intn(5)-1))
			for j := 0; j < n; j++ {
				if rnd.Intn(2) == 0 {
					m.AddTerm(r, j, float64(rnd.Intn(5)-2))
				}
			}
		}

		best := math.Inf(-1)
		x := make([]float64, n)
		for mask := 0; mask < 1<<n; mask++ {
			for j := 0; j < n; j++ {
				x[j] = float64((mask >> j) & 1)
			}
			if len(m.Violated(x, eps)) == 0 {
				best = math.Max(best, m.Objective(x))
			}
		}

		sol, err := NewBinarySolver(3, 0).Solve(context.Background(), m)
		require.NoError(t, err)
		if math.IsInf(best, -1) {
			assert.Equal(t, Infeasible, sol.Status, "round %d", round)
			continue
		}
		require.Equal(t, Optimal, sol.Status, "round %d", round)
		assert.InDelta(t, best, sol.Objective, eps, "round %d", round)
		for _, e := range sol.Pool {
			assert.Empty(t, m.Violated(e.Values, eps))
		}
	}
}
