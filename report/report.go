package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/mining"
	"ifm-synth/synth"
	tbl "ifm-synth/table"
	"ifm-synth/utils"
)

// Line 一条约束在合成表上的实际支持度
type Line struct {
	Name     string
	Kind     enum.ConstraintKind
	Lower    int
	Upper    int
	Realized int
	OK       bool
}

// Build 用合成表的位图索引统计每条约束的实际支持度
func Build(cs []*constraint.Constraint, synthetic *tbl.Table) []Line {
	ix := tbl.BuildIndex(synthetic)
	lines := make([]Line, 0, len(cs))
	for _, c := range cs {
		realized := ix.Count(c.Items())
		ok := realized <= c.UpperBound
		if c.Kind == enum.Frequency {
			ok = ok && realized >= c.LowerBound
		}
		lines = append(lines, Line{Name: c.Name, Kind: c.Kind, Lower: c.LowerBound, Upper: c.UpperBound, Realized: realized, OK: ok})
	}
	return lines
}

// Violations 不满足的约束条数
func Violations(lines []Line) int {
	n := 0
	for _, l := range lines {
		if !l.OK {
			n++
		}
	}
	return n
}

// WriteCSV name,kind,lower,upper,realized,ok
func WriteCSV(path string, lines []Line) error {
	data := make([][]string, 0, len(lines)+1)
	data = append(data, []string{"name", "kind", "lower", "upper", "realized", "ok"})
	for _, l := range lines {
		data = append(data, []string{
			l.Name, l.Kind.String(),
			strconv.Itoa(l.Lower), strconv.Itoa(l.Upper), strconv.Itoa(l.Realized),
			strconv.FormatBool(l.OK),
		})
	}
	return utils.CreateCsv(path, data)
}

// RenderConstraints 打印约束满足情况
func RenderConstraints(w io.Writer, lines []Line) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle("CONSTRAINT REPORT")
	t.AppendHeader(table.Row{"Name", "Kind", "Lower", "Upper", "Realized", "OK"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Name", AlignHeader: text.AlignCenter},
		{Name: "Kind", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Name: "OK", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
	})
	for _, l := range lines {
		t.AppendRow(table.Row{l.Name, l.Kind, l.Lower, l.Upper, l.Realized, l.OK})
	}
	t.AppendFooter(table.Row{"", "", "", "", "violations", Violations(lines)})
	t.Render()
}

// RenderPatterns 打印重数大于0的模式
func RenderPatterns(w io.Writer, res *synth.Result, cs []*constraint.Constraint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("PATTERNS (%s, iterations %d)", res.State, res.Iterations))
	t.AppendHeader(table.Row{"Pattern", "Multiplicity", "Rows", "Covers"})
	for _, p := range res.Active() {
		names := make([]string, len(p.Covers))
		for i, c := range p.Covers {
			names[i] = cs[c].Name
		}
		t.AppendRow(table.Row{p.Key, fmt.Sprintf("%.4f", p.Value), p.Rows(), strings.Join(names, " ")})
	}
	t.AppendFooter(table.Row{"objective", fmt.Sprintf("%.4f", res.Objective), res.Rows(), ""})
	t.Render()
}

// RenderItemsets 打印频繁项集及其支持度
func RenderItemsets(w io.Writer, itemsets []mining.Itemset, size int) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("FREQUENT ITEMSETS (%d)", len(itemsets)))
	t.AppendHeader(table.Row{"Itemset", "Support", "Relative"})
	for _, s := range itemsets {
		rel := 0.0
		if size > 0 {
			rel = float64(s.Support) / float64(size)
		}
		t.AppendRow(table.Row{s.Key(), s.Support, fmt.Sprintf("%.4f", rel)})
	}
	t.Render()
}

// RenderConstraintSet 打印待求解的约束
func RenderConstraintSet(w io.Writer, cs []*constraint.Constraint) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetTitle(fmt.Sprintf("CONSTRAINTS (%d)", len(cs)))
	t.AppendHeader(table.Row{"Name", "Kind", "Lower", "Upper", "Items"})
	for _, c := range cs {
		t.AppendRow(table.Row{c.Name, c.Kind, c.LowerBound, c.UpperBound, mining.ItemsKey(c.Items())})
	}
	t.Render()
}
