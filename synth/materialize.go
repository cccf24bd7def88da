package synth

import (
	"math"

	"ifm-synth/table"
)

// Rows 重数四舍五入后输出的行数
func (p PatternValue) Rows() int {
	return int(math.Round(p.Value))
}

// Materialize 每个重数大于0的模式输出 round(重数) 行，属性描述沿用源表
func (r *Result) Materialize(name string) (*table.Table, error) {
	out, err := table.New(name, r.attributes)
	if err != nil {
		return nil, err
	}
	for _, p := range r.Active() {
		for i := 0; i < p.Rows(); i++ {
			if err = out.AppendRow(p.Row); err != nil {
				return nil, err
			}
		}
	}
	return out, nil
}

// Rows 合成表的总行数
func (r *Result) Rows() int {
	total := 0
	for _, p := range r.Active() {
		total += p.Rows()
	}
	return total
}
