package constraint

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/table"
)

var (
	ErrUnknownAttribute = errors.New("constraint: unknown attribute")
	ErrValueOutOfDomain = errors.New("constraint: value outside attribute domain")
	ErrKindMismatch     = errors.New("constraint: attribute kind mismatch")
)

// Constraint 项集支持度约束。Frequency约束上下界都生效，Infrequency约束只有上界
type Constraint struct {
	Name       string
	Kind       enum.ConstraintKind
	LowerBound int
	UpperBound int
	Single     map[string]int
	Multi      map[string][]int
}

// New 负的界截断为0，Infrequency约束下界固定为0
func New(name string, kind enum.ConstraintKind, lower, upper int, single map[string]int, multi map[string][]int) *Constraint {
	if lower < 0 {
		lower = 0
	}
	if upper < 0 {
		upper = 0
	}
	if kind == enum.Infrequency {
		lower = 0
	}
	c := &Constraint{Name: name, Kind: kind, LowerBound: lower, UpperBound: upper,
		Single: make(map[string]int, len(single)), Multi: make(map[string][]int, len(multi))}
	for a, v := range single {
		c.Single[a] = v
	}
	for a, vs := range multi {
		vs = slices.Clone(vs)
		slices.Sort(vs)
		c.Multi[a] = slices.Compact(vs)
	}
	return c
}

// FromItems 按表的属性类型把item分到单值/多值要求中
func FromItems(name string, kind enum.ConstraintKind, lower, upper int, items []table.Item, tbl *table.Table) (*Constraint, error) {
	single := map[string]int{}
	multi := map[string][]int{}
	for _, it := range items {
		attr, ok := tbl.Attribute(it.Attr)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAttribute, it.Attr)
		}
		if attr.Kind == enum.MultiValue {
			multi[it.Attr] = append(multi[it.Attr], it.Value)
			continue
		}
		if v, dup := single[it.Attr]; dup && v != it.Value {
			return nil, fmt.Errorf("%w: %s requires both %d and %d", ErrKindMismatch, it.Attr, v, it.Value)
		}
		single[it.Attr] = it.Value
	}
	return New(name, kind, lower, upper, single, multi), nil
}

// SatisfiedBy 单值要求全部相等且多值要求是行中集合的子集
func (c *Constraint) SatisfiedBy(r table.Row) bool {
	for a, v := range c.Single {
		got, ok := r.Single[a]
		if !ok || got != v {
			return false
		}
	}
	for a, req := range c.Multi {
		set, ok := r.Multi[a]
		if !ok && len(req) > 0 {
			return false
		}
		for _, v := range req {
			if !slices.Contains(set, v) {
				return false
			}
		}
	}
	return true
}

// Items 约束要求的全部item，有序
func (c *Constraint) Items() []table.Item {
	items := make([]table.Item, 0, len(c.Single)+len(c.Multi))
	for a, v := range c.Single {
		items = append(items, table.Item{Attr: a, Value: v})
	}
	for a, vs := range c.Multi {
		for _, v := range vs {
			items = append(items, table.Item{Attr: a, Value: v})
		}
	}
	table.SortItems(items)
	return items
}

// Validate 属性必须存在且类型一致，值必须在属性值域内
func (c *Constraint) Validate(tbl *table.Table) error {
	domains := map[string][]int{}
	domain := func(a string) []int {
		if d, ok := domains[a]; ok {
			return d
		}
		d := tbl.Domain(a)
		domains[a] = d
		return d
	}
	check := func(a string, kind enum.AttributeKind, values ...int) error {
		attr, ok := tbl.Attribute(a)
		if !ok {
			return fmt.Errorf("%w: %s in %s", ErrUnknownAttribute, a, c.Name)
		}
		if attr.Kind != kind {
			return fmt.Errorf("%w: %s is %s in %s", ErrKindMismatch, a, attr.Kind, c.Name)
		}
		for _, v := range values {
			if _, found := slices.BinarySearch(domain(a), v); !found {
				return fmt.Errorf("%w: %s=%d in %s", ErrValueOutOfDomain, a, v, c.Name)
			}
		}
		return nil
	}
	for _, a := range sortedKeys(c.Single) {
		if err := check(a, enum.SingleValue, c.Single[a]); err != nil {
			return err
		}
	}
	for _, a := range sortedKeys(c.Multi) {
		if err := check(a, enum.MultiValue, c.Multi[a]...); err != nil {
			return err
		}
	}
	return nil
}

func (c *Constraint) String() string {
	parts := make([]string, 0, len(c.Single)+len(c.Multi))
	for _, a := range sortedKeys(c.Single) {
		parts = append(parts, fmt.Sprintf("%s=%d", a, c.Single[a]))
	}
	for _, a := range sortedKeys(c.Multi) {
		parts = append(parts, fmt.Sprintf("%s⊇%v", a, c.Multi[a]))
	}
	return fmt.Sprintf("%s %s [%d,%d] {%s}", c.Name, c.Kind, c.LowerBound, c.UpperBound, strings.Join(parts, ", "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := maps.Keys(m)
	slices.Sort(keys)
	return keys
}
