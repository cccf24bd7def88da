package table

import (
	"errors"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"ifm-synth/ifm-share/global/enum"
)

var (
	ErrUnknownAttribute = errors.New("table: unknown attribute")
	ErrDuplicateAttr    = errors.New("table: duplicate attribute")
	ErrRowShape         = errors.New("table: row does not match attributes")
)

// Attribute 属性描述
type Attribute struct {
	Name string
	Kind enum.AttributeKind
}

// Table 内存列存，单值列每行一个int，多值列每行一个有序去重的int集合
type Table struct {
	Name       string
	attributes []Attribute
	position   map[string]int
	single     map[string][]int
	multi      map[string][][]int
	size       int
}

func New(name string, attrs []Attribute) (*Table, error) {
	t := &Table{
		Name:       name,
		attributes: slices.Clone(attrs),
		position:   make(map[string]int, len(attrs)),
		single:     map[string][]int{},
		multi:      map[string][][]int{},
	}
	for i, a := range attrs {
		if _, ok := t.position[a.Name]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateAttr, a.Name)
		}
		t.position[a.Name] = i
		if a.Kind == enum.MultiValue {
			t.multi[a.Name] = nil
		} else {
			t.single[a.Name] = nil
		}
	}
	return t, nil
}

// Attributes 属性描述的副本，按表定义顺序
func (t *Table) Attributes() []Attribute {
	return slices.Clone(t.attributes)
}

func (t *Table) Attribute(name string) (Attribute, bool) {
	i, ok := t.position[name]
	if !ok {
		return Attribute{}, false
	}
	return t.attributes[i], true
}

func (t *Table) Size() int {
	return t.size
}

// AppendRow 追加一行，行必须恰好给出全部属性
func (t *Table) AppendRow(r Row) error {
	if len(r.Single)+len(r.Multi) != len(t.attributes) {
		return fmt.Errorf("%w: got %d fields, want %d", ErrRowShape, len(r.Single)+len(r.Multi), len(t.attributes))
	}
	for a := range r.Single {
		if _, ok := t.single[a]; !ok {
			return fmt.Errorf("%w: %s is not a single-value attribute", ErrRowShape, a)
		}
	}
	for a := range r.Multi {
		if _, ok := t.multi[a]; !ok {
			return fmt.Errorf("%w: %s is not a multi-value attribute", ErrRowShape, a)
		}
	}
	for a, v := range r.Single {
		t.single[a] = append(t.single[a], v)
	}
	for a, vs := range r.Multi {
		t.multi[a] = append(t.multi[a], normalize(vs))
	}
	t.size++
	return nil
}

// Row 第i行
func (t *Table) Row(i int) Row {
	r := NewRow()
	for a, col := range t.single {
		r.Single[a] = col[i]
	}
	for a, col := range t.multi {
		r.Multi[a] = slices.Clone(col[i])
	}
	return r
}

// Domain 列中出现过的值，有序去重，每次调用重新计算
func (t *Table) Domain(attr string) []int {
	seen := map[int]struct{}{}
	if col, ok := t.single[attr]; ok {
		for _, v := range col {
			seen[v] = struct{}{}
		}
	} else if col, ok := t.multi[attr]; ok {
		for _, vs := range col {
			for _, v := range vs {
				seen[v] = struct{}{}
			}
		}
	}
	domain := maps.Keys(seen)
	slices.Sort(domain)
	return domain
}

// Transactions 每行转成item列表，供频繁项集挖掘使用
func (t *Table) Transactions() [][]Item {
	txs := make([][]Item, t.size)
	for i := 0; i < t.size; i++ {
		items := make([]Item, 0, len(t.attributes))
		for _, a := range t.attributes {
			if a.Kind == enum.MultiValue {
				for _, v := range t.multi[a.Name][i] {
					items = append(items, Item{Attr: a.Name, Value: v})
				}
			} else {
				items = append(items, Item{Attr: a.Name, Value: t.single[a.Name][i]})
			}
		}
		txs[i] = items
	}
	return txs
}
