package table

import (
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Item 属性限定的值，A=1 与 B=1 是不同的item
type Item struct {
	Attr  string
	Value int
}

func (i Item) String() string {
	return i.Attr + "=" + strconv.Itoa(i.Value)
}

// Less 先按属性名再按值排序
func (i Item) Less(o Item) bool {
	if i.Attr != o.Attr {
		return i.Attr < o.Attr
	}
	return i.Value < o.Value
}

// SortItems 原地排序
func SortItems(items []Item) {
	slices.SortFunc(items, func(a, b Item) bool { return a.Less(b) })
}

// Row 一行数据，也作为模式(pattern)使用
type Row struct {
	Single map[string]int
	Multi  map[string][]int
}

func NewRow() Row {
	return Row{Single: map[string]int{}, Multi: map[string][]int{}}
}

// Clone 深拷贝
func (r Row) Clone() Row {
	c := NewRow()
	for k, v := range r.Single {
		c.Single[k] = v
	}
	for k, v := range r.Multi {
		c.Multi[k] = slices.Clone(v)
	}
	return c
}

// Key 模式的规范化标识，属性按名字排序，多值集合排序去重
func (r Row) Key() string {
	attrs := append(maps.Keys(r.Single), maps.Keys(r.Multi)...)
	slices.Sort(attrs)
	var sb strings.Builder
	for i, a := range attrs {
		if i > 0 {
			sb.WriteByte('|')
		}
		sb.WriteString(a)
		sb.WriteByte('=')
		if v, ok := r.Single[a]; ok {
			sb.WriteString(strconv.Itoa(v))
			continue
		}
		sb.WriteByte('{')
		for j, v := range normalize(r.Multi[a]) {
			if j > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(strconv.Itoa(v))
		}
		sb.WriteByte('}')
	}
	return sb.String()
}

func (r Row) String() string {
	return r.Key()
}

// Items 行中出现的全部item，有序
func (r Row) Items() []Item {
	items := make([]Item, 0, len(r.Single)+len(r.Multi))
	for a, v := range r.Single {
		items = append(items, Item{Attr: a, Value: v})
	}
	for a, vs := range r.Multi {
		for _, v := range vs {
			items = append(items, Item{Attr: a, Value: v})
		}
	}
	SortItems(items)
	return items
}

// normalize 排序去重，返回新切片
func normalize(values []int) []int {
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
