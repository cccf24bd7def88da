package mining

import (
	"strings"

	"github.com/yourbasic/bit"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/table"
)

// Itemset 频繁项集，Items有序，Support为出现的行数
type Itemset struct {
	Items   []table.Item
	Support int
}

func (s Itemset) Key() string {
	return ItemsKey(s.Items)
}

// ItemsKey 有序item列表的字符串标识
func ItemsKey(items []table.Item) string {
	parts := make([]string, len(items))
	for i, it := range items {
		parts[i] = it.String()
	}
	return strings.Join(parts, ",")
}

type candidate struct {
	items []table.Item
	rows  *bit.Set
}

// Apriori 逐层挖掘支持度不低于minSupport(占总行数比例)的项集，
// 每个项集用行号位集计数，k层候选由共享前k-2项的两个k-1层项集连接得到
func Apriori(transactions [][]table.Item, minSupport float64) []Itemset {
	n := len(transactions)
	if n == 0 {
		return nil
	}
	frequent := func(rows *bit.Set) bool {
		return float64(rows.Size())/float64(n) >= minSupport
	}

	tidsets := map[table.Item]*bit.Set{}
	for rowId, tx := range transactions {
		for _, it := range tx {
			if s, ok := tidsets[it]; ok {
				s.Add(rowId)
			} else {
				tidsets[it] = bit.New(rowId)
			}
		}
	}

	singles := maps.Keys(tidsets)
	table.SortItems(singles)
	var level []candidate
	for _, it := range singles {
		if frequent(tidsets[it]) {
			level = append(level, candidate{items: []table.Item{it}, rows: tidsets[it]})
		}
	}

	var result []Itemset
	for k := 1; len(level) > 0; k++ {
		for _, c := range level {
			result = append(result, Itemset{Items: c.items, Support: c.rows.Size()})
		}
		logger.Debugf("[Apriori] level:%d, frequent:%d", k, len(level))
		level = nextLevel(level, frequent)
	}
	return result
}

func nextLevel(level []candidate, frequent func(*bit.Set) bool) []candidate {
	known := make(map[string]bool, len(level))
	for _, c := range level {
		known[ItemsKey(c.items)] = true
	}
	var next []candidate
	for i := 0; i < len(level); i++ {
		for j := i + 1; j < len(level); j++ {
			a, b := level[i].items, level[j].items
			k := len(a)
			if !slices.Equal(a[:k-1], b[:k-1]) {
				// 同层有序，前缀不同后面也不会再相同
				break
			}
			items := append(slices.Clone(a), b[k-1])
			if !a[k-1].Less(b[k-1]) {
				items[k-1], items[k] = b[k-1], a[k-1]
			}
			if !subsetsFrequent(items, known) {
				continue
			}
			rows := new(bit.Set).SetAnd(level[i].rows, level[j].rows)
			if frequent(rows) {
				next = append(next, candidate{items: items, rows: rows})
			}
		}
	}
	slices.SortFunc(next, func(x, y candidate) bool {
		return lessItems(x.items, y.items)
	})
	return next
}

// subsetsFrequent 向下封闭性剪枝
func subsetsFrequent(items []table.Item, known map[string]bool) bool {
	if len(items) <= 2 {
		return true
	}
	sub := make([]table.Item, 0, len(items)-1)
	for skip := range items {
		sub = sub[:0]
		for i, it := range items {
			if i != skip {
				sub = append(sub, it)
			}
		}
		if !known[ItemsKey(sub)] {
			return false
		}
	}
	return true
}

func lessItems(a, b []table.Item) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i].Less(b[i])
		}
	}
	return len(a) < len(b)
}
