package constraint

import (
	"fmt"

	mapset "github.com/deckarep/golang-set"
	"golang.org/x/exp/slices"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
	"ifm-synth/mining"
	"ifm-synth/table"
)

func relativeSupport(s mining.Itemset, tbl *table.Table) float64 {
	if tbl.Size() == 0 {
		return 0
	}
	return float64(s.Support) / float64(tbl.Size())
}

// BuildFrequency 每个支持度不低于threshold的项集生成一个频繁约束，上下界都是 int(support*sf)
func BuildFrequency(itemsets []mining.Itemset, tbl *table.Table, threshold, sf float64) ([]*Constraint, error) {
	var out []*Constraint
	for _, s := range itemsets {
		if relativeSupport(s, tbl) < threshold {
			continue
		}
		bound := int(float64(s.Support) * sf)
		name := fmt.Sprintf("%s%d", ifm_config.FrequencyPrefix, len(out))
		c, err := FromItems(name, enum.Frequency, bound, bound, s.Items, tbl)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// BuildInfrequency 边界上的每个项集生成一个非频繁约束，上界为 int(threshold*size)-1 按比例缩放
func BuildInfrequency(frontier [][]table.Item, tbl *table.Table, threshold, sf float64) ([]*Constraint, error) {
	upper := int(threshold*float64(tbl.Size())) - 1
	if upper < 0 {
		upper = 0
	}
	bound := int(float64(upper) * sf)
	out := make([]*Constraint, 0, len(frontier))
	for i, items := range frontier {
		name := fmt.Sprintf("%s%d", ifm_config.InfrequencyPrefix, i)
		c, err := FromItems(name, enum.Infrequency, 0, bound, items, tbl)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// Frontier 最小非频繁项集的近似：逐属性把频繁项集扩展一个该属性的值，加上该属性的单元素集合，
// 去掉本身频繁的，再只保留极小元素。单值属性只扩展不含该属性值的项集
func Frontier(itemsets []mining.Itemset, tbl *table.Table, threshold float64) [][]table.Item {
	var frequent []mining.Itemset
	frequentKeys := mapset.NewSet()
	for _, s := range itemsets {
		if relativeSupport(s, tbl) >= threshold {
			frequent = append(frequent, s)
			frequentKeys.Add(s.Key())
		}
	}

	seen := mapset.NewSet()
	var out [][]table.Item
	for _, attr := range tbl.Attributes() {
		domain := tbl.Domain(attr.Name)
		cands := map[string][]table.Item{}
		add := func(items []table.Item) {
			table.SortItems(items)
			cands[mining.ItemsKey(items)] = items
		}

		for _, s := range frequent {
			if attr.Kind == enum.SingleValue && hasAttr(s.Items, attr.Name) {
				continue
			}
			for _, v := range domain {
				it := table.Item{Attr: attr.Name, Value: v}
				if slices.Contains(s.Items, it) {
					continue
				}
				add(append(slices.Clone(s.Items), it))
			}
		}
		for _, v := range domain {
			add([]table.Item{{Attr: attr.Name, Value: v}})
		}

		for key := range cands {
			if frequentKeys.Contains(key) {
				delete(cands, key)
			}
		}

		sets := make(map[string]mapset.Set, len(cands))
		for key, items := range cands {
			s := mapset.NewSet()
			for _, it := range items {
				s.Add(it)
			}
			sets[key] = s
		}
		for key, s := range sets {
			minimal := true
			for other, o := range sets {
				if other != key && o.IsProperSubset(s) {
					minimal = false
					break
				}
			}
			if minimal && !seen.Contains(key) {
				seen.Add(key)
				out = append(out, cands[key])
			}
		}
	}

	slices.SortFunc(out, func(a, b []table.Item) bool {
		if len(a) != len(b) {
			return len(a) < len(b)
		}
		return mining.ItemsKey(a) < mining.ItemsKey(b)
	})
	return out
}

func hasAttr(items []table.Item, attr string) bool {
	for _, it := range items {
		if it.Attr == attr {
			return true
		}
	}
	return false
}
