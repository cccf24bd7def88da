package table

import (
	"github.com/RoaringBitmap/roaring/v2"
)

// Index 每个(属性,值)对应出现该值的行号位图
type Index struct {
	size    int
	bitmaps map[Item]*roaring.Bitmap
}

func BuildIndex(t *Table) *Index {
	ix := &Index{size: t.size, bitmaps: map[Item]*roaring.Bitmap{}}
	add := func(it Item, row int) {
		bm, ok := ix.bitmaps[it]
		if !ok {
			bm = roaring.New()
			ix.bitmaps[it] = bm
		}
		bm.Add(uint32(row))
	}
	for a, col := range t.single {
		for i, v := range col {
			add(Item{Attr: a, Value: v}, i)
		}
	}
	for a, col := range t.multi {
		for i, vs := range col {
			for _, v := range vs {
				add(Item{Attr: a, Value: v}, i)
			}
		}
	}
	for _, bm := range ix.bitmaps {
		bm.RunOptimize()
	}
	return ix
}

// Rows 同时包含全部items的行，items为空时返回全部行
func (ix *Index) Rows(items []Item) *roaring.Bitmap {
	if len(items) == 0 {
		all := roaring.New()
		all.AddRange(0, uint64(ix.size))
		return all
	}
	bms := make([]*roaring.Bitmap, 0, len(items))
	for _, it := range items {
		bm, ok := ix.bitmaps[it]
		if !ok {
			return roaring.New()
		}
		bms = append(bms, bm)
	}
	if len(bms) == 1 {
		return bms[0].Clone()
	}
	return roaring.FastAnd(bms...)
}

// Count 支持度
func (ix *Index) Count(items []Item) int {
	return int(ix.Rows(items).GetCardinality())
}
