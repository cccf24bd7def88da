package table

import (
	"os"

	"github.com/parquet-go/parquet-go"

	"ifm-synth/ifm-share/global/enum"
)

// Cell 长表格式的一条记录，多值属性每个值一条，空集合不输出
type Cell struct {
	Row       int64  `parquet:"row"`
	Attribute string `parquet:"attribute"`
	Value     int64  `parquet:"value"`
}

// Cells 按行号、属性顺序展开
func (t *Table) Cells() []Cell {
	cells := make([]Cell, 0, t.size*len(t.attributes))
	for i := 0; i < t.size; i++ {
		for _, a := range t.attributes {
			if a.Kind == enum.MultiValue {
				for _, v := range t.multi[a.Name][i] {
					cells = append(cells, Cell{Row: int64(i), Attribute: a.Name, Value: int64(v)})
				}
				continue
			}
			cells = append(cells, Cell{Row: int64(i), Attribute: a.Name, Value: int64(t.single[a.Name][i])})
		}
	}
	return cells
}

// ExportParquet 以长表格式导出
func (t *Table) ExportParquet(path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := parquet.NewWriter(file, parquet.SchemaOf(Cell{}))
	for _, c := range t.Cells() {
		if err := writer.Write(c); err != nil {
			return err
		}
	}
	return writer.Close()
}
