package table

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/parquet-go/parquet-go"
	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/ifm-share/global/enum"
)

var testAttrs = []Attribute{
	{Name: "A", Kind: enum.SingleValue},
	{Name: "B", Kind: enum.MultiValue},
}

const testData = `1; 10 11
1; 10;
2;
3; 11 10 11
`

func TestRead(t *testing.T) {
	Convey("TestRead", t, func() {
		tbl, err := Read(strings.NewReader(testData), "t", testAttrs)
		So(err, ShouldBeNil)
		So(tbl.Size(), ShouldEqual, 4)

		Convey("multi value sets are sorted and deduplicated", func() {
			So(tbl.Row(3).Multi["B"], ShouldResemble, []int{10, 11})
			So(tbl.Row(2).Multi["B"], ShouldBeEmpty)
		})

		Convey("domains", func() {
			So(tbl.Domain("A"), ShouldResemble, []int{1, 2, 3})
			So(tbl.Domain("B"), ShouldResemble, []int{10, 11})
			So(tbl.Domain("C"), ShouldBeEmpty)
		})

		Convey("write keeps the delimited format", func() {
			var buf bytes.Buffer
			So(tbl.Write(&buf), ShouldBeNil)
			So(buf.String(), ShouldEqual, "1; 10 11\n1; 10\n2; \n3; 10 11\n")

			again, err := Read(&buf, "t", testAttrs)
			So(err, ShouldBeNil)
			for i := 0; i < tbl.Size(); i++ {
				So(again.Row(i).Key(), ShouldEqual, tbl.Row(i).Key())
			}
		})

		Convey("transactions", func() {
			txs := tbl.Transactions()
			So(len(txs), ShouldEqual, 4)
			So(txs[0], ShouldResemble, []Item{{"A", 1}, {"B", 10}, {"B", 11}})
			So(txs[2], ShouldResemble, []Item{{"A", 2}})
		})
	})

	Convey("TestReadBadInput", t, func() {
		_, err := Read(strings.NewReader("1; 2; 3\n"), "t", testAttrs)
		So(err, ShouldWrap, ErrRowShape)

		_, err = Read(strings.NewReader("x; 2\n"), "t", testAttrs)
		So(err, ShouldNotBeNil)

		_, err = New("t", []Attribute{{Name: "A"}, {Name: "A"}})
		So(err, ShouldWrap, ErrDuplicateAttr)
	})
}

func TestRowKey(t *testing.T) {
	Convey("TestRowKey", t, func() {
		a := Row{Single: map[string]int{"A": 1}, Multi: map[string][]int{"B": {11, 10}}}
		b := Row{Single: map[string]int{"A": 1}, Multi: map[string][]int{"B": {10, 11, 10}}}
		So(a.Key(), ShouldEqual, b.Key())
		So(a.Key(), ShouldEqual, "A=1|B={10,11}")

		c := a.Clone()
		c.Multi["B"][0] = 99
		So(a.Multi["B"][0], ShouldEqual, 11)
		So(c.Key(), ShouldNotEqual, a.Key())
	})
}

func TestIndex(t *testing.T) {
	Convey("TestIndex", t, func() {
		tbl, err := Read(strings.NewReader(testData), "t", testAttrs)
		So(err, ShouldBeNil)
		ix := BuildIndex(tbl)

		So(ix.Count(nil), ShouldEqual, 4)
		So(ix.Count([]Item{{"A", 1}}), ShouldEqual, 2)
		So(ix.Count([]Item{{"B", 10}, {"B", 11}}), ShouldEqual, 2)
		So(ix.Count([]Item{{"A", 1}, {"B", 11}}), ShouldEqual, 1)
		So(ix.Count([]Item{{"A", 7}}), ShouldEqual, 0)
		So(ix.Rows([]Item{{"A", 1}, {"B", 10}}).ToArray(), ShouldResemble, []uint32{0, 1})
	})
}

func TestExportParquet(t *testing.T) {
	Convey("TestExportParquet", t, func() {
		tbl, err := Read(strings.NewReader(testData), "t", testAttrs)
		So(err, ShouldBeNil)

		path := filepath.Join(t.TempDir(), "t.parquet")
		So(tbl.ExportParquet(path), ShouldBeNil)

		f, err := os.Open(path)
		So(err, ShouldBeNil)
		defer f.Close()
		st, err := f.Stat()
		So(err, ShouldBeNil)

		pf, err := parquet.OpenFile(f, st.Size())
		So(err, ShouldBeNil)
		So(pf.NumRows(), ShouldEqual, int64(len(tbl.Cells())))
		So(len(tbl.Cells()), ShouldEqual, 9)
	})
}

func TestWriteFile(t *testing.T) {
	Convey("TestWriteFile", t, func() {
		tbl, err := Read(strings.NewReader(testData), "t", testAttrs)
		So(err, ShouldBeNil)
		path := filepath.Join(t.TempDir(), "out", "t_synth")
		So(tbl.WriteFile(path), ShouldBeNil)

		back, err := ReadFile(path, testAttrs)
		So(err, ShouldBeNil)
		So(back.Size(), ShouldEqual, tbl.Size())
		So(back.Name, ShouldEqual, "t_synth")
	})
}
