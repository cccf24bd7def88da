package constraint

import (
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/mining"
	"ifm-synth/table"
)

func sampleTable() *table.Table {
	attrs := []table.Attribute{{Name: "A", Kind: enum.SingleValue}, {Name: "B", Kind: enum.MultiValue}}
	tbl, err := table.Read(strings.NewReader("1; 10 11\n1; 10\n2; 10\n1; 11\n"), "sample", attrs)
	if err != nil {
		panic(err)
	}
	return tbl
}

func TestSatisfiedBy(t *testing.T) {
	Convey("TestSatisfiedBy", t, func() {
		c := New("c", enum.Frequency, 0, 1, map[string]int{"A": 1}, map[string][]int{"B": {11, 10}})
		So(c.Multi["B"], ShouldResemble, []int{10, 11})

		row := table.Row{Single: map[string]int{"A": 1}, Multi: map[string][]int{"B": {10, 11, 12}}}
		So(c.SatisfiedBy(row), ShouldBeTrue)
		row.Multi["B"] = []int{10}
		So(c.SatisfiedBy(row), ShouldBeFalse)
		row = table.Row{Single: map[string]int{"A": 2}, Multi: map[string][]int{"B": {10, 11}}}
		So(c.SatisfiedBy(row), ShouldBeFalse)

		empty := New("all", enum.Frequency, 0, 1, nil, nil)
		So(empty.SatisfiedBy(table.NewRow()), ShouldBeTrue)
	})

	Convey("TestNewClampsBounds", t, func() {
		c := New("ic", enum.Infrequency, 3, -2, nil, nil)
		So(c.LowerBound, ShouldEqual, 0)
		So(c.UpperBound, ShouldEqual, 0)
	})
}

func TestValidate(t *testing.T) {
	tbl := sampleTable()
	Convey("TestValidate", t, func() {
		So(New("ok", enum.Frequency, 0, 1, map[string]int{"A": 2}, map[string][]int{"B": {11}}).Validate(tbl), ShouldBeNil)
		So(New("x", enum.Frequency, 0, 1, map[string]int{"A": 3}, nil).Validate(tbl), ShouldWrap, ErrValueOutOfDomain)
		So(New("x", enum.Frequency, 0, 1, nil, map[string][]int{"B": {12}}).Validate(tbl), ShouldWrap, ErrValueOutOfDomain)
		So(New("x", enum.Frequency, 0, 1, map[string]int{"C": 1}, nil).Validate(tbl), ShouldWrap, ErrUnknownAttribute)
		So(New("x", enum.Frequency, 0, 1, map[string]int{"B": 10}, nil).Validate(tbl), ShouldWrap, ErrKindMismatch)
	})
}

func TestDerive(t *testing.T) {
	tbl := sampleTable()
	itemsets := mining.Apriori(tbl.Transactions(), 0.5)

	Convey("TestDerive", t, func() {
		Convey("frequency constraints", func() {
			fcs, err := BuildFrequency(itemsets, tbl, 0.5, 1)
			So(err, ShouldBeNil)
			So(len(fcs), ShouldEqual, 5)
			So(fcs[0].Name, ShouldEqual, "fc0")
			So(fcs[0].Single, ShouldResemble, map[string]int{"A": 1})
			So(fcs[0].LowerBound, ShouldEqual, 3)
			So(fcs[0].UpperBound, ShouldEqual, 3)
			So(fcs[4].Single, ShouldResemble, map[string]int{"A": 1})
			So(fcs[4].Multi, ShouldResemble, map[string][]int{"B": {11}})
			So(fcs[4].LowerBound, ShouldEqual, 2)

			ix := table.BuildIndex(tbl)
			for _, c := range fcs {
				So(ix.Count(c.Items()), ShouldEqual, c.LowerBound)
			}

			scaled, err := BuildFrequency(itemsets, tbl, 0.5, 2.5)
			So(err, ShouldBeNil)
			So(scaled[2].UpperBound, ShouldEqual, 5)
		})

		Convey("frontier and infrequency constraints", func() {
			frontier := Frontier(itemsets, tbl, 0.5)
			So(len(frontier), ShouldEqual, 2)
			So(mining.ItemsKey(frontier[0]), ShouldEqual, "A=2")
			So(mining.ItemsKey(frontier[1]), ShouldEqual, "B=10,B=11")

			ics, err := BuildInfrequency(frontier, tbl, 0.5, 1)
			So(err, ShouldBeNil)
			So(len(ics), ShouldEqual, 2)
			So(ics[0].Name, ShouldEqual, "ic0")
			So(ics[0].Kind, ShouldEqual, enum.Infrequency)
			So(ics[0].UpperBound, ShouldEqual, 1)
			So(ics[1].Multi, ShouldResemble, map[string][]int{"B": {10, 11}})
		})
	})
}

func TestYAML(t *testing.T) {
	Convey("TestYAML", t, func() {
		cs := []*Constraint{
			New("fc0", enum.Frequency, 2, 2, map[string]int{"A": 1}, nil),
			New("ic0", enum.Infrequency, 0, 0, nil, map[string][]int{"B": {10, 11}}),
		}
		path := filepath.Join(t.TempDir(), "constraints.yml")
		So(SaveYAML(path, cs), ShouldBeNil)

		back, err := LoadYAML(path)
		So(err, ShouldBeNil)
		So(len(back), ShouldEqual, 2)
		So(back[0].String(), ShouldEqual, cs[0].String())
		So(back[1].String(), ShouldEqual, cs[1].String())

		_, err = ParseYAML([]byte("constraints:\n  - name: x\n    kind: sometimes\n"))
		So(err, ShouldNotBeNil)
		_, err = ParseYAML([]byte("constraints:\n  - name: x\n    kind: fc\n  - name: x\n    kind: fc\n"))
		So(err, ShouldNotBeNil)
	})
}
