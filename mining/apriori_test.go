package mining

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/table"
)

func item(attr string, v int) table.Item {
	return table.Item{Attr: attr, Value: v}
}

func TestApriori(t *testing.T) {
	txs := [][]table.Item{
		{item("A", 1), item("B", 10), item("B", 11)},
		{item("A", 1), item("B", 10)},
		{item("A", 2), item("B", 10)},
		{item("A", 1), item("B", 11)},
	}

	Convey("TestApriori", t, func() {
		Convey("half support", func() {
			got := Apriori(txs, 0.5)
			keys := make([]string, len(got))
			supports := make([]int, len(got))
			for i, s := range got {
				keys[i] = s.Key()
				supports[i] = s.Support
			}
			So(keys, ShouldResemble, []string{"A=1", "B=10", "B=11", "A=1,B=10", "A=1,B=11"})
			So(supports, ShouldResemble, []int{3, 3, 2, 2, 2})
		})

		Convey("full support keeps nothing", func() {
			So(Apriori(txs, 1), ShouldBeEmpty)
		})

		Convey("low support reaches the triple", func() {
			got := Apriori(txs, 0.25)
			last := got[len(got)-1]
			So(last.Key(), ShouldEqual, "A=1,B=10,B=11")
			So(last.Support, ShouldEqual, 1)
		})

		Convey("empty input", func() {
			So(Apriori(nil, 0.1), ShouldBeNil)
		})
	})
}
