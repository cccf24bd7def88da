package utils

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/constraint"
	"ifm-synth/synth"
	"ifm-synth/table"
)

func TestToServiceError(t *testing.T) {
	Convey("TestToServiceError", t, func() {
		So(ToServiceError(nil), ShouldBeNil)

		cases := []struct {
			err  error
			code uint32
		}{
			{fmt.Errorf("x: %w", constraint.ErrUnknownAttribute), ErrColumnNotExist.Code},
			{fmt.Errorf("x: %w", constraint.ErrValueOutOfDomain), ErrValueOutOfDomain.Code},
			{fmt.Errorf("x: %w", synth.ErrBootstrapInfeasible), ErrBootstrap.Code},
			{fmt.Errorf("x: %w", synth.ErrMasterInfeasible), ErrMasterInfeasible.Code},
			{synth.ErrNoConstraints, ErrConstraintDerivate.Code},
			{fmt.Errorf("x: %w", table.ErrRowShape), ErrReadTable.Code},
			{errors.New("other"), ErrSynthesis.Code},
			{ErrParameter.Wrap(errors.New("bad")), ErrParameter.Code},
		}
		for _, c := range cases {
			se := ToServiceError(c.err)
			So(se.Code, ShouldEqual, c.code)
			So(errors.Is(se, c.err), ShouldBeTrue)
		}

		wrapped := ErrReadTable.Wrap(errors.New("io"))
		So(errors.Is(wrapped, ErrReadTable), ShouldBeTrue)
		So(errors.Is(wrapped, ErrWriteTable), ShouldBeFalse)
		So(wrapped.Error(), ShouldContainSubstring, "code=500010")
	})
}

func TestCsv(t *testing.T) {
	Convey("TestCsv", t, func() {
		path := filepath.Join(t.TempDir(), "a", "b.csv")
		data := [][]string{{"name", "ok"}, {"fc0", "true"}}
		So(CreateCsv(path, data), ShouldBeNil)
		back, err := GetCsvData(path)
		So(err, ShouldBeNil)
		So(back, ShouldResemble, data)

		_, err = GetCsvData(filepath.Join(t.TempDir(), "missing.csv"))
		So(errors.Is(err, ErrOpenCsv), ShouldBeTrue)
	})
}
