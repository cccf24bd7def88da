package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/base/config"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/table"
	"ifm-synth/utils"
)

var abAttrs = []table.Attribute{
	{Name: "A", Kind: enum.SingleValue},
	{Name: "B", Kind: enum.MultiValue},
}

func prepare(t *testing.T) (string, string) {
	dir := t.TempDir()
	input := filepath.Join(dir, "ab.txt")
	if err := os.WriteFile(input, []byte("1; 10 11\n1; 10\n2; 11\n3; 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	c := config.Default()
	c.Solver.OutputDir = filepath.Join(dir, "result")
	c.Solver.ExportDot = true
	c.Solver.ExportParquet = true
	config.All = c
	return dir, input
}

func abJob(input string) *config.JobConf {
	job := config.NewJobConf()
	job.InputTableName = input
	job.Attributes = []config.AttributeConf{{Name: "A", Kind: enum.SV}, {Name: "B", Kind: enum.MV}}
	return job
}

func TestSynthesize(t *testing.T) {
	Convey("TestSynthesize", t, func() {
		dir, input := prepare(t)
		defer func() { config.All = nil }()

		Convey("constraints from yaml", func() {
			cs := []*constraint.Constraint{
				constraint.New("fc0", enum.Frequency, 2, 2, map[string]int{"A": 1}, nil),
				constraint.New("ic0", enum.Infrequency, 0, 0, nil, map[string][]int{"B": {10, 11}}),
			}
			job := abJob(input)
			job.ConstraintsFile = filepath.Join(dir, "constraints.yml")
			So(constraint.SaveYAML(job.ConstraintsFile, cs), ShouldBeNil)
			job.ShowFrequencyConstraint = true
			So(job.Check(), ShouldBeNil)

			var buf bytes.Buffer
			res, err := Synthesize(context.Background(), "t1", job, &buf)
			So(err, ShouldBeNil)
			So(res.Status, ShouldEqual, enum.SYNTH_FINISH)
			So(res.Rows, ShouldEqual, 4)
			So(res.Constraints, ShouldEqual, 2)
			So(res.Violations, ShouldEqual, 0)
			So(res.OutputPath, ShouldEqual, filepath.Join(dir, "result", "ab.txt_synth"))
			So(buf.String(), ShouldContainSubstring, "CONSTRAINT REPORT")

			out, err := table.ReadFile(res.OutputPath, abAttrs)
			So(err, ShouldBeNil)
			So(out.Size(), ShouldEqual, 4)
			So(table.BuildIndex(out).Count(cs[0].Items()), ShouldEqual, 2)

			for _, p := range []string{res.ReportPath, res.ParquetPath, res.DotPath} {
				_, err = os.Stat(p)
				So(err, ShouldBeNil)
			}
		})

		Convey("mined constraints", func() {
			job := abJob(input)
			job.MinimumSupport = 0.5
			job.Problem = enum.IFM_I
			job.ShowFrequentItemsets = true
			So(job.Check(), ShouldBeNil)

			var buf bytes.Buffer
			res, err := Synthesize(context.Background(), "t2", job, &buf)
			So(err, ShouldBeNil)
			So(res.Constraints, ShouldBeGreaterThan, 4)
			So(res.Rows, ShouldBeGreaterThan, 0)
			So(buf.String(), ShouldContainSubstring, "FREQUENT ITEMSETS")
		})

		Convey("missing input", func() {
			job := abJob(filepath.Join(dir, "missing.txt"))
			_, err := Synthesize(context.Background(), "t3", job, nil)
			So(err, ShouldWrap, utils.ErrReadTable)
		})

		Convey("unknown constraint value", func() {
			cs := []*constraint.Constraint{constraint.New("fc0", enum.Frequency, 1, 1, map[string]int{"A": 9}, nil)}
			job := abJob(input)
			job.ConstraintsFile = filepath.Join(dir, "bad.yml")
			So(constraint.SaveYAML(job.ConstraintsFile, cs), ShouldBeNil)
			_, err := Synthesize(context.Background(), "t4", job, nil)
			So(utils.ToServiceError(err).Code, ShouldEqual, utils.ErrValueOutOfDomain.Code)
		})
	})
}

func TestTaskRegistry(t *testing.T) {
	Convey("TestTaskRegistry", t, func() {
		_, input := prepare(t)
		defer func() { config.All = nil }()

		req := SynthRequest{Table: Table{Path: input, Attributes: []config.AttributeConf{{Name: "A", Kind: "SV"}, {Name: "B", Kind: "MV"}}}}
		job, err := req.JobConf()
		So(err, ShouldBeNil)
		So(job.Problem, ShouldEqual, enum.IFM)

		ctx, cancel := context.WithCancel(context.Background())
		task := RegisterTask("reg-1", job.InputTableName, cancel)
		So(task.Info().Status, ShouldEqual, enum.SYNTH_EXEC)

		got, err := GetTask("reg-1")
		So(err, ShouldBeNil)
		So(got, ShouldEqual, task)
		_, err = GetTask("nope")
		So(err, ShouldEqual, utils.ErrTaskNotExist)

		task.Stop()
		So(ctx.Err(), ShouldNotBeNil)
		res, err := Synthesize(ctx, "reg-1", job, nil)
		task.Finish(res, err)
		So(task.Info().Status, ShouldEqual, enum.SYNTH_FAIL)
		So(task.Info().ErrCode, ShouldEqual, utils.ErrSynthesis.Code)

		ids := map[string]bool{}
		for _, info := range ListTasks() {
			ids[info.TaskId] = true
		}
		So(ids["reg-1"], ShouldBeTrue)

		_, err = (&SynthRequest{}).JobConf()
		So(err, ShouldNotBeNil)
	})
}
