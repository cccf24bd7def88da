package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
)

const jobConf = `some free text
#INPUT_TABLE_NAME: data/sample.txt
#INPUT_TABLE_ATTRIBUTES: A SV B MV
#EMPTY_SET B
#MINIMUM_SUPPORT 0.5
#PROBLEM IFM_I
#SCALE_FACTOR: 2
#TIME_CUT 3
#FREQUENT_ITEMSETS yes
#UNKNOWN whatever
`

func TestParseJobConf(t *testing.T) {
	Convey("TestParseJobConf", t, func() {
		conf, err := ParseJobConf(strings.NewReader(jobConf))
		So(err, ShouldBeNil)
		So(conf.InputTableName, ShouldEqual, "data/sample.txt")
		So(conf.Attributes, ShouldResemble, []AttributeConf{{Name: "A", Kind: "SV"}, {Name: "B", Kind: "MV"}})
		So(conf.EmptySet, ShouldResemble, []string{"B"})
		So(conf.MinimumSupport, ShouldEqual, 0.5)
		So(conf.Problem, ShouldEqual, enum.IFM_I)
		So(conf.ScaleFactor, ShouldEqual, 2)
		So(conf.TimeCut, ShouldEqual, 3*time.Minute)
		So(conf.ShowFrequentItemsets, ShouldBeTrue)
		So(conf.ShowFrequencyConstraint, ShouldBeFalse)
		So(conf.OutputTableName, ShouldEqual, "data/sample.txt_synth")

		Convey("defaults", func() {
			conf, err := ParseJobConf(strings.NewReader("#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV\n"))
			So(err, ShouldBeNil)
			So(conf.MinimumSupport, ShouldEqual, ifm_config.MinimumSupport)
			So(conf.Problem, ShouldEqual, enum.IFM)
			So(conf.TimeCut, ShouldEqual, 0)
		})

		Convey("bad confs", func() {
			bad := []string{
				"#INPUT_TABLE_ATTRIBUTES A SV\n",
				"#INPUT_TABLE_NAME t\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A XX\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV A MV\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV\n#EMPTY_SET B\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV\n#MINIMUM_SUPPORT 1.5\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV\n#SCALE_FACTOR x\n",
				"#INPUT_TABLE_NAME t\n#INPUT_TABLE_ATTRIBUTES A SV\n#PROBLEM OTHER\n",
			}
			for _, b := range bad {
				_, err := ParseJobConf(strings.NewReader(b))
				So(err, ShouldNotBeNil)
			}
		})

		Convey("read from file", func() {
			path := filepath.Join(t.TempDir(), "job.conf")
			So(os.WriteFile(path, []byte(jobConf), 0644), ShouldBeNil)
			conf, err := ReadJobConf(path)
			So(err, ShouldBeNil)
			So(conf.Problem, ShouldEqual, enum.IFM_I)

			_, err = ReadJobConf(filepath.Join(t.TempDir(), "missing.conf"))
			So(err, ShouldNotBeNil)
		})
	})
}

func TestLoad(t *testing.T) {
	Convey("TestLoad", t, func() {
		Convey("missing file gives defaults", func() {
			c, err := Load(t.TempDir())
			So(err, ShouldBeNil)
			So(c.Server.HttpPort, ShouldEqual, ifm_config.GinPort)
			So(c.Solver.PoolCapacity, ShouldEqual, ifm_config.PoolCapacity)
			So(c.Solver.ReducedCostEpsilon, ShouldEqual, ifm_config.ReducedCostEpsilon)
			So(c.Solver.OutputDir, ShouldEqual, ifm_config.OutputDir)
			So(c, ShouldResemble, Default())
		})

		Convey("file overrides defaults", func() {
			dir := t.TempDir()
			yml := "server_config:\n  http_port: \"8080\"\nsolver_config:\n  pool_capacity: 5\n  export_dot: true\n"
			So(os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0644), ShouldBeNil)
			c, err := Load(dir)
			So(err, ShouldBeNil)
			So(c.Server.HttpPort, ShouldEqual, "8080")
			So(c.Solver.PoolCapacity, ShouldEqual, 5)
			So(c.Solver.ExportDot, ShouldBeTrue)
			So(c.Solver.NodeLimit, ShouldEqual, ifm_config.NodeLimit)
		})
	})
}
