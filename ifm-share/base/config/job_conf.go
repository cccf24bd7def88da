package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
)

// AttributeConf 输入表的一个属性描述
type AttributeConf struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
}

// JobConf 一次合成任务的配置，对应CONF文件
type JobConf struct {
	InputTableName  string          `json:"inputTableName"`
	Attributes      []AttributeConf `json:"attributes"`
	EmptySet        []string        `json:"emptySet"`
	MinimumSupport  float64         `json:"minimumSupport"`
	OutputTableName string          `json:"outputTableName"`
	Problem         string          `json:"problem"`
	ScaleFactor     float64         `json:"scaleFactor"`
	// TimeCut 0 表示不限时
	TimeCut                 time.Duration `json:"timeCut"`
	ShowFrequentItemsets    bool          `json:"showFrequentItemsets"`
	ShowFrequencyConstraint bool          `json:"showFrequencyConstraints"`
	// ConstraintsFile 非空时直接读取yaml约束，跳过挖掘
	ConstraintsFile string `json:"constraintsFile"`
}

// NewJobConf 默认任务配置
func NewJobConf() *JobConf {
	return &JobConf{
		MinimumSupport: ifm_config.MinimumSupport,
		Problem:        enum.IFM,
		ScaleFactor:    ifm_config.ScaleFactor,
		TimeCut:        time.Duration(ifm_config.TimeCutMinutes) * time.Minute,
	}
}

// ReadJobConf 读取CONF文件
func ReadJobConf(path string) (*JobConf, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseJobConf(f)
}

// ParseJobConf 解析CONF格式，只处理以#开头的行，token以空格或冒号分隔
func ParseJobConf(r io.Reader) (*JobConf, error) {
	conf := NewJobConf()
	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if !strings.HasPrefix(line, "#") {
			continue
		}
		tokens := strings.FieldsFunc(line, func(r rune) bool {
			return r == ' ' || r == ':' || r == '\t'
		})
		if len(tokens) == 0 {
			continue
		}
		key, args := tokens[0], tokens[1:]
		if err := conf.apply(key, args); err != nil {
			return nil, fmt.Errorf("CONF line %d: %w", lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return conf, conf.Check()
}

func (c *JobConf) apply(key string, args []string) error {
	first := func() (string, error) {
		if len(args) == 0 {
			return "", fmt.Errorf("%s needs a value", key)
		}
		return args[0], nil
	}

	switch key {
	case "#INPUT_TABLE_NAME":
		v, err := first()
		if err != nil {
			return err
		}
		c.InputTableName = v
	case "#INPUT_TABLE_ATTRIBUTES":
		if len(args)%2 != 0 {
			return fmt.Errorf("%s expects name/kind pairs, got %d tokens", key, len(args))
		}
		c.Attributes = c.Attributes[:0]
		for i := 0; i < len(args); i += 2 {
			c.Attributes = append(c.Attributes, AttributeConf{Name: args[i], Kind: args[i+1]})
		}
	case "#EMPTY_SET":
		c.EmptySet = append(c.EmptySet, args...)
	case "#MINIMUM_SUPPORT":
		v, err := first()
		if err != nil {
			return err
		}
		if c.MinimumSupport, err = strconv.ParseFloat(v, 64); err != nil {
			return err
		}
	case "#OUTPUT_TABLE_NAME":
		v, err := first()
		if err != nil {
			return err
		}
		c.OutputTableName = v
	case "#PROBLEM":
		v, err := first()
		if err != nil {
			return err
		}
		c.Problem = v
	case "#SCALE_FACTOR":
		v, err := first()
		if err != nil {
			return err
		}
		if c.ScaleFactor, err = strconv.ParseFloat(v, 64); err != nil {
			return err
		}
	case "#TIME_CUT":
		v, err := first()
		if err != nil {
			return err
		}
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.TimeCut = time.Duration(minutes) * time.Minute
	case "#FREQUENT_ITEMSETS":
		v, err := first()
		if err != nil {
			return err
		}
		c.ShowFrequentItemsets = v == "yes"
	case "#FREQUENCY_CONSTRAINTS":
		v, err := first()
		if err != nil {
			return err
		}
		c.ShowFrequencyConstraint = v == "yes"
	case "#CONSTRAINTS_FILE":
		v, err := first()
		if err != nil {
			return err
		}
		c.ConstraintsFile = v
	}
	// 未知参数忽略
	return nil
}

// Check 校验任务配置
func (c *JobConf) Check() error {
	if c.InputTableName == "" {
		return fmt.Errorf("input table name is empty")
	}
	if len(c.Attributes) == 0 {
		return fmt.Errorf("input table has no attributes")
	}
	names := make(map[string]bool, len(c.Attributes))
	for _, a := range c.Attributes {
		if _, ok := enum.ParseAttributeKind(a.Kind); !ok {
			return fmt.Errorf("attribute %s has unknown kind %q", a.Name, a.Kind)
		}
		if names[a.Name] {
			return fmt.Errorf("duplicate attribute %s", a.Name)
		}
		names[a.Name] = true
	}
	for _, e := range c.EmptySet {
		if !names[e] {
			return fmt.Errorf("empty set attribute %s is not an input attribute", e)
		}
	}
	if c.Problem != enum.IFM && c.Problem != enum.IFM_I {
		return fmt.Errorf("unknown problem %q", c.Problem)
	}
	if c.MinimumSupport <= 0 || c.MinimumSupport > 1 {
		return fmt.Errorf("minimum support %v out of (0,1]", c.MinimumSupport)
	}
	if c.ScaleFactor <= 0 {
		return fmt.Errorf("scale factor %v must be positive", c.ScaleFactor)
	}
	if c.OutputTableName == "" {
		c.OutputTableName = c.InputTableName + "_synth"
	}
	return nil
}
