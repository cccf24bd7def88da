package constraint

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"ifm-synth/ifm-share/global/enum"
)

type yamlConstraint struct {
	Name   string           `yaml:"name"`
	Kind   string           `yaml:"kind"`
	Lower  int              `yaml:"lower"`
	Upper  int              `yaml:"upper"`
	Single map[string]int   `yaml:"single,omitempty"`
	Multi  map[string][]int `yaml:"multi,omitempty"`
}

type yamlFile struct {
	Constraints []yamlConstraint `yaml:"constraints"`
}

// LoadYAML 读取外部给定的约束集合
func LoadYAML(path string) ([]*Constraint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseYAML(data)
}

func ParseYAML(data []byte) ([]*Constraint, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	out := make([]*Constraint, 0, len(f.Constraints))
	names := map[string]bool{}
	for i, yc := range f.Constraints {
		kind, ok := enum.ParseConstraintKind(yc.Kind)
		if !ok {
			return nil, fmt.Errorf("constraint #%d %s: unknown kind %q", i, yc.Name, yc.Kind)
		}
		if yc.Name == "" {
			return nil, fmt.Errorf("constraint #%d has no name", i)
		}
		if names[yc.Name] {
			return nil, fmt.Errorf("duplicate constraint %s", yc.Name)
		}
		names[yc.Name] = true
		if kind == enum.Frequency && yc.Lower > yc.Upper {
			return nil, fmt.Errorf("constraint %s: lower %d above upper %d", yc.Name, yc.Lower, yc.Upper)
		}
		out = append(out, New(yc.Name, kind, yc.Lower, yc.Upper, yc.Single, yc.Multi))
	}
	return out, nil
}

// SaveYAML 写出约束集合，可以再由LoadYAML读回
func SaveYAML(path string, cs []*Constraint) error {
	data, err := MarshalYAML(cs)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func MarshalYAML(cs []*Constraint) ([]byte, error) {
	f := yamlFile{Constraints: make([]yamlConstraint, 0, len(cs))}
	for _, c := range cs {
		f.Constraints = append(f.Constraints, yamlConstraint{
			Name:   c.Name,
			Kind:   c.Kind.String(),
			Lower:  c.LowerBound,
			Upper:  c.UpperBound,
			Single: c.Single,
			Multi:  c.Multi,
		})
	}
	return yaml.Marshal(&f)
}
