package report

import (
	"fmt"
	"os"
	"strconv"

	"github.com/awalterschulze/gographviz"

	"ifm-synth/constraint"
	"ifm-synth/ifm-share/base/logger"
	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/synth"
)

// CoverageGraph 模式与约束的覆盖关系，只包含重数大于0的模式
func CoverageGraph(res *synth.Result, cs []*constraint.Constraint) (*gographviz.Graph, error) {
	graphAst, err := gographviz.Parse([]byte(`digraph G{}`))
	if err != nil {
		return nil, err
	}
	graph := gographviz.NewGraph()
	if err = gographviz.Analyse(graphAst, graph); err != nil {
		return nil, err
	}
	if err = graph.AddAttr("G", "rankdir", "LR"); err != nil {
		return nil, err
	}

	for _, c := range cs {
		shape := "box"
		if c.Kind == enum.Infrequency {
			shape = "octagon"
		}
		attrs := map[string]string{
			"shape": shape,
			"label": fmt.Sprintf(`"%s [%d,%d]"`, c.Name, c.LowerBound, c.UpperBound),
		}
		if err = graph.AddNode("G", nodeID(c.Name), attrs); err != nil {
			return nil, err
		}
	}
	for i, p := range res.Active() {
		id := fmt.Sprintf("p%d", i)
		attrs := map[string]string{
			"shape": "ellipse",
			"label": fmt.Sprintf(`"%s x%d"`, p.Key, p.Rows()),
		}
		if err = graph.AddNode("G", id, attrs); err != nil {
			return nil, err
		}
		for _, c := range p.Covers {
			if err = graph.AddEdge(id, nodeID(cs[c].Name), true, nil); err != nil {
				return nil, err
			}
		}
	}
	return graph, nil
}

func nodeID(name string) string {
	return strconv.Quote(name)
}

// ExportDot 写出dot文件
func ExportDot(path string, res *synth.Result, cs []*constraint.Constraint) error {
	graph, err := CoverageGraph(res, cs)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		logger.Errorf("error when open file:%s--%v", path, err)
		return err
	}
	if _, err = out.WriteString(graph.String()); err != nil {
		logger.Errorf("error when write to file:%s--%v", path, err)
		out.Close()
		return err
	}
	return out.Close()
}
