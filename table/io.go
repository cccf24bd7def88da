package table

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/LinkinStars/golang-util/gu"

	"ifm-synth/ifm-share/global/enum"
	"ifm-synth/ifm_config"
)

// ReadFile 读取分号分隔的表文件，表名取文件名
func ReadFile(path string, attrs []Attribute) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, filepath.Base(path), attrs)
}

// Read 每行一条记录，字段按属性顺序以;分隔，多值字段内以空格分隔，允许行尾多一个;
func Read(r io.Reader, name string, attrs []Attribute) (*Table, error) {
	t, err := New(name, attrs)
	if err != nil {
		return nil, err
	}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row, err := parseLine(line, attrs)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
		if err = t.AppendRow(row); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", name, lineNo, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return t, nil
}

func parseLine(line string, attrs []Attribute) (Row, error) {
	fields := strings.Split(line, ifm_config.FieldSeparator)
	if len(fields) == len(attrs)+1 && strings.TrimSpace(fields[len(fields)-1]) == "" {
		fields = fields[:len(attrs)]
	}
	if len(fields) != len(attrs) {
		return Row{}, fmt.Errorf("%w: got %d fields, want %d", ErrRowShape, len(fields), len(attrs))
	}
	row := NewRow()
	for i, a := range attrs {
		field := strings.TrimSpace(fields[i])
		if a.Kind == enum.MultiValue {
			tokens := strings.Fields(field)
			values := make([]int, 0, len(tokens))
			for _, tok := range tokens {
				v, err := strconv.Atoi(tok)
				if err != nil {
					return Row{}, fmt.Errorf("attribute %s: %w", a.Name, err)
				}
				values = append(values, v)
			}
			row.Multi[a.Name] = values
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return Row{}, fmt.Errorf("attribute %s: %w", a.Name, err)
		}
		row.Single[a.Name] = v
	}
	return row, nil
}

// Write 按读取时的格式写出，字段之间用"; "
func (t *Table) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fields := make([]string, len(t.attributes))
	for i := 0; i < t.size; i++ {
		for j, a := range t.attributes {
			if a.Kind == enum.MultiValue {
				fields[j] = joinInts(t.multi[a.Name][i], ifm_config.ValueSeparator)
			} else {
				fields[j] = strconv.Itoa(t.single[a.Name][i])
			}
		}
		if _, err := bw.WriteString(strings.Join(fields, ifm_config.OutputFieldSeparator)); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteFile 写到文件，目录不存在时创建
func (t *Table) WriteFile(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := gu.CreateDirIfNotExist(dir); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err = t.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func joinInts(values []int, sep string) string {
	s := make([]string, len(values))
	for i, v := range values {
		s[i] = strconv.Itoa(v)
	}
	return strings.Join(s, sep)
}
