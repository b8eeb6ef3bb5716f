package language

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/randolang/randolang/phone"
)

// WriteCounts writes the model as text:
//
//	\data\
//	order=2
//	transitions=5
//
//	\transitions:
//	1	START START K
//	...
//	\end\
//
// Transition lines are sorted so identical models produce identical files.
func (m *Model) WriteCounts(w io.Writer) error {
	type line struct {
		key   string
		count int
	}
	var lines []line
	m.walk(func(t Transition, c int) bool {
		parts := make([]string, len(t))
		for i, p := range t {
			parts[i] = string(p)
		}
		lines = append(lines, line{strings.Join(parts, " "), c})
		return true
	}, nil)
	sort.Slice(lines, func(i, j int) bool { return lines[i].key < lines[j].key })

	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, "\\data\\")
	fmt.Fprintf(bw, "order=%d\n", m.order)
	fmt.Fprintf(bw, "transitions=%d\n", len(lines))
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "\\transitions:")
	for _, l := range lines {
		fmt.Fprintf(bw, "%d\t%s\n", l.count, l.key)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "\\end\\")
	return bw.Flush()
}

// LoadCounts reads a model written by WriteCounts.
func LoadCounts(r io.Reader) (*Model, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNum := 0
	next := func() (string, bool) {
		for scanner.Scan() {
			lineNum++
			line := strings.TrimSpace(scanner.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	line, ok := next()
	if !ok || line != "\\data\\" {
		return nil, fmt.Errorf("line %d: missing \\data\\ header", lineNum)
	}

	var m *Model
	declared := -1
	for {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("line %d: unexpected end of input in header", lineNum)
		}
		if line == "\\transitions:" {
			break
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			return nil, fmt.Errorf("line %d: malformed header %q", lineNum, line)
		}
		n, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		switch strings.TrimSpace(key) {
		case "order":
			if m, err = NewModel(n); err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNum, err)
			}
		case "transitions":
			declared = n
		}
	}
	if m == nil {
		return nil, fmt.Errorf("line %d: missing order", lineNum)
	}

	read := 0
	for {
		line, ok = next()
		if !ok {
			return nil, fmt.Errorf("line %d: missing \\end\\", lineNum)
		}
		if line == "\\end\\" {
			break
		}
		countStr, rest, found := strings.Cut(line, "\t")
		if !found {
			return nil, fmt.Errorf("line %d: expected count<TAB>phones", lineNum)
		}
		c, err := strconv.Atoi(countStr)
		if err != nil || c < 1 {
			return nil, fmt.Errorf("line %d: invalid count %q", lineNum, countStr)
		}
		t := Transition(phone.Parse(strings.Fields(rest)))
		if err := m.addCount(t, c); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		read++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if declared >= 0 && declared != read {
		return nil, fmt.Errorf("declared %d transitions, read %d", declared, read)
	}
	return m, nil
}

// LoadCountsFile is a convenience wrapper that opens a file path.
func LoadCountsFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadCounts(f)
}
