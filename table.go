package acistherm

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Table is a whitespace-delimited ASCII table in the temperatures.dat /
// states.dat format: one header row of column names, then one row per
// sample. Columns are float-typed unless a value fails to parse, in which
// case the whole column is kept as strings.
type Table struct {
	Names   []string
	Columns map[string]*TableColumn
}

// TableColumn holds one column of a Table.
type TableColumn struct {
	Floats  []float64
	Strings []string
}

// IsString returns whether the column failed float parsing.
func (c *TableColumn) IsString() bool {
	return c.Strings != nil
}

// Len returns the number of rows in the column.
func (c *TableColumn) Len() int {
	if c.IsString() {
		return len(c.Strings)
	}
	return len(c.Floats)
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{Columns: make(map[string]*TableColumn)}
}

// AddFloats appends a float column.
func (t *Table) AddFloats(name string, vals []float64) {
	t.Names = append(t.Names, name)
	t.Columns[name] = &TableColumn{Floats: vals}
}

// AddStrings appends a string column.
func (t *Table) AddStrings(name string, vals []string) {
	t.Names = append(t.Names, name)
	t.Columns[name] = &TableColumn{Strings: vals}
}

// ReadTable reads an ASCII table from the named file.
func ReadTable(filename string) (*Table, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseTable(f)
}

// ParseTable reads an ASCII table. Lines starting with `#` are comments.
func ParseTable(r io.Reader) (*Table, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)
	var names []string
	var rows [][]string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)
		if names == nil {
			names = fields
			continue
		}
		if len(fields) != len(names) {
			return nil, fmt.Errorf("row has %d fields, header has %d", len(fields), len(names))
		}
		rows = append(rows, fields)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if names == nil {
		return nil, fmt.Errorf("no header row found")
	}
	table := NewTable()
	for j, name := range names {
		floats := make([]float64, len(rows))
		isFloat := true
		for i, row := range rows {
			v, err := strconv.ParseFloat(row[j], 64)
			if err != nil {
				isFloat = false
				break
			}
			floats[i] = v
		}
		if isFloat {
			table.AddFloats(name, floats)
		} else {
			strs := make([]string, len(rows))
			for i, row := range rows {
				strs[i] = row[j]
			}
			table.AddStrings(name, strs)
		}
	}
	return table, nil
}

// WriteTable writes the table to the named file with right-aligned
// columns, floats formatted as %.2f. An existing file is an error unless
// overwrite is set.
func (t *Table) WriteTable(filename string, overwrite bool) error {
	if _, err := os.Stat(filename); err == nil && !overwrite {
		return fmt.Errorf("file %s already exists, but overwrite is not set", filename)
	}
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()
	return t.write(f)
}

func (t *Table) write(w io.Writer) error {
	nRows := 0
	cells := make(map[string][]string, len(t.Names))
	widths := make(map[string]int, len(t.Names))
	for i, name := range t.Names {
		col := t.Columns[name]
		if i == 0 {
			nRows = col.Len()
		} else if col.Len() != nRows {
			return fmt.Errorf("column `%s` has %d rows, column `%s` has %d", name, col.Len(), t.Names[0], nRows)
		}
		formatted := make([]string, col.Len())
		width := len(name)
		for i := 0; i < col.Len(); i++ {
			if col.IsString() {
				formatted[i] = col.Strings[i]
			} else {
				formatted[i] = strconv.FormatFloat(col.Floats[i], 'f', 2, 64)
			}
			if len(formatted[i]) > width {
				width = len(formatted[i])
			}
		}
		cells[name] = formatted
		widths[name] = width
	}
	buf := bufio.NewWriter(w)
	for j, name := range t.Names {
		if j > 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(buf, "%*s", widths[name], name)
	}
	buf.WriteByte('\n')
	for i := 0; i < nRows; i++ {
		for j, name := range t.Names {
			if j > 0 {
				buf.WriteByte(' ')
			}
			fmt.Fprintf(buf, "%*s", widths[name], cells[name][i])
		}
		buf.WriteByte('\n')
	}
	return buf.Flush()
}
