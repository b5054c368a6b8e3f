package mapping

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Rule links one cost-center code to the warehouse that receives its
// stock. The destination cost-center docname is derived from both.
type Rule struct {
	CostCenter string
	Warehouse  string
}

// DocName returns the destination cost-center docname, which embeds the
// warehouse display name by convention.
func (r Rule) DocName() string {
	return r.CostCenter + " - " + r.Warehouse
}

// Table is the parsed cost-center to warehouse mapping file.
type Table struct {
	// Rules holds the deduplicated rows in file order.
	Rules []Rule

	byCostCenter map[string]string
}

// WarehouseFor returns the warehouse mapped to a cost-center code.
func (t *Table) WarehouseFor(costCenter string) (string, bool) {
	w, ok := t.byCostCenter[strings.TrimSpace(costCenter)]
	return w, ok
}

// Warehouses returns the distinct warehouse names in first-seen order.
func (t *Table) Warehouses() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rule := range t.Rules {
		if _, dup := seen[rule.Warehouse]; dup {
			continue
		}
		seen[rule.Warehouse] = struct{}{}
		out = append(out, rule.Warehouse)
	}
	return out
}

// Load reads a mapping file from disk. The file is semicolon-separated
// and encoded in ISO8859-1, as exported by the source system.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open mapping file: %w", err)
	}
	defer f.Close()
	return Parse(f)
}

// Parse reads mapping rules from a reader. Blank cells, duplicate
// cost-center rows and a header line are dropped.
func Parse(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, charmap.ISO8859_1.NewDecoder())

	reader := csv.NewReader(decoded)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	table := &Table{byCostCenter: make(map[string]string)}
	line := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse mapping row: %w", err)
		}
		line++
		if len(row) < 2 {
			continue
		}

		costCenter := strings.TrimSpace(row[0])
		warehouse := strings.TrimSpace(row[1])
		if costCenter == "" || warehouse == "" {
			continue
		}
		// Tolerate an optional header row.
		if line == 1 && strings.EqualFold(costCenter, "centro_custo") {
			continue
		}
		if _, dup := table.byCostCenter[costCenter]; dup {
			continue
		}

		table.byCostCenter[costCenter] = warehouse
		table.Rules = append(table.Rules, Rule{CostCenter: costCenter, Warehouse: warehouse})
	}

	if len(table.Rules) == 0 {
		return nil, fmt.Errorf("mapping file contains no usable rows")
	}
	return table, nil
}
