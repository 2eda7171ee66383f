package google

import (
	"fmt"
	"strconv"
	"strings"

	"ledger/internal/core"
)

// parseTable converts a values matrix (as returned by the Sheets API) into
// transactions. The first row is the header; blank rows are skipped and
// rows shorter than the header are padded, since the API drops trailing
// empty cells.
func parseTable(values [][]interface{}) ([]core.Transaction, error) {
	if len(values) == 0 {
		return nil, nil
	}
	header := toStrings(values[0])
	h, err := core.ParseHeader(header)
	if err != nil {
		return nil, &core.RowError{Line: 1, Err: err}
	}

	var out []core.Transaction
	for i := 1; i < len(values); i++ {
		row := toStrings(values[i])
		if isBlank(row) {
			continue
		}
		for len(row) < len(header) {
			row = append(row, "")
		}
		tx, err := h.ParseRow(i+1, row)
		if err != nil {
			return nil, err
		}
		out = append(out, tx)
	}
	return out, nil
}

// buildTable renders header and rows as cell values. Amounts are written as
// text so no precision is lost to spreadsheet floats.
func buildTable(txs []core.Transaction) [][]interface{} {
	out := make([][]interface{}, 0, len(txs)+1)
	out = append(out, toCells(core.Columns))
	for _, tx := range txs {
		out = append(out, toCells(tx.Row()))
	}
	return out
}

func toCells(in []string) []interface{} {
	out := make([]interface{}, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch n := v.(type) {
		case float64:
			out[i] = strconv.FormatFloat(n, 'f', -1, 64)
		default:
			out[i] = strings.TrimSpace(fmt.Sprint(v))
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, v := range row {
		if v != "" {
			return false
		}
	}
	return true
}
