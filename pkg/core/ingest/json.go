package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"statement_insight/pkg/core/calc"
	"statement_insight/pkg/core/utils"
)

// ParseRowsJSON reads rows posted as JSON instead of a file. Two shapes are
// accepted:
//
//	[{"label": "TOTAL ASSETS", "prior": 1000, "current": 1200}, ...]
//	[["TOTAL ASSETS", 1000, 1200], ...]
//
// There is no header row. Values go through CoerceNumber, so strings such as
// "1,200" are fine. Malformed JSON is repaired where possible.
func ParseRowsJSON(data []byte) ([]calc.StatementRow, error) {
	const source = "json"

	var items []interface{}
	if _, err := utils.SmartParse(string(data), &items); err != nil {
		return nil, structural(source, "body is not a JSON array", err)
	}

	rows := make([]calc.StatementRow, 0, len(items))
	for i, item := range items {
		var cells []string
		switch v := item.(type) {
		case []interface{}:
			if len(v) < RequiredColumns {
				return nil, structural(source,
					fmt.Sprintf("row %d: expected %d columns, found %d", i+1, RequiredColumns, len(v)), nil)
			}
			cells = []string{cellString(v[0]), cellString(v[1]), cellString(v[2])}
		case map[string]interface{}:
			cells = []string{
				cellString(firstKey(v, "label", "line_item", "item")),
				cellString(firstKey(v, "prior", "prior_value", "previous")),
				cellString(firstKey(v, "current", "current_value")),
			}
		default:
			return nil, structural(source, fmt.Sprintf("row %d: expected an object or an array", i+1), nil)
		}
		if isBlank(cells) {
			continue
		}
		rows = append(rows, calc.StatementRow{
			Label:        strings.TrimSpace(cells[0]),
			PriorValue:   CoerceNumber(cells[1]),
			CurrentValue: CoerceNumber(cells[2]),
		})
	}
	if len(rows) == 0 {
		return nil, structural(source, "no rows", nil)
	}
	return rows, nil
}

func firstKey(m map[string]interface{}, keys ...string) interface{} {
	for _, k := range keys {
		if v, ok := m[k]; ok {
			return v
		}
	}
	return nil
}

func cellString(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return ""
	default:
		return fmt.Sprint(x)
	}
}
