// Package ingest turns uploaded statement files into calc.StatementRow values.
// Columns are mapped by position (label, prior value, current value); the
// header text is never interpreted.
package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/xuri/excelize/v2"

	"statement_insight/pkg/core/calc"
)

// RequiredColumns is the minimum width of an uploaded table.
const RequiredColumns = 3

// MaxUploadBytes bounds the size of an uploaded statement.
const MaxUploadBytes = 10 << 20

var (
	oleMagic = []byte{0xD0, 0xCF, 0x11, 0xE0}
	zipMagic = []byte("PK\x03\x04")
)

// Format identifies how an upload is decoded.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ReadStatement decodes an uploaded file and returns its data rows.
// The format is chosen from the file extension and, for ambiguous cases,
// the first bytes of the content.
func ReadStatement(r io.Reader, filename string) ([]calc.StatementRow, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxUploadBytes+1))
	if err != nil {
		return nil, structural(filename, "cannot read upload", err)
	}
	if len(data) > MaxUploadBytes {
		return nil, structural(filename, fmt.Sprintf("file larger than %d bytes", MaxUploadBytes), nil)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, structural(filename, "file is empty", nil)
	}

	format, err := DetectFormat(filename, data)
	if err != nil {
		return nil, err
	}

	var table [][]string
	switch format {
	case FormatXLSX:
		table, err = readXLSX(data)
	case FormatCSV:
		table, err = readCSV(data)
	case FormatHTML:
		table, err = readHTML(data)
	}
	if err != nil {
		return nil, structural(filename, fmt.Sprintf("cannot parse %s", format), err)
	}

	rows, err := rowsFromTable(filename, table)
	if err != nil {
		return nil, err
	}
	fmt.Printf("[INGEST] %s: %d rows read as %s\n", filename, len(rows), format)
	return rows, nil
}

// DetectFormat picks the decoder for an upload.
func DetectFormat(filename string, data []byte) (Format, error) {
	head := bytes.TrimLeft(data, " \t\r\n\ufeff")
	looksHTML := len(head) > 0 && head[0] == '<'

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return FormatXLSX, nil
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".html", ".htm":
		return FormatHTML, nil
	case ".xls":
		// Accounting packages often save HTML tables with an .xls extension.
		switch {
		case looksHTML:
			return FormatHTML, nil
		case bytes.HasPrefix(data, zipMagic):
			return FormatXLSX, nil
		case bytes.HasPrefix(data, oleMagic):
			return "", structural(filename, "legacy binary .xls is not supported, save the workbook as .xlsx", nil)
		}
	}

	switch {
	case bytes.HasPrefix(data, zipMagic):
		return FormatXLSX, nil
	case looksHTML:
		return FormatHTML, nil
	}
	return "", structural(filename, "unsupported file type", nil)
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}
	// RawCellValue keeps numbers unformatted (no thousands separators, no rounding).
	return f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

// sniffDelimiter picks the most frequent of ',', ';' and tab on the first line.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte(","))
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

func readHTML(data []byte) ([][]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, errors.New("no <table> element found")
	}

	var out [][]string
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		var cells []string
		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			cells = append(cells, strings.TrimSpace(cell.Text()))
		})
		out = append(out, cells)
	})
	return out, nil
}

// rowsFromTable applies the positional three-column mapping. The first row is
// the header.
func rowsFromTable(source string, table [][]string) ([]calc.StatementRow, error) {
	if len(table) == 0 {
		return nil, structural(source, "no rows found", nil)
	}

	// The header row decides the width; wider data rows do not rescue a short header.
	if width := len(table[0]); width < RequiredColumns {
		return nil, structural(source,
			fmt.Sprintf("expected %d columns (line item, prior year, current year) in the header row, found %d", RequiredColumns, width), nil)
	}

	rows := make([]calc.StatementRow, 0, len(table)-1)
	for _, rec := range table[1:] {
		cells := make([]string, RequiredColumns)
		copy(cells, rec)
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
		return nil, structural(source, "no data rows below the header", nil)
	}
	return rows, nil
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
