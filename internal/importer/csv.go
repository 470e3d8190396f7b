package importer

import (
	"bufio"
	"encoding/csv"
	"errors"
	"io"
	"strings"

	enc "github.com/tallyapp/tally/internal/encoding"
	"github.com/tallyapp/tally/internal/validate"
)

const (
	colDate        = "date"
	colAmount      = "amount"
	colCategory    = "category"
	colDescription = "description"
)

// rawRow pairs a parsed record with its 1-based line number in the
// uploaded file.
type rawRow struct {
	Line   int
	Record validate.RawRecord
}

// parseCSV reads the uploaded file into raw rows. The header row must
// name at least the date and amount columns (any case, any order);
// category and description are optional and extra columns are ignored.
// Failures here are structural: the caller aborts the whole import.
func parseCSV(r io.Reader) ([]rawRow, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, &StructuralError{Reason: "could not read file", Err: err}
	}

	br := bufio.NewReader(utf8r)

	reader := csv.NewReader(br)
	reader.Comma = sniffDelimiter(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var (
		rows       []rawRow
		cols       map[string]int
		headerSeen bool
	)

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			return nil, &StructuralError{Reason: "could not parse file", Err: err}
		}

		line, _ := reader.FieldPos(0)

		if !headerSeen {
			cols = headerIndex(record)
			if cols != nil {
				headerSeen = true
			}

			continue
		}

		if blank(record) {
			continue
		}

		rows = append(rows, rawRow{
			Line: line,
			Record: validate.RawRecord{
				Date:        cell(record, cols, colDate),
				Amount:      cell(record, cols, colAmount),
				Category:    cell(record, cols, colCategory),
				Description: cell(record, cols, colDescription),
			},
		})
	}

	if !headerSeen {
		return nil, &StructuralError{Reason: "required columns date and amount not found"}
	}

	return rows, nil
}

// headerIndex returns the column map if the record is a valid header
// row, nil otherwise. Matching is case-insensitive.
func headerIndex(record []string) map[string]int {
	cols := make(map[string]int)

	for i, name := range record {
		name = strings.ToLower(strings.TrimSpace(name))
		if name != "" {
			cols[name] = i
		}
	}

	if _, ok := cols[colDate]; !ok {
		return nil
	}

	if _, ok := cols[colAmount]; !ok {
		return nil
	}

	return cols
}

// sniffDelimiter peeks at the first line and picks semicolon when it
// outnumbers commas. Spreadsheet apps in comma-decimal locales export
// semicolon-separated files.
func sniffDelimiter(br *bufio.Reader) rune {
	peek, _ := br.Peek(1024)

	line := string(peek)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = line[:i]
	}

	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}

	return ','
}

func cell(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx < 0 || idx >= len(record) {
		return ""
	}

	return strings.TrimSpace(record[idx])
}

func blank(record []string) bool {
	for _, c := range record {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}
