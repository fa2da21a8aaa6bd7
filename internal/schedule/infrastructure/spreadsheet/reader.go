package spreadsheet

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/jszwec/csvutil"
	"github.com/xuri/excelize/v2"

	schedule "flight-analytics/internal/schedule/domain"
)

const (
	FormatXLSX = "xlsx"
	FormatCSV  = "csv"
)

var (
	// ErrMissingColumn is returned when a required header is absent.
	ErrMissingColumn = errors.New("spreadsheet: missing column")
	// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("spreadsheet: unsupported format")
	// ErrNoSheet is returned for workbooks without sheets.
	ErrNoSheet = errors.New("spreadsheet: workbook has no sheets")
)

// requiredColumns are the input headers, matched exactly.
var requiredColumns = []string{
	schedule.ColumnCarrier,
	schedule.ColumnDestination,
	schedule.ColumnScheduledTime,
	schedule.ColumnDelayHours,
}

// FormatFromName resolves the format from a file name extension.
func FormatFromName(name string) (string, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, name)
	}
}

// Read parses rows in the given format.
func Read(format string, r io.Reader) ([]schedule.RawRow, error) {
	switch format {
	case FormatXLSX:
		return ReadXLSX(r)
	case FormatCSV:
		return ReadCSV(r)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

// ReadFile opens and parses a .xlsx or .csv file.
func ReadFile(path string) ([]schedule.RawRow, error) {
	format, err := FormatFromName(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(format, f)
}

// ReadXLSX reads the first sheet of a workbook. Row 1 holds the headers; the
// Line of each row is its sheet row number. Blank rows are skipped.
func ReadXLSX(r io.Reader) ([]schedule.RawRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoSheet
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(requiredColumns, ", "))
	}
	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}

	result := make([]schedule.RawRow, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		if isBlank(cells) {
			continue
		}
		result = append(result, schedule.RawRow{
			Line:          i + 2,
			Carrier:       cell(cells, index[schedule.ColumnCarrier]),
			Destination:   cell(cells, index[schedule.ColumnDestination]),
			ScheduledTime: cell(cells, index[schedule.ColumnScheduledTime]),
			DelayHours:    cell(cells, index[schedule.ColumnDelayHours]),
		})
	}
	return result, nil
}

type csvRow struct {
	Carrier       string `csv:"Aerolínea"`
	Destination   string `csv:"Destino"`
	ScheduledTime string `csv:"H. Prog"`
	DelayHours    string `csv:"Rev (h)"`
}

// ReadCSV reads a headed CSV file. Extra columns are ignored and a leading
// UTF-8 byte order mark is dropped. Short records are padded with empty
// fields so the row is reported by import validation instead of failing the
// whole file.
func ReadCSV(r io.Reader) ([]schedule.RawRow, error) {
	src := bufio.NewReader(r)
	if prefix, err := src.Peek(len(utf8BOM)); err == nil && string(prefix) == utf8BOM {
		_, _ = src.Discard(len(utf8BOM))
	}
	reader := &recordReader{csv: csv.NewReader(src)}
	reader.csv.FieldsPerRecord = -1
	dec, err := csvutil.NewDecoder(reader)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(requiredColumns, ", "))
		}
		return nil, fmt.Errorf("failed to create CSV decoder: %w", err)
	}
	if _, err := headerIndex(dec.Header()); err != nil {
		return nil, err
	}
	reader.width = len(dec.Header())

	var result []schedule.RawRow
	for {
		var row csvRow
		if err := dec.Decode(&row); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("decode CSV line %d: %w", reader.line, err)
		}
		if isBlank([]string{row.Carrier, row.Destination, row.ScheduledTime, row.DelayHours}) {
			continue
		}
		result = append(result, schedule.RawRow{
			Line:          reader.line,
			Carrier:       row.Carrier,
			Destination:   row.Destination,
			ScheduledTime: row.ScheduledTime,
			DelayHours:    row.DelayHours,
		})
	}
	return result, nil
}

const utf8BOM = "\ufeff"

// recordReader fits every record to the header width and remembers the file
// line the last record started on.
type recordReader struct {
	csv   *csv.Reader
	width int
	line  int
}

func (r *recordReader) Read() ([]string, error) {
	record, err := r.csv.Read()
	if err != nil {
		return nil, err
	}
	r.line, _ = r.csv.FieldPos(0)
	if r.width == 0 {
		return record, nil
	}
	if len(record) > r.width {
		return record[:r.width], nil
	}
	for len(record) < r.width {
		record = append(record, "")
	}
	return record, nil
}

func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimPrefix(name, utf8BOM)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := index[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return index, nil
}

func cell(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

func isBlank(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
