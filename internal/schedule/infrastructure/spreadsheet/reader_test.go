package spreadsheet

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	schedule "flight-analytics/internal/schedule/domain"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("cell name: %v", err)
		}
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return &buf
}

func TestReadXLSX(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Destino", "Aerolínea", "Rev (h)", "H. Prog", "Notas"},
		{"españa", "Delta", "0", "6:05", "x"},
		{},
		{"Francia", "Iberia", "2", "23:30"},
	})

	rows, err := ReadXLSX(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	want := schedule.RawRow{Line: 2, Carrier: "Delta", Destination: "españa", ScheduledTime: "6:05", DelayHours: "0"}
	if rows[0] != want {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Line != 4 || rows[1].Carrier != "Iberia" || rows[1].DelayHours != "2" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestReadXLSXMissingColumn(t *testing.T) {
	buf := buildWorkbook(t, [][]interface{}{
		{"Aerolínea", "Destino", "H. Prog"},
		{"Delta", "Roma", "6:00"},
	})
	_, err := ReadXLSX(buf)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	if !strings.Contains(err.Error(), "Rev (h)") {
		t.Fatalf("expected missing column name in %q", err.Error())
	}
}

func TestReadCSV(t *testing.T) {
	input := "Aerolínea,Destino,H. Prog,Rev (h),Fabricante\n" +
		"Delta,españa,6:05,0,Boeing\n" +
		",,,,\n" +
		"Avianca,Roma,23:30,2.0,\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Line != 2 || rows[0].Destination != "españa" {
		t.Fatalf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Line != 4 || rows[1].DelayHours != "2.0" {
		t.Fatalf("unexpected second row: %+v", rows[1])
	}
}

func TestReadCSVWithByteOrderMark(t *testing.T) {
	input := "\ufeffAerolínea,Destino,H. Prog,Rev (h)\nDelta,Chile,10:00,0\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	want := schedule.RawRow{Line: 2, Carrier: "Delta", Destination: "Chile", ScheduledTime: "10:00", DelayHours: "0"}
	if len(rows) != 1 || rows[0] != want {
		t.Fatalf("unexpected rows: %+v", rows)
	}
	if _, err := schedule.NewDeriver(schedule.DefaultCatalog()).Import(rows); err != nil {
		t.Fatalf("import: %v", err)
	}
}

func TestReadCSVShortRowIsReportedPerRow(t *testing.T) {
	input := "Aerolínea,Destino,H. Prog,Rev (h)\n" +
		"Delta,Chile,10:00,0\n" +
		"KLM,Cuba,11:00\n" +
		"Avianca,Roma,12:00,1,extra\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %+v", rows)
	}
	if rows[1].Line != 3 || rows[1].Carrier != "KLM" || rows[1].DelayHours != "" {
		t.Fatalf("unexpected short row: %+v", rows[1])
	}
	if rows[2].Line != 4 || rows[2].DelayHours != "1" {
		t.Fatalf("unexpected long row: %+v", rows[2])
	}

	_, err = schedule.NewDeriver(schedule.DefaultCatalog()).Import(rows)
	var batch *schedule.BatchError
	if !errors.As(err, &batch) {
		t.Fatalf("expected BatchError, got %v", err)
	}
	if len(batch.Rows) != 1 || batch.Rows[0].Line != 3 || !errors.Is(batch.Rows[0], schedule.ErrMissingField) {
		t.Fatalf("unexpected row errors: %+v", batch.Rows)
	}
}

func TestReadCSVLineNumbersFollowTheFile(t *testing.T) {
	input := "Aerolínea,Destino,H. Prog,Rev (h)\n" +
		"\n" +
		"\"Copa\nAirlines\",Chile,6:00,0\n" +
		"Delta,Roma,7:00,1\n"

	rows, err := ReadCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 || rows[0].Line != 3 || rows[1].Line != 5 {
		t.Fatalf("unexpected lines: %+v", rows)
	}
}

func TestReadCSVMissingColumn(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("Aerolínea,Destino\nDelta,Roma\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	_, err = ReadCSV(strings.NewReader(""))
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn for empty input, got %v", err)
	}
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flights.csv")
	if err := os.WriteFile(path, []byte("Aerolínea,Destino,H. Prog,Rev (h)\nDelta,Roma,6:00,1\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	rows, err := ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if len(rows) != 1 || rows[0].Carrier != "Delta" {
		t.Fatalf("unexpected rows: %+v", rows)
	}

	if _, err := ReadFile(filepath.Join(dir, "flights.txt")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestFormatFromName(t *testing.T) {
	cases := map[string]string{
		"a.xlsx": FormatXLSX,
		"B.XLSX": FormatXLSX,
		"c.csv":  FormatCSV,
	}
	for name, want := range cases {
		got, err := FormatFromName(name)
		if err != nil || got != want {
			t.Fatalf("%s: got %q, %v", name, got, err)
		}
	}
}
