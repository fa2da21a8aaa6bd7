package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jszwec/csvutil"
	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"

	schedule "flight-analytics/internal/schedule/domain"
)

const (
	FlightsSheet = "flights"
	SummarySheet = "summary"
)

// pdfColumnWidths match schedule.Columns.
var pdfColumnWidths = []float64{45, 38, 20, 16, 26, 26, 32, 22}

// BuildPDF renders the summary and flight table of a schedule.
func BuildPDF(s *schedule.Schedule) ([]byte, error) {
	if s == nil {
		return nil, schedule.ErrNilSchedule
	}
	records := s.Records()
	summary := Summarize(records)

	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetFont("Arial", "", 12)
	pdf.AddPage()

	pdf.Cell(0, 8, "Flight Schedule Report")
	pdf.Ln(10)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Schedule: %s", s.ID()))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Source: %s", s.Source()))
	pdf.Ln(5)
	if s.Source() == schedule.SourceGenerated {
		pdf.Cell(0, 6, fmt.Sprintf("Seed: %d", s.Seed()))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", s.CreatedAt().Format(time.RFC3339)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Flights: %d", summary.Total))
	pdf.Ln(8)

	if summary.Empty {
		pdf.Cell(0, 6, "No data")
		pdf.Ln(5)
		return outputPDF(pdf)
	}

	for _, c := range summary.ByFlightStatus {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d (%.1f%%)", c.Label, c.Count, c.Percent))
		pdf.Ln(5)
	}
	for _, c := range summary.ByManufacturer {
		pdf.Cell(0, 6, fmt.Sprintf("%s: %d (%.1f%%)", c.Label, c.Count, c.Percent))
		pdf.Ln(5)
	}
	pdf.Cell(0, 6, fmt.Sprintf("Delay mean %.2f h, median %.1f h, mode %d h", summary.MeanDelay, summary.MedianDelay, summary.ModeDelay))
	pdf.Ln(8)

	pdf.SetFont("Arial", "B", 9)
	for i, name := range schedule.Columns {
		pdf.CellFormat(pdfColumnWidths[i], 6, tr(name), "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)
	pdf.SetFont("Arial", "", 9)
	for _, rec := range records {
		for i, value := range rec.Values() {
			pdf.CellFormat(pdfColumnWidths[i], 6, tr(value), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	return outputPDF(pdf)
}

func outputPDF(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildXLSX renders a workbook whose first sheet is the record table in the
// import layout, followed by a summary sheet.
func BuildXLSX(s *schedule.Schedule) ([]byte, error) {
	if s == nil {
		return nil, schedule.ErrNilSchedule
	}
	records := s.Records()
	summary := Summarize(records)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", FlightsSheet); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet(SummarySheet); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(schedule.Columns))
	for i, name := range schedule.Columns {
		header[i] = name
	}
	if err := f.SetSheetRow(FlightsSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range records {
		row := []interface{}{
			rec.Carrier,
			rec.Destination,
			rec.ScheduledTime,
			rec.DelayHours,
			string(rec.Manufacturer),
			string(rec.FlightStatus),
			string(rec.EquipmentStatus),
			rec.ActualTime,
		}
		if err := f.SetSheetRow(FlightsSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return nil, err
		}
	}

	_ = f.SetCellValue(SummarySheet, "A1", "Flight Schedule")
	_ = f.SetCellValue(SummarySheet, "A3", "Schedule")
	_ = f.SetCellValue(SummarySheet, "B3", s.ID())
	_ = f.SetCellValue(SummarySheet, "A4", "Source")
	_ = f.SetCellValue(SummarySheet, "B4", string(s.Source()))
	_ = f.SetCellValue(SummarySheet, "A5", "Seed")
	_ = f.SetCellValue(SummarySheet, "B5", s.Seed())
	_ = f.SetCellValue(SummarySheet, "A6", "Flights")
	_ = f.SetCellValue(SummarySheet, "B6", summary.Total)
	_ = f.SetCellValue(SummarySheet, "A7", "Mean delay (h)")
	_ = f.SetCellValue(SummarySheet, "B7", summary.MeanDelay)
	_ = f.SetCellValue(SummarySheet, "A8", "Median delay (h)")
	_ = f.SetCellValue(SummarySheet, "B8", summary.MedianDelay)
	_ = f.SetCellValue(SummarySheet, "A9", "Mode delay (h)")
	_ = f.SetCellValue(SummarySheet, "B9", summary.ModeDelay)

	row := 11
	sections := []struct {
		title  string
		counts []Count
	}{
		{"Flight status", summary.ByFlightStatus},
		{"Equipment status", summary.ByEquipmentStatus},
		{"Manufacturer", summary.ByManufacturer},
		{"Destination", summary.ByDestination},
		{"Delay (h)", summary.DelayHistogram},
	}
	for _, section := range sections {
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", row), section.title)
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", row), "Count")
		_ = f.SetCellValue(SummarySheet, fmt.Sprintf("C%d", row), "%")
		row++
		for _, c := range section.counts {
			_ = f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", row), c.Label)
			_ = f.SetCellValue(SummarySheet, fmt.Sprintf("B%d", row), c.Count)
			_ = f.SetCellValue(SummarySheet, fmt.Sprintf("C%d", row), c.Percent)
			row++
		}
		row++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type csvRecord struct {
	Carrier         string `csv:"Aerolínea"`
	Destination     string `csv:"Destino"`
	ScheduledTime   string `csv:"H. Prog"`
	DelayHours      int    `csv:"Rev (h)"`
	Manufacturer    string `csv:"Fabricante"`
	FlightStatus    string `csv:"Est. Vuelo"`
	EquipmentStatus string `csv:"Est. Avion"`
	ActualTime      string `csv:"Nueva H."`
}

// BuildCSV renders the record table with the column headers in fixed order.
func BuildCSV(records []schedule.FlightRecord) ([]byte, error) {
	rows := make([]csvRecord, 0, len(records))
	for _, rec := range records {
		rows = append(rows, csvRecord{
			Carrier:         rec.Carrier,
			Destination:     rec.Destination,
			ScheduledTime:   rec.ScheduledTime,
			DelayHours:      rec.DelayHours,
			Manufacturer:    string(rec.Manufacturer),
			FlightStatus:    string(rec.FlightStatus),
			EquipmentStatus: string(rec.EquipmentStatus),
			ActualTime:      rec.ActualTime,
		})
	}
	return csvutil.Marshal(rows)
}
