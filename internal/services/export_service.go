package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"strings"
	"time"

	"quickride/internal/domain/models"
	"quickride/internal/query"
	"quickride/internal/utils"

	"github.com/jszwec/csvutil"
	"github.com/phpdave11/gofpdf"
)

// ExportService renders a filtered listing as a downloadable file.
type ExportService struct {
	RequestID string
	Now       func() time.Time
}

func (s ExportService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// CSV encodes rows with a header line. An empty result still yields the header.
func (s ExportService) CSV(rows []models.BusRoute) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	enc := csvutil.NewEncoder(w)
	if len(rows) == 0 {
		if err := enc.EncodeHeader(models.BusRoute{}); err != nil {
			return nil, "", fmt.Errorf("encode csv header: %w", err)
		}
	} else if err := enc.Encode(rows); err != nil {
		return nil, "", fmt.Errorf("encode csv rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("flush csv: %w", err)
	}

	utils.LogEvent(s.RequestID, "export", "csv", fmt.Sprintf("rows=%d", len(rows)))
	return buf.Bytes(), s.filename("csv"), nil
}

// PDF lays rows out as a landscape table headed by the active filters.
func (s ExportService) PDF(rows []models.BusRoute, f query.Filter) ([]byte, string, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("Filtered Bus Data", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Filtered Bus Data")
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 9)
	for _, line := range describeFilter(f) {
		pdf.Cell(0, 5, line)
		pdf.Ln(5)
	}
	pdf.Cell(0, 5, "Generated   : "+s.now().Format("2006-01-02 15:04"))
	pdf.Ln(8)

	type col struct {
		title string
		width float64
		value func(models.BusRoute) string
	}
	cols := []col{
		{"Route", 62, func(r models.BusRoute) string { return r.RouteName }},
		{"Bus", 48, func(r models.BusRoute) string { return r.BusName }},
		{"Type", 42, func(r models.BusRoute) string { return r.BusType }},
		{"Start", 16, func(r models.BusRoute) string { return utils.ClockHM(r.StartTime) }},
		{"End", 16, func(r models.BusRoute) string { return utils.ClockHM(r.EndTime) }},
		{"Duration", 20, func(r models.BusRoute) string { return r.Duration }},
		{"Price", 28, func(r models.BusRoute) string { return utils.FormatRupees(r.Price) }},
		{"Rating", 14, func(r models.BusRoute) string { return utils.FormatRating(r.StarRating) }},
		{"Seats", 14, func(r models.BusRoute) string { return strconv.Itoa(r.SeatsAvailable) }},
	}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(233, 36, 33)
	pdf.SetTextColor(255, 255, 255)
	for _, c := range cols {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(0, 0, 0)
	if len(rows) == 0 {
		pdf.CellFormat(0, 7, "No results found for the selected filters.", "1", 1, "C", false, 0, "")
	}
	for _, r := range rows {
		for _, c := range cols {
			pdf.CellFormat(c.width, 6, clip(pdf, c.value(r), c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render pdf: %w", err)
	}

	utils.LogEvent(s.RequestID, "export", "pdf", fmt.Sprintf("rows=%d", len(rows)))
	return buf.Bytes(), s.filename("pdf"), nil
}

func (s ExportService) filename(ext string) string {
	return fmt.Sprintf("quickride_buses_%s.%s", s.now().Format("20060102_1504"), ext)
}

func describeFilter(f query.Filter) []string {
	lines := []string{
		"State       : " + utils.Fallback(f.State, "-"),
		"Routes      : " + utils.Fallback(strings.Join(f.Routes, ", "), "all"),
		"Bus type    : " + utils.Fallback(string(f.BusType), "-"),
	}
	if f.Price != nil {
		lines = append(lines, fmt.Sprintf("Price       : %s - %s", utils.FormatRupees(f.Price.Min), utils.FormatRupees(f.Price.Max)))
	}
	if f.Rating != query.DefaultRating {
		lines = append(lines, fmt.Sprintf("Rating      : %.1f - %.1f", f.Rating.Min, f.Rating.Max))
	}
	if f.MinSeats > 0 {
		lines = append(lines, fmt.Sprintf("Min seats   : %d", f.MinSeats))
	}
	if f.StartTime != "" || f.EndTime != "" {
		lines = append(lines, fmt.Sprintf("Time window : %s - %s", utils.Fallback(f.StartTime, "any"), utils.Fallback(f.EndTime, "any")))
	}
	return lines
}

// clip shortens s with an ellipsis until it fits width.
func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && pdf.GetStringWidth(string(r)+"...") > width {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}
