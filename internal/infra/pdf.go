package infra

// pdf.go — worked-hours report generation using go-pdf/fpdf.
// Produces an A4 report with the employee header, one row per matched
// entry/exit pair, a per-day section, and a bold total.
// The output file is saved to storagePath/hours_{documentID}_{date}.pdf.

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ismailhaddouche/PiControl/internal/service"

	"github.com/go-pdf/fpdf"
)

// GenerateHoursPDF writes the hours report for one employee and returns the
// absolute path of the generated file.
func GenerateHoursPDF(documentID, name string, pairs []service.Pair, perDay []service.DayHours, totalHours float64, storagePath string) (string, error) {
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create storage dir: %w", err)
	}

	fileName := fmt.Sprintf("hours_%s_%s.pdf", documentID, time.Now().UTC().Format("20060102T150405"))
	filePath := filepath.Join(storagePath, fileName)

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 30

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "PiControl", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, "Worked Hours Report", "", 1, "C", false, 0, "")
	pdf.Ln(3)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(contentW, 6, fmt.Sprintf("%s (%s)", name, documentID), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, "Generated "+time.Now().UTC().Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Pairs table ──────────────────────────────────────────────────────────
	col1 := contentW * 0.40
	col2 := contentW * 0.40
	col3 := contentW * 0.20

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1, 6, "Entry", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Exit", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Hours", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 9)
	for _, p := range pairs {
		hours := float64(p.Seconds()) / 3600.0
		pdf.CellFormat(col1, 5, p.Entry.Timestamp.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, p.Exit.Timestamp.Format("2006-01-02 15:04"), "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, fmt.Sprintf("%.2f", hours), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Per-day section ──────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(col1+col2, 6, "Date", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 6, "Hours", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, d := range perDay {
		pdf.CellFormat(col1+col2, 5, d.Date, "", 0, "L", false, 0, "")
		pdf.CellFormat(col3, 5, d.Hours.StringFixed(2), "", 1, "R", false, 0, "")
	}
	pdf.Ln(3)

	// ── Total ────────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(col1+col2, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 8, fmt.Sprintf("%.2f h", totalHours), "T", 1, "R", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write %s: %w", filePath, err)
	}
	return filePath, nil
}
