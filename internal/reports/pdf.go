package reports

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"
)

// Renderer turns a report payload into a binary document, produced as
// a stream the caller drains.
type Renderer interface {
	Render(data *ReportData) (io.ReadCloser, error)
}

// PDFRenderer renders the analytics report as a paginated PDF
type PDFRenderer struct{}

// NewPDFRenderer creates a new PDFRenderer
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render builds the document and streams it through a pipe. The
// returned reader must be drained and closed by the caller; a render
// failure surfaces as the reader's error.
func (p *PDFRenderer) Render(data *ReportData) (io.ReadCloser, error) {
	if data == nil {
		return nil, fmt.Errorf("report data is nil")
	}

	pdf := buildDocument(data)

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(pdf.Output(pw))
	}()

	return pr, nil
}

func buildDocument(data *ReportData) *gofpdf.Fpdf {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Arial", "", 16)
	pdf.AddPage()

	// Title
	pdf.Cell(0, 10, "Laporan Analitik Analisis Semangka")
	pdf.Ln(8)

	// Period and generation time
	pdf.SetFont("Arial", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Periode: %s", data.Period))
	pdf.Ln(6)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Dibuat: %s", data.GeneratedAt.Format(dateLayoutID)))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Lokasi: %s | Jenis: %s | Varietas: %s",
		data.Filters.Location, data.Filters.FruitType, data.Filters.FruitVariety))
	pdf.Ln(10)

	// Summary section
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Ringkasan")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Total analisis: %d", data.Summary.TotalAnalyses))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Tingkat kematangan: %d%%", data.Summary.MaturityRate))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Rata-rata kemanisan: %d", data.Summary.AverageSweetness))
	pdf.Ln(5)
	pdf.Cell(0, 6, fmt.Sprintf("Rata-rata keyakinan: %d%%", data.Summary.AverageConfidence))
	pdf.Ln(10)

	drawDistribution(pdf, "Distribusi Jenis", data.TypeDistribution)
	drawDistribution(pdf, "Distribusi Kualitas Kulit", data.SkinQualityDistribution)
	drawRecentTable(pdf, data.RecentAnalyses)

	return pdf
}

func drawDistribution(pdf *gofpdf.Fpdf, title string, entries []DistributionEntry) {
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, title)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(80, 6, "Kategori", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Jumlah", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Persentase", "1", 1, "C", false, 0, "")

	for _, entry := range entries {
		pdf.CellFormat(80, 6, entry.Key, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d", entry.Count), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, fmt.Sprintf("%d%%", entry.Percentage), "1", 1, "C", false, 0, "")
	}
	pdf.Ln(6)
}

func drawRecentTable(pdf *gofpdf.Fpdf, recent []RecentAnalysis) {
	pdf.SetFont("Arial", "", 14)
	pdf.Cell(0, 8, "Analisis Terbaru")
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 8)
	pdf.CellFormat(22, 6, "Tanggal", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Lokasi", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 6, "Varietas", "1", 0, "C", false, 0, "")
	pdf.CellFormat(28, 6, "Kematangan", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Keyakinan", "1", 0, "C", false, 0, "")
	pdf.CellFormat(24, 6, "Kemanisan", "1", 0, "C", false, 0, "")
	pdf.CellFormat(32, 6, "Kualitas Kulit", "1", 1, "C", false, 0, "")

	for _, row := range recent {
		pdf.CellFormat(22, 6, row.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 6, row.Location, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 6, row.Variety, "1", 0, "L", false, 0, "")
		pdf.CellFormat(28, 6, row.MaturityStatus, "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%.0f%%", row.Confidence), "1", 0, "C", false, 0, "")
		pdf.CellFormat(24, 6, fmt.Sprintf("%.1f", row.SweetnessLevel), "1", 0, "C", false, 0, "")
		pdf.CellFormat(32, 6, row.SkinQuality, "1", 1, "L", false, 0, "")
	}
}
