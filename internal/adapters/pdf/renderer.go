package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/blackmetal/material_reports_bot/internal/core/domain"
	portssvc "github.com/blackmetal/material_reports_bot/internal/core/ports/services"
	"github.com/go-pdf/fpdf"
)

// Renderer lays out a ReportDocument on A4. The display timezone only
// affects the generation timestamp, never range boundaries.
type Renderer struct {
	displayTZ *time.Location
	logoPath  string
}

// RendererOption is a functional option for configuring the renderer
type RendererOption func(*Renderer)

// WithLogo sets an image file rendered at the top of every document.
// The logo is best-effort: an unreadable file is logged and skipped.
func WithLogo(path string) RendererOption {
	return func(r *Renderer) {
		r.logoPath = path
	}
}

// NewRenderer creates a PDF renderer stamping times in the given timezone.
func NewRenderer(displayTZ *time.Location, options ...RendererOption) *Renderer {
	if displayTZ == nil {
		displayTZ = time.UTC
	}
	r := &Renderer{displayTZ: displayTZ}
	for _, option := range options {
		option(r)
	}
	return r
}

var _ portssvc.DocumentRenderer = (*Renderer)(nil)

// Render produces the PDF payload for a formatted report.
func (r *Renderer) Render(doc domain.ReportDocument) ([]byte, error) {
	p := fpdf.New("P", "mm", "A4", "")
	p.SetMargins(10, 10, 10)
	p.SetAutoPageBreak(true, 12)
	p.AddPage()

	r.writeLogo(p)
	r.writeInfoLine(p, doc)
	r.writeTitle(p, doc.Title)

	for _, block := range doc.Blocks {
		r.writeBlock(p, block)
	}

	var buf bytes.Buffer
	if err := p.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf output: %w", err)
	}
	return buf.Bytes(), nil
}

// writeLogo draws the configured logo at the top of the page. The document
// renders fine without one, so an unreadable or unrecognized file only logs.
func (r *Renderer) writeLogo(p *fpdf.Fpdf) {
	if r.logoPath == "" {
		return
	}

	kind := imageType(r.logoPath)
	if kind == "" {
		slog.Warn("Unrecognized logo image type, rendering without it", slog.String("path", r.logoPath))
		return
	}
	data, err := os.ReadFile(r.logoPath)
	if err != nil {
		slog.Warn("Logo unavailable, rendering without it",
			slog.String("path", r.logoPath), slog.String("error", err.Error()))
		return
	}

	opts := fpdf.ImageOptions{ImageType: kind}
	p.RegisterImageOptionsReader("logo", opts, bytes.NewReader(data))
	p.ImageOptions("logo", p.GetX(), p.GetY(), 0, 12, true, opts, 0, "")
	p.Ln(3)
}

func imageType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "PNG"
	case ".jpg", ".jpeg":
		return "JPG"
	case ".gif":
		return "GIF"
	}
	return ""
}

func (r *Renderer) writeInfoLine(p *fpdf.Fpdf, doc domain.ReportDocument) {
	requestedBy := doc.RequestedBy
	if requestedBy == "" {
		requestedBy = "Unknown"
	}
	generatedAt := doc.GeneratedAt.In(r.displayTZ).Format("02.01.2006 15:04:05")

	p.SetFont("Helvetica", "", 8)
	p.CellFormat(0, 4, fmt.Sprintf("Report generated by: %s | %s", requestedBy, generatedAt), "", 1, "L", false, 0, "")
	p.Ln(2)
}

func (r *Renderer) writeTitle(p *fpdf.Fpdf, title string) {
	p.SetFont("Helvetica", "B", 14)
	p.MultiCell(0, 7, title, "", "C", false)
	p.Ln(4)
}

func (r *Renderer) writeBlock(p *fpdf.Fpdf, block domain.OperationBlock) {
	p.SetFont("Helvetica", "B", 12)
	p.CellFormat(0, 6, block.Heading, "", 1, "L", false, 0, "")
	p.Ln(1)

	if block.NoData {
		p.SetFont("Helvetica", "", 10)
		p.CellFormat(0, 5, fmt.Sprintf("No data for %s", block.Heading), "", 1, "L", false, 0, "")
		p.Ln(4)
		return
	}

	r.writeTable(p, block.Table)
	p.Ln(4)
}

func (r *Renderer) writeTable(p *fpdf.Fpdf, table domain.ReportTable) {
	if len(table.Rows) == 0 {
		return
	}

	pageWidth, _ := p.GetPageSize()
	left, _, right, _ := p.GetMargins()
	colWidth := (pageWidth - left - right) / float64(len(table.Rows[0].Cells))

	for _, row := range table.Rows {
		style, fill := "", false
		switch row.Kind {
		case domain.RowHeader:
			style, fill = "B", true
		case domain.RowKindHeader, domain.RowSubtotal, domain.RowGrandTotal:
			style = "B"
		}
		p.SetFont("Helvetica", style, 9)
		if fill {
			p.SetFillColor(220, 220, 220)
		}

		for _, cell := range row.Cells {
			p.CellFormat(colWidth, 6, cell, "1", 0, "C", fill, 0, "")
		}
		p.Ln(-1)
	}
}
