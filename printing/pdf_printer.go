package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/yeremiapane/stall-pos/utils"
)

const (
	paperWidthMM = 58.0
	marginMM     = 3.0
	lineHeightMM = 3.2
	fontSizePt   = 7.0
)

// PDFPrinter renders receipts as 58mm wide PDFs in the spool directory.
type PDFPrinter struct {
	Dir string
}

func NewPDFPrinter(dir string) *PDFPrinter {
	return &PDFPrinter{Dir: dir}
}

func (p *PDFPrinter) Name() string { return TransportPDF }

func (p *PDFPrinter) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}

	path := filepath.Join(p.Dir, spoolName(job, "pdf"))
	pdf := RenderPDF(job.Text)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write receipt pdf: %w", err)
	}
	utils.InfoLogger.WithField("order", job.OrderNumber).Infof("Receipt PDF written to %s", path)
	return nil
}

// RenderPDF lays text out one receipt line per PDF line on a roll-sized page.
func RenderPDF(text string) *fpdf.Fpdf {
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	height := 2*marginMM + float64(len(lines))*lineHeightMM

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: paperWidthMM, Ht: height},
	})
	pdf.SetMargins(marginMM, marginMM, marginMM)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	pdf.SetFont("Courier", "", fontSizePt)

	// core fonts are cp1252; the peso sign is not in it
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	for _, line := range lines {
		line = strings.ReplaceAll(line, "₱", "P")
		pdf.CellFormat(paperWidthMM-2*marginMM, lineHeightMM, tr(line), "", 1, "L", false, 0, "")
	}
	return pdf
}
