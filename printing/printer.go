package printing

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/yeremiapane/stall-pos/config"
)

// Job is one receipt to print.
type Job struct {
	OrderNumber string
	Text        string
	CreatedAt   time.Time
}

// Printer delivers receipts to a physical or virtual device.
type Printer interface {
	Print(ctx context.Context, job Job) error
	Name() string
}

const (
	TransportLog  = "log"
	TransportFile = "file"
	TransportPDF  = "pdf"
	TransportHTTP = "http"
)

// New builds the printer selected by PRINTER_TRANSPORT.
func New(cfg config.Config) (Printer, error) {
	switch cfg.PrinterTransport {
	case "", TransportLog:
		return NewLogPrinter(), nil
	case TransportFile:
		return NewFilePrinter(cfg.PrinterSpoolDir), nil
	case TransportPDF:
		return NewPDFPrinter(cfg.PrinterSpoolDir), nil
	case TransportHTTP:
		if cfg.PrinterURL == "" {
			return nil, fmt.Errorf("PRINTER_URL is required for the http printer")
		}
		return NewHTTPPrinter(cfg.PrinterURL, cfg.PrinterHTTPTimeout), nil
	default:
		return nil, fmt.Errorf("unknown PRINTER_TRANSPORT %q", cfg.PrinterTransport)
	}
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

func spoolName(job Job, ext string) string {
	name := unsafeFileChars.ReplaceAllString(job.OrderNumber, "_")
	if name == "" {
		name = "receipt"
	}
	ts := job.CreatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	return fmt.Sprintf("%s_%s.%s", name, ts.Format("20060102T150405"), ext)
}
