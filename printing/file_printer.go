package printing

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/yeremiapane/stall-pos/utils"
)

// FilePrinter spools receipts as text files for a print daemon to pick up.
type FilePrinter struct {
	Dir string
}

func NewFilePrinter(dir string) *FilePrinter {
	return &FilePrinter{Dir: dir}
}

func (p *FilePrinter) Name() string { return TransportFile }

func (p *FilePrinter) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.MkdirAll(p.Dir, 0o755); err != nil {
		return fmt.Errorf("create spool dir: %w", err)
	}
	path := filepath.Join(p.Dir, spoolName(job, "txt"))
	if err := os.WriteFile(path, []byte(job.Text), 0o644); err != nil {
		return fmt.Errorf("write receipt: %w", err)
	}
	utils.InfoLogger.WithField("order", job.OrderNumber).Infof("Receipt spooled to %s", path)
	return nil
}
