package printing

import (
	"context"

	"github.com/yeremiapane/stall-pos/utils"
)

// LogPrinter writes receipts to the info log. Used when no printer is attached.
type LogPrinter struct{}

func NewLogPrinter() *LogPrinter {
	return &LogPrinter{}
}

func (p *LogPrinter) Name() string { return TransportLog }

func (p *LogPrinter) Print(ctx context.Context, job Job) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	utils.InfoLogger.WithField("order", job.OrderNumber).Info("Receipt\n" + job.Text)
	return nil
}
