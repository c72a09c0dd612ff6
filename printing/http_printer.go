package printing

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yeremiapane/stall-pos/utils"
)

// HTTPPrinter posts receipt text to a network print service.
type HTTPPrinter struct {
	URL    string
	client *http.Client
}

func NewHTTPPrinter(url string, timeout time.Duration) *HTTPPrinter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HTTPPrinter{URL: url, client: &http.Client{Timeout: timeout}}
}

func (p *HTTPPrinter) Name() string { return TransportHTTP }

func (p *HTTPPrinter) Print(ctx context.Context, job Job) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewBufferString(job.Text))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	req.Header.Set("X-Order-Number", job.OrderNumber)

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("send to printer: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("printer responded %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	utils.InfoLogger.WithField("order", job.OrderNumber).Infof("Receipt sent to %s", p.URL)
	return nil
}
