package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

type ReceiptController struct {
	Orders    *services.OrderService
	Formatter pos.ReceiptFormatter
	Printer   printing.Printer
}

func NewReceiptController(orders *services.OrderService, formatter pos.ReceiptFormatter, printer printing.Printer) *ReceiptController {
	return &ReceiptController{Orders: orders, Formatter: formatter, Printer: printer}
}

// GetReceipt renders a stored order as ?format=text (default) or html.
func (rc *ReceiptController) GetReceipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := rc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	switch format := c.DefaultQuery("format", "text"); format {
	case "text":
		c.String(http.StatusOK, rc.Formatter.Format(order.ToPOS()))
	case "html":
		page, err := rc.Formatter.FormatHTML(order.ToPOS())
		if err != nil {
			respondErr(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown receipt format %q", format))
	}
}

// PrintReceipt sends the receipt of a stored order to the configured printer.
func (rc *ReceiptController) PrintReceipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := rc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}

	if err := printReceipt(c.Request.Context(), rc.Printer, rc.Formatter, order.ToPOS()); err != nil {
		utils.RespondError(c, http.StatusBadGateway, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Receipt sent to printer", gin.H{
		"order_number": order.OrderNumber,
		"printer":      rc.Printer.Name(),
	})
}

// printReceipt formats order and hands it to printer.
func printReceipt(ctx context.Context, printer printing.Printer, formatter pos.ReceiptFormatter, order pos.Order) error {
	job := printing.Job{
		OrderNumber: order.Number,
		Text:        formatter.Format(order),
		CreatedAt:   order.CreatedAt,
	}
	if err := printer.Print(ctx, job); err != nil {
		utils.ErrorLogger.WithField("order", order.Number).Errorf("Error printing receipt on %s: %v", printer.Name(), err)
		return fmt.Errorf("print receipt: %w", err)
	}
	return nil
}
