package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

const (
	defaultOrderLimit = 50
	maxOrderLimit     = 500
)

type OrderController struct {
	Orders *services.OrderService
}

func NewOrderController(orders *services.OrderService) *OrderController {
	return &OrderController{Orders: orders}
}

type orderLineRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Size      string   `json:"size" binding:"required"`
	Toppings  []string `json:"toppings"`
	Quantity  int      `json:"quantity" binding:"required"`
}

type createOrderRequest struct {
	Items            []orderLineRequest `json:"items" binding:"required"`
	PaymentMethod    string             `json:"payment_method" binding:"required"`
	AmountPaid       decimal.Decimal    `json:"amount_paid"`
	PaymentProvider  string             `json:"payment_provider"`
	PaymentReference string             `json:"payment_reference"`
}

// GetAllOrders -> list orders terbaru, ?limit= dan ?status=
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	limit := defaultOrderLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("invalid limit %q", v))
			return
		}
		limit = n
	}
	if limit > maxOrderLimit {
		limit = maxOrderLimit
	}

	status := c.Query("status")
	if status != "" && !pos.IsOrderStatus(status) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown order status %q", status))
		return
	}

	orders, err := oc.Orders.List(c.Request.Context(), services.OrderFilter{Status: status, Limit: limit})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

func (oc *OrderController) GetOrderByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	order, err := oc.Orders.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// CreateOrder prices the requested lines from the catalog and stores the paid order.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	var body createOrderRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pos.ParsePayment(body.PaymentMethod, body.AmountPaid, body.PaymentProvider, body.PaymentReference)
	if err != nil {
		respondErr(c, err)
		return
	}

	lines := make([]services.OrderLine, len(body.Items))
	for i, item := range body.Items {
		lines[i] = services.OrderLine{
			ProductID: item.ProductID,
			Size:      item.Size,
			Toppings:  item.Toppings,
			Quantity:  item.Quantity,
		}
	}

	order, err := oc.Orders.PlaceOrder(c.Request.Context(), credentials(c), lines, payment)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Order created", order)
}

// UpdateOrderStatus -> update status order dan broadcast ke KDS
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.Printf("Order %s status changed to %s", order.OrderNumber, order.Status)
	utils.RespondJSON(c, http.StatusOK, "Order status updated", order)
}
