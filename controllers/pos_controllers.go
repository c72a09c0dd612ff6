package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/printing"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

// PosController exposes the register flow of a cashier: open a session, build
// the cart, check out and pay.
type PosController struct {
	Sessions  *services.SessionManager
	Formatter pos.ReceiptFormatter
	Printer   printing.Printer
}

func NewPosController(sessions *services.SessionManager, formatter pos.ReceiptFormatter, printer printing.Printer) *PosController {
	return &PosController{Sessions: sessions, Formatter: formatter, Printer: printer}
}

type addItemRequest struct {
	ProductID uint     `json:"product_id" binding:"required"`
	Size      string   `json:"size" binding:"required"`
	Toppings  []string `json:"toppings"`
	Quantity  *int     `json:"quantity"`
}

type paymentRequest struct {
	PaymentMethod    string          `json:"payment_method" binding:"required"`
	AmountPaid       decimal.Decimal `json:"amount_paid"`
	PaymentProvider  string          `json:"payment_provider"`
	PaymentReference string          `json:"payment_reference"`
	Print            bool            `json:"print"`
}

type paymentResponse struct {
	Order      pos.Order `json:"order"`
	Receipt    string    `json:"receipt"`
	Printed    bool      `json:"printed"`
	PrintError string    `json:"print_error,omitempty"`
}

func (pc *PosController) session(c *gin.Context) (*pos.Session, bool) {
	session, err := pc.Sessions.Get(c.Param("id"), currentUserID(c), isAdmin(c))
	if err != nil {
		respondErr(c, err)
		return nil, false
	}
	return session, true
}

func (pc *PosController) OpenSession(c *gin.Context) {
	session, err := pc.Sessions.Open(c.Request.Context(), credentials(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "POS session opened", session.View())
}

func (pc *PosController) ListSessions(c *gin.Context) {
	sessions := pc.Sessions.List(currentUserID(c), isAdmin(c))
	views := make([]pos.SessionView, len(sessions))
	for i, s := range sessions {
		views[i] = s.View()
	}
	utils.RespondJSON(c, http.StatusOK, "Open POS sessions", views)
}

func (pc *PosController) GetSession(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "POS session", session.View())
}

// GetProducts filters the session catalog by ?category= and ?search=.
func (pc *PosController) GetProducts(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	products := session.Products(c.DefaultQuery("category", "all"), c.Query("search"))
	utils.RespondJSON(c, http.StatusOK, "Session products", products)
}

func (pc *PosController) AddItem(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	// quantity defaults to 1 only when omitted; an explicit 0 is rejected by the cart
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	item, err := session.AddItem(req.ProductID, req.Size, req.Toppings, quantity)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Item added", gin.H{
		"item": item,
		"cart": session.View(),
	})
}

func (pc *PosController) RemoveItem(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errInvalidID)
		return
	}
	if err := session.RemoveItem(index); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Item removed", session.View())
}

func (pc *PosController) ClearCart(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	if err := session.ClearCart(); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Cart cleared", session.View())
}

func (pc *PosController) BeginCheckout(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	if err := session.BeginCheckout(); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Awaiting payment", session.View())
}

// Pay tenders the payment, submits the order and optionally prints the receipt.
// A failed print does not undo the sale.
func (pc *PosController) Pay(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	payment, err := pos.ParsePayment(req.PaymentMethod, req.AmountPaid, req.PaymentProvider, req.PaymentReference)
	if err != nil {
		respondErr(c, err)
		return
	}

	order, err := session.Pay(c.Request.Context(), payment, pc.Sessions.Submitter())
	if err != nil {
		respondErr(c, err)
		return
	}
	pc.respondPaid(c, order, req.Print)
}

func (pc *PosController) RetrySubmission(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	var req struct {
		Print bool `json:"print"`
	}
	_ = c.ShouldBindJSON(&req)

	order, err := session.RetrySubmission(c.Request.Context(), pc.Sessions.Submitter())
	if err != nil {
		respondErr(c, err)
		return
	}
	pc.respondPaid(c, order, req.Print)
}

func (pc *PosController) respondPaid(c *gin.Context, order pos.Order, wantPrint bool) {
	resp := paymentResponse{Order: order, Receipt: pc.Formatter.Format(order)}
	if wantPrint && pc.Printer != nil {
		if err := printReceipt(c.Request.Context(), pc.Printer, pc.Formatter, order); err != nil {
			resp.PrintError = err.Error()
		} else {
			resp.Printed = true
		}
	}
	utils.RespondJSON(c, http.StatusCreated, "Payment completed", resp)
}

func (pc *PosController) CancelCheckout(c *gin.Context) {
	session, ok := pc.session(c)
	if !ok {
		return
	}
	if err := session.CancelCheckout(); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Checkout cancelled", session.View())
}

func (pc *PosController) CloseSession(c *gin.Context) {
	if err := pc.Sessions.Close(c.Param("id"), currentUserID(c), isAdmin(c)); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "POS session closed", nil)
}
