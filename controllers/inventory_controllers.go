package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

type InventoryController struct {
	Inventory *services.InventoryService
}

func NewInventoryController(inventory *services.InventoryService) *InventoryController {
	return &InventoryController{Inventory: inventory}
}

type inventoryRequest struct {
	Name          string          `json:"name" binding:"required"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit" binding:"required"`
	CurrentStock  decimal.Decimal `json:"current_stock"`
	MinStockLevel decimal.Decimal `json:"min_stock_level"`
	MaxStockLevel decimal.Decimal `json:"max_stock_level"`
	CostPerUnit   decimal.Decimal `json:"cost_per_unit"`
	Supplier      string          `json:"supplier"`
}

func (r inventoryRequest) model() models.InventoryItem {
	return models.InventoryItem{
		Name:          r.Name,
		Category:      r.Category,
		Unit:          r.Unit,
		CurrentStock:  r.CurrentStock,
		MinStockLevel: r.MinStockLevel,
		MaxStockLevel: r.MaxStockLevel,
		CostPerUnit:   r.CostPerUnit,
		Supplier:      r.Supplier,
	}
}

// inventoryView adds the derived stock status to an item.
type inventoryView struct {
	models.InventoryItem
	Status string `json:"status"`
}

func viewOf(item models.InventoryItem) inventoryView {
	return inventoryView{InventoryItem: item, Status: item.Status()}
}

func viewsOf(items []models.InventoryItem) []inventoryView {
	out := make([]inventoryView, len(items))
	for i, item := range items {
		out[i] = viewOf(item)
	}
	return out
}

// GetAllInventory supports ?category= and ?status=in-stock|low-stock|out-of-stock.
func (ic *InventoryController) GetAllInventory(c *gin.Context) {
	status := c.Query("status")
	switch status {
	case "", models.StockIn, models.StockLow, models.StockOut:
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown stock status %q", status))
		return
	}
	items, err := ic.Inventory.List(c.Request.Context(), services.InventoryFilter{
		Category: c.Query("category"),
		Status:   status,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of inventory items", viewsOf(items))
}

func (ic *InventoryController) GetInventoryByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	item, err := ic.Inventory.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item detail", viewOf(*item))
}

func (ic *InventoryController) CreateInventory(c *gin.Context) {
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Inventory.Create(c.Request.Context(), req.model())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.Printf("Inventory item created: %s", item.Name)
	utils.RespondJSON(c, http.StatusCreated, "Inventory item created", viewOf(*item))
}

func (ic *InventoryController) UpdateInventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req inventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	item, err := ic.Inventory.Update(c.Request.Context(), id, req.model())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item updated", viewOf(*item))
}

func (ic *InventoryController) DeleteInventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := ic.Inventory.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory item deleted", nil)
}

func (ic *InventoryController) GetInventoryByProduct(c *gin.Context) {
	productID, ok := parseID(c, "productId")
	if !ok {
		return
	}
	items, err := ic.Inventory.ByProduct(c.Request.Context(), productID)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory used by product", viewsOf(items))
}

// RestockInventory adds stock, or with "mode": "adjust" sets the counted stock.
func (ic *InventoryController) RestockInventory(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req struct {
		Quantity decimal.Decimal `json:"quantity"`
		Mode     string          `json:"mode"`
		Note     string          `json:"note"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var (
		item *models.InventoryItem
		err  error
	)
	switch req.Mode {
	case "", "add":
		item, err = ic.Inventory.Restock(c.Request.Context(), id, req.Quantity, req.Note, currentUserID(c))
	case "adjust":
		item, err = ic.Inventory.Adjust(c.Request.Context(), id, req.Quantity, req.Note, currentUserID(c))
	default:
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown restock mode %q", req.Mode))
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.Printf("Inventory %s now at %s %s", item.Name, item.CurrentStock.String(), item.Unit)
	utils.RespondJSON(c, http.StatusOK, "Inventory restocked", viewOf(*item))
}

func (ic *InventoryController) GetMovements(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	limit, _ := strconv.Atoi(c.Query("limit"))
	movements, err := ic.Inventory.Movements(c.Request.Context(), id, limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory movements", movements)
}

func (ic *InventoryController) GetAlertsSummary(c *gin.Context) {
	summary, err := ic.Inventory.Alerts(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Inventory alerts", summary)
}
