package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/database"
	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

type ProductController struct {
	DB       *gorm.DB
	Products *services.ProductService
}

func NewProductController(db *gorm.DB, products *services.ProductService) *ProductController {
	return &ProductController{DB: db, Products: products}
}

func toCatalog(products []models.Product) []pos.Product {
	out := make([]pos.Product, len(products))
	for i, p := range products {
		out[i] = p.ToCatalog()
	}
	return out
}

// GetAllProducts supports ?status=, ?category= and ?search=.
func (pc *ProductController) GetAllProducts(c *gin.Context) {
	filter := services.ProductFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	products, err := pc.Products.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of products", toCatalog(products))
}

func (pc *ProductController) GetProductByID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	product, err := pc.Products.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product detail", product.ToCatalog())
}

// GetProductsByCategory lists active products of one category.
func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	category := c.Param("category")
	if !pos.IsCategory(category) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown category %q", category))
		return
	}
	products, err := pc.Products.List(c.Request.Context(), services.ProductFilter{
		Status:   string(pos.ProductActive),
		Category: category,
	})
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, fmt.Sprintf("List of products for category: %s", category), toCatalog(products))
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var req pos.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := pc.Products.Create(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.Printf("Product created: %s (id=%d)", product.Name, product.ID)
	utils.RespondJSON(c, http.StatusCreated, "Product created", product.ToCatalog())
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req pos.Product
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	product, err := pc.Products.Update(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Product updated", product.ToCatalog())
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := pc.Products.Delete(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	utils.InfoLogger.Printf("Product %d deleted", id)
	utils.RespondJSON(c, http.StatusOK, "Product deleted", nil)
}

// SeedProducts loads the starter menu into an empty catalog.
func (pc *ProductController) SeedProducts(c *gin.Context) {
	created, err := database.SeedCatalog(pc.DB.WithContext(c.Request.Context()))
	if err != nil {
		respondErr(c, err)
		return
	}
	if created == 0 {
		utils.RespondJSON(c, http.StatusOK, "Catalog already has products", gin.H{"created": 0})
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Sample products created", gin.H{"created": created})
}
