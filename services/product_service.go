package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
)

// ProductService stores the stall catalog and serves it to POS sessions.
type ProductService struct {
	db *gorm.DB
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

type ProductFilter struct {
	Status   string
	Category string
	Search   string
}

func preloadCatalog(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Sizes", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") }).
		Preload("Sizes.Ingredients.InventoryItem").
		Preload("Toppings", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC, id ASC") })
}

func (s *ProductService) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := preloadCatalog(s.db.WithContext(ctx)).Order("category ASC, name ASC, id ASC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" && f.Category != "all" {
		q = q.Where("category = ?", f.Category)
	}
	if search := strings.TrimSpace(f.Search); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(flavor) LIKE ? OR LOWER(description) LIKE ?", like, like, like)
	}

	var products []models.Product
	if err := q.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := preloadCatalog(s.db.WithContext(ctx)).First(&product, id).Error; err != nil {
		return nil, notFound(err, pos.ErrProductNotFound, "product", id)
	}
	return &product, nil
}

// ActiveProducts returns the sellable catalog.
func (s *ProductService) ActiveProducts(ctx context.Context) ([]pos.Product, error) {
	products, err := s.List(ctx, ProductFilter{Status: string(pos.ProductActive)})
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	out := make([]pos.Product, len(products))
	for i, p := range products {
		out[i] = p.ToCatalog()
	}
	return out, nil
}

func (s *ProductService) Create(ctx context.Context, in pos.Product) (*models.Product, error) {
	if err := s.validate(ctx, s.db, in); err != nil {
		return nil, err
	}
	product := models.ProductFromCatalog(in)
	product.ID = 0
	if err := s.db.WithContext(ctx).Create(&product).Error; err != nil {
		return nil, err
	}
	return s.Get(ctx, product.ID)
}

// Update replaces the product and all of its sizes, recipes and toppings.
func (s *ProductService) Update(ctx context.Context, id uint, in pos.Product) (*models.Product, error) {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, id).Error; err != nil {
			return notFound(err, pos.ErrProductNotFound, "product", id)
		}
		if err := s.validate(ctx, tx, in); err != nil {
			return err
		}
		if err := deleteProductChildren(tx, id); err != nil {
			return err
		}

		product := models.ProductFromCatalog(in)
		product.ID = id
		product.CreatedAt = existing.CreatedAt
		return tx.Session(&gorm.Session{FullSaveAssociations: true}).Save(&product).Error
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *ProductService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Product
		if err := tx.First(&existing, id).Error; err != nil {
			return notFound(err, pos.ErrProductNotFound, "product", id)
		}
		if err := deleteProductChildren(tx, id); err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, id).Error
	})
}

func deleteProductChildren(tx *gorm.DB, productID uint) error {
	sizeIDs := tx.Model(&models.ProductSize{}).Select("id").Where("product_id = ?", productID)
	if err := tx.Where("product_size_id IN (?)", sizeIDs).Delete(&models.SizeIngredient{}).Error; err != nil {
		return err
	}
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductSize{}).Error; err != nil {
		return err
	}
	return tx.Where("product_id = ?", productID).Delete(&models.ProductTopping{}).Error
}

func (s *ProductService) validate(ctx context.Context, db *gorm.DB, p pos.Product) error {
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: product name is required", pos.ErrInvalidInput)
	}
	if !pos.IsCategory(p.Category) {
		return fmt.Errorf("%w: unknown category %q", pos.ErrInvalidInput, p.Category)
	}
	switch p.Status {
	case "", pos.ProductActive, pos.ProductInactive:
	default:
		return fmt.Errorf("%w: unknown status %q", pos.ErrInvalidInput, p.Status)
	}
	if len(p.Sizes) == 0 {
		return fmt.Errorf("%w: at least one size is required", pos.ErrInvalidInput)
	}

	seen := make(map[string]bool)
	var inventoryIDs []uint
	for _, size := range p.Sizes {
		label := strings.ToLower(strings.TrimSpace(size.Label))
		if label == "" || seen[label] {
			return fmt.Errorf("%w: size labels must be unique and non-empty", pos.ErrInvalidInput)
		}
		seen[label] = true
		if size.Price.IsNegative() {
			return fmt.Errorf("%w: size %s has a negative price", pos.ErrInvalidInput, size.Label)
		}
		for _, ing := range size.Ingredients {
			if !ing.Quantity.IsPositive() {
				return fmt.Errorf("%w: recipe quantities must be positive", pos.ErrInvalidInput)
			}
			inventoryIDs = append(inventoryIDs, ing.InventoryItemID)
		}
	}

	toppings := make(map[string]bool)
	for _, t := range p.Toppings {
		name := strings.ToLower(strings.TrimSpace(t.Name))
		if name == "" || toppings[name] {
			return fmt.Errorf("%w: topping names must be unique and non-empty", pos.ErrInvalidInput)
		}
		toppings[name] = true
		if t.Price.IsNegative() {
			return fmt.Errorf("%w: topping %s has a negative price", pos.ErrInvalidInput, t.Name)
		}
	}

	if len(inventoryIDs) > 0 {
		var count int64
		unique := uniqueIDs(inventoryIDs)
		if err := db.WithContext(ctx).Model(&models.InventoryItem{}).Where("id IN ?", unique).Count(&count).Error; err != nil {
			return err
		}
		if int(count) != len(unique) {
			return fmt.Errorf("%w: recipe references unknown inventory items", pos.ErrInvalidInput)
		}
	}
	return nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
