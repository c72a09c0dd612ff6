package services

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yeremiapane/stall-pos/models"
	"github.com/yeremiapane/stall-pos/pos"
)

// ReportService aggregates completed orders. Sums are done in Go so mysql
// and sqlite report identical decimal totals.
type ReportService struct {
	db *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db}
}

type ProductSales struct {
	ProductID uint            `json:"product_id"`
	Name      string          `json:"name"`
	TotalSold int             `json:"total_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
}

type DailySales struct {
	Date              string                     `json:"date"`
	TotalSales        decimal.Decimal            `json:"total_sales"`
	TotalOrders       int                        `json:"total_orders"`
	AverageOrderValue decimal.Decimal            `json:"average_order_value"`
	ByPaymentMethod   map[string]decimal.Decimal `json:"by_payment_method"`
	TopProducts       []ProductSales             `json:"top_products"`
}

type DateSales struct {
	Date        string          `json:"date"`
	TotalSales  decimal.Decimal `json:"total_sales"`
	TotalOrders int             `json:"total_orders"`
}

type Overview struct {
	TodaySales    decimal.Decimal `json:"today_sales"`
	TodayOrders   int             `json:"today_orders"`
	TotalOrders   int64           `json:"total_orders"`
	TotalProducts int64           `json:"total_products"`
	AvgOrderValue decimal.Decimal `json:"avg_order_value"`
	LowStockItems int             `json:"low_stock_items"`
	BestSellers   []ProductSales  `json:"best_sellers"`
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func (s *ReportService) completedOrders(ctx context.Context, from, to time.Time) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Preload("Items").Where("status <> ?", string(pos.OrderCancelled))
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	var orders []models.Order
	if err := q.Order("created_at ASC").Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// DailySales summarises the calendar day containing day.
func (s *ReportService) DailySales(ctx context.Context, day time.Time) (DailySales, error) {
	from := startOfDay(day)
	orders, err := s.completedOrders(ctx, from, from.AddDate(0, 0, 1))
	if err != nil {
		return DailySales{}, err
	}

	report := DailySales{
		Date:            from.Format("2006-01-02"),
		TotalSales:      decimal.Zero,
		ByPaymentMethod: map[string]decimal.Decimal{},
		TopProducts:     topProducts(orders, 5),
	}
	for _, o := range orders {
		report.TotalSales = report.TotalSales.Add(o.Total)
		report.ByPaymentMethod[o.PaymentMethod] = report.ByPaymentMethod[o.PaymentMethod].Add(o.Total)
	}
	report.TotalOrders = len(orders)
	report.AverageOrderValue = average(report.TotalSales, len(orders))
	return report, nil
}

// SalesByDate returns one bucket per calendar day in [from, to], empty days included.
func (s *ReportService) SalesByDate(ctx context.Context, from, to time.Time) ([]DateSales, error) {
	from = startOfDay(from)
	to = startOfDay(to)
	if to.Before(from) {
		from, to = to, from
	}
	orders, err := s.completedOrders(ctx, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	var buckets []DateSales
	index := make(map[string]int)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(buckets)
		buckets = append(buckets, DateSales{Date: key, TotalSales: decimal.Zero})
	}
	for _, o := range orders {
		key := o.CreatedAt.In(from.Location()).Format("2006-01-02")
		i, ok := index[key]
		if !ok {
			continue
		}
		buckets[i].TotalSales = buckets[i].TotalSales.Add(o.Total)
		buckets[i].TotalOrders++
	}
	return buckets, nil
}

func (s *ReportService) Overview(ctx context.Context, now time.Time) (Overview, error) {
	today, err := s.DailySales(ctx, now)
	if err != nil {
		return Overview{}, err
	}
	all, err := s.completedOrders(ctx, time.Time{}, time.Time{})
	if err != nil {
		return Overview{}, err
	}

	var overview Overview
	overview.TodaySales = today.TotalSales
	overview.TodayOrders = today.TotalOrders
	overview.TotalOrders = int64(len(all))

	total := decimal.Zero
	for _, o := range all {
		total = total.Add(o.Total)
	}
	overview.AvgOrderValue = average(total, len(all))
	overview.BestSellers = topProducts(all, 5)

	if err := s.db.WithContext(ctx).Model(&models.Product{}).
		Where("status = ?", string(pos.ProductActive)).
		Count(&overview.TotalProducts).Error; err != nil {
		return Overview{}, err
	}

	var items []models.InventoryItem
	if err := s.db.WithContext(ctx).Find(&items).Error; err != nil {
		return Overview{}, err
	}
	for _, item := range items {
		if item.Status() != models.StockIn {
			overview.LowStockItems++
		}
	}
	return overview, nil
}

func average(total decimal.Decimal, n int) decimal.Decimal {
	if n == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(n))).Round(2)
}

func topProducts(orders []models.Order, limit int) []ProductSales {
	byProduct := make(map[uint]*ProductSales)
	for _, o := range orders {
		for _, item := range o.Items {
			ps, ok := byProduct[item.ProductID]
			if !ok {
				ps = &ProductSales{ProductID: item.ProductID, Name: item.Name, Revenue: decimal.Zero}
				byProduct[item.ProductID] = ps
			}
			ps.TotalSold += item.Quantity
			ps.Revenue = ps.Revenue.Add(item.Subtotal)
		}
	}

	out := make([]ProductSales, 0, len(byProduct))
	for _, ps := range byProduct {
		out = append(out, *ps)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalSold != out[j].TotalSold {
			return out[i].TotalSold > out[j].TotalSold
		}
		return out[i].ProductID < out[j].ProductID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
