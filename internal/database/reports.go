package database

import (
	"errors"
	"sort"
	"time"

	"stockease/internal/models"

	"gorm.io/gorm"
)

// Read-only projections over bill_lines and products. Everything here takes
// the database handle explicitly so the reporting layer stays usable from
// handlers, the AI assistant tools and tests alike.

// MonthlySale is one year+month bucket of sales totals.
type MonthlySale struct {
	Year       int     `json:"year"`
	Month      int     `json:"month"`
	TotalSales float64 `json:"total_sales"`
}

// MonthlySales sums line totals per calendar month, newest month first.
// Grouping happens in Go rather than with dialect-specific date extraction.
func MonthlySales(db *gorm.DB) ([]MonthlySale, error) {
	var rows []struct {
		Timestamp  time.Time
		TotalPrice float64
	}
	if err := db.Model(&models.BillLine{}).
		Select("timestamp, total_price").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	type bucket struct{ year, month int }
	totals := make(map[bucket]float64)
	for _, r := range rows {
		totals[bucket{r.Timestamp.Year(), int(r.Timestamp.Month())}] += r.TotalPrice
	}

	sales := make([]MonthlySale, 0, len(totals))
	for b, total := range totals {
		sales = append(sales, MonthlySale{Year: b.year, Month: b.month, TotalSales: total})
	}
	sort.Slice(sales, func(i, j int) bool {
		if sales[i].Year != sales[j].Year {
			return sales[i].Year > sales[j].Year
		}
		return sales[i].Month > sales[j].Month
	})
	return sales, nil
}

// TopProduct is one row of the best-sellers report.
type TopProduct struct {
	ProductCode   string  `json:"product_code"`
	ProductName   string  `json:"product_name"`
	TotalQuantity int     `json:"total_quantity"`
	TotalSales    float64 `json:"total_sales"`
}

// TopSellingProducts returns the five products with the highest sales value.
func TopSellingProducts(db *gorm.DB) ([]TopProduct, error) {
	var top []TopProduct
	err := db.Table("bill_lines").
		Select("bill_lines.product_code as product_code, products.item_name as product_name, SUM(bill_lines.quantity) as total_quantity, SUM(bill_lines.total_price) as total_sales").
		Joins("JOIN products ON bill_lines.product_code = products.product_code").
		Group("bill_lines.product_code, products.item_name").
		Order("total_sales desc").
		Limit(5).
		Scan(&top).Error
	return top, err
}

// TotalSales is the all-time sum of line totals.
func TotalSales(db *gorm.DB) (float64, error) {
	var total float64
	err := db.Model(&models.BillLine{}).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

// TotalProfit is the all-time sum of line profits.
func TotalProfit(db *gorm.DB) (float64, error) {
	var total float64
	err := db.Model(&models.BillLine{}).
		Select("COALESCE(SUM(total_profit), 0)").
		Scan(&total).Error
	return total, err
}

// TotalDue sums the value of every unpaid line.
func TotalDue(db *gorm.DB, unpaidStatus string) (float64, error) {
	var total float64
	err := db.Model(&models.BillLine{}).
		Where("status = ?", unpaidStatus).
		Select("COALESCE(SUM(total_price), 0)").
		Scan(&total).Error
	return total, err
}

// SalesReportResult is the revenue summary for a date range.
type SalesReportResult struct {
	TotalRevenue float64
	TotalProfit  float64
	TotalCount   int64
}

// SalesBetween calculates sales within a specific date range.
func SalesBetween(db *gorm.DB, start, end time.Time) (*SalesReportResult, error) {
	var result SalesReportResult

	err := db.Model(&models.BillLine{}).
		Where("timestamp BETWEEN ? AND ?", start, end).
		Select("COALESCE(SUM(total_price), 0) as total_revenue, COALESCE(SUM(total_profit), 0) as total_profit").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	err = db.Model(&models.BillLine{}).
		Where("timestamp BETWEEN ? AND ?", start, end).
		Count(&result.TotalCount).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// DaySales returns the sales and profit totals for the calendar day of t.
func DaySales(db *gorm.DB, t time.Time) (*SalesReportResult, error) {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return SalesBetween(db, start, start.AddDate(0, 0, 1).Add(-time.Nanosecond))
}

// CustomerDue is one customer's outstanding balance.
type CustomerDue struct {
	CustomerName   string  `json:"customer_name"`
	CustomerMobile string  `json:"customer_mobile"`
	TotalUnpaid    float64 `json:"total_unpaid"`
}

// CustomerDues groups unpaid line totals by customer.
func CustomerDues(db *gorm.DB, unpaidStatus string) ([]CustomerDue, error) {
	var dues []CustomerDue
	err := db.Model(&models.BillLine{}).
		Select("customer_name, customer_mobile, SUM(total_price) as total_unpaid").
		Where("status = ?", unpaidStatus).
		Group("customer_name, customer_mobile").
		Scan(&dues).Error
	return dues, err
}

// LimitedStock lists products at or below the given quantity threshold.
func LimitedStock(db *gorm.DB, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("quantity <= ?", threshold).Find(&products).Error
	return products, err
}

// ExpiredItems lists products whose expiry date has passed.
func ExpiredItems(db *gorm.DB, now time.Time) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("expiry <= ?", now).Find(&products).Error
	return products, err
}

// ExpiringWithin lists products that expire in the next n days (and have
// not expired yet).
func ExpiringWithin(db *gorm.DB, now time.Time, days int) ([]models.Product, error) {
	var products []models.Product
	err := db.Where("expiry > ? AND expiry <= ?", now, now.AddDate(0, 0, days)).
		Order("expiry asc").
		Find(&products).Error
	return products, err
}

// NextExpiry returns the unexpired product closest to its expiry date,
// or nil when nothing is due to expire.
func NextExpiry(db *gorm.DB, now time.Time) (*models.Product, error) {
	var product models.Product
	err := db.Where("expiry > ?", now).Order("expiry asc").First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// StockValue is the selling-price value of everything on the shelves.
func StockValue(db *gorm.DB) (float64, error) {
	var total float64
	err := db.Model(&models.Product{}).
		Select("COALESCE(SUM(selling_price * quantity), 0)").
		Scan(&total).Error
	return total, err
}
