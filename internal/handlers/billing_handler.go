package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stockease/internal/billing"
	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
)

// lowStockThreshold marks items that should be reordered soon.
const lowStockThreshold = 10

// --- POST: /billing/create ---
// Accepts the billing form: customer details, a paid checkbox and parallel
// product_code / quantity lists. Returns the receipt as JSON.
func CreateBill(c *gin.Context) {
	customerName := c.PostForm("customer_name")
	customerMobile := c.PostForm("customer_mobile")
	paid := c.PostForm("status") == "on"

	codes := c.PostFormArray("product_code")
	quantityStrs := c.PostFormArray("quantity")

	if len(codes) != len(quantityStrs) {
		c.String(http.StatusBadRequest, "Mismatch between product codes and quantities")
		return
	}

	quantities := make([]int, len(quantityStrs))
	for i, s := range quantityStrs {
		q, err := strconv.Atoi(s)
		if err != nil || q <= 0 {
			c.String(http.StatusBadRequest, "Invalid quantity %q", s)
			return
		}
		quantities[i] = q
	}

	summary, err := billing.CreateBill(database.DB, billing.CreateBillInput{
		CustomerName:   customerName,
		CustomerMobile: customerMobile,
		Paid:           paid,
		Codes:          codes,
		Quantities:     quantities,
	})
	if err != nil {
		var notFound *billing.ProductNotFoundError
		var noStock *billing.InsufficientStockError
		switch {
		case errors.Is(err, billing.ErrLineMismatch):
			c.String(http.StatusBadRequest, err.Error())
		case errors.As(err, &notFound):
			c.String(http.StatusNotFound, "Product %s not found", notFound.Code)
		case errors.As(err, &noStock):
			c.String(http.StatusBadRequest, "Not enough stock available for product %s", noStock.Code)
		default:
			c.String(http.StatusInternalServerError, "Failed to create bill: %s", err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, summary)
}

// --- POST: /billing/update_status/:bill_id ---
// Sets every line of the bill to the submitted status.
func UpdateBillStatus(c *gin.Context) {
	billID := c.Param("bill_id")
	status := c.PostForm("status")

	if status != billing.StatusPaid && status != billing.StatusUnpaid {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Status must be Paid or Unpaid"})
		return
	}

	if err := billing.UpdateStatus(database.DB, billID, status); err != nil {
		if errors.Is(err, billing.ErrBillNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Bill not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// --- POST: /billing/delete/:bill_id ---
// Removes the whole bill (every line sharing the identifier), then sends
// the caller back to the bill list. Sold stock is not returned.
func DeleteBill(c *gin.Context) {
	billID := c.Param("bill_id")

	if err := billing.DeleteBill(database.DB, billID); err != nil {
		if errors.Is(err, billing.ErrBillNotFound) {
			c.String(http.StatusNotFound, "Bill with ID %s not found", billID)
			return
		}
		c.String(http.StatusInternalServerError, "An error occurred while deleting the bill: %s", err.Error())
		return
	}

	c.Redirect(http.StatusFound, "/billing/all")
}

// --- POST: /billing/delete_all ---
func DeleteAllBills(c *gin.Context) {
	if err := billing.DeleteAll(database.DB); err != nil {
		c.String(http.StatusInternalServerError, "An error occurred while deleting bills: %s", err.Error())
		return
	}
	c.Redirect(http.StatusFound, "/billing/all")
}

// groupedBill is one logical bill assembled from its lines.
type groupedBill struct {
	Products       []groupedBillLine `json:"products"`
	TotalPrice     float64           `json:"total_price"`
	Timestamp      time.Time         `json:"timestamp"`
	CustomerName   string            `json:"customer_name"`
	CustomerMobile string            `json:"customer_mobile"`
	Status         string            `json:"status"`
}

type groupedBillLine struct {
	ProductCode string  `json:"product_code"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	TotalPrice  float64 `json:"total_price"`
}

// --- GET: /billing/all ---
// Every bill, grouped by bill identifier.
func ViewAllBills(c *gin.Context) {
	var lines []models.BillLine
	if err := database.DB.Order("timestamp desc, id").Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch bills"})
		return
	}

	names, err := productNames(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	grouped := make(map[string]*groupedBill)
	for _, line := range lines {
		bill, exists := grouped[line.BillID]
		if !exists {
			bill = &groupedBill{
				Timestamp:      line.Timestamp,
				CustomerName:   line.CustomerName,
				CustomerMobile: line.CustomerMobile,
				Status:         line.Status,
			}
			grouped[line.BillID] = bill
		}

		bill.Products = append(bill.Products, groupedBillLine{
			ProductCode: line.ProductCode,
			ProductName: names[line.ProductCode],
			Quantity:    line.Quantity,
			TotalPrice:  line.TotalPrice,
		})
		bill.TotalPrice += line.TotalPrice
	}

	c.JSON(http.StatusOK, grouped)
}

// --- GET: /billing/view/:bill_id ---
func ViewBill(c *gin.Context) {
	billID := c.Param("bill_id")

	summary, err := billing.GetBill(database.DB, billID)
	if err != nil {
		if errors.Is(err, billing.ErrBillNotFound) {
			c.String(http.StatusNotFound, "Bill with ID %s not found", billID)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names, err := productNames(summary.Lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch products"})
		return
	}

	items := make([]gin.H, 0, len(summary.Lines))
	for _, line := range summary.Lines {
		items = append(items, gin.H{
			"customer_name":   line.CustomerName,
			"customer_mobile": line.CustomerMobile,
			"product_code":    line.ProductCode,
			"item_name":       names[line.ProductCode],
			"quantity":        line.Quantity,
			"total_price":     line.TotalPrice,
			"status":          line.Status,
			"timestamp":       line.Timestamp,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"bill_id":     billID,
		"bills":       items,
		"total_price": summary.TotalPrice,
	})
}

// --- GET: /billing/billing-data ---
// Flat JSON export of every bill line, consumed by the prediction service.
func BillingData(c *gin.Context) {
	var lines []models.BillLine
	if err := database.DB.Order("id").Find(&lines).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	names, err := productNames(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	export := make([]gin.H, 0, len(lines))
	for _, line := range lines {
		export = append(export, gin.H{
			"bill_id":         line.BillID,
			"customer_name":   line.CustomerName,
			"customer_mobile": line.CustomerMobile,
			"product_code":    line.ProductCode,
			"product_name":    names[line.ProductCode],
			"quantity":        line.Quantity,
			"total_price":     line.TotalPrice,
			"total_profit":    line.TotalProfit,
			"status":          line.Status,
			"timestamp":       line.Timestamp,
		})
	}

	c.JSON(http.StatusOK, export)
}

// --- GET: /billing/monthly ---
func MonthlySales(c *gin.Context) {
	sales, err := database.MonthlySales(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sales)
}

// --- GET: /billing/top-selling-products ---
func TopSellingProducts(c *gin.Context) {
	top, err := database.TopSellingProducts(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, top)
}

// --- GET: /billing/total-sales ---
func TotalSales(c *gin.Context) {
	total, err := database.TotalSales(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_sales": total})
}

// --- GET: /billing/total-profit ---
func TotalProfit(c *gin.Context) {
	total, err := database.TotalProfit(database.DB)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_profit": total})
}

// --- GET: /billing/due ---
func TotalDue(c *gin.Context) {
	total, err := database.TotalDue(database.DB, billing.StatusUnpaid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"total_due": total})
}

// --- GET: /billing/limited-stock ---
func LimitedStock(c *gin.Context) {
	products, err := database.LimitedStock(database.DB, lowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	list := make([]gin.H, 0, len(products))
	for _, p := range products {
		list = append(list, gin.H{
			"product_name":   p.ItemName,
			"stock_quantity": p.Quantity,
		})
	}
	c.JSON(http.StatusOK, list)
}

// --- GET: /billing/next-expiry ---
func NextExpiry(c *gin.Context) {
	product, err := database.NextExpiry(database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if product == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "No upcoming expiry products found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_name": product.ItemName,
		"expiry_date":  product.Expiry,
	})
}

// --- GET: /billing/expired-items ---
func ExpiredItems(c *gin.Context) {
	products, err := database.ExpiredItems(database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	expired := make([]gin.H, 0, len(products))
	for _, p := range products {
		expired = append(expired, gin.H{
			"item_name":   p.ItemName,
			"expiry_date": p.Expiry,
		})
	}
	c.JSON(http.StatusOK, gin.H{"expired_items": expired})
}

// --- GET: /billing/search_customer?query= ---
// Name search over past bills, used by the billing form's autocomplete.
func SearchCustomer(c *gin.Context) {
	query := c.Query("query")

	var rows []struct {
		CustomerName   string
		CustomerMobile string
	}
	err := database.DB.Model(&models.BillLine{}).
		Distinct("customer_name, customer_mobile").
		Where("customer_name LIKE ?", "%"+query+"%").
		Find(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	results := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		results = append(results, gin.H{
			"customer_name":   r.CustomerName,
			"customer_mobile": r.CustomerMobile,
		})
	}
	c.JSON(http.StatusOK, results)
}

// productNames resolves the item name for every product code referenced by
// the given lines. Codes with no product row map to "Unknown Product".
func productNames(lines []models.BillLine) (map[string]string, error) {
	codes := make([]string, 0, len(lines))
	seen := make(map[string]bool)
	for _, line := range lines {
		if !seen[line.ProductCode] {
			seen[line.ProductCode] = true
			codes = append(codes, line.ProductCode)
		}
	}

	names := make(map[string]string, len(codes))
	for _, code := range codes {
		names[code] = "Unknown Product"
	}
	if len(codes) == 0 {
		return names, nil
	}

	var products []models.Product
	if err := database.DB.Where("product_code IN ?", codes).Find(&products).Error; err != nil {
		return nil, err
	}
	for _, p := range products {
		names[p.ProductCode] = p.ItemName
	}
	return names, nil
}
