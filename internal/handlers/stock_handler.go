package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// nearExpiryDays is the overview window for soon-to-expire items.
const nearExpiryDays = 30

// generateProductCode builds a code from the item name: first three letters
// upper-cased plus the next row number, e.g. "Milk" -> "MIL7".
func generateProductCode(db *gorm.DB, itemName string) (string, error) {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return "", err
	}

	prefix := strings.ToUpper(itemName)
	if len(prefix) > 3 {
		prefix = prefix[:3]
	}
	return fmt.Sprintf("%s%d", prefix, count+1), nil
}

// stockForm is shared by the add and edit routes.
type stockForm struct {
	ItemName     string
	SellingPrice float64
	CostPrice    float64
	Expiry       time.Time
	Quantity     int
}

func parseStockForm(c *gin.Context) (*stockForm, error) {
	sellingPrice, err := strconv.ParseFloat(c.PostForm("selling_price"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid selling_price")
	}
	costPrice, err := strconv.ParseFloat(c.PostForm("price"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid price")
	}
	expiry, err := time.Parse("2006-01-02", c.PostForm("expiry"))
	if err != nil {
		return nil, fmt.Errorf("invalid expiry, expected YYYY-MM-DD")
	}
	quantity, err := strconv.Atoi(c.PostForm("quantity"))
	if err != nil || quantity < 0 {
		return nil, fmt.Errorf("invalid quantity")
	}

	itemName := c.PostForm("item_name")
	if itemName == "" {
		return nil, fmt.Errorf("item_name is required")
	}

	return &stockForm{
		ItemName:     itemName,
		SellingPrice: sellingPrice,
		CostPrice:    costPrice,
		Expiry:       expiry,
		Quantity:     quantity,
	}, nil
}

// --- POST: /stock/add ---
func AddStock(c *gin.Context) {
	form, err := parseStockForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	code, err := generateProductCode(database.DB, form.ItemName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate product code"})
		return
	}

	product := models.Product{
		ProductCode:  code,
		ItemName:     form.ItemName,
		SellingPrice: form.SellingPrice,
		CostPrice:    form.CostPrice,
		Expiry:       form.Expiry,
		Quantity:     form.Quantity,
	}
	if err := database.DB.Create(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create stock item"})
		return
	}

	c.JSON(http.StatusCreated, product)
}

// --- GET: /stock/view ---
func ViewStock(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Order("product_code").Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /stock/overview ---
// Item count plus everything expiring within the next 30 days.
func StockOverview(c *gin.Context) {
	var totalItems int64
	if err := database.DB.Model(&models.Product{}).Count(&totalItems).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	nearExpiry, err := database.ExpiringWithin(database.DB, time.Now(), nearExpiryDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_items":          totalItems,
		"near_to_expiry_count": len(nearExpiry),
		"near_to_expiry_items": nearExpiry,
	})
}

// --- POST: /stock/sell/:product_code ---
// Direct counter sale without a bill: locked check-and-decrement.
func SellProduct(c *gin.Context) {
	code := c.Param("product_code")
	quantitySold, err := strconv.Atoi(c.PostForm("quantity_sold"))
	if err != nil || quantitySold <= 0 {
		c.String(http.StatusBadRequest, "Invalid quantity_sold")
		return
	}

	err = database.DB.Transaction(func(tx *gorm.DB) error {
		q := tx
		// SQLite has no FOR UPDATE; its single writer already serializes
		if tx.Dialector.Name() != "sqlite" {
			q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var product models.Product
		if err := q.Where("product_code = ?", code).
			First(&product).Error; err != nil {
			return err
		}

		if product.Quantity < quantitySold {
			return errInsufficient
		}

		product.Quantity -= quantitySold
		return tx.Save(&product).Error
	})
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			c.String(http.StatusNotFound, "Product not found")
		case errors.Is(err, errInsufficient):
			c.String(http.StatusBadRequest, "Not enough stock available")
		default:
			c.String(http.StatusInternalServerError, err.Error())
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock updated"})
}

var errInsufficient = errors.New("not enough stock available")

// --- POST: /stock/edit/:product_code ---
func EditStock(c *gin.Context) {
	code := c.Param("product_code")

	var product models.Product
	if err := database.DB.Where("product_code = ?", code).First(&product).Error; err != nil {
		c.String(http.StatusNotFound, "Product not found")
		return
	}

	form, err := parseStockForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	product.ItemName = form.ItemName
	product.SellingPrice = form.SellingPrice
	product.CostPrice = form.CostPrice
	product.Expiry = form.Expiry
	product.Quantity = form.Quantity

	if err := database.DB.Save(&product).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update stock item"})
		return
	}

	c.JSON(http.StatusOK, product)
}

// --- POST: /stock/delete/:product_code ---
func DeleteStock(c *gin.Context) {
	code := c.Param("product_code")

	result := database.DB.Where("product_code = ?", code).Delete(&models.Product{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete stock item"})
		return
	}
	if result.RowsAffected == 0 {
		c.String(http.StatusNotFound, "Stock item not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Stock item successfully deleted"})
}
