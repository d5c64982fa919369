package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"stockease/internal/billing"
	"stockease/internal/database"
	"stockease/internal/models"
	"stockease/internal/notify"

	"github.com/gin-gonic/gin"
)

// Mail is the reminder dispatcher, wired from configuration at startup.
var Mail notify.Sender

// --- GET: /dashboard ---
// The landing summary: stock value, low stock, next expiry, this month's
// and today's sales.
func Dashboard(c *gin.Context) {
	db := database.DB
	now := time.Now()

	stockValue, err := database.StockValue(db)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	lowStock, err := database.LimitedStock(db, lowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	nextExpiry, err := database.NextExpiry(db, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthly, err := database.SalesBetween(db, monthStart, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	today, err := database.DaySales(db, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_stock_value": stockValue,
		"low_stock_items":   lowStock,
		"next_expiry_item":  nextExpiry,
		"monthly_sales":     monthly.TotalRevenue,
		"today_sales":       today.TotalRevenue,
	})
}

// --- GET: /dashboard/today_sales ---
func TodaySales(c *gin.Context) {
	report, err := database.DaySales(database.DB, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"today_sales":  report.TotalRevenue,
		"today_profit": report.TotalProfit,
	})
}

// --- GET: /dashboard/total_profit ---
// Realized profit only: lines already marked Paid.
func DashboardTotalProfit(c *gin.Context) {
	var profit float64
	err := database.DB.Model(&models.BillLine{}).
		Where("status = ?", billing.StatusPaid).
		Select("COALESCE(SUM(total_profit), 0)").
		Scan(&profit).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"total_profit": profit})
}

// --- POST: /dashboard/send-reminder ---
// Emails the owner a digest of low stock, expired items and today's sales,
// and records the dispatch.
func SendDashboardReminder(c *gin.Context) {
	var account models.Account
	if err := database.DB.First(&account).Error; err != nil {
		c.String(http.StatusNotFound, "No account found. Please create an account first.")
		return
	}

	now := time.Now()

	lowStock, err := database.LimitedStock(database.DB, lowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	expired, err := database.ExpiredItems(database.DB, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	today, err := database.DaySales(database.DB, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	body := buildDigest(lowStock, expired, today)

	reminder := models.Reminder{
		ReminderType: "Digest",
		Message:      fmt.Sprintf("Daily digest for %s", now.Format("2006-01-02")),
		ReminderDate: now,
		Status:       "Sent",
	}

	if err := Mail.Send("Stock8Ease daily reminder", body, account.Email); err != nil {
		reminder.Status = "Failed"
		database.DB.Create(&reminder)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Create(&reminder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Reminder sent successfully"})
}

func buildDigest(lowStock, expired []models.Product, today *database.SalesReportResult) string {
	var b strings.Builder
	b.WriteString("Reminder:\n\n")

	if len(lowStock) > 0 {
		names := make([]string, 0, len(lowStock))
		for _, p := range lowStock {
			names = append(names, p.ItemName)
		}
		fmt.Fprintf(&b, "Limited Stock Items: %s\n", strings.Join(names, ", "))
	} else {
		b.WriteString("No limited stock items.\n")
	}

	fmt.Fprintf(&b, "Today's Sales: %.2f\n", today.TotalRevenue)
	fmt.Fprintf(&b, "Today's Profit: %.2f\n", today.TotalProfit)

	if len(expired) > 0 {
		names := make([]string, 0, len(expired))
		for _, p := range expired {
			names = append(names, p.ItemName)
		}
		fmt.Fprintf(&b, "Expired Items: %s\n", strings.Join(names, ", "))
	} else {
		b.WriteString("No expired items.\n")
	}

	return b.String()
}
