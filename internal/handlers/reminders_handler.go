package handlers

import (
	"net/http"
	"time"

	"stockease/internal/database"

	"github.com/gin-gonic/gin"
)

// expiryReminderDays is how far ahead the expiry reminder looks.
const expiryReminderDays = 7

// --- GET: /reminders/expiry_reminder ---
func ExpiryReminder(c *gin.Context) {
	products, err := database.ExpiringWithin(database.DB, time.Now(), expiryReminderDays)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /reminders/low_stock_reminder ---
func LowStockReminder(c *gin.Context) {
	products, err := database.LimitedStock(database.DB, lowStockThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /reminders/rules ---
func ReminderRules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"rules": []string{
			"Expiry reminders are triggered for items expiring in the next 7 days.",
			"Low stock reminders are triggered for items with quantity <= 10.",
		},
	})
}
