package handlers

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"stockease/internal/billing"
	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /customers/list ---
// Customers with outstanding unpaid totals.
func CustomerList(c *gin.Context) {
	dues, err := database.CustomerDues(database.DB, billing.StatusUnpaid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dues)
}

// --- POST: /customers/send_reminder/:name/:mobile ---
// Emails a payment reminder listing the customer's unpaid bills. The target
// address comes from the "email" form field, falling back to the shop
// account so the owner can forward it.
func SendCustomerReminder(c *gin.Context) {
	customerName := c.Param("name")
	customerMobile := c.Param("mobile")

	var account models.Account
	if err := database.DB.First(&account).Error; err != nil {
		c.String(http.StatusNotFound, "No account found. Please create an account first.")
		return
	}

	var unpaid []models.BillLine
	err := database.DB.
		Where("customer_name = ? AND customer_mobile = ? AND status = ?",
			customerName, customerMobile, billing.StatusUnpaid).
		Find(&unpaid).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if len(unpaid) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("No unpaid bills found for %s", customerName)})
		return
	}

	var details strings.Builder
	var totalDue float64
	for _, line := range unpaid {
		fmt.Fprintf(&details, "Product: %s, Amount: %.2f\n", line.ProductCode, line.TotalPrice)
		totalDue += line.TotalPrice
	}

	body := fmt.Sprintf(
		"Dear %s,\n\nYou have the following unpaid bills:\n%s\nTotal Amount Due: %.2f\n\nPlease make the payment at your earliest convenience.\n\nRegards,\n%s\nPowered By Stock8Ease",
		customerName, details.String(), totalDue, account.FirmName,
	)

	recipient := c.PostForm("email")
	if recipient == "" {
		recipient = account.Email
	}

	reminder := models.Reminder{
		ReminderType: "Dues",
		Message:      fmt.Sprintf("Payment reminder for %s (%s)", customerName, customerMobile),
		ReminderDate: time.Now(),
		Status:       "Sent",
	}

	if err := Mail.Send("Payment reminder from "+account.FirmName, body, recipient); err != nil {
		reminder.Status = "Failed"
		database.DB.Create(&reminder)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if err := database.DB.Create(&reminder).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("Reminder sent for %s", customerName), "total_due": totalDue})
}
