package handlers

import (
	"net/http"
	"time"

	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
)

// reorderThreshold flags stock low enough to order from a party.
const reorderThreshold = 5

// --- POST: /party/add ---
func AddParty(c *gin.Context) {
	reminder, err := time.Parse("2006-01-02", c.PostForm("order_reminder"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid order_reminder, expected YYYY-MM-DD")
		return
	}

	party := models.Party{
		PartyName:      c.PostForm("party_name"),
		ContactDetails: c.PostForm("contact_details"),
		OrderStatus:    c.PostForm("order_status"),
		OrderReminder:  reminder,
	}
	if party.PartyName == "" {
		c.String(http.StatusBadRequest, "party_name is required")
		return
	}

	if err := database.DB.Create(&party).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create party"})
		return
	}

	c.JSON(http.StatusCreated, party)
}

// --- GET: /party/details ---
func PartyDetails(c *gin.Context) {
	var parties []models.Party
	if err := database.DB.Find(&parties).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch parties"})
		return
	}
	c.JSON(http.StatusOK, parties)
}

// --- GET: /party/orders ---
// The full stock list, as the order sheet shown to suppliers.
func PartyOrders(c *gin.Context) {
	var products []models.Product
	if err := database.DB.Find(&products).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch stock"})
		return
	}
	c.JSON(http.StatusOK, products)
}

// --- GET: /party/order_reminder ---
// Items low enough that an order should go out.
func PartyOrderReminder(c *gin.Context) {
	products, err := database.LimitedStock(database.DB, reorderThreshold)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, products)
}
