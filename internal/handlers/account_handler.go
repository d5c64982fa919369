package handlers

import (
	"net/http"
	"strconv"

	"stockease/internal/auth"
	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

// AllowRegistration opens /account/add beyond the first account.
// Wired from configuration at startup.
var AllowRegistration bool

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// --- POST: /login ---
func Login(c *gin.Context) {
	var input LoginRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var account models.Account
	if err := database.DB.Where("user_name = ?", input.Username).First(&account).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	token, err := auth.GenerateToken(account.ID, account.UserName)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"username":  account.UserName,
		"firm_name": account.FirmName,
	})
}

// --- POST: /account/add ---
// First-run bootstrap: always allowed when no account exists, gated behind
// ALLOW_REGISTRATION afterwards.
func AddAccount(c *gin.Context) {
	var count int64
	if err := database.DB.Model(&models.Account{}).Count(&count).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if count > 0 && !AllowRegistration {
		c.JSON(http.StatusForbidden, gin.H{"error": "Registration is disabled"})
		return
	}

	password := c.PostForm("password")
	if password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password is required"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	account := models.Account{
		UserName:     c.PostForm("username"),
		FirmName:     c.PostForm("firm_name"),
		Email:        c.PostForm("email"),
		Mobile:       c.PostForm("mobile"),
		PasswordHash: string(hashed),
	}
	if account.UserName == "" || account.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "username and email are required"})
		return
	}

	if err := database.DB.Create(&account).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Account likely already exists"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Account created successfully"})
}

// --- GET: /account/profile ---
func GetProfile(c *gin.Context) {
	var account models.Account
	if err := database.DB.First(&account).Error; err != nil {
		c.String(http.StatusNotFound, "No account found. Please create an account first.")
		return
	}
	c.JSON(http.StatusOK, account)
}

// --- POST: /account/profile ---
func UpdateProfile(c *gin.Context) {
	var account models.Account
	if err := database.DB.First(&account).Error; err != nil {
		c.String(http.StatusNotFound, "No account found. Please create an account first.")
		return
	}

	account.UserName = c.PostForm("username")
	account.Email = c.PostForm("email")
	account.Mobile = c.PostForm("mobile")
	account.FirmName = c.PostForm("firm_name")

	if err := database.DB.Save(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}

// --- POST: /account/target_and_expenses ---
func TargetAndExpenses(c *gin.Context) {
	var account models.Account
	if err := database.DB.First(&account).Error; err != nil {
		c.String(http.StatusNotFound, "No account found. Please create an account first.")
		return
	}

	target, err := strconv.ParseFloat(c.PostForm("sales_target"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid sales_target")
		return
	}
	expenses, err := strconv.ParseFloat(c.PostForm("expenses"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid expenses")
		return
	}

	account.SalesTarget = target
	account.Expenses = expenses

	if err := database.DB.Save(&account).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update targets"})
		return
	}

	c.JSON(http.StatusOK, account)
}

// --- POST: /account/delete/:id ---
func DeleteAccount(c *gin.Context) {
	id := c.Param("id")

	result := database.DB.Delete(&models.Account{}, id)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}
	if result.RowsAffected == 0 {
		c.String(http.StatusNotFound, "Account not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account deleted successfully"})
}
