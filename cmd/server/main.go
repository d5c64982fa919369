package main

import (
	"log"
	"time"

	"stockease/internal/auth"
	"stockease/internal/config"
	"stockease/internal/database"
	"stockease/internal/handlers"
	"stockease/internal/middleware"
	"stockease/internal/notify"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	auth.Init(cfg.JWTSecret)
	database.Connect(cfg.DBDSN)

	handlers.Mail = notify.NewMailer(cfg)
	handlers.AllowRegistration = cfg.AllowRegistration
	if cfg.AllowRegistration {
		log.Println("WARNING: Registration route is OPEN. Disable this in production!")
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"status": "online"}) })
	r.POST("/login", handlers.Login)
	// First-run bootstrap; gated inside the handler once an account exists
	r.POST("/account/add", handlers.AddAccount)

	api := r.Group("/")
	api.Use(middleware.AuthMiddleware())
	{
		bill := api.Group("/billing")
		{
			bill.POST("/create", handlers.CreateBill)
			bill.POST("/update_status/:bill_id", handlers.UpdateBillStatus)
			bill.POST("/delete/:bill_id", handlers.DeleteBill)
			bill.POST("/delete_all", handlers.DeleteAllBills)
			bill.GET("/all", handlers.ViewAllBills)
			bill.GET("/view/:bill_id", handlers.ViewBill)
			bill.GET("/billing-data", handlers.BillingData)
			bill.GET("/monthly", handlers.MonthlySales)
			bill.GET("/top-selling-products", handlers.TopSellingProducts)
			bill.GET("/total-sales", handlers.TotalSales)
			bill.GET("/total-profit", handlers.TotalProfit)
			bill.GET("/due", handlers.TotalDue)
			bill.GET("/limited-stock", handlers.LimitedStock)
			bill.GET("/next-expiry", handlers.NextExpiry)
			bill.GET("/expired-items", handlers.ExpiredItems)
			bill.GET("/search_customer", handlers.SearchCustomer)
		}

		stock := api.Group("/stock")
		{
			stock.POST("/add", handlers.AddStock)
			stock.GET("/view", handlers.ViewStock)
			stock.GET("/overview", handlers.StockOverview)
			stock.POST("/sell/:product_code", handlers.SellProduct)
			stock.POST("/edit/:product_code", handlers.EditStock)
			stock.POST("/delete/:product_code", handlers.DeleteStock)
			stock.GET("/expired-items", handlers.ExpiredItems)
		}

		party := api.Group("/party")
		{
			party.POST("/add", handlers.AddParty)
			party.GET("/details", handlers.PartyDetails)
			party.GET("/orders", handlers.PartyOrders)
			party.GET("/order_reminder", handlers.PartyOrderReminder)
		}

		staff := api.Group("/staff")
		{
			staff.POST("/add", handlers.AddStaff)
			staff.GET("", handlers.StaffList)
			staff.POST("/punch_in/:staff_id", handlers.PunchIn)
			staff.POST("/punch_out/:staff_id", handlers.PunchOut)
			staff.GET("/generate_payroll/:staff_id", handlers.GeneratePayroll)
		}

		account := api.Group("/account")
		{
			account.GET("/profile", handlers.GetProfile)
			account.POST("/profile", handlers.UpdateProfile)
			account.POST("/target_and_expenses", handlers.TargetAndExpenses)
			account.POST("/delete/:id", handlers.DeleteAccount)
		}

		dashboard := api.Group("/dashboard")
		{
			dashboard.GET("", handlers.Dashboard)
			dashboard.GET("/today_sales", handlers.TodaySales)
			dashboard.GET("/total_profit", handlers.DashboardTotalProfit)
			dashboard.POST("/send-reminder", handlers.SendDashboardReminder)
		}

		customers := api.Group("/customers")
		{
			customers.GET("/list", handlers.CustomerList)
			customers.POST("/send_reminder/:name/:mobile", handlers.SendCustomerReminder)
		}

		reminders := api.Group("/reminders")
		{
			reminders.GET("/expiry_reminder", handlers.ExpiryReminder)
			reminders.GET("/low_stock_reminder", handlers.LowStockReminder)
			reminders.GET("/rules", handlers.ReminderRules)
		}

		api.POST("/ask", handlers.AskAI)
	}

	log.Println("Server starting on " + cfg.BaseURL)
	if err := r.Run(cfg.HTTPAddr); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
