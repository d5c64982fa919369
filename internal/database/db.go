package database

import (
	"log"
	"time"

	"stockease/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the MySQL database and syncs the schema.
// The DSN comes from configuration so the same binary runs against
// local and hosted databases.
func Connect(dsn string) {
	if dsn == "" {
		log.Fatal("Error: DB_DSN is not set. Please configure your database.")
	}

	var err error

	// Wait for the DB to come up (docker-compose starts both together)
	for i := 0; i < 5; i++ {
		DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}

	if err != nil {
		log.Fatal("Failed to connect to database after 5 attempts:", err)
	}

	log.Println("Connected to MySQL")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate schema:", err)
	}

	log.Println("Database schema synced")
}

// Migrate creates or updates every table. Split out from Connect so tests
// can run it against their own database handle.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Account{},
		&models.Product{},
		&models.BillLine{},
		&models.Party{},
		&models.Staff{},
		&models.Attendance{},
		&models.SalarySlip{},
		&models.Reminder{},
	)
}
