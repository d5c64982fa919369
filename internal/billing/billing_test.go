package billing

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"stockease/internal/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.BillLine{}))
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, code, name string, selling, cost float64, quantity int) {
	t.Helper()
	require.NoError(t, db.Create(&models.Product{
		ProductCode:  code,
		ItemName:     name,
		SellingPrice: selling,
		CostPrice:    cost,
		Expiry:       time.Now().AddDate(1, 0, 0),
		Quantity:     quantity,
	}).Error)
}

func productQuantity(t *testing.T, db *gorm.DB, code string) int {
	t.Helper()
	var product models.Product
	require.NoError(t, db.Where("product_code = ?", code).First(&product).Error)
	return product.Quantity
}

func TestCreateBillMultiLine(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)
	seedProduct(t, db, "SUG2", "Sugar", 40, 25, 10)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName:   "Asha",
		CustomerMobile: "9876543210",
		Paid:           false,
		Codes:          []string{"MIL1", "SUG2"},
		Quantities:     []int{5, 2},
	})
	require.NoError(t, err)

	// One line per input line, all on one identifier
	require.Len(t, summary.Lines, 2)
	for _, line := range summary.Lines {
		require.Equal(t, summary.BillID, line.BillID)
		require.Equal(t, StatusUnpaid, line.Status)
	}

	// Totals are sums over the lines
	require.Equal(t, 50.0*5+40.0*2, summary.TotalPrice)
	require.Equal(t, (50.0-30.0)*5+(40.0-25.0)*2, summary.TotalProfit)

	// Stock decremented by exactly the requested amounts
	require.Equal(t, 15, productQuantity(t, db, "MIL1"))
	require.Equal(t, 8, productQuantity(t, db, "SUG2"))

	// Lines persisted
	var count int64
	require.NoError(t, db.Model(&models.BillLine{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestCreateBillIdentifierFormat(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName:   "Asha",
		CustomerMobile: "9876543210",
		Codes:          []string{"MIL1"},
		Quantities:     []int{1},
	})
	require.NoError(t, err)

	now := time.Now()
	require.Equal(t, fmt.Sprintf("%d%02d01", now.Year(), int(now.Month())), summary.BillID)
}

func TestCreateBillSequenceIncrements(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	first, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1"}, Quantities: []int{1},
	})
	require.NoError(t, err)

	second, err := CreateBill(db, CreateBillInput{
		CustomerName: "Ravi", CustomerMobile: "2",
		Codes: []string{"MIL1", "MIL1"}, Quantities: []int{1, 1},
	})
	require.NoError(t, err)

	require.NotEqual(t, first.BillID, second.BillID)
	require.True(t, strings.HasSuffix(first.BillID, "01"), "first bill id %s", first.BillID)
	require.True(t, strings.HasSuffix(second.BillID, "02"), "second bill id %s", second.BillID)
}

func TestCreateBillInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)
	seedProduct(t, db, "SUG2", "Sugar", 40, 25, 3)

	// Second line overdraws; the first line's decrement must roll back too
	_, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1", "SUG2"}, Quantities: []int{5, 4},
	})

	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	require.Equal(t, "SUG2", noStock.Code)

	require.Equal(t, 20, productQuantity(t, db, "MIL1"))
	require.Equal(t, 3, productQuantity(t, db, "SUG2"))

	var count int64
	require.NoError(t, db.Model(&models.BillLine{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateBillProductNotFound(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	_, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1", "NOPE9"}, Quantities: []int{5, 1},
	})

	var notFound *ProductNotFoundError
	require.ErrorAs(t, err, &notFound)
	require.Equal(t, "NOPE9", notFound.Code)

	// Nothing committed
	require.Equal(t, 20, productQuantity(t, db, "MIL1"))
	var count int64
	require.NoError(t, db.Model(&models.BillLine{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateBillLineMismatch(t *testing.T) {
	db := newTestDB(t)

	_, err := CreateBill(db, CreateBillInput{
		Codes:      []string{"MIL1", "SUG2"},
		Quantities: []int{1},
	})
	require.ErrorIs(t, err, ErrLineMismatch)
}

func TestCreateBillThenOverdraw(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1"}, Quantities: []int{5},
	})
	require.NoError(t, err)
	require.Equal(t, 250.0, summary.TotalPrice)
	require.Equal(t, 100.0, summary.TotalProfit)
	require.Equal(t, 15, productQuantity(t, db, "MIL1"))

	_, err = CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1"}, Quantities: []int{20},
	})
	var noStock *InsufficientStockError
	require.ErrorAs(t, err, &noStock)
	require.Equal(t, 15, productQuantity(t, db, "MIL1"))
}

func TestUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)
	seedProduct(t, db, "SUG2", "Sugar", 40, 25, 10)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1", "SUG2"}, Quantities: []int{1, 1},
	})
	require.NoError(t, err)

	require.NoError(t, UpdateStatus(db, summary.BillID, StatusPaid))

	var lines []models.BillLine
	require.NoError(t, db.Where("bill_id = ?", summary.BillID).Find(&lines).Error)
	require.Len(t, lines, 2)
	for _, line := range lines {
		require.Equal(t, StatusPaid, line.Status)
	}

	// Reapplying the same status is observationally a no-op
	require.NoError(t, UpdateStatus(db, summary.BillID, StatusPaid))
}

func TestUpdateStatusNotFound(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1"}, Quantities: []int{1},
	})
	require.NoError(t, err)

	require.ErrorIs(t, UpdateStatus(db, "20990101", StatusPaid), ErrBillNotFound)

	// Existing lines untouched
	var line models.BillLine
	require.NoError(t, db.Where("bill_id = ?", summary.BillID).First(&line).Error)
	require.Equal(t, StatusUnpaid, line.Status)
}

func TestDeleteBill(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	summary, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1", "MIL1"}, Quantities: []int{2, 3},
	})
	require.NoError(t, err)
	require.Equal(t, 15, productQuantity(t, db, "MIL1"))

	require.NoError(t, DeleteBill(db, summary.BillID))

	// Every line of the bill goes; stock is not returned
	var count int64
	require.NoError(t, db.Model(&models.BillLine{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, 15, productQuantity(t, db, "MIL1"))

	require.ErrorIs(t, DeleteBill(db, summary.BillID), ErrBillNotFound)
}

func TestDeleteAll(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)

	for i := 0; i < 3; i++ {
		_, err := CreateBill(db, CreateBillInput{
			CustomerName: "Asha", CustomerMobile: "1",
			Codes: []string{"MIL1"}, Quantities: []int{1},
		})
		require.NoError(t, err)
	}
	require.Equal(t, 17, productQuantity(t, db, "MIL1"))

	require.NoError(t, DeleteAll(db))

	var count int64
	require.NoError(t, db.Model(&models.BillLine{}).Count(&count).Error)
	require.Zero(t, count)
	require.Equal(t, 17, productQuantity(t, db, "MIL1"))
}

func TestGetBill(t *testing.T) {
	db := newTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)
	seedProduct(t, db, "SUG2", "Sugar", 40, 25, 10)

	created, err := CreateBill(db, CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1",
		Codes: []string{"MIL1", "SUG2"}, Quantities: []int{2, 1},
	})
	require.NoError(t, err)

	got, err := GetBill(db, created.BillID)
	require.NoError(t, err)
	require.Len(t, got.Lines, 2)
	require.Equal(t, created.TotalPrice, got.TotalPrice)
	require.Equal(t, created.TotalProfit, got.TotalProfit)

	_, err = GetBill(db, "20990101")
	require.ErrorIs(t, err, ErrBillNotFound)
}
