// Package billing implements the bill lifecycle: transactional creation
// against stock, month-scoped bill numbering, payment-status updates and
// deletion. All mutations are all-or-nothing; stock decrements and line
// inserts never commit separately.
package billing

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"stockease/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	StatusPaid   = "Paid"
	StatusUnpaid = "Unpaid"
)

var (
	// ErrLineMismatch - product code and quantity lists differ in length.
	ErrLineMismatch = errors.New("mismatch between product codes and quantities")
	// ErrBillNotFound - no bill lines carry the requested identifier.
	ErrBillNotFound = errors.New("bill not found")
)

// ProductNotFoundError names the offending code so the caller can report it.
type ProductNotFoundError struct {
	Code string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.Code)
}

// InsufficientStockError is returned when a requested quantity exceeds the
// on-hand quantity of a product.
type InsufficientStockError struct {
	Code      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough stock available for product %s", e.Code)
}

// CreateBillInput is one bill-creation request. Codes and Quantities are
// parallel slices in line order.
type CreateBillInput struct {
	CustomerName   string
	CustomerMobile string
	Paid           bool
	Codes          []string
	Quantities     []int
}

// BillSummary is the receipt for a created or viewed bill.
type BillSummary struct {
	BillID      string            `json:"bill_id"`
	Lines       []models.BillLine `json:"lines"`
	TotalPrice  float64           `json:"total_price"`
	TotalProfit float64           `json:"total_profit"`
}

// createMu serializes bill creation within the process so two requests
// cannot read the same month count and mint the same bill identifier.
var createMu sync.Mutex

// lockForUpdate row-locks the query on engines that support it. SQLite has
// no FOR UPDATE; its single writer serializes at the file level.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}

// nextBillID produces the identifier for a new bill: year, 2-digit month,
// then a 2-digit 1-based sequence over the bills already created this
// calendar month. Must run inside the creation transaction.
func nextBillID(tx *gorm.DB, now time.Time) (string, error) {
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	monthEnd := monthStart.AddDate(0, 1, 0)

	var count int64
	if err := tx.Model(&models.BillLine{}).
		Where("timestamp >= ? AND timestamp < ?", monthStart, monthEnd).
		Distinct("bill_id").
		Count(&count).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%d%02d%02d", now.Year(), int(now.Month()), count+1), nil
}

// CreateBill validates every line, decrements stock and inserts the bill
// lines in a single transaction. One identifier is generated per call and
// shared by all lines. On any failure nothing is persisted.
func CreateBill(db *gorm.DB, in CreateBillInput) (*BillSummary, error) {
	if len(in.Codes) != len(in.Quantities) {
		return nil, ErrLineMismatch
	}

	status := StatusUnpaid
	if in.Paid {
		status = StatusPaid
	}

	createMu.Lock()
	defer createMu.Unlock()

	now := time.Now()
	summary := &BillSummary{}

	err := db.Transaction(func(tx *gorm.DB) error {
		billID, err := nextBillID(tx, now)
		if err != nil {
			return err
		}
		summary.BillID = billID

		for i, code := range in.Codes {
			quantity := in.Quantities[i]

			var product models.Product
			// Lock the row so the check and the decrement act on the
			// same quantity even under concurrent checkouts.
			if err := lockForUpdate(tx).
				Where("product_code = ?", code).
				First(&product).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return &ProductNotFoundError{Code: code}
				}
				return err
			}

			if product.Quantity < quantity {
				return &InsufficientStockError{
					Code:      code,
					Requested: quantity,
					Available: product.Quantity,
				}
			}

			linePrice := product.SellingPrice * float64(quantity)
			lineProfit := (product.SellingPrice - product.CostPrice) * float64(quantity)

			product.Quantity -= quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			line := models.BillLine{
				BillID:         billID,
				CustomerName:   in.CustomerName,
				CustomerMobile: in.CustomerMobile,
				ProductCode:    code,
				Quantity:       quantity,
				TotalPrice:     linePrice,
				TotalProfit:    lineProfit,
				Status:         status,
				Timestamp:      now,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}

			summary.Lines = append(summary.Lines, line)
			summary.TotalPrice += linePrice
			summary.TotalProfit += lineProfit
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return summary, nil
}

// UpdateStatus sets every line of a bill to the given status in one
// operation. Reapplying the current status is a no-op.
func UpdateStatus(db *gorm.DB, billID, status string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.BillLine{}).
			Where("bill_id = ?", billID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrBillNotFound
		}

		return tx.Model(&models.BillLine{}).
			Where("bill_id = ?", billID).
			Update("status", status).Error
	})
}

// DeleteBill removes every line of one bill. Deletion never restocks the
// sold quantities.
func DeleteBill(db *gorm.DB, billID string) error {
	result := db.Where("bill_id = ?", billID).Delete(&models.BillLine{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBillNotFound
	}
	return nil
}

// DeleteAll removes every bill line unconditionally.
func DeleteAll(db *gorm.DB) error {
	return db.Where("1 = 1").Delete(&models.BillLine{}).Error
}

// GetBill loads the lines of one bill and sums its totals.
func GetBill(db *gorm.DB, billID string) (*BillSummary, error) {
	var lines []models.BillLine
	if err := db.Where("bill_id = ?", billID).Order("id").Find(&lines).Error; err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrBillNotFound
	}

	summary := &BillSummary{BillID: billID, Lines: lines}
	for _, line := range lines {
		summary.TotalPrice += line.TotalPrice
		summary.TotalProfit += line.TotalProfit
	}
	return summary, nil
}
