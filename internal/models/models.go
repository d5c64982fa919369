package models

import (
	"time"
)

// Account - The shop owner / login identity
type Account struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserName     string  `gorm:"uniqueIndex;size:120" json:"username"`
	FirmName     string  `gorm:"size:120" json:"firm_name"`
	Email        string  `gorm:"uniqueIndex;size:120" json:"email"`
	Mobile       string  `gorm:"size:20" json:"mobile"`
	PasswordHash string  `json:"-"` // Never return this in JSON
	SalesTarget  float64 `json:"sales_target"`
	Expenses     float64 `json:"expenses"`
}

// Product - The Inventory (one row per stock item)
type Product struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ProductCode  string    `gorm:"uniqueIndex;size:50" json:"product_code"`
	ItemName     string    `gorm:"size:100" json:"item_name"`
	SellingPrice float64   `json:"selling_price"`
	CostPrice    float64   `json:"price"` // purchase price, exported as "price"
	Expiry       time.Time `json:"expiry"`
	Quantity     int       `json:"quantity"`
}

// BillLine - one product entry of a customer bill.
// Lines sharing a BillID form one logical bill; only Status may change
// after creation.
type BillLine struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	BillID         string    `gorm:"index;size:36" json:"bill_id"`
	CustomerName   string    `gorm:"size:100" json:"customer_name"`
	CustomerMobile string    `gorm:"size:15" json:"customer_mobile"`
	ProductCode    string    `gorm:"size:50;index" json:"product_code"`
	Product        Product   `gorm:"foreignKey:ProductCode;references:ProductCode" json:"-"`
	Quantity       int       `json:"quantity"`
	TotalPrice     float64   `json:"total_price"`
	TotalProfit    float64   `json:"total_profit"`
	Status         string    `gorm:"size:10" json:"status"` // 'Paid' or 'Unpaid'
	Timestamp      time.Time `json:"timestamp"`
}

// Party - supplier / wholesale party the shop orders from
type Party struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	PartyName      string    `gorm:"size:120" json:"party_name"`
	ContactDetails string    `gorm:"size:255" json:"contact_details"`
	OrderStatus    string    `gorm:"size:50" json:"order_status"` // Ordered, Pending, Delivered
	OrderReminder  time.Time `json:"order_reminder"`
}

// Staff - an employee on the payroll
type Staff struct {
	ID         uint         `gorm:"primaryKey" json:"id"`
	Name       string       `gorm:"size:100" json:"name"`
	Mobile     string       `gorm:"size:20" json:"mobile"`
	Email      string       `gorm:"uniqueIndex;size:100" json:"email"`
	Salary     float64      `json:"salary"`
	Attendance []Attendance `gorm:"foreignKey:StaffID" json:"attendance,omitempty"`
}

// Attendance - one record per staff member per day
type Attendance struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	StaffID      uint       `gorm:"index" json:"staff_id"`
	Date         time.Time  `json:"date"`
	PunchIn      time.Time  `json:"punch_in"`
	PunchOut     *time.Time `json:"punch_out,omitempty"`
	WorkingHours float64    `json:"working_hours"`
	Status       string     `gorm:"size:20" json:"status"` // Full Day, Half Day, Absent
}

// SalarySlip - generated payroll record for one staff member and month
type SalarySlip struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	StaffID      uint    `gorm:"index" json:"staff_id"`
	Month        string  `gorm:"size:7" json:"month"` // YYYY-MM
	Year         int     `json:"year"`
	FullDays     int     `json:"full_days"`
	HalfDays     int     `json:"half_days"`
	TotalPayment float64 `json:"total_payment"`
}

// Reminder - a dispatched notification, kept for the audit trail
type Reminder struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	ReminderType string    `gorm:"size:50" json:"reminder_type"` // Expiry, Stock level, Dues, Digest
	Message      string    `gorm:"size:255" json:"reminder_message"`
	ReminderDate time.Time `json:"reminder_date"`
	Status       string    `gorm:"size:50" json:"status"` // Pending, Sent, Failed
}
