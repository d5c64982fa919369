package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"stockease/internal/billing"
	"stockease/internal/database"
	"stockease/internal/models"
	"stockease/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// fakeSender records outgoing mail instead of dialing SMTP.
type fakeSender struct {
	subjects   []string
	bodies     []string
	recipients [][]string
	fail       bool
}

func (f *fakeSender) Send(subject, body string, to ...string) error {
	if f.fail {
		return errors.New("smtp unreachable")
	}
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
	f.recipients = append(f.recipients, to)
	return nil
}

var _ notify.Sender = (*fakeSender)(nil)

func useFakeSender(t *testing.T) *fakeSender {
	t.Helper()
	fake := &fakeSender{}
	prev := Mail
	Mail = fake
	t.Cleanup(func() { Mail = prev })
	return fake
}

func seedAccount(t *testing.T, db *gorm.DB) models.Account {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	account := models.Account{
		UserName:     "owner",
		FirmName:     "Corner Store",
		Email:        "owner@example.com",
		PasswordHash: string(hashed),
	}
	require.NoError(t, db.Create(&account).Error)
	return account
}

func dashboardRouter() *gin.Engine {
	r := gin.New()
	r.GET("/dashboard", Dashboard)
	r.GET("/dashboard/today_sales", TodaySales)
	r.GET("/dashboard/total_profit", DashboardTotalProfit)
	r.POST("/dashboard/send-reminder", SendDashboardReminder)
	return r
}

func TestDashboard(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 4)
	seedProduct(t, db, "SUG2", "Sugar", 40, 25, 50)
	r := dashboardRouter()

	_, err := billing.CreateBill(db, billing.CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1", Paid: true,
		Codes: []string{"SUG2"}, Quantities: []int{2},
	})
	require.NoError(t, err)

	w := getPath(r, "/dashboard")
	require.Equal(t, http.StatusOK, w.Code)
	// 4 milk at 50 plus 48 remaining sugar at 40
	require.Contains(t, w.Body.String(), `"total_stock_value":2120`)
	require.Contains(t, w.Body.String(), `"today_sales":80`)
	require.Contains(t, w.Body.String(), `"item_name":"Milk"`)
}

func TestDashboardTotalProfitPaidOnly(t *testing.T) {
	db := setupTestDB(t)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 20)
	r := dashboardRouter()

	_, err := billing.CreateBill(db, billing.CreateBillInput{
		CustomerName: "Asha", CustomerMobile: "1", Paid: true,
		Codes: []string{"MIL1"}, Quantities: []int{2},
	})
	require.NoError(t, err)
	_, err = billing.CreateBill(db, billing.CreateBillInput{
		CustomerName: "Ravi", CustomerMobile: "2", Paid: false,
		Codes: []string{"MIL1"}, Quantities: []int{5},
	})
	require.NoError(t, err)

	w := getPath(r, "/dashboard/total_profit")
	require.Equal(t, http.StatusOK, w.Code)
	// Only the paid bill counts: 2 * (50-30)
	require.Contains(t, w.Body.String(), `"total_profit":40`)
}

func TestSendDashboardReminder(t *testing.T) {
	db := setupTestDB(t)
	account := seedAccount(t, db)
	seedProduct(t, db, "MIL1", "Milk", 50, 30, 4)
	fake := useFakeSender(t)
	r := dashboardRouter()

	w := postForm(r, "/dashboard/send-reminder", nil)
	require.Equal(t, http.StatusOK, w.Code)

	require.Len(t, fake.bodies, 1)
	require.Contains(t, fake.bodies[0], "Limited Stock Items: Milk")
	require.Equal(t, []string{account.Email}, fake.recipients[0])

	var reminder models.Reminder
	require.NoError(t, db.First(&reminder).Error)
	require.Equal(t, "Digest", reminder.ReminderType)
	require.Equal(t, "Sent", reminder.Status)
}

func TestSendDashboardReminderFailure(t *testing.T) {
	db := setupTestDB(t)
	seedAccount(t, db)
	fake := useFakeSender(t)
	fake.fail = true
	r := dashboardRouter()

	w := postForm(r, "/dashboard/send-reminder", nil)
	require.Equal(t, http.StatusInternalServerError, w.Code)

	// The failed dispatch is still recorded
	var reminder models.Reminder
	require.NoError(t, db.First(&reminder).Error)
	require.Equal(t, "Failed", reminder.Status)
}

func TestBuildDigest(t *testing.T) {
	digest := buildDigest(nil, nil, &database.SalesReportResult{TotalRevenue: 80, TotalProfit: 30})
	require.Contains(t, digest, "No limited stock items.")
	require.Contains(t, digest, "No expired items.")
	require.Contains(t, digest, "Today's Sales: 80.00")
	require.Contains(t, digest, "Today's Profit: 30.00")
}

func TestBuildDigestWithItems(t *testing.T) {
	expiry := time.Now().AddDate(0, 0, -1)
	low := []models.Product{{ItemName: "Milk"}, {ItemName: "Sugar"}}
	expired := []models.Product{{ItemName: "Curd", Expiry: expiry}}

	digest := buildDigest(low, expired, &database.SalesReportResult{})
	require.Contains(t, digest, "Limited Stock Items: Milk, Sugar")
	require.Contains(t, digest, "Expired Items: Curd")
}
