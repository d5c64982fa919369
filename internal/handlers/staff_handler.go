package handlers

import (
	"net/http"
	"strconv"
	"time"

	"stockease/internal/database"
	"stockease/internal/models"

	"github.com/gin-gonic/gin"
)

// Attendance status thresholds in working hours.
const (
	fullDayHours = 5
	halfDayHours = 3
)

// --- POST: /staff/add ---
func AddStaff(c *gin.Context) {
	salary, err := strconv.ParseFloat(c.PostForm("salary"), 64)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid salary")
		return
	}

	staff := models.Staff{
		Name:   c.PostForm("name"),
		Mobile: c.PostForm("mobile"),
		Email:  c.PostForm("email"),
		Salary: salary,
	}
	if staff.Name == "" || staff.Email == "" {
		c.String(http.StatusBadRequest, "name and email are required")
		return
	}

	if err := database.DB.Create(&staff).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Staff member likely already exists"})
		return
	}

	c.JSON(http.StatusCreated, staff)
}

// --- GET: /staff ---
// Every staff member with today's punch state.
func StaffList(c *gin.Context) {
	var staff []models.Staff
	if err := database.DB.Find(&staff).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch staff"})
		return
	}

	today := dayStart(time.Now())

	list := make([]gin.H, 0, len(staff))
	for _, member := range staff {
		var attendance models.Attendance
		err := database.DB.
			Where("staff_id = ? AND date = ?", member.ID, today).
			First(&attendance).Error

		punchedIn := err == nil
		punchedOut := err == nil && attendance.PunchOut != nil

		list = append(list, gin.H{
			"id":                member.ID,
			"name":              member.Name,
			"mobile":            member.Mobile,
			"email":             member.Email,
			"salary":            member.Salary,
			"today_punched_in":  punchedIn,
			"today_punched_out": punchedOut,
		})
	}

	c.JSON(http.StatusOK, list)
}

// --- POST: /staff/punch_in/:staff_id ---
// One attendance row per staff member per day; repeated punch-ins are no-ops.
func PunchIn(c *gin.Context) {
	staffID, err := strconv.Atoi(c.Param("staff_id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid staff id")
		return
	}

	var staff models.Staff
	if err := database.DB.First(&staff, staffID).Error; err != nil {
		c.String(http.StatusNotFound, "Staff member not found")
		return
	}

	now := time.Now()
	today := dayStart(now)

	var existing models.Attendance
	err = database.DB.Where("staff_id = ? AND date = ?", staffID, today).First(&existing).Error
	if err == nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already punched in today"})
		return
	}

	attendance := models.Attendance{
		StaffID: uint(staffID),
		Date:    today,
		PunchIn: now,
		Status:  "Absent", // upgraded at punch-out once hours are known
	}
	if err := database.DB.Create(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record punch-in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Punched in", "attendance": attendance})
}

// --- POST: /staff/punch_out/:staff_id ---
func PunchOut(c *gin.Context) {
	staffID, err := strconv.Atoi(c.Param("staff_id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid staff id")
		return
	}

	now := time.Now()
	today := dayStart(now)

	var attendance models.Attendance
	if err := database.DB.Where("staff_id = ? AND date = ?", staffID, today).First(&attendance).Error; err != nil {
		c.String(http.StatusNotFound, "No punch-in found for today")
		return
	}
	if attendance.PunchOut != nil {
		c.JSON(http.StatusOK, gin.H{"message": "Already punched out today"})
		return
	}

	attendance.PunchOut = &now
	attendance.WorkingHours = roundHours(now.Sub(attendance.PunchIn))
	attendance.Status = statusForHours(attendance.WorkingHours)

	if err := database.DB.Save(&attendance).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record punch-out"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Punched out", "attendance": attendance})
}

// --- GET: /staff/generate_payroll/:staff_id?month=YYYY-MM ---
func GeneratePayroll(c *gin.Context) {
	staffID, err := strconv.Atoi(c.Param("staff_id"))
	if err != nil {
		c.String(http.StatusBadRequest, "invalid staff id")
		return
	}

	month := c.DefaultQuery("month", time.Now().Format("2006-01"))
	monthStart, err := time.Parse("2006-01", month)
	if err != nil {
		c.String(http.StatusBadRequest, "invalid month, expected YYYY-MM")
		return
	}

	var staff models.Staff
	if err := database.DB.First(&staff, staffID).Error; err != nil {
		c.String(http.StatusNotFound, "Staff member not found")
		return
	}

	var attendances []models.Attendance
	err = database.DB.
		Where("staff_id = ? AND date >= ? AND date < ?", staffID, monthStart, monthStart.AddDate(0, 1, 0)).
		Find(&attendances).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch attendance"})
		return
	}

	fullDays, halfDays, totalPayment := payrollFor(attendances, staff.Salary)

	slip := models.SalarySlip{
		StaffID:      uint(staffID),
		Month:        month,
		Year:         monthStart.Year(),
		FullDays:     fullDays,
		HalfDays:     halfDays,
		TotalPayment: totalPayment,
	}
	if err := database.DB.Create(&slip).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save salary slip"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"staff":         staff.Name,
		"month":         month,
		"full_days":     fullDays,
		"half_days":     halfDays,
		"total_payment": totalPayment,
	})
}

// payrollFor counts full and half days and pays at salary/30 per full day,
// half of that per half day.
func payrollFor(attendances []models.Attendance, salary float64) (fullDays, halfDays int, totalPayment float64) {
	for _, a := range attendances {
		switch a.Status {
		case "Full Day":
			fullDays++
		case "Half Day":
			halfDays++
		}
	}

	perDayRate := salary / 30
	totalPayment = float64(fullDays)*perDayRate + float64(halfDays)*(perDayRate/2)
	return fullDays, halfDays, totalPayment
}

func statusForHours(hours float64) string {
	switch {
	case hours >= fullDayHours:
		return "Full Day"
	case hours >= halfDayHours:
		return "Half Day"
	default:
		return "Absent"
	}
}

// roundHours converts a duration to hours with two decimals.
func roundHours(d time.Duration) float64 {
	return float64(int(d.Hours()*100+0.5)) / 100
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
