package controllers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yeremiapane/stall-pos/services"
	"github.com/yeremiapane/stall-pos/utils"
)

const (
	dateLayout        = "2006-01-02"
	maxReportDays     = 366
	defaultReportDays = 7
)

type AdminController struct {
	Reports *services.ReportService
	now     func() time.Time
}

func NewAdminController(reports *services.ReportService) *AdminController {
	return &AdminController{Reports: reports, now: time.Now}
}

func parseDate(value string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// GetDailySales -> ringkasan penjualan satu hari, ?date= (default hari ini)
func (ac *AdminController) GetDailySales(c *gin.Context) {
	now := ac.now()
	day := now
	if v := c.Query("date"); v != "" {
		parsed, err := parseDate(v, now.Location())
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		day = parsed
	}

	report, err := ac.Reports.DailySales(c.Request.Context(), day)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Daily sales", report)
}

// GetDashboardStats mengambil statistik untuk dashboard
func (ac *AdminController) GetDashboardStats(c *gin.Context) {
	overview, err := ac.Reports.Overview(c.Request.Context(), ac.now())
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard overview", overview)
}

// GetSalesByDate returns one row per day between ?from= and ?to= inclusive.
func (ac *AdminController) GetSalesByDate(c *gin.Context) {
	now := ac.now()
	to := now
	var err error
	if v := c.Query("to"); v != "" {
		if to, err = parseDate(v, now.Location()); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	from := to.AddDate(0, 0, -(defaultReportDays - 1))
	if v := c.Query("from"); v != "" {
		if from, err = parseDate(v, now.Location()); err != nil {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
	}
	if to.Before(from) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("from must not be after to"))
		return
	}
	if to.Sub(from) > maxReportDays*24*time.Hour {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("date range is limited to %d days", maxReportDays))
		return
	}

	rows, err := ac.Reports.SalesByDate(c.Request.Context(), from, to)
	if err != nil {
		respondErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales by date", rows)
}
