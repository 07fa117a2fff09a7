package handlers

import (
	"net/http"
	"strings"

	"viyarschedule/services/normalize"
	"viyarschedule/services/schedule"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves the read-side endpoints.
type ScheduleHandler struct {
	svc *schedule.Service
}

func NewScheduleHandler(svc *schedule.Service) *ScheduleHandler {
	return &ScheduleHandler{svc: svc}
}

// GetAllByUserHandler handles GET /getAllByUser?name=.
func (h *ScheduleHandler) GetAllByUserHandler(c *gin.Context) {
	res, err := h.svc.ByName(c.Request.Context(), c.Query("name"))
	if err != nil {
		respondError(c, err, "Employee not found")
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetByDepartmentsHandler handles GET /getByDepartments?departments=a,b.
func (h *ScheduleHandler) GetByDepartmentsHandler(c *gin.Context) {
	departments := strings.Split(c.Query("departments"), ",")
	res, err := h.svc.ByDepartments(c.Request.Context(), departments)
	if err != nil {
		respondError(c, err, "No employees found for the given departments")
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetByMonthHandler handles GET /getByMonth?date=MM.YYYY&name=&department=&match=.
func (h *ScheduleHandler) GetByMonthHandler(c *gin.Context) {
	month, year, err := normalize.ParseMonth(c.Query("date"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	mode, err := schedule.ParseMatchMode(c.Query("match"), h.svc.DefaultMode())
	if err != nil {
		respondError(c, err, "")
		return
	}

	q := schedule.MonthQuery{
		Month:      month,
		Year:       year,
		Name:       c.Query("name"),
		Department: c.Query("department"),
		Mode:       mode,
	}
	res, err := h.svc.ByMonthFiltered(c.Request.Context(), q)
	if err != nil {
		respondError(c, err, "No schedules found")
		return
	}
	if len(res) == 0 {
		getLogger(c).Debug("month query empty", zap.Int("month", month), zap.Int("year", year))
		c.JSON(http.StatusNotFound, gin.H{"message": "No schedules found for the specified month"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// FindAllHandler handles GET /findAll?info= suggestions.
func (h *ScheduleHandler) FindAllHandler(c *gin.Context) {
	res, err := h.svc.Suggest(c.Request.Context(), c.Query("info"))
	if err != nil {
		respondError(c, err, "Nothing found")
		return
	}
	c.JSON(http.StatusOK, res)
}
