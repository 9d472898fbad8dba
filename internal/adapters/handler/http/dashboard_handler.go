package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
)

// DashboardHandler serves the read side of the main screen: the
// heatmap vector and the routine-time focus.
type DashboardHandler struct {
	svc *services.HabitService
}

func NewDashboardHandler(svc *services.HabitService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

type selectRoutineTimeRequest struct {
	RoutineTime string `json:"routine_time" binding:"required"`
}

func (h *DashboardHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/heatmap", h.GetHeatmap)
	r.GET("/routine-time", h.GetRoutineTime)
	r.PUT("/routine-time", h.SelectRoutineTime)
	r.POST("/routine-time/auto", h.DetermineRoutineTime)
}

func (h *DashboardHandler) GetHeatmap(c *gin.Context) {
	days := h.svc.HeatmapData()

	c.JSON(http.StatusOK, gin.H{
		"window": len(days),
		"days":   days,
		"scores": domain.Scores(days),
	})
}

func (h *DashboardHandler) GetRoutineTime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routine_time": h.svc.SelectedRoutineTime()})
}

func (h *DashboardHandler) SelectRoutineTime(c *gin.Context) {
	var req selectRoutineTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.SelectRoutineTime(req.RoutineTime); err != nil {
		if errors.Is(err, domain.ErrInvalidRoutineTime) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"routine_time": h.svc.SelectedRoutineTime()})
}

func (h *DashboardHandler) DetermineRoutineTime(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"routine_time": h.svc.DetermineCurrentRoutineTime()})
}
