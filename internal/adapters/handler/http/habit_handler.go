package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Julian1612/trackerApp/internal/core/domain"
	"github.com/Julian1612/trackerApp/internal/core/services"
)

type HabitHandler struct {
	svc *services.HabitService
}

func NewHabitHandler(svc *services.HabitService) *HabitHandler {
	return &HabitHandler{
		svc: svc,
	}
}

type reminderRequest struct {
	ID              string `json:"id"`
	Time            string `json:"time" binding:"required"`
	IsEnabled       bool   `json:"is_enabled"`
	IsCustomMessage bool   `json:"is_custom_message"`
	CustomMessage   string `json:"custom_message"`
}

type habitRequest struct {
	Title          string            `json:"title" binding:"required"`
	Emoji          string            `json:"emoji"`
	Category       string            `json:"category"`
	Unit           string            `json:"unit"`
	Type           string            `json:"type" binding:"required"`
	GoalValue      float64           `json:"goal_value"`
	Recurrence     string            `json:"recurrence" binding:"required"`
	Frequency      []int             `json:"frequency"`
	RoutineTime    string            `json:"routine_time" binding:"required"`
	MotivationText string            `json:"motivation_text"`
	Reminders      []reminderRequest `json:"reminders"`
}

type progressRequest struct {
	Value float64 `json:"value"`
}

type logProgressRequest struct {
	Delta float64 `json:"delta"`
}

type reorderRequest struct {
	SrcID string `json:"src_id" binding:"required"`
	DstID string `json:"dst_id" binding:"required"`
}

func (h *HabitHandler) RegisterRoutes(router *gin.RouterGroup) {
	habits := router.Group("/habits")
	{
		habits.POST("", h.Create)
		habits.GET("", h.List)
		habits.GET("/visible", h.Visible)
		habits.GET("/:id", h.Get)
		habits.PUT("/:id", h.Update)
		habits.DELETE("/:id", h.Delete)
		habits.POST("/:id/progress", h.UpdateProgress)
		habits.POST("/:id/log", h.LogProgress)
		habits.POST("/reorder", h.Reorder)
	}
}

func reminderInputs(reqs []reminderRequest) []services.ReminderInput {
	inputs := make([]services.ReminderInput, 0, len(reqs))
	for _, r := range reqs {
		inputs = append(inputs, services.ReminderInput{
			ID:              r.ID,
			Time:            r.Time,
			IsEnabled:       r.IsEnabled,
			IsCustomMessage: r.IsCustomMessage,
			CustomMessage:   r.CustomMessage,
		})
	}
	return inputs
}

// isValidationError separates boundary rejections from real failures.
func isValidationError(err error) bool {
	return errors.Is(err, domain.ErrHabitTitleEmpty) ||
		errors.Is(err, domain.ErrHabitTitleTooLong) ||
		errors.Is(err, domain.ErrMotivationTooLong) ||
		errors.Is(err, domain.ErrInvalidGoal) ||
		errors.Is(err, domain.ErrInvalidProgress) ||
		errors.Is(err, domain.ErrInvalidHabitType) ||
		errors.Is(err, domain.ErrInvalidRecurrence) ||
		errors.Is(err, domain.ErrInvalidRoutineTime) ||
		errors.Is(err, domain.ErrInvalidWeekdays) ||
		errors.Is(err, domain.ErrWeeklyNeedsFrequency) ||
		errors.Is(err, domain.ErrInvalidReminderTime)
}

func (h *HabitHandler) Create(c *gin.Context) {
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.AddHabitInput{
		Title:          req.Title,
		Emoji:          req.Emoji,
		Category:       req.Category,
		Unit:           req.Unit,
		Type:           req.Type,
		GoalValue:      req.GoalValue,
		Recurrence:     req.Recurrence,
		Frequency:      req.Frequency,
		RoutineTime:    req.RoutineTime,
		MotivationText: req.MotivationText,
		Reminders:      reminderInputs(req.Reminders),
	}

	habit, err := h.svc.AddHabit(c.Request.Context(), input)
	if err != nil {
		if isValidationError(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusCreated, habit)
}

func (h *HabitHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Habits())
}

func (h *HabitHandler) Visible(c *gin.Context) {
	category := c.DefaultQuery("category", "All")
	c.JSON(http.StatusOK, gin.H{
		"category":     category,
		"routine_time": h.svc.SelectedRoutineTime(),
		"habits":       h.svc.VisibleHabits(category),
	})
}

func (h *HabitHandler) Get(c *gin.Context) {
	id := c.Param("id")

	for _, habit := range h.svc.Habits() {
		if habit.ID == id {
			c.JSON(http.StatusOK, habit)
			return
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": domain.ErrHabitNotFound.Error()})
}

func (h *HabitHandler) Update(c *gin.Context) {
	var req habitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := services.UpdateHabitInput{
		ID:             c.Param("id"),
		Title:          req.Title,
		Emoji:          req.Emoji,
		Category:       req.Category,
		Unit:           req.Unit,
		Type:           req.Type,
		GoalValue:      req.GoalValue,
		Recurrence:     req.Recurrence,
		Frequency:      req.Frequency,
		RoutineTime:    req.RoutineTime,
		MotivationText: req.MotivationText,
		Reminders:      reminderInputs(req.Reminders),
	}

	habit, err := h.svc.UpdateHabit(c.Request.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case isValidationError(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, habit)
}

func (h *HabitHandler) Delete(c *gin.Context) {
	err := h.svc.DeleteHabit(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *HabitHandler) UpdateProgress(c *gin.Context) {
	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.writeProgress(c, func() error {
		return h.svc.UpdateProgress(c.Request.Context(), c.Param("id"), req.Value)
	})
}

func (h *HabitHandler) LogProgress(c *gin.Context) {
	var req logProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.writeProgress(c, func() error {
		return h.svc.LogProgress(c.Request.Context(), c.Param("id"), req.Delta)
	})
}

func (h *HabitHandler) writeProgress(c *gin.Context, write func() error) {
	if err := write(); err != nil {
		switch {
		case errors.Is(err, domain.ErrHabitNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, domain.ErrInvalidProgress):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"habits":  h.svc.Habits(),
		"heatmap": h.svc.HeatmapData(),
	})
}

func (h *HabitHandler) Reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.svc.MoveHabit(c.Request.Context(), req.SrcID, req.DstID); err != nil {
		if errors.Is(err, domain.ErrHabitNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, h.svc.Habits())
}
