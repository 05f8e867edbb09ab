package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-today/internal/app"
	"github.com/KasumiMercury/primind-today/internal/observability/logging"
)

type ReminderHandler struct {
	list   app.ReminderList
	alerts app.AlertUseCase
}

func NewReminderHandler(list app.ReminderList, alerts app.AlertUseCase) *ReminderHandler {
	return &ReminderHandler{
		list:   list,
		alerts: alerts,
	}
}

func (h *ReminderHandler) List(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)

		return
	}

	output, err := h.list.List(c.Request.Context(), app.ListInput{Filter: req.Filter})
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromListDTO(output))
}

func (h *ReminderHandler) Reload(c *gin.Context) {
	var req ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.bindError(c, err)

		return
	}

	output, err := h.list.Reload(c.Request.Context(), app.ListInput{Filter: req.Filter})
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromListDTO(output))
}

func (h *ReminderHandler) Create(c *gin.Context) {
	slog.InfoContext(c.Request.Context(), "handling create reminder request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
	)

	var query ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)

		return
	}

	var req CreateReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)

		return
	}

	output, err := h.list.Add(c.Request.Context(), app.AddInput{
		Filter:  query.Filter,
		Title:   req.Title,
		DueDate: req.DueDate,
		Notes:   req.Notes,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	slog.InfoContext(c.Request.Context(), "reminder created successfully",
		"reminder_id", output.Reminder.ID,
		"visible", output.FilteredIndex != nil,
	)
	c.JSON(http.StatusCreated, AddResponse{
		Reminder:      FromReminderDTO(output.Reminder),
		FilteredIndex: output.FilteredIndex,
	})
}

func (h *ReminderHandler) Get(c *gin.Context) {
	output, err := h.list.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromReminderDTO(output))
}

func (h *ReminderHandler) Edit(c *gin.Context) {
	id := c.Param("id")

	slog.InfoContext(c.Request.Context(), "handling edit reminder request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"reminder_id", id,
	)

	var req EditReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.bindError(c, err)

		return
	}

	output, err := h.list.Edit(c.Request.Context(), app.EditInput{
		ID:       id,
		Title:    req.Title,
		DueDate:  req.DueDate,
		Notes:    req.Notes,
		Complete: req.Complete,
	})
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromReminderDTO(output))
}

func (h *ReminderHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	slog.InfoContext(c.Request.Context(), "handling delete reminder request",
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"reminder_id", id,
	)

	if err := h.list.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReminderHandler) Detail(c *gin.Context) {
	output, err := h.list.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromDetailDTO(output))
}

func (h *ReminderHandler) EditForm(c *gin.Context) {
	output, err := h.list.EditForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromEditFormDTO(output))
}

func (h *ReminderHandler) ToggleRow(c *gin.Context) {
	input, ok := h.bindRow(c)
	if !ok {
		return
	}

	output, err := h.list.ToggleComplete(c.Request.Context(), input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromReminderDTO(output))
}

func (h *ReminderHandler) DeleteRow(c *gin.Context) {
	input, ok := h.bindRow(c)
	if !ok {
		return
	}

	if err := h.list.DeleteAt(c.Request.Context(), input); err != nil {
		h.handleError(c, err)

		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ReminderHandler) Access(c *gin.Context) {
	output := h.list.Access(c.Request.Context())

	c.JSON(http.StatusOK, AccessResponse{Access: string(output.State)})
}

func (h *ReminderHandler) RequestAccess(c *gin.Context) {
	output, err := h.list.RequestAccess(c.Request.Context())
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, AccessResponse{Access: string(output.State)})
}

func (h *ReminderHandler) AlertAction(c *gin.Context) {
	input := app.AlertActionInput{
		ReminderID: c.Param("id"),
		Action:     c.Param("action"),
	}

	ctx := logging.WithModule(c.Request.Context(), logging.ModuleAlerts)

	slog.InfoContext(ctx, "handling alert action",
		"reminder_id", input.ReminderID,
		"action", input.Action,
	)

	output, err := h.alerts.HandleAction(ctx, input)
	if err != nil {
		h.handleError(c, err)

		return
	}

	c.JSON(http.StatusOK, FromReminderDTO(output))
}

func (h *ReminderHandler) bindRow(c *gin.Context) (app.RowInput, bool) {
	var uri RowRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.bindError(c, err)

		return app.RowInput{}, false
	}

	var query ListRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		h.bindError(c, err)

		return app.RowInput{}, false
	}

	return app.RowInput{Filter: query.Filter, Row: uri.Row}, true
}

func (h *ReminderHandler) bindError(c *gin.Context, err error) {
	slog.WarnContext(c.Request.Context(), "request validation failed",
		"error", err,
		"path", c.Request.URL.Path,
	)
	c.JSON(http.StatusBadRequest, ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

func (h *ReminderHandler) handleError(c *gin.Context, err error) {
	var validationErr *app.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: validationErr.Message,
			Field:   validationErr.Field,
		})

		return
	}

	switch {
	case errors.Is(err, app.ErrNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{
			Error:   "not_found",
			Message: "reminder not found",
		})
	case errors.Is(err, app.ErrAccessDenied):
		c.JSON(http.StatusForbidden, ErrorResponse{
			Error:   "access_denied",
			Message: "access to the reminder store was denied",
		})
	case errors.Is(err, app.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Error:   "store_unavailable",
			Message: "the reminder store is unavailable",
		})
	case errors.Is(err, app.ErrSaveFailed), errors.Is(err, app.ErrDeleteFailed):
		c.JSON(http.StatusBadGateway, ErrorResponse{
			Error:   "store_write_failed",
			Message: err.Error(),
		})
	default:
		slog.ErrorContext(c.Request.Context(), "unhandled request error",
			"error", err,
			"path", c.Request.URL.Path,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "internal_error",
			Message: "an internal error occurred",
		})
	}
}

func (h *ReminderHandler) RegisterRoutes(router *gin.RouterGroup) {
	reminders := router.Group("/reminders")
	{
		reminders.GET("", h.List)
		reminders.POST("", h.Create)
		reminders.POST("/reload", h.Reload)
		reminders.GET("/:id", h.Get)
		reminders.PUT("/:id", h.Edit)
		reminders.DELETE("/:id", h.Delete)
		reminders.GET("/:id/detail", h.Detail)
		reminders.GET("/:id/form", h.EditForm)
	}

	rows := router.Group("/rows")
	{
		rows.POST("/:row/toggle", h.ToggleRow)
		rows.DELETE("/:row", h.DeleteRow)
	}

	access := router.Group("/access")
	{
		access.GET("", h.Access)
		access.POST("/request", h.RequestAccess)
	}

	router.POST("/alerts/:id/actions/:action", h.AlertAction)
}
