package controller

import (
	"errors"
	"fitacademy_backend/internal/service"
	"fitacademy_backend/internal/util"
	"time"

	"github.com/gin-gonic/gin"
)

type SchemaController struct {
	SchemaService *service.SchemaService
}

func NewSchemaController(schemaService *service.SchemaService) *SchemaController {
	return &SchemaController{SchemaService: schemaService}
}

type startPeriodRequest struct {
	StartDate string `json:"startDate"` // yyyy-mm-dd, defaults to today
}

// @Summary Start a schema period
// @Description Opens an active period on the schema for the current user. Any previously active period is closed first; one active period per user.
// @Tags schemas
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param schemaId path string true "Schema ID"
// @Param body body startPeriodRequest false "Optional start date"
// @Success 201 {object} util.Response
// @Router /schemas/{schemaId}/periods [post]
func (c *SchemaController) StartPeriod(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startPeriodRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	var startDate time.Time
	if req.StartDate != "" {
		parsed, err := time.Parse(util.DateFormat, req.StartDate)
		if err != nil {
			util.BadRequest(ctx, "Invalid start date, expected yyyy-mm-dd")
			return
		}
		startDate = parsed
	}

	period, err := c.SchemaService.StartPeriod(user.UserID, ctx.Param("schemaId"), startDate)
	if err != nil {
		if errors.Is(err, util.ErrSchemaNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, period)
}

// @Summary Schema completion status
// @Description Day and week counters for the schema. Weeks derive from completed days and the user's weekly training frequency; an explicit completion overrides the arithmetic.
// @Tags schemas
// @Produce json
// @Security ApiKeyAuth
// @Param schemaId path string true "Schema ID"
// @Success 200 {object} util.Response
// @Router /schemas/{schemaId}/status [get]
func (c *SchemaController) GetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.SchemaService.CompletionStatus(user.UserID, ctx.Param("schemaId"))
	if err != nil {
		if errors.Is(err, util.ErrSchemaNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}

type completeDayRequest struct {
	DayNumber int `json:"dayNumber" binding:"required"`
}

// @Summary Complete a training day
// @Description Records one finished training day. Idempotent per (user, schema, day): retries never inflate the counters.
// @Tags schemas
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param schemaId path string true "Schema ID"
// @Param body body completeDayRequest true "Day number within the schema"
// @Success 200 {object} util.Response
// @Router /schemas/{schemaId}/days/complete [post]
func (c *SchemaController) CompleteDay(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req completeDayRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.SchemaService.CompleteTrainingDay(user.UserID, ctx.Param("schemaId"), req.DayNumber)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSchemaNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidDayNumber):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// @Summary Period history
// @Description Lists the current user's schema periods, newest first.
// @Tags schemas
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /schemas/periods [get]
func (c *SchemaController) ListPeriods(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	periods, err := c.SchemaService.PeriodHistory(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, periods)
}

// @Summary Mark a schema completed
// @Description Records the explicit completion event for the schema and closes the matching active period. Calling it again is a no-op.
// @Tags schemas
// @Produce json
// @Security ApiKeyAuth
// @Param schemaId path string true "Schema ID"
// @Success 200 {object} util.Response
// @Router /schemas/{schemaId}/complete [post]
func (c *SchemaController) MarkCompleted(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	status, err := c.SchemaService.MarkCompleted(user.UserID, ctx.Param("schemaId"))
	if err != nil {
		if errors.Is(err, util.ErrSchemaNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, status)
}
