package controller

import (
	"errors"
	"fitacademy_backend/internal/service"
	"fitacademy_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type OnboardingController struct {
	OnboardingService  *service.OnboardingService
	EntitlementService *service.EntitlementService
}

func NewOnboardingController(onboardingService *service.OnboardingService, entitlementService *service.EntitlementService) *OnboardingController {
	return &OnboardingController{
		OnboardingService:  onboardingService,
		EntitlementService: entitlementService,
	}
}

// @Summary Onboarding status
// @Description Current onboarding step, milestone set and guidance. The step is derived from the milestones and the user's entitlement on every call.
// @Tags onboarding
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /onboarding [get]
func (c *OnboardingController) GetStatus(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	flags, err := c.EntitlementService.Resolve(ctx.Request.Context(), user.UserID, user.Package)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	state, err := c.OnboardingService.Status(user.UserID, flags)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, state)
}

type advanceRequest struct {
	Milestone service.Milestone `json:"milestone" binding:"required"`
	Value     bool              `json:"value"`
}

// @Summary Advance onboarding
// @Description Sets one milestone and advances the step as far as the milestone set allows. First write for a user creates the onboarding record.
// @Tags onboarding
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body advanceRequest true "Milestone to set"
// @Success 200 {object} util.Response
// @Router /onboarding/advance [post]
func (c *OnboardingController) Advance(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req advanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	flags, err := c.EntitlementService.Resolve(ctx.Request.Context(), user.UserID, user.Package)
	if err != nil {
		if errors.Is(err, util.ErrUserNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	state, err := c.OnboardingService.Advance(user.UserID, req.Milestone, req.Value, flags)
	if err != nil {
		if errors.Is(err, util.ErrUnknownMilestone) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, state)
}
