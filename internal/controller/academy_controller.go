package controller

import (
	"errors"
	"fitacademy_backend/internal/service"
	"fitacademy_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type AcademyController struct {
	AcademyService *service.AcademyService
}

func NewAcademyController(academyService *service.AcademyService) *AcademyController {
	return &AcademyController{AcademyService: academyService}
}

type completeLessonRequest struct {
	Score            int `json:"score"`
	TimeSpentSeconds int `json:"timeSpentSeconds"`
}

// @Summary Complete a lesson
// @Description Records a lesson completion for the current user. Safe to retry: a repeat completion overwrites score and time instead of creating a duplicate.
// @Tags academy
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param lessonId path int true "Lesson ID"
// @Param body body completeLessonRequest false "Score and time spent"
// @Success 200 {object} util.Response
// @Router /academy/lessons/{lessonId}/complete [post]
func (c *AcademyController) CompleteLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, err := strconv.Atoi(ctx.Param("lessonId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid lesson ID")
		return
	}

	var req completeLessonRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	completion, err := c.AcademyService.CompleteLesson(user.UserID, uint(lessonID), req.Score, req.TimeSpentSeconds)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidTimeSpent):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, gin.H{"completedAt": completion.CompletedAt})
}

// @Summary List academy modules
// @Description Lists the published curriculum with the current user's unlock and completion state.
// @Tags academy
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response
// @Router /academy/modules [get]
func (c *AcademyController) GetModules(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	modules, err := c.AcademyService.ListModules(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, modules)
}

// @Summary Module progress
// @Description Per-lesson completion state for one module, with neighbouring module ids.
// @Tags academy
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /academy/modules/{moduleId}/progress [get]
func (c *AcademyController) GetModuleProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.Atoi(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid module ID")
		return
	}

	progress, err := c.AcademyService.ModuleProgress(user.UserID, uint(moduleID))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, progress)
}

// @Summary Re-evaluate a module gate
// @Description Runs the gate evaluation for any user, as if that user had just completed a lesson in the module. Operational tool for deployments where a failed synchronous evaluation left an unlock behind.
// @Tags admin
// @Produce json
// @Security ApiKeyAuth
// @Param userId path int true "User ID"
// @Param moduleId path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /admin/users/{userId}/modules/{moduleId}/evaluate [post]
func (c *AcademyController) AdminEvaluateModule(ctx *gin.Context) {
	userID, err := strconv.Atoi(ctx.Param("userId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid user ID")
		return
	}
	moduleID, err := strconv.Atoi(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid module ID")
		return
	}

	eval, err := c.AcademyService.EvaluateModule(uint(userID), uint(moduleID))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, eval)
}

// @Summary Unlock the next module
// @Description Unlocks the module after this one when every published lesson is completed. Idempotent: an already unlocked module reports success with reason already_unlocked.
// @Tags academy
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path int true "Module ID"
// @Success 200 {object} util.Response
// @Router /academy/modules/{moduleId}/unlock-next [post]
func (c *AcademyController) UnlockNextModule(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	moduleID, err := strconv.Atoi(ctx.Param("moduleId"))
	if err != nil {
		util.BadRequest(ctx, "Invalid module ID")
		return
	}

	result, err := c.AcademyService.UnlockNextModule(user.UserID, uint(moduleID))
	if err != nil {
		if errors.Is(err, util.ErrModuleNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}
