package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/architect/adaptive-tutor/internal/common/errors"
	"github.com/architect/adaptive-tutor/internal/common/middleware"
	"github.com/architect/adaptive-tutor/internal/tutor/models"
	"github.com/architect/adaptive-tutor/internal/tutor/services"
)

// GenerateQuestion serves one adaptive question for the caller
func GenerateQuestion(c *gin.Context) {
	learnerID := middleware.LearnerID(c)
	if learnerID == "" {
		middleware.JSONErrorResponse(c, errors.Unauthorized("learner identity required"))
		return
	}

	var req models.GenerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.GenerateQuestion(c.Request.Context(), learnerID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, resp)
}

// GenerateBatch serves a difficulty-graded question set
func GenerateBatch(c *gin.Context) {
	learnerID := middleware.LearnerID(c)
	if learnerID == "" {
		middleware.JSONErrorResponse(c, errors.Unauthorized("learner identity required"))
		return
	}

	var req models.GenerateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.GenerateBatch(c.Request.Context(), learnerID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, resp)
}

// SubmitAttempt records a graded or abandoned attempt
func SubmitAttempt(c *gin.Context) {
	learnerID := middleware.LearnerID(c)
	if learnerID == "" {
		middleware.JSONErrorResponse(c, errors.Unauthorized("learner identity required"))
		return
	}

	var req models.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.SubmitAttempt(c.Request.Context(), learnerID, req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, resp)
}

// GetHint returns a Socratic hint for a question in progress
func GetHint(c *gin.Context) {
	var req models.HintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.JSONErrorResponse(c, errors.BadRequest(err.Error()))
		return
	}

	resp, err := services.GetHint(c.Request.Context(), req)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, resp)
}

// GetLearnerStats returns per-topic attempt rollups and proficiencies
func GetLearnerStats(c *gin.Context) {
	learnerID := middleware.LearnerID(c)
	if learnerID == "" {
		middleware.JSONErrorResponse(c, errors.Unauthorized("learner identity required"))
		return
	}

	resp, err := services.GetLearnerStats(learnerID)
	if err != nil {
		middleware.JSONErrorResponse(c, err)
		return
	}

	c.JSON(200, resp)
}
