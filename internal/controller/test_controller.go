package controller

import (
	"errors"
	"net/http"
	"secaware_backend/internal/service"
	"secaware_backend/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TestController struct {
	TestService    *service.TestService
	GradingService *service.GradingService
}

func NewTestController(testService *service.TestService, gradingService *service.GradingService) *TestController {
	return &TestController{TestService: testService, GradingService: gradingService}
}

// ListTests godoc
// @Summary List all tests
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Test}
// @Router /api/tests [get]
func (c *TestController) ListTests(ctx *gin.Context) {
	tests, err := c.TestService.List()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tests)
}

// GetTest godoc
// @Summary Get a test with questions and answer options
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test id"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Router /api/tests/{id} [get]
func (c *TestController) GetTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	test, err := c.TestService.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

type takeTestReq struct {
	Answers []service.SubmittedAnswer `json:"answers" binding:"required"`
}

// TakeTest godoc
// @Summary Submit answers and receive the graded result
// @Description Grades the submission against the test and appends one attempt
// @Description record. Every submission is a fresh attempt.
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test id"
// @Param body body takeTestReq true "Submitted answers"
// @Success 200 {object} util.Response{data=service.GradeResult}
// @Failure 404 {object} util.Response
// @Failure 422 {object} util.Response
// @Router /api/tests/{id}/take [post]
func (c *TestController) TakeTest(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	var req takeTestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.GradingService.TakeTest(claims.UserID, id, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrTestHasNoQuestions):
			util.Error(ctx, http.StatusUnprocessableEntity, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, result)
}

// MyResults godoc
// @Summary The current user's attempt history, newest first
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserTest}
// @Router /api/tests/results [get]
func (c *TestController) MyResults(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	results, err := c.GradingService.ResultsForUser(claims.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, results)
}

// CreateTest godoc
// @Summary Create a test under a course
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.TestReq true "Test payload"
// @Success 201 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Router /api/admin/tests [post]
func (c *TestController) CreateTest(ctx *gin.Context) {
	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Create(req)
	if err != nil {
		if errors.Is(err, service.ErrCourseNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, test)
}

// UpdateTest godoc
// @Summary Update a test
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test id"
// @Param body body service.TestReq true "Test payload"
// @Success 200 {object} util.Response{data=model.Test}
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id} [put]
func (c *TestController) UpdateTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	var req service.TestReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	test, err := c.TestService.Update(id, req)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, test)
}

// DeleteTest godoc
// @Summary Delete a test and its question tree
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test id"
// @Success 200 {object} util.Response
// @Router /api/admin/tests/{id} [delete]
func (c *TestController) DeleteTest(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid test id")
		return
	}
	if err := c.TestService.Delete(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateQuestion godoc
// @Summary Add a question to a test
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Test id"
// @Param body body service.QuestionReq true "Question payload"
// @Success 201 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/admin/tests/{id}/questions [post]
func (c *TestController) CreateQuestion(ctx *gin.Context) {
	testID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid test id")
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.CreateQuestion(testID, req)
	if err != nil {
		if errors.Is(err, util.ErrTestNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Created(ctx, question)
}

// UpdateQuestion godoc
// @Summary Update a question
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Param body body service.QuestionReq true "Question payload"
// @Success 200 {object} util.Response{data=model.Question}
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id} [put]
func (c *TestController) UpdateQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.QuestionReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	question, err := c.TestService.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, question)
}

// DeleteQuestion godoc
// @Summary Delete a question and its answers
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Success 200 {object} util.Response
// @Router /api/admin/questions/{id} [delete]
func (c *TestController) DeleteQuestion(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}
	if err := c.TestService.DeleteQuestion(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// CreateAnswer godoc
// @Summary Add an answer option to a question
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Question id"
// @Param body body service.AnswerReq true "Answer payload"
// @Success 201 {object} util.Response{data=model.Answer}
// @Failure 404 {object} util.Response
// @Router /api/admin/questions/{id}/answers [post]
func (c *TestController) CreateAnswer(ctx *gin.Context) {
	questionID, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid question id")
		return
	}

	var req service.AnswerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.TestService.CreateAnswer(questionID, req)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Created(ctx, answer)
}

// UpdateAnswer godoc
// @Summary Update an answer option
// @Tags tests
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Answer id"
// @Param body body service.AnswerReq true "Answer payload"
// @Success 200 {object} util.Response{data=model.Answer}
// @Failure 404 {object} util.Response
// @Router /api/admin/answers/{id} [put]
func (c *TestController) UpdateAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid answer id")
		return
	}

	var req service.AnswerReq
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answer, err := c.TestService.UpdateAnswer(id, req)
	if err != nil {
		if errors.Is(err, service.ErrAnswerNotFound) {
			util.NotFound(ctx)
			return
		}
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, answer)
}

// DeleteAnswer godoc
// @Summary Delete an answer option
// @Tags tests
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "Answer id"
// @Success 200 {object} util.Response
// @Router /api/admin/answers/{id} [delete]
func (c *TestController) DeleteAnswer(ctx *gin.Context) {
	id, ok := pathID(ctx, "id")
	if !ok {
		util.BadRequest(ctx, "invalid answer id")
		return
	}
	if err := c.TestService.DeleteAnswer(id); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}
