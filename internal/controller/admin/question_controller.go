package admin

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/service"
	"github.com/rs/zerolog/log"
)

type QuestionController struct {
	questionService service.QuestionService
}

func NewQuestionController(questionService service.QuestionService) *QuestionController {
	return &QuestionController{questionService: questionService}
}

// DevKeyAuth guards admin mutations with the x-dev-key header.
func DevKeyAuth(key string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if key == "" || ctx.GetHeader("x-dev-key") != key {
			ctx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Unauthorized"})
			return
		}
		ctx.Next()
	}
}

// AddQuestions godoc
// @Summary (Admin) Upload a batch of questions
// @Description Adds one or more questions to the bank. Requires the x-dev-key header.
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param questions body []dto.QuestionCreateDTO true "Questions to add"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 403 {object} dto.ErrorResponse "Missing or wrong dev key"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions/add [post]
func (c *QuestionController) AddQuestions(ctx *gin.Context) {
	var reqs []dto.QuestionCreateDTO
	if err := ctx.ShouldBindBodyWith(&reqs, binding.JSON); err != nil {
		// The portal's uploader also sends single objects.
		var single dto.QuestionCreateDTO
		if err2 := ctx.ShouldBindBodyWith(&single, binding.JSON); err2 != nil {
			ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question payload", Details: []string{err.Error()}})
			return
		}
		reqs = []dto.QuestionCreateDTO{single}
	}
	if len(reqs) == 0 {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "At least one question is required"})
		return
	}

	added, err := c.questionService.AddQuestions(reqs)
	if err != nil {
		log.Error().Err(err).Msg("Admin AddQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Error saving questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Questions added successfully", "added": added})
}

// UpdateQuestion godoc
// @Summary (Admin) Edit a question
// @Tags Admin - Questions
// @Accept json
// @Produce json
// @Param id path int true "Question ID"
// @Param question body dto.QuestionUpdateDTO true "Fields to change"
// @Success 200 {object} dto.QuestionResponseDTO
// @Failure 400 {object} dto.ErrorResponse "Invalid ID or payload"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/update/{id} [put]
func (c *QuestionController) UpdateQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	var req dto.QuestionUpdateDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	updated, err := c.questionService.UpdateQuestion(uint(id), req)
	if err != nil {
		log.Warn().Err(err).Uint64("questionID", id).Msg("Admin UpdateQuestion: not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Question updated", "updated": updated})
}

// DeleteQuestion godoc
// @Summary (Admin) Delete a question
// @Tags Admin - Questions
// @Produce json
// @Param id path int true "Question ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/delete/{id} [delete]
func (c *QuestionController) DeleteQuestion(ctx *gin.Context) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid question ID format"})
		return
	}

	if err := c.questionService.DeleteQuestion(uint(id)); err != nil {
		log.Warn().Err(err).Uint64("questionID", id).Msg("Admin DeleteQuestion: not found or service error")
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Question deleted"})
}
