package user

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/nkechi/Smartprep/internal/dto"
	"github.com/nkechi/Smartprep/internal/service"
	"github.com/rs/zerolog/log"
)

type TestController struct {
	sessions        service.SessionManager
	assembler       service.AssemblerService
	results         service.ResultService
	questionService service.QuestionService
}

func NewTestController(sessions service.SessionManager, assembler service.AssemblerService, results service.ResultService, questionService service.QuestionService) *TestController {
	return &TestController{
		sessions:        sessions,
		assembler:       assembler,
		results:         results,
		questionService: questionService,
	}
}

// GetQuestions godoc
// @Summary List bank questions by exam and subject
// @Description Empty subject returns every question for the exam.
// @Tags Questions
// @Produce json
// @Param exam query string true "Exam type, e.g. WAEC"
// @Param subject query string false "Subject name"
// @Success 200 {array} dto.QuestionResponseDTO
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /questions [get]
func (c *TestController) GetQuestions(ctx *gin.Context) {
	exam := ctx.Query("exam")
	subject := ctx.Query("subject")

	questions, err := c.questionService.GetQuestions(exam, subject)
	if err != nil {
		log.Error().Err(err).Str("exam", exam).Str("subject", subject).Msg("GetQuestions: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not load questions", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, questions)
}

// GetSubjects godoc
// @Summary List subjects offerable for an exam
// @Description Distinct subjects present in the bank, or the exam's static default list when the bank is empty.
// @Tags Questions
// @Produce json
// @Param exam query string true "Exam type"
// @Success 200 {array} string
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /subjects [get]
func (c *TestController) GetSubjects(ctx *gin.Context) {
	exam := ctx.Query("exam")
	subjects, err := c.assembler.OfferableSubjects(exam)
	if err != nil {
		log.Error().Err(err).Str("exam", exam).Msg("GetSubjects: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Could not load subjects", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, subjects)
}

// StartTest godoc
// @Summary Start a timed test session
// @Description Assembles a shuffled question set per chosen subject and starts the countdown (30 minutes per subject). Starting a new test discards the child's prior session.
// @Tags Test Sessions
// @Accept json
// @Produce json
// @Param body body dto.StartTestDTO true "Child and subject selection"
// @Success 200 {object} dto.SessionDTO "Session with sanitized questions; correct options are withheld"
// @Failure 400 {object} dto.ErrorResponse "Invalid request"
// @Failure 500 {object} dto.ErrorResponse "Question bank unavailable"
// @Router /test/start [post]
func (c *TestController) StartTest(ctx *gin.Context) {
	var req dto.StartTestDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	sess, err := c.sessions.Start(req)
	if err != nil {
		log.Error().Err(err).Uint("childID", req.ChildID).Msg("StartTest: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to start test", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, sess.ToDTO(true))
}

// GetSession godoc
// @Summary Get the state of a live session
// @Tags Test Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /test/sessions/{session_id} [get]
func (c *TestController) GetSession(ctx *gin.Context) {
	sess, ok := c.lookupSession(ctx)
	if !ok {
		return
	}
	ctx.JSON(http.StatusOK, sess.ToDTO(false))
}

// AnswerQuestion godoc
// @Summary Record an answer in a live session
// @Description Records or replaces the chosen option for a question. The cursor does not move.
// @Tags Test Sessions
// @Accept json
// @Produce json
// @Param session_id path string true "Session ID"
// @Param answer body dto.AnswerDTO true "Subject, question id and chosen option"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session no longer active"
// @Router /test/sessions/{session_id}/answer [post]
func (c *TestController) AnswerQuestion(ctx *gin.Context) {
	sess, ok := c.lookupSession(ctx)
	if !ok {
		return
	}

	var req dto.AnswerDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	if err := sess.Answer(req.Subject, req.QuestionID, req.Option); err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sess.ToDTO(false))
}

// NextQuestion godoc
// @Summary Advance the session cursor
// @Tags Test Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session no longer active"
// @Router /test/sessions/{session_id}/next [post]
func (c *TestController) NextQuestion(ctx *gin.Context) {
	sess, ok := c.lookupSession(ctx)
	if !ok {
		return
	}
	if err := sess.Next(); err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sess.ToDTO(false))
}

// PreviousQuestion godoc
// @Summary Retreat the session cursor
// @Tags Test Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.SessionDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session no longer active"
// @Router /test/sessions/{session_id}/previous [post]
func (c *TestController) PreviousQuestion(ctx *gin.Context) {
	sess, ok := c.lookupSession(ctx)
	if !ok {
		return
	}
	if err := sess.Previous(); err != nil {
		ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, sess.ToDTO(false))
}

// SubmitSession godoc
// @Summary Submit a live session for grading
// @Description Grades the session and appends the record to the child's history. If saving fails the session survives and the same call can be retried without re-grading.
// @Tags Test Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.TestRecordDTO
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Failure 409 {object} dto.ErrorResponse "Session already submitted"
// @Failure 503 {object} dto.ErrorResponse "Result store unavailable; retry"
// @Router /test/sessions/{session_id}/submit [post]
func (c *TestController) SubmitSession(ctx *gin.Context) {
	sess, ok := c.lookupSession(ctx)
	if !ok {
		return
	}

	outcome, err := sess.Submit()
	if err != nil {
		if errors.Is(err, service.ErrSessionTerminated) {
			ctx.JSON(http.StatusConflict, dto.ErrorResponse{Message: "Session already submitted"})
			return
		}
		log.Error().Err(err).Str("sessionID", sess.ID).Msg("SubmitSession: persist failed, session retained for retry")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Submission could not be saved, please retry", Details: []string{err.Error()}})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"message": "Test submitted successfully",
		"record":  service.ToTestRecordDTO(outcome.Record),
		"results": outcome.History,
	})
}

// DiscardSession godoc
// @Summary Discard a live session without grading
// @Tags Test Sessions
// @Produce json
// @Param session_id path string true "Session ID"
// @Success 200 {object} dto.MessageResponse
// @Failure 404 {object} dto.ErrorResponse "Session not found"
// @Router /test/sessions/{session_id} [delete]
func (c *TestController) DiscardSession(ctx *gin.Context) {
	if err := c.sessions.Discard(ctx.Param("session_id")); err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
		return
	}
	ctx.JSON(http.StatusOK, dto.MessageResponse{Message: "Session discarded"})
}

// SubmitTest godoc
// @Summary Submit an externally graded test payload
// @Description Compatibility endpoint matching the portal's original wire contract: accepts a TestRecord-shaped payload plus child identifiers and appends it to the child's history.
// @Tags Results
// @Accept json
// @Produce json
// @Param payload body dto.TestSubmitDTO true "Graded test payload"
// @Success 200 {object} dto.ResultsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid payload"
// @Failure 503 {object} dto.ErrorResponse "Result store unavailable; retry"
// @Router /test/submit [post]
func (c *TestController) SubmitTest(ctx *gin.Context) {
	var req dto.TestSubmitDTO
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid request body", Details: []string{err.Error()}})
		return
	}

	results, err := c.results.SubmitPayload(req)
	if err != nil {
		log.Error().Err(err).Uint("childID", req.ChildID).Msg("SubmitTest: Service error")
		ctx.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Message: "Submission could not be saved, please retry", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": "Test submitted successfully", "results": results.Results})
}

// GetResults godoc
// @Summary Get a child's result history
// @Description Tests are returned in insertion order, oldest first. Sorting by date is up to the caller.
// @Tags Results
// @Produce json
// @Param childId path int true "Child ID"
// @Success 200 {object} dto.ResultsResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid child ID"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /test/results/{childId} [get]
func (c *TestController) GetResults(ctx *gin.Context) {
	childID, err := strconv.ParseUint(ctx.Param("childId"), 10, 32)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "Invalid child ID format"})
		return
	}

	results, err := c.results.GetResults(uint(childID))
	if err != nil {
		log.Error().Err(err).Uint64("childID", childID).Msg("GetResults: Service error")
		ctx.JSON(http.StatusInternalServerError, dto.ErrorResponse{Message: "Failed to retrieve results", Details: []string{err.Error()}})
		return
	}
	ctx.JSON(http.StatusOK, results)
}

func (c *TestController) lookupSession(ctx *gin.Context) (*service.Session, bool) {
	sess, err := c.sessions.Get(ctx.Param("session_id"))
	if err != nil {
		ctx.JSON(http.StatusNotFound, dto.ErrorResponse{Message: "Session not found"})
		return nil, false
	}
	return sess, true
}
