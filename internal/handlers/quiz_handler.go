package handlers

import (
	"net/http"

	"github.com/SAP-F-2025/valentine-service/internal/models"
	"github.com/SAP-F-2025/valentine-service/internal/services"
	"github.com/SAP-F-2025/valentine-service/internal/utils"
	"github.com/gin-gonic/gin"
)

const (
	maxUploadSize = 1 << 20
	xlsxMIME      = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

type QuizHandler struct {
	BaseHandler
	quizService         services.QuizService
	importExportService services.ImportExportService
}

type ExportQuizRequest struct {
	Quiz []models.QuizQuestion `json:"quiz"`
}

func NewQuizHandler(
	quizService services.QuizService,
	importExportService services.ImportExportService,
	logger utils.Logger,
) *QuizHandler {
	return &QuizHandler{
		BaseHandler:         NewBaseHandler(logger),
		quizService:         quizService,
		importExportService: importExportService,
	}
}

// AnswerQuestion checks one answer of a quiz link
// @Summary Answer question
// @Tags quiz
// @Accept json
// @Produce json
// @Param answer body services.AnswerRequest true "Token, question index and answer"
// @Success 200 {object} services.AnswerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/answer [post]
func (h *QuizHandler) AnswerQuestion(c *gin.Context) {
	var req services.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithBindError(c, err)
		return
	}

	resp, err := h.quizService.Answer(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// RevealHint returns the hint of one question
// @Summary Reveal hint
// @Tags quiz
// @Accept json
// @Produce json
// @Param hint body services.HintRequest true "Token and question index"
// @Success 200 {object} services.HintResponse
// @Failure 404 {object} ErrorResponse
// @Router /quiz/hint [post]
func (h *QuizHandler) RevealHint(c *gin.Context) {
	var req services.HintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithBindError(c, err)
		return
	}

	resp, err := h.quizService.Hint(c.Request.Context(), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ImportQuiz reads a quiz from an uploaded .xlsx or .csv file
// @Summary Import quiz
// @Tags quiz
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Quiz spreadsheet"
// @Success 200 {object} models.QuizImportResult
// @Failure 400 {object} ErrorResponse
// @Router /quiz/import [post]
func (h *QuizHandler) ImportQuiz(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "A quiz file is required", err, err.Error())
		return
	}

	h.LogRequest(c, "Importing quiz", "filename", fileHeader.Filename, "size", fileHeader.Size)

	file, err := fileHeader.Open()
	if err != nil {
		h.RespondWithError(c, http.StatusBadRequest, CodeInvalidRequest, "Uploaded file could not be opened", err)
		return
	}
	defer file.Close()

	result, err := h.importExportService.ImportQuiz(c.Request.Context(), file, fileHeader.Filename)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportQuiz writes the posted quiz to an .xlsx workbook
// @Summary Export quiz
// @Tags quiz
// @Accept json
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param quiz body ExportQuizRequest true "Quiz questions"
// @Router /quiz/export [post]
func (h *QuizHandler) ExportQuiz(c *gin.Context) {
	var req ExportQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.RespondWithBindError(c, err)
		return
	}

	quiz := models.Payload{Quiz: req.Quiz}.Sanitized().Quiz
	data, err := h.importExportService.ExportQuiz(c.Request.Context(), quiz)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "valentine-quiz.xlsx", data)
}

// DownloadTemplate returns an example quiz workbook
// @Summary Quiz template
// @Tags quiz
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Router /quiz/template [get]
func (h *QuizHandler) DownloadTemplate(c *gin.Context) {
	data, err := h.importExportService.Template(c.Request.Context())
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	h.sendWorkbook(c, "valentine-quiz-template.xlsx", data)
}

func (h *QuizHandler) sendWorkbook(c *gin.Context, filename string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, xlsxMIME, data)
}
