package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"insureval/src/core/evaluation"
)

type evaluateRequest struct {
	Question string `json:"question" binding:"required"`
	Answer   string `json:"answer" binding:"required"`
}

// Evaluate godoc
// @Summary Evaluate a production question/answer pair synchronously
// @Tags evaluation
// @Accept json
// @Produce json
// @Param body body evaluateRequest true "Question and produced answer"
// @Success 200 {object} evaluation.PipelineResult
// @Failure 400 {object} ErrorResponse
// @Router /eval/evaluate [post]
func (h *Handler) Evaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	// The pipeline is total, so there is no error path here.
	result := h.pipeline.Evaluate(c.Request.Context(), req.Question, req.Answer)
	sendJSON(c, http.StatusOK, result)
}

type similarityRequest struct {
	Question string `json:"question" binding:"required"`
}

// TestSimilarity godoc
// @Summary Run a similarity judgment without judging or persistence
// @Tags evaluation
// @Accept json
// @Produce json
// @Param body body similarityRequest true "Question to match"
// @Success 200 {object} evaluation.MatchDecision
// @Failure 400 {object} ErrorResponse
// @Router /eval/similarity [post]
func (h *Handler) TestSimilarity(c *gin.Context) {
	var req similarityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, http.StatusBadRequest, err)
		return
	}

	decision := h.pipeline.Matcher().FindSimilarQuestion(c.Request.Context(), req.Question)
	sendJSON(c, http.StatusOK, decision)
}

type newQuestionsResponse struct {
	Total     int                            `json:"total"`
	Questions []evaluation.NewQuestionRecord `json:"questions"`
}

// ListNewQuestions godoc
// @Summary List the most recent novel questions
// @Tags evaluation
// @Param limit query int false "Maximum number of questions" default(10)
// @Produce json
// @Success 200 {object} newQuestionsResponse
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /eval/new-questions [get]
func (h *Handler) ListNewQuestions(c *gin.Context) {
	limit := 10
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			sendError(c, http.StatusBadRequest, errInvalidLimit)
			return
		}
		limit = parsed
	}

	questions, err := h.pipeline.RecentNewQuestions(c.Request.Context(), limit)
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	total, err := h.pipeline.NewQuestionCount(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	sendJSON(c, http.StatusOK, newQuestionsResponse{
		Total:     total,
		Questions: questions,
	})
}

type statsResponse struct {
	ConfidenceThreshold float64 `json:"confidence_threshold"`
	DatasetSize         int     `json:"dataset_size"`
	NewQuestions        int     `json:"new_questions"`
	Evaluations         int     `json:"evaluations"`
}

// GetStats godoc
// @Summary Evaluation store counters
// @Tags evaluation
// @Produce json
// @Success 200 {object} statsResponse
// @Failure 500 {object} ErrorResponse
// @Router /eval/stats [get]
func (h *Handler) GetStats(c *gin.Context) {
	newQuestions, err := h.pipeline.NewQuestionCount(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	evaluations, err := h.pipeline.EvaluationCount(c.Request.Context())
	if err != nil {
		sendError(c, http.StatusInternalServerError, err)
		return
	}

	matcher := h.pipeline.Matcher()
	sendJSON(c, http.StatusOK, statsResponse{
		ConfidenceThreshold: matcher.Threshold(),
		DatasetSize:         matcher.Dataset().Len(),
		NewQuestions:        newQuestions,
		Evaluations:         evaluations,
	})
}

// GetDatasetSample godoc
// @Summary Sample of the evaluation dataset
// @Tags evaluation
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /eval/sample [get]
func (h *Handler) GetDatasetSample(c *gin.Context) {
	dataset := h.pipeline.Matcher().Dataset()
	questions := dataset.Questions()

	sampleSize := 5
	if len(questions) < sampleSize {
		sampleSize = len(questions)
	}

	sendJSON(c, http.StatusOK, gin.H{
		"total_questions": dataset.Len(),
		"sample_size":     sampleSize,
		"sample":          questions[:sampleSize],
	})
}

// GetDatasetCategories godoc
// @Summary Evaluation questions grouped by insurance category
// @Tags evaluation
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /eval/categories [get]
func (h *Handler) GetDatasetCategories(c *gin.Context) {
	categories := h.pipeline.Matcher().Dataset().Categories()

	result := make(map[string]gin.H, len(categories))
	for name, questions := range categories {
		texts := make([]string, 0, len(questions))
		for _, q := range questions {
			texts = append(texts, q.Question)
		}
		result[name] = gin.H{
			"count":     len(questions),
			"questions": texts,
		}
	}

	sendJSON(c, http.StatusOK, result)
}
