package routes

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"doc-summarizer-platform/internal/config"
	"doc-summarizer-platform/models"
	"doc-summarizer-platform/services"
	"doc-summarizer-platform/utils"

	"github.com/gin-gonic/gin"
)

// SetupAIRoutes registers summarization and question-answering endpoints.
func SetupAIRoutes(router *gin.Engine, cfg *config.Config, storage *services.DocumentStorage, summarizer *services.SummarizationService) {
	api := router.Group("/api/v1/documents")
	{
		api.POST("/:doc_id/summarize", HandleSummarize(cfg, storage, summarizer))
		api.POST("/:doc_id/qa", HandleQA(storage, summarizer))
	}
}

// HandleSummarize returns the cached summary when one exists, otherwise
// generates one from the full document text and persists it.
func HandleSummarize(cfg *config.Config, storage *services.DocumentStorage, summarizer *services.SummarizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		docID := c.Param("doc_id")

		doc, err := storage.GetDocument(c.Request.Context(), docID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to fetch document", nil)
			return
		}
		if doc == nil {
			utils.RespondWithNotFound(c, fmt.Sprintf("Document with ID %s not found", docID))
			return
		}

		if doc.Summary != "" {
			c.JSON(http.StatusOK, models.SummarizeResponse{
				DocID:     docID,
				Summary:   doc.Summary,
				WordCount: len(strings.Fields(doc.Summary)),
			})
			return
		}

		if doc.Status != models.StatusProcessed {
			utils.RespondWithBadRequest(c,
				fmt.Sprintf("Document is not ready for summarization (status: %s)", doc.Status), nil)
			return
		}

		if !summarizer.Available() {
			utils.RespondWithUnavailable(c, "Summarization service is not configured")
			return
		}

		text, ok := storage.GetDocumentText(c.Request.Context(), docID)
		if !ok {
			utils.RespondWithNotFound(c, fmt.Sprintf("Content for document %s is no longer available", docID))
			return
		}

		maxLength := cfg.SummaryMaxLength
		if v := c.Query("max_length"); v != "" {
			if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
				maxLength = parsed
			}
		}

		summary, err := summarizer.SummarizeText(c.Request.Context(), text, maxLength)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to generate summary", nil)
			return
		}

		if _, err := storage.UpdateSummary(c.Request.Context(), docID, summary); err != nil {
			utils.RespondWithInternalError(c, "Failed to save summary", nil)
			return
		}

		storage.TrackRequest(c.Request.Context(), docID, models.RequestTypeSummarize, time.Since(start))

		c.JSON(http.StatusOK, models.SummarizeResponse{
			DocID:     docID,
			Summary:   summary,
			WordCount: len(strings.Fields(summary)),
		})
	}
}

// HandleQA answers a question about one document using its stored chunks
// as context.
func HandleQA(storage *services.DocumentStorage, summarizer *services.SummarizationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		docID := c.Param("doc_id")

		var req models.QARequest
		if err := c.ShouldBindJSON(&req); err != nil {
			utils.RespondWithBadRequest(c, "doc_id and question are required", err.Error())
			return
		}

		if req.DocID != docID {
			utils.RespondWithBadRequest(c, "doc_id in body does not match URL", nil)
			return
		}

		doc, err := storage.GetDocument(c.Request.Context(), docID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to fetch document", nil)
			return
		}
		if doc == nil {
			utils.RespondWithNotFound(c, fmt.Sprintf("Document with ID %s not found", docID))
			return
		}

		if !summarizer.Available() {
			utils.RespondWithUnavailable(c, "Question answering service is not configured")
			return
		}

		chunks, ok := storage.GetDocumentChunks(c.Request.Context(), docID)
		if !ok || len(chunks) == 0 {
			utils.RespondWithNotFound(c, fmt.Sprintf("Content for document %s is no longer available", docID))
			return
		}

		answer, err := summarizer.AnswerQuestion(c.Request.Context(), req.Question, chunks)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to answer question", nil)
			return
		}

		sources := chunks
		if len(sources) > 3 {
			sources = sources[:3]
		}

		storage.TrackRequest(c.Request.Context(), docID, models.RequestTypeQA, time.Since(start))

		c.JSON(http.StatusOK, models.QAResponse{
			DocID:    docID,
			Question: req.Question,
			Answer:   answer,
			Sources:  sources,
		})
	}
}
