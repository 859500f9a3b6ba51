package routes

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"doc-summarizer-platform/internal/config"
	"doc-summarizer-platform/internal/logger"
	"doc-summarizer-platform/internal/queue"
	"doc-summarizer-platform/models"
	"doc-summarizer-platform/services"
	"doc-summarizer-platform/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// SetupDocumentRoutes registers upload and document management endpoints.
// queueClient may be nil; async uploads then fall back to sync processing.
func SetupDocumentRoutes(router *gin.Engine, cfg *config.Config, storage *services.DocumentStorage, extractor *services.TextExtractor, queueClient *asynq.Client) {
	api := router.Group("/api/v1/documents")
	{
		api.POST("/upload", HandleDocumentUpload(cfg, storage, extractor, queueClient))
		api.GET("", HandleListDocuments(storage))
		api.GET("/:doc_id", HandleGetDocument(storage))
		api.DELETE("/:doc_id", HandleDeleteDocument(storage))
	}
}

// HandleDocumentUpload validates the upload, extracts text, chunks it, and
// persists both halves through the storage coordinator. Large files (or
// ?async=true) are queued for background processing instead.
func HandleDocumentUpload(cfg *config.Config, storage *services.DocumentStorage, extractor *services.TextExtractor, queueClient *asynq.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, header, err := c.Request.FormFile("file")
		if err != nil {
			utils.RespondWithBadRequest(c, "No file provided", nil)
			return
		}
		defer file.Close()

		ext := strings.ToLower(filepath.Ext(header.Filename))
		if !extensionAllowed(ext, cfg.AllowedExtensions) {
			utils.RespondWithBadRequest(c,
				fmt.Sprintf("File type not allowed. Allowed types: %s", strings.Join(cfg.AllowedExtensions, ", ")),
				nil)
			return
		}

		if header.Size > cfg.MaxFileSize {
			utils.RespondWithBadRequest(c,
				fmt.Sprintf("File size exceeds maximum allowed size of %dMB", cfg.MaxFileSize/(1024*1024)),
				nil)
			return
		}
		if header.Size == 0 {
			utils.RespondWithBadRequest(c, "File is empty", nil)
			return
		}

		content, err := io.ReadAll(file)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to read uploaded file", nil)
			return
		}

		docID := uuid.NewString()

		wantAsync := c.Query("async") == "true" || header.Size > cfg.SyncProcessingLimit
		if wantAsync && queueClient != nil {
			handleAsyncUpload(c, cfg, storage, queueClient, docID, header.Filename, content, ext)
			return
		}

		text, err := extractor.Extract(header.Filename, content)
		if err != nil {
			utils.RespondWithBadRequest(c, "Could not extract text from document", err.Error())
			return
		}

		chunks := services.ChunkText(text, cfg.ChunkSize, cfg.ChunkOverlap)

		doc, err := storage.StoreDocument(c.Request.Context(), docID, header.Filename, text, chunks, header.Size)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to store document", nil)
			return
		}

		c.JSON(http.StatusCreated, models.UploadResponse{
			ID:         doc.ID,
			Filename:   doc.Filename,
			Status:     doc.Status,
			ChunkCount: doc.ChunkCount,
			Message:    "Document processed successfully",
		})
	}
}

func handleAsyncUpload(c *gin.Context, cfg *config.Config, storage *services.DocumentStorage, queueClient *asynq.Client, docID, filename string, content []byte, ext string) {
	uploadDir := filepath.Join(cfg.FileStorageDir, "uploads")
	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		utils.RespondWithInternalError(c, "Failed to create upload directory", nil)
		return
	}

	filePath := filepath.Join(uploadDir, docID+ext)
	if err := os.WriteFile(filePath, content, 0600); err != nil {
		utils.RespondWithInternalError(c, "Failed to save uploaded file", nil)
		return
	}

	doc, err := storage.CreatePending(c.Request.Context(), docID, filename, int64(len(content)))
	if err != nil {
		os.Remove(filePath)
		utils.RespondWithInternalError(c, "Failed to store document", nil)
		return
	}

	task, err := queue.NewDocumentProcessTask(docID, filename, filePath)
	if err != nil {
		abandonAsyncUpload(c, storage, docID, filePath, err)
		utils.RespondWithInternalError(c, "Failed to create processing task", nil)
		return
	}

	info, err := queueClient.Enqueue(task)
	if err != nil {
		logger.Error("failed to enqueue processing task", "doc_id", docID, "error", err.Error())
		abandonAsyncUpload(c, storage, docID, filePath, err)
		utils.RespondWithInternalError(c, "Failed to enqueue processing task", nil)
		return
	}

	c.JSON(http.StatusAccepted, models.UploadResponse{
		ID:       doc.ID,
		Filename: doc.Filename,
		Status:   doc.Status,
		Message:  "Document uploaded. Processing will begin shortly.",
		TaskID:   info.ID,
	})
}

// abandonAsyncUpload cleans up after a failed enqueue: the temp file goes
// away and the pending record is marked failed so the document does not
// sit in status uploaded with no task behind it.
func abandonAsyncUpload(c *gin.Context, storage *services.DocumentStorage, docID, filePath string, cause error) {
	if err := os.Remove(filePath); err != nil {
		logger.Warn("failed to remove abandoned upload", "path", filePath, "error", err.Error())
	}
	if err := storage.MarkFailed(c.Request.Context(), docID, "failed to enqueue processing task: "+cause.Error()); err != nil {
		logger.Error("failed to mark abandoned upload failed", "doc_id", docID, "error", err.Error())
	}
}

// HandleListDocuments returns a page of documents plus the total count.
func HandleListDocuments(storage *services.DocumentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		skip := parseInt64Query(c, "skip", 0)
		limit := parseInt64Query(c, "limit", 100)
		if limit < 1 || limit > 1000 {
			limit = 100
		}
		if skip < 0 {
			skip = 0
		}

		docs, total, err := storage.ListDocuments(c.Request.Context(), skip, limit)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to list documents", nil)
			return
		}

		c.JSON(http.StatusOK, models.DocumentListResponse{
			Documents: docs,
			Total:     total,
			Skip:      skip,
			Limit:     limit,
		})
	}
}

// HandleGetDocument returns the metadata record for one document.
func HandleGetDocument(storage *services.DocumentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		c.JSON(http.StatusOK, doc)
	}
}

// HandleDeleteDocument removes a document's metadata and content.
func HandleDeleteDocument(storage *services.DocumentStorage) gin.HandlerFunc {
	return func(c *gin.Context) {
		docID := c.Param("doc_id")

		found, err := storage.DeleteDocument(c.Request.Context(), docID)
		if err != nil {
			utils.RespondWithInternalError(c, "Failed to delete document", nil)
			return
		}
		if !found {
			utils.RespondWithNotFound(c, fmt.Sprintf("Document with ID %s not found", docID))
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Document deleted", "id": docID})
	}
}

func extensionAllowed(ext string, allowed []string) bool {
	for _, a := range allowed {
		if strings.EqualFold(strings.TrimSpace(a), ext) {
			return true
		}
	}
	return false
}

func parseInt64Query(c *gin.Context, key string, def int64) int64 {
	if v := c.Query(key); v != "" {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			return parsed
		}
	}
	return def
}
