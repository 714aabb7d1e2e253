package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/quillhq/inkwell/app/dto"
	businessflow "github.com/quillhq/inkwell/business_flow"
)

// CommentHandlerInterface defines the contract for comment handlers
type CommentHandlerInterface interface {
	ListComments(c fiber.Ctx) error
	CreateComment(c fiber.Ctx) error
	UpdateComment(c fiber.Ctx) error
	DeleteComment(c fiber.Ctx) error
}

// CommentHandler handles comment-related HTTP requests
type CommentHandler struct {
	commentFlow businessflow.CommentFlow
	validator   *validator.Validate
}

// NewCommentHandler creates a new comment handler
func NewCommentHandler(commentFlow businessflow.CommentFlow) *CommentHandler {
	return &CommentHandler{
		commentFlow: commentFlow,
		validator:   validator.New(),
	}
}

func (h *CommentHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *CommentHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListComments returns one page of a post's comments
func (h *CommentHandler) ListComments(c fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_REQUEST", nil)
	}

	page, err := parsePageParam(c.Query("page", "1"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter value", "INVALID_FILTER_VALUE", "page must be an integer")
	}
	pageSize, err := parsePageParam(c.Query("page_size", "0"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter value", "INVALID_FILTER_VALUE", "page_size must be an integer")
	}

	comments, total, err := h.commentFlow.ListComments(requestContext(c, "/api/v1/posts/:id/comments"), postID, page, pageSize)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("List comments failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list comments", "LIST_COMMENTS_FAILED", nil)
	}

	page, pageSize = businessflow.NormalizePagination(page, pageSize)
	next, previous := paginationLinks(c, total, page, pageSize)

	return h.SuccessResponse(c, fiber.StatusOK, "Comments retrieved", dto.PaginatedResponse{
		Count:    total,
		Next:     next,
		Previous: previous,
		Results:  comments,
	})
}

// CreateComment attaches a comment to a post
func (h *CommentHandler) CreateComment(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_REQUEST", nil)
	}

	var req dto.CreateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.commentFlow.CreateComment(requestContext(c, "/api/v1/posts/:id/comments"), accountID, postID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsInvalidCommentContent(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}

		log.Println("Comment creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Comment creation failed", "COMMENT_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Comment created", result)
}

// UpdateComment rewrites an owned comment
func (h *CommentHandler) UpdateComment(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdateCommentRequest
	if err := c.Bind().JSON(&req); err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid request body", "INVALID_REQUEST", err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		var validationErrors []string
		for _, err := range err.(validator.ValidationErrors) {
			validationErrors = append(validationErrors, getValidationErrorMessage(err))
		}
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", validationErrors)
	}

	result, err := h.commentFlow.UpdateComment(requestContext(c, "/api/v1/comments/:id"), accountID, commentID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsCommentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND", nil)
		}
		if businessflow.IsNotCommentOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "You can only edit your own comments", "NOT_COMMENT_OWNER", nil)
		}
		if businessflow.IsInvalidCommentContent(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}

		log.Println("Comment update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Comment update failed", "COMMENT_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comment updated", result)
}

// DeleteComment hard-deletes an owned comment
func (h *CommentHandler) DeleteComment(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	commentID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid comment ID", "INVALID_REQUEST", nil)
	}

	if err := h.commentFlow.DeleteComment(requestContext(c, "/api/v1/comments/:id"), accountID, commentID, clientMetadata(c)); err != nil {
		if businessflow.IsCommentNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Comment not found", "COMMENT_NOT_FOUND", nil)
		}
		if businessflow.IsNotCommentOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "You can only delete your own comments", "NOT_COMMENT_OWNER", nil)
		}

		log.Println("Comment deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Comment deletion failed", "COMMENT_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Comment deleted", nil)
}
