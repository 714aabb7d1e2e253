package handlers

import (
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/quillhq/inkwell/app/dto"
	businessflow "github.com/quillhq/inkwell/business_flow"
)

// TagHandlerInterface defines the contract for tag handlers
type TagHandlerInterface interface {
	ListTags(c fiber.Ctx) error
	GetTag(c fiber.Ctx) error
}

// TagHandler handles tag-related HTTP requests
type TagHandler struct {
	tagFlow businessflow.TagFlow
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagFlow businessflow.TagFlow) *TagHandler {
	return &TagHandler{
		tagFlow: tagFlow,
	}
}

func (h *TagHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *TagHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListTags returns every tag with its post count
func (h *TagHandler) ListTags(c fiber.Ctx) error {
	result, err := h.tagFlow.ListTags(requestContext(c, "/api/v1/tags"))
	if err != nil {
		log.Println("List tags failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list tags", "LIST_TAGS_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Tags retrieved", result)
}

// GetTag returns a tag by slug together with a page of its posts
func (h *TagHandler) GetTag(c fiber.Ctx) error {
	slug := c.Params("slug")
	if slug == "" {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Tag slug is required", "INVALID_REQUEST", nil)
	}

	page, err := parsePageParam(c.Query("page", "1"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter value", "INVALID_FILTER_VALUE", "page must be an integer")
	}
	pageSize, err := parsePageParam(c.Query("page_size", "0"))
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter value", "INVALID_FILTER_VALUE", "page_size must be an integer")
	}

	result, err := h.tagFlow.GetTagBySlug(requestContext(c, "/api/v1/tags/:slug"), slug, page, pageSize)
	if err != nil {
		if businessflow.IsTagNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Tag not found", "TAG_NOT_FOUND", nil)
		}

		log.Println("Get tag failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get tag", "GET_TAG_FAILED", nil)
	}

	next, previous := paginationLinks(c, result.Count, result.Page, result.PageSize)

	return h.SuccessResponse(c, fiber.StatusOK, "Tag retrieved", dto.TagDetailResponse{
		Tag: result.Tag,
		Posts: dto.PaginatedResponse{
			Count:    result.Count,
			Next:     next,
			Previous: previous,
			Results:  result.Posts,
		},
	})
}
