package handlers

import (
	"log"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/quillhq/inkwell/app/dto"
	"github.com/quillhq/inkwell/app/middleware"
	businessflow "github.com/quillhq/inkwell/business_flow"
	"github.com/quillhq/inkwell/models"
)

// PostHandlerInterface defines the contract for post handlers
type PostHandlerInterface interface {
	ListPosts(c fiber.Ctx) error
	CreatePost(c fiber.Ctx) error
	GetPost(c fiber.Ctx) error
	UpdatePost(c fiber.Ctx) error
	DeletePost(c fiber.Ctx) error
}

// PostHandler handles post-related HTTP requests
type PostHandler struct {
	postFlow   businessflow.PostFlow
	searchFlow businessflow.SearchFlow
	validator  *validator.Validate
}

// NewPostHandler creates a new post handler
func NewPostHandler(postFlow businessflow.PostFlow, searchFlow businessflow.SearchFlow) *PostHandler {
	return &PostHandler{
		postFlow:   postFlow,
		searchFlow: searchFlow,
		validator:  validator.New(),
	}
}

func (h *PostHandler) ErrorResponse(c fiber.Ctx, statusCode int, message, errorCode string, details any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: false,
		Message: message,
		Error: dto.ErrorDetail{
			Code:    errorCode,
			Details: details,
		},
	})
}

func (h *PostHandler) SuccessResponse(c fiber.Ctx, statusCode int, message string, data any) error {
	return c.Status(statusCode).JSON(dto.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ListPosts serves the composed listing endpoint: free-text search, tag and
// author filters, publication-year constraints, ordering and pagination.
func (h *PostHandler) ListPosts(c fiber.Ctx) error {
	query := &dto.PostListQuery{
		Search:             c.Query("q"),
		SearchType:         c.Query("search_type"),
		Tags:               c.Query("tags"),
		Author:             c.Query("author"),
		AuthorName:         c.Query("author_name"),
		PublicationYear:    c.Query("publication_year"),
		PublicationYearMin: c.Query("publication_year_min"),
		PublicationYearMax: c.Query("publication_year_max"),
		SortBy:             c.Query("sort_by"),
		Page:               c.Query("page"),
		PageSize:           c.Query("page_size"),
	}

	middleware.RecordPostSearch(string(models.NormalizeSearchMode(query.SearchType)))

	result, err := h.searchFlow.ListPosts(requestContext(c, "/api/v1/posts"), query)
	if err != nil {
		if businessflow.IsInvalidFilterValue(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid filter value", "INVALID_FILTER_VALUE", err.Error())
		}
		if businessflow.IsInvalidSearchQuery(err) || businessflow.IsInvalidTagName(err) || businessflow.IsTooManyTags(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}

		log.Println("List posts failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to list posts", "LIST_POSTS_FAILED", nil)
	}

	next, previous := paginationLinks(c, result.Count, result.Page, result.PageSize)

	// The collection endpoint answers with the pagination envelope itself,
	// not wrapped in APIResponse.
	return c.Status(fiber.StatusOK).JSON(dto.PaginatedResponse{
		Count:    result.Count,
		Next:     next,
		Previous: previous,
		Results:  result.Results,
	})
}

// CreatePost creates a new post for the authenticated account
func (h *PostHandler) CreatePost(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	var req dto.CreatePostRequest
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

	result, err := h.postFlow.CreatePost(requestContext(c, "/api/v1/posts"), accountID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsTooManyTags(err) || businessflow.IsInvalidTagName(err) ||
			businessflow.IsInvalidTitle(err) || businessflow.IsInvalidPostContent(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}

		log.Println("Post creation failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post creation failed", "POST_CREATION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusCreated, "Post created", result)
}

// GetPost returns a single post by its numeric ID
func (h *PostHandler) GetPost(c fiber.Ctx) error {
	postID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_REQUEST", nil)
	}

	result, err := h.postFlow.GetPost(requestContext(c, "/api/v1/posts/:id"), postID)
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}

		log.Println("Get post failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Failed to get post", "GET_POST_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post retrieved", result)
}

// UpdatePost rewrites an owned post
func (h *PostHandler) UpdatePost(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_REQUEST", nil)
	}

	var req dto.UpdatePostRequest
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

	result, err := h.postFlow.UpdatePost(requestContext(c, "/api/v1/posts/:id"), accountID, postID, &req, clientMetadata(c))
	if err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsNotPostOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "You can only edit your own posts", "NOT_POST_OWNER", nil)
		}
		if businessflow.IsTooManyTags(err) || businessflow.IsInvalidTagName(err) ||
			businessflow.IsInvalidTitle(err) || businessflow.IsInvalidPostContent(err) {
			return h.ErrorResponse(c, fiber.StatusBadRequest, "Validation failed", "VALIDATION_ERROR", err.Error())
		}

		log.Println("Post update failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post update failed", "POST_UPDATE_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post updated", result)
}

// DeletePost hard-deletes an owned post
func (h *PostHandler) DeletePost(c fiber.Ctx) error {
	accountID, ok := currentAccountID(c)
	if !ok {
		return h.ErrorResponse(c, fiber.StatusUnauthorized, "Authentication required", "UNAUTHORIZED", nil)
	}

	postID, err := parseIDParam(c, "id")
	if err != nil {
		return h.ErrorResponse(c, fiber.StatusBadRequest, "Invalid post ID", "INVALID_REQUEST", nil)
	}

	if err := h.postFlow.DeletePost(requestContext(c, "/api/v1/posts/:id"), accountID, postID, clientMetadata(c)); err != nil {
		if businessflow.IsPostNotFound(err) {
			return h.ErrorResponse(c, fiber.StatusNotFound, "Post not found", "POST_NOT_FOUND", nil)
		}
		if businessflow.IsNotPostOwner(err) {
			return h.ErrorResponse(c, fiber.StatusForbidden, "You can only delete your own posts", "NOT_POST_OWNER", nil)
		}

		log.Println("Post deletion failed", err)
		return h.ErrorResponse(c, fiber.StatusInternalServerError, "Post deletion failed", "POST_DELETION_FAILED", nil)
	}

	return h.SuccessResponse(c, fiber.StatusOK, "Post deleted", nil)
}

// paginationLinks builds the next/previous URLs of a paginated response by
// rewriting the page parameter of the current request URL.
func paginationLinks(c fiber.Ctx, count int64, page, pageSize int) (next, previous *string) {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		values = url.Values{}
	}

	base := c.BaseURL() + c.Path()

	buildURL := func(page int) *string {
		pageValues := url.Values{}
		for key, vals := range values {
			for _, val := range vals {
				pageValues.Add(key, val)
			}
		}
		pageValues.Set("page", strconv.Itoa(page))
		u := base + "?" + pageValues.Encode()
		return &u
	}

	if int64(page*pageSize) < count {
		next = buildURL(page + 1)
	}
	if page > 1 {
		previous = buildURL(page - 1)
	}

	return next, previous
}
