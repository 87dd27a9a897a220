package http

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/vadimbarashkov/link-shortener/internal/entity"
)

const statusError = "error"

const linkNameTag = "link_name"

var linkNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// reservedNames collide with fixed routes and can never be resolved.
var reservedNames = []string{"url", "metrics"}

// newValidator returns a validator that reports json field names and knows the link_name tag.
func newValidator() *validator.Validate {
	validate := validator.New(validator.WithRequiredStructEnabled())

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Registration only fails on an empty tag or a nil func.
	_ = validate.RegisterValidation(linkNameTag, func(fl validator.FieldLevel) bool {
		return isValidLinkName(fl.Field().String())
	})

	return validate
}

func isValidLinkName(name string) bool {
	if !linkNamePattern.MatchString(name) {
		return false
	}

	for _, reserved := range reservedNames {
		if strings.EqualFold(name, reserved) {
			return false
		}
	}

	return true
}

// linkRequest is the body of the create and update operations.
type linkRequest struct {
	Name string `json:"name" validate:"required,max=50,link_name"`
	URL  string `json:"url" validate:"required,max=2048,http_url"`
}

// listLinksQuery holds the parsed query string of a listing request.
type listLinksQuery struct {
	Search   string `json:"search" validate:"max=50"`
	Page     int    `json:"page" validate:"gte=1"`
	PageSize int    `json:"pageSize" validate:"gte=1,lte=100"`
}

func (q listLinksQuery) toParams() entity.ListParams {
	return entity.ListParams{
		Search:   q.Search,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
}

// linkResponse represents a stored short link.
type linkResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	CountAccess int64     `json:"count_access"`
	CreatedAt   time.Time `json:"created_at"`
}

func toLinkResponse(link *entity.ShortLink) linkResponse {
	return linkResponse{
		ID:          link.ID,
		Name:        link.Name,
		URL:         link.URL,
		CountAccess: link.AccessCount,
		CreatedAt:   link.CreatedAt,
	}
}

type listLinksResponse struct {
	Data     []linkResponse `json:"data"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"pageSize"`
}

func toListLinksResponse(page *entity.LinkPage) listLinksResponse {
	data := make([]linkResponse, 0, len(page.Links))
	for i := range page.Links {
		data = append(data, toLinkResponse(&page.Links[i]))
	}

	return listLinksResponse{
		Data:     data,
		Total:    page.Total,
		Page:     page.Page,
		PageSize: page.PageSize,
	}
}

type linkDataResponse struct {
	Data    linkResponse `json:"data"`
	Message string       `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// resolveResponse is returned to the client that follows a short link.
type resolveResponse struct {
	URL         string `json:"url"`
	CountAccess int64  `json:"count_access"`
}

type exportResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
}

// validationError represents an individual validation error.
type validationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorResponse represents a structured error response.
type errorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Errors  []validationError `json:"error,omitempty"`
}

// Predefined responses for common scenarios.
var (
	rootResponse = messageResponse{Message: "Hello World"}

	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	linkNotFoundResponse = errorResponse{
		Status:  statusError,
		Message: "url not found",
	}

	linkNameExistsResponse = errorResponse{
		Status:  statusError,
		Message: "name is already taken",
	}

	exportFailedResponse = errorResponse{
		Status:  statusError,
		Message: "failed to export urls",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

// messageForTag returns a user-friendly message based on the validation tag.
func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "http_url":
		return "invalid url"
	case "max", "lte":
		return "value is too long or too large"
	case "gte":
		return "value is too small"
	case linkNameTag:
		return "only letters, digits, '-' and '_' are allowed and reserved names cannot be used"
	default:
		return "invalid value"
	}
}

// getValidationErrors processes validation errors and returns a list of validationError.
func getValidationErrors(err error) []validationError {
	var validationErrs []validationError

	var errs validator.ValidationErrors
	if errors.As(err, &errs) {
		for _, e := range errs {
			validationErrs = append(validationErrs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return validationErrs
}

// validationErrorResponse constructs an errorResponse for validation errors.
func validationErrorResponse(err error) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  getValidationErrors(err),
	}
}

func invalidQueryResponse(field string) errorResponse {
	return errorResponse{
		Status:  statusError,
		Message: "invalid query parameters",
		Errors: []validationError{
			{Field: field, Message: "must be an integer"},
		},
	}
}
