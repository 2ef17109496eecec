package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/nikbrunner/sl/internal/model"
)

const statusError = "error"

// urlsRequest replaces the URLs of a shortlink.
type urlsRequest struct {
	URLs []string `json:"urls" validate:"required,dive,url"`
}

// urlsResponse lists resolved URLs.
type urlsResponse struct {
	URLs []string `json:"urls"`
}

type shortlinksResponse struct {
	Shortlinks []model.Shortlink `json:"shortlinks"`
	Count      int               `json:"count"`
}

func toShortlinksResponse(links []model.Shortlink) shortlinksResponse {
	if links == nil {
		links = []model.Shortlink{}
	}
	return shortlinksResponse{Shortlinks: links, Count: len(links)}
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
	Errors  []validationError `json:"errors,omitempty"`
}

var (
	emptyRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "empty request body",
	}

	invalidRequestBodyResponse = errorResponse{
		Status:  statusError,
		Message: "invalid request body",
	}

	notFoundResponse = errorResponse{
		Status:  statusError,
		Message: "shortlink not found",
	}

	noNamesResponse = errorResponse{
		Status:  statusError,
		Message: "no shortlink names given",
	}

	rateLimitedResponse = errorResponse{
		Status:  statusError,
		Message: "storage write quota exceeded, retry later",
	}

	serverErrorResponse = errorResponse{
		Status:  statusError,
		Message: "server error occurred",
	}
)

func messageForTag(tag string) string {
	switch tag {
	case "required":
		return "this field is required"
	case "url":
		return "invalid url"
	default:
		return "invalid value"
	}
}

func validationErrorResponse(err error) errorResponse {
	var errs []validationError

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, e := range verrs {
			errs = append(errs, validationError{
				Field:   e.Field(),
				Message: messageForTag(e.Tag()),
			})
		}
	}

	return errorResponse{
		Status:  statusError,
		Message: "validation error",
		Errors:  errs,
	}
}
