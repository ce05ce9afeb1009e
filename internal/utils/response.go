package utils

import (
	"github.com/gin-gonic/gin"

	"crowdsight/internal/model"
)

// Machine-readable error codes returned in the "error" field
const (
	CodeUnauthenticated = "unauthenticated"
	CodeForbidden       = "forbidden"
	CodeNotFound        = "not_found"
	CodeValidation      = "validation_error"
	CodeConflict        = "conflict"
	CodeRateLimited     = "rate_limited"
	CodeInternal        = "internal_error"
)

// SuccessResponse is the envelope of every successful API response
type SuccessResponse struct {
	Success    bool              `json:"success"`
	Message    string            `json:"message,omitempty"`
	Data       interface{}       `json:"data"`
	Pagination *model.Pagination `json:"pagination,omitempty"`
}

// ErrorResponse is the envelope of every failed API response
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func RespondOK(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, SuccessResponse{Success: true, Message: message, Data: data})
}

func RespondPage(c *gin.Context, data interface{}, pagination model.Pagination) {
	c.JSON(200, SuccessResponse{Success: true, Data: data, Pagination: &pagination})
}

// AbortWithError writes the error envelope and stops the handler chain
func AbortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Success: false, Error: code, Message: message})
}
