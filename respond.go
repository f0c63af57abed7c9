package main

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

const jsonContentType = "application/json; charset=utf-8"

// envelope is the uniform response shape on every endpoint.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
	Errors  any    `json:"errors,omitempty"`
	Warning string `json:"warning,omitempty"`
}

// apiError carries an HTTP status alongside a caller-safe message. Handlers
// map anything else to a generic 500.
type apiError struct {
	code    int
	message string
}

func (e *apiError) Error() string { return e.message }

func notFoundErr(message string) *apiError {
	return &apiError{code: http.StatusNotFound, message: message}
}

func validationErr(message string) *apiError {
	return &apiError{code: http.StatusBadRequest, message: message}
}

func conflictErr(message string) *apiError {
	return &apiError{code: http.StatusConflict, message: message}
}

func success(c *gin.Context, code int, message string, data any) {
	c.JSON(code, envelope{Status: "success", Message: message, Data: data})
}

func successWithWarning(c *gin.Context, code int, message string, data any, warning string) {
	c.JSON(code, envelope{Status: "success", Message: message, Data: data, Warning: warning})
}

func fail(c *gin.Context, code int, message string) {
	c.JSON(code, envelope{Status: "error", Message: message})
}

func failValidation(c *gin.Context, message string, errs any) {
	c.JSON(http.StatusBadRequest, envelope{Status: "error", Message: message, Errors: errs})
}

// failFromErr surfaces apiErrors as-is and hides everything else behind a
// generic 500.
func failFromErr(c *gin.Context, err error) {
	var ae *apiError
	if errors.As(err, &ae) {
		fail(c, ae.code, ae.message)
		return
	}
	log.Printf("internal error: %v", err)
	fail(c, http.StatusInternalServerError, "Internal server error")
}
