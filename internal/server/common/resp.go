// Package common holds the response envelope shared by every endpoint.
package common

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Code    int         `json:"code"`
	Data    interface{} `json:"data,omitempty"`
}

// JSON writes the envelope with an explicit status and code.
func JSON(c *gin.Context, status string, message string, code int, data interface{}) {
	c.JSON(code, Response{
		Status:  status,
		Message: message,
		Code:    code,
		Data:    data,
	})
}

// Success writes a 200 success envelope.
func Success(c *gin.Context, data interface{}, message string) {
	JSON(c, "success", message, http.StatusOK, data)
}

// Created writes a 201 success envelope.
func Created(c *gin.Context, data interface{}, message string) {
	JSON(c, "success", message, http.StatusCreated, data)
}

// Error writes an error envelope with the given code.
func Error(c *gin.Context, message string, code int) {
	JSON(c, "error", message, code, nil)
}

// BadRequest writes a 400 error envelope.
func BadRequest(c *gin.Context, message string) {
	Error(c, message, http.StatusBadRequest)
}

// NotFound writes a 404 error envelope.
func NotFound(c *gin.Context, message string) {
	Error(c, message, http.StatusNotFound)
}

// MethodNotAllowed writes a 405 error envelope.
func MethodNotAllowed(c *gin.Context) {
	Error(c, "Method not allowed", http.StatusMethodNotAllowed)
}

// ServerError writes a 500 error envelope. Internal detail belongs in the
// log, never in the message.
func ServerError(c *gin.Context, message string) {
	Error(c, message, http.StatusInternalServerError)
}
