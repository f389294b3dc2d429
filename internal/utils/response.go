package utils

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool        `json:"success"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
	Meta    Meta        `json:"meta"`
}

// ErrorInfo carries the sentinel name of a failure, e.g. PROMOTION_NOT_FOUND.
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Meta is attached to every response.
type Meta struct {
	RequestID  string      `json:"requestId"`
	Timestamp  string      `json:"timestamp"`
	Pagination *Pagination `json:"pagination,omitempty"`
}

// Pagination describes one page of a catalog or sales log listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalItems int `json:"totalItems"`
	TotalPages int `json:"totalPages"`
}

// NewPagination fills in page 1 and a limit of 50 for non-positive input.
func NewPagination(page, limit, totalItems int) *Pagination {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 {
		limit = 50
	}
	return &Pagination{
		Page:       page,
		Limit:      limit,
		TotalItems: totalItems,
		TotalPages: (totalItems + limit - 1) / limit,
	}
}

// Success writes a successful response.
func Success(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{Success: true, Code: code, Message: message, Data: data, Meta: newMeta(c, nil)})
}

// SuccessWithPagination writes a successful list response.
func SuccessWithPagination(c *gin.Context, code int, message string, data interface{}, page, limit, totalItems int) {
	c.JSON(code, Response{
		Success: true,
		Code:    code,
		Message: message,
		Data:    data,
		Meta:    newMeta(c, NewPagination(page, limit, totalItems)),
	})
}

// Error writes a failed response. errCode is the sentinel name.
func Error(c *gin.Context, code int, errCode, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
		Error:   &ErrorInfo{Code: errCode, Message: message},
		Meta:    newMeta(c, nil),
	})
}

func newMeta(c *gin.Context, p *Pagination) Meta {
	id := c.GetString("request_id")
	if id == "" {
		id = uuid.New().String()[:8]
	}
	return Meta{RequestID: id, Timestamp: time.Now().UTC().Format(time.RFC3339), Pagination: p}
}
