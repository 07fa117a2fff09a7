// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Import endpoints
	UploadHandler    gin.HandlerFunc
	ParseTextHandler gin.HandlerFunc

	// Query endpoints
	GetAllByUserHandler     gin.HandlerFunc
	GetByDepartmentsHandler gin.HandlerFunc
	GetByMonthHandler       gin.HandlerFunc
	FindAllHandler          gin.HandlerFunc
}
