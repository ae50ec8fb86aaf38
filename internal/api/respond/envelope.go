// Package respond renders every API response, successful or not, in one
// JSON envelope.
package respond

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// Envelope is the body of every catalog and auth response. Data is null when
// there is nothing to return.
type Envelope struct {
	Status  int    `json:"status"`
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

// New builds an envelope. A blank message falls back to the status text so
// the message is never empty.
func New(status int, message string, data any) Envelope {
	if strings.TrimSpace(message) == "" {
		message = http.StatusText(status)
	}
	if message == "" {
		message = "unknown status"
	}
	return Envelope{
		Status:  status,
		Success: status >= 200 && status < 300,
		Message: message,
		Data:    data,
	}
}

func JSON(c echo.Context, status int, message string, data any) error {
	return c.JSON(status, New(status, message, data))
}

func OK(c echo.Context, message string, data any) error {
	return JSON(c, http.StatusOK, message, data)
}

func Created(c echo.Context, message string) error {
	return JSON(c, http.StatusCreated, message, nil)
}

// Fail writes an error envelope with null data.
func Fail(c echo.Context, status int, message string) error {
	return JSON(c, status, message, nil)
}
