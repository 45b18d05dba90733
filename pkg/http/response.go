package http

import (
	"github.com/labstack/echo/v4"

	"github.com/tausif4802/ggp-backend/pkg/apperror"
)

type ErrorResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
}

type Response struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

func JSON(c echo.Context, status int, message string, data interface{}) error {
	if data == nil {
		data = struct{}{}
	}
	return c.JSON(status, Response{Message: message, Data: data})
}

func ErrorJSON(c echo.Context, status int, message string) error {
	return c.JSON(status, ErrorResponse{StatusCode: status, Message: message})
}

// Error writes the failure envelope for err using the status it carries.
func Error(c echo.Context, err error) error {
	return ErrorJSON(c, apperror.StatusOf(err), apperror.MessageOf(err))
}
