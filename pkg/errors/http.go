package errors

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// DefaultHTTPMessage is shown for errors that carry no code.
const DefaultHTTPMessage = "An unexpected error occurred"

// ToHTTPStatus converts an error code to an HTTP status code.
func ToHTTPStatus(code string) int {
	httpStatus, _ := GetCodeMapping(code)
	return httpStatus
}

// ToHTTPError converts err into an echo HTTP error. Coded errors get their
// mapped status; anything else is a 500 with a generic message.
func ToHTTPError(err error) *echo.HTTPError {
	if err == nil {
		return nil
	}

	var echoErr *echo.HTTPError
	if As(err, &echoErr) {
		return echoErr
	}

	var appErr *AppError
	if As(err, &appErr) {
		return echo.NewHTTPError(ToHTTPStatus(appErr.Code()), appErr.Message()).SetInternal(err)
	}

	var coded Error
	if As(err, &coded) {
		return echo.NewHTTPError(ToHTTPStatus(coded.Code()), coded.Error()).SetInternal(err)
	}

	return echo.NewHTTPError(http.StatusInternalServerError, DefaultHTTPMessage).SetInternal(err)
}
