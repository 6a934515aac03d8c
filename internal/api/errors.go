package api

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/abhisek/hanmadi/internal/concept"
	"github.com/abhisek/hanmadi/internal/exercises"
	"github.com/abhisek/hanmadi/internal/llm"
	"github.com/abhisek/hanmadi/internal/store"
)

// paramError reports a malformed query or path parameter.
type paramError struct {
	Param string
	Msg   string
}

func (e *paramError) Error() string { return e.Param + ": " + e.Msg }

// handleError is the echo.HTTPErrorHandler that maps domain errors onto
// status codes.
func (s *server) handleError(err error, c echo.Context) {
	var (
		code    int
		message any
		herr    *echo.HTTPError
		verrs   validator.ValidationErrors
		perr    *paramError
		unavail *concept.ErrStoreUnavailable
		oracle  *llm.ErrOracle
	)

	switch {
	case errors.As(err, &herr):
		if herr.Internal != nil {
			var inner *echo.HTTPError
			if errors.As(herr.Internal, &inner) {
				herr = inner
			}
		}
		code = herr.Code
		message = herr.Message
	case errors.As(err, &verrs):
		code = http.StatusBadRequest
		message = s.validator.fieldErrors(verrs)
	case errors.As(err, &perr):
		code = http.StatusBadRequest
		message = echo.Map{perr.Param: perr.Msg}
	case errors.Is(err, exercises.ErrExerciseNotFound), errors.Is(err, store.ErrNotFound):
		code = http.StatusNotFound
		message = "not found"
	case errors.As(err, &unavail):
		code = http.StatusServiceUnavailable
		message = "storage unavailable"
		s.logFailure(c, code, err)
	case errors.As(err, &oracle):
		code = http.StatusInternalServerError
		message = oracle.Purpose + " failed"
		s.logFailure(c, code, err)
	default: // any other error is a server error
		code = http.StatusInternalServerError
		message = http.StatusText(http.StatusInternalServerError)
		s.logFailure(c, code, err)
	}

	if c.Echo().Debug {
		message = err.Error()
	}
	if m, ok := message.(string); ok {
		message = echo.Map{"error": m}
	}

	// Send response
	if !c.Response().Committed {
		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, message)
		}
		if err != nil {
			c.Echo().Logger.Error(err)
		}
	}
}

func (s *server) logFailure(c echo.Context, code int, err error) {
	s.opts.Logger.Errorj(log.JSON{
		"msg":        "request failed",
		"status":     code,
		"path":       c.Path(),
		"request_id": c.Response().Header().Get(echo.HeaderXRequestID),
		"error":      err.Error(),
	})
}
