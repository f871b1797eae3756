package handlers

import (
	"errors"
	"strconv"

	"github.com/m1z23r/drift/pkg/drift"
	"github.com/tracim/tracim-api/internal/apperrors"
	"github.com/tracim/tracim-api/pkg/dto"
)

// respondError renders a domain error as its JSON envelope and everything
// else as a plain 500.
func respondError(c *drift.Context, err error) {
	var ae *apperrors.Error
	if errors.As(err, &ae) {
		_ = c.JSON(ae.Status, dto.ErrorResponse{Code: ae.Code, Message: ae.Message})
		return
	}
	c.InternalServerError("internal error")
}

func respondValidation(c *drift.Context, message string) {
	_ = c.JSON(400, dto.ErrorResponse{
		Code:    apperrors.CodeGenericValidationError,
		Message: message,
	})
}

// paramID parses a numeric path parameter. Tracim ids are positive.
func paramID(c *drift.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		respondValidation(c, "invalid "+name)
		return 0, false
	}
	return id, true
}
