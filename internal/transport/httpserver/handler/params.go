package handler

import (
	"strings"
	"time"

	apperrors "moim-app-go/pkg/errors"

	"github.com/google/uuid"
)

// parseTimeParam accepts RFC 3339 timestamps or plain dates. Empty input
// means the value is not set.
func parseTimeParam(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	raw := strings.TrimSpace(*value)
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed, nil
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, apperrors.New(apperrors.CodeValidation, field+" must be RFC 3339 or YYYY-MM-DD")
	}
	return &parsed, nil
}

func parseIDParam(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if _, err := uuid.Parse(value); err != nil {
		return "", apperrors.New(apperrors.CodeValidation, field+" must be a valid uuid")
	}
	return value, nil
}
