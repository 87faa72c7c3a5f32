package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	apperrors "restobook/pkg/errors"
	"restobook/pkg/model"
)

func DecodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperrors.InvalidInput("Invalid request body")
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apperrors.Wrap(err, apperrors.CodeInvalidInput, "Invalid request body", http.StatusBadRequest)
	}
	return nil
}

// QueryTime reads a required timestamp query parameter.
func QueryTime(r *http.Request, key string) (time.Time, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("query parameter '%s' is required", key))
	}
	t, err := model.ParseTimestamp(raw)
	if err != nil {
		return time.Time{}, apperrors.InvalidInput(fmt.Sprintf("invalid %s format, must be RFC3339 or YYYY-MM-DDTHH:MM:SS", key))
	}
	return t, nil
}
