package commands

import (
	"strconv"
	"strings"

	"github.com/dyluth/shelf/internal/render"
	"github.com/dyluth/shelf/pkg/library"
)

// parseID converts a positional argument or flag value to a positive identifier.
func parseID(field, value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, &library.ValidationError{Field: field, Message: "is required"}
	}
	id, err := strconv.Atoi(value)
	if err != nil {
		return 0, &library.ValidationError{Field: field, Message: "must be a number"}
	}
	if id <= 0 {
		return 0, &library.ValidationError{Field: field, Message: "must be a positive number"}
	}
	return id, nil
}

// parseOptionalID is parseID for filters where an empty value means "any".
func parseOptionalID(field, value string) (int, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return parseID(field, value)
}

func parseFormat(value string) (render.OutputFormat, error) {
	return render.ParseFormat(value)
}
