package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"studyultra/internal/config"
	"studyultra/internal/domain"
)

// ParseJSON decodes JSON from the request body into the given destination.
// Bodies over config.MaxJSONBodyBytes and malformed JSON are validation
// errors.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxJSONBodyBytes)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.NewValidationError("request body exceeds %d bytes", tooLarge.Limit)
		case errors.Is(err, io.EOF):
			return domain.NewValidationError("request body is empty")
		default:
			return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
		}
	}

	return nil
}
