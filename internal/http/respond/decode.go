package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode reads a JSON body into v and checks its validate tags.
func Decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}

	if err := validate.Struct(v); err != nil {
		return describe(err)
	}

	return nil
}

// DecodeOrReject writes a 400 and returns false when Decode fails.
func DecodeOrReject(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := Decode(r, v); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return false
	}

	return true
}

func describe(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		field := strings.ToLower(fe.Field())

		switch fe.Tag() {
		case "required":
			msgs[i] = field + " is required"
		case "max":
			msgs[i] = fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		default:
			msgs[i] = fmt.Sprintf("%s failed %s", field, fe.Tag())
		}
	}

	return fmt.Errorf("invalid request: %s", strings.Join(msgs, "; "))
}
