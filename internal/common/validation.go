package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"quadramall/apienvelope/internal/constants"
	"quadramall/apienvelope/pkg/envelope"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON field names, not Go field names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// DecodeAndValidate reads a single JSON object into dst and runs struct validation.
// Failures come back as *envelope.APIError.
func DecodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return envelope.BadRequest("Request body too large")
		}
		return envelope.BadRequest(constants.MsgInvalidBody)
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return envelope.BadRequest(constants.MsgInvalidBody)
	}

	return ValidateStruct(dst)
}

// ValidateStruct maps validator errors onto a VALIDATION_ERROR with one
// message per field. The first field's message becomes the headline.
func ValidateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return envelope.Internal(fmt.Errorf("validate: %w", err))
	}

	details := make(map[string]string, len(fieldErrs))
	headline := ""
	for _, fe := range fieldErrs {
		msg := fieldMessage(fe)
		details[fe.Field()] = msg
		if headline == "" {
			headline = msg
		}
	}
	return envelope.Validation(headline, details)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "gt":
		return fe.Field() + " must be greater than " + fe.Param()
	case "gte":
		return fe.Field() + " must be greater than or equal to " + fe.Param()
	case "lte":
		return fe.Field() + " must be at most " + fe.Param()
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters"
	case "max":
		return fe.Field() + " must be at most " + fe.Param() + " characters"
	case "uuid4", "uuid":
		return fe.Field() + " must be a UUID"
	default:
		return "validation failed on " + fe.Field()
	}
}
