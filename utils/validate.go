package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct checks v against its validate tags and returns per-field
// failure detail, or nil when valid.
func ValidateStruct(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	details := make(map[string]string)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			if fe.Param() != "" {
				details[fe.Field()] = fmt.Sprintf("failed %q validation (%s)", fe.Tag(), fe.Param())
			} else {
				details[fe.Field()] = fmt.Sprintf("failed %q validation", fe.Tag())
			}
		}
	} else {
		details["body"] = err.Error()
	}
	return details
}
