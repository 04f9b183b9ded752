package config

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct runs `validate` tag validation over a config struct and
// returns the first violation as a readable error.
func ValidateStruct(cfg interface{}) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if ok := isValidationErrors(err, &verrs); ok && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("config field %s fails %q validation (value: %v)",
			fe.Namespace(), fe.Tag(), fe.Value())
	}
	return err
}

func isValidationErrors(err error, target *validator.ValidationErrors) bool {
	if verrs, ok := err.(validator.ValidationErrors); ok {
		*target = verrs
		return true
	}
	return false
}
