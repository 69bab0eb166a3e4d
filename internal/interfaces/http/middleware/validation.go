package middleware

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/vendite/backend/internal/domain/sales"
)

// SetupValidator configures the request validator with custom tags
func SetupValidator() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// Use JSON/form tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		return name
	})

	// numericselector accepts the "all" sentinel, an empty value or an
	// integer; used for the anno and trimestre filter fields.
	_ = v.RegisterValidation("numericselector", validNumericSelector)
}

func validNumericSelector(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if sales.IsAll(value) {
		return true
	}
	_, err := strconv.Atoi(strings.TrimSpace(value))
	return err == nil
}
