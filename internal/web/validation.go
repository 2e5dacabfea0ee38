package web

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/backmassage/audioconvert/internal/codec"
)

var registerOnce sync.Once

// registerValidators adds the "audiocodec" tag to gin's validator engine.
func registerValidators() {
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("audiocodec", func(fl validator.FieldLevel) bool {
				return codec.IsOption(fl.Field().String())
			})
		}
	})
}

// formatValidationErrors converts binding errors to per-field messages.
func formatValidationErrors(err error) []ValidationError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []ValidationError{{Field: "form", Message: err.Error()}}
	}

	out := make([]ValidationError, 0, len(verrs))
	for _, e := range verrs {
		field := strings.ToLower(e.Field())
		var msg string
		switch e.Tag() {
		case "required":
			msg = fmt.Sprintf("%s is required", field)
		case "audiocodec":
			msg = fmt.Sprintf("%s must be one of: %s", field, strings.Join(codec.Options(), ", "))
		default:
			msg = fmt.Sprintf("%s failed validation (%s)", field, e.Tag())
		}
		out = append(out, ValidationError{Field: field, Message: msg})
	}
	return out
}
