package reading

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/ru"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	ruTranslations "github.com/go-playground/validator/v10/translations/ru"

	"github.com/luvo-tarot/luvo/internal/api"
)

// ErrInvalidRequest wraps every ValidationError.
var ErrInvalidRequest = errors.New("invalid reading request")

// ValidationError lists the translated problems with a reading request.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidRequest, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrInvalidRequest }

// Message is the alert text shown to the user.
func (e *ValidationError) Message() string {
	return strings.Join(e.Problems, "\n")
}

var fieldLabels = map[string]string{
	"question":    "Вопрос",
	"spread_type": "Расклад",
	"language":    "Язык",
}

type requestValidator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New()

	ruLocale := ru.New()
	uni := ut.New(ruLocale, ruLocale)
	trans, _ := uni.GetTranslator("ru")
	if err := ruTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if label, ok := fieldLabels[name]; ok {
			return label
		}
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: validate, trans: trans}, nil
}

// Validate checks req and returns a *ValidationError with Russian messages.
func (v *requestValidator) Validate(req api.ReadingRequest) error {
	err := v.validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate reading request: %w", err)
	}
	problems := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		problems = append(problems, fe.Translate(v.trans))
	}
	return &ValidationError{Problems: problems}
}

var defaultValidator = sync.OnceValues(newRequestValidator)

// ValidateRequest checks req outside a Workflow, for callers such as the
// live reading command.
func ValidateRequest(req api.ReadingRequest) error {
	v, err := defaultValidator()
	if err != nil {
		return err
	}
	return v.Validate(req)
}
