package validation

import (
	"errors"
	"math"
	"reflect"
	"strings"

	"github.com/go-playground/locales/es"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	es_translations "github.com/go-playground/validator/v10/translations/es"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	notBlankTag  = "notblank"
	notBlankText = "{0} no puede estar vacío"

	finiteTag  = "finite"
	finiteText = "{0} debe ser un número válido"

	datetimeTag  = "datetime"
	datetimeText = "{0} no tiene el formato esperado"
)

func init() {
	Validate = validator.New()

	_es := es.New()
	uni := ut.New(_es, _es)
	Translator, _ = uni.GetTranslator("es")
	_ = es_translations.RegisterDefaultTranslations(Validate, Translator)

	// field names come from the `label` tag, then the json name
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = Validate.RegisterValidation(finiteTag, finiteValidation)
	registerTranslation(notBlankTag, notBlankText)
	registerTranslation(finiteTag, finiteText)
	registerTranslation(datetimeTag, datetimeText)
}

func registerTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func finiteValidation(fl validator.FieldLevel) bool {
	f := fl.Field().Float()
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// FieldError is a single failed field with a user-facing message.
type FieldError struct {
	Field   string
	Message string
}

type Error struct {
	Err    error
	Fields []FieldError
}

var ErrInvalid = errors.New("validation: invalid input")

func New(msg string, flds ...FieldError) *Error {
	return &Error{Err: errors.New(msg), Fields: flds}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return ErrInvalid.Error()
	}
	return e.Err.Error()
}

func (e *Error) Unwrap() error { return ErrInvalid }

// Message joins field messages, one per line.
func (e *Error) Message() string {
	if len(e.Fields) == 0 {
		return e.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Message)
	}
	return strings.Join(parts, "\n")
}

// Struct validates v and converts validator errors into *Error.
func Struct(v any) error {
	err := Validate.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Err: errors.New("datos inválidos")}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(Translator)})
	}
	return out
}
