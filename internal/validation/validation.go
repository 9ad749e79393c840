// Package validation wraps go-playground/validator with English messages,
// JSON field names and the domain-specific tags used by request payloads.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	nationalIDRegex = regexp.MustCompile(`^\d{11}$`)
	ibanRegex       = regexp.MustCompile(`^TR\d{24}$`)
	hhmmRegex       = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

var departments = map[string]bool{
	"Software": true, "Electrical": true, "Mechanical": true,
	"Design": true, "Management": true, "Marketing": true,
}

// Error carries per-field messages keyed by JSON field name.
type Error struct {
	Fields map[string]string
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

// Fail builds a single-field validation error.
func Fail(field, msg string) *Error {
	return &Error{Fields: map[string]string{field: msg}}
}

// IsValidation reports whether err wraps a *Error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New() *Validator {
	locale := en.New()
	uni := ut.New(locale, locale)
	trans, _ := uni.GetTranslator("en")

	v := validator.New()
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("form"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	register(v, trans, "tr_national_id", "{0} must be exactly 11 digits", func(fl validator.FieldLevel) bool {
		return NationalID(fl.Field().String())
	})
	register(v, trans, "tr_iban", "{0} must be a valid TR IBAN (TR followed by 24 digits)", func(fl validator.FieldLevel) bool {
		return IBAN(fl.Field().String())
	})
	register(v, trans, "hhmm", "{0} must be in HH:MM format", func(fl validator.FieldLevel) bool {
		return hhmmRegex.MatchString(fl.Field().String())
	})
	register(v, trans, "department", "{0} contains an unknown department", func(fl validator.FieldLevel) bool {
		return departments[fl.Field().String()]
	})
	overrideText(v, trans, "required", "{0} is required")

	return &Validator{validate: v, translator: trans}
}

// Struct validates s and returns a *Error describing every failed field.
func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &Error{Fields: make(map[string]string, len(verrs))}
	for _, fe := range verrs {
		out.Fields[fieldKey(fe)] = fe.Translate(v.translator)
	}
	return out
}

func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func register(v *validator.Validate, trans ut.Translator, tag, text string, fn validator.Func) {
	_ = v.RegisterValidation(tag, fn)
	overrideText(v, trans, tag, text)
}

func overrideText(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(
		tag, trans,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// NationalID reports whether s is an 11-digit national id.
func NationalID(s string) bool {
	return nationalIDRegex.MatchString(s)
}

// NormalizeIBAN strips whitespace and upper-cases the IBAN.
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Join(strings.Fields(s), ""))
}

// IBAN reports whether s is a Turkish IBAN once whitespace is removed.
func IBAN(s string) bool {
	return ibanRegex.MatchString(NormalizeIBAN(s))
}

func IsDepartment(s string) bool {
	return departments[s]
}
