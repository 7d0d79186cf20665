// Package validate wraps go-playground/validator with English messages keyed
// by json field names.
package validate

import (
	"errors"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" {
			name = strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		}
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("datekey", func(fl validator.FieldLevel) bool {
		s := fl.Field().String()
		t, err := time.Parse("2006-01-02", s)
		return err == nil && t.Format("2006-01-02") == s
	})
	_ = v.RegisterTranslation("datekey", trans,
		func(ut ut.Translator) error {
			return ut.Add("datekey", "{0} must be a YYYY-MM-DD date", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T("datekey", fe.Field())
			return t
		},
	)

	return &Validator{validate: v, trans: trans}
}

var (
	defaultOnce sync.Once
	defaultV    *Validator
)

// Default returns a shared validator.
func Default() *Validator {
	defaultOnce.Do(func() { defaultV = NewValidator() })
	return defaultV
}

// Struct validates s and returns a *FieldsError for tag failures.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return NewFieldsError(v.translateError(verrs))
}

// Struct validates s with the shared validator.
func Struct(s any) error {
	return Default().Struct(s)
}

func (v *Validator) translateError(errs validator.ValidationErrors) map[string]string {
	fields := make(map[string]string, len(errs))
	for _, e := range errs {
		fields[trimNamespace(e.Namespace())] = e.Translate(v.trans)
	}
	return fields
}

// trimNamespace drops the root struct name so nested failures read as
// "rounds[0].options".
func trimNamespace(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// FieldsError maps field paths to human-readable failures.
type FieldsError struct {
	Fields map[string]string
}

func NewFieldsError(fields map[string]string) *FieldsError {
	return &FieldsError{Fields: fields}
}

func (f *FieldsError) Error() string {
	if len(f.Fields) == 0 {
		return "invalid fields"
	}
	keys := make([]string, 0, len(f.Fields))
	for k := range f.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	msgs := make([]string, 0, len(keys))
	for _, k := range keys {
		msgs = append(msgs, f.Fields[k])
	}
	return "invalid fields: " + strings.Join(msgs, "; ")
}
