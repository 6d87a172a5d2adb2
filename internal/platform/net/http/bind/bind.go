// Package bind provides query binding and validation helpers for handlers
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"sync"

	perr "tripstats/internal/platform/errors"
	"tripstats/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

// check is the shared validator. Messages name the query parameter (or json
// key) rather than the Go field, so ?n=-1 reports "n must be at least 0".
var check = sync.OnceValue(func() checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, key := range []string{"query", "json"} {
			if name := tagName(fld, key); name != "" {
				return name
			}
		}
		return fld.Name
	})
	_ = en_translations.RegisterDefaultTranslations(v, tr)
	for tag, text := range map[string]string{
		"min": "{0} must be at least {1}",
		"max": "{0} must be at most {1}",
	} {
		_ = v.RegisterTranslation(tag, tr,
			func(t ut.Translator) error { return t.Add(tag, text, true) },
			func(t ut.Translator, fe validator.FieldError) string {
				msg, _ := t.T(fe.Tag(), fe.Field(), fe.Param())
				return msg
			},
		)
	}
	return checker{v: v, tr: tr}
})

func tagName(fld reflect.StructField, key string) string {
	name, _, _ := strings.Cut(fld.Tag.Get(key), ",")
	if name == "-" {
		return ""
	}
	return name
}

// Query decodes URL query parameters into T and validates it
// fields are matched by their `query` tag; a `default` tag fills absent parameters
// supported kinds are string, bool and signed or unsigned integers
func Query[T any](r *http.Request) (T, error) {
	var dst T
	rv := reflect.ValueOf(&dst).Elem()
	if rv.Kind() != reflect.Struct {
		return dst, perr.Internalf("bind: query target must be a struct, got %s", rv.Kind())
	}

	values := r.URL.Query()
	for i := range rv.NumField() {
		fld := rv.Type().Field(i)
		name := tagName(fld, "query")
		if name == "" || !fld.IsExported() {
			continue
		}
		s, ok := strings.TrimSpace(values.Get(name)), values.Has(name)
		if !ok {
			if s, ok = fld.Tag.Lookup("default"); !ok {
				continue
			}
		}
		if err := setField(rv.Field(i), s); err != nil {
			return dst, perr.WithField(perr.InvalidArgf("%s: %v", name, err), name)
		}
	}

	if err := Struct(dst); err != nil {
		return dst, err
	}
	return dst, nil
}

func setField(f reflect.Value, s string) error {
	switch f.Kind() {
	case reflect.String:
		f.SetString(s)
	case reflect.Bool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("not a boolean: %q", s)
		}
		f.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(s, 10, f.Type().Bits())
		if err != nil {
			return fmt.Errorf("not an integer: %q", s)
		}
		f.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, f.Type().Bits())
		if err != nil {
			return fmt.Errorf("not a non-negative integer: %q", s)
		}
		f.SetUint(n)
	default:
		return fmt.Errorf("unsupported kind %s", f.Kind())
	}
	return nil
}

// Struct validates v and maps the first failure to a validation error with its field attached
func Struct(v any) error {
	err := check().v.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		logger.Get().Error().Err(inv).Msg("validator internal error")
		return perr.Internalf("validation error")
	}
	field, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s", msg), field)
}

// Var validates a single value against tag; name is used as the field in the message
func Var(name string, v any, tag string) error {
	err := check().v.Var(v, tag)
	if err == nil {
		return nil
	}
	_, msg := FieldAndMessage(err)
	return perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s %s", name, strings.TrimSpace(msg)), name)
}

// FieldAndMessage returns the first failing field and its translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return verrs[0].Field(), verrs[0].Translate(check().tr)
	}
	return "", err.Error()
}
