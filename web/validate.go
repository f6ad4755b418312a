package web

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/adamwoolhether/scorpion/web/errs"
)

// ResourceTag validates a slash-rooted resource path such as "/jeff" or
// "/shared/notes".
const ResourceTag = "resource"

var validate *validator.Validate
var translator ut.Translator

func init() {
	validate = validator.New()
	var ok bool
	translator, ok = ut.New(en.New(), en.New()).GetTranslator("en")
	if !ok {
		panic("web: failed to get 'en' translator")
	}

	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		panic(err)
	}

	if err := validate.RegisterValidation(ResourceTag, resourcePath); err != nil {
		panic(err)
	}
	err := validate.RegisterTranslation(ResourceTag, translator,
		func(t ut.Translator) error {
			return t.Add(ResourceTag, "{0} must be a resource path starting with '/'", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			msg, _ := t.T(ResourceTag, fe.Field())
			return msg
		},
	)
	if err != nil {
		panic(err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})
}

// Validate checks the provided model against its declared tags. Failures
// are returned as errs.FieldErrors keyed by the json field name.
func Validate(val any) error {
	err := validate.Struct(val)
	if err == nil {
		return nil
	}

	verrors, ok := errors.AsType[validator.ValidationErrors](err)
	if !ok {
		return err
	}

	fields := make(errs.FieldErrors, 0, len(verrors))
	for _, verror := range verrors {
		fields = append(fields, errs.FieldError{
			Field: verror.Field(),
			Err:   customErrForTag(verror.Tag(), verror),
		})
	}

	return fields
}

// resourcePath accepts values rooted at "/" without control whitespace,
// which would split a record in the tab-separated permission files.
func resourcePath(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	return strings.HasPrefix(s, "/") && !strings.ContainsAny(s, "\t\r\n")
}

func customErrForTag(tag string, verror validator.FieldError) string {
	switch tag {
	case "required", "required_with", "required_unless":
		return "This field is required"
	default:
		return verror.Translate(translator)
	}
}
