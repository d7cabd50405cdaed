// Package validate checks portal forms before they are sent to the backend.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	fa_translations "github.com/go-playground/validator/v10/translations/fa"

	portal "github.com/jacobmichels/Course-Portal-Go"
	"github.com/jacobmichels/Course-Portal-Go/i18n"
)

var (
	// custom validation tags & texts
	digitsTag   = "digits"
	digitsRegex = regexp.MustCompile(`^[0-9]+$`)

	courseTimeTag = "coursetime"
	endTimeTag    = "endtime"
	unitRangeTag  = "unitrange"

	customTexts = map[string]map[string]string{
		i18n.English: {
			digitsTag:     "{0} must contain only digits",
			courseTimeTag: "{0} must be one of " + strings.Join(portal.StartTimes, ", "),
			endTimeTag:    "{0} must be two hours after the start time",
			unitRangeTag:  "{0} must not be less than the minimum units",
		},
		i18n.Persian: {
			digitsTag:     "{0} باید فقط شامل رقم باشد",
			courseTimeTag: "{0} باید یکی از " + strings.Join(portal.StartTimes, "، ") + " باشد",
			endTimeTag:    "{0} باید دو ساعت بعد از ساعت شروع باشد",
			unitRangeTag:  "{0} نباید کمتر از حداقل واحد باشد",
		},
	}
)

// FieldError is used to indicate an error with a specific form field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// Error is returned when a form fails validation
type Error struct {
	Fields []FieldError
}

func (e *Error) Error() string {
	if len(e.Fields) == 0 {
		return "invalid input"
	}
	return e.Fields[0].Error
}

type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func New(catalog *i18n.Catalog) (*Validator, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())

	lang := catalog.Lang()
	var err error
	if lang == i18n.Persian {
		err = fa_translations.RegisterDefaultTranslations(validate, catalog)
	} else {
		lang = i18n.English
		err = en_translations.RegisterDefaultTranslations(validate, catalog)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	if err := validate.RegisterValidation(digitsTag, digitsValidation); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", digitsTag, err)
	}
	if err := validate.RegisterValidation(courseTimeTag, courseTimeValidation); err != nil {
		return nil, fmt.Errorf("failed to register %s: %w", courseTimeTag, err)
	}
	validate.RegisterStructValidation(courseFormValidation, portal.CourseForm{})
	validate.RegisterStructValidation(unitLimitFormValidation, portal.UnitLimitForm{})

	for tag, text := range customTexts[lang] {
		if err := registerCustomTranslation(validate, catalog, tag, text); err != nil {
			return nil, fmt.Errorf("failed to register translation for %s: %w", tag, err)
		}
	}

	return &Validator{validate, catalog}, nil
}

// Check validates a form, returning *Error with one entry per failing field.
func (v *Validator) Check(form any) error {
	err := v.validate.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate form: %w", err)
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fe.Translate(v.translator)})
	}

	return &Error{Fields: fields}
}

func registerCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string) error {
	return validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

func digitsValidation(fl validator.FieldLevel) bool {
	return digitsRegex.MatchString(fl.Field().String())
}

func courseTimeValidation(fl validator.FieldLevel) bool {
	_, ok := portal.EndTimeFor(fl.Field().String())
	return ok
}

// the end of a class is fixed by its start slot
func courseFormValidation(sl validator.StructLevel) {
	form := sl.Current().Interface().(portal.CourseForm)
	if form.StartTime == "" {
		return
	}

	end, ok := portal.EndTimeFor(form.StartTime)
	if !ok {
		return
	}
	if portal.ShortTime(form.EndTime) != end {
		sl.ReportError(form.EndTime, "end_time", "EndTime", endTimeTag, end)
	}
}

func unitLimitFormValidation(sl validator.StructLevel) {
	form := sl.Current().Interface().(portal.UnitLimitForm)
	if form.MinUnits == nil || form.MaxUnits == nil {
		return
	}
	if *form.MaxUnits < *form.MinUnits {
		sl.ReportError(form.MaxUnits, "max_units", "MaxUnits", unitRangeTag, "")
	}
}
