package model

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const iso8601Tag = "iso8601"

// ISO 8601 forms recognised for createdAt. The last two are what a
// datetime-local form input produces.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.DateOnly,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation(iso8601Tag, func(fl validator.FieldLevel) bool {
		return ParseTimestamp(fl.Field().String()) == nil
	})
	return v
}

// Draft is the editable payload sent on create and update.
type Draft struct {
	Name      string `json:"name"`
	Avatar    string `json:"avatar" validate:"omitempty,url"`
	CreatedAt string `json:"createdAt" validate:"omitempty,iso8601"`
}

func DraftFrom(r Record) Draft {
	return Draft{Name: r.Name, Avatar: r.Avatar, CreatedAt: r.CreatedAt}
}

// Clean trims all leading and trailing whitespace of every field.
func (d Draft) Clean() Draft {
	return Draft{
		Name:      strings.TrimSpace(d.Name),
		Avatar:    strings.TrimSpace(d.Avatar),
		CreatedAt: strings.TrimSpace(d.CreatedAt),
	}
}

func (d Draft) HasName() bool {
	return strings.TrimSpace(d.Name) != ""
}

// Validate reports optional fields that are not in their usual form. The
// result is advisory: drafts are sent to the remote regardless. An empty name
// is not reported here.
func (d Draft) Validate() error {
	err := validate.Struct(d)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{Field: fe.Field(), Error: fieldMessage(fe)})
	}
	return &ValidationError{Fields: fields}
}

// WithDefaults fills the avatar placeholder and the creation timestamp.
func (d Draft) WithDefaults(now time.Time) Draft {
	if d.Avatar == "" {
		d.Avatar = PlaceholderAvatar(d.Name)
	}
	if d.CreatedAt == "" {
		d.CreatedAt = Timestamp(now)
	}
	return d
}

func ParseTimestamp(s string) error {
	var err error
	for _, layout := range timestampLayouts {
		if _, err = time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return err
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "url":
		return "must be an absolute URL"
	case iso8601Tag:
		return "must be an ISO 8601 timestamp"
	default:
		return "is invalid"
	}
}
