package service

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/noah-isme/school-website-api/internal/models"
	appErrors "github.com/noah-isme/school-website-api/pkg/errors"
	"github.com/noah-isme/school-website-api/pkg/validation"
)

const (
	calendarDateTag = "calendardate"
	instantTag      = "instant"
)

// NewRequestValidator returns the validator shared by the resource services.
func NewRequestValidator() *validation.Validator {
	v := validation.New()
	registerRequestRules(v)
	return v
}

// parseDateField parses raw with parse and reports a failure as a validation error on field.
func parseDateField(field, raw string, parse func(string) (time.Time, error)) (time.Time, error) {
	t, err := parse(raw)
	if err != nil {
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status,
			field+" is not a valid date")
	}
	return t, nil
}

func registerRequestRules(v *validation.Validator) {
	_ = v.RegisterValidation(calendarDateTag, func(fl validator.FieldLevel) bool {
		_, err := models.ParseCalendarDate(fl.Field().String())
		return err == nil
	}, "must be a date such as 2010-04-14")
	_ = v.RegisterValidation(instantTag, func(fl validator.FieldLevel) bool {
		_, err := models.ParseInstant(fl.Field().String())
		return err == nil
	}, "must be an RFC 3339 timestamp or a date such as 2026-12-31")
}

func validationFailure(v *validation.Validator, err error) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, v.Message(err))
}

// storeFailure classifies a repository error: a missing document becomes NotFound with notFound as
// the message, anything else StoreUnavailable.
func storeFailure(err error, notFound, action string) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.WrapAs(appErrors.ErrStoreUnavailable, err, action)
}

// OptionalTime distinguishes an absent JSON field from an explicit null.
type OptionalTime struct {
	Set   bool
	Value *string
}

// UnmarshalJSON records presence; null leaves Value nil.
func (o *OptionalTime) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	o.Value = &s
	return nil
}

type clock func() time.Time

func systemClock() time.Time {
	return time.Now()
}
