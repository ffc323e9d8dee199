package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name    string  `json:"name" validate:"required,notblank"`
	Section *string `json:"section" validate:"omitempty,notblank"`
}

type tagged struct {
	Category string `json:"category" validate:"omitempty,colour"`
}

func TestMessagesUseJSONNames(t *testing.T) {
	v := New()
	err := v.Struct(payload{})
	require.Error(t, err)
	assert.Equal(t, []string{"name is a required field"}, v.Messages(err))
}

func TestNotBlankRejectsWhitespace(t *testing.T) {
	v := New()
	blank := "   "
	err := v.Struct(payload{Name: "  ", Section: &blank})
	require.Error(t, err)
	msgs := v.Messages(err)
	assert.Contains(t, msgs, "name cannot be blank")
	assert.Contains(t, msgs, "section cannot be blank")
}

func TestCustomValidationMessage(t *testing.T) {
	v := New()
	require.NoError(t, v.RegisterValidation("colour", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "red"
	}, "must be red"))

	err := v.Struct(tagged{Category: "blue"})
	require.Error(t, err)
	assert.Equal(t, "category must be red", v.Message(err))
	assert.NoError(t, v.Struct(tagged{Category: "red"}))
}
