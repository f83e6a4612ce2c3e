package errors

import (
	"reflect"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("from", "is required", "")

	assert.Equal(t, "from", err.Field)
	assert.Equal(t, "is required", err.Message)
	assert.Equal(t, "", err.Value)
	assert.Equal(t, "validation error on field 'from': is required", err.Error())
}

func TestValidationErrors(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "validation failed", errs.Error())

	errs = append(errs, *NewValidationError("from", "is required", nil))
	assert.Equal(t, "validation failed: from is required", errs.Error())

	errs = append(errs, *NewValidationError("to", "is required", nil))
	assert.Equal(t, "validation failed: 2 field errors", errs.Error())
}

func TestValidationErrors_Fields(t *testing.T) {
	errs := ValidationErrors{
		{Field: "quiz[0].q"},
		{Field: "quiz[0].a"},
		{Field: "quiz[0].q"},
	}
	assert.Equal(t, []string{"quiz[0].q", "quiz[0].a"}, errs.Fields())
}

func TestNewValidationErrorWithRule(t *testing.T) {
	err := NewValidationErrorWithRule("to", "is required", "required", "")

	assert.Equal(t, "required", err.Rule)
	assert.Equal(t, "to", err.Field)
}

type sample struct {
	Name  string   `json:"name" validate:"required,max=3"`
	Items []string `json:"items" validate:"max=1"`
}

func TestToValidationErrors(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	err := v.Struct(sample{Name: "", Items: []string{"a", "b"}})
	require.Error(t, err)

	errs := ToValidationErrors(err)
	require.Len(t, errs, 2)
	assert.Equal(t, "name", errs[0].Field)
	assert.Equal(t, "is required", errs[0].Message)
	assert.Equal(t, "required", errs[0].Rule)
	assert.Equal(t, "items", errs[1].Field)
	assert.Equal(t, "must have at most 1 entries", errs[1].Message)
}

func TestToValidationErrors_NotValidatorError(t *testing.T) {
	assert.Empty(t, ToValidationErrors(assert.AnError))
}

type Inner struct {
	To string `json:"to" validate:"required"`
}

type outer struct {
	Inner
	Tags []Inner `json:"tags" validate:"dive"`
}

func TestToValidationErrors_EmbeddedPath(t *testing.T) {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})

	errs := ToValidationErrors(v.Struct(outer{Tags: []Inner{{To: "x"}, {}}}))
	assert.Equal(t, []string{"to", "tags[1].to"}, errs.Fields())
}
