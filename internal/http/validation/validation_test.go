package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleInput struct {
	Email    string `json:"email" validate:"required,email"`
	Quantity int    `json:"quantity" validate:"gte=1"`
}

func TestFromBindError_FieldKeysFollowJSONTags(t *testing.T) {
	v := validator.New()
	err := v.Struct(sampleInput{Email: "nope", Quantity: 0})
	require.Error(t, err)

	out := FromBindError(err, &sampleInput{})
	assert.Equal(t, "Enter a valid email address.", out["email"])
	assert.Equal(t, "Must be a positive number.", out["quantity"])
}

func TestFromBindError_NonValidationError(t *testing.T) {
	out := FromBindError(assert.AnError, &sampleInput{})
	assert.Equal(t, "Invalid request data.", out["_"])
}
