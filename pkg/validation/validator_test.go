package validation

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

type sample struct {
	Name  string `json:"name" validate:"notblank,max=5"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

func TestToDetails(t *testing.T) {
	v := validator.New()
	Register(v)

	t.Run("json field names", func(t *testing.T) {
		err := v.Struct(sample{Name: "   ", Email: "nope"})
		assert.Equal(t, map[string]string{
			"name":  "must not be blank",
			"email": "must be a valid email address",
		}, ToDetails(err))
	})

	t.Run("length", func(t *testing.T) {
		err := v.Struct(sample{Name: "toolong"})
		assert.Equal(t, map[string]string{"name": "must be at most 5 characters"}, ToDetails(err))
	})

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, v.Struct(sample{Name: "Alice"}))
		assert.Nil(t, ToDetails(nil))
	})

	t.Run("syntax error", func(t *testing.T) {
		var s sample
		err := json.Unmarshal([]byte("{"), &s)
		assert.Equal(t, map[string]string{"payload": "invalid json"}, ToDetails(err))
	})
}
