package utils

import (
	"errors"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestBindingMessage(t *testing.T) {
	type payload struct {
		IDs  []int  `validate:"dive,gt=0"`
		Name string `validate:"max=3"`
	}

	err := validator.New().Struct(payload{IDs: []int{1, 0}, Name: "toolong"})
	msg := BindingMessage(err)

	assert.Contains(t, msg, "Must be greater than 0")
	assert.Contains(t, msg, "Maximum length is 3")
	assert.Equal(t, 1, strings.Count(msg, ";"))

	assert.Equal(t, "invalid request body", BindingMessage(errors.New("EOF")))
}

func TestResponses(t *testing.T) {
	assert.Equal(t, "nope", ErrorResponse("nope")["error"])

	ok := OKResponse("booking", 1)
	assert.Equal(t, true, ok["ok"])
	assert.Equal(t, 1, ok["booking"])

	assert.True(t, strings.HasPrefix(GenerateRequestID(), "req_"))
	assert.NotEqual(t, GenerateRequestID(), GenerateRequestID())
}
