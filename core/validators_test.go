package core

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usernameForm struct {
	Username string `json:"username" validate:"required,username_"`
}

func TestInitValidators_username(t *testing.T) {
	_en := en.New()
	translator, _ := ut.New(_en, _en).GetTranslator("en")
	validate := validator.New()
	InitValidators(validate, translator)

	tests := []struct {
		name     string
		username string
		wantText string
	}{
		{"plain", "jdoe", ""},
		{"full lms charset", "j.doe_01@x-1", ""},
		{"space", "j doe", usernameText},
		{"punctuation", "j*doe", usernameText},
		{"empty", "", requiredText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(usernameForm{Username: tt.username})
			if tt.wantText == "" {
				assert.NoError(t, err)
				return
			}
			vErrs, ok := err.(validator.ValidationErrors)
			require.True(t, ok)
			require.Len(t, vErrs, 1)
			assert.Equal(t, "username", vErrs[0].Field(), "errors must use the json tag name")
			assert.Equal(t, tt.wantText, vErrs[0].Translate(translator))
		})
	}
}
