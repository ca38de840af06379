package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUsernameValidation(t *testing.T) {
	v := GetValidator()

	valid := []string{"alice_dev", "bob.coder", "user-123", "A1"}
	for _, username := range valid {
		assert.NoError(t, v.Validate.Var(username, "username_validation"), username)
	}

	invalid := []string{"has space", "umlautä", "semi;colon", "slash/name"}
	for _, username := range invalid {
		assert.Error(t, v.Validate.Var(username, "username_validation"), username)
	}
}

func TestPasswordValidation(t *testing.T) {
	v := GetValidator()

	valid := []string{"Str0ng.Pass", "aB3!aB3!", "pass.Word1"}
	for _, password := range valid {
		assert.NoError(t, v.Validate.Var(password, "password_validation"), password)
	}

	invalid := []string{
		"alllowercase1!",
		"ALLUPPERCASE1!",
		"NoDigits.Here",
		"NoSpecial123",
		"NönAscii.Pass1",
	}
	for _, password := range invalid {
		assert.Error(t, v.Validate.Var(password, "password_validation"), password)
	}
}
