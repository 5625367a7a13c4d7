package validation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Academia-api/internal/application/dto"
	"github.com/jhoicas/Academia-api/internal/application/validation"
)

func TestStruct_Valido(t *testing.T) {
	v := validation.New()
	errs := v.Struct(dto.RegisterRequest{Email: "a@x.com", Password: "Aa1!aaaa", ConfirmPassword: "Aa1!aaaa"})
	assert.Empty(t, errs)
}

func TestStruct_ErroresPorCampoJSON(t *testing.T) {
	v := validation.New()
	errs := v.Struct(dto.RegisterRequest{Email: "no-es-email", Password: "corta", ConfirmPassword: "x"})

	require.Len(t, errs, 2)
	assert.Equal(t, "Validation.email", errs[0].Code)
	assert.Equal(t, "email must be a valid email.", errs[0].Message)
	assert.Equal(t, "Validation.password", errs[1].Code)
	assert.Equal(t, []string{"email must be a valid email.", "password must be at least 8 characters."}, validation.Messages(errs))
}

func TestStruct_RolesInvalidos(t *testing.T) {
	v := validation.New()
	errs := v.Struct(dto.AssignRolesRequest{Roles: []string{"admin", "root"}})

	require.Len(t, errs, 1)
	assert.Contains(t, errs[0].Message, "must be one of")
}
