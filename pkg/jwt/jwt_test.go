package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/VriVa/odoo-spit-hack/pkg/jwt"
)

const (
	secret = "test-secret-key-for-unit-tests"
	userID = "00000000-0000-0000-0000-000000000001"
)

func TestGenerateAndParse(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleWarehouseStaff, "stock-ledger-test", 60)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	gotUser, role, err := pkgjwt.Parse(secret, tok)
	require.NoError(t, err)
	assert.Equal(t, userID, gotUser)
	assert.Equal(t, pkgjwt.RoleWarehouseStaff, role)
}

func TestParse_Expired(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleInventoryManager, "stock-ledger-test", -1)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse(secret, tok)
	assert.Error(t, err, "token expirado debe retornar error")
}

func TestParse_WrongSecret(t *testing.T) {
	tok, err := pkgjwt.Generate(secret, userID, pkgjwt.RoleInventoryManager, "stock-ledger-test", 60)
	require.NoError(t, err)

	_, _, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err, "secret incorrecto debe invalidar el token")
}

func TestGenerate_EmptySecret(t *testing.T) {
	_, err := pkgjwt.Generate("", userID, pkgjwt.RoleInventoryManager, "x", 60)
	assert.Error(t, err)
}
