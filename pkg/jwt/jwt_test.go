package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse(t *testing.T) {
	token, err := Generate("secreto", "user-1", "manager", "sid-1", "crm", 10)
	require.NoError(t, err)

	claims, err := Parse("secreto", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "manager", claims.Role)
	assert.Equal(t, "sid-1", claims.SessionID)
	assert.Equal(t, "crm", claims.Issuer)
}

func TestParse_Errores(t *testing.T) {
	token, err := Generate("secreto", "user-1", "sales", "sid-1", "crm", 10)
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err, "firma incorrecta")

	expired, err := Generate("secreto", "user-1", "sales", "sid-1", "crm", -1)
	require.NoError(t, err)
	_, err = Parse("secreto", expired)
	assert.Error(t, err, "expirado")

	noSession, err := Generate("secreto", "user-1", "sales", "", "crm", 10)
	require.NoError(t, err)
	_, err = Parse("secreto", noSession)
	assert.Error(t, err)

	_, err = Generate("", "user-1", "sales", "sid", "crm", 10)
	assert.Error(t, err)
}
