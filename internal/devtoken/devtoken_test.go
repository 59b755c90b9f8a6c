package devtoken

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	id, err := Verify(Issue("cleo@example.com", "Cleo", time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, Identity{Email: "cleo@example.com", Name: "Cleo"}, id)

	id, err = Verify(Issue("dan@example.com", "", time.Hour), nil)
	require.NoError(t, err)
	assert.Equal(t, "dan", id.Name)
}

func TestVerify_Expired(t *testing.T) {
	_, err := Verify(Issue("late@example.com", "", -time.Minute), nil)
	assert.Error(t, err)
}

func TestVerify_WrongIssuer(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss":   "someone-else",
		"email": "eve@example.com",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(raw, nil)
	assert.Error(t, err)
}

func TestVerify_NoEmail(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"iss": Issuer,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = Verify(raw, nil)
	assert.Error(t, err)
}
