package auth

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/mousto-pos/internal/application/apptest"
	"github.com/jhoicas/mousto-pos/internal/application/dto"
	"github.com/jhoicas/mousto-pos/internal/domain"
)

func TestLogin_EmailDesconocidoTambienComparaHash(t *testing.T) {
	var compared [][]byte
	orig := compareHash
	compareHash = func(hash, password []byte) error {
		compared = append(compared, hash)
		return orig(hash, password)
	}
	t.Cleanup(func() { compareHash = orig })

	uc := NewAuthUseCase(&apptest.UserRepo{Store: apptest.NewStore()}, JWTConfig{Secret: "s", ExpMinutes: 5})
	_, err := uc.Login(context.Background(), dto.LoginRequest{Email: "nadie@mousto.test", Password: "secret123"})
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))

	require.Len(t, compared, 1)
	assert.True(t, bytes.Equal(dummyHash(), compared[0]))
	cost, err := bcrypt.Cost(compared[0])
	require.NoError(t, err)
	assert.Equal(t, bcrypt.DefaultCost, cost)
}
