package jwt

import (
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/identity-service/internal/config"
)

func testConfig() config.Tokens {
	return config.Tokens{
		JWTSecretKey:    "test-secret-key",
		SigningMethod:   "HS256",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 720 * time.Hour,
	}
}

func TestNewCreatorValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Tokens)
		wantErr bool
	}{
		{
			name:   "valid config",
			mutate: func(_ *config.Tokens) {},
		},
		{
			name:   "hs512 is allowed",
			mutate: func(cfg *config.Tokens) { cfg.SigningMethod = "HS512" },
		},
		{
			name:    "unknown method",
			mutate:  func(cfg *config.Tokens) { cfg.SigningMethod = "HS1024" },
			wantErr: true,
		},
		{
			name:    "asymmetric method rejected",
			mutate:  func(cfg *config.Tokens) { cfg.SigningMethod = "RS256" },
			wantErr: true,
		},
		{
			name:    "empty secret",
			mutate:  func(cfg *config.Tokens) { cfg.JWTSecretKey = "" },
			wantErr: true,
		},
		{
			name:    "refresh ttl not greater than access ttl",
			mutate:  func(cfg *config.Tokens) { cfg.RefreshTokenTTL = cfg.AccessTokenTTL },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)
			_, err := NewCreator(cfg)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreateAndDecodeRoundTrip(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	uid := uuid.New()
	token, err := creator.CreateAccessToken(uid, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, token.Encoded())
	assert.Equal(t, uid, token.UserUID)
	assert.WithinDuration(t, time.Now().Add(15*time.Minute), token.ExpiresAt, 2*time.Second)

	claims, err := creator.Decode(token.Encoded())
	require.NoError(t, err)
	assert.Equal(t, uid, claims.UserUID)
}

func TestRefreshTokenLivesLonger(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	uid := uuid.New()
	access, err := creator.CreateAccessToken(uid, nil)
	require.NoError(t, err)
	refresh, err := creator.CreateRefreshToken(uid)
	require.NoError(t, err)

	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt))
}

func TestCreateAccessTokenExtraClaims(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	uid := uuid.New()
	token, err := creator.CreateAccessToken(uid, map[string]any{
		"role": "superuser",
		"uid":  "spoofed",
		"exp":  0,
	})
	require.NoError(t, err)

	claims := gojwt.MapClaims{}
	_, err = gojwt.ParseWithClaims(token.Encoded(), claims, func(_ *gojwt.Token) (any, error) {
		return []byte("test-secret-key"), nil
	})
	require.NoError(t, err)

	// Зарезервированные клеймы не перекрываются произвольными
	assert.Equal(t, "superuser", claims["role"])
	assert.Equal(t, uid.String(), claims["uid"])
	assert.NotEqual(t, float64(0), claims["exp"])
}

func TestDecodeExpiredToken(t *testing.T) {
	cfg := testConfig()
	cfg.AccessTokenTTL = -2 * time.Minute
	cfg.RefreshTokenTTL = -time.Minute
	creator, err := NewCreator(cfg)
	require.NoError(t, err)

	token, err := creator.CreateAccessToken(uuid.New(), nil)
	require.NoError(t, err)

	_, err = creator.Decode(token.Encoded())
	assert.ErrorIs(t, err, ErrTokenExpired)
	assert.NotErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeWrongKey(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecretKey = "other-secret-key"
	other, err := NewCreator(otherCfg)
	require.NoError(t, err)

	token, err := other.CreateAccessToken(uuid.New(), nil)
	require.NoError(t, err)

	_, err = creator.Decode(token.Encoded())
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeGarbage(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	_, err = creator.Decode("not-a-token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeRejectsForeignAlgorithm(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	foreign := gojwt.NewWithClaims(gojwt.SigningMethodHS512, gojwt.MapClaims{
		"uid": uuid.New().String(),
		"exp": gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	encoded, err := foreign.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = creator.Decode(encoded)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestDecodeRequiresExpiration(t *testing.T) {
	creator, err := NewCreator(testConfig())
	require.NoError(t, err)

	eternal := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.MapClaims{
		"uid": uuid.New().String(),
	})
	encoded, err := eternal.SignedString([]byte("test-secret-key"))
	require.NoError(t, err)

	_, err = creator.Decode(encoded)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
