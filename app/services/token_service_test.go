// Package services provides external service integrations and technical concerns like tokens
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestTokenService creates a token service for testing with symmetric key
func createTestTokenService() (TokenService, error) {
	return NewTokenService(
		15*time.Minute,
		7*24*time.Hour,
		"test-issuer",
		"test-audience",
		false, // useRSAKeys
		"",    // privateKeyPEM
		"",    // publicKeyPEM
		"test-secret-key-for-jwt-signing-32-chars", // secretKey
	)
}

func TestNewTokenService(t *testing.T) {
	tests := []struct {
		name        string
		useRSAKeys  bool
		secretKey   string
		expectError bool
	}{
		{
			name:        "valid symmetric key configuration",
			secretKey:   "test-secret-key-for-jwt-signing-32-chars",
			expectError: false,
		},
		{
			name:        "missing secret key",
			secretKey:   "",
			expectError: true,
		},
		{
			name:        "RSA mode without keys",
			useRSAKeys:  true,
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service, err := NewTokenService(
				15*time.Minute,
				7*24*time.Hour,
				"test-issuer",
				"test-audience",
				tt.useRSAKeys,
				"",
				"",
				tt.secretKey,
			)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, service)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, service)
			}
		})
	}
}

func TestGenerateTokens(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.NotEqual(t, accessToken, refreshToken)

	// Tokens should be valid JWT format (should start with "eyJ")
	assert.Contains(t, accessToken, "eyJ")
	assert.Contains(t, refreshToken, "eyJ")
}

func TestValidateToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123)
	require.NoError(t, err)

	tests := []struct {
		name         string
		token        string
		expectError  bool
		expectClaims *TokenClaims
	}{
		{
			name:        "valid access token",
			token:       accessToken,
			expectError: false,
			expectClaims: &TokenClaims{
				UserID:    123,
				TokenType: "access",
			},
		},
		{
			name:        "valid refresh token",
			token:       refreshToken,
			expectError: false,
			expectClaims: &TokenClaims{
				UserID:    123,
				TokenType: "refresh",
			},
		},
		{
			name:        "empty token",
			token:       "",
			expectError: true,
		},
		{
			name:        "invalid token format",
			token:       "invalid.token.format",
			expectError: true,
		},
		{
			name:        "token with wrong signature",
			token:       accessToken + "tampered",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := service.ValidateToken(tt.token)

			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, claims)
			} else {
				assert.NoError(t, err)
				require.NotNil(t, claims)
				assert.Equal(t, tt.expectClaims.UserID, claims.UserID)
				assert.Equal(t, tt.expectClaims.TokenType, claims.TokenType)
				assert.NotEmpty(t, claims.TokenID)
				assert.False(t, claims.IssuedAt.IsZero())
				assert.False(t, claims.ExpiresAt.IsZero())
				assert.True(t, claims.ExpiresAt.After(claims.IssuedAt))
			}
		})
	}
}

func TestRefreshToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	t.Run("valid refresh token rotates the pair", func(t *testing.T) {
		_, refreshToken, err := service.GenerateTokens(123)
		require.NoError(t, err)

		newAccessToken, newRefreshToken, err := service.RefreshToken(refreshToken)
		require.NoError(t, err)
		assert.NotEmpty(t, newAccessToken)
		assert.NotEmpty(t, newRefreshToken)
		assert.NotEqual(t, newAccessToken, newRefreshToken)
		assert.NotEqual(t, newRefreshToken, refreshToken)

		claims, err := service.ValidateToken(newAccessToken)
		require.NoError(t, err)
		assert.Equal(t, uint(123), claims.UserID)
		assert.Equal(t, "access", claims.TokenType)
	})

	t.Run("used refresh token cannot be replayed", func(t *testing.T) {
		_, refreshToken, err := service.GenerateTokens(123)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(refreshToken)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(refreshToken)
		assert.Error(t, err)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokens(123)
		require.NoError(t, err)

		_, _, err = service.RefreshToken(accessToken)
		assert.Error(t, err)
	})

	t.Run("garbage token is rejected", func(t *testing.T) {
		_, _, err := service.RefreshToken("invalid.token")
		assert.Error(t, err)
	})
}

func TestRevokeToken(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	t.Run("revoked token fails validation", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokens(123)
		require.NoError(t, err)

		claims, err := service.ValidateToken(accessToken)
		require.NoError(t, err)
		assert.False(t, service.IsTokenRevoked(claims.TokenID))

		require.NoError(t, service.RevokeToken(accessToken))
		assert.True(t, service.IsTokenRevoked(claims.TokenID))

		revokedClaims, err := service.ValidateToken(accessToken)
		assert.ErrorIs(t, err, ErrTokenRevoked)
		assert.Nil(t, revokedClaims)
	})

	t.Run("revoking twice is a no-op", func(t *testing.T) {
		accessToken, _, err := service.GenerateTokens(456)
		require.NoError(t, err)

		require.NoError(t, service.RevokeToken(accessToken))
		assert.NoError(t, service.RevokeToken(accessToken))
	})

	t.Run("invalid token cannot be revoked", func(t *testing.T) {
		assert.Error(t, service.RevokeToken(""))
		assert.Error(t, service.RevokeToken("invalid.token"))
	})

	t.Run("revocation is scoped per jti", func(t *testing.T) {
		accessToken, refreshToken, err := service.GenerateTokens(789)
		require.NoError(t, err)

		require.NoError(t, service.RevokeToken(accessToken))

		// The refresh token from the same pair stays valid
		claims, err := service.ValidateToken(refreshToken)
		require.NoError(t, err)
		assert.Equal(t, "refresh", claims.TokenType)
	})
}

func TestTokenExpiration(t *testing.T) {
	// Create service with very short TTL for testing expiration
	service, err := NewTokenService(1*time.Second, 2*time.Second, "test-issuer", "test-audience", false, "", "", "test-secret-key-for-jwt-signing-32-chars")
	require.NoError(t, err)

	accessToken, refreshToken, err := service.GenerateTokens(123)
	require.NoError(t, err)

	claims, err := service.ValidateToken(accessToken)
	assert.NoError(t, err)
	require.NotNil(t, claims)
	assert.Equal(t, uint(123), claims.UserID)

	time.Sleep(3 * time.Second)

	claims, err = service.ValidateToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)

	_, _, err = service.RefreshToken(refreshToken)
	assert.Error(t, err)
}

func TestTokenSecurity(t *testing.T) {
	// Services with different secrets must not accept each other's tokens
	service1, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer1", "audience1", false, "", "", "test-secret-key-1-for-jwt-signing-32-chars")
	require.NoError(t, err)

	service2, err := NewTokenService(15*time.Minute, 7*24*time.Hour, "issuer2", "audience2", false, "", "", "test-secret-key-2-for-jwt-signing-32-chars")
	require.NoError(t, err)

	token1, _, err := service1.GenerateTokens(123)
	require.NoError(t, err)

	token2, _, err := service2.GenerateTokens(123)
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)

	claims, err := service1.ValidateToken(token2)
	assert.Error(t, err)
	assert.Nil(t, claims)

	claims, err = service2.ValidateToken(token1)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestConcurrentTokenGeneration(t *testing.T) {
	service, err := createTestTokenService()
	require.NoError(t, err)

	const numGoroutines = 10
	tokens := make(chan string, numGoroutines)
	errors := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(userID uint) {
			accessToken, _, err := service.GenerateTokens(userID)
			if err != nil {
				errors <- err
				return
			}
			tokens <- accessToken
		}(uint(i + 1))
	}

	generatedTokens := make(map[string]bool)
	for i := 0; i < numGoroutines; i++ {
		select {
		case token := <-tokens:
			assert.NotEmpty(t, token)
			assert.False(t, generatedTokens[token], "Duplicate token generated")
			generatedTokens[token] = true
		case err := <-errors:
			t.Errorf("Error generating token: %v", err)
		}
	}

	assert.Equal(t, numGoroutines, len(generatedTokens))
}

func BenchmarkGenerateTokens(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _, err := service.GenerateTokens(uint(i))
		require.NoError(b, err)
	}
}

func BenchmarkValidateToken(b *testing.B) {
	service, err := createTestTokenService()
	require.NoError(b, err)

	token, _, err := service.GenerateTokens(123)
	require.NoError(b, err)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := service.ValidateToken(token)
		require.NoError(b, err)
	}
}
