package businessflow

import (
	"context"
	"errors"
	"testing"

	"github.com/amberlink/ambassador-platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferralCode(t *testing.T) {
	ctx := context.Background()

	t.Run("produces well-formed codes", func(t *testing.T) {
		noneTaken := func(ctx context.Context, code string) (bool, error) {
			return false, nil
		}

		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			code, err := GenerateReferralCode(ctx, noneTaken)
			require.NoError(t, err)
			assert.Len(t, code, models.ReferralCodeLength)
			for _, ch := range code {
				assert.Contains(t, codeAlphabet, string(ch))
			}
			seen[code] = true
		}
		// 50 draws from a 36^8 space colliding would indicate a broken sampler
		assert.Equal(t, 50, len(seen))
	})

	t.Run("retries past collisions", func(t *testing.T) {
		calls := 0
		takenTwice := func(ctx context.Context, code string) (bool, error) {
			calls++
			return calls <= 2, nil
		}

		code, err := GenerateReferralCode(ctx, takenTwice)
		require.NoError(t, err)
		assert.Len(t, code, models.ReferralCodeLength)
		assert.Equal(t, 3, calls)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		calls := 0
		allTaken := func(ctx context.Context, code string) (bool, error) {
			calls++
			return true, nil
		}

		code, err := GenerateReferralCode(ctx, allTaken)
		assert.ErrorIs(t, err, ErrCodeSpaceExhausted)
		assert.Empty(t, code)
		assert.Equal(t, maxCodeAttempts, calls)
	})

	t.Run("propagates predicate errors", func(t *testing.T) {
		dbDown := errors.New("connection refused")
		failing := func(ctx context.Context, code string) (bool, error) {
			return false, dbDown
		}

		code, err := GenerateReferralCode(ctx, failing)
		assert.Error(t, err)
		assert.ErrorIs(t, err, dbDown)
		assert.Empty(t, code)
	})
}
