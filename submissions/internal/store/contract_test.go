package store

import (
	"context"
	"encoding/json"
	"strconv"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/multillm/survey-stack/common/models"
)

// fakePayload builds a survey answer set the way the form client would send it.
func fakePayload() models.Payload {
	return models.Payload{
		"name":         gofakeit.Name(),
		"modelUsed":    gofakeit.RandomString([]string{"GPT-4o", "Claude", "Gemini"}),
		"purpose":      gofakeit.Sentence(6),
		"satisfaction": json.Number(strconv.Itoa(gofakeit.Number(1, 5))),
		"emotion":      gofakeit.RandomString([]string{"happy", "neutral", "frustrated"}),
	}
}

// runStoreContract exercises the behaviour every backend must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	t.Helper()

	t.Run("empty store lists nothing", func(t *testing.T) {
		s := newStore(t)
		got, err := s.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("append then list round-trips the payload", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		payload := fakePayload()

		created, err := s.Append(ctx, payload)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, created.ReceivedAt.IsZero())
		assert.False(t, created.ReceivedAt.After(time.Now()))

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, created.ID, got[0].ID)
		assert.Equal(t, payload, got[0].Payload)
		assert.True(t, created.ReceivedAt.Equal(got[0].ReceivedAt))
	})

	t.Run("sequential appends list in ascending insertion order", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 5
		var ids []int64
		for i := 0; i < n; i++ {
			created, err := s.Append(ctx, models.Payload{"name": gofakeit.Name(), "seq": json.Number(strconv.Itoa(i))})
			require.NoError(t, err)
			ids = append(ids, created.ID)
		}

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, n)
		for i := range got {
			assert.Equal(t, ids[i], got[i].ID)
			assert.Equal(t, json.Number(strconv.Itoa(i)), got[i].Payload["seq"])
			if i > 0 {
				assert.Greater(t, got[i].ID, got[i-1].ID)
				assert.False(t, got[i].ReceivedAt.Before(got[i-1].ReceivedAt))
			}
		}
	})

	t.Run("numbers beyond float precision are kept exactly", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		payload := models.Payload{
			"phone": json.Number("9007199254740993"),
			"score": json.Number("4.50"),
		}

		_, err := s.Append(ctx, payload)
		require.NoError(t, err)

		got, err := s.List(ctx)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, payload, got[0].Payload)
		assert.Equal(t, "9007199254740993", got[0].Payload.Text("phone"))
	})
}
