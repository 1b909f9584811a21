package main

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/aretw0/gforms/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiller(t *testing.T) {
	f := newFiller(rand.New(rand.NewPCG(1, 2)))
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	f.now = func() time.Time { return now }

	elements := []domain.InputElement{
		domain.NewUserEmail(),
		domain.NewDate(domain.Header{ID: 1}, 11, true, false, true),
		domain.NewDate(domain.Header{ID: 2}, 12, true, true, true),
		domain.NewTime(domain.Header{ID: 3}, 13, true, false),
		domain.NewTime(domain.Header{ID: 4}, 14, true, true),
		domain.NewChoice(domain.Header{ID: 5}, domain.KindRadio, 15, true, []domain.Option{{Value: "a"}, {Value: "b"}}, nil),
	}
	for _, elem := range elements {
		t.Run(elem.Kind().String(), func(t *testing.T) {
			for range 50 {
				v, err := f.Value(elem)
				require.NoError(t, err)
				require.NoError(t, elem.SetValue(v))
				require.NoError(t, elem.Validate())
				if d, ok := v.(time.Time); ok {
					assert.WithinDuration(t, now, d, 11*24*time.Hour)
				}
			}
		})
	}

	t.Run("text is left to the caller", func(t *testing.T) {
		_, err := f.Value(domain.NewText(domain.Header{ID: 6}, domain.KindShortText, 16, true, nil))
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}
