package models

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCoordinate_Builders(t *testing.T) {
	base := NewCoordinate(uuid.New(), uuid.New())
	offer := uuid.New()

	withOffer := base.WithOfferConst(offer)

	assert.False(t, base.OfferConst.Valid, "исходная координата не изменяется")
	assert.True(t, withOffer.OfferConst.Valid)
	assert.Equal(t, offer, withOffer.OfferConst.UUID)
}

func TestCoordinate_CacheKey(t *testing.T) {
	profile := uuid.New()
	product := uuid.New()
	offer := uuid.New()

	t.Run("незаполненные уровни помечаются", func(t *testing.T) {
		key := NewCoordinate(profile, product).CacheKey()
		assert.Equal(t, fmt.Sprintf("card:%s:%s:-:-:-", profile, product), key)
	})

	t.Run("уровни различают ключи", func(t *testing.T) {
		base := NewCoordinate(profile, product)
		assert.NotEqual(t, base.CacheKey(), base.WithOfferConst(offer).CacheKey())
	})
}
