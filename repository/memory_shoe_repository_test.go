package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shoe-card/models"
)

const fixture = `
shoes:
  - slug: air-zoom
    name: Air Zoom
    imageSrc: /assets/air-zoom.jpg
    price: 140
    salePrice: 110
    releaseDate: 2024-06-13
    numOfColors: 2
  - slug: classic
    name: Classic
    imageSrc: drive://abc123
    price: 150
    salePrice: null
    releaseDate: 2022-06-15
    numOfColors: 1
`

func TestParseShoesYAML(t *testing.T) {
	t.Parallel()

	shoes, err := ParseShoesYAML([]byte(fixture))
	require.NoError(t, err)
	require.Len(t, shoes, 2)

	assert.Equal(t, "air-zoom", shoes[0].Slug)
	require.NotNil(t, shoes[0].SalePrice)
	assert.Equal(t, 110.0, *shoes[0].SalePrice)
	assert.Equal(t, time.Date(2024, 6, 13, 0, 0, 0, 0, time.UTC), shoes[0].ReleaseDate)

	assert.Nil(t, shoes[1].SalePrice)
	assert.Equal(t, "drive://abc123", shoes[1].ImageSrc)
	assert.Equal(t, 1, shoes[1].NumOfColors)
}

func TestParseShoesYAML_invalid(t *testing.T) {
	t.Parallel()

	_, err := ParseShoesYAML([]byte("shoes: [::"))
	assert.Error(t, err)
}

func TestMemoryShoeRepository(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	old := models.Shoe{Slug: "old", Name: "Old", ReleaseDate: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	newer := models.Shoe{Slug: "newer", Name: "Newer", ReleaseDate: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	r := NewMemoryShoeRepository(old, newer)

	shoes, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, shoes, 2)
	assert.Equal(t, "newer", shoes[0].Slug)
	assert.Equal(t, "old", shoes[1].Slug)

	got, err := r.GetBySlug(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "Old", got.Name)

	_, err = r.GetBySlug(ctx, "missing")
	assert.True(t, errors.Is(err, models.ErrShoeNotFound))

	old.Name = "Old Renamed"
	require.NoError(t, r.Upsert(ctx, old))
	got, err = r.GetBySlug(ctx, "old")
	require.NoError(t, err)
	assert.Equal(t, "Old Renamed", got.Name)
}
