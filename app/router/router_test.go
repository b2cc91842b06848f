package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"shoe-card/app/controller"
	"shoe-card/models"
	"shoe-card/repository"
	"shoe-card/service"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

var pngData = append([]byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, []byte("page")...)

type fakeSnapshotter struct {
	paths []string
	pages int
}

func (f *fakeSnapshotter) GeneratePDF(ctx context.Context, renderPath string) ([]byte, error) {
	f.paths = append(f.paths, renderPath)
	return []byte("%PDF-1.4"), nil
}

func (f *fakeSnapshotter) GeneratePNG(ctx context.Context, renderPath string, expectedPages int) (map[int][]byte, error) {
	f.paths = append(f.paths, renderPath)
	f.pages = expectedPages
	out := make(map[int][]byte, expectedPages)
	for i := 1; i <= expectedPages; i++ {
		out[i] = pngData
	}
	return out, nil
}

type fakeImages struct {
	err error
}

func (f fakeImages) GetOptimized(ctx context.Context, src string, size string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte(src + "@" + size), nil
}

func newTestMux(t *testing.T, images controller.ImageOptimizer) (*http.ServeMux, *fakeSnapshotter) {
	t.Helper()

	repo := repository.NewMemoryShoeRepository(
		models.Shoe{Slug: "air-zoom", Name: "Air Zoom", ImageSrc: "/assets/air-zoom.jpg", Price: 140, SalePrice: models.Amount(110), ReleaseDate: now.AddDate(0, 0, -2), NumOfColors: 2},
		models.Shoe{Slug: "pegasus", Name: "Pegasus", ImageSrc: "/assets/pegasus.jpg", Price: 149.99, ReleaseDate: now.AddDate(0, 0, -10), NumOfColors: 3},
		models.Shoe{Slug: "classic", Name: "Classic", ImageSrc: "drive://abc", Price: 150, ReleaseDate: now.AddDate(-2, 0, 0), NumOfColors: 1},
	)
	cards, err := service.NewCardService(nil, func() time.Time { return now })
	require.NoError(t, err)

	snap := &fakeSnapshotter{}
	mux := http.NewServeMux()
	SetupRoutes(mux, &Controllers{
		ShoeCard: controller.NewShoeCardController(repo, cards, snap, zap.NewNop()),
		Image:    controller.NewImageController(images, zap.NewNop()),
	})
	return mux, snap
}

func get(mux http.Handler, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPing(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/ping")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestShoePage_rendersCard(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoe/pegasus")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "Just Released!", strings.TrimSpace(doc.Find(".flag").Text()))
	assert.Equal(t, "$149.99", doc.Find(".price").Text())
	style, _ := doc.Find(".sale-price").Attr("style")
	assert.Equal(t, "display: none", style)
}

func TestShoePage_notFound(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	assert.Equal(t, http.StatusNotFound, get(mux, "/shoe/missing").Code)
	assert.Equal(t, http.StatusBadRequest, get(mux, "/shoe/").Code)
}

func TestGetCard_json(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoes/air-zoom/card?format=json")
	require.Equal(t, http.StatusOK, rec.Code)

	var card models.Card
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&card))
	assert.Equal(t, models.VariantOnSale, card.Variant)
	assert.Equal(t, "/shoe/air-zoom", card.Href)
	require.NotNil(t, card.Flag)
	assert.Equal(t, "Sale", card.Flag.Label)
	assert.Equal(t, "$140.00", card.Price.Text)
	assert.Equal(t, "$110.00", card.SalePrice.Text)
	assert.False(t, card.SalePrice.Hidden)
}

func TestGetCard_invalidFormat(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	assert.Equal(t, http.StatusBadRequest, get(mux, "/shoes/air-zoom/card?format=gif").Code)
}

func TestGetCard_pdf(t *testing.T) {
	mux, snap := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoes/classic/card?format=pdf")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "shoe_classic.pdf")
	assert.Equal(t, []string{"/shoes/classic/card/render"}, snap.paths)
}

func TestListShoes_pngExportAndDownload(t *testing.T) {
	mux, snap := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoes?format=png")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"/shoes/render"}, snap.paths)
	assert.Equal(t, 1, snap.pages)

	var export controller.PNGExport
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&export))
	require.Equal(t, 1, export.TotalPages)
	require.Len(t, export.Pages, 1)
	assert.Equal(t, "shoes.png", export.Pages[0].Filename)

	rec = get(mux, export.Pages[0].URL)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, pngData, rec.Body.Bytes())

	assert.Equal(t, http.StatusNotFound, get(mux, "/shoes/png-page?session=nope&page=1").Code)
	assert.Equal(t, http.StatusBadRequest, get(mux, "/shoes/png-page?session=x&page=0").Code)
}

func TestListShoes_htmlGrid(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoes")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := goquery.NewDocumentFromReader(rec.Body)
	require.NoError(t, err)

	var hrefs []string
	doc.Find("a.shoe-card").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
	})
	// newest release first
	assert.Equal(t, []string{"/shoe/air-zoom", "/shoe/pegasus", "/shoe/classic"}, hrefs)

	src, _ := doc.Find(`a[href="/shoe/classic"] img`).Attr("src")
	assert.Equal(t, "/images?size=medium&src=drive%3A%2F%2Fabc", src)
}

func TestRenderGrid(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/shoes/render")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `class="page"`)
}

func TestUnknownShoeRoute(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	assert.Equal(t, http.StatusNotFound, get(mux, "/shoes/air-zoom/reviews").Code)
}

func TestGetImage(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{})

	rec := get(mux, "/images?src=drive%3A%2F%2Fabc&size=thumb")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/jpeg", rec.Header().Get("Content-Type"))
	assert.Equal(t, "drive://abc@thumb", rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, get(mux, "/images?size=thumb").Code)
	assert.Equal(t, http.StatusBadRequest, get(mux, "/images?src=/a.jpg&size=huge").Code)
}

func TestGetImage_errors(t *testing.T) {
	mux, _ := newTestMux(t, fakeImages{err: service.ErrDriveUnavailable})
	assert.Equal(t, http.StatusServiceUnavailable, get(mux, "/images?src=drive%3A%2F%2Fabc").Code)

	mux, _ = newTestMux(t, fakeImages{err: errors.New("boom")})
	assert.Equal(t, http.StatusBadGateway, get(mux, "/images?src=/a.jpg").Code)
}
