package service

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"runtime"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"shoe-card/models"
	"shoe-card/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

// CardsPerPage is how many cards fit on one exported page
const CardsPerPage = 9

// CardService renders shoe records into cards
type CardService struct {
	now       func() time.Time
	palette   Palette
	templates *template.Template
	logger    *zap.Logger
}

// NewCardService creates a new CardService. now defaults to time.Now.
func NewCardService(logger *zap.Logger, now func() time.Time) (*CardService, error) {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	tmpl, err := template.New("cards").
		Funcs(template.FuncMap{"imageURL": ImageURL}).
		ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &CardService{
		now:       now,
		palette:   DefaultPalette,
		templates: tmpl,
		logger:    logger,
	}, nil
}

// Validate rejects shoes missing their identity fields.
// Numeric anomalies (negative price, negative color count) are displayed as-is.
func Validate(shoe models.Shoe) error {
	if strings.TrimSpace(shoe.Slug) == "" {
		return models.ErrMissingSlug
	}
	if strings.TrimSpace(shoe.Name) == "" {
		return fmt.Errorf("%w (slug=%s)", models.ErrMissingName, shoe.Slug)
	}
	return nil
}

// Render builds the card of a single shoe
func (s *CardService) Render(shoe models.Shoe) models.Card {
	return s.renderAt(shoe, s.now())
}

func (s *CardService) renderAt(shoe models.Shoe, now time.Time) models.Card {
	variant := ResolveVariant(shoe.SalePrice, shoe.ReleaseDate, now)
	onSale := variant == models.VariantOnSale

	card := models.Card{
		Slug:    shoe.Slug,
		Variant: variant,
		Href:    utils.ShoeHref(shoe.Slug),
		Image:   models.Image{Src: shoe.ImageSrc, Alt: ""},
		Title:   shoe.Name,
		Price: models.PriceLine{
			Text:  utils.FormatPrice(shoe.Price),
			Color: s.palette.Gray900,
		},
		SalePrice: models.SalePriceLine{
			Hidden: true,
			Color:  s.palette.Primary,
		},
		Colors: utils.Pluralize("Color", shoe.NumOfColors),
	}

	if onSale {
		card.Price.StruckThrough = true
		card.Price.Color = s.palette.Gray700
	}

	// The sale price node stays in the tree; it is only shown for a positive sale price
	if shoe.HasSalePrice() {
		card.SalePrice.Text = utils.FormatPrice(*shoe.SalePrice)
		card.SalePrice.Hidden = !onSale || *shoe.SalePrice <= 0
	}

	if style := FlagStyleFor(variant); style.Label != "" {
		card.Flag = &models.Flag{
			Label:      style.Label,
			Accent:     style.Accent,
			Background: s.palette.Background(style.Accent),
			Offset:     style.Offset,
		}
	}

	return card
}

// RenderAll renders a list of shoes in parallel, keeping the input order.
// All cards are classified against the same current date.
func (s *CardService) RenderAll(ctx context.Context, shoes []models.Shoe) ([]models.Card, error) {
	cards := make([]models.Card, len(shoes))
	now := s.now()

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range shoes {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			cards[i] = s.renderAt(shoes[i], now)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to render cards: %w", err)
	}

	s.logger.Debug("🖼️ Rendered cards", zap.Int("count", len(cards)))
	return cards, nil
}

// RenderHTML writes a standalone page holding a single card
func (s *CardService) RenderHTML(w io.Writer, card models.Card) error {
	return s.executePage(w, card.Title, [][]models.Card{{card}})
}

// RenderGridHTML writes all cards, CardsPerPage per page
func (s *CardService) RenderGridHTML(w io.Writer, cards []models.Card) error {
	return s.executePage(w, "Shoes", PaginateCards(cards))
}

// RenderHTMLString renders a single card page to a string
func (s *CardService) RenderHTMLString(card models.Card) (string, error) {
	var buf bytes.Buffer
	if err := s.RenderHTML(&buf, card); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (s *CardService) executePage(w io.Writer, title string, pages [][]models.Card) error {
	data := struct {
		Title  string
		Styles template.CSS
		Pages  [][]models.Card
	}{
		Title:  title,
		Styles: s.palette.StyleSheet(),
		Pages:  pages,
	}

	if err := s.templates.ExecuteTemplate(w, "page", data); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// PaginateCards splits cards into pages of CardsPerPage cards each
func PaginateCards(cards []models.Card) [][]models.Card {
	var pages [][]models.Card
	for i := 0; i < len(cards); i += CardsPerPage {
		end := i + CardsPerPage
		if end > len(cards) {
			end = len(cards)
		}
		pages = append(pages, cards[i:end])
	}
	return pages
}

// PageCount returns the number of pages PaginateCards produces for n cards
func PageCount(n int) int {
	return (n + CardsPerPage - 1) / CardsPerPage
}

// ImageURL maps an image source to something a browser can load.
// drive:// sources go through the image endpoint; everything else is used as given.
func ImageURL(src string) string {
	if strings.HasPrefix(src, DriveScheme) {
		return "/images?size=medium&src=" + url.QueryEscape(src)
	}
	return src
}

// StyleSheet returns the card styles for this palette
func (p Palette) StyleSheet() template.CSS {
	var b strings.Builder
	fmt.Fprintf(&b, `body { margin: 0; font-family: sans-serif; }
.page { display: flex; flex-wrap: wrap; gap: 32px; padding: 32px; box-sizing: border-box; min-height: 350mm; break-after: page; page-break-after: always; }
.page:last-child { break-after: auto; page-break-after: auto; }
.shoe-card { text-decoration: none; color: inherit; flex: 1 1 312px; }
.shoe-card__image { width: 100%%; border-radius: 16px 16px 4px 4px; }
.row { font-size: 1rem; display: flex; justify-content: space-between; }
.name { font-weight: 500; color: %[4]s; }
.price { color: %[4]s; }
.price--struck { text-decoration: line-through; color: %[3]s; }
.color-info { color: %[3]s; }
.sale-price { font-weight: 500; color: %[2]s; }
.flag { position: relative; z-index: 1; top: 42px; color: %[1]s; font-size: 14px; padding: 7px; border-radius: 2px; }
`, p.White, p.Primary, p.Gray700, p.Gray900)

	for _, v := range models.Variants {
		style := FlagStyleFor(v)
		if style.Label == "" {
			continue
		}
		fmt.Fprintf(&b, ".flag--%s { background: %s; left: %dpx; }\n", v, p.Background(style.Accent), style.Offset)
	}
	return template.CSS(b.String())
}
