package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"shoe-card/models"
	"shoe-card/repository"
	"shoe-card/service"
	"shoe-card/utils"
)

// Snapshotter exports a rendered page to PDF or PNG
type Snapshotter interface {
	GeneratePDF(ctx context.Context, renderPath string) ([]byte, error)
	GeneratePNG(ctx context.Context, renderPath string, expectedPages int) (map[int][]byte, error)
}

// ShoeCardController handles HTTP requests for shoe cards
type ShoeCardController struct {
	repository  repository.ShoeRepositoryInterface
	cards       *service.CardService
	snapshotter Snapshotter
	pngs        *pngStore
	logger      *zap.Logger
}

// NewShoeCardController creates a new ShoeCardController
func NewShoeCardController(
	repo repository.ShoeRepositoryInterface,
	cards *service.CardService,
	snapshotter Snapshotter,
	logger *zap.Logger,
) *ShoeCardController {
	return &ShoeCardController{
		repository:  repo,
		cards:       cards,
		snapshotter: snapshotter,
		pngs:        newPNGStore(time.Now),
		logger:      logger,
	}
}

// validFormats is a map of valid format values
var validFormats = map[string]bool{
	"html": true,
	"json": true,
	"pdf":  true,
	"png":  true,
}

// parseFormat reads ?format=, defaulting to html
func parseFormat(r *http.Request) (string, bool) {
	format := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("format")))
	if format == "" {
		format = "html"
	}
	return format, validFormats[format]
}

// ListShoes handles GET /shoes?format=html|json|pdf|png
func (c *ShoeCardController) ListShoes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, ok := parseFormat(r)
	if !ok {
		c.logger.Warn("❌ ListShoes: invalid format", zap.String("format", format))
		http.Error(w, "Invalid format. Valid formats: html, json, pdf, png", http.StatusBadRequest)
		return
	}

	cards, err := c.listCards(r.Context())
	if err != nil {
		c.logger.Error("❌ ListShoes: error rendering cards", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to render shoes: %v", err), http.StatusInternalServerError)
		return
	}

	switch format {
	case "json":
		writeJSON(w, c.logger, cards)
	case "pdf":
		c.writePDF(w, r, "/shoes/render", "shoes")
	case "png":
		c.writePNG(w, r, "/shoes/render", "shoes", service.PageCount(len(cards)))
	default:
		c.writeGridHTML(w, cards)
	}
}

// RenderGrid handles GET /shoes/render
// Returns the plain grid HTML (used by chromedp for PDF/PNG generation)
func (c *ShoeCardController) RenderGrid(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	cards, err := c.listCards(r.Context())
	if err != nil {
		c.logger.Error("❌ RenderGrid: error rendering cards", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to render shoes: %v", err), http.StatusInternalServerError)
		return
	}
	c.writeGridHTML(w, cards)
}

// ShoePage handles GET /shoe/:slug, the navigation target of a card
func (c *ShoeCardController) ShoePage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	card, ok := c.cardForRequest(w, r, utils.ShoePathPrefix)
	if !ok {
		return
	}
	c.writeCardHTML(w, card)
}

// GetCard handles GET /shoes/:slug/card?format=html|json|pdf|png
func (c *ShoeCardController) GetCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	format, ok := parseFormat(r)
	if !ok {
		c.logger.Warn("❌ GetCard: invalid format", zap.String("format", format))
		http.Error(w, "Invalid format. Valid formats: html, json, pdf, png", http.StatusBadRequest)
		return
	}

	card, ok := c.cardForRequest(w, r, "/shoes/")
	if !ok {
		return
	}

	renderPath := fmt.Sprintf("/shoes/%s/card/render", strings.TrimPrefix(card.Href, utils.ShoePathPrefix))
	name := "shoe_" + card.Slug

	switch format {
	case "json":
		writeJSON(w, c.logger, card)
	case "pdf":
		c.writePDF(w, r, renderPath, name)
	case "png":
		c.writePNG(w, r, renderPath, name, 1)
	default:
		c.writeCardHTML(w, card)
	}
}

// RenderCard handles GET /shoes/:slug/card/render
// Returns the plain card HTML (used by chromedp for PDF/PNG generation)
func (c *ShoeCardController) RenderCard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	card, ok := c.cardForRequest(w, r, "/shoes/")
	if !ok {
		return
	}
	c.writeCardHTML(w, card)
}

// DownloadPNGPage handles GET /shoes/png-page?session=XXX&page=N
// Returns a specific PNG page from temporary storage
func (c *ShoeCardController) DownloadPNGPage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sessionID := strings.TrimSpace(r.URL.Query().Get("session"))
	if sessionID == "" {
		http.Error(w, "session parameter is required", http.StatusBadRequest)
		return
	}

	pageNum, err := strconv.Atoi(strings.TrimSpace(r.URL.Query().Get("page")))
	if err != nil || pageNum < 1 {
		http.Error(w, "Invalid page number", http.StatusBadRequest)
		return
	}

	sess, ok := c.pngs.get(sessionID)
	if !ok {
		c.logger.Warn("❌ DownloadPNGPage: session not found", zap.String("session", sessionID))
		http.Error(w, "Session expired or not found", http.StatusNotFound)
		return
	}

	pngData, ok := sess.pages[pageNum]
	if !ok {
		http.Error(w, fmt.Sprintf("Page %d not found", pageNum), http.StatusNotFound)
		return
	}

	if !bytes.HasPrefix(pngData, pngSignature) {
		c.logger.Error("❌ DownloadPNGPage: invalid PNG data", zap.Int("page", pageNum), zap.Int("bytes", len(pngData)))
		http.Error(w, "Invalid PNG data", http.StatusInternalServerError)
		return
	}

	filename := pngFilename(sess.name, pageNum, len(sess.pages))
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s\"", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(pngData)))
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(pngData); err != nil {
		c.logger.Error("❌ DownloadPNGPage: error writing PNG response", zap.Error(err))
	}
}

var pngSignature = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}

// pngFilename uses a simpler name without page number for single-page exports
func pngFilename(name string, page, total int) string {
	if total == 1 {
		return name + ".png"
	}
	return fmt.Sprintf("%s_page_%d.png", name, page)
}

// listCards loads every shoe and renders it
func (c *ShoeCardController) listCards(ctx context.Context) ([]models.Card, error) {
	shoes, err := c.repository.List(ctx)
	if err != nil {
		return nil, err
	}
	return c.cards.RenderAll(ctx, shoes)
}

// cardForRequest resolves the slug after prefix and renders its card.
// On failure it writes the error response and returns false.
func (c *ShoeCardController) cardForRequest(w http.ResponseWriter, r *http.Request, prefix string) (models.Card, bool) {
	slug := utils.SlugFromPath(r.URL.EscapedPath(), prefix)
	if slug == "" {
		http.Error(w, "slug parameter is required", http.StatusBadRequest)
		return models.Card{}, false
	}

	shoe, err := c.repository.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, models.ErrShoeNotFound) {
			http.Error(w, fmt.Sprintf("Shoe %s not found", slug), http.StatusNotFound)
			return models.Card{}, false
		}
		c.logger.Error("❌ Error fetching shoe", zap.String("slug", slug), zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to fetch shoe: %v", err), http.StatusInternalServerError)
		return models.Card{}, false
	}

	return c.cards.Render(*shoe), true
}

func (c *ShoeCardController) writeCardHTML(w http.ResponseWriter, card models.Card) {
	var buf bytes.Buffer
	if err := c.cards.RenderHTML(&buf, card); err != nil {
		c.logger.Error("❌ Error rendering card HTML", zap.String("slug", card.Slug), zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to render card: %v", err), http.StatusInternalServerError)
		return
	}
	writeHTML(w, c.logger, buf.Bytes())
}

func (c *ShoeCardController) writeGridHTML(w http.ResponseWriter, cards []models.Card) {
	var buf bytes.Buffer
	if err := c.cards.RenderGridHTML(&buf, cards); err != nil {
		c.logger.Error("❌ Error rendering grid HTML", zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to render shoes: %v", err), http.StatusInternalServerError)
		return
	}
	writeHTML(w, c.logger, buf.Bytes())
}

func (c *ShoeCardController) writePDF(w http.ResponseWriter, r *http.Request, renderPath, name string) {
	pdfData, err := c.snapshotter.GeneratePDF(r.Context(), renderPath)
	if err != nil {
		c.logger.Error("❌ Error generating PDF", zap.String("path", renderPath), zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to generate PDF: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.pdf\"", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdfData); err != nil {
		c.logger.Error("❌ Error writing PDF response", zap.Error(err))
	}
}

// PageLink points at one stored PNG page
type PageLink struct {
	Page     int    `json:"page"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
}

// PNGExport lists the pages of a PNG export
type PNGExport struct {
	SessionID  string     `json:"sessionId"`
	TotalPages int        `json:"totalPages"`
	Pages      []PageLink `json:"pages"`
}

func (c *ShoeCardController) writePNG(w http.ResponseWriter, r *http.Request, renderPath, name string, expectedPages int) {
	pngs, err := c.snapshotter.GeneratePNG(r.Context(), renderPath, expectedPages)
	if err != nil {
		c.logger.Error("❌ Error generating PNG", zap.String("path", renderPath), zap.Error(err))
		http.Error(w, fmt.Sprintf("Failed to generate PNG: %v", err), http.StatusInternalServerError)
		return
	}

	sessionID := c.pngs.put(name, pngs)

	export := PNGExport{SessionID: sessionID, TotalPages: len(pngs)}
	for i := 1; i <= len(pngs); i++ {
		if _, exists := pngs[i]; !exists {
			continue
		}
		export.Pages = append(export.Pages, PageLink{
			Page:     i,
			URL:      fmt.Sprintf("/shoes/png-page?session=%s&page=%d", sessionID, i),
			Filename: pngFilename(name, i, len(pngs)),
		})
	}

	writeJSON(w, c.logger, export)
}

func writeHTML(w http.ResponseWriter, logger *zap.Logger, body []byte) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		logger.Error("❌ Error writing HTML response", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("❌ Error encoding JSON response", zap.Error(err))
	}
}
