package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"shoe-card/app"
	"shoe-card/db"
	"shoe-card/models"
	"shoe-card/repository"
	"shoe-card/service"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(ctx context.Context) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.Initialize(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer application.Close()

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           application.Handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("🚀 Server starting", zap.String("addr", cfg.Addr()), zap.String("baseURL", cfg.BaseURL))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		log.Info("🛑 Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

func newRenderCmd() *cobra.Command {
	var file, slug, format string

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render shoe cards from a YAML file to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			shoes, err := repository.LoadShoesYAML(file)
			if err != nil {
				return err
			}
			return renderCards(cmd.Context(), cmd.OutOrStdout(), shoes, slug, format, time.Now)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/shoes.yaml", "YAML file with a top-level shoes list")
	cmd.Flags().StringVarP(&slug, "slug", "s", "", "render only this shoe (default: all shoes)")
	cmd.Flags().StringVar(&format, "format", "html", "output format: html or json")
	return cmd
}

// renderCards writes one card (slug set) or the whole grid to w
func renderCards(ctx context.Context, w io.Writer, shoes []models.Shoe, slug, format string, now func() time.Time) error {
	if format != "html" && format != "json" {
		return fmt.Errorf("invalid format %q: valid formats are html, json", format)
	}

	for _, shoe := range shoes {
		if err := service.Validate(shoe); err != nil {
			return err
		}
	}

	cards, err := service.NewCardService(nil, now)
	if err != nil {
		return err
	}
	repo := repository.NewMemoryShoeRepository(shoes...)

	if slug != "" {
		shoe, err := repo.GetBySlug(ctx, slug)
		if err != nil {
			return err
		}
		card := cards.Render(*shoe)
		if format == "json" {
			return writeIndentedJSON(w, card)
		}
		return cards.RenderHTML(w, card)
	}

	all, err := repo.List(ctx)
	if err != nil {
		return err
	}
	rendered, err := cards.RenderAll(ctx, all)
	if err != nil {
		return err
	}
	if format == "json" {
		return writeIndentedJSON(w, rendered)
	}
	return cards.RenderGridHTML(w, rendered)
}

func writeIndentedJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load shoes from a YAML file into the database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup()
			if err != nil {
				return err
			}
			defer log.Sync()

			shoes, err := repository.LoadShoesYAML(file)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			conn, err := db.InitDB(ctx, cfg.DatabaseURL, log)
			if err != nil {
				return err
			}
			defer conn.Close()

			if err := db.EnsureSchema(ctx, conn); err != nil {
				return err
			}

			seeded, err := seedShoes(ctx, repository.NewShoeRepository(conn, log), shoes, log)
			if err != nil {
				return err
			}
			log.Info("🎉 Seeding completed", zap.Int("seeded", seeded), zap.Int("total", len(shoes)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "fixtures/shoes.yaml", "YAML file with a top-level shoes list")
	return cmd
}

// seedShoes upserts every valid shoe, skipping the ones missing identity fields
func seedShoes(ctx context.Context, repo repository.ShoeRepositoryInterface, shoes []models.Shoe, log *zap.Logger) (int, error) {
	seeded := 0
	for _, shoe := range shoes {
		if err := service.Validate(shoe); err != nil {
			log.Warn("⏭️ Skipping invalid shoe", zap.String("slug", shoe.Slug), zap.Error(err))
			continue
		}
		if err := repo.Upsert(ctx, shoe); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}
