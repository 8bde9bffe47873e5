package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vbonduro/filmlog/internal/chart"
	"github.com/vbonduro/filmlog/internal/config"
	"github.com/vbonduro/filmlog/internal/domain"
	"github.com/vbonduro/filmlog/internal/normalize"
	"github.com/vbonduro/filmlog/internal/notion"
	"github.com/vbonduro/filmlog/internal/report"
	"github.com/vbonduro/filmlog/internal/stats"
)

// databaseFetcher is the subset of notion.Client that ReportService requires.
type databaseFetcher interface {
	RetrieveDatabase(ctx context.Context, id string) (*notion.Database, error)
	QueryDatabase(ctx context.Context, id string) ([]domain.RawRow, error)
}

type ReportOptions struct {
	OutputPath    string
	FilmColorMode chart.ColorMode
	ColorSeed     uint64
}

// Result summarizes one generated report.
type Result struct {
	OutputPath string
	Database   *notion.Database
	Rows       int
	Film       stats.Distribution
	Brand      stats.Distribution
}

type ReportService struct {
	fetcher databaseFetcher
	opts    ReportOptions
	logger  *slog.Logger
}

func NewReportService(fetcher databaseFetcher, opts ReportOptions, logger *slog.Logger) *ReportService {
	if opts.FilmColorMode == "" {
		opts.FilmColorMode = chart.ColorRandom
	}
	return &ReportService{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger,
	}
}

// Generate fetches the database, builds the report and writes it to the
// configured output path, replacing any previous report.
func (s *ReportService) Generate(ctx context.Context, creds *config.Credentials) (*Result, error) {
	s.logger.Info("report generation started", "database_id", creds.DatabaseID)

	db, err := s.fetcher.RetrieveDatabase(ctx, creds.DatabaseID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("database metadata retrieved",
		"title", db.Title,
		"properties", db.Properties,
		"last_edited", db.LastEditedTime,
	)

	rows, err := s.fetcher.QueryDatabase(ctx, creds.DatabaseID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("database rows fetched", "rows", len(rows))

	shots := normalize.Rows(rows)
	for i, shot := range shots {
		if shot.Film == nil || shot.Brand == nil {
			s.logger.Debug("row missing film or brand", "index", i, "film_absent", shot.Film == nil, "brand_absent", shot.Brand == nil)
		}
	}

	film := stats.Compute(shots, domain.FieldFilm)
	brand := stats.Compute(shots, domain.FieldBrand)
	s.logger.Info("distributions computed",
		"films", len(film.Buckets), "film_rows", film.Total,
		"brands", len(brand.Buckets), "brand_rows", brand.Total,
	)

	filmPalette := chart.NewFilmPalette(s.opts.FilmColorMode, s.opts.ColorSeed, film.Values())
	filmPNG, err := chart.Render(film, filmPalette, chart.Labels{Subject: "films"})
	if err != nil {
		return nil, fmt.Errorf("failed to render film chart: %w", err)
	}
	brandPNG, err := chart.Render(brand, chart.BrandPalette(), chart.Labels{Subject: "brands"})
	if err != nil {
		return nil, fmt.Errorf("failed to render brand chart: %w", err)
	}

	html, err := report.Render(report.Document{
		Title:      db.Title,
		Shots:      shots,
		FilmChart:  filmPNG,
		BrandChart: brandPNG,
	})
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := report.WriteFile(s.opts.OutputPath, html); err != nil {
		return nil, fmt.Errorf("failed to write report: %w", err)
	}
	s.logger.Info("report written", "path", s.opts.OutputPath, "bytes", len(html))

	return &Result{
		OutputPath: s.opts.OutputPath,
		Database:   db,
		Rows:       len(shots),
		Film:       film,
		Brand:      brand,
	}, nil
}
