package ingest

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/sagar803/real-estate-dashboard/internal/data/repos"
	"github.com/sagar803/real-estate-dashboard/internal/domain"
	"github.com/sagar803/real-estate-dashboard/internal/observability"
	"github.com/sagar803/real-estate-dashboard/internal/platform/dbctx"
	"github.com/sagar803/real-estate-dashboard/internal/platform/envutil"
	"github.com/sagar803/real-estate-dashboard/internal/platform/logger"
)

// Result is what one ingestion run reports back.
type Result struct {
	InsertedCount int
	Route         string
}

// Pipeline is the request-scoped orchestrator: it validates the
// manifest, claims the route by inserting the chatbot configuration,
// assembles every CSV row and batch-inserts the survivors.
type Pipeline struct {
	assembler   *RecordAssembler
	chatbotRepo repos.ChatbotRepo
	propRepo    repos.PropertyRepo
	maxRows     int
	metrics     *observability.Metrics
	log         *logger.Logger
}

func NewPipeline(
	assembler *RecordAssembler,
	chatbotRepo repos.ChatbotRepo,
	propRepo repos.PropertyRepo,
	metrics *observability.Metrics,
	baseLog *logger.Logger,
) *Pipeline {
	maxRows := envutil.GetEnvAsInt("INGEST_MAX_CONCURRENT_ROWS", 4, baseLog)
	if maxRows < 1 {
		maxRows = 1
	}
	return &Pipeline{
		assembler:   assembler,
		chatbotRepo: chatbotRepo,
		propRepo:    propRepo,
		maxRows:     maxRows,
		metrics:     metrics,
		log:         baseLog.With("service", "IngestionPipeline"),
	}
}

// Run executes one ingestion. Dropped rows reduce the count but never
// fail the run; a zero count is still success.
func (p *Pipeline) Run(ctx context.Context, manifest *UploadManifest) (Result, error) {
	if err := validateManifest(manifest); err != nil {
		return Result{}, err
	}

	route := strings.ToLower(strings.TrimSpace(manifest.RouteName))

	rows, err := parseCSVRows(manifest.CSVBytes)
	if err != nil {
		return Result{}, &ValidationError{Msg: err.Error()}
	}

	grouped := groupFilesByRow(manifest)
	dbc := dbctx.Context{Ctx: ctx}
	p.metrics.IngestRunInc()

	// Inserting the chatbot first claims the route: the unique index
	// turns the duplicate-route race into a single winner.
	_, err = p.chatbotRepo.Create(dbc, &domain.Chatbot{
		UserID:             manifest.BuilderUserID,
		Route:              route,
		ChatbotInstruction: manifest.SystemInstruction,
		AppName:            manifest.Appearance.AppName,
		BackgroundColor:    manifest.Appearance.BackgroundColor,
	})
	if err != nil {
		if errors.Is(err, repos.ErrRouteTaken) {
			return Result{}, &ValidationError{Msg: "route name already in use"}
		}
		return Result{}, &PersistenceError{Op: "chatbot insert", Err: err}
	}

	results := make([]*domain.Property, len(rows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxRows)
	for i := range rows {
		g.Go(func() error {
			record, err := p.assembler.Assemble(gctx, rows[i], grouped[i], route)
			if err != nil {
				p.log.Warn("Dropping row after assembly failure",
					"row", i+1, "route", route, "error", err.Error())
				p.metrics.ObserveIngestRow("dropped")
				return nil
			}
			results[i] = record
			p.metrics.ObserveIngestRow("inserted")
			return nil
		})
	}
	// Row failures are swallowed above; only context cancellation can
	// surface here.
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	records := make([]*domain.Property, 0, len(results))
	for _, r := range results {
		if r != nil {
			records = append(records, r)
		}
	}

	if _, err := p.propRepo.CreateBatch(dbc, records); err != nil {
		return Result{}, &PersistenceError{Op: "property batch insert", Err: err}
	}

	p.log.Info("Ingestion complete",
		"route", route,
		"rows", len(rows),
		"inserted", len(records),
	)
	return Result{InsertedCount: len(records), Route: route}, nil
}

func validateManifest(m *UploadManifest) error {
	if m == nil {
		return &ValidationError{Msg: "missing upload payload"}
	}
	switch {
	case len(m.CSVBytes) == 0:
		return &ValidationError{Msg: "missing required field: file"}
	case strings.TrimSpace(m.BuilderUserID) == "":
		return &ValidationError{Msg: "missing required field: userId"}
	case strings.TrimSpace(m.RouteName) == "":
		return &ValidationError{Msg: "missing required field: routeName"}
	case strings.TrimSpace(m.SystemInstruction) == "":
		return &ValidationError{Msg: "missing required field: systemInstruction"}
	}
	return nil
}
