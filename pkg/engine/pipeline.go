package engine

import (
	"context"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"salesdash/pkg/metrics"
	"salesdash/pkg/parser"
	"salesdash/pkg/schema"
)

// Result is everything one render derives from a dataset directory.
type Result struct {
	RenderID   string           `json:"renderId"`
	Dataset    string           `json:"dataset"`
	Clean      *CleanResult     `json:"clean"`
	Identities *IdentityMapping `json:"identities"`
	JoinStats  JoinStats        `json:"joinStats"`
	Conflicts  []ColumnConflict `json:"conflicts"`
	Elapsed    time.Duration    `json:"elapsed"`
}

// Lines is shorthand for the cleaned order lines.
func (r *Result) Lines() []schema.CleanedLine {
	return r.Clean.Lines
}

// Pipeline loads, joins, cleans and resolves one dataset per Run.
// Runs share no mutable state and may execute concurrently.
type Pipeline struct {
	loader  *parser.Loader
	cleaner *Cleaner
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewPipeline creates a pipeline. m may be nil.
func NewPipeline(loader *parser.Loader, cleaner *Cleaner, logger *zap.Logger, m *metrics.Metrics) *Pipeline {
	return &Pipeline{
		loader:  loader,
		cleaner: cleaner,
		logger:  logger.Named("pipeline"),
		metrics: m,
	}
}

// Run renders the dataset in dir. Structural failures return no partial result.
func (p *Pipeline) Run(ctx context.Context, dir string) (*Result, error) {
	start := time.Now()
	renderID := uuid.NewString()
	dataset := filepath.Base(dir)
	logger := p.logger.With(zap.String("render_id", renderID), zap.String("dataset", dataset))

	result, err := p.run(ctx, dir, logger)
	elapsed := time.Since(start)

	identities := 0
	if result != nil {
		result.RenderID = renderID
		result.Dataset = dataset
		result.Elapsed = elapsed
		identities = result.Identities.Count
	}
	p.metrics.RenderFinished(dataset, identities, elapsed, err)

	if err != nil {
		logger.Error("Render failed", zap.Error(err), zap.Duration("elapsed", elapsed))
		return nil, err
	}

	logger.Info("Render complete",
		zap.Int("orders", result.JoinStats.Orders),
		zap.Int("identities", identities),
		zap.Int("currency_fallbacks", result.Clean.CurrencyFallbacks),
		zap.Int("quantity_fallbacks", result.Clean.QuantityFallbacks),
		zap.Duration("elapsed", elapsed))

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, dir string, logger *zap.Logger) (*Result, error) {
	ds, err := p.loader.LoadDir(ctx, dir)
	if err != nil {
		return nil, err
	}
	for _, kind := range schema.AllKinds {
		p.metrics.RowsLoaded(kind.String(), len(ds.Table(kind).Rows))
	}

	return p.Process(ds.Users, ds.Orders, ds.Books, logger)
}

// Process joins, cleans and resolves already-loaded tables:
//  1. Left join orders → books → users
//  2. Clean dates, prices and quantities
//  3. Resolve identities over the user-owned contact columns of the lines
//  4. Annotate each cleaned line with its canonical identity
func (p *Pipeline) Process(users, orders, books *schema.Table, logger *zap.Logger) (*Result, error) {
	if logger == nil {
		logger = p.logger
	}

	joined, err := JoinTables(users, orders, books)
	if err != nil {
		return nil, err
	}

	if joined.Stats.DuplicateBookKeys > 0 || joined.Stats.DuplicateUserKeys > 0 {
		logger.Warn("Duplicate join keys; first row kept",
			zap.Int("duplicate_book_keys", joined.Stats.DuplicateBookKeys),
			zap.Int("duplicate_user_keys", joined.Stats.DuplicateUserKeys))
	}
	for _, c := range joined.Conflicts {
		logger.Warn("Column name collision during join",
			zap.String("column", c.Column),
			zap.String("source", c.Source),
			zap.String("renamed_to", c.RenamedTo))
	}

	cleaned, err := p.cleaner.Clean(joined)
	if err != nil {
		return nil, err
	}

	identities := ResolveIdentities(joined.IdentityRows())
	for i := range cleaned.Lines {
		if n, ok := identities.Lookup(cleaned.Lines[i].UserID); ok {
			cleaned.Lines[i].UniqueUserID = n
		}
	}

	return &Result{
		Clean:      cleaned,
		Identities: identities,
		JoinStats:  joined.Stats,
		Conflicts:  joined.Conflicts,
	}, nil
}
