package depmatch

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/siherrmann/depmatch/cache"
	"github.com/siherrmann/depmatch/core/loader"
	"github.com/siherrmann/depmatch/core/matcher"
	"github.com/siherrmann/depmatch/core/pipeline"
	"github.com/siherrmann/depmatch/database"
	"github.com/siherrmann/depmatch/helper"
	"github.com/siherrmann/depmatch/model"
	"golang.org/x/sync/errgroup"
)

// DepMatch wires annotation, caching, matching and the optional match store.
type DepMatch struct {
	Config      *helper.Configuration
	DB          *helper.Database              // Only set if a component needs PostgreSQL
	Annotations *database.AnnotationsDBHandler // Only set for the postgres cache backend
	Matches     *database.MatchesDBHandler     // Only set if StoreMatches is true
	Pipeline    *pipeline.Pipeline
	Cache       cache.Cache
	Loader      *loader.Loader
	Finder      *matcher.DependencyMatchFinder
	// RunID groups the matches stored by this instance.
	RunID uuid.UUID
	// Logging
	log *slog.Logger
}

// New creates a DepMatch instance with a CoreNLP annotation pipeline.
func New(config *helper.Configuration, matchConfig model.MatchConfig) (*DepMatch, error) {
	if config == nil {
		return nil, helper.NewError("create depmatch", fmt.Errorf("configuration is nil"))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := helper.NewLogger(os.Stderr, config.LogLevel)

	finder, err := matcher.NewDependencyMatchFinder(matchConfig)
	if err != nil {
		return nil, err
	}

	d := &DepMatch{
		Config: config,
		Finder: finder,
		RunID:  uuid.New(),
		log:    logger,
	}

	if config.NeedsDatabase() {
		d.DB = helper.NewDatabase("depmatch", config.Database, logger)
	}

	var backing cache.Cache
	switch config.CacheBackend {
	case helper.CacheBackendPostgres:
		d.Annotations, err = database.NewAnnotationsDBHandler(d.DB, false)
		if err != nil {
			return nil, helper.NewError("create annotations handler", err)
		}
		backing = cache.NewPostgresCache(d.Annotations)
	default:
		backing = cache.NewFileCache()
	}
	d.Cache = backing
	if config.MemoryCacheSize > 0 {
		d.Cache, err = cache.NewMemoryCache(config.MemoryCacheSize, backing)
		if err != nil {
			return nil, err
		}
	}

	if config.StoreMatches {
		d.Matches, err = database.NewMatchesDBHandler(d.DB, false)
		if err != nil {
			return nil, helper.NewError("create matches handler", err)
		}
	}

	opts := pipeline.DefaultCoreNLPOptions(config.CoreNLPURL)
	opts.DependencyKey = config.DependencyKey
	opts.Client.Timeout = config.RequestTimeout
	annotator, err := pipeline.NewCoreNLPAnnotator(opts)
	if err != nil {
		return nil, helper.NewError("create annotator", err)
	}
	p := pipeline.NewPipeline(annotator)

	if config.UseNER {
		tagger, err := pipeline.DefaultEntityTagger()
		if err != nil {
			logger.Warn("Entity tagger not available, continuing without NER", slog.String("error", err.Error()))
		} else {
			p.SetTagger(tagger)
		}
	}
	d.SetPipeline(p)

	logger.Info("Initialized depmatch",
		slog.String("run_id", d.RunID.String()),
		slog.String("cache", config.CacheBackend),
		slog.String("signature_mode", string(matchConfig.SignatureMode)),
		slog.String("dedup_mode", string(matchConfig.DedupMode)),
	)

	return d, nil
}

// Close closes the database connection
func (d *DepMatch) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// SetPipeline sets the annotation pipeline used for examples that are not cached
func (d *DepMatch) SetPipeline(p *pipeline.Pipeline) {
	d.Pipeline = p
	d.Loader = loader.NewLoader(p, d.Cache, d.log)
}

// LoadExample reads and annotates the question record at path.
func (d *DepMatch) LoadExample(ctx context.Context, path string) (*model.Example, error) {
	return d.Loader.Load(ctx, path)
}

// FindMatches returns the sorted match results of an annotated example. If
// match storage is enabled the results are stored under the run ID.
func (d *DepMatch) FindMatches(ctx context.Context, example *model.Example) ([]model.MatchResult, error) {
	if !example.IsAnnotated() {
		return nil, helper.NewError("find matches", fmt.Errorf("example %s is not annotated", example.ID))
	}

	results := d.Finder.FindExampleMatches(example)
	d.log.Debug("Found matches", slog.String("example", example.ID), slog.Int("count", len(results)))

	if d.Matches != nil {
		if err := d.Matches.InsertMatches(ctx, example.ID, d.RunID, results); err != nil {
			return nil, helper.NewError("store matches", err)
		}
	}

	return results, nil
}

// Predict loads the example at path, matches it and picks the most
// frequently matched marker as answer. Load failures are returned as error.
func (d *DepMatch) Predict(ctx context.Context, path string) (*model.Prediction, error) {
	example, err := d.LoadExample(ctx, path)
	if err != nil {
		return nil, err
	}

	results, err := d.FindMatches(ctx, example)
	if err != nil {
		return nil, err
	}

	prediction := &model.Prediction{
		ExampleID:  example.ID,
		Answer:     example.Answer,
		Matches:    results,
		Candidates: matcher.RankCandidates(results, example.EntityMarkers),
	}
	if len(prediction.Candidates) > 0 {
		prediction.Predicted = prediction.Candidates[0].Marker
	}

	return prediction, nil
}

// Evaluate predicts every example with up to Config.Workers examples in
// parallel. A failing example is counted as failed and does not stop the
// others. Only context cancellation aborts the evaluation.
func (d *DepMatch) Evaluate(ctx context.Context, paths []string) (*model.EvaluationReport, error) {
	predictions := make([]*model.Prediction, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.Config.Workers)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			prediction, err := d.Predict(gctx, path)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				d.log.Warn("Example failed", slog.String("path", path), slog.String("error", err.Error()))
				prediction = &model.Prediction{ExampleID: model.ExampleID(path), Err: err.Error()}
			}
			predictions[i] = prediction
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, helper.NewError("evaluate", err)
	}

	report := &model.EvaluationReport{}
	for _, p := range predictions {
		report.Add(p)
	}

	d.log.Info("Evaluated examples",
		slog.Int("total", report.Total),
		slog.Int("answered", report.Answered),
		slog.Int("correct", report.Correct),
		slog.Int("failed", report.Failed),
		slog.Float64("accuracy", report.Accuracy()),
	)

	return report, nil
}
