// Package classifier wires the ELECTRE TRI engine to the population store,
// the profile cache, metrics and events.
package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MikeSquared-Agency/NutriSort/internal/config"
	"github.com/MikeSquared-Agency/NutriSort/internal/electre"
	"github.com/MikeSquared-Agency/NutriSort/internal/hermes"
	"github.com/MikeSquared-Agency/NutriSort/internal/metrics"
	"github.com/MikeSquared-Agency/NutriSort/internal/nutriscore"
	"github.com/MikeSquared-Agency/NutriSort/internal/report"
	"github.com/MikeSquared-Agency/NutriSort/internal/store"
	"github.com/MikeSquared-Agency/NutriSort/internal/supernutri"
)

// ErrNoStore is returned by Reload when no population store is configured.
var ErrNoStore = errors.New("no population store configured")

const reloadTimeout = 30 * time.Second

type Service struct {
	store   store.Store
	hermes  hermes.Client
	metrics *metrics.Metrics
	engine  *electre.Classifier
	cache   *electre.ProfileCache
	cfg     *config.Config
	logger  *slog.Logger

	population atomic.Pointer[electre.Population]
	reloadMu   sync.Mutex
}

// New builds the engine from cfg. s, h and m may be nil; without a store the
// service classifies against the default profile table until UsePopulation
// is called.
func New(cfg *config.Config, s store.Store, h hermes.Client, m *metrics.Metrics, logger *slog.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	criteria, err := cfg.Criteria()
	if err != nil {
		return nil, err
	}
	engine, err := electre.NewClassifier(criteria)
	if err != nil {
		return nil, err
	}
	builder, err := electre.NewProfileBuilder(criteria, cfg.Electre.Quantiles)
	if err != nil {
		return nil, err
	}

	var observer electre.CacheObserver
	if m != nil {
		observer = m
	}
	builder = builder.WithDefaults(cfg.ProfileTable())
	// The fallback profiles must be usable before any population arrives.
	if _, err := builder.Build(nil); err != nil {
		return nil, fmt.Errorf("default profiles: %w", err)
	}
	cache := electre.NewProfileCache(builder, observer)
	return &Service{
		store:   s,
		hermes:  h,
		metrics: m,
		engine:  engine,
		cache:   cache,
		cfg:     cfg,
		logger:  logger,
	}, nil
}

// Criteria returns the configured criterion set.
func (s *Service) Criteria() electre.Criteria { return s.engine.Criteria() }

// Population returns the active population, or nil when none is loaded.
func (s *Service) Population() *electre.Population { return s.population.Load() }

// Profiles returns the profiles of the active population.
func (s *Service) Profiles() (*electre.Profiles, error) {
	return s.cache.Get(s.population.Load())
}

// Reload fetches dataset from the store and makes it the active population.
// An empty dataset selects the configured one.
func (s *Service) Reload(ctx context.Context, dataset string) (*hermes.PopulationReloadedEvent, error) {
	if s.store == nil {
		return nil, ErrNoStore
	}
	if dataset == "" {
		dataset = s.cfg.Database.Dataset
	}
	products, err := s.store.LoadProducts(ctx, dataset)
	if err != nil {
		return nil, fmt.Errorf("load population %q: %w", dataset, err)
	}
	return s.UsePopulation(dataset, products)
}

// UsePopulation swaps in a new population. Profiles are built before the
// swap, so a population that cannot yield profiles leaves the current one
// active.
func (s *Service) UsePopulation(dataset string, products []electre.Product) (*hermes.PopulationReloadedEvent, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	pop := electre.NewPopulation(products)
	if n := pop.Invalid(); n > 0 {
		s.logger.Warn("population has invalid values, excluded from profiles", "dataset", dataset, "cells", n)
	}
	if _, err := s.cache.Get(pop); err != nil {
		return nil, fmt.Errorf("build profiles: %w", err)
	}

	old := s.population.Swap(pop)
	if old != nil && old.Hash() != pop.Hash() {
		s.cache.Invalidate(old.Hash())
	}
	if s.metrics != nil {
		s.metrics.SetPopulation(pop.Len())
	}

	evt := hermes.PopulationReloadedEvent{
		Meta:         hermes.NewMeta(),
		Dataset:      dataset,
		Products:     pop.Len(),
		Hash:         pop.Hash(),
		PreviousHash: old.Hash(),
	}
	s.logger.Info("population loaded", "dataset", dataset, "products", pop.Len(), "hash", pop.Hash())
	s.publish("population", func(c hermes.Client) error {
		return hermes.PublishPopulationReloaded(c, evt)
	})
	return &evt, nil
}

// ClassifyRequest asks for one product's classes.
type ClassifyRequest struct {
	Product electre.Product `json:"product"`
	Lambdas []float64       `json:"lambdas,omitempty"`
	// Explain adds the concordance breakdown against every profile.
	Explain bool `json:"explain,omitempty"`
}

type ClassifyResponse struct {
	ProductID      string                      `json:"product_id"`
	PopulationHash string                      `json:"population_hash,omitempty"`
	Results        []electre.Result            `json:"results"`
	Concordance    []electre.ConcordanceResult `json:"concordance,omitempty"`
}

// Classify runs both procedures at each requested cut level. Attributes are
// validated strictly; use Batch for lenient processing.
func (s *Service) Classify(ctx context.Context, req ClassifyRequest) (*ClassifyResponse, error) {
	if err := electre.ValidateVector(req.Product.Vector); err != nil {
		return nil, err
	}
	profiles, err := s.Profiles()
	if err != nil {
		return nil, err
	}
	lambdas := req.Lambdas
	if len(lambdas) == 0 {
		lambdas = s.cfg.Electre.Lambdas
	}
	results, err := s.engine.ClassifyAll(req.Product.Vector, profiles, lambdas)
	if err != nil {
		return nil, err
	}

	resp := &ClassifyResponse{
		ProductID:      req.Product.ID,
		PopulationHash: profiles.PopulationHash,
		Results:        results,
	}
	if req.Explain {
		for _, b := range profiles.Boundaries {
			resp.Concordance = append(resp.Concordance, electre.Explain(req.Product.Vector, b, s.engine.Criteria()))
		}
	}

	if s.metrics != nil {
		for _, r := range results {
			s.metrics.ObserveClassification(r)
		}
	}
	evt := hermes.ClassificationEvent{
		Meta:           hermes.NewMeta(),
		ProductID:      req.Product.ID,
		PopulationHash: profiles.PopulationHash,
		Results:        results,
	}
	s.publish("classification", func(c hermes.Client) error {
		return hermes.PublishClassification(c, evt)
	})
	return resp, nil
}

// NutriScore computes the Nutri-Score breakdown of one product.
func (s *Service) NutriScore(p electre.Product) (nutriscore.Result, error) {
	res, err := nutriscore.Compute(nutriscore.InputFromVector(p.Vector))
	if err != nil {
		return nutriscore.Result{}, err
	}
	if s.metrics != nil {
		s.metrics.ObserveNutriScore(res.Grade)
	}
	return res, nil
}

type SuperNutriResponse struct {
	ProductID   string        `json:"product_id"`
	Pessimistic electre.Class `json:"pessimistic"`
	supernutri.Result
}

// SuperNutri composes the pessimistic class at the base cut level with the
// product's eco grade and organic flag.
func (s *Service) SuperNutri(ctx context.Context, p electre.Product) (*SuperNutriResponse, error) {
	if err := electre.ValidateVector(p.Vector); err != nil {
		return nil, err
	}
	if !p.Eco.Valid() {
		return nil, &electre.ValidationError{Field: "eco_grade", Reason: fmt.Sprintf("unknown grade %q", p.Eco)}
	}
	profiles, err := s.Profiles()
	if err != nil {
		return nil, err
	}
	base, err := s.engine.Pessimistic(p.Vector, profiles, supernutri.BaseLambda)
	if err != nil {
		return nil, err
	}
	res, err := supernutri.Compose(supernutri.Input{Base: base, Eco: p.Eco, Organic: p.Organic})
	if err != nil {
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveSuperNutri(res.Grade)
	}
	return &SuperNutriResponse{ProductID: p.ID, Pessimistic: base, Result: res}, nil
}

// Batch classifies products against the active population. Zero options
// fall back to the configured lambdas, workers and locale.
func (s *Service) Batch(ctx context.Context, products []electre.Product, opts report.Options) (*report.Report, error) {
	if len(opts.Lambdas) == 0 {
		opts.Lambdas = s.cfg.Electre.Lambdas
	}
	if opts.Workers == 0 {
		opts.Workers = s.cfg.Report.Workers
	}
	if opts.Locale == "" {
		opts.Locale = s.cfg.Report.Locale
	}
	profiles, err := s.Profiles()
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rep, err := report.Run(ctx, s.engine, profiles, products, opts)
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(start)

	if s.metrics != nil {
		for _, row := range rep.Rows {
			for _, r := range row.Results {
				s.metrics.ObserveClassification(r)
			}
			s.metrics.ObserveNutriScore(row.NutriScore.Grade)
			if row.SuperNutri != nil {
				s.metrics.ObserveSuperNutri(row.SuperNutri.Grade)
			}
		}
	}
	s.logger.Info("batch completed", "run_id", rep.RunID, "products", len(rep.Rows), "duration", elapsed)
	evt := hermes.BatchCompletedEvent{
		Meta:       hermes.NewMeta(),
		RunID:      rep.RunID,
		Products:   len(rep.Rows),
		Lambdas:    rep.Lambdas,
		DurationMs: elapsed.Milliseconds(),
		Agreement:  rep.Summary.Agreement,
	}
	s.publish("batch", func(c hermes.Client) error {
		return hermes.PublishBatchCompleted(c, evt)
	})
	return rep, nil
}

// SetupSubscriptions listens for reload requests.
func (s *Service) SetupSubscriptions() error {
	if s.hermes == nil {
		return nil
	}
	return s.hermes.Subscribe(hermes.SubjectPopulationReload, func(_ string, data []byte) {
		var evt hermes.PopulationReloadEvent
		if len(data) > 0 {
			if err := json.Unmarshal(data, &evt); err != nil {
				s.logger.Warn("invalid reload request", "error", err)
				return
			}
		}
		ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
		defer cancel()
		if _, err := s.Reload(ctx, evt.Dataset); err != nil {
			s.logger.Error("population reload failed", "dataset", evt.Dataset, "error", err)
		}
	})
}

// publish sends an event when hermes is configured. Failures are logged and
// never fail the caller.
func (s *Service) publish(kind string, send func(hermes.Client) error) {
	if s.hermes == nil {
		return
	}
	if err := send(s.hermes); err != nil {
		s.logger.Warn("failed to publish event", "event", kind, "error", err)
	}
}
