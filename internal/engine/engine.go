// Package engine wires the recognition pipeline together: it trains
// classifiers from stored samples, keeps the active model hot-swappable for
// the realtime loop, and runs per-session frame processing.
package engine

import (
	"errors"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/ayusman/mudra/internal/classify"
	"github.com/ayusman/mudra/internal/feature"
	"github.com/ayusman/mudra/internal/sequence"
	"github.com/ayusman/mudra/internal/smooth"
	"github.com/ayusman/mudra/internal/store"
)

// Config holds the engine configuration.
type Config struct {
	// Variant selects the static classifier: classify.TypeKNN or
	// classify.TypeLogistic.
	Variant string

	// K is the neighbor count for KNN variants (static and sequence).
	K int

	// LearningRate and Iterations configure the logistic trainer.
	LearningRate float64
	Iterations   int

	// Augment enables geometric feature augmentation. Must match between
	// the data collection and inference phases.
	Augment bool

	// Smoothing parameterizes new sessions.
	Smoothing smooth.Params
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		Variant:   classify.TypeKNN,
		K:         classify.DefaultK,
		Smoothing: smooth.DefaultParams(),
	}
}

// active is the immutable currently-loaded static model. Replaced wholesale
// on train or import; never mutated in place while predicts are running.
type active struct {
	classifier classify.Classifier
	modelID    string
}

// activeSeq is the immutable currently-loaded sequence model.
type activeSeq struct {
	classifier *sequence.Classifier
	modelID    string
}

// Engine owns the active classifiers and the feature normalizer.
type Engine struct {
	cfg   Config
	store *store.Store
	norm  *feature.Normalizer

	static  atomic.Pointer[active]
	dynamic atomic.Pointer[activeSeq]
}

// New creates an engine backed by the given store.
func New(cfg Config, st *store.Store) *Engine {
	if cfg.Variant == "" {
		cfg.Variant = classify.TypeKNN
	}
	return &Engine{
		cfg:   cfg,
		store: st,
		norm:  &feature.Normalizer{Augment: cfg.Augment},
	}
}

// Normalizer returns the engine's feature normalizer.
func (e *Engine) Normalizer() *feature.Normalizer {
	return e.norm
}

// newStatic builds an untrained classifier of the configured variant.
func (e *Engine) newStatic(variant string) (classify.Classifier, error) {
	switch variant {
	case classify.TypeKNN:
		return classify.NewKNN(e.cfg.K), nil
	case classify.TypeLogistic:
		return classify.NewLogistic(e.cfg.LearningRate, e.cfg.Iterations), nil
	}
	return nil, fmt.Errorf("unknown classifier variant %q", variant)
}

// dimOf reports the feature dimension of a fitted classifier.
func dimOf(c classify.Classifier) int {
	type dimmer interface{ Dim() int }
	if d, ok := c.(dimmer); ok {
		return d.Dim()
	}
	return 0
}

// TrainStatic fits a fresh static classifier on every stored static-gesture
// sample, persists the exported model under the given name, and atomically
// swaps it in as the active model.
func (e *Engine) TrainStatic(name string) (*store.Model, error) {
	gestures, err := e.store.Gestures().List(store.GestureKindStatic)
	if err != nil {
		return nil, fmt.Errorf("list gestures: %w", err)
	}

	var samples [][]float64
	var labels []string
	for _, g := range gestures {
		recorded, err := e.store.Samples().GetByGestureID(g.ID)
		if err != nil {
			return nil, fmt.Errorf("load samples for %q: %w", g.Name, err)
		}
		for _, s := range recorded {
			samples = append(samples, s.Features)
			labels = append(labels, g.Name)
		}
	}

	classifier, err := e.newStatic(e.cfg.Variant)
	if err != nil {
		return nil, err
	}
	if err := classifier.Fit(samples, labels); err != nil {
		return nil, err
	}

	model, err := e.saveModel(name, classifier)
	if err != nil {
		return nil, err
	}

	e.static.Store(&active{classifier: classifier, modelID: model.ID})
	log.Printf("trained static model %s (%s, %d samples, %d classes)",
		model.ID, model.Type, len(samples), len(classifier.Classes()))
	return model, nil
}

// TrainDynamic fits a fresh sequence classifier on every stored
// dynamic-gesture sequence, persists the exported model, and swaps it in.
func (e *Engine) TrainDynamic(name string) (*store.Model, error) {
	gestures, err := e.store.Gestures().List(store.GestureKindDynamic)
	if err != nil {
		return nil, fmt.Errorf("list gestures: %w", err)
	}

	var sequences [][][]float64
	var labels []string
	for _, g := range gestures {
		recorded, err := e.store.Sequences().GetByGestureID(g.ID)
		if err != nil {
			return nil, fmt.Errorf("load sequences for %q: %w", g.Name, err)
		}
		for _, s := range recorded {
			sequences = append(sequences, s.Frames)
			labels = append(labels, g.Name)
		}
	}

	classifier := sequence.New(e.cfg.K, 0)
	if err := classifier.Fit(sequences, labels); err != nil {
		return nil, err
	}

	model, err := e.saveModel(name, classifier)
	if err != nil {
		return nil, err
	}

	e.dynamic.Store(&activeSeq{classifier: classifier, modelID: model.ID})
	log.Printf("trained dynamic model %s (%d sequences, %d classes)",
		model.ID, len(sequences), len(classifier.Classes()))
	return model, nil
}

// exporter is satisfied by both static and sequence classifiers.
type exporter interface {
	Export() (*classify.Model, error)
}

// saveModel exports a fitted classifier and persists the record.
func (e *Engine) saveModel(name string, c exporter) (*store.Model, error) {
	record, err := c.Export()
	if err != nil {
		return nil, err
	}
	blob, err := record.Encode()
	if err != nil {
		return nil, err
	}

	dim := 0
	if d, ok := c.(interface{ Dim() int }); ok {
		dim = d.Dim()
	}

	model := &store.Model{
		ID:   uuid.New().String(),
		Name: name,
		Type: record.Type,
		Dim:  dim,
		Blob: blob,
	}
	if err := e.store.Models().Create(model); err != nil {
		return nil, fmt.Errorf("persist model: %w", err)
	}
	return model, nil
}

// LoadModel imports a stored model by ID and swaps it in as the active
// static or sequence model according to its type tag. A static model whose
// feature dimension matches neither the single- nor the two-hand vector
// size of the engine's normalizer is rejected before any predict can see
// it.
func (e *Engine) LoadModel(id string) error {
	stored, err := e.store.Models().GetByID(id)
	if err != nil {
		return err
	}
	return e.loadStored(stored)
}

// LoadLatest restores the most recent model of the given type, if any.
// A missing model is not an error: the engine simply stays untrained.
func (e *Engine) LoadLatest(modelType string) error {
	stored, err := e.store.Models().GetLatestByType(modelType)
	if errors.Is(err, store.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	return e.loadStored(stored)
}

func (e *Engine) loadStored(stored *store.Model) error {
	record, err := classify.DecodeModel(stored.Blob)
	if err != nil {
		// A corrupt blob means "no model available", not a crash.
		return fmt.Errorf("model %s: %w", stored.ID, err)
	}

	if record.Type == classify.TypeDTW {
		classifier := sequence.New(e.cfg.K, 0)
		if err := classifier.Import(record); err != nil {
			return fmt.Errorf("model %s: %w", stored.ID, err)
		}
		e.dynamic.Store(&activeSeq{classifier: classifier, modelID: stored.ID})
		log.Printf("loaded dynamic model %s (%d classes)", stored.ID, len(classifier.Classes()))
		return nil
	}

	classifier, err := e.newStatic(record.Type)
	if err != nil {
		return fmt.Errorf("model %s: %w", stored.ID, err)
	}
	if err := classifier.Import(record); err != nil {
		return fmt.Errorf("model %s: %w", stored.ID, err)
	}

	if dim := dimOf(classifier); dim != e.norm.HandDim() && dim != e.norm.MultiDim() {
		return fmt.Errorf("%w: model %s has dimension %d, normalizer produces %d or %d",
			classify.ErrIncompatibleModel, stored.ID, dim, e.norm.HandDim(), e.norm.MultiDim())
	}

	e.static.Store(&active{classifier: classifier, modelID: stored.ID})
	log.Printf("loaded static model %s (%s, %d classes)", stored.ID, record.Type, len(classifier.Classes()))
	return nil
}

// Predict runs a one-shot, unsmoothed static prediction.
func (e *Engine) Predict(x []float64) (*classify.Prediction, error) {
	current := e.static.Load()
	if current == nil {
		return nil, classify.ErrNotTrained
	}
	return current.classifier.Predict(x)
}

// PredictSequence runs a one-shot dynamic-gesture prediction.
func (e *Engine) PredictSequence(frames [][]float64) (*sequence.Prediction, error) {
	current := e.dynamic.Load()
	if current == nil {
		return nil, classify.ErrNotTrained
	}
	return current.classifier.Predict(frames)
}

// ActiveModelID returns the ID of the active static model, or empty if none
// is loaded.
func (e *Engine) ActiveModelID() string {
	if current := e.static.Load(); current != nil {
		return current.modelID
	}
	return ""
}
