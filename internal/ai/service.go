package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/FairyFox5700/MarkdownTableMaster/internal/models"
)

// FailurePolicy decides what happens when the model call fails.
type FailurePolicy string

const (
	// PolicyFallback answers with the heuristic result.
	PolicyFallback FailurePolicy = "fallback"
	// PolicyError surfaces ErrUnavailable to the caller.
	PolicyError FailurePolicy = "error"
)

// ParseFailurePolicy validates a policy name. Empty means fallback.
func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch FailurePolicy(s) {
	case "", PolicyFallback:
		return PolicyFallback, nil
	case PolicyError:
		return PolicyError, nil
	}
	return "", fmt.Errorf("unknown AI failure policy %q", s)
}

const defaultAnalysisPurpose = "General data table"

// ErrNoTable is returned when no table data is supplied.
var ErrNoTable = errors.New("table data required")

// Options tune a Service.
type Options struct {
	OnFailure FailurePolicy
	CacheTTL  time.Duration
	// Registerer receives the fallback counter; nil disables metrics.
	Registerer prometheus.Registerer
}

// Service produces styling suggestions and table analyses.
type Service struct {
	completer Completer
	cache     Cache
	policy    FailurePolicy
	ttl       time.Duration
	logger    *zap.Logger
	fallbacks *prometheus.CounterVec
}

// NewService creates a Service. completer and cache may be nil; without a
// completer every answer is heuristic.
func NewService(completer Completer, cache Cache, opts Options, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.OnFailure == "" {
		opts.OnFailure = PolicyFallback
	}
	s := &Service{
		completer: completer,
		cache:     cache,
		policy:    opts.OnFailure,
		ttl:       opts.CacheTTL,
		logger:    logger.Named("ai"),
	}
	if opts.Registerer != nil {
		s.fallbacks = promauto.With(opts.Registerer).NewCounterVec(prometheus.CounterOpts{
			Name: "tablesmith_ai_fallbacks_total",
			Help: "AI requests answered by the heuristic fallback",
		}, []string{"operation", "reason"})
	}
	return s
}

// Enabled reports whether a model is configured.
func (s *Service) Enabled() bool {
	return s.completer != nil
}

type suggestionsDoc struct {
	Suggestions []models.StyleSuggestion `json:"suggestions"`
}

type analysisDoc struct {
	DataTypes       []string `json:"dataTypes"`
	Purpose         string   `json:"purpose"`
	Recommendations []string `json:"recommendations"`
}

// SuggestStyles returns styling proposals for data.
func (s *Service) SuggestStyles(ctx context.Context, data *models.TableData, markdown string) ([]models.StyleSuggestion, error) {
	if data == nil {
		return nil, ErrNoTable
	}
	if s.completer == nil {
		s.countFallback("suggest", "disabled")
		return FallbackSuggestions(data), nil
	}

	raw, err := s.ask(ctx, cacheKey("suggest", data, markdown), suggestionsSchema, CompletionRequest{
		System:      suggestionSystemPrompt,
		User:        suggestionPrompt(data, markdown),
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	var doc suggestionsDoc
	if err == nil {
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		if ferr := s.fail("suggest", err); ferr != nil {
			return nil, ferr
		}
		return FallbackSuggestions(data), nil
	}
	if doc.Suggestions == nil {
		doc.Suggestions = []models.StyleSuggestion{}
	}
	return doc.Suggestions, nil
}

// AnalyzeTable describes the data types and purpose of data.
func (s *Service) AnalyzeTable(ctx context.Context, data *models.TableData) (models.TableAnalysis, error) {
	if data == nil {
		return models.TableAnalysis{}, ErrNoTable
	}
	if s.completer == nil {
		s.countFallback("analyze", "disabled")
		return FallbackAnalysis(data), nil
	}

	raw, err := s.ask(ctx, cacheKey("analyze", data, ""), analysisSchema, CompletionRequest{
		System:      analysisSystemPrompt,
		User:        analysisPrompt(data),
		Temperature: 0.3,
		MaxTokens:   800,
	})
	var doc analysisDoc
	if err == nil {
		err = json.Unmarshal(raw, &doc)
	}
	if err != nil {
		if ferr := s.fail("analyze", err); ferr != nil {
			return models.TableAnalysis{}, ferr
		}
		return FallbackAnalysis(data), nil
	}

	out := models.TableAnalysis{
		DataTypes:       doc.DataTypes,
		Purpose:         doc.Purpose,
		Recommendations: doc.Recommendations,
	}
	if out.DataTypes == nil {
		out.DataTypes = []string{}
	}
	if out.Purpose == "" {
		out.Purpose = defaultAnalysisPurpose
	}
	if out.Recommendations == nil {
		out.Recommendations = []string{}
	}
	return out, nil
}

// ask returns a schema-valid answer, from the cache when possible.
func (s *Service) ask(ctx context.Context, key string, schema schemaValidator, req CompletionRequest) ([]byte, error) {
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			s.logger.Warn("suggestion cache read failed", zap.Error(err))
		} else if ok {
			return cached, nil
		}
	}

	answer, err := s.completer.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := schema.validate(answer); err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, []byte(answer), s.ttl); err != nil {
			s.logger.Warn("suggestion cache write failed", zap.Error(err))
		}
	}
	return []byte(answer), nil
}

// fail applies the failure policy. It returns nil when the caller should fall back.
func (s *Service) fail(op string, err error) error {
	if s.policy == PolicyError {
		s.logger.Error("model call failed", zap.String("operation", op), zap.Error(err))
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	s.logger.Warn("model call failed, using fallback", zap.String("operation", op), zap.Error(err))
	reason := "error"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "timeout"
	}
	s.countFallback(op, reason)
	return nil
}

func (s *Service) countFallback(op, reason string) {
	if s.fallbacks != nil {
		s.fallbacks.WithLabelValues(op, reason).Inc()
	}
}
