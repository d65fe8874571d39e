package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/pwcheck/pwcheck-go/internal/crypto"
	"github.com/pwcheck/pwcheck-go/internal/model"
	"github.com/pwcheck/pwcheck-go/internal/strength"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// BreachChecker reports whether a password is known to be breached.
// Implementations fail open.
type BreachChecker interface {
	IsLeaked(ctx context.Context, password string) bool
}

// PasswordGenerator produces replacement passwords.
type PasswordGenerator interface {
	Generate(length int) (string, error)
}

// Candidate is one password awaiting evaluation. A candidate with Err set
// could not be decoded and is reported without being evaluated.
type Candidate struct {
	Password string
	Err      error
}

// EvaluatorService scores passwords, checks them for breaches and suggests
// replacements for insecure ones.
type EvaluatorService struct {
	breach  BreachChecker
	gen     PasswordGenerator
	workers int
}

// NewEvaluatorService creates a new EvaluatorService. workers bounds how many
// passwords of a batch are evaluated concurrently.
func NewEvaluatorService(breach BreachChecker, gen PasswordGenerator, workers int) *EvaluatorService {
	if workers < 1 {
		workers = defaultWorkers
	}
	return &EvaluatorService{
		breach:  breach,
		gen:     gen,
		workers: workers,
	}
}

// Evaluate scores a single password. The only error is a failure to generate
// a suggestion; the returned result is filled in either way.
func (s *EvaluatorService) Evaluate(ctx context.Context, password string) (model.EvaluationResult, error) {
	return s.evaluate(ctx, password, true)
}

// evaluate scores password. When full is false the breach check and the
// advisory guess estimate are skipped.
func (s *EvaluatorService) evaluate(ctx context.Context, password string, full bool) (model.EvaluationResult, error) {
	score := strength.Score(password)

	res := model.EvaluationResult{
		Password:      password,
		StrengthScore: score,
		Entropy:       strength.Entropy(password),
	}
	if full {
		if guess, ok := strength.EstimateGuesses(password); ok {
			res.Guesses = &model.GuessEstimate{
				Score:     guess.Score,
				CrackTime: guess.CrackTime,
			}
		}
		res.Leaked = s.breach.IsLeaked(ctx, password)
	}
	res.Secure = score >= strength.SecureScore && !res.Leaked

	if !res.Secure {
		suggestion, err := s.gen.Generate(crypto.DefaultLength)
		if err != nil {
			err = fmt.Errorf("generating suggestion: %w", err)
			res.Error = err.Error()
			return res, err
		}
		res.SuggestedPassword = suggestion
	}

	return res, nil
}

// EvaluateBatch evaluates each password independently and returns results in
// input order.
func (s *EvaluatorService) EvaluateBatch(ctx context.Context, passwords []string) []model.EvaluationResult {
	candidates := make([]Candidate, len(passwords))
	for i, pw := range passwords {
		candidates[i] = Candidate{Password: pw}
	}
	return s.EvaluateCandidates(ctx, candidates)
}

// EvaluateCandidates evaluates candidates concurrently, bounded by the worker
// count. A failing item is recorded in its own result and never aborts the
// rest. Once ctx is done, remaining items skip the breach check and guess
// estimate and carry the context error.
func (s *EvaluatorService) EvaluateCandidates(ctx context.Context, candidates []Candidate) []model.EvaluationResult {
	results := make([]model.EvaluationResult, len(candidates))

	var (
		mu   sync.Mutex
		errs *multierror.Error
	)
	record := func(i int, err error) {
		mu.Lock()
		errs = multierror.Append(errs, fmt.Errorf("item %d: %w", i+1, err))
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(s.workers)

	for i, c := range candidates {
		if c.Err != nil {
			results[i] = model.EvaluationResult{Error: c.Err.Error()}
			record(i, c.Err)
			continue
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				res, _ := s.evaluate(ctx, c.Password, false)
				res.Error = err.Error()
				results[i] = res
				record(i, err)
				return nil
			}

			res, err := s.evaluate(ctx, c.Password, true)
			results[i] = res
			if err != nil {
				record(i, err)
			}
			return nil
		})
	}
	_ = g.Wait()

	if errs.ErrorOrNil() != nil {
		slog.Warn("batch evaluation completed with item errors",
			"items", len(candidates),
			"failed", errs.Len(),
			"error", errs,
		)
	}

	return results
}
