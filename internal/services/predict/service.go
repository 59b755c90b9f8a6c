package predict

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"landval/internal/api"
	"landval/internal/domain"
	"landval/internal/logging"
)

const module = "predict"

// State is the orchestrator's position in its submission cycle.
type State string

const (
	StateIdle       State = "idle"
	StateSubmitting State = "submitting"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
)

// MsgPredictionFailed is shown when the service gives no reason of its own.
const MsgPredictionFailed = "Prediction failed"

// ErrBusy is returned when a submission is already in flight.
var ErrBusy = errors.New("a prediction is already being submitted")

// Failure is a submission the service rejected or could not be reached for.
type Failure struct {
	Message string
	Err     error
}

func (f *Failure) Error() string { return fmt.Sprintf("predict: %s", f.Message) }
func (f *Failure) Unwrap() error { return f.Err }

// Service is the request orchestrator.
//
// The draft is read once, when the request is built; fields stay editable
// while a submission is in flight and edits never affect it.
type Service struct {
	api     domain.ValuationAPI
	session domain.TokenSource
	form    domain.DraftSource
	history domain.HistoryRefresher
	log     logging.Logger

	mu      sync.Mutex
	state   State
	lastErr string
	epoch   uint64 // bumped by Reset; stale submissions are discarded

	followUps sync.WaitGroup
}

// New constructs the orchestrator.
func New(
	api domain.ValuationAPI,
	session domain.TokenSource,
	form domain.DraftSource,
	history domain.HistoryRefresher,
	log logging.Logger,
) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:     api,
		session: session,
		form:    form,
		history: history,
		log:     log,
		state:   StateIdle,
	}
}

// Submit sends the current draft for valuation.
//
// Steps:
//  1. Refuse with ErrBusy while submitting, and with ErrNotAuthenticated
//     when there is no session token.
//  2. Enter submitting and drop the previous result and error.
//  3. POST the normalized submission with the bearer token.
//  4. On failure enter failed with the server's detail, the connectivity
//     message, or "Prediction failed". The draft is not touched.
//  5. On success store the result, enter succeeded and refresh the history
//     in the background. A failed refresh does not change the outcome.
func (s *Service) Submit(ctx context.Context) (domain.PredictionResult, error) {
	token := s.session.Token()

	s.mu.Lock()
	if s.state == StateSubmitting {
		s.mu.Unlock()
		return domain.PredictionResult{}, ErrBusy
	}
	if token == "" {
		s.mu.Unlock()
		return domain.PredictionResult{}, domain.ErrNotAuthenticated
	}
	s.state = StateSubmitting
	s.lastErr = ""
	epoch := s.epoch
	s.mu.Unlock()

	s.form.ClearResult()
	submission := s.form.BuildSubmission()

	result, err := s.api.Predict(ctx, token, submission)
	if err != nil {
		msg := failureMessage(err)
		s.log.Warn(module, "submission failed", map[string]any{
			"city":  submission.City,
			"error": err.Error(),
		})
		s.settle(epoch, StateFailed, msg)
		return domain.PredictionResult{}, &Failure{Message: msg, Err: err}
	}

	if !s.succeed(epoch, result) {
		// The session changed underneath us; the result belongs to nobody.
		return domain.PredictionResult{}, domain.ErrNotAuthenticated
	}
	s.log.Info(module, "submission succeeded", map[string]any{
		"city":            submission.City,
		"predicted_price": result.PredictedPrice,
	})

	s.refreshHistory(context.WithoutCancel(ctx), token)
	return result, nil
}

// Reset returns to idle and forgets the last error. An in-flight
// submission still completes but its outcome is discarded.
func (s *Service) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.epoch++
	s.state = StateIdle
	s.lastErr = ""
}

func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastError is the message of the most recent failed submission, or "".
func (s *Service) LastError() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Wait blocks until background history refreshes have finished.
func (s *Service) Wait() {
	s.followUps.Wait()
}

func (s *Service) settle(epoch uint64, state State, msg string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.state = state
	s.lastErr = msg
	return true
}

// succeed stores result and enters succeeded unless a Reset intervened.
// The result is stored under the lock so a Reset cannot slip in between.
func (s *Service) succeed(epoch uint64, result domain.PredictionResult) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		return false
	}
	s.state = StateSucceeded
	s.lastErr = ""
	s.form.SetResult(result)
	return true
}

func (s *Service) refreshHistory(ctx context.Context, token string) {
	if s.history == nil {
		return
	}
	s.followUps.Add(1)
	go func() {
		defer s.followUps.Done()
		if err := s.history.Refresh(ctx, token); err != nil {
			s.log.Warn(module, "history refresh after submission failed", map[string]any{"error": err.Error()})
		}
	}()
}

func failureMessage(err error) string {
	if api.IsConnectivity(err) {
		return api.MsgConnectivity
	}
	if d := api.DetailOf(err); d != "" {
		return d
	}
	return MsgPredictionFailed
}
