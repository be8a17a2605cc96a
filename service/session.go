package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/anthonydaros/ContractAI/model"
)

// SessionState is the lifecycle position of one analysis session.
type SessionState string

const (
	StateIdle    SessionState = "idle"
	StateLoading SessionState = "loading"
	StateSuccess SessionState = "success"
	StateError   SessionState = "error"
)

// genericFailureMessage is shown when the analysis service did not supply a
// displayable message (network failure, malformed response).
const genericFailureMessage = "Analysis failed. Please try again."

// Session drives one analysis request/response/display cycle:
// Idle -> Loading -> Success | Error. Restarting with a new descriptor moves
// back to Loading and makes any in-flight request stale.
//
// Correctness under overlapping starts rests on the generation counter, not
// on transport cancellation: every outbound request is tagged with the
// generation current at Start, and a completion may only commit state while
// its tag is still current. A stale response can therefore never overwrite
// state belonging to a newer request, even if the transport ignored the
// cancellation signal.
type Session struct {
	ID        string
	CreatedAt time.Time

	analyzer Analyzer

	mu         sync.Mutex
	state      SessionState
	generation uint64
	descriptor model.RequestDescriptor
	result     *model.AnalysisResult
	errMsg     string
	cancel     context.CancelFunc
}

// Snapshot is the read-only observation of a session. Result is non-nil only
// in Success; Error is non-empty only in Error.
type Snapshot struct {
	State  SessionState
	Result *model.AnalysisResult
	Error  string
}

func NewSession(id string, analyzer Analyzer) *Session {
	return &Session{
		ID:        id,
		CreatedAt: time.Now(),
		analyzer:  analyzer,
		state:     StateIdle,
	}
}

// Start validates the descriptor, cancels any in-flight request, and issues
// exactly one analysis request for the new descriptor. A descriptor with
// both or neither source is a caller error returned immediately; the session
// state does not change in that case.
func (s *Session) Start(desc model.RequestDescriptor) error {
	if err := desc.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.generation++
	gen := s.generation

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.descriptor = desc
	s.state = StateLoading
	s.result = nil
	s.errMsg = ""
	s.mu.Unlock()

	go s.run(ctx, gen, desc)
	return nil
}

// run performs the outbound call and commits the outcome, unless a newer
// generation has started in the meantime.
func (s *Session) run(ctx context.Context, gen uint64, desc model.RequestDescriptor) {
	result, err := s.analyzer.Analyze(ctx, desc)

	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		// Superseded while in flight. Whatever happened belongs to an older
		// request and is discarded, success and failure alike.
		slog.Debug("discarding stale analysis response",
			"session_id", s.ID,
			"generation", gen,
			"current", s.generation,
		)
		return
	}

	if err != nil {
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			// Cancellation is not an error; the consumer moved on.
			return
		}
		s.state = StateError
		s.errMsg = displayMessage(err)
		slog.Warn("analysis session failed", "session_id", s.ID, "error", err)
		return
	}

	// The stored result is sanitized; display logic never sees raw data.
	s.state = StateSuccess
	s.result = result.Sanitized()
	slog.Info("analysis session completed",
		"session_id", s.ID,
		"contract_id", s.result.ContractID,
		"overall_risk", s.result.OverallRisk,
		"clauses", len(s.result.Clauses),
	)
}

// Cancel aborts any in-flight request and guarantees no further state
// updates from it. Called when the consumer navigates away.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Bumping the generation is authoritative: even if the transport ignores
	// the cancellation, a late completion can no longer commit.
	s.generation++
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

// Snapshot returns the current state, result, and error message.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:  s.state,
		Result: s.result,
		Error:  s.errMsg,
	}
}

// Descriptor returns the descriptor of the most recent Start.
func (s *Session) Descriptor() model.RequestDescriptor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.descriptor
}

// displayMessage maps an analyzer error to the single human-readable string
// the session exposes. Messages from the service itself pass through;
// everything else collapses to a generic failure.
func displayMessage(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) && svcErr.Message != "" {
		return svcErr.Message
	}
	return genericFailureMessage
}
