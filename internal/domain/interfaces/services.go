package interfaces

import (
	"context"

	domaintypes "landval/internal/domain/types"
)

// TokenSource exposes the current session token to session-gated components.
// An empty string means there is no valid session.
type TokenSource interface {
	Token() string
}

// SessionService owns the session lifecycle.
type SessionService interface {
	TokenSource
	Initialize(ctx context.Context) domaintypes.Session
	Login(ctx context.Context, token string) (domaintypes.Session, error)
	Logout()
	Snapshot() domaintypes.Session
	Loading() bool
}

// HistoryRefresher reloads the prediction history for a token.
type HistoryRefresher interface {
	Refresh(ctx context.Context, token string) error
}

// DraftSource produces the normalized submission and records its outcome.
type DraftSource interface {
	BuildSubmission() domaintypes.Submission
	SetResult(result domaintypes.PredictionResult)
	ClearResult()
}

// OptionsSink receives reference options whenever they load or change.
type OptionsSink interface {
	ApplyOptions(opts domaintypes.ReferenceOptions)
}
