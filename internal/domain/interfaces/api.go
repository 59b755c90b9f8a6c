package interfaces

import (
	"context"

	domaintypes "landval/internal/domain/types"
)

// ValuationAPI is how we talk to the remote scoring service, all with context.
type ValuationAPI interface {
	FetchOptions(ctx context.Context) (domaintypes.ReferenceOptions, error)
	FetchMe(ctx context.Context, token string) (domaintypes.User, error)

	ExchangePassword(ctx context.Context, username, password string) (domaintypes.TokenGrant, error)
	ExchangeFederated(ctx context.Context, credential string) (domaintypes.TokenGrant, error)
	Register(ctx context.Context, registration domaintypes.Registration) error

	Predict(
		ctx context.Context,
		token string,
		submission domaintypes.Submission,
	) (domaintypes.PredictionResult, error)
	FetchHistory(ctx context.Context, token string) ([]domaintypes.HistoryEntry, error)
}
