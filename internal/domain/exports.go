package domain

import (
	interfaces "landval/internal/domain/interfaces"
	types "landval/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	SessionStatus    = types.SessionStatus
	User             = types.User
	Session          = types.Session
	Registration     = types.Registration
	TokenGrant       = types.TokenGrant
	ReferenceOptions = types.ReferenceOptions
	Field            = types.Field
	Draft            = types.Draft
	Submission       = types.Submission
	PredictionResult = types.PredictionResult
	HistoryEntry     = types.HistoryEntry
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	ValuationAPI     = interfaces.ValuationAPI
	TokenStore       = interfaces.TokenStore
	TokenSource      = interfaces.TokenSource
	SessionService   = interfaces.SessionService
	HistoryRefresher = interfaces.HistoryRefresher
	DraftSource      = interfaces.DraftSource
	OptionsSink      = interfaces.OptionsSink
)

// Re-exported constants and sentinels.
const (
	StatusUninitialized   = types.StatusUninitialized
	StatusValidating      = types.StatusValidating
	StatusAuthenticated   = types.StatusAuthenticated
	StatusUnauthenticated = types.StatusUnauthenticated

	FieldCity          = types.FieldCity
	FieldNeighborhood  = types.FieldNeighborhood
	FieldPropertyType  = types.FieldPropertyType
	FieldBedroomCount  = types.FieldBedroomCount
	FieldBathroomCount = types.FieldBathroomCount
	FieldSizeSpec      = types.FieldSizeSpec
	FieldListingURL    = types.FieldListingURL
	FieldAsOfDate      = types.FieldAsOfDate

	DateLayout             = types.DateLayout
	HistoryTimestampLayout = types.HistoryTimestampLayout
)

var ErrNotAuthenticated = types.ErrNotAuthenticated

// DefaultDraft returns the draft a fresh form starts with.
var DefaultDraft = types.DefaultDraft
