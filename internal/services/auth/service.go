package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"landval/internal/api"
	"landval/internal/domain"
	"landval/internal/logging"
)

const module = "auth"

// Service performs the credential exchanges.
type Service struct {
	api      domain.ValuationAPI
	session  domain.SessionService
	validate *validator.Validate
	log      logging.Logger
}

// New constructs an auth Service. Issued tokens are handed to session.
func New(api domain.ValuationAPI, session domain.SessionService, log logging.Logger) *Service {
	if log == nil {
		log = logging.NewNop()
	}
	return &Service{
		api:      api,
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log,
	}
}

// PasswordLogin exchanges username and password for a token, then logs the
// session in with it.
func (s *Service) PasswordLogin(ctx context.Context, username, password string) (domain.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return s.session.Snapshot(), &Error{Op: "login", Message: "username and password are required", Err: ErrInvalidInput}
	}

	grant, err := s.api.ExchangePassword(ctx, username, password)
	if err != nil {
		s.log.Warn(module, "password exchange failed", map[string]any{"username": username, "error": err.Error()})
		return s.session.Snapshot(), &Error{Op: "login", Message: failureMessage(err, MsgCredentialsInvalid), Err: err}
	}

	sess, err := s.session.Login(ctx, grant.AccessToken)
	if err != nil {
		return sess, &Error{Op: "login", Message: MsgCredentialsInvalid, Err: err}
	}
	return sess, nil
}

// FederatedLogin trades an opaque identity-provider credential for a token.
// On failure the session is left exactly as it was.
func (s *Service) FederatedLogin(ctx context.Context, credential string) (domain.Session, error) {
	credential = strings.TrimSpace(credential)
	if credential == "" {
		return s.session.Snapshot(), &IdentityProviderError{Message: MsgIdentityDenied, Err: ErrInvalidInput}
	}

	grant, err := s.api.ExchangeFederated(ctx, credential)
	if err != nil {
		s.log.Warn(module, "federated exchange failed", map[string]any{"error": err.Error()})
		msg := MsgIdentityDenied
		switch {
		case api.IsConnectivity(err):
			msg = MsgIdentityUnreachable
		case api.DetailOf(err) != "":
			msg = api.DetailOf(err)
		}
		return s.session.Snapshot(), &IdentityProviderError{Message: msg, Err: err}
	}

	sess, err := s.session.Login(ctx, grant.AccessToken)
	if err != nil {
		return sess, &IdentityProviderError{Message: MsgIdentityDenied, Err: err}
	}
	return sess, nil
}

// Register creates an account. It does not log in.
func (s *Service) Register(ctx context.Context, username, email, password string) error {
	reg := domain.Registration{
		Username: strings.TrimSpace(username),
		Email:    strings.TrimSpace(email),
		Password: password,
	}
	if err := s.validate.Struct(reg); err != nil {
		return &Error{Op: "register", Message: describeInvalid(err), Err: fmt.Errorf("%w: %v", ErrInvalidInput, err)}
	}

	if err := s.api.Register(ctx, reg); err != nil {
		s.log.Warn(module, "registration failed", map[string]any{"username": reg.Username, "error": err.Error()})
		return &Error{Op: "register", Message: failureMessage(err, MsgRegistrationFailed), Err: err}
	}
	s.log.Info(module, "account registered", map[string]any{"username": reg.Username})
	return nil
}

func failureMessage(err error, fallback string) string {
	if api.IsConnectivity(err) {
		return api.MsgConnectivity
	}
	if d := api.DetailOf(err); d != "" {
		return d
	}
	return fallback
}

func describeInvalid(err error) string {
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err.Error()
	}
	parts := make([]string, 0, len(ves))
	for _, fe := range ves {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			parts = append(parts, field+" is required")
		case "email":
			parts = append(parts, field+" must be a valid email address")
		default:
			parts = append(parts, fmt.Sprintf("%s is invalid (%s)", field, fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
