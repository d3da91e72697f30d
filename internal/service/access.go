// Package service implements the gateway's business logic: credential
// issuance and delivery, the user directory, and the gated warehouse proxy.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/frostlake/snowgate/internal/domain"
	"github.com/frostlake/snowgate/internal/envelope"
	"github.com/frostlake/snowgate/internal/mailer"
	"github.com/frostlake/snowgate/internal/report"
	"github.com/frostlake/snowgate/internal/repository"
	"github.com/frostlake/snowgate/internal/safety"
	"github.com/frostlake/snowgate/internal/token"
	"github.com/frostlake/snowgate/internal/warehouse"
	apperrors "github.com/frostlake/snowgate/pkg/errors"
)

const (
	tokenMailSubject = "Your Access Token"
	alertMailSubject = "Snowflake Query Alert"

	// defaultAlertMessage leads the alert table when the caller supplies none.
	defaultAlertMessage = "The query returned the following results:"

	// Alert emails carry at most this many rows; larger results are truncated,
	// not rejected.
	maxAlertRows = 200

	// cortexQuery is the fixed demo query for the /cortex endpoint.
	cortexQuery = "Select snowflake.cortex.complete('mistral-7b', 'What is a oxymoron') explain"
)

// AccessService binds the credential lifecycle to the user directory and the
// warehouse proxy. All methods are safe for concurrent use.
type AccessService struct {
	users          repository.UserRepository
	tokens         *token.Manager
	cipher         *envelope.Cipher
	gate           safety.QueryValidator
	warehouse      warehouse.Warehouse
	mail           mailer.Mailer
	allowedDomains []string
	adminEmails    map[string]struct{}
	company        string
	logger         *slog.Logger
}

// Deps collects the collaborators of AccessService.
type Deps struct {
	Users          repository.UserRepository
	Tokens         *token.Manager
	Cipher         *envelope.Cipher
	Gate           safety.QueryValidator
	Warehouse      warehouse.Warehouse
	Mailer         mailer.Mailer
	AllowedDomains []string
	AdminEmails    []string
	Company        string
	Logger         *slog.Logger
}

// NewAccessService wires the gateway service together. Domain and admin lists
// are matched case-insensitively.
func NewAccessService(d Deps) *AccessService {
	admins := make(map[string]struct{}, len(d.AdminEmails))
	for _, email := range d.AdminEmails {
		admins[strings.ToLower(strings.TrimSpace(email))] = struct{}{}
	}

	domains := make([]string, 0, len(d.AllowedDomains))
	for _, dom := range d.AllowedDomains {
		domains = append(domains, strings.ToLower(strings.TrimSpace(dom)))
	}

	return &AccessService{
		users:          d.Users,
		tokens:         d.Tokens,
		cipher:         d.Cipher,
		gate:           d.Gate,
		warehouse:      d.Warehouse,
		mail:           d.Mailer,
		allowedDomains: domains,
		adminEmails:    admins,
		company:        d.Company,
		logger:         d.Logger,
	}
}

// Credential is the outcome of a registration or login: the stored identity
// and, for admins only, the encrypted envelope returned in the response body.
// The plaintext token itself is delivered out of band by email.
type Credential struct {
	User     *domain.User
	Envelope string
}

// Register issues a token for a new or returning identity. The email's domain
// must be on the allow-list. Re-registering an existing email refreshes name
// and expiry instead of erroring.
func (s *AccessService) Register(ctx context.Context, email, name string) (*Credential, error) {
	if !s.domainAllowed(email) {
		return nil, apperrors.InvalidInput("email domain not allowed")
	}

	return s.issueAndDeliver(ctx, &domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
	})
}

// Login reissues a token for an already-registered identity. Unknown emails
// are denied before any token is minted or mail sent; login never
// auto-registers.
func (s *AccessService) Login(ctx context.Context, email string) (*Credential, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized("email not registered")
		}
		return nil, apperrors.Internal(err)
	}

	return s.issueAndDeliver(ctx, user)
}

// issueAndDeliver mints a token for the user, persists the refreshed expiry,
// and emails the plaintext token. Admin identities additionally get the token
// sealed into an envelope for the response body.
func (s *AccessService) issueAndDeliver(ctx context.Context, user *domain.User) (*Credential, error) {
	role := s.roleFor(user.Email)

	signed, timeToLive, err := s.tokens.Issue(user.Email, role)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	var sealed string
	if role == domain.RoleAdmin {
		sealed, err = s.cipher.Encrypt(signed)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
	}

	user.TimeToLive = timeToLive
	stored, err := s.users.Upsert(ctx, user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	body := fmt.Sprintf("Here is your access token:\n\n%s\n\nThis token is valid until %s.", signed, timeToLive)
	if err := s.mail.Send(user.Email, tokenMailSubject, body, "text/plain"); err != nil {
		return nil, apperrors.Internal(fmt.Errorf("deliver token mail: %w", err))
	}

	s.logger.InfoContext(ctx, "token issued",
		slog.String("email", user.Email),
		slog.String("role", role),
		slog.String("valid_until", timeToLive),
	)

	return &Credential{User: stored, Envelope: sealed}, nil
}

// ListUsers returns every identity in the directory, oldest first.
func (s *AccessService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.ListAll(ctx)
}

// DeleteUser removes an identity. Outstanding tokens for the email stay valid
// until their own expiry; deletion does not revoke them.
func (s *AccessService) DeleteUser(ctx context.Context, email string) error {
	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NotFound("user", email)
		}
		return apperrors.Internal(err)
	}

	s.logger.InfoContext(ctx, "user deleted", slog.String("email", email))
	return nil
}

// DecryptToken opens an envelope with a caller-supplied key. The result is a
// signed token the caller must still present for verification; decryption
// alone grants nothing.
func (s *AccessService) DecryptToken(ctx context.Context, sealed, key string) (string, error) {
	plaintext, err := envelope.Decrypt(sealed, key)
	if err != nil {
		if errors.Is(err, envelope.ErrKeyTooShort) {
			return "", apperrors.InvalidInput(err.Error())
		}
		s.logger.WarnContext(ctx, "envelope decryption failed", slog.String("error", err.Error()))
		return "", apperrors.Internal(err)
	}
	return plaintext, nil
}

// RunQuery gates the query text and forwards it to the warehouse, returning
// rows as key-value records. Row count is unbounded here.
func (s *AccessService) RunQuery(ctx context.Context, query string) ([]map[string]any, error) {
	escaped := safety.EscapeQuotes(query)

	if ok, msg := s.gate.Check(escaped); !ok {
		s.logger.WarnContext(ctx, "query rejected by safety gate", slog.String("reason", msg))
		return nil, apperrors.InvalidInput(msg)
	}

	records, err := s.warehouse.Query(ctx, escaped)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return records, nil
}

// Cortex runs the fixed demo query against the warehouse's LLM function.
func (s *AccessService) Cortex(ctx context.Context) ([]map[string]any, error) {
	return s.RunQuery(ctx, cortexQuery)
}

// SendAlert runs a gated query and emails the result to the recipient as an
// HTML table, truncated to the first 200 rows. An empty result is success with
// zero rows sent, not an error.
func (s *AccessService) SendAlert(ctx context.Context, query, recipient, message string) (int, error) {
	records, err := s.RunQuery(ctx, query)
	if err != nil {
		return 0, err
	}

	if len(records) == 0 {
		s.logger.InfoContext(ctx, "alert query returned no rows, skipping mail",
			slog.String("recipient", recipient))
		return 0, nil
	}

	if len(records) > maxAlertRows {
		records = records[:maxAlertRows]
	}

	if message == "" {
		message = defaultAlertMessage
	}
	html, err := report.RenderAlert(message, s.company, records)
	if err != nil {
		return 0, apperrors.Internal(err)
	}

	if err := s.mail.Send(recipient, alertMailSubject, html, "text/html"); err != nil {
		return 0, apperrors.Internal(fmt.Errorf("deliver alert mail: %w", err))
	}

	s.logger.InfoContext(ctx, "alert sent",
		slog.String("recipient", recipient),
		slog.Int("rows", len(records)),
	)
	return len(records), nil
}

func (s *AccessService) domainAllowed(email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}
	dom := strings.ToLower(email[at+1:])
	for _, allowed := range s.allowedDomains {
		if dom == allowed {
			return true
		}
	}
	return false
}

func (s *AccessService) roleFor(email string) string {
	if _, ok := s.adminEmails[strings.ToLower(email)]; ok {
		return domain.RoleAdmin
	}
	return domain.RoleUser
}
