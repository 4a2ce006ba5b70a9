// Package identity implements the client for the external identity provider.
// Authentication itself lives with the provider; this package only resolves a
// bearer token to a user identity.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/edutrack/edutrack-backend/internal/domain/shared"
	"github.com/edutrack/edutrack-backend/pkg/circuitbreaker"
	"github.com/edutrack/edutrack-backend/pkg/logger"
)

// Identity is a resolved caller: who they are and what they may do. The
// profile fields are carried along so the caller can mirror them locally.
type Identity struct {
	UserID     shared.UserID
	Role       shared.Role
	FullName   string
	RollNumber string
}

// Provider resolves bearer tokens to identities.
type Provider interface {
	// CurrentUser resolves a bearer token. An unknown or expired token is
	// shared.ErrInvalidToken; provider outages surface as storage-class
	// errors so they map to 5xx rather than 401.
	CurrentUser(ctx context.Context, token string) (Identity, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// HTTP PROVIDER
// ══════════════════════════════════════════════════════════════════════════════

// Config contains configuration for the HTTP identity provider client.
type Config struct {
	// BaseURL is the identity provider base URL.
	BaseURL string

	// Timeout bounds each userinfo request. Identity resolution blocks
	// every authenticated request, so keep it short.
	Timeout time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(baseURL string) Config {
	return Config{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	}
}

// HTTPProvider resolves tokens against the provider's userinfo endpoint.
type HTTPProvider struct {
	config     Config
	httpClient *http.Client
	breaker    *circuitbreaker.CircuitBreaker
	logger     *logger.Logger
}

// NewHTTPProvider creates a new HTTPProvider.
func NewHTTPProvider(config Config, log *logger.Logger) *HTTPProvider {
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Component("identity"))

	breaker := circuitbreaker.IdentityBreaker(func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state change",
			logger.String("breaker", name),
			logger.String("from", from.String()),
			logger.String("to", to.String()),
		)
	})

	return &HTTPProvider{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		breaker: breaker,
		logger:  log,
	}
}

// userinfoResponse is the provider's wire format.
type userinfoResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	RollNumber string `json:"roll_number"`
	Role       string `json:"role"`
}

// CurrentUser resolves a bearer token via GET /userinfo.
func (p *HTTPProvider) CurrentUser(ctx context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, shared.ErrMissingToken
	}

	// A rejected token is a provider answer, not a provider failure; it
	// must not count against the circuit.
	var identity Identity
	var authErr error
	err := p.breaker.Execute(ctx, func(ctx context.Context) error {
		resolved, err := p.doUserinfo(ctx, token)
		if errors.Is(err, shared.ErrUnauthenticated) {
			authErr = err
			return nil
		}
		if err != nil {
			return err
		}
		identity = resolved
		return nil
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return Identity{}, shared.WrapError("identity", "Resolve", shared.ErrServiceUnavailable, "identity provider unavailable", err)
		}
		return Identity{}, shared.WrapError("identity", "Resolve", shared.ErrServiceUnavailable, "identity resolution failed", err)
	}
	if authErr != nil {
		return Identity{}, authErr
	}

	return identity, nil
}

// doUserinfo performs one resolution attempt.
func (p *HTTPProvider) doUserinfo(ctx context.Context, token string) (Identity, error) {
	url := strings.TrimRight(p.config.BaseURL, "/") + "/userinfo"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Identity{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return Identity{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return Identity{}, shared.ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return Identity{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var body userinfoResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Identity{}, fmt.Errorf("decode response: %w", err)
	}

	userID, err := shared.NewUserID(body.ID)
	if err != nil {
		return Identity{}, fmt.Errorf("provider returned invalid user ID %q", body.ID)
	}
	role, err := shared.NewRole(body.Role)
	if err != nil {
		role = shared.RoleStudent
	}

	return Identity{
		UserID:     userID,
		Role:       role,
		FullName:   body.FullName,
		RollNumber: body.RollNumber,
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// STATIC PROVIDER
// ══════════════════════════════════════════════════════════════════════════════

// StaticProvider resolves tokens from a fixed table. For local development
// and tests.
type StaticProvider struct {
	mu     sync.RWMutex
	tokens map[string]Identity
}

// NewStaticProvider creates an empty StaticProvider.
func NewStaticProvider() *StaticProvider {
	return &StaticProvider{tokens: make(map[string]Identity)}
}

// Register maps a token to an identity.
func (p *StaticProvider) Register(token string, identity Identity) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokens[token] = identity
}

// CurrentUser resolves a token from the table.
func (p *StaticProvider) CurrentUser(_ context.Context, token string) (Identity, error) {
	if strings.TrimSpace(token) == "" {
		return Identity{}, shared.ErrMissingToken
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	identity, ok := p.tokens[token]
	if !ok {
		return Identity{}, shared.ErrInvalidToken
	}
	return identity, nil
}
