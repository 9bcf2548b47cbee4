package identity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/embodywellness/member-api/internal/models"
	"github.com/google/uuid"
)

// MemoryProvider is an in-process identity provider used for demo mode
// and tests. It issues opaque tokens and verifies them by lookup, so it
// doubles as the TokenVerifier in those builds. Not for production use:
// nothing is persisted and passwords are held in memory.
type MemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount // keyed by email
	tokens   map[string]uuid.UUID      // access token -> identity id
}

type memoryAccount struct {
	identity models.Identity
	password string
}

// NewMemoryProvider creates an empty in-memory provider
func NewMemoryProvider() *MemoryProvider {
	return &MemoryProvider{
		accounts: make(map[string]*memoryAccount),
		tokens:   make(map[string]uuid.UUID),
	}
}

var (
	_ Provider      = (*MemoryProvider)(nil)
	_ TokenVerifier = (*MemoryProvider)(nil)
)

// SignUp registers a new account and returns its initial session
func (p *MemoryProvider) SignUp(ctx context.Context, email, password, name string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[email]; exists {
		return nil, models.NewAuthFailure("user already registered")
	}

	account := &memoryAccount{
		identity: models.Identity{ID: uuid.New(), Email: email, Name: name},
		password: password,
	}
	p.accounts[email] = account

	return p.issueSession(account)
}

// SignInWithPassword checks credentials and returns a fresh session
func (p *MemoryProvider) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, exists := p.accounts[email]
	if !exists || account.password != password {
		return nil, models.NewAuthFailure("invalid login credentials")
	}

	return p.issueSession(account)
}

// SignOut revokes the given access token
func (p *MemoryProvider) SignOut(ctx context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.tokens, accessToken)
	return nil
}

// GetUser resolves an access token to its identity
func (p *MemoryProvider) GetUser(ctx context.Context, accessToken string) (*models.Identity, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	id, exists := p.tokens[accessToken]
	if !exists {
		return nil, models.NewAuthFailure("invalid or expired token")
	}

	for _, account := range p.accounts {
		if account.identity.ID == id {
			ident := account.identity
			return &ident, nil
		}
	}
	return nil, models.NewAuthFailure("invalid or expired token")
}

// Verify implements TokenVerifier by token lookup
func (p *MemoryProvider) Verify(ctx context.Context, accessToken string) (*Claims, error) {
	ident, err := p.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &Claims{
		Sub:   ident.ID.String(),
		Email: ident.Email,
		Name:  ident.Name,
	}, nil
}

func (p *MemoryProvider) issueSession(account *memoryAccount) (*Session, error) {
	token, err := generateToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	p.tokens[token] = account.identity.ID

	return &Session{
		Token:    tokenFromResponse(token, "", "bearer", 3600),
		Identity: account.identity,
	}, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
