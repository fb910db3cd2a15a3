package shortener

import (
	"context"
	"errors"

	"github.com/Rican7/retry"
	"github.com/Rican7/retry/strategy"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultMaxAttempts bounds how many short codes Generate tries before giving up.
const DefaultMaxAttempts = 5

var errCodeTaken = errors.New("short code already taken")

// Manager creates and resolves links on top of a Store.
type Manager struct {
	store        Store
	generateCode CodeGenerator
	maxAttempts  uint
	logger       *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithCodeGenerator replaces the default nanoid code generator.
func WithCodeGenerator(gen CodeGenerator) Option {
	return func(m *Manager) {
		m.generateCode = gen
	}
}

// WithMaxAttempts sets how many short codes are tried per Generate call.
func WithMaxAttempts(n uint) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxAttempts = n
		}
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager that owns store.
func NewManager(store Store, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		maxAttempts: DefaultMaxAttempts,
		logger:      zap.NewNop(),
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.generateCode == nil {
		// DefaultCodeLength is always accepted by nanoid.
		gen, _ := NewNanoidGenerator(DefaultCodeLength)
		m.generateCode = gen
	}

	return m
}

// Generate validates rawLink, assigns it a fresh identifier and a short code
// nobody else holds, and stores it. A nil aliases slice means no aliases.
//
// The call is not idempotent: every successful call stores a new record.
func (m *Manager) Generate(ctx context.Context, rawLink string, aliases []string) (*Link, error) {
	original, err := ParseLink(rawLink)
	if err != nil {
		return nil, err
	}

	link := &Link{
		Identifier:  uuid.New(),
		OriginalURL: original,
		Aliases:     EncodeAliases(aliases),
	}

	// Store and encoding failures end the loop through fatal; only a taken
	// code makes retry draw another one.
	var fatal error

	err = retry.Retry(func(attempt uint) error {
		link.ShortCode = Code(m.generateCode())

		value, err := EncodeLink(link)
		if err != nil {
			fatal = err

			return nil
		}

		inserted, err := m.store.InsertIfAbsent(ctx, link.ShortCode.Key(), value)
		if err != nil {
			fatal = wrap(ErrStoreAccess, err)

			return nil
		}

		if !inserted {
			m.logger.Debug("short code collision",
				zap.String("code", string(link.ShortCode)),
				zap.Uint("attempt", attempt),
			)

			return errCodeTaken
		}

		return nil
	}, strategy.Limit(m.maxAttempts))

	if fatal != nil {
		return nil, fatal
	}

	if err != nil {
		m.logger.Warn("giving up on short code generation",
			zap.Uint("attempts", m.maxAttempts),
			zap.String("url", original.String()),
		)

		return nil, wrap(ErrShortCodeExhausted, err)
	}

	m.logger.Debug("link generated",
		zap.String("code", string(link.ShortCode)),
		zap.Stringer("identifier", link.Identifier),
	)

	return link, nil
}

// Resolve looks up the link stored under code.
func (m *Manager) Resolve(ctx context.Context, code Code) (*Link, error) {
	value, found, err := m.store.Get(ctx, code.Key())
	if err != nil {
		return nil, wrap(ErrStoreAccess, err)
	}

	if !found {
		return nil, &NotFoundError{Code: code}
	}

	link, err := DecodeLink(value)
	if err != nil {
		m.logger.Error("stored link is corrupt",
			zap.String("code", string(code)),
			zap.Error(err),
		)

		return nil, err
	}

	return link, nil
}

// Store returns the underlying store.
func (m *Manager) Store() Store {
	return m.store
}

// Shutdown closes the underlying store.
func (m *Manager) Shutdown() error {
	return m.store.Close()
}
