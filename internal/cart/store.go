package cart

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an untouched cart survives
const DefaultTTL = 24 * time.Hour

// Store persists carts per user for the length of a session
type Store interface {
	// Load returns the user's cart, or an empty one when none is stored
	Load(ctx context.Context, userID uuid.UUID) (*Cart, error)
	// Update applies fn to the stored cart and saves the result atomically
	Update(ctx context.Context, userID uuid.UUID, fn func(*Cart) error) (*Cart, error)
	Delete(ctx context.Context, userID uuid.UUID) error
}

type memoryEntry struct {
	cart      Cart
	expiresAt time.Time
}

// MemoryStore keeps carts in process. It is used for local runs and tests.
type MemoryStore struct {
	mu    sync.Mutex
	ttl   time.Duration
	carts map[uuid.UUID]memoryEntry
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new MemoryStore instance
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:   ttl,
		carts: make(map[uuid.UUID]memoryEntry),
		now:   time.Now,
	}
}

// Load returns the cart and pushes its expiry back by the TTL
func (s *MemoryStore) Load(ctx context.Context, userID uuid.UUID) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.get(userID)
	if entry, ok := s.carts[userID]; ok {
		entry.expiresAt = s.now().Add(s.ttl)
		s.carts[userID] = entry
	}
	return c, nil
}

func (s *MemoryStore) Update(ctx context.Context, userID uuid.UUID, fn func(*Cart) error) (*Cart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.get(userID)
	if err := fn(c); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now()
	s.carts[userID] = memoryEntry{cart: copyCart(c), expiresAt: s.now().Add(s.ttl)}
	return c, nil
}

func (s *MemoryStore) Delete(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, userID)
	return nil
}

// get must be called with mu held
func (s *MemoryStore) get(userID uuid.UUID) *Cart {
	entry, ok := s.carts[userID]
	if !ok {
		return New(userID)
	}
	if !s.now().Before(entry.expiresAt) {
		delete(s.carts, userID)
		return New(userID)
	}
	c := copyCart(&entry.cart)
	return &c
}

func copyCart(c *Cart) Cart {
	out := *c
	out.Items = append([]Line{}, c.Items...)
	return out
}
