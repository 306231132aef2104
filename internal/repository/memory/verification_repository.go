package memory

import (
	"time"

	"github.com/patrickmn/go-cache"
)

type verificationEntry struct {
	Code      string
	ExpiresAt time.Time
}

// VerificationRepository keeps one pending verification code per email.
// Issuing a new code overwrites the previous one, and a code is consumed
// on first successful use.
type VerificationRepository struct {
	cache *cache.Cache
	now   func() time.Time
}

func NewVerificationRepository() *VerificationRepository {
	// Expired entries are evicted lazily; the sweep below is only garbage
	// collection, expiry itself is checked against the stored timestamp.
	c := cache.New(10*time.Minute, 5*time.Minute)
	return &VerificationRepository{
		cache: c,
		now:   time.Now,
	}
}

// Put records a fresh code for the email, replacing any pending one.
func (r *VerificationRepository) Put(email, code string, ttl time.Duration) {
	entry := &verificationEntry{
		Code:      code,
		ExpiresAt: r.now().Add(ttl),
	}
	r.cache.Set(email, entry, ttl)
}

// Consume validates and invalidates the pending code for the email. It
// returns false when no code is pending, the code mismatches, or the code
// has expired. A successful consume removes the entry so the code cannot
// be replayed.
func (r *VerificationRepository) Consume(email, code string) bool {
	x, found := r.cache.Get(email)
	if !found {
		return false
	}
	entry := x.(*verificationEntry)
	if r.now().After(entry.ExpiresAt) {
		r.cache.Delete(email)
		return false
	}
	if entry.Code != code {
		return false
	}
	r.cache.Delete(email)
	return true
}
