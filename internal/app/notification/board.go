package notification

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YelzhanWeb/storefront/internal/interfaces"
)

// Board keeps on-screen notices until they expire
type Board struct {
	mu      sync.Mutex
	notices []interfaces.Notice
	ttl     time.Duration
	now     func() time.Time
}

func NewBoard(ttl time.Duration, now func() time.Time) *Board {
	if now == nil {
		now = time.Now
	}
	return &Board{ttl: ttl, now: now}
}

func (b *Board) Post(kind interfaces.NoticeKind, message string) interfaces.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	n := interfaces.Notice{
		ID:        uuid.NewString(),
		Kind:      kind,
		Message:   message,
		CreatedAt: now,
		ExpiresAt: now.Add(b.ttl),
	}
	b.pruneLocked(now)
	b.notices = append(b.notices, n)
	return n
}

// Live returns notices that have not been dismissed yet, oldest first
func (b *Board) Live() []interfaces.Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.pruneLocked(b.now())
	out := make([]interfaces.Notice, len(b.notices))
	copy(out, b.notices)
	return out
}

func (b *Board) pruneLocked(now time.Time) {
	kept := b.notices[:0]
	for _, n := range b.notices {
		if now.Before(n.ExpiresAt) {
			kept = append(kept, n)
		}
	}
	b.notices = kept
}
