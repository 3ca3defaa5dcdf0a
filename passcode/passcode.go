// Package passcode issues and verifies the one-time email passcodes used for
// room admission. Entries are keyed by lowercase email address and are strictly
// single-use: a successful verification consumes the entry, and an expired
// entry is purged the moment the expiry is detected.
package passcode

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"time"

	"github.com/meetlite/meetlite/types"
)

const codeSpace = 900000 // codes are 100000..999999

// Entry is one pending passcode. It is valid until ExpiresAt.
type Entry struct {
	Code      string
	RoomID    string
	ExpiresAt time.Time
}

// Store holds pending passcodes. It is only ever touched from the coordinator
// goroutine, so it needs no locking.
type Store struct {
	ttl     time.Duration
	entries map[string]Entry
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Entry),
		now:     time.Now,
	}
}

// Issue generates a uniformly random 6-digit code for the given email and
// room and stores it with the configured expiry. A second Issue for the same
// email replaces the pending entry.
func (s *Store) Issue(email, roomID string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	s.entries[email] = Entry{
		Code:      code,
		RoomID:    roomID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	return code, nil
}

// Verify checks a submitted code. It returns nil and consumes the entry only
// on an exact match before expiry for the expected room. An expired entry is
// purged on detection; a wrong code or wrong room leaves the entry untouched.
func (s *Store) Verify(email, roomID, code string) error {
	entry, ok := s.entries[email]
	if !ok || entry.RoomID != roomID {
		return types.ErrPasscodeNotFound
	}
	if s.now().After(entry.ExpiresAt) {
		delete(s.entries, email)
		return types.ErrPasscodeExpired
	}
	if entry.Code != code {
		return types.ErrPasscodeInvalid
	}
	delete(s.entries, email)
	return nil
}

// Sweep drops all expired entries and reports how many were removed.
func (s *Store) Sweep() int {
	n := 0
	now := s.now()
	for email, entry := range s.entries {
		if now.After(entry.ExpiresAt) {
			delete(s.entries, email)
			n++
		}
	}
	return n
}

// Pending reports the number of stored entries.
func (s *Store) Pending() int {
	return len(s.entries)
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpace))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
