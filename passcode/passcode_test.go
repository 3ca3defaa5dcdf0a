package passcode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/meetlite/meetlite/types"
)

func TestIssueAndVerifySingleUse(t *testing.T) {
	s := NewStore(10 * time.Minute)
	code, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)
	assert.Len(t, code, 6)

	assert.NoError(t, s.Verify("alice@example.com", "R1", code))
	// a repeat with the same code fails: the entry was consumed
	assert.Equal(t, types.ErrPasscodeNotFound, s.Verify("alice@example.com", "R1", code))
}

func TestVerifyWrongCodeLeavesEntry(t *testing.T) {
	s := NewStore(10 * time.Minute)
	code, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)

	assert.Equal(t, types.ErrPasscodeInvalid, s.Verify("alice@example.com", "R1", "000000"))
	// the entry survives a wrong guess
	assert.NoError(t, s.Verify("alice@example.com", "R1", code))
}

func TestVerifyWrongRoom(t *testing.T) {
	s := NewStore(10 * time.Minute)
	code, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)

	assert.Equal(t, types.ErrPasscodeNotFound, s.Verify("alice@example.com", "R2", code))
	assert.Equal(t, 1, s.Pending())
}

func TestVerifyExpired(t *testing.T) {
	s := NewStore(10 * time.Minute)
	code, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	assert.Equal(t, types.ErrPasscodeExpired, s.Verify("alice@example.com", "R1", code))
	// expiry detection purges the entry
	assert.Equal(t, 0, s.Pending())
	assert.Equal(t, types.ErrPasscodeNotFound, s.Verify("alice@example.com", "R1", code))
}

func TestReissueReplaces(t *testing.T) {
	s := NewStore(10 * time.Minute)
	first, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)
	second, err := s.Issue("alice@example.com", "R1")
	assert.NoError(t, err)
	assert.Equal(t, 1, s.Pending())

	if first != second {
		assert.Equal(t, types.ErrPasscodeInvalid, s.Verify("alice@example.com", "R1", first))
	}
	assert.NoError(t, s.Verify("alice@example.com", "R1", second))
}

func TestSweep(t *testing.T) {
	s := NewStore(10 * time.Minute)
	_, err := s.Issue("old@example.com", "R1")
	assert.NoError(t, err)

	s.now = func() time.Time { return time.Now().Add(11 * time.Minute) }
	_, err = s.Issue("fresh@example.com", "R1")
	assert.NoError(t, err)

	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Pending())
}

func TestGeneratedCodesAreSixDigits(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := generateCode()
		assert.NoError(t, err)
		assert.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
	}
}
