package schemas

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTokenExpired(t *testing.T) {
	now := time.Now()

	issuedAt := func(d time.Duration) *time.Time {
		ts := now.Add(d)
		return &ts
	}

	testCases := []struct {
		name          string
		tokenIssuedAt *time.Time
		expired       bool
	}{
		{"FreshToken", issuedAt(0), false},
		{"JustInsideWindow", issuedAt(-VerificationTokenTTL + time.Minute), false},
		{"JustOutsideWindow", issuedAt(-VerificationTokenTTL - time.Minute), true},
		{"NeverIssued", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			profile := &UserProfile{TokenIssuedAt: tc.tokenIssuedAt}
			assert.Equal(t, tc.expired, profile.TokenExpired(now))
		})
	}
}

func TestDisplayName(t *testing.T) {
	withFirstName := &User{Username: "alice_dev", FirstName: "Alice"}
	assert.Equal(t, "Alice", withFirstName.DisplayName())

	withoutFirstName := &User{Username: "alice_dev"}
	assert.Equal(t, "alice_dev", withoutFirstName.DisplayName())
}
