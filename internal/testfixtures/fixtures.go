// Package testfixtures provides deterministic clocks, identifiers and domain
// fixtures shared by tests across the portal.
package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/activity-portal/internal/application"
	"github.com/example/activity-portal/internal/auth"
	"github.com/example/activity-portal/internal/schedule"
)

// referenceTime is a Wednesday at 08:00 in the portal's canonical timezone,
// chosen so weekly projection fixtures straddle the week boundary.
var referenceTime = time.Date(2024, time.March, 13, 8, 0, 0, 0, schedule.Location())

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// TokenSecret is the signing secret shared by fixture issuers and verifiers.
var TokenSecret = []byte("testfixtures-token-secret")

var activityCounter uint64

// NextActivityID returns a deterministic activity identifier.
func NextActivityID() string {
	return fmt.Sprintf("activity-%d", atomic.AddUint64(&activityCounter, 1))
}

// WeeklyActivities returns the standard pair of templates used throughout
// the tests: one later this week, one early next week relative to
// ReferenceTime.
func WeeklyActivities() []application.Activity {
	return []application.Activity{
		{
			ID:        "activity-reforco",
			Title:     "Reforço",
			Weekday:   "Tuesday",
			StartHour: "14:00",
			EndHour:   "16:00",
		},
		{
			ID:        "activity-danca",
			Title:     "Dança",
			Weekday:   "Thursday",
			StartHour: "09:00",
			EndHour:   "10:00",
		},
	}
}

// AdminToken mints a credential with the admin claim set, valid for one day
// from ReferenceTime.
func AdminToken() (string, error) {
	issuer := auth.NewIssuer(TokenSecret, 24*time.Hour, ReferenceTime)
	token, _, err := issuer.Issue("user-admin", "Coordenadora", true)
	return token, err
}

// MemberToken mints a credential without the admin claim, valid for one day
// from ReferenceTime.
func MemberToken() (string, error) {
	issuer := auth.NewIssuer(TokenSecret, 24*time.Hour, ReferenceTime)
	token, _, err := issuer.Issue("user-member", "Voluntário", false)
	return token, err
}

// ExpiredToken mints a well-signed credential that expired before
// ReferenceTime.
func ExpiredToken() (string, error) {
	past := func() time.Time { return referenceTime.Add(-48 * time.Hour) }
	issuer := auth.NewIssuer(TokenSecret, time.Hour, past)
	token, _, err := issuer.Issue("user-admin", "Coordenadora", true)
	return token, err
}

// Verifier returns a credential verifier bound to TokenSecret and the
// provided clock. A nil clock pins verification to ReferenceTime.
func Verifier(now func() time.Time) *auth.Verifier {
	if now == nil {
		now = ReferenceTime
	}
	return auth.NewVerifier(TokenSecret, now)
}
