// Package expiry decides whether a link may still be followed.
package expiry

import (
	"time"

	"shortlink/internal/domain"
)

// Expired reports whether link is expired at now. Rules are checked in
// order and short-circuit:
//
//  1. a latched IsExpired flag stays expired,
//  2. a set ExpiresAt strictly before now expires the link,
//  3. a set MaxClicks expires the link once ClickCount has reached it.
//
// The click that reaches MaxClicks is still served; the next one is not.
// The function is pure: persisting the latch is the caller's decision.
func Expired(link domain.Link, now time.Time) bool {
	if link.IsExpired {
		return true
	}
	if link.ExpiresAt != nil && now.After(*link.ExpiresAt) {
		return true
	}
	if link.MaxClicks != nil && link.ClickCount >= *link.MaxClicks {
		return true
	}
	return false
}
