package domain

import "time"

// UserAgentInfo is the parsed shape of an inbound User-Agent header.
type UserAgentInfo struct {
	IsMobile bool
	IsTablet bool
	Browser  string
}

// Visit is the per-request context for one redirect: a single clock read
// plus the raw headers needed for classification.
type Visit struct {
	Now       time.Time
	Referrer  string
	UserAgent UserAgentInfo
}

type RedirectStatus int

const (
	RedirectFound RedirectStatus = iota
	RedirectNotFound
	RedirectExpired
)

// RedirectOutcome is the terminal result of handling one short-link
// request. TargetURL is set only when Status is RedirectFound.
type RedirectOutcome struct {
	Status    RedirectStatus
	TargetURL string
}
