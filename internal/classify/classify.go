// Package classify turns raw request headers into the labels analytics
// buckets count: referrer, device class and browser name.
package classify

import (
	"github.com/dgraph-io/ristretto"
	"github.com/mileusna/useragent"

	"shortlink/internal/domain"
)

// Classifier parses User-Agent headers. Parse results are cached keyed by
// the raw header string; UA strings repeat heavily across requests and the
// parse is pure, so caching them is safe.
type Classifier struct {
	cache *ristretto.Cache
}

func New(maxSizePow2 int) (*Classifier, error) {
	maxCost := max(1, int64(1)<<maxSizePow2)
	numCounters := max(1, maxCost/200) // ~200 bytes per UA string estimate

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: numCounters,
		MaxCost:     maxCost,
		BufferItems: 64,
		Metrics:     true,
	})
	if err != nil {
		return nil, err
	}
	return &Classifier{cache: cache}, nil
}

func (c *Classifier) ParseUserAgent(rawUA string) domain.UserAgentInfo {
	if val, found := c.cache.Get(rawUA); found {
		return val.(domain.UserAgentInfo)
	}

	ua := useragent.Parse(rawUA)
	info := domain.UserAgentInfo{
		IsMobile: ua.Mobile,
		IsTablet: ua.Tablet,
		Browser:  ua.Name,
	}

	c.cache.Set(rawUA, info, int64(len(rawUA)))
	return info
}

func (c *Classifier) Close() {
	c.cache.Close()
}

func (c *Classifier) Stats() (hits, misses uint64, ratio float64) {
	metrics := c.cache.Metrics
	hits = metrics.Hits()
	misses = metrics.Misses()
	ratio = metrics.Ratio()
	return
}

// Labels maps one visit onto the three counter labels. An absent referrer
// counts as "Direct", an unparsable browser as "Unknown", and a user agent
// reporting both mobile and tablet counts as mobile.
func Labels(v domain.Visit) (referrer, device, browser string) {
	referrer = v.Referrer
	if referrer == "" {
		referrer = domain.ReferrerDirect
	}

	switch {
	case v.UserAgent.IsMobile:
		device = domain.DeviceMobile
	case v.UserAgent.IsTablet:
		device = domain.DeviceTablet
	default:
		device = domain.DeviceDesktop
	}

	browser = v.UserAgent.Browser
	if browser == "" {
		browser = domain.BrowserUnknown
	}
	return referrer, device, browser
}
