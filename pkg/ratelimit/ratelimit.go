package ratelimit

import (
	"sort"
	"sync"
	"time"
)

const (
	minutesPerDay  = 24 * 60
	quarterMinutes = 15
)

// Limits caps outbound calls against both rolling windows a platform
// publishes: a short burst window and a daily one.
type Limits struct {
	PerQuarterHour int
	PerDay         int
}

// DefaultLimits is used for platforms with no registered limits.
var DefaultLimits = Limits{PerQuarterHour: 50, PerDay: 500}

// Status is the point-in-time view of one (platform, endpoint) pair,
// served by the platform limits debug endpoint.
type Status struct {
	Platform             string    `json:"platform"`
	Endpoint             string    `json:"endpoint"`
	UsedQuarterHour      int       `json:"used_15m"`
	LimitQuarterHour     int       `json:"limit_15m"`
	RemainingQuarterHour int       `json:"remaining_15m"`
	UsedDay              int       `json:"used_24h"`
	LimitDay             int       `json:"limit_24h"`
	RemainingDay         int       `json:"remaining_24h"`
	QuarterHourResetsAt  time.Time `json:"reset_15m"`
	DayResetsAt          time.Time `json:"reset_24h"`
}

// counter holds one ring of minute buckets covering the last 24 hours.
// The quarter-hour window is the newest 15 buckets of the same ring.
type counter struct {
	platform string
	endpoint string
	buckets  [minutesPerDay]int
	minute   int64 // unix minute the head bucket belongs to
	dayTotal int
}

// Tracker counts outbound platform calls in memory. Counters are
// process-local and reset on restart; there is no coordination across
// instances, so limits should leave headroom when running more than one.
type Tracker struct {
	mu      sync.Mutex
	limits  map[string]Limits
	entries map[string]*counter
	now     func() time.Time
}

// New creates an empty Tracker using DefaultLimits for every platform.
func New() *Tracker {
	return &Tracker{
		limits:  make(map[string]Limits),
		entries: make(map[string]*counter),
		now:     time.Now,
	}
}

// SetLimits registers platform-specific window limits.
func (t *Tracker) SetLimits(platform string, l Limits) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.limits[platform] = l
}

// Allow consumes one slot for (platform, endpoint) if both windows have
// room, and reports whether the call may proceed. A false return consumes
// nothing.
func (t *Tracker) Allow(platform, endpoint string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	lim := t.limitsFor(platform)
	c := t.counterFor(platform, endpoint)
	c.advance(t.nowMinute())

	if c.dayTotal >= lim.PerDay || c.quarterUsed() >= lim.PerQuarterHour {
		return false
	}

	c.buckets[int(c.minute%minutesPerDay)]++
	c.dayTotal++
	return true
}

// Snapshot returns the status of every tracked pair, ordered by platform
// then endpoint.
func (t *Tracker) Snapshot() []Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	nowMin := t.nowMinute()
	statuses := make([]Status, 0, len(t.entries))
	for _, c := range t.entries {
		c.advance(nowMin)

		lim := t.limitsFor(c.platform)
		quarter := c.quarterUsed()
		statuses = append(statuses, Status{
			Platform:             c.platform,
			Endpoint:             c.endpoint,
			UsedQuarterHour:      quarter,
			LimitQuarterHour:     lim.PerQuarterHour,
			RemainingQuarterHour: max(lim.PerQuarterHour-quarter, 0),
			UsedDay:              c.dayTotal,
			LimitDay:             lim.PerDay,
			RemainingDay:         max(lim.PerDay-c.dayTotal, 0),
			QuarterHourResetsAt:  c.resetAt(quarterMinutes),
			DayResetsAt:          c.resetAt(minutesPerDay),
		})
	}

	sort.Slice(statuses, func(i, j int) bool {
		if statuses[i].Platform != statuses[j].Platform {
			return statuses[i].Platform < statuses[j].Platform
		}
		return statuses[i].Endpoint < statuses[j].Endpoint
	})
	return statuses
}

func (t *Tracker) nowMinute() int64 {
	return t.now().Unix() / 60
}

func (t *Tracker) limitsFor(platform string) Limits {
	if l, ok := t.limits[platform]; ok {
		return l
	}
	return DefaultLimits
}

func (t *Tracker) counterFor(platform, endpoint string) *counter {
	key := platform + ":" + endpoint
	c, ok := t.entries[key]
	if !ok {
		c = &counter{platform: platform, endpoint: endpoint, minute: t.nowMinute()}
		t.entries[key] = c
	}
	return c
}

// advance rolls the ring forward to nowMin, zeroing buckets that left the
// 24-hour window.
func (c *counter) advance(nowMin int64) {
	gap := nowMin - c.minute
	if gap <= 0 {
		return
	}
	if gap >= minutesPerDay {
		c.buckets = [minutesPerDay]int{}
		c.dayTotal = 0
		c.minute = nowMin
		return
	}
	for m := c.minute + 1; m <= nowMin; m++ {
		idx := int(m % minutesPerDay)
		c.dayTotal -= c.buckets[idx]
		c.buckets[idx] = 0
	}
	c.minute = nowMin
}

// quarterUsed sums the newest 15 minute buckets.
func (c *counter) quarterUsed() int {
	total := 0
	for i := int64(0); i < quarterMinutes; i++ {
		total += c.buckets[int((c.minute-i)%minutesPerDay)]
	}
	return total
}

// resetAt returns when the oldest counted minute leaves a window of the
// given length, i.e. when usage next drops. Zero time when unused.
func (c *counter) resetAt(window int64) time.Time {
	for i := window - 1; i >= 0; i-- {
		m := c.minute - i
		if m < 0 {
			continue
		}
		if c.buckets[int(m%minutesPerDay)] > 0 {
			return time.Unix((m+window)*60, 0).UTC()
		}
	}
	return time.Time{}
}
