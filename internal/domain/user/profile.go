package user

import (
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	maxPlatformLength = 50
	maxSlotLength     = 32
	maxSlotsPerDay    = 24
)

var (
	ErrInvalidPortfolioLink = errors.New("platform and an http(s) url are required")
	ErrInvalidAvailability  = errors.New("a weekday and at least one time slot are required")
	ErrPortfolioNotFound    = errors.New("portfolio link not found")
	ErrAvailabilityNotFound = errors.New("availability slot not found")
)

type PortfolioLink struct {
	ID       uuid.UUID
	Platform string
	URL      string
}

// Availability is the set of time slots a user offers on one weekday.
type Availability struct {
	ID        uuid.UUID
	Day       time.Weekday
	TimeSlots []string
}

func NewPortfolioLink(platform, raw string) (PortfolioLink, error) {
	platform = strings.TrimSpace(platform)
	raw = strings.TrimSpace(raw)
	if platform == "" || len(platform) > maxPlatformLength {
		return PortfolioLink{}, ErrInvalidPortfolioLink
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return PortfolioLink{}, ErrInvalidPortfolioLink
	}
	return PortfolioLink{ID: uuid.New(), Platform: platform, URL: u.String()}, nil
}

// NewAvailability parses a weekday name and cleans the slot labels: blanks
// and duplicates are dropped, order is kept.
func NewAvailability(day string, slots []string) (Availability, error) {
	wd, ok := ParseWeekday(day)
	if !ok {
		return Availability{}, ErrInvalidAvailability
	}
	seen := make(map[string]struct{}, len(slots))
	clean := make([]string, 0, len(slots))
	for _, s := range slots {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if len(s) > maxSlotLength {
			return Availability{}, ErrInvalidAvailability
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		clean = append(clean, s)
	}
	if len(clean) == 0 || len(clean) > maxSlotsPerDay {
		return Availability{}, ErrInvalidAvailability
	}
	return Availability{ID: uuid.New(), Day: wd, TimeSlots: clean}, nil
}

func ParseWeekday(raw string) (time.Weekday, bool) {
	raw = strings.TrimSpace(raw)
	for d := time.Sunday; d <= time.Saturday; d++ {
		if strings.EqualFold(d.String(), raw) {
			return d, true
		}
	}
	return 0, false
}
