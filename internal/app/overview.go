package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"ssh_admin/internal/domain"
)

const overviewKey = "overview:approved_hotels"

type Activity struct {
	Action string `json:"action"`
	Time   string `json:"time"`
	Type   string `json:"type"`
}

// OverviewStats backs the overview page's tiles.
type OverviewStats struct {
	TotalHotels    int        `json:"totalHotels"`
	ActiveBookings int        `json:"activeBookings"`
	StaffMembers   int        `json:"staffMembers"`
	TodayRevenue   string     `json:"todayRevenue"`
	Degraded       bool       `json:"degraded"`
	RecentActivity []Activity `json:"recentActivity"`
}

type OverviewService struct {
	backend domain.Backend
	cache   domain.Cache
	ttl     time.Duration
}

// NewOverviewService builds the overview; cache may be nil.
func NewOverviewService(b domain.Backend, c domain.Cache, ttl time.Duration) *OverviewService {
	return &OverviewService{backend: b, cache: c, ttl: ttl}
}

// Overview never fails: when the registrations feed is unreachable the hotel
// count is reported as 0 and Degraded is set.
func (s *OverviewService) Overview(ctx context.Context) OverviewStats {
	st := OverviewStats{
		ActiveBookings: 156,
		StaffMembers:   89,
		TodayRevenue:   "₹1.2L",
		RecentActivity: recentActivity,
	}

	var cached int
	if s.cache != nil {
		if ok, err := s.cache.Get(ctx, overviewKey, &cached); err != nil {
			log.Warn().Err(err).Msg("overview cache read failed")
		} else if ok {
			st.TotalHotels = cached
			return st
		}
	}

	approved, err := s.backend.ListRegistrations(ctx, domain.StatusApproved)
	if err != nil {
		log.Warn().Err(err).Msg("approved hotels count unavailable")
		st.Degraded = true
		return st
	}
	st.TotalHotels = len(approved)
	if s.cache != nil {
		if err := s.cache.Set(ctx, overviewKey, st.TotalHotels, int(s.ttl.Seconds())); err != nil {
			log.Warn().Err(err).Msg("overview cache write failed")
		}
	}
	return st
}

// Invalidate drops the cached count after a moderation decision.
func (s *OverviewService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, overviewKey); err != nil {
		log.Warn().Err(err).Msg("overview cache invalidation failed")
	}
}

var recentActivity = []Activity{
	{"New booking at Hotel Sunshine", "5 minutes ago", "booking"},
	{"Staff member added: John Doe", "1 hour ago", "staff"},
	{"Payment received: ₹2,500", "2 hours ago", "payment"},
	{"Room cleaned at Hotel Paradise", "3 hours ago", "maintenance"},
}
