package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"ssh_admin/internal/adapters/observability"
	"ssh_admin/internal/domain"
)

// RegistrationStore caches the three moderation lists. The lists only ever
// change through LoadAll, which replaces all three together or not at all.
// DefaultLoadTimeout bounds one reload of all three lists.
const DefaultLoadTimeout = 30 * time.Second

type RegistrationStore struct {
	backend     domain.Backend
	sf          singleflight.Group
	loadTimeout time.Duration

	mu       sync.RWMutex
	lists    map[domain.Status][]domain.HotelRegistration
	loading  bool
	lastErr  error
	loadedAt time.Time
}

func NewRegistrationStore(b domain.Backend) *RegistrationStore {
	return &RegistrationStore{
		backend:     b,
		loadTimeout: DefaultLoadTimeout,
		lists: map[domain.Status][]domain.HotelRegistration{
			domain.StatusPending:  {},
			domain.StatusApproved: {},
			domain.StatusRejected: {},
		},
	}
}

// SetLoadTimeout bounds each shared reload; zero or negative restores the default.
func (s *RegistrationStore) SetLoadTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultLoadTimeout
	}
	s.mu.Lock()
	s.loadTimeout = d
	s.mu.Unlock()
}

// LoadAll fetches every list concurrently and commits only if all succeed.
// Concurrent callers share one in-flight reload. The reload is detached from
// ctx and bounded by the load timeout instead, so a caller that gives up
// returns ctx.Err() without failing the reload for the others.
func (s *RegistrationStore) LoadAll(ctx context.Context) error {
	s.mu.RLock()
	bound := s.loadTimeout
	s.mu.RUnlock()

	ch := s.sf.DoChan("load_all", func() (any, error) {
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), bound)
		defer cancel()
		return nil, s.loadAll(lctx)
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *RegistrationStore) loadAll(ctx context.Context) error {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	fetched := make([][]domain.HotelRegistration, len(domain.Statuses))
	g, gctx := errgroup.WithContext(ctx)
	for i, st := range domain.Statuses {
		g.Go(func() error {
			list, err := s.backend.ListHotels(gctx, st)
			if err != nil {
				return &domain.PartialLoadError{Status: st, Err: err}
			}
			fetched[i] = list
			return nil
		})
	}
	err := g.Wait()
	observability.ObserveReconcile(err)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.lastErr = err
		log.Warn().Err(err).Msg("reconciliation failed; keeping previous lists")
		return err
	}
	s.lists = fileByStatus(fetched)
	s.lastErr = nil
	s.loadedAt = time.Now()
	log.Info().
		Int("pending", len(s.lists[domain.StatusPending])).
		Int("approved", len(s.lists[domain.StatusApproved])).
		Int("rejected", len(s.lists[domain.StatusRejected])).
		Msg("registrations reconciled")
	return nil
}

// fileByStatus builds the committed lists. The query a record came back from
// decides its list; a record returned by more than one query is kept once,
// in the list matching its own status field (or the first list it was seen in).
func fileByStatus(fetched [][]domain.HotelRegistration) map[domain.Status][]domain.HotelRegistration {
	owner := map[domain.HotelID]domain.Status{}
	for i, list := range fetched {
		st := domain.Statuses[i]
		for _, h := range list {
			prev, seen := owner[h.ID]
			switch {
			case !seen:
				owner[h.ID] = st
			case h.Status == st && prev != st:
				owner[h.ID] = st
			}
		}
	}

	out := make(map[domain.Status][]domain.HotelRegistration, len(domain.Statuses))
	for i, list := range fetched {
		st := domain.Statuses[i]
		kept := make([]domain.HotelRegistration, 0, len(list))
		for _, h := range list {
			if owner[h.ID] != st {
				log.Warn().Str("hotel_id", h.ID.String()).Str("status", string(st)).Msg("duplicate registration across lists dropped")
				continue
			}
			if h.Status != st {
				log.Warn().Str("hotel_id", h.ID.String()).
					Str("record_status", string(h.Status)).Str("list", string(st)).
					Msg("registration status disagrees with its list")
				h.Status = st
			}
			if !h.Consistent() {
				log.Debug().Str("hotel_id", h.ID.String()).Msg("registration lifecycle metadata incomplete")
			}
			owner[h.ID] = "" // keep the first copy only
			kept = append(kept, h)
		}
		out[st] = kept
	}
	return out
}

// RecordCount is the tab badge for status.
func (s *RegistrationStore) RecordCount(status domain.Status) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.lists[status])
}

// List returns a copy of the list for status.
func (s *RegistrationStore) List(status domain.Status) []domain.HotelRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.lists[status]
	out := make([]domain.HotelRegistration, len(src))
	copy(out, src)
	return out
}

// Find locates a registration in whichever list owns it.
func (s *RegistrationStore) Find(id domain.HotelID) (domain.HotelRegistration, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range domain.Statuses {
		for _, h := range s.lists[st] {
			if h.ID == id {
				return h, true
			}
		}
	}
	return domain.HotelRegistration{}, false
}

func (s *RegistrationStore) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// LastError is the error of the most recent reload, nil after a success.
func (s *RegistrationStore) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

func (s *RegistrationStore) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
