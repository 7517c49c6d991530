package report

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"calmdrive/internal/trip"
)

// TripSource fetches persisted trips for a date range, newest first.
type TripSource interface {
	FetchTrips(ctx context.Context, from, to time.Time) ([]trip.Record, error)
}

// Snapshot is an immutable view of trips and their derived aggregates for
// one window. Buckets and stats are recomputed on every build and own no
// identity of their own.
type Snapshot struct {
	Window     Window        `json:"window"`
	Trips      []trip.Record `json:"trips"`
	Buckets    []DayBucket   `json:"buckets"`
	Stats      []SummaryStat `json:"stats"`
	Synthetic  bool          `json:"synthetic"`
	Generation uint64        `json:"-"`
}

// Service coordinates the fetch-or-synthesize flow: the store is
// authoritative, and an empty or failed fetch falls back to the
// synthesizer so the dashboard never renders an empty reports view.
type Service struct {
	source TripSource
	synth  *trip.Synthesizer

	mu        sync.Mutex
	nextGen   uint64
	published uint64
	current   *Snapshot
}

// NewService creates a report service. source may be nil, in which case
// every window is synthesized.
func NewService(source TripSource, synth *trip.Synthesizer) *Service {
	return &Service{source: source, synth: synth}
}

// Build assembles a snapshot for the window: trips (fetched or
// synthesized), day buckets, and headline stats with deltas against the
// immediately preceding equal-length window. Callers must ensure
// win.Start <= win.End.
func (s *Service) Build(ctx context.Context, win Window) *Snapshot {
	trips, synthetic := s.tripsFor(ctx, win)

	// Baseline deltas come from persisted data only; synthesizing a
	// baseline would make the trend arrows pure noise.
	var baseline []trip.Record
	if s.source != nil && !synthetic {
		prev := win.Previous()
		fetched, err := s.source.FetchTrips(ctx, prev.Start, prev.End)
		if err != nil {
			log.Warn().Err(err).Msg("Baseline fetch failed, rendering flat deltas")
		} else if len(fetched) > 0 {
			baseline = fetched
		}
	}

	return &Snapshot{
		Window:    win,
		Trips:     trips,
		Buckets:   BucketByDay(trips, win),
		Stats:     SummarizeWithBaseline(trips, baseline),
		Synthetic: synthetic,
	}
}

// Refresh builds a snapshot tagged with a monotonically increasing
// generation and publishes it unless a newer refresh completed in the
// meantime. The returned snapshot always reflects this call's window;
// only the shared published state is protected against stale overwrite.
func (s *Service) Refresh(ctx context.Context, win Window) *Snapshot {
	s.mu.Lock()
	s.nextGen++
	gen := s.nextGen
	s.mu.Unlock()

	snap := s.Build(ctx, win)
	snap.Generation = gen

	s.mu.Lock()
	defer s.mu.Unlock()
	if gen < s.published {
		log.Debug().Uint64("generation", gen).Uint64("published", s.published).
			Msg("Discarding stale report snapshot")
		return snap
	}
	s.published = gen
	s.current = snap
	return snap
}

// Current returns the most recently published snapshot, or nil before the
// first refresh.
func (s *Service) Current() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

func (s *Service) tripsFor(ctx context.Context, win Window) ([]trip.Record, bool) {
	if s.source != nil {
		trips, err := s.source.FetchTrips(ctx, win.Start, win.End)
		if err != nil {
			log.Warn().Err(err).
				Str("from", win.Start.Format(trip.DateLayout)).
				Str("to", win.End.Format(trip.DateLayout)).
				Msg("Trip fetch failed, falling back to synthesized data")
		} else if len(trips) > 0 {
			return trips, false
		}
	}

	return s.synth.Generate(win.Start, win.End), true
}
