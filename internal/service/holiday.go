// Package service contains the business logic for the holiday tracking API.
// Services validate inputs, enforce business rules, and orchestrate repo and
// remote-client calls. No SQL or HTTP lives here — services depend on
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/mwalcott/holidaytrack/internal/domain"
	"github.com/mwalcott/holidaytrack/internal/metrics"
	"github.com/mwalcott/holidaytrack/internal/remote"
	"github.com/mwalcott/holidaytrack/internal/repo"
)

// CacheWindow is how long a country's cached holidays stay fresh.
// Refresh is a no-op while the most recent cache write is younger than this.
const CacheWindow = 24 * time.Hour

// HolidaySource is the remote API the refresh pipeline pulls from.
// Implemented by remote.CalendarClient; mocked in tests.
type HolidaySource interface {
	Holidays(ctx context.Context, countryCode string, year int) ([]remote.RawHoliday, error)
}

// ChangeNotifier delivers the country code of every holiday cache write.
// Implemented by repo.Listener; mocked in tests.
type ChangeNotifier interface {
	Subscribe() chan string
	Unsubscribe(ch chan string)
}

// HolidayService orchestrates the cache-refresh pipeline: it decides when
// the cache is stale, pulls a two-year window from the remote source,
// normalizes it, and swaps the country's cache rows. It holds no state of
// its own — all state lives in the cache store.
type HolidayService struct {
	cache    repo.HolidayRepo
	source   HolidaySource
	notifier ChangeNotifier
	log      *slog.Logger
	now      func() time.Time

	// group collapses concurrent refreshes of the same country into one
	// flight, so a racing pair can never interleave delete and insert.
	group singleflight.Group
}

// NewHolidayService constructs a HolidayService.
// now is the clock used for staleness decisions and date filtering; pass nil
// for the wall clock. Tests inject a fixed time.
func NewHolidayService(cache repo.HolidayRepo, source HolidaySource, notifier ChangeNotifier, log *slog.Logger, now func() time.Time) *HolidayService {
	if now == nil {
		now = time.Now
	}
	return &HolidayService{
		cache:    cache,
		source:   source,
		notifier: notifier,
		log:      log,
		now:      now,
	}
}

// Refresh brings the cache for countryCode up to date if it is stale.
//
// Staleness is the sole invalidation policy: a refresh happens when the
// country has never been cached, or the last write is older than
// CacheWindow. A fresh cache makes Refresh an immediate no-op.
//
// A stale cache triggers two sequential fetches (current year, next year).
// Either failure aborts the whole refresh before anything is written: the
// previously cached rows stay untouched and the error — wrapping
// domain.ErrRemoteUnavailable — propagates to the caller. On success the
// merged window is normalized, filtered to strictly future dates, sorted,
// de-duplicated by name, and atomically swapped into the cache.
//
// At most one refresh per country is in flight at a time; concurrent
// callers for the same country share the in-flight result. Note the shared
// flight runs on the first caller's context — cancelling it cancels the
// flight for everyone joined to it.
func (s *HolidayService) Refresh(ctx context.Context, countryCode string) error {
	code, err := domain.NormalizeCountryCode(countryCode)
	if err != nil {
		return fmt.Errorf("service.HolidayService.Refresh: %w", err)
	}

	_, err, _ = s.group.Do(code, func() (any, error) {
		return nil, s.refresh(ctx, code)
	})
	return err
}

func (s *HolidayService) refresh(ctx context.Context, code string) error {
	last, ok, err := s.cache.LastUpdated(ctx, code)
	if err != nil {
		return fmt.Errorf("service.HolidayService.Refresh: %w", err)
	}

	now := s.now()
	if ok && now.Sub(last) <= CacheWindow {
		metrics.RefreshTotal.WithLabelValues("fresh").Inc()
		s.log.DebugContext(ctx, "holiday cache fresh", "country", code, "last_updated", last)
		return nil
	}

	// Two sequential calls; both must succeed before any write happens.
	year := now.Year()
	var raw []remote.RawHoliday
	for _, y := range []int{year, year + 1} {
		records, err := s.source.Holidays(ctx, code, y)
		if err != nil {
			metrics.RefreshTotal.WithLabelValues("error").Inc()
			return fmt.Errorf("service.HolidayService.Refresh: year %d: %w", y, err)
		}
		raw = append(raw, records...)
	}

	holidays := buildWindow(raw, code, now)

	if err := s.cache.ReplaceForCountry(ctx, code, holidays, now); err != nil {
		metrics.RefreshTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("service.HolidayService.Refresh: %w", err)
	}

	metrics.RefreshTotal.WithLabelValues("refreshed").Inc()
	s.log.InfoContext(ctx, "holiday cache refreshed", "country", code, "holidays", len(holidays))
	return nil
}

// Upcoming returns the cached upcoming holidays for countryCode, soonest
// first. It reads only the cache and is independent of Refresh: callers see
// whatever is cached, possibly empty, possibly stale. The result is never
// nil on success.
func (s *HolidayService) Upcoming(ctx context.Context, countryCode string) ([]domain.Holiday, error) {
	code, err := domain.NormalizeCountryCode(countryCode)
	if err != nil {
		return nil, fmt.Errorf("service.HolidayService.Upcoming: %w", err)
	}

	holidays, err := s.cache.UpcomingHolidays(ctx, code, domain.DateOnly(s.now()))
	if err != nil {
		return nil, fmt.Errorf("service.HolidayService.Upcoming: %w", err)
	}
	if holidays == nil {
		holidays = []domain.Holiday{}
	}
	return holidays, nil
}

// Watch returns a live sequence of upcoming-holiday snapshots for
// countryCode: the current snapshot immediately, then a fresh one after
// every cache write for that country, until ctx is cancelled. The returned
// channel is closed when the watch ends.
func (s *HolidayService) Watch(ctx context.Context, countryCode string) (<-chan []domain.Holiday, error) {
	code, err := domain.NormalizeCountryCode(countryCode)
	if err != nil {
		return nil, fmt.Errorf("service.HolidayService.Watch: %w", err)
	}

	changes := s.notifier.Subscribe()

	initial, err := s.Upcoming(ctx, code)
	if err != nil {
		s.notifier.Unsubscribe(changes)
		return nil, fmt.Errorf("service.HolidayService.Watch: %w", err)
	}

	out := make(chan []domain.Holiday, 1)
	out <- initial

	go func() {
		defer close(out)
		defer s.notifier.Unsubscribe(changes)

		for {
			select {
			case <-ctx.Done():
				return
			case country, open := <-changes:
				if !open {
					return
				}
				if country != code {
					continue
				}
				snapshot, err := s.Upcoming(ctx, code)
				if err != nil {
					s.log.WarnContext(ctx, "holiday watch re-query failed", "country", code, "error", err)
					continue
				}
				select {
				case out <- snapshot:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return out, nil
}

// buildWindow turns the merged raw records of a two-year fetch into the
// rows that replace the country's cache: normalized, strictly-future only,
// date-ascending, unique by name (first occurrence wins, which after the
// sort is the earliest-dated one).
func buildWindow(raw []remote.RawHoliday, code string, now time.Time) []domain.Holiday {
	today := domain.DateOnly(now)

	holidays := make([]domain.Holiday, 0, len(raw))
	for _, r := range raw {
		h := normalize(r, code)
		// Holidays occurring today are excluded: "today" is not after now.
		if !h.Date.After(today) {
			continue
		}
		holidays = append(holidays, h)
	}

	slices.SortStableFunc(holidays, func(a, b domain.Holiday) int {
		return a.Date.Compare(b.Date)
	})

	seen := make(map[string]struct{}, len(holidays))
	deduped := holidays[:0]
	for _, h := range holidays {
		if _, dup := seen[h.Name]; dup {
			continue
		}
		seen[h.Name] = struct{}{}
		deduped = append(deduped, h)
	}
	return deduped
}

// normalize maps one raw API record into a domain.Holiday.
func normalize(r remote.RawHoliday, code string) domain.Holiday {
	date := time.Date(r.Date.Datetime.Year, time.Month(r.Date.Datetime.Month), r.Date.Datetime.Day,
		0, 0, 0, 0, time.UTC)

	typ := domain.DefaultHolidayType
	if len(r.Type) > 0 {
		typ = r.Type[0]
	}

	return domain.Holiday{
		ID:          domain.HolidayID(r.Name, date, code),
		Name:        r.Name,
		Date:        date,
		Country:     code,
		Description: r.Description,
		Type:        typ,
	}
}
