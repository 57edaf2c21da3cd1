package report

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aevon-lab/toppick/internal/core/reportdef"
	"github.com/aevon-lab/toppick/internal/core/storage"
	"github.com/aevon-lab/toppick/internal/core/toppick"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrInvalidQuery marks request validation errors that should return HTTP 400.
	ErrInvalidQuery = errors.New("invalid report query")

	// ErrUnknownReport marks requests for reports that are not configured (HTTP 404).
	ErrUnknownReport = errors.New("unknown report")
)

// Source is the data access a report run needs.
type Source interface {
	storage.EventSource
	storage.AttributeSource
	storage.PushdownQuerier
}

// Options tunes report execution.
type Options struct {
	WorkerCount    int  // shards for the in-memory pick; <= 1 runs single-threaded
	VerifyPushdown bool // cross-check eligible reports against the in-database query
}

// Service runs configured reports against a source.
// Every run recomputes the result from scratch; nothing is cached.
type Service struct {
	source   Source
	defs     reportdef.Repository
	opts     Options
	nowFn    func() time.Time
	newRunID func() string
}

// NewService creates a new report service.
func NewService(source Source, defs reportdef.Repository, opts Options) *Service {
	return &Service{
		source: source,
		defs:   defs,
		opts:   opts,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
		newRunID: uuid.NewString,
	}
}

// Definitions lists the configured reports.
func (s *Service) Definitions(ctx context.Context) ([]reportdef.Definition, error) {
	return s.defs.List(ctx)
}

// Run computes report name. A positive limit overrides the definition's
// limit; zero keeps it. Any source failure aborts the run with no rows.
func (s *Service) Run(ctx context.Context, name string, limit int) (*Result, error) {
	if name == "" {
		return nil, invalidQueryf("report name is required")
	}
	if limit < 0 {
		return nil, invalidQueryf("limit must be >= 0, got %d", limit)
	}

	def, err := s.defs.Get(ctx, name)
	if err != nil {
		if errors.Is(err, reportdef.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownReport, name)
		}
		return nil, fmt.Errorf("load report definition: %w", err)
	}
	if limit == 0 {
		limit = def.Limit
	}

	picker, err := toppick.NewPicker(def.Operator, def.KeyOrder)
	if err != nil {
		return nil, fmt.Errorf("report %q: %w", def.Name, err)
	}

	start := s.nowFn()
	q := def.EventQuery()
	verify := s.opts.VerifyPushdown && def.Pushdownable()

	var (
		events []toppick.PurchaseEvent
		pushed []toppick.TopItem
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		events, err = s.source.ListPurchaseEvents(gctx, q)
		if err != nil {
			return fmt.Errorf("list purchase events: %w", err)
		}
		return nil
	})
	if verify {
		g.Go(func() error {
			var err error
			pushed, err = s.source.QueryTopPerGroup(gctx, q)
			if err != nil {
				return fmt.Errorf("query top per group: %w", err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("[Report] Run aborted", "report", def.Name, "error", err)
		return nil, err
	}

	winners := picker.WinnersSharded(events, s.opts.WorkerCount)

	attrs := map[string]toppick.ItemAttributes{}
	if len(winners) > 0 {
		attrs, err = s.source.LookupItemAttributes(ctx, def.Item, toppick.WinnerKeys(winners))
		if err != nil {
			slog.Error("[Report] Run aborted", "report", def.Name, "error", err)
			return nil, fmt.Errorf("lookup item attributes: %w", err)
		}
	}
	items := toppick.Enrich(winners, attrs)

	result := &Result{
		RunID:       s.newRunID(),
		Report:      *def,
		GeneratedAt: start,
		Groups:      len(items),
		Rows:        present(items, limit),
	}

	if verify {
		ok := samePicks(items, pushed)
		result.PushdownVerified = &ok
		if !ok {
			slog.Warn("[Report] In-database result differs from in-memory pick",
				"report", def.Name,
				"memory_groups", len(items),
				"database_groups", len(pushed))
		}
	}

	slog.Info("[Report] Run complete",
		"report", def.Name,
		"run_id", result.RunID,
		"events", len(events),
		"groups", result.Groups,
		"rows", len(result.Rows),
		"duration", s.nowFn().Sub(start))

	return result, nil
}

// present orders rows for display: highest score first, then count, then
// group key. The pick itself does not depend on this order.
func present(items []toppick.TopItem, limit int) []Row {
	rows := make([]Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, rowFromTopItem(item))
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if c := rows[i].Score.Cmp(rows[j].Score); c != 0 {
			return c > 0
		}
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].GroupKey < rows[j].GroupKey
	})
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	return rows
}

// samePicks compares two results group by group on item, count and
// attributes. Row order is ignored since database collations may sort
// group keys differently.
func samePicks(memory, database []toppick.TopItem) bool {
	if len(memory) != len(database) {
		return false
	}
	byGroup := make(map[string]toppick.TopItem, len(database))
	for _, d := range database {
		byGroup[d.GroupKey] = d
	}
	for _, m := range memory {
		d, ok := byGroup[m.GroupKey]
		if !ok || m.ItemKey != d.ItemKey || m.Count != d.Count {
			return false
		}
		if !sameOptional(m.DisplayName, d.DisplayName) || !sameOptional(m.SecondaryAttribute, d.SecondaryAttribute) {
			return false
		}
	}
	return true
}

func sameOptional(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func invalidQueryf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidQuery, fmt.Sprintf(format, args...))
}
