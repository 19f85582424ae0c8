package listing

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/nhle/taskboard/internal/model"
)

// Reader answers the two queries a listing needs. Both calls must observe
// the same data; a Source provides that guarantee through Snapshot.
type Reader interface {
	CountTasks(ctx context.Context, q Query) (int, error)
	// FindTasks returns matching tasks newest first, skipping offset rows.
	FindTasks(ctx context.Context, q Query, limit, offset int) ([]model.Task, error)
}

// Source is a task collection that can run a Reader against a consistent
// snapshot of its data.
type Source interface {
	Snapshot(ctx context.Context, fn func(Reader) error) error
}

// Request holds the raw listing parameters as received from a caller.
type Request struct {
	Filter       string
	SearchString string
	PageNumber   int
	PageSize     int
}

// Service runs listings against a Source.
type Service struct {
	source   Source
	pageSize int
	maxPages int
	logger   *zap.Logger
}

// NewService creates a listing service. Non-positive pageSize or maxPages
// fall back to DefaultPageSize and DefaultMaxPagesToShow.
func NewService(src Source, pageSize, maxPages int, logger *zap.Logger) *Service {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if maxPages < 1 {
		maxPages = DefaultMaxPagesToShow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: src, pageSize: pageSize, maxPages: maxPages, logger: logger}
}

// PageSize returns the page size used when a request leaves it unset.
func (s *Service) PageSize() int { return s.pageSize }

// List counts the matching tasks, clamps the requested page against that
// count, and fetches the page, all within one snapshot. Storage errors are
// returned to the caller; nothing else fails.
func (s *Service) List(ctx context.Context, req Request) (Result, error) {
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = s.pageSize
	}
	q := NewQuery(req.SearchString, req.Filter)

	var (
		total      int
		pageNumber int
		totalPages int
		tasks      []model.Task
	)
	err := s.source.Snapshot(ctx, func(r Reader) error {
		var err error
		total, err = r.CountTasks(ctx, q)
		if err != nil {
			return fmt.Errorf("counting tasks: %w", err)
		}

		pageNumber, totalPages = Clamp(total, req.PageNumber, pageSize)
		if total == 0 {
			return nil
		}

		tasks, err = r.FindTasks(ctx, q, pageSize, Offset(pageNumber, pageSize))
		if err != nil {
			return fmt.Errorf("fetching page %d: %w", pageNumber, err)
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	if tasks == nil {
		tasks = []model.Task{}
	}

	s.logger.Debug("listed tasks",
		zap.String("filter", string(q.Status)),
		zap.String("search", req.SearchString),
		zap.Int("page", pageNumber),
		zap.Int("total", total),
	)

	return Result{
		Tasks:        tasks,
		PageNumber:   pageNumber,
		PageSize:     pageSize,
		TotalItems:   total,
		TotalPages:   totalPages,
		Filter:       req.Filter,
		SearchString: req.SearchString,
		PageNumbers:  PageNumbers(pageNumber, totalPages, s.maxPages),
	}, nil
}
