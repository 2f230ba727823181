// Package leaderboard serves weekly standings from the weekly progression
// snapshot, globally, per gym and among friends.
package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/2beens/gymprogress/internal/telemetry/metrics"
	"github.com/2beens/gymprogress/internal/telemetry/tracing"
)

//go:generate mockgen -source=$GOFILE -destination=service_mocks_test.go -package=leaderboard_test

type pageReader interface {
	Page(ctx context.Context, weekID string, f Filter, limit, offset int) ([]Entry, int, error)
}

type friendsLister interface {
	Friends(ctx context.Context, userID int64) ([]int64, error)
}

type pageCache interface {
	Get(ctx context.Context, key string) ([]byte, string)
	Set(ctx context.Context, weekID, key string, val []byte)
	InvalidateWeek(ctx context.Context, weekID string) error
}

type Service struct {
	repo           pageReader
	friends        friendsLister
	cache          pageCache
	metricsManager *metrics.Manager
}

func NewService(repo pageReader, friends friendsLister, cache pageCache, metricsManager *metrics.Manager) *Service {
	return &Service{
		repo:           repo,
		friends:        friends,
		cache:          cache,
		metricsManager: metricsManager,
	}
}

func (s *Service) Weekly(ctx context.Context, q Query) (_ *Page, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "leaderboardService.weekly")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	q, err = q.Normalize()
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.String("week_id", q.WeekID.String()),
		attribute.String("scope", string(q.Scope)),
	)

	var key string
	if q.cacheable() {
		key = q.cacheKey()
		val, result := s.cache.Get(ctx, key)
		s.metricsManager.CounterLeaderboardCache.WithLabelValues(result).Inc()
		if val != nil {
			page := &Page{}
			if err := json.Unmarshal(val, page); err != nil {
				log.Errorf("leaderboard: unmarshal cached page %s: %s", key, err)
			} else {
				return page, nil
			}
		}
	}

	var filter Filter
	switch q.Scope {
	case ScopeGym:
		filter.GymCode = q.GymCode
	case ScopeFriends:
		filter.UserIDs, err = s.friendSet(ctx, q)
		if err != nil {
			return nil, err
		}
	}

	entries, total, err := s.repo.Page(ctx, q.WeekID.String(), filter, q.Limit, q.Offset)
	if err != nil {
		return nil, fmt.Errorf("read standings: %w", err)
	}
	if entries == nil {
		entries = []Entry{}
	}

	page := &Page{
		WeekID:  q.WeekID.String(),
		Scope:   q.Scope,
		GymCode: filter.GymCode,
		Total:   total,
		Limit:   q.Limit,
		Offset:  q.Offset,
		Entries: entries,
	}

	if key != "" {
		if val, err := json.Marshal(page); err != nil {
			log.Errorf("leaderboard: marshal page %s: %s", key, err)
		} else {
			s.cache.Set(ctx, page.WeekID, key, val)
		}
	}
	return page, nil
}

// friendSet is the viewer plus their friends, or the explicit user list.
func (s *Service) friendSet(ctx context.Context, q Query) ([]int64, error) {
	if len(q.UserIDs) > 0 {
		return q.UserIDs, nil
	}
	friends, err := s.friends.Friends(ctx, q.UserID)
	if err != nil {
		return nil, fmt.Errorf("friends of %d: %w", q.UserID, err)
	}
	return append([]int64{q.UserID}, friends...), nil
}

// InvalidateWeek drops the cached pages of a re-aggregated week.
func (s *Service) InvalidateWeek(ctx context.Context, weekID string) error {
	return s.cache.InvalidateWeek(ctx, weekID)
}
