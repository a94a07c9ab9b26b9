// Package store holds the review queue on the server side and persists it
// to the review file after every decision, so a session can resume from
// any point.
package store

import (
	"io/fs"
	"slices"
	"sync"

	"github.com/agentstation/utc"
	"github.com/rs/zerolog"

	"github.com/agentstation/mapreview/internal/utils/jsonfile"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
	"github.com/agentstation/mapreview/pkg/review"
)

// Builder produces a fresh queue when no review file exists yet.
type Builder func() ([]review.Mapping, error)

// Store is the persisted review queue.
type Store struct {
	mu        sync.RWMutex
	path      string
	queue     []review.Mapping
	index     map[string]int
	updatedAt utc.Time
	logger    *zerolog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the store logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// Open resumes from the review file at path, or calls build when it does
// not exist. A freshly built queue is not written until the first update.
func Open(path string, build Builder, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: logging.Default()}
	for _, opt := range opts {
		opt(s)
	}

	var queue []review.Mapping
	err := jsonfile.Read(path, &queue)
	switch {
	case err == nil:
		s.logger.Info().Str("path", path).Int("total", len(queue)).Msg("Using existing review file")
	case errors.Is(err, fs.ErrNotExist):
		if build == nil {
			return nil, errors.NewConfigError("store", "review file missing and no queue builder", err)
		}
		queue, err = build()
		if err != nil {
			return nil, errors.WrapResource("create", "queue", "", err)
		}
		s.logger.Info().Int("total", len(queue)).Msg("Built review queue from tentative mappings")
	default:
		return nil, err
	}

	s.queue = queue
	s.updatedAt = utc.Now()
	s.reindex()
	return s, nil
}

func key(chromestatusID, webFeaturesID string) string {
	return chromestatusID + "\x00" + webFeaturesID
}

func (s *Store) reindex() {
	s.index = make(map[string]int, len(s.queue))
	for i, m := range s.queue {
		k := key(m.ChromestatusID.String(), m.WebFeaturesID)
		if _, dup := s.index[k]; !dup {
			s.index[k] = i
		}
	}
}

// Path returns the review file path.
func (s *Store) Path() string {
	return s.path
}

// Queue returns a copy of the full queue in order.
func (s *Store) Queue() []review.Mapping {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.queue)
}

// Counts tallies the queue by status.
func (s *Store) Counts() review.Counts {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return review.Count(s.queue)
}

// UpdatedAt is the time of the last successful update, or of Open.
func (s *Store) UpdatedAt() utc.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Update records the decision carried by m on the matching queue record and
// rewrites the review file. Records are matched on both ids.
func (s *Store) Update(m review.Mapping) (review.Mapping, error) {
	if m.ChromestatusID.IsZero() || m.WebFeaturesID == "" || m.ReviewStatus == "" {
		return review.Mapping{}, errors.NewValidationError("", nil, "Invalid data")
	}
	if !m.ReviewStatus.Decided() {
		return review.Mapping{}, errors.NewValidationError("review_status", m.ReviewStatus, "must be accept or reject")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[key(m.ChromestatusID.String(), m.WebFeaturesID)]
	if !ok {
		return review.Mapping{}, errors.NewNotFoundError("mapping", m.ChromestatusID.String()+"/"+m.WebFeaturesID)
	}

	previous := s.queue[i].ReviewStatus
	s.queue[i].ReviewStatus = m.ReviewStatus
	if err := jsonfile.Write(s.path, s.queue); err != nil {
		s.queue[i].ReviewStatus = previous
		return review.Mapping{}, err
	}
	s.updatedAt = utc.Now()

	s.logger.Debug().
		Str("chromestatus_id", m.ChromestatusID.String()).
		Str("web_features_id", m.WebFeaturesID).
		Str("status", string(m.ReviewStatus)).
		Msg("Review saved")
	return s.queue[i], nil
}
