package review

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/agentstation/mapreview/pkg/constants"
	"github.com/agentstation/mapreview/pkg/errors"
	"github.com/agentstation/mapreview/pkg/logging"
)

// Action is a reviewer input.
type Action int

// Reviewer actions.
const (
	ActionAccept Action = iota
	ActionReject
	ActionPrev
	ActionNext
)

func (a Action) String() string {
	switch a {
	case ActionAccept:
		return "accept"
	case ActionReject:
		return "reject"
	case ActionPrev:
		return "prev"
	case ActionNext:
		return "next"
	}
	return "unknown"
}

// State is a copy of the controller state.
type State struct {
	Queue    []Mapping
	Cursor   int
	Complete bool
}

// Current returns the record under the cursor.
func (s State) Current() (Mapping, bool) {
	if s.Cursor < 0 || s.Cursor >= len(s.Queue) {
		return Mapping{}, false
	}
	return s.Queue[s.Cursor], true
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSaveTimeout bounds each detached save.
func WithSaveTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.saveTimeout = d
	}
}

// Controller walks a reviewer through the queue.
//
// Queue, cursor and the load generation are owned by the Run goroutine.
// Detail fetches and saves run on their own goroutines; fetch results are
// posted back to the loop and dropped there if a newer load has started.
type Controller struct {
	backend     Backend
	view        View
	logger      *zerolog.Logger
	saveTimeout time.Duration

	ctx         context.Context
	initialized bool
	queue       []Mapping
	cursor      int
	complete    bool
	generation  uint64

	events  chan func()
	done    chan struct{}
	once    sync.Once
	mu      sync.RWMutex
	stopped bool
	work    sync.WaitGroup
}

// NewController creates a controller over backend, rendering into view.
func NewController(backend Backend, view View, opts ...Option) *Controller {
	c := &Controller{
		backend:     backend,
		view:        view,
		logger:      logging.Default(),
		saveTimeout: constants.SaveTimeout,
		cursor:      -1,
		events:      make(chan func(), 64),
		done:        make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Init fetches the queue and positions the cursor on the first pending
// record. A fetch failure is returned and nothing is rendered. Init must be
// called before Run starts; Run calls it itself otherwise.
func (c *Controller) Init(ctx context.Context) error {
	queue, err := c.backend.Queue(ctx)
	if err != nil {
		return errors.WrapResource("fetch", "queue", "", err)
	}

	c.ctx = ctx
	c.initialized = true
	c.queue = queue
	c.cursor = -1

	c.logger.Info().Int("total", len(queue)).Msg("Review queue loaded")
	c.advance()
	return nil
}

// Run processes events until ctx is done.
func (c *Controller) Run(ctx context.Context) error {
	if !c.initialized {
		if err := c.Init(ctx); err != nil {
			c.stop()
			return err
		}
	}
	defer c.stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case fn := <-c.events:
			fn()
			c.work.Done()
		}
	}
}

// Handle posts a reviewer action to the loop.
func (c *Controller) Handle(action Action) {
	c.post(func() { c.handleInput(action) })
}

// Wait blocks until every posted action, detail load and save has settled.
func (c *Controller) Wait() {
	c.work.Wait()
}

// Snapshot returns a copy of the state, taken inside the loop. It returns
// the zero State once the loop has stopped.
func (c *Controller) Snapshot() State {
	reply := make(chan State, 1)
	c.post(func() {
		reply <- State{
			Queue:    slices.Clone(c.queue),
			Cursor:   c.cursor,
			Complete: c.complete,
		}
	})
	select {
	case s := <-reply:
		return s
	case <-c.done:
		return State{}
	}
}

// stop shuts the loop down and drops every event still queued.
func (c *Controller) stop() {
	c.once.Do(func() {
		close(c.done)
		c.mu.Lock()
		c.stopped = true
		c.mu.Unlock()
		for {
			select {
			case <-c.events:
				c.work.Done()
			default:
				return
			}
		}
	})
}

// post hands fn to the loop. Events posted after the loop stopped are dropped.
func (c *Controller) post(fn func()) {
	c.work.Add(1)
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.stopped {
		c.work.Done()
		return
	}
	select {
	case c.events <- fn:
	case <-c.done:
		c.work.Done()
	}
}

func (c *Controller) valid() bool {
	return !c.complete && c.cursor >= 0 && c.cursor < len(c.queue)
}

func (c *Controller) handleInput(action Action) {
	if !c.valid() {
		return
	}

	switch action {
	case ActionAccept:
		c.decide(StatusAccept)
	case ActionReject:
		c.decide(StatusReject)
	case ActionPrev:
		if c.cursor > 0 {
			c.cursor--
			c.loadMapping()
		}
	case ActionNext:
		if c.cursor < len(c.queue)-1 {
			c.cursor++
			c.loadMapping()
		}
	}
}

func (c *Controller) decide(status Status) {
	c.queue[c.cursor].ReviewStatus = status
	c.save(c.queue[c.cursor])
	c.advance()
}

// advance moves the cursor to the next pending record after it and loads it.
// With nothing pending after the cursor it enters the completion state only
// when the whole queue is decided. Otherwise the cursor stays on the last
// record so skipped records remain reachable with prev.
func (c *Controller) advance() {
	next, ok := NextPending(c.queue, c.cursor)
	if !ok {
		if AllDecided(c.queue) {
			c.cursor = next
			c.finish()
			return
		}
		next = len(c.queue) - 1
	}
	c.cursor = next
	c.loadMapping()
}

func (c *Controller) finish() {
	c.complete = true
	// in-flight loads must not overwrite the completion display
	c.generation++
	c.logger.Info().Int("total", len(c.queue)).Msg("Review queue complete")
	c.view.Complete(len(c.queue))
}

func (c *Controller) loadMapping() {
	c.generation++
	gen := c.generation
	m := c.queue[c.cursor]
	ctx := c.ctx

	c.work.Add(1)
	go func() {
		defer c.work.Done()

		var g errgroup.Group
		for _, section := range Sections {
			id := m.ChromestatusID.String()
			if section == SectionWebFeatures {
				id = m.WebFeaturesID
			}
			g.Go(func() error {
				detail, err := c.backend.Detail(ctx, section, id)
				c.post(func() {
					if gen != c.generation {
						return
					}
					if err != nil {
						c.logger.Warn().Err(err).
							Str("section", string(section)).
							Str("id", id).
							Msg("Error loading detail")
						c.view.SectionError(section)
						return
					}
					c.view.Section(section, detail)
				})
				return nil
			})
		}
		_ = g.Wait()

		c.post(func() {
			if gen != c.generation {
				return
			}
			c.view.Meta(m.Confidence.String(), m.DisplayNotes())
			c.view.Progress(Progress(c.queue, c.cursor))
		})
	}()
}

// save persists m on a detached goroutine. Failures are logged only.
func (c *Controller) save(m Mapping) {
	ctx := context.WithoutCancel(c.ctx)
	c.work.Add(1)
	go func() {
		defer c.work.Done()

		ctx, cancel := context.WithTimeout(ctx, c.saveTimeout)
		defer cancel()

		logger := c.logger.With().
			Str("chromestatus_id", m.ChromestatusID.String()).
			Str("web_features_id", m.WebFeaturesID).
			Str("status", string(m.ReviewStatus)).
			Logger()
		if err := c.backend.Save(ctx, m); err != nil {
			logger.Error().Err(err).Msg("Error saving review")
			return
		}
		logger.Debug().Msg("Review saved")
	}()
}
