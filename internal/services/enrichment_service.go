package services

import (
	"context"
	"fmt"
	"steamdash/internal/models"
	"steamdash/internal/providers"
	"steamdash/internal/steam"
	"steamdash/internal/structures"
	"sync"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
)

type EnrichRequest struct {
	Profile *models.Profile
	Token   uint64
	SteamID string
	APIKey  string
	Guard   CycleGuard
}

type EnrichmentServiceInterface interface {
	// Enrich starts a background run and returns a channel closed when it
	// exits. It returns nil when the run was refused.
	Enrich(ctx context.Context, req EnrichRequest) <-chan struct{}
}

type enrichRun struct {
	token uint64
	done  chan struct{}
}

// EnrichmentService loads per-game achievements in batches. At most one run
// executes at a time; a run for a newer cycle waits for the previous one to
// notice it has been superseded.
type EnrichmentService struct {
	api       steam.APISourceInterface
	renderer  Renderer
	notifier  Notifier
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
	batchSize int
	delay     time.Duration
	bulkhead  bulkhead.Bulkhead[*models.Achievements]

	mu      sync.Mutex
	current *enrichRun
}

func NewEnrichmentService(conf *structures.Config, api steam.APISourceInterface, renderer Renderer, notifier Notifier, logger providers.Logger, metrics providers.MetricsProviderInterface) EnrichmentServiceInterface {
	batchSize := conf.Enrichment.BatchSize
	if batchSize <= 0 {
		batchSize = 10
	}
	queueTimeout := conf.Steam.AuxiliaryTimeout
	if queueTimeout <= 0 {
		queueTimeout = 10 * time.Second
	}
	return &EnrichmentService{
		api:       api,
		renderer:  renderer,
		notifier:  notifier,
		logger:    logger,
		metrics:   metrics,
		batchSize: batchSize,
		delay:     conf.Enrichment.BatchDelay,
		bulkhead: bulkhead.New[*models.Achievements](bulkhead.Config{
			MaxConcurrent: batchSize,
			MaxQueue:      batchSize,
			QueueTimeout:  queueTimeout,
		}),
	}
}

func (s *EnrichmentService) Enrich(ctx context.Context, req EnrichRequest) <-chan struct{} {
	if !req.Guard.IsCurrent(req.Token) {
		return nil
	}

	played := make([]*models.Game, 0, len(req.Profile.Games))
	for _, g := range req.Profile.Games {
		if g.Played() {
			played = append(played, g)
		}
	}

	if len(played) == 0 {
		req.Guard.ApplyIfCurrent(req.Token, func() {
			req.Profile.SetAchievements(&models.AchievementSummary{})
			s.renderer.RenderProfile(req.Profile, true)
		})
		done := make(chan struct{})
		close(done)
		return done
	}

	s.mu.Lock()
	prev := s.current
	if prev != nil && prev.token == req.Token {
		s.mu.Unlock()
		s.logger.Debugf(providers.TypeEnrich, "Enrichment for cycle %d already running", req.Token)
		return nil
	}
	run := &enrichRun{token: req.Token, done: make(chan struct{})}
	s.current = run
	s.mu.Unlock()

	go func() {
		defer s.finish(run)
		if prev != nil {
			<-prev.done
		}
		s.run(ctx, req, played)
	}()
	return run.done
}

func (s *EnrichmentService) finish(run *enrichRun) {
	s.mu.Lock()
	if s.current == run {
		s.current = nil
	}
	s.mu.Unlock()
	close(run.done)
}

func (s *EnrichmentService) run(ctx context.Context, req EnrichRequest, games []*models.Game) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Errorf(providers.TypeEnrich, "Enrichment for cycle %d panicked: %v", req.Token, r)
			s.notifier.Notify("Failed to load achievements", models.SeverityError)
		}
	}()

	start := time.Now()
	results := make([]*models.Achievements, 0, len(games))
	var summary *models.AchievementSummary

	for from := 0; from < len(games); from += s.batchSize {
		if !req.Guard.IsCurrent(req.Token) {
			s.logger.Debugf(providers.TypeEnrich, "Cycle %d superseded before batch at %d", req.Token, from)
			return
		}
		if err := ctx.Err(); err != nil {
			s.logger.Warnf(providers.TypeEnrich, "Enrichment for cycle %d stopped: %s", req.Token, err)
			s.notifier.Notify("Achievement loading was interrupted", models.SeverityError)
			return
		}

		to := min(from+s.batchSize, len(games))
		batch := games[from:to]
		fetched := s.fetchBatch(ctx, req, batch)

		applied := req.Guard.ApplyIfCurrent(req.Token, func() {
			for i, g := range batch {
				g.SetAchievements(fetched[i])
			}
			results = append(results, fetched...)
			summary = models.SummarizeAchievements(results)
			req.Profile.SetAchievements(summary)
			s.renderer.RenderProfile(req.Profile, true)
			s.renderer.RenderGamesList()
		})
		if !applied {
			s.logger.Debugf(providers.TypeEnrich, "Cycle %d superseded after batch at %d", req.Token, from)
			return
		}
		s.metrics.AddEnrichedGames(len(batch))

		if to < len(games) && s.delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.delay):
			}
		}
	}

	req.Guard.ApplyIfCurrent(req.Token, func() {
		s.notifier.Notify(fmt.Sprintf("Achievements loaded: %d unlocked", summary.Unlocked), models.SeveritySuccess)
	})
	s.logger.Infof(providers.TypeEnrich, "Enriched %d games for cycle %d in %s", len(games), req.Token, time.Since(start))
}

// fetchBatch never fails; games whose lookup failed get a nil result.
func (s *EnrichmentService) fetchBatch(ctx context.Context, req EnrichRequest, batch []*models.Game) []*models.Achievements {
	out := make([]*models.Achievements, len(batch))
	var wg sync.WaitGroup
	for i, g := range batch {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.logger.Errorf(providers.TypeEnrich, "Achievement lookup for app %d panicked: %v", g.AppID, r)
				}
			}()
			a, err := s.bulkhead.Execute(ctx, func(ctx context.Context) (*models.Achievements, error) {
				return s.api.FetchAchievements(ctx, req.SteamID, req.APIKey, g.AppID)
			})
			if err != nil {
				s.logger.Debugf(providers.TypeEnrich, "No achievements for app %d: %s", g.AppID, err)
				return
			}
			out[i] = a
		}()
	}
	wg.Wait()
	return out
}
