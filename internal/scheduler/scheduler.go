package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/apex/log"
	"github.com/dustin/go-humanize"
	"github.com/robfig/cron/v3"

	"MacroPrelude/internal/config"
	"MacroPrelude/internal/httpcache"
	"MacroPrelude/internal/render"
)

// Purger removes expired cache entries.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler manages the periodic render and cache purge tasks.
type Scheduler struct {
	Cron     *cron.Cron
	Renderer *render.Renderer
	Charts   []config.ChartConfig
	Cache    Purger
	Store    httpcache.Store
	Ctx      context.Context

	wg sync.WaitGroup
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, r *render.Renderer, charts []config.ChartConfig, cache Purger, store httpcache.Store) *Scheduler {
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Renderer: r,
		Charts:   charts,
		Cache:    cache,
		Store:    store,
		Ctx:      ctx,
	}
}

// RegisterAll registers the render and purge tasks.
func (s *Scheduler) RegisterAll(renderCron, purgeCron string) error {
	if _, err := s.Cron.AddFunc(renderCron, s.renderTask); err != nil {
		return fmt.Errorf("register render task: %w", err)
	}
	if _, err := s.Cron.AddFunc(purgeCron, s.purgeTask); err != nil {
		return fmt.Errorf("register purge task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.WithField("tasks", len(s.Cron.Entries())).Info("scheduler started")
}

// Stop stops the cron scheduler and waits for running tasks, including
// any started by RenderAsync.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.wg.Wait()
	log.Info("scheduler stopped")
}

// RenderNow executes the render task immediately.
func (s *Scheduler) RenderNow() {
	s.renderTask()
}

// RenderAsync runs the render task in the background. Stop waits for it.
func (s *Scheduler) RenderAsync() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.renderTask()
	}()
}

func (s *Scheduler) renderTask() {
	if s.Ctx.Err() != nil {
		return
	}
	log.WithField("charts", len(s.Charts)).Info("running render task")
	results, err := s.Renderer.RenderAll(s.Ctx, s.Charts)
	if err != nil {
		log.WithError(err).Error("render task")
	}
	log.WithField("rendered", len(results)).Info("render task done")
}

func (s *Scheduler) purgeTask() {
	if s.Ctx.Err() != nil {
		return
	}
	n, err := s.Cache.PurgeExpired(s.Ctx)
	if err != nil {
		log.WithError(err).Error("purge cache")
		return
	}
	fields := log.Fields{"removed": n}
	if s.Store != nil {
		if st, err := s.Store.Stats(s.Ctx); err == nil {
			fields["entries"] = st.Entries
			fields["size"] = humanize.Bytes(uint64(st.Bytes))
		}
	}
	log.WithFields(fields).Info("cache purged")
}
