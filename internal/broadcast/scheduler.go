// Package broadcast runs the scheduled quiz announcements.
package broadcast

import (
	"context"
	"fmt"
	"log"
	"time"

	"trivia-quiz-bot/internal/app"
	"trivia-quiz-bot/internal/domain"

	"github.com/robfig/cron/v3"
)

// Announcer posts a fully-revealed question to the broadcast channel.
type Announcer interface {
	PostAnnouncement(ann domain.Announcement) error
}

// Scheduler fires AnnounceQuiz on a fixed period against one channel.
// A failed tick is logged and dropped; there is no catch-up or retry.
type Scheduler struct {
	service   *app.QuizService
	announcer Announcer
	interval  time.Duration
	cron      *cron.Cron
}

func NewScheduler(service *app.QuizService, announcer Announcer, interval time.Duration) *Scheduler {
	return &Scheduler{
		service:   service,
		announcer: announcer,
		interval:  interval,
		cron:      cron.New(),
	}
}

// Start schedules the announce loop. The context bounds each tick's work.
func (s *Scheduler) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() { s.tick(ctx) }); err != nil {
		return fmt.Errorf("schedule announce: %w", err)
	}
	s.cron.Start()
	return nil
}

// Stop halts the scheduler and waits for a running tick to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) tick(ctx context.Context) {
	ann, err := s.service.AnnounceQuiz(ctx)
	if err != nil {
		log.Printf("scheduled quiz skipped: %v", err)
		return
	}
	if err := s.announcer.PostAnnouncement(ann); err != nil {
		log.Printf("failed to post scheduled quiz: %v", err)
	}
}
