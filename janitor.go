package main

import (
	"time"

	"github.com/go-co-op/gocron"
)

// startJanitor schedules the periodic eviction of idle exam and game sessions.
func (app *App) startJanitor() {
	s := gocron.NewScheduler(time.UTC)
	interval := app.Config.CleanupInterval
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if _, err := s.Every(interval).Do(app.cleanupIdleSessions); err != nil {
		logWarn("Failed to schedule session cleanup: %v", err)
	}
	s.StartAsync()
	app.Scheduler = s
	logInfo("Session cleanup scheduled every %v (timeout %v)", interval, app.Config.SessionTimeout)
}

// cleanupIdleSessions drops sessions and rate limiters not touched within
// SessionTimeout and returns how many sessions were removed.
func (app *App) cleanupIdleSessions() int {
	cutoff := app.clock().Add(-app.Config.SessionTimeout)

	app.SessionMutex.Lock()
	var abandoned []*GameSession
	removed := 0
	for id, es := range app.ExamSessions {
		if es.LastAccessTime.Before(cutoff) {
			delete(app.ExamSessions, id)
			removed++
		}
	}
	for id, gs := range app.GameSessions {
		if gs.LastAccessTime.Before(cutoff) {
			delete(app.GameSessions, id)
			abandoned = append(abandoned, gs)
			removed++
		}
	}
	app.SessionMutex.Unlock()

	for _, gs := range abandoned {
		gs.Runner.Abandon()
	}
	limiters := app.pruneLimiters(cutoff)
	if removed > 0 || limiters > 0 {
		logInfo("Session cleanup completed: removed %d idle sessions, %d idle rate limiters", removed, limiters)
	}
	return removed
}
