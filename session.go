package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"lexical/internal/exam"
	"lexical/internal/match"
)

// getOrCreateSession retrieves the session ID from the cookie or creates a new one.
func (app *App) getOrCreateSession(c *gin.Context) string {
	sessionID, err := c.Cookie(SessionCookieName)
	if err != nil || len(sessionID) < 10 {
		sessionID = uuid.NewString()
		c.SetSameSite(http.SameSiteStrictMode)
		c.SetCookie(SessionCookieName, sessionID, int(app.Config.CookieMaxAge.Seconds()), "/", "", app.IsProduction, true)
		logInfo("Created new session: %s", sessionID)
	}
	return sessionID
}

// examSession returns the session's exam runner, creating an idle one if needed.
func (app *App) examSession(sessionID string) *exam.Runner {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if es, ok := app.ExamSessions[sessionID]; ok {
		es.LastAccessTime = app.clock()
		return es.Runner
	}
	es := &ExamSession{Runner: exam.New(app.newRand()), LastAccessTime: app.clock()}
	app.ExamSessions[sessionID] = es
	return es.Runner
}

// lookupExam returns the session's exam runner or nil.
func (app *App) lookupExam(sessionID string) *exam.Runner {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	es, ok := app.ExamSessions[sessionID]
	if !ok {
		return nil
	}
	es.LastAccessTime = app.clock()
	return es.Runner
}

// endExam discards the session's exam.
func (app *App) endExam(sessionID string) {
	app.SessionMutex.Lock()
	es, ok := app.ExamSessions[sessionID]
	delete(app.ExamSessions, sessionID)
	app.SessionMutex.Unlock()
	if ok {
		es.Runner.Abandon()
		logInfo("Cleared exam session for: %s", sessionID)
	}
}

// gameSession returns the session's game runner, creating an idle one if needed.
func (app *App) gameSession(sessionID string) *match.Runner {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	if gs, ok := app.GameSessions[sessionID]; ok {
		gs.LastAccessTime = app.clock()
		return gs.Runner
	}
	gs := &GameSession{Runner: match.New(app.newRand(), app.clock), LastAccessTime: app.clock()}
	app.GameSessions[sessionID] = gs
	return gs.Runner
}

// lookupGame returns the session's game runner or nil.
func (app *App) lookupGame(sessionID string) *match.Runner {
	app.SessionMutex.Lock()
	defer app.SessionMutex.Unlock()
	gs, ok := app.GameSessions[sessionID]
	if !ok {
		return nil
	}
	gs.LastAccessTime = app.clock()
	return gs.Runner
}

// endGame abandons the session's game, which also stops its timer stream.
func (app *App) endGame(sessionID string) {
	app.SessionMutex.Lock()
	gs, ok := app.GameSessions[sessionID]
	delete(app.GameSessions, sessionID)
	app.SessionMutex.Unlock()
	if ok {
		gs.Runner.Abandon()
		logInfo("Cleared game session for: %s", sessionID)
	}
}
