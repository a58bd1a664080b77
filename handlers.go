package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"lexical/internal/exam"
	"lexical/internal/kv"
	"lexical/internal/logging"
	"lexical/internal/match"
	"lexical/internal/types"
	"lexical/internal/vocab"
)

// listEntriesHandler renders the catalog, optionally narrowed by kind and query.
func (app *App) listEntriesHandler(c *gin.Context) {
	ctx := c.Request.Context()
	kind, err := types.ParseKind(c.Query("kind"))
	if err != nil {
		respondError(c, err, "")
		return
	}
	entries := vocab.View(app.Store.List(ctx), kind, c.Query("q"))
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   len(entries),
	})
}

// getEntryHandler returns one entry, used to fill the edit form.
func (app *App) getEntryHandler(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	entry, err := app.Store.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err, "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// addEntryHandler adds a word or idiom from the add form.
func (app *App) addEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	var req entryRequest
	if err := c.ShouldBind(&req); err != nil {
		logging.WarnCtx(ctx, "Malformed add request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}
	kind, err := types.ParseKind(req.Kind)
	if err != nil {
		respondError(c, err, "")
		return
	}
	if kind == "" {
		kind = types.Word
	}

	entry, err := app.Store.Add(ctx, kind, req.Source, req.Target)
	if err != nil {
		respondError(c, err, kind)
		return
	}
	msg := MsgWordAdded
	if kind == types.Idiom {
		msg = MsgIdiomAdded
	}
	app.respondMutation(c, http.StatusCreated, msg, gin.H{"entry": entry})
}

// updateEntryHandler saves the edit form over an existing entry.
func (app *App) updateEntryHandler(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := entryID(c)
	if !ok {
		return
	}
	var req entryRequest
	if err := c.ShouldBind(&req); err != nil {
		logging.WarnCtx(ctx, "Malformed update request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	entry, err := app.Store.Update(ctx, id, req.Source, req.Target)
	if err != nil {
		respondError(c, err, "")
		return
	}
	msg := MsgWordUpdated
	if entry.Kind == types.Idiom {
		msg = MsgIdiomUpdated
	}
	app.respondMutation(c, http.StatusOK, msg, gin.H{"entry": entry})
}

// removeEntryHandler deletes an entry.
func (app *App) removeEntryHandler(c *gin.Context) {
	id, ok := entryID(c)
	if !ok {
		return
	}
	if err := app.Store.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err, "")
		return
	}
	app.respondMutation(c, http.StatusOK, MsgItemDeleted, gin.H{"id": id})
}

// countsHandler reports the collection size and whether the game is unlocked.
func (app *App) countsHandler(c *gin.Context) {
	counts := app.Store.CountByKind(c.Request.Context())
	c.JSON(http.StatusOK, countsPayload(counts))
}

// healthzHandler returns a JSON health check with server stats. A storage
// backend that cannot be read answers 503.
func (app *App) healthzHandler(c *gin.Context) {
	ctx := c.Request.Context()
	status, code := "ok", http.StatusOK
	if _, err := app.Storage.Get(ctx, vocab.StorageKey); err != nil && !errors.Is(err, kv.ErrNotFound) {
		logging.WarnCtx(ctx, "Health check storage read failed: %v", err)
		status, code = "degraded", http.StatusServiceUnavailable
	}
	counts := app.Store.CountByKind(ctx)
	app.SessionMutex.RLock()
	exams, games := len(app.ExamSessions), len(app.GameSessions)
	app.SessionMutex.RUnlock()
	c.JSON(code, gin.H{
		"status":        status,
		"env":           map[bool]string{true: "production", false: "development"}[app.IsProduction],
		"storage":       app.Config.StorageBackend,
		"words":         counts.Words,
		"idioms":        counts.Idioms,
		"exam_sessions": exams,
		"game_sessions": games,
		"uptime":        formatUptime(time.Since(app.StartTime)),
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// respondMutation sends a success message together with the fresh counts, so
// the page can update its summary and show or hide the game tab.
func (app *App) respondMutation(c *gin.Context, status int, msg string, body gin.H) {
	counts := app.Store.CountByKind(c.Request.Context())
	for k, v := range countsPayload(counts) {
		body[k] = v
	}
	body["message"] = msg
	body["dismissAfterMs"] = SuccessFeedbackDelay.Milliseconds()
	c.JSON(status, body)
}

func countsPayload(counts types.Counts) gin.H {
	return gin.H{
		"counts":        counts,
		"summary":       counts.String(),
		"gameAvailable": counts.GameAvailable(),
	}
}

// entryID parses the :id path parameter, answering 400 itself on failure.
func entryID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return 0, false
	}
	return id, true
}

// respondError maps domain errors to a status code and a user-facing message.
// kind selects the duplicate message for add requests.
func respondError(c *gin.Context, err error, kind types.Kind) {
	status, msg := errorResponse(err, kind)
	if status >= http.StatusInternalServerError {
		logging.WarnCtx(c.Request.Context(), "Request failed: %v", err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func errorResponse(err error, kind types.Kind) (int, string) {
	switch {
	case errors.Is(err, types.ErrValidation):
		return http.StatusBadRequest, MsgFillBothFields
	case errors.Is(err, types.ErrDuplicate):
		if kind == types.Idiom {
			return http.StatusConflict, MsgIdiomExists
		}
		return http.StatusConflict, MsgWordExists
	case errors.Is(err, types.ErrNotFound):
		return http.StatusNotFound, MsgItemNotFound
	case errors.Is(err, exam.ErrNotRunning):
		return http.StatusUnprocessableEntity, MsgExamNotRunning
	case errors.Is(err, match.ErrNotRunning):
		return http.StatusUnprocessableEntity, MsgGameNotRunning
	}
	return http.StatusInternalServerError, MsgInternalError
}
