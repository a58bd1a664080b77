package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexical/internal/logging"
	"lexical/internal/match"
	"lexical/internal/types"
)

// gameStartHandler deals a new board from the stored idioms.
func (app *App) gameStartHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	runner := app.gameSession(sessionID)

	if err := runner.Start(app.Store.Idioms(ctx)); err != nil {
		if errors.Is(err, types.ErrInsufficientData) {
			logging.InfoCtx(ctx, "Session %s cannot start game: %v", sessionID, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": MsgGameNeedsIdioms})
			return
		}
		respondError(c, err, "")
		return
	}
	logging.InfoCtx(ctx, "Started matching game for session %s", sessionID)
	c.JSON(http.StatusOK, boardPayload(runner.Board()))
}

// gameBoardHandler returns both columns and the score.
func (app *App) gameBoardHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	runner := app.lookupGame(sessionID)
	if runner == nil {
		c.JSON(http.StatusOK, gin.H{"state": match.Idle.String()})
		return
	}
	c.JSON(http.StatusOK, boardPayload(runner.Board()))
}

// gameSelectHandler selects a tile in one column.
func (app *App) gameSelectHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	runner := app.lookupGame(sessionID)
	if runner == nil {
		respondError(c, match.ErrNotRunning, "")
		return
	}
	var req selectRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}
	side, err := match.ParseSide(req.Side)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	res, err := runner.Select(side, req.ID)
	if err != nil {
		respondError(c, err, "")
		return
	}
	body := gin.H{
		"outcome":  res.Outcome.String(),
		"matched":  res.Matched,
		"total":    match.PairCount,
		"finished": res.Finished,
		"board":    boardPayload(runner.Board()),
	}
	switch res.Outcome {
	case match.Match:
		body["idiomId"], body["meaningId"] = res.IdiomID, res.MeaningID
	case match.Mismatch:
		body["idiomId"], body["meaningId"] = res.IdiomID, res.MeaningID
		body["revertAfterMs"] = MismatchRevertDelay.Milliseconds()
	}
	if res.Finished {
		secs := wholeSeconds(res.Elapsed)
		body["elapsedSeconds"] = secs
		body["message"] = fmt.Sprintf(MsgGameCompleted, secs, match.PairCount)
		logging.InfoCtx(ctx, "Session %s finished matching game in %ds", sessionID, secs)
	}
	c.JSON(http.StatusOK, body)
}

// gameTimerHandler streams the elapsed time as server-sent events until the
// game ends or the client goes away.
func (app *App) gameTimerHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	runner := app.lookupGame(sessionID)
	if runner == nil || runner.State() != match.Running {
		respondError(c, match.ErrNotRunning, "")
		return
	}

	ticks := runner.Ticks(c.Request.Context(), app.Config.TimerInterval)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	for elapsed := range ticks {
		c.SSEvent("tick", gin.H{"elapsedSeconds": wholeSeconds(elapsed)})
		c.Writer.Flush()
	}
	c.SSEvent("end", gin.H{
		"state":          runner.State().String(),
		"elapsedSeconds": wholeSeconds(runner.Elapsed()),
	})
	c.Writer.Flush()
}

// gameAbandonHandler backs out of the game and stops its timer.
func (app *App) gameAbandonHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	app.endGame(sessionID)
	c.JSON(http.StatusOK, gin.H{"state": match.Idle.String(), "message": MsgSessionAbandoned})
}

func boardPayload(b match.Board) gin.H {
	return gin.H{
		"state":          b.State.String(),
		"idioms":         b.Idioms,
		"meanings":       b.Meanings,
		"matched":        b.Matched,
		"total":          b.Total,
		"elapsedSeconds": wholeSeconds(b.Elapsed),
	}
}
