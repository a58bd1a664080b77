package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"lexical/internal/exam"
	"lexical/internal/logging"
	"lexical/internal/types"
)

// examStartHandler samples a new exam from the stored words.
func (app *App) examStartHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	runner := app.examSession(sessionID)

	if err := runner.Start(app.Store.Words(ctx)); err != nil {
		if errors.Is(err, types.ErrInsufficientData) {
			logging.InfoCtx(ctx, "Session %s cannot start exam: %v", sessionID, err)
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": MsgExamNeedsWords})
			return
		}
		respondError(c, err, "")
		return
	}
	logging.InfoCtx(ctx, "Started exam for session %s", sessionID)
	c.JSON(http.StatusOK, examPayload(runner))
}

// examStateHandler shows the current question and progress.
func (app *App) examStateHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	runner := app.lookupExam(sessionID)
	if runner == nil {
		c.JSON(http.StatusOK, gin.H{"state": exam.Idle.String()})
		return
	}
	c.JSON(http.StatusOK, examPayload(runner))
}

// examAnswerHandler checks an answer to the current question.
func (app *App) examAnswerHandler(c *gin.Context) {
	ctx := c.Request.Context()
	sessionID := app.getOrCreateSession(c)
	runner := app.lookupExam(sessionID)
	if runner == nil {
		respondError(c, exam.ErrNotRunning, "")
		return
	}
	var req answerRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": MsgInvalidRequest})
		return
	}

	res, err := runner.SubmitAnswer(req.Answer)
	if err != nil {
		respondError(c, err, "")
		return
	}
	body := examPayload(runner)
	body["outcome"] = res.Outcome.String()
	body["finished"] = res.Finished
	if res.Outcome == exam.Correct {
		body["message"] = MsgCorrect
	} else {
		body["message"] = MsgIncorrect
	}
	if res.Finished {
		msg := fmt.Sprintf(MsgExamCompleted, res.Score, exam.Size)
		if !runner.Passed() {
			msg += "\n" + MsgExamNotPassed
		}
		body["message"] = msg
		body["passed"] = runner.Passed()
		logging.InfoCtx(ctx, "Session %s finished exam with %d/%d", sessionID, res.Score, exam.Size)
	}
	c.JSON(http.StatusOK, body)
}

// examAbandonHandler discards the session's exam.
func (app *App) examAbandonHandler(c *gin.Context) {
	sessionID := app.getOrCreateSession(c)
	app.endExam(sessionID)
	c.JSON(http.StatusOK, gin.H{"state": exam.Idle.String(), "message": MsgSessionAbandoned})
}

func examPayload(runner *exam.Runner) gin.H {
	cur, total := runner.Progress()
	body := gin.H{
		"state":    runner.State().String(),
		"progress": progressJSON{Current: cur, Total: total},
		"score":    runner.Score(),
	}
	if prompt, err := runner.CurrentPrompt(); err == nil {
		body["prompt"] = prompt
	}
	return body
}
