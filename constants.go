package main

import "time"

// Session configuration constants
const (
	SessionCookieName = "session_id"
)

// Route constants
const (
	RouteEntries     = "/entries"
	RouteEntry       = "/entries/:id"
	RouteCounts      = "/counts"
	RouteExam        = "/exam"
	RouteExamStart   = "/exam/start"
	RouteExamAnswer  = "/exam/answer"
	RouteGame        = "/game"
	RouteGameStart   = "/game/start"
	RouteGameSelect  = "/game/select"
	RouteGameTimer   = "/game/timer"
	RouteHealthCheck = "/healthz"
)

// Feedback message constants
const (
	MsgFillBothFields    = "Please fill in both fields"
	MsgWordExists        = "This word already exists in your vocabulary"
	MsgIdiomExists       = "This idiom already exists in your collection"
	MsgWordAdded         = "✓ Word added successfully"
	MsgIdiomAdded        = "✓ Idiom added successfully"
	MsgWordUpdated       = "✓ Word updated successfully"
	MsgIdiomUpdated      = "✓ Idiom updated successfully"
	MsgItemDeleted       = "✓ Item deleted successfully"
	MsgItemNotFound      = "Item not found"
	MsgInvalidRequest    = "Invalid request"
	MsgInternalError     = "Something went wrong. Please try again."
	MsgExamNeedsWords    = "You need at least 30 words in your vocabulary to start the exam"
	MsgExamNotRunning    = "No exam in progress"
	MsgCorrect           = "✓ Correct!"
	MsgIncorrect         = "✗ Incorrect. Try again."
	MsgExamCompleted     = "Exam completed!\nYou got %d out of %d correct."
	MsgExamNotPassed     = "You need to get all answers correct to pass. Please try again."
	MsgGameNeedsIdioms   = "You need at least 10 idioms/useful phrases to play the game!"
	MsgGameNotRunning    = "No game in progress"
	MsgGameCompleted     = "Game Completed! Time: %d seconds. All %d pairs matched correctly!"
	MsgTooManyRequests   = "Too many requests. Please slow down."
	MsgSessionAbandoned  = "Session ended"
	MismatchRevertDelay  = time.Second
	SuccessFeedbackDelay = 2 * time.Second
)
