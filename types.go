package main

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"golang.org/x/time/rate"

	"lexical/internal/config"
	"lexical/internal/exam"
	"lexical/internal/kv"
	"lexical/internal/match"
	"lexical/internal/vocab"
)

// App holds the server's dependencies and per-browser session state.
type App struct {
	Config       *config.Config
	Storage      kv.Storage
	Store        *vocab.Store
	IsProduction bool
	StartTime    time.Time

	SessionMutex sync.RWMutex
	ExamSessions map[string]*ExamSession
	GameSessions map[string]*GameSession

	LimiterMap   map[string]*clientLimiter
	LimiterMutex sync.Mutex

	Scheduler *gocron.Scheduler

	// newRand and clock are swapped out in tests.
	newRand func() *rand.Rand
	clock   func() time.Time
}

// ExamSession is the exam runner owned by one browser session.
type ExamSession struct {
	Runner         *exam.Runner
	LastAccessTime time.Time
}

// GameSession is the matching game runner owned by one browser session.
type GameSession struct {
	Runner         *match.Runner
	LastAccessTime time.Time
}

// clientLimiter is the token bucket of one client IP.
type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// entryRequest is the add/edit form.
type entryRequest struct {
	Kind   string `form:"kind" json:"kind"`
	Source string `form:"english" json:"english"`
	Target string `form:"turkish" json:"turkish"`
}

type answerRequest struct {
	Answer string `form:"answer" json:"answer"`
}

type selectRequest struct {
	Side string `form:"side" json:"side"`
	ID   int64  `form:"id" json:"id"`
}

type progressJSON struct {
	Current int `json:"current"`
	Total   int `json:"total"`
}
