// Package game implements the round state machine behind the target game.
package game

import (
	"errors"
	"strconv"
	"time"

	"github.com/verte-zerg/catchme/internal/generator"
	"github.com/verte-zerg/catchme/internal/model"
)

const (
	// DefaultDuration is the round length used until the player picks another.
	DefaultDuration = 30

	tickInterval      = time.Second
	pulseDuration     = 500 * time.Millisecond
	newRecordDuration = 2000 * time.Millisecond
)

// Durations lists the selectable round lengths in seconds.
var Durations = []int{15, 30, 60}

// ErrInvalidDuration is returned for a round length outside Durations.
var ErrInvalidDuration = errors.New("round duration must be 15, 30 or 60 seconds")

// KV is the persistent key-value store holding the record and preferences.
type KV interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// Scheduler runs fn once after d. The returned func cancels it; cancelling a
// callback that already ran is a no-op. Callbacks must be delivered on the same
// goroutine that drives the Controller.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) func()
}

// Journal receives every completed round.
type Journal interface {
	RecordRound(result model.RoundResult) error
}

// Logger receives best-effort persistence failures.
type Logger interface {
	Printf(format string, args ...any)
}

// Options configures a Controller.
type Options struct {
	// Persist enables reading and writing the KV store.
	Persist   bool
	Duration  int
	Profile   string
	Generator *generator.Generator
	Journal   Journal
	Logger    Logger
	Now       func() time.Time
}

// Controller owns the game state, the record and the preferences. It is not
// safe for concurrent use.
type Controller struct {
	kv      KV
	sched   Scheduler
	gen     *generator.Generator
	journal Journal
	log     Logger
	now     func() time.Time
	persist bool
	profile string

	phase         model.Phase
	score         int
	timeRemaining int
	roundDuration int
	target        model.Position
	startedAt     time.Time

	record model.Record
	prefs  model.Preferences

	menuOpen  bool
	newRecord bool
	pulse     bool

	cancelCountdown func()
	cancelPulse     func()
	cancelNewRecord func()
}

// New builds an idle Controller. With persistence enabled the record and
// preferences are loaded from kv.
func New(kv KV, sched Scheduler, opts Options) *Controller {
	c := &Controller{
		kv:            kv,
		sched:         sched,
		gen:           opts.Generator,
		journal:       opts.Journal,
		log:           opts.Logger,
		now:           opts.Now,
		persist:       opts.Persist && kv != nil,
		profile:       opts.Profile,
		phase:         model.PhaseIdle,
		roundDuration: DefaultDuration,
		target:        generator.Start,
		record:        model.Record{History: []int{}},
	}
	if c.gen == nil {
		c.gen = generator.New()
	}
	if c.log == nil {
		c.log = nopLogger{}
	}
	if c.now == nil {
		c.now = time.Now
	}
	if opts.Duration != 0 {
		if ValidDuration(opts.Duration) {
			c.roundDuration = opts.Duration
		} else {
			c.log.Printf("ignoring round duration %d: %v", opts.Duration, ErrInvalidDuration)
		}
	}
	c.timeRemaining = c.roundDuration
	if c.persist {
		rec, prefs, errs := LoadState(kv)
		for _, err := range errs {
			c.log.Printf("using default: %v", err)
		}
		c.record = rec
		c.prefs = prefs
	}
	return c
}

// ValidDuration reports whether seconds is a selectable round length.
func ValidDuration(seconds int) bool {
	for _, d := range Durations {
		if d == seconds {
			return true
		}
	}
	return false
}

// StartRound begins a fresh round from any phase.
func (c *Controller) StartRound() {
	c.stopCountdown()
	c.phase = model.PhaseRunning
	c.score = 0
	c.timeRemaining = c.roundDuration
	c.target = generator.Start
	c.startedAt = c.now()
	c.menuOpen = false
	c.clearNewRecord()
	c.raisePulse()
	c.cancelCountdown = c.sched.Schedule(tickInterval, c.onSecond)
}

// SetRoundDuration changes the round length and resets the clock to it. The
// clock of an ended round stays at zero.
func (c *Controller) SetRoundDuration(seconds int) error {
	if !ValidDuration(seconds) {
		return ErrInvalidDuration
	}
	c.roundDuration = seconds
	if c.phase != model.PhaseEnded {
		c.timeRemaining = seconds
	}
	c.menuOpen = false
	return nil
}

// HitTarget scores a point and moves the target. It reports false when no
// round is running.
func (c *Controller) HitTarget() bool {
	if c.phase != model.PhaseRunning {
		return false
	}
	c.score++
	c.target = c.gen.Next()
	return true
}

// Tick advances the countdown by one second.
func (c *Controller) Tick() {
	if c.phase != model.PhaseRunning {
		return
	}
	if c.timeRemaining > 0 {
		c.timeRemaining--
	}
	if c.timeRemaining == 0 {
		c.endRound()
	}
}

// ToggleDarkMode flips the display preference.
func (c *Controller) ToggleDarkMode() {
	c.prefs.DarkMode = !c.prefs.DarkMode
	c.save(KeyDarkMode, encodeBool(c.prefs.DarkMode))
}

// ToggleMenu opens or closes the menu.
func (c *Controller) ToggleMenu() {
	c.menuOpen = !c.menuOpen
}

// CloseMenu closes the menu.
func (c *Controller) CloseMenu() {
	c.menuOpen = false
}

// Snapshot returns a copy of the state for rendering.
func (c *Controller) Snapshot() model.Snapshot {
	history := make([]int, len(c.record.History))
	copy(history, c.record.History)
	return model.Snapshot{
		Phase:         c.phase,
		Score:         c.score,
		TimeRemaining: c.timeRemaining,
		RoundDuration: c.roundDuration,
		Target:        c.target,
		Record:        model.Record{BestScore: c.record.BestScore, History: history},
		Preferences:   c.prefs,
		MenuOpen:      c.menuOpen,
		NewRecord:     c.newRecord,
		Pulse:         c.pulse,
	}
}

// Stop cancels every outstanding callback.
func (c *Controller) Stop() {
	c.stopCountdown()
	if c.cancelPulse != nil {
		c.cancelPulse()
		c.cancelPulse = nil
	}
	if c.cancelNewRecord != nil {
		c.cancelNewRecord()
		c.cancelNewRecord = nil
	}
}

func (c *Controller) onSecond() {
	c.cancelCountdown = nil
	c.Tick()
	if c.phase == model.PhaseRunning && c.cancelCountdown == nil {
		c.cancelCountdown = c.sched.Schedule(tickInterval, c.onSecond)
	}
}

func (c *Controller) stopCountdown() {
	if c.cancelCountdown != nil {
		c.cancelCountdown()
		c.cancelCountdown = nil
	}
}

func (c *Controller) endRound() {
	c.stopCountdown()
	c.phase = model.PhaseEnded
	c.timeRemaining = 0

	c.record.History = pushHistory(c.record.History, c.score)
	c.save(KeyHistory, encodeHistory(c.record.History))

	isRecord := c.score > c.record.BestScore
	if isRecord {
		c.record.BestScore = c.score
		c.save(KeyBestScore, strconv.Itoa(c.record.BestScore))
		c.raiseNewRecord()
	}

	if c.journal != nil {
		result := model.RoundResult{
			Profile:   c.profile,
			StartedAt: c.startedAt,
			EndedAt:   c.now(),
			Duration:  c.roundDuration,
			Score:     c.score,
			NewRecord: isRecord,
		}
		if err := c.journal.RecordRound(result); err != nil {
			c.log.Printf("failed to record round: %v", err)
		}
	}
}

func (c *Controller) raisePulse() {
	if c.cancelPulse != nil {
		c.cancelPulse()
	}
	c.pulse = true
	c.cancelPulse = c.sched.Schedule(pulseDuration, func() {
		c.pulse = false
		c.cancelPulse = nil
	})
}

func (c *Controller) raiseNewRecord() {
	if c.cancelNewRecord != nil {
		c.cancelNewRecord()
	}
	c.newRecord = true
	c.cancelNewRecord = c.sched.Schedule(newRecordDuration, func() {
		c.newRecord = false
		c.cancelNewRecord = nil
	})
}

func (c *Controller) clearNewRecord() {
	if c.cancelNewRecord != nil {
		c.cancelNewRecord()
		c.cancelNewRecord = nil
	}
	c.newRecord = false
}

func (c *Controller) save(key, value string) {
	if !c.persist {
		return
	}
	if err := c.kv.Set(key, value); err != nil {
		c.log.Printf("failed to save %s: %v", key, err)
	}
}

type nopLogger struct{}

func (nopLogger) Printf(string, ...any) {}
