// Package hunt drives repeated encounter acquisition against an emulation
// capability: prime the in-game random state, wait for a record to appear,
// decode and evaluate it, then reset or flee and go again until a shiny
// turns up.
package hunt

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/config"
	"github.com/emerald-tools/shinyhunt/internal/emu"
	"github.com/emerald-tools/shinyhunt/internal/pokerec"
)

// State is the session's position in the acquisition cycle.
type State int

const (
	StateIdle State = iota
	StatePriming
	StateAwaiting
	StateDetected
	StateEvaluated
	StateSuccess
	StateTerminal
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePriming:
		return "priming"
	case StateAwaiting:
		return "awaiting-encounter"
	case StateDetected:
		return "record-detected"
	case StateEvaluated:
		return "evaluated"
	case StateSuccess:
		return "success"
	case StateTerminal:
		return "terminal"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ErrMaxAttempts means the configured attempt budget ran out without a find.
var ErrMaxAttempts = errors.New("attempt limit reached")

// ErrCapability wraps emulation capability failures that exhausted the
// consecutive-error bound.
var ErrCapability = errors.New("emulation capability failure")

// Config describes one hunting session.
type Config struct {
	Owner       pokerec.OwnerPair
	Location    config.Location
	LocationKey string

	// Target restricts stop-reporting emphasis to one species name. It
	// does not restrict evaluation: every valid record is still checked,
	// and the session stops on the first shiny of any species.
	Target string

	// SnapshotPath is the save snapshot reloaded by the reset strategy
	// and by flee-strategy recovery.
	SnapshotPath string

	// MaxAttempts bounds the hunt; 0 means unbounded.
	MaxAttempts int

	// RetryLimit bounds consecutive capability failures before the
	// session falls back to a full reset, and then terminates.
	RetryLimit int

	// StatusEvery controls how often attempt-rate progress is logged.
	StatusEvery int
}

// Find is the result of a successful hunt, as plain structured data.
type Find struct {
	Rec        *pokerec.Record
	ShinyValue uint16
	Attempts   int
	Elapsed    time.Duration

	// Raw is the 80-byte box-format dump of the found record.
	Raw []byte

	// Target reports whether the find matched the configured target
	// species (always true when no target was set).
	Target bool
}

// Session is one hunting run. Single-threaded: every capability call is
// synchronous and attempts never overlap.
type Session struct {
	cap emu.Capability
	cfg Config
	log *zap.Logger
	rng *rand.Rand

	state     State
	attempts  int
	consecErr int
	lastPV    uint32
	facing    emu.Direction
	expected  pokerec.SpeciesSet
	targetIDs pokerec.SpeciesSet
	start     time.Time
}

// New validates the configuration and prepares a session. The random
// source is passed in explicitly so tests can make priming deterministic.
func New(capability emu.Capability, cfg Config, log *zap.Logger, rng *rand.Rand) (*Session, error) {
	if capability == nil {
		return nil, fmt.Errorf("new session: nil capability")
	}
	if cfg.Owner == (pokerec.OwnerPair{}) {
		return nil, fmt.Errorf("new session: owner pair is required")
	}
	if err := cfg.Location.Validate(); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	expected, err := cfg.Location.SpeciesSet()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}

	var targetIDs pokerec.SpeciesSet
	if cfg.Target != "" {
		id, ok := pokerec.SpeciesID(cfg.Target)
		if !ok || !expected[id] {
			return nil, fmt.Errorf("new session: target %q not found at %s", cfg.Target, cfg.Location.Name)
		}
		targetIDs = pokerec.NewSpeciesSet(id)
	}

	if cfg.RetryLimit <= 0 {
		cfg.RetryLimit = 3
	}
	if cfg.StatusEvery <= 0 {
		cfg.StatusEvery = 10
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &Session{
		cap:       capability,
		cfg:       cfg,
		log:       log,
		rng:       rng,
		state:     StateIdle,
		facing:    emu.DirDown,
		expected:  expected,
		targetIDs: targetIDs,
	}, nil
}

// State returns the session's current state.
func (s *Session) State() State {
	return s.state
}

// Attempts returns the number of completed evaluation cycles.
func (s *Session) Attempts() int {
	return s.attempts
}

func (s *Session) setState(next State) {
	if next == s.state {
		return
	}
	s.log.Debug("state transition",
		zap.String("from", s.state.String()),
		zap.String("to", next.String()))
	s.state = next
}

// Run executes the hunt until a shiny is found, the attempt budget runs
// out, the capability fails past its bound, or ctx is cancelled.
// Cancellation is cooperative and checked once per attempt cycle, never
// mid-decode.
func (s *Session) Run(ctx context.Context) (*Find, error) {
	s.start = time.Now()
	s.log.Info("hunt started",
		zap.String("location", s.cfg.Location.Name),
		zap.String("method", s.cfg.Location.Method),
		zap.String("target", s.cfg.Target))

	var find *Find
	var err error
	switch s.cfg.Location.Method {
	case "reset":
		find, err = s.runReset(ctx)
	case "flee":
		find, err = s.runFlee(ctx)
	default:
		err = fmt.Errorf("unknown method %q", s.cfg.Location.Method)
	}

	if find != nil {
		s.setState(StateSuccess)
		s.log.Info("shiny found",
			zap.String("species", pokerec.SpeciesName(find.Rec.Species)),
			zap.Uint16("shiny_value", find.ShinyValue),
			zap.Int("attempts", find.Attempts),
			zap.Duration("elapsed", find.Elapsed),
			zap.Bool("target", find.Target))
		return find, nil
	}

	s.setState(StateTerminal)
	return nil, err
}

func (s *Session) runReset(ctx context.Context) (*Find, error) {
	for {
		if err := s.checkBudget(ctx); err != nil {
			return nil, err
		}

		find, err := s.resetAttempt()
		if err != nil {
			if nerr := s.noteFailure(err); nerr != nil {
				return nil, nerr
			}
			if s.consecErr >= s.cfg.RetryLimit {
				return nil, fmt.Errorf("%d consecutive failures: %w", s.consecErr, err)
			}
			continue
		}
		s.consecErr = 0
		if find != nil {
			return find, nil
		}
	}
}

// resetAttempt runs one full reload-prime-select-evaluate cycle.
func (s *Session) resetAttempt() (*Find, error) {
	s.setState(StatePriming)
	if err := s.cap.LoadSnapshot(s.cfg.SnapshotPath); err != nil {
		return nil, fmt.Errorf("load snapshot: %v: %w", err, ErrCapability)
	}
	seed, err := s.prime()
	if err != nil {
		return nil, err
	}

	s.setState(StateAwaiting)
	got, err := s.runSelection(s.cfg.Location.Selection)
	if err != nil {
		return nil, err
	}

	// the selection sequence runs game logic that can overwrite the seed
	// location, so the seed is written again before the record settles
	if err := s.writeSeed(seed); err != nil {
		return nil, err
	}
	if err := s.cap.AdvanceFrames(60); err != nil {
		return nil, fmt.Errorf("advance: %v: %w", err, ErrCapability)
	}

	s.attempts++
	if !got {
		n, err := s.partyCount()
		if err != nil {
			return nil, err
		}
		got = n != 0
	}
	if !got {
		s.log.Debug("no record after selection", zap.Int("attempt", s.attempts))
		return nil, nil
	}

	s.setState(StateDetected)
	return s.evaluate(emu.PartySlotAddr(0))
}

func (s *Session) runFlee(ctx context.Context) (*Find, error) {
	for {
		if err := s.checkBudget(ctx); err != nil {
			return nil, err
		}
		err := s.fleeSetup()
		if err == nil {
			break
		}
		if nerr := s.noteFailure(err); nerr != nil {
			return nil, nerr
		}
		if s.consecErr >= s.cfg.RetryLimit {
			return nil, fmt.Errorf("%d consecutive failures: %w", s.consecErr, err)
		}
	}
	s.consecErr = 0

	for {
		if err := s.checkBudget(ctx); err != nil {
			return nil, err
		}

		find, err := s.fleeAttempt()
		if err != nil {
			if nerr := s.noteFailure(err); nerr != nil {
				return nil, nerr
			}
			// under the bound the turn loop is simply retried in place;
			// the expensive reload is reserved for an exhausted counter
			if s.consecErr < s.cfg.RetryLimit {
				continue
			}
			if ferr := s.fleeSetup(); ferr != nil {
				if nerr := s.noteFailure(ferr); nerr != nil {
					return nil, nerr
				}
				return nil, fmt.Errorf("%d consecutive failures: %w", s.consecErr, ferr)
			}
			s.consecErr = 0
			continue
		}
		s.consecErr = 0
		if find != nil {
			return find, nil
		}
	}
}

// fleeSetup reloads the snapshot, primes the random state and plays the
// loading sequence. Run once at hunt start and again on recovery.
func (s *Session) fleeSetup() (err error) {
	s.setState(StatePriming)
	if err := s.cap.LoadSnapshot(s.cfg.SnapshotPath); err != nil {
		return fmt.Errorf("load snapshot: %v: %w", err, ErrCapability)
	}
	seed, err := s.prime()
	if err != nil {
		return err
	}
	if err := s.runLoading(s.cfg.Location.Encounter); err != nil {
		return err
	}
	if err := s.writeSeed(seed); err != nil {
		return err
	}
	if err := s.cap.AdvanceFrames(20); err != nil {
		return fmt.Errorf("advance: %v: %w", err, ErrCapability)
	}

	// baseline for edge-triggered detection
	s.lastPV, err = s.readPV(emu.EnemyBaseAddr)
	if err != nil {
		return err
	}
	s.setState(StateAwaiting)
	return nil
}

// fleeAttempt turns in place until a new record appears, evaluates it and,
// when it is not a shiny, retreats from the encounter.
func (s *Session) fleeAttempt() (*Find, error) {
	detected, err := s.awaitEncounter()
	if err != nil {
		return nil, err
	}
	if !detected {
		return nil, nil
	}

	s.setState(StateDetected)
	if err := s.cap.AdvanceFrames(30); err != nil {
		return nil, fmt.Errorf("advance: %v: %w", err, ErrCapability)
	}

	s.attempts++
	find, err := s.evaluate(emu.EnemyBaseAddr)
	if err != nil {
		return nil, err
	}
	if find != nil {
		return find, nil
	}

	if err := s.flee(); err != nil {
		return nil, err
	}
	s.setState(StateAwaiting)
	return nil, nil
}

// evaluate decodes the record window at base and checks eligibility. A
// decode that misses every candidate is treated as unknown: the record
// stays ephemeral and is never reported shiny by mistake.
func (s *Session) evaluate(base uint32) (*Find, error) {
	window, err := s.cap.ReadBytes(base, pokerec.PartyRecordSize)
	if err != nil {
		return nil, fmt.Errorf("read record window: %v: %w", err, ErrCapability)
	}

	pv := uint32(window[0]) | uint32(window[1])<<8 | uint32(window[2])<<16 | uint32(window[3])<<24
	s.lastPV = pv

	rec, err := pokerec.Search(window, s.cfg.Owner, s.expected)
	s.setState(StateEvaluated)
	s.logStatus()

	if err != nil {
		if errors.Is(err, pokerec.ErrOutOfRange) || errors.Is(err, pokerec.ErrEmpty) {
			s.log.Debug("record not decodable, continuing",
				zap.Int("attempt", s.attempts), zap.Uint32("pv", pv))
			return nil, nil
		}
		return nil, err
	}

	shiny, value := pokerec.IsShiny(rec.PV, s.cfg.Owner)
	isTarget := len(s.targetIDs) == 0 || s.targetIDs[rec.Species]

	s.log.Debug("record evaluated",
		zap.Int("attempt", s.attempts),
		zap.String("species", pokerec.SpeciesName(rec.Species)),
		zap.Uint32("pv", rec.PV),
		zap.Uint16("shiny_value", value),
		zap.Bool("shiny", shiny),
		zap.Bool("target", isTarget))

	if !shiny {
		return nil, nil
	}

	raw, err := pokerec.PartyToBox(window)
	if err != nil {
		return nil, err
	}
	return &Find{
		Rec:        rec,
		ShinyValue: value,
		Attempts:   s.attempts,
		Elapsed:    time.Since(s.start),
		Raw:        raw,
		Target:     isTarget,
	}, nil
}

// checkBudget enforces cancellation and the attempt budget between cycles.
func (s *Session) checkBudget(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.cfg.MaxAttempts > 0 && s.attempts >= s.cfg.MaxAttempts {
		return fmt.Errorf("%d attempts: %w", s.attempts, ErrMaxAttempts)
	}
	return nil
}

// noteFailure counts a capability failure and returns nil so the caller
// can spend its retry bound. Non-capability errors are terminal as-is.
func (s *Session) noteFailure(err error) error {
	if !errors.Is(err, ErrCapability) {
		return err
	}
	s.consecErr++
	s.log.Warn("capability failure",
		zap.Error(err),
		zap.Int("consecutive", s.consecErr),
		zap.Int("limit", s.cfg.RetryLimit))
	return nil
}

func (s *Session) logStatus() {
	if s.attempts == 0 || s.attempts%s.cfg.StatusEvery != 0 {
		return
	}
	elapsed := time.Since(s.start)
	rate := float64(s.attempts) / elapsed.Seconds()
	s.log.Info("hunt progress",
		zap.Int("attempts", s.attempts),
		zap.Duration("elapsed", elapsed),
		zap.Float64("rate_per_sec", rate))
}
