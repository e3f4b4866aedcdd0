package hunt

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/emerald-tools/shinyhunt/internal/config"
	"github.com/emerald-tools/shinyhunt/internal/emu"
)

// prime injects a fresh random seed so reloaded snapshots do not replay
// the same encounter stream. A randomized pre-delay desynchronizes the
// frame counter from the reload point.
func (s *Session) prime() (uint32, error) {
	delay := 10 + s.rng.Intn(90)
	if err := s.cap.AdvanceFrames(delay); err != nil {
		return 0, fmt.Errorf("advance: %v: %w", err, ErrCapability)
	}

	seed := s.rng.Uint32()
	if err := s.writeSeed(seed); err != nil {
		return 0, err
	}
	if err := s.cap.AdvanceFrames(5 + s.rng.Intn(15)); err != nil {
		return 0, fmt.Errorf("advance: %v: %w", err, ErrCapability)
	}

	s.log.Debug("seed primed", zap.Uint32("seed", seed), zap.Int("pre_delay", delay))
	return seed, nil
}

func (s *Session) writeSeed(seed uint32) error {
	buf := []byte{byte(seed), byte(seed >> 8), byte(seed >> 16), byte(seed >> 24)}
	if err := s.cap.WriteBytes(emu.RNGSeedAddr, buf); err != nil {
		return fmt.Errorf("write seed: %v: %w", err, ErrCapability)
	}
	return nil
}

func (s *Session) readPV(base uint32) (uint32, error) {
	b, err := s.cap.ReadBytes(base, 4)
	if err != nil {
		return 0, fmt.Errorf("read pv: %v: %w", err, ErrCapability)
	}
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24, nil
}

// runSelection plays the menu-driven sequence that produces a record in
// the first party slot. The party count is polled between presses so the
// sequence can stop as soon as the record arrives.
func (s *Session) runSelection(sel *config.Selection) (bool, error) {
	if got, err := s.pressAndPoll(emu.KeyA, sel.DialoguePresses, sel.DialogueDelay); err != nil || got {
		return got, err
	}
	if err := s.send(emu.Wait(sel.MenuWait)); err != nil {
		return false, err
	}

	if sel.DirectionPress > 0 {
		dir, err := emu.ParseDirection(sel.Direction)
		if err != nil {
			return false, err
		}
		for i := 0; i < sel.DirectionPress; i++ {
			if err := s.send(emu.Press(dir.Key(), 5, 10)); err != nil {
				return false, err
			}
		}
	}

	if got, err := s.pressAndPoll(emu.KeyA, sel.ConfirmPresses, sel.ConfirmDelay); err != nil || got {
		return got, err
	}
	return s.pressAndPoll(emu.KeyA, sel.RetryPresses, sel.ConfirmDelay)
}

// runLoading mashes through the post-reload dialogue before a field hunt.
func (s *Session) runLoading(enc *config.Encounter) error {
	for i := 0; i < enc.LoadingPresses; i++ {
		if err := s.send(emu.Press(emu.KeyA, 5, enc.LoadingDelay)); err != nil {
			return err
		}
	}
	return nil
}

// pressAndPoll presses key count times with delay frames between presses,
// checking the party count after each press. Returns true once a record
// has arrived in the party.
func (s *Session) pressAndPoll(key emu.Keys, count, delay int) (bool, error) {
	for i := 0; i < count; i++ {
		if err := s.send(emu.Press(key, 5, delay)); err != nil {
			return false, err
		}
		n, err := s.partyCount()
		if err != nil {
			return false, err
		}
		if n != 0 {
			return true, nil
		}
	}
	return false, nil
}

func (s *Session) partyCount() (uint8, error) {
	b, err := s.cap.ReadBytes(emu.PartyCountAddr, 1)
	if err != nil {
		return 0, fmt.Errorf("read party count: %v: %w", err, ErrCapability)
	}
	return b[0], nil
}

// awaitEncounter turns in place until a record distinct from the last one
// appears, or the turn budget runs out. Turning alternates between the
// current facing and its opposite with single-frame holds, which spins
// the character without ever taking a step.
func (s *Session) awaitEncounter() (bool, error) {
	enc := s.cfg.Location.Encounter
	for turn := 0; turn < enc.MaxTurns; turn++ {
		next := s.facing.Opposite()
		if err := s.send(emu.Press(next.Key(), enc.TurnHold, enc.TurnWait)); err != nil {
			return false, err
		}
		s.facing = next

		pv, err := s.readPV(emu.EnemyBaseAddr)
		if err != nil {
			return false, err
		}
		if pv != 0 && pv != s.lastPV {
			s.log.Debug("encounter detected",
				zap.Uint32("pv", pv), zap.Int("turns", turn+1))
			return true, nil
		}
	}
	s.log.Warn("turn budget exhausted without encounter",
		zap.Int("max_turns", enc.MaxTurns))
	return false, nil
}

// flee backs out of the battle through the run-away menu path.
func (s *Session) flee() error {
	err := s.send(
		emu.Wait(400),
		emu.Press(emu.KeyA, 5, 320),
		emu.Press(emu.KeyDown, 5, 10),
		emu.Press(emu.KeyRight, 5, 10),
		emu.Press(emu.KeyA, 5, 30),
		emu.Press(emu.KeyA, 5, 250),
	)
	if err != nil {
		return err
	}

	pv, err := s.readPV(emu.EnemyBaseAddr)
	if err != nil {
		return err
	}
	s.lastPV = pv
	return nil
}

func (s *Session) send(seqs ...emu.Sequence) error {
	var all emu.Sequence
	for _, q := range seqs {
		all = append(all, q...)
	}
	if err := s.cap.SendInput(all); err != nil {
		return fmt.Errorf("send input: %v: %w", err, ErrCapability)
	}
	return nil
}
