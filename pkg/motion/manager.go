package motion

import (
	"context"
	"sync"
	"time"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/actuator"
	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// Manager orchestrates all robot movement through a single control loop.
//
// Producers interact with it only through the command queue and the
// amplitude slot; mode, the active emotion, and the last sent pose are
// touched exclusively by the loop goroutine, so they need no locking.
type Manager struct {
	cfg      Config
	act      actuator.Actuator
	library  *emotions.Library
	queue    *Queue
	throttle *ErrorThrottle

	amplitude  *AmplitudeSlot
	breathing  *Breathing
	sway       *Sway
	antennas   *antennaBlender
	supervisor *Supervisor

	// now is the loop clock; replaced in tests for deterministic ticks.
	now func() time.Time

	// Loop-owned state
	startedAt time.Time
	mode      Mode
	target    pose.Pose
	active    *activeEmotion
	lastSent  pose.Pose
	haveSent  bool

	tickCount    uint64
	skippedTicks uint64
	sendErrors   uint64

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	snapMu   sync.RWMutex
	snapshot Snapshot
}

// NewManager creates a movement manager. The emotion library and actuator
// are required collaborators; the caller owns their construction.
func NewManager(cfg Config, act actuator.Actuator, library *emotions.Library) *Manager {
	throttle := NewErrorThrottle(cfg.ThrottleWindow)
	slot := &AmplitudeSlot{}

	return &Manager{
		cfg:        cfg,
		act:        act,
		library:    library,
		queue:      NewQueue(cfg.QueueCapacity),
		throttle:   throttle,
		amplitude:  slot,
		breathing:  NewBreathing(cfg),
		sway:       NewSway(cfg.Sway, slot),
		antennas:   newAntennaBlender(cfg.AntennaBlend),
		supervisor: NewSupervisor(act, cfg, throttle),
		now:        time.Now,
		stop:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run drives the control loop at the configured rate. Blocks until a
// Shutdown command is processed or Stop is called.
func (m *Manager) Run() {
	m.startedAt = m.now()

	interval := m.cfg.TickInterval()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Info("movement manager started", "rate_hz", m.cfg.TickRate)

	for {
		select {
		case <-m.stop:
			// Cooperative stop observed between ticks.
			m.mode = ModeShuttingDown
		case <-ticker.C:
			m.tick(m.now())
		}

		if m.mode == ModeShuttingDown {
			m.shutdown()
			return
		}
	}
}

// Stop signals the loop to shut down. The loop observes the signal within
// one tick period. Safe to call multiple times and from any goroutine.
func (m *Manager) Stop() {
	m.stopOnce.Do(func() {
		close(m.stop)
	})
}

// Done is closed once the loop has fully exited.
func (m *Manager) Done() <-chan struct{} {
	return m.done
}

// ============================================================
// Producer API (safe from any goroutine)
// ============================================================

// Enqueue submits a raw command. Returns ErrQueueFull when at capacity.
func (m *Manager) Enqueue(cmd Command) error {
	return m.queue.Enqueue(cmd)
}

// SetTarget updates the base pose used in composition. Does not change mode.
func (m *Manager) SetTarget(p pose.Pose) error {
	return m.queue.Enqueue(NewSetTarget(p))
}

// PlayEmotion requests playback of a named emotion. The name is resolved
// before enqueueing, so an unknown emotion is reported to the caller
// (wrapping emotions.ErrNotFound) and never changes mode.
func (m *Manager) PlayEmotion(name string) error {
	if _, err := m.library.Get(name); err != nil {
		return err
	}
	return m.queue.Enqueue(NewStartEmotion(name))
}

// StopEmotion aborts any in-flight emotion playback.
func (m *Manager) StopEmotion() error {
	return m.queue.Enqueue(NewStopEmotion())
}

// StartListening enters listening mode.
func (m *Manager) StartListening() error {
	return m.queue.Enqueue(NewStartListening())
}

// StopListening leaves listening mode.
func (m *Manager) StopListening() error {
	return m.queue.Enqueue(NewStopListening())
}

// StartSpeaking enters speaking mode.
func (m *Manager) StartSpeaking() error {
	return m.queue.Enqueue(NewStartSpeaking())
}

// StopSpeaking leaves speaking mode.
func (m *Manager) StopSpeaking() error {
	return m.queue.Enqueue(NewStopSpeaking())
}

// Shutdown requests a graceful stop through the command queue.
func (m *Manager) Shutdown() error {
	return m.queue.Enqueue(NewShutdown())
}

// SetAmplitude records the latest speech amplitude sample (last write wins).
func (m *Manager) SetAmplitude(v float64) {
	m.amplitude.Set(v)
}

// Snapshot returns the current telemetry view. Read-only copy; safe from
// any goroutine.
func (m *Manager) Snapshot() Snapshot {
	m.snapMu.RLock()
	defer m.snapMu.RUnlock()
	return m.snapshot
}

// ============================================================
// Control loop internals (loop goroutine only)
// ============================================================

// tick executes one control cycle: drain, apply, advance, compose, gate, send.
func (m *Manager) tick(now time.Time) {
	m.tickCount++

	// 1. Apply queued commands in enqueue order. Shutdown preempts the
	// remainder of its drain batch.
	for _, cmd := range m.queue.DrainUpTo(m.cfg.MaxDrainPerTick) {
		m.apply(cmd, now)
		if m.mode == ModeShuttingDown {
			break
		}
	}
	if m.mode == ModeShuttingDown {
		m.publishSnapshot()
		return
	}

	// 2. Retire a completed emotion.
	if m.mode == ModePlayingEmotion && m.active != nil {
		t := now.Sub(m.active.startedAt)
		if m.active.move.IsComplete(t) {
			log.Info("emotion completed", "emotion", m.active.move.Name())
			m.active = nil
			m.mode = ModeIdle
		}
	}

	// 3. Recover from ERROR once the supervisor has the link back.
	if m.mode == ModeError && m.supervisor.Up() {
		log.Info("actuator link restored, resuming idle")
		m.mode = ModeIdle
	}

	// 4. Compose the final pose from the active layers.
	final := m.compose(now)

	// 5. Change-detection gate: skip the send when every axis is within
	// its threshold of the last transmitted pose.
	if m.haveSent && m.cfg.Thresholds.Within(m.lastSent, final) {
		m.skippedTicks++
		m.publishSnapshot()
		return
	}

	// 6. Send, bounded by the send deadline. Failures escalate through
	// the supervisor; no retry within the same tick.
	if m.mode != ModeError && m.supervisor.Up() {
		ctx, cancel := context.WithTimeout(context.Background(), m.cfg.SendTimeout)
		err := m.act.SendPose(ctx, final)
		cancel()

		if err != nil {
			m.sendErrors++
			if m.supervisor.RecordFailure(err) {
				m.mode = ModeError
				m.active = nil
			}
		} else {
			m.supervisor.RecordSuccess()
			m.lastSent = final
			m.haveSent = true
		}
	}

	m.publishSnapshot()
}

// apply runs one command through the mode state machine. Illegal events for
// the current mode are ignored with a debug log, never fatal.
func (m *Manager) apply(cmd Command, now time.Time) {
	switch cmd.Kind {
	case KindSetTarget:
		m.target = cmd.Target

	case KindStartEmotion:
		e, err := m.library.Get(cmd.Emotion)
		if err != nil {
			log.Warn("unknown emotion requested", "emotion", cmd.Emotion)
			return
		}
		if m.mode == ModeListening {
			m.antennas.Release(now)
		}
		m.active = &activeEmotion{
			move:      NewEmotionMove(e, m.throttle),
			startedAt: now,
		}
		m.mode = ModePlayingEmotion
		log.Info("emotion started", "emotion", cmd.Emotion, "duration", e.Duration)

	case KindStopEmotion:
		if m.mode != ModePlayingEmotion {
			m.ignore(cmd)
			return
		}
		log.Info("emotion stopped", "emotion", m.active.move.Name())
		m.active = nil
		m.mode = ModeIdle

	case KindStartListening:
		if m.mode != ModeIdle {
			m.ignore(cmd)
			return
		}
		m.antennas.Freeze(m.lastSent.Antennas)
		m.mode = ModeListening

	case KindStopListening:
		if m.mode != ModeListening {
			m.ignore(cmd)
			return
		}
		m.antennas.Release(now)
		m.mode = ModeIdle

	case KindStartSpeaking:
		if m.mode != ModeIdle {
			m.ignore(cmd)
			return
		}
		m.mode = ModeSpeaking

	case KindStopSpeaking:
		if m.mode != ModeSpeaking {
			m.ignore(cmd)
			return
		}
		m.mode = ModeIdle

	case KindShutdown:
		m.mode = ModeShuttingDown
	}
}

func (m *Manager) ignore(cmd Command) {
	log.Debug("ignoring command in current mode", "kind", cmd.Kind.String(), "mode", m.mode.String())
}

// compose builds the final pose for this tick from the active layers.
//
// The target pose is the base frame; breathing and sway are offsets applied
// within it. A playing emotion is authoritative for head and antennas,
// while its body yaw still composes with residual breathing.
func (m *Manager) compose(now time.Time) pose.Pose {
	elapsed := now.Sub(m.startedAt)

	switch m.mode {
	case ModePlayingEmotion:
		if m.active == nil {
			return pose.Compose(m.target, m.breathing.Offset(elapsed, 1.0)).Clamp()
		}
		ep := m.active.move.Evaluate(now.Sub(m.active.startedAt))
		breathe := m.breathing.Offset(elapsed, m.cfg.ResidualBreathScale)
		ep.BodyYaw += breathe.BodyYaw
		return ep.Clamp()

	case ModeListening:
		final := pose.Compose(m.target, m.breathing.Offset(elapsed, m.cfg.ResidualBreathScale))
		final.Antennas = m.antennas.Apply(now, final.Antennas)
		return final.Clamp()

	case ModeSpeaking:
		base := pose.Compose(m.target, m.breathing.Offset(elapsed, m.cfg.ResidualBreathScale))
		final := pose.Compose(base, m.sway.Offset(now, elapsed))
		final.Antennas = m.antennas.Apply(now, final.Antennas)
		return final.Clamp()

	default: // ModeIdle, ModeError
		final := pose.Compose(m.target, m.breathing.Offset(elapsed, 1.0))
		final.Antennas = m.antennas.Apply(now, final.Antennas)
		return final.Clamp()
	}
}

// shutdown performs final cleanup: stop the supervisor, release state, and
// mark the loop done.
func (m *Manager) shutdown() {
	m.active = nil
	m.supervisor.Stop()
	m.publishSnapshot()
	log.Info("movement manager stopped", "ticks", m.tickCount, "skipped", m.skippedTicks)
	close(m.done)
}

// publishSnapshot refreshes the telemetry view at the end of a tick.
func (m *Manager) publishSnapshot() {
	snap := Snapshot{
		Mode:            m.mode.String(),
		Connection:      m.supervisor.State(),
		TickCount:       m.tickCount,
		SkippedTicks:    m.skippedTicks,
		SendErrors:      m.sendErrors,
		DroppedCommands: m.queue.Dropped(),
	}
	if m.active != nil {
		snap.Emotion = m.active.move.Name()
	}

	m.snapMu.Lock()
	m.snapshot = snap
	m.snapMu.Unlock()
}
