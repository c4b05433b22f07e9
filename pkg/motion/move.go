package motion

import (
	"time"

	"github.com/bobbin-robotics/go-bobbin/internal/log"
	"github.com/bobbin-robotics/go-bobbin/pkg/emotions"
	"github.com/bobbin-robotics/go-bobbin/pkg/pose"
)

// Move is a time-parameterized motion clip evaluated like an animation
// curve. Evaluate must be side-effect free and deterministic for a given t.
type Move interface {
	// Name returns the move identifier (for logging).
	Name() string

	// Duration returns the total duration of the move.
	Duration() time.Duration

	// Evaluate returns the pose at time t since move start.
	// It never fails: internal evaluation errors yield the neutral pose.
	Evaluate(t time.Duration) pose.Pose

	// IsComplete returns true when the move has finished.
	IsComplete(t time.Duration) bool
}

// EmotionMove wraps a recorded emotion clip for playback as a Move.
type EmotionMove struct {
	emotion  *emotions.Emotion
	throttle *ErrorThrottle
}

// NewEmotionMove creates a Move from an emotion. The throttle bounds error
// logging if evaluation fails repeatedly; it may be shared across moves.
func NewEmotionMove(emotion *emotions.Emotion, throttle *ErrorThrottle) *EmotionMove {
	return &EmotionMove{emotion: emotion, throttle: throttle}
}

// Name returns the emotion name.
func (m *EmotionMove) Name() string {
	return m.emotion.Name
}

// Duration returns the emotion's total duration.
func (m *EmotionMove) Duration() time.Duration {
	return m.emotion.Duration
}

// Evaluate returns the interpolated pose at time t. A failure inside clip
// evaluation is absorbed: the neutral pose is returned and the error logged
// subject to throttling, so the control loop never stalls mid-tick.
func (m *EmotionMove) Evaluate(t time.Duration) (p pose.Pose) {
	defer func() {
		if r := recover(); r != nil {
			if m.throttle != nil {
				if suppressed, ok := m.throttle.Allow("emotion-eval:"+m.emotion.Name, time.Now()); ok {
					log.Error("emotion evaluation failed, using neutral pose",
						"emotion", m.emotion.Name, "panic", r, "suppressed", suppressed)
				}
			}
			p = pose.Neutral()
		}
	}()

	kf := m.emotion.At(t.Seconds())
	p = pose.FromMatrix(kf.Head, kf.Antennas, kf.BodyYaw).Clamp()
	return p
}

// IsComplete returns true when the emotion has finished. The boundary is
// exclusive: a tick landing exactly on the final timestamp still plays the
// last frame, and the next tick retires the clip.
func (m *EmotionMove) IsComplete(t time.Duration) bool {
	return t > m.emotion.Duration
}
