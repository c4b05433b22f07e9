// Package emotions provides the library of pre-recorded emotion animations
// for the Bobbin robot.
//
// Emotions are keyframe-based clips that drive head pose, antenna angles,
// and body yaw. They are loaded from JSON files (an embedded built-in set
// plus optional custom packs) and evaluated with interpolation by the
// motion control loop. This package only loads and indexes clips; playback
// timing belongs to the caller.
package emotions

import "time"

// Keyframe represents a single frame of animation data.
type Keyframe struct {
	// Head is a 4x4 homogeneous transformation matrix for head pose.
	// Format: [[r00,r01,r02,tx], [r10,r11,r12,ty], [r20,r21,r22,tz], [0,0,0,1]]
	Head [4][4]float64 `json:"head"`

	// Antennas are the left and right antenna positions in radians.
	Antennas [2]float64 `json:"antennas"`

	// BodyYaw is the body rotation in radians.
	BodyYaw float64 `json:"body_yaw"`
}

// EmotionData represents the raw JSON structure of an emotion file.
type EmotionData struct {
	// Description is a human-readable description of the emotion.
	Description string `json:"description"`

	// Time contains timestamps for each keyframe in seconds.
	Time []float64 `json:"time"`

	// Keyframes contains the frame data for each timestamp.
	Keyframes []Keyframe `json:"keyframes"`
}

// Emotion is a loaded, evaluatable clip.
type Emotion struct {
	// Name is the identifier for this emotion (e.g., "happy1", "sad2").
	Name string

	// Description explains when to use this emotion.
	Description string

	// Duration is the total clip length.
	Duration time.Duration

	// Keyframes contains all animation frames.
	Keyframes []Keyframe

	// Timestamps contains the time offset for each keyframe in seconds.
	Timestamps []float64
}
