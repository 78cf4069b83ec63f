// Package playback provides the narration playback controller and its queue navigation.
package playback

// State represents the playback state.
type State int

const (
	StateIdle    State = iota // No current article
	StatePlaying              // Article is being narrated
	StatePaused               // Narration suspended
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}
