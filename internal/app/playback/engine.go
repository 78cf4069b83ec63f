package playback

// Utterance identifies one narration request.
// A completion carrying a token other than the active one is stale.
type Utterance string

// SpeakOptions controls how text is narrated.
type SpeakOptions struct {
	Lang string  // BCP 47 language tag, e.g. "en-US"
	Rate float64 // Speaking rate, 1.0 is normal speed
}

// Engine is the platform narration capability the controller wraps.
// The controller is its only caller within the application.
type Engine interface {
	// Available reports whether narration is supported at all.
	Available() bool
	// Speak starts narrating text and returns the new utterance token.
	Speak(text string, opts SpeakOptions) (Utterance, error)
	// Pause suspends the utterance without cancelling it.
	Pause(u Utterance)
	// Resume continues a paused utterance.
	Resume(u Utterance)
	// Cancel stops the utterance; no completion is delivered for it afterwards.
	Cancel(u Utterance)
	// Speaking reports whether any utterance is in flight, paused or not.
	Speaking() bool
	// Paused reports whether the in-flight utterance is suspended.
	Paused() bool
	// Completions delivers the token of each utterance that finished naturally.
	Completions() <-chan Utterance
}
