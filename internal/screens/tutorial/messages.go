package tutorial

import "time"

// coachPollMsg asks the screen to check for a finished coach reply.
type coachPollMsg struct{}

// saveFlashDoneMsg clears the save indicator.
type saveFlashDoneMsg struct{}

const (
	coachPollInterval = 250 * time.Millisecond
	saveFlashDuration = 1500 * time.Millisecond
)
