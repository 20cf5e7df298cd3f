package domain

// ToggleResult is the outcome of a successful toggle
type ToggleResult string

const (
	ToggleStopped ToggleResult = "Stopped"
	ToggleStarted ToggleResult = "Started"
)
