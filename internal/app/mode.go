package app

import "github.com/tw93/diskmap/internal/treemap"

// Mode is the UI mode the frame is drawn in. Exactly one is active.
type Mode interface {
	isMode()
}

// Loading is the base mode while the walker is still reporting.
type Loading struct{}

// Normal is the base mode once the scan has finished.
type Normal struct{}

// ScreenTooSmall replaces the base mode while the terminal is below
// MinWidth x MinHeight.
type ScreenTooSmall struct{}

// DeleteFile waits for the user to confirm deletion of Target.
type DeleteFile struct {
	Target treemap.Tile
}

type ErrorMessage struct {
	Message string
}

type WarningMessage struct {
	Message string
}

// Exiting asks the user to confirm quitting. AppLoaded selects which base
// mode a cancel returns to.
type Exiting struct {
	AppLoaded bool
}

func (Loading) isMode()        {}
func (Normal) isMode()         {}
func (ScreenTooSmall) isMode() {}
func (DeleteFile) isMode()     {}
func (ErrorMessage) isMode()   {}
func (WarningMessage) isMode() {}
func (Exiting) isMode()        {}

// Effects are transient decorations layered over the current mode.
type Effects struct {
	// LoadingIndicator advances once per scan tick.
	LoadingIndicator int
	// LastReadPath is the most recent path reported by the walker.
	LastReadPath string
	// FlashSpaceFreed highlights the freed counter after a deletion.
	FlashSpaceFreed bool
	// CurrentPathIsRed flags a refused enter or leave.
	CurrentPathIsRed   bool
	DeletionInProgress bool
}

func (e *Effects) clearFlashes() {
	e.FlashSpaceFreed = false
	e.CurrentPathIsRed = false
}
