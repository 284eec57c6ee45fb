package sequencer

import "github.com/tw93/diskmap/internal/tree"

// Instruction is one unit of work for the consumer. The set is closed: only
// the types in this file implement it.
type Instruction interface {
	isInstruction()
}

// AddEntry reports one discovered filesystem entry relative to the scan root.
type AddEntry struct {
	Path     string
	Segments []string
	Kind     tree.Kind
	Size     int64
}

// IncrementFailedToRead reports an entry the walker could not stat.
type IncrementFailedToRead struct {
	Path string
}

// StartUI marks the end of the scan.
type StartUI struct{}

type ToggleScanningIndicator struct{}

type Render struct{}

type RenderAndUpdateBoard struct{}

// ResetUIMode re-evaluates the mode after a resize or a dismissed message.
type ResetUIMode struct{}

type Resize struct {
	Width, Height int
}

type Keypress struct {
	Key Key
}

type Quit struct{}

func (AddEntry) isInstruction()                {}
func (IncrementFailedToRead) isInstruction()   {}
func (StartUI) isInstruction()                 {}
func (ToggleScanningIndicator) isInstruction() {}
func (Render) isInstruction()                  {}
func (RenderAndUpdateBoard) isInstruction()    {}
func (ResetUIMode) isInstruction()             {}
func (Resize) isInstruction()                  {}
func (Keypress) isInstruction()                {}
func (Quit) isInstruction()                    {}

// Key is an abstract key event, already decoded from the terminal.
type Key int

const (
	KeyOther Key = iota
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyEnter
	KeyBack
	KeyDelete
	KeyZoomIn
	KeyZoomOut
	KeyZoomReset
	KeyQuit
	KeyConfirm
	KeyCancel
)

var keyNames = map[Key]string{
	KeyOther:     "other",
	KeyUp:        "up",
	KeyDown:      "down",
	KeyLeft:      "left",
	KeyRight:     "right",
	KeyEnter:     "enter",
	KeyBack:      "back",
	KeyDelete:    "delete",
	KeyZoomIn:    "zoom-in",
	KeyZoomOut:   "zoom-out",
	KeyZoomReset: "zoom-reset",
	KeyQuit:      "quit",
	KeyConfirm:   "confirm",
	KeyCancel:    "cancel",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}
