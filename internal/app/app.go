// Package app applies sequenced instructions to the tree and the board and
// decides which UI mode the next frame is drawn in.
package app

import (
	"errors"

	"go.uber.org/zap"

	"github.com/tw93/diskmap/internal/board"
	"github.com/tw93/diskmap/internal/sequencer"
	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/treemap"
)

const (
	msgDeleteWhileLoading = "Cannot delete files while scanning"
	msgDeleteSmallItems   = "Zoom in to select small files individually"
	msgNothingSelected    = "Nothing selected to delete"
)

type Options struct {
	DisableDeleteConfirmation bool
	MaxMagnification          int
}

// App owns the tree and the board. Handle must only be called from the
// sequencer's consumer goroutine.
type App struct {
	tree     *tree.Tree
	board    *board.Board
	renderer Renderer
	remover  board.Remover
	logger   *zap.Logger
	opts     Options

	mode    Mode
	effects Effects
	width   int
	height  int
	loaded  bool
}

func New(t *tree.Tree, r Renderer, rm board.Remover, logger *zap.Logger, opts Options) *App {
	if rm == nil {
		rm = OSRemover{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		tree:     t,
		board:    board.New(opts.MaxMagnification),
		renderer: r,
		remover:  rm,
		logger:   logger,
		opts:     opts,
		mode:     Loading{},
	}
}

func (a *App) Mode() Mode          { return a.mode }
func (a *App) Effects() Effects    { return a.effects }
func (a *App) Tree() *tree.Tree    { return a.tree }
func (a *App) Board() *board.Board { return a.board }
func (a *App) Loaded() bool        { return a.loaded }

// Handle applies one instruction and reports whether the program should exit.
func (a *App) Handle(ins sequencer.Instruction) bool {
	switch ins := ins.(type) {
	case sequencer.AddEntry:
		a.tree.Insert(ins.Segments, ins.Size, ins.Kind)
		a.effects.LastReadPath = ins.Path
	case sequencer.IncrementFailedToRead:
		a.tree.IncrementFailedToRead()
		a.effects.LastReadPath = ins.Path
	case sequencer.StartUI:
		a.startUI()
	case sequencer.ToggleScanningIndicator:
		a.effects.LoadingIndicator++
	case sequencer.Render:
		a.render()
	case sequencer.RenderAndUpdateBoard:
		a.board.Refresh(a.tree)
		a.render()
	case sequencer.ResetUIMode:
		a.resetMode()
	case sequencer.Resize:
		a.resize(ins.Width, ins.Height)
	case sequencer.Keypress:
		return a.handleKey(ins.Key)
	case sequencer.Quit:
		return true
	}
	return false
}

func (a *App) startUI() {
	a.loaded = true
	a.effects.LoadingIndicator = 0
	a.effects.LastReadPath = ""
	switch m := a.mode.(type) {
	case Loading:
		a.mode = Normal{}
	case Exiting:
		m.AppLoaded = true
		a.mode = m
	}
	a.logger.Info("scan finished",
		zap.String("path", a.tree.Path()),
		zap.Int64("size", a.tree.TotalSize()),
		zap.Int64("entries", a.tree.TotalDescendants()),
		zap.Int64("failed", a.tree.FailedToRead()),
	)
	a.board.Refresh(a.tree)
	a.render()
}

func (a *App) baseMode() Mode {
	if tooSmall(a.width, a.height) {
		return ScreenTooSmall{}
	}
	if a.loaded {
		return Normal{}
	}
	return Loading{}
}

// resetMode re-evaluates the base mode; modal modes are left alone.
func (a *App) resetMode() {
	switch a.mode.(type) {
	case Loading, Normal, ScreenTooSmall:
		a.mode = a.baseMode()
	}
}

// resize re-packs for the new terminal size. The mode is re-evaluated by the
// ResetUIMode that follows.
func (a *App) resize(width, height int) {
	a.width, a.height = width, height
	a.board.Rebuild(board.Items(a.tree.CurrentChildren()), Viewport(width, height))
}

func (a *App) handleKey(key sequencer.Key) bool {
	switch m := a.mode.(type) {
	case ScreenTooSmall:
		return key == sequencer.KeyQuit
	case Exiting:
		if key == sequencer.KeyConfirm {
			return true
		}
		a.mode = a.baseMode()
	case ErrorMessage, WarningMessage:
		a.mode = a.baseMode()
	case DeleteFile:
		switch key {
		case sequencer.KeyConfirm, sequencer.KeyDelete:
			a.deleteTarget(m.Target)
			return false
		case sequencer.KeyQuit:
			a.mode = Exiting{AppLoaded: a.loaded}
		default:
			a.mode = a.baseMode()
		}
	default:
		a.effects.clearFlashes()
		a.handleBoardKey(key)
	}
	a.render()
	return false
}

func (a *App) handleBoardKey(key sequencer.Key) {
	switch key {
	case sequencer.KeyUp:
		a.board.Move(board.Up)
	case sequencer.KeyDown:
		a.board.Move(board.Down)
	case sequencer.KeyLeft:
		a.board.Move(board.Left)
	case sequencer.KeyRight:
		a.board.Move(board.Right)
	case sequencer.KeyEnter:
		a.enterSelected()
	case sequencer.KeyBack:
		a.leave()
	case sequencer.KeyZoomIn:
		a.board.ZoomIn()
	case sequencer.KeyZoomOut:
		a.board.ZoomOut()
	case sequencer.KeyZoomReset:
		a.board.ZoomReset()
	case sequencer.KeyDelete:
		a.requestDelete()
	case sequencer.KeyQuit:
		a.mode = Exiting{AppLoaded: a.loaded}
	}
}

func (a *App) enterSelected() {
	tile, ok := a.board.Selected()
	if !ok || tile.IsSmallItems() || tile.Kind != tree.Folder {
		a.effects.CurrentPathIsRed = true
		return
	}
	if err := a.tree.Enter(tile.Name); err != nil {
		a.logger.Debug("enter refused", zap.String("name", tile.Name), zap.Error(err))
		a.effects.CurrentPathIsRed = true
		return
	}
	a.board.ClearSelection()
	a.board.Refresh(a.tree)
}

func (a *App) leave() {
	path := a.tree.CurrentPath()
	if !a.tree.Leave() {
		a.effects.CurrentPathIsRed = true
		return
	}
	a.board.ClearSelection()
	a.board.Refresh(a.tree)
	a.board.SelectName(path[len(path)-1])
}

func (a *App) requestDelete() {
	if !a.loaded {
		a.mode = WarningMessage{Message: msgDeleteWhileLoading}
		return
	}
	tile, ok := a.board.Selected()
	if !ok {
		a.mode = deleteWarning(board.ErrNothingSelected)
		return
	}
	if tile.IsSmallItems() {
		a.mode = deleteWarning(board.ErrNotDeletable)
		return
	}
	if a.opts.DisableDeleteConfirmation {
		a.deleteTarget(tile)
		return
	}
	a.mode = DeleteFile{Target: tile}
}

// deleteTarget removes target from disk and from the tree. The board is
// re-packed only if the removal succeeded.
func (a *App) deleteTarget(target treemap.Tile) {
	segments := append(a.tree.CurrentPath(), target.Name)
	path := a.tree.AbsPath(segments)

	if !a.board.SelectName(target.Name) {
		a.mode = ErrorMessage{Message: "Failed to delete " + target.Name + ": no longer on the board"}
		a.render()
		return
	}

	a.effects.DeletionInProgress = true
	a.render()
	freed, err := a.board.DeleteSelected(a.tree, a.remover)
	a.effects.DeletionInProgress = false

	switch {
	case errors.Is(err, board.ErrNotDeletable), errors.Is(err, board.ErrNothingSelected):
		a.mode = deleteWarning(err)
	case err != nil:
		a.logger.Warn("delete failed", zap.String("path", path), zap.Error(err))
		a.mode = ErrorMessage{Message: err.Error()}
	default:
		a.logger.Info("deleted", zap.String("path", path), zap.Int64("size", freed))
		a.effects.FlashSpaceFreed = true
		a.mode = a.baseMode()
	}
	a.render()
}

// deleteWarning maps a refused deletion to the warning shown for it.
func deleteWarning(err error) WarningMessage {
	if errors.Is(err, board.ErrNotDeletable) {
		return WarningMessage{Message: msgDeleteSmallItems}
	}
	return WarningMessage{Message: msgNothingSelected}
}

func (a *App) render() {
	if a.renderer == nil {
		return
	}
	a.renderer.Render(a.Frame())
}

// Frame snapshots the current state for the renderer.
func (a *App) Frame() Frame {
	selected := -1
	if idx, ok := a.board.SelectedIndex(); ok {
		selected = idx
	}
	var small *treemap.Rect
	if r := a.board.SmallItems(); r != nil {
		rect := *r
		small = &rect
	}
	current := a.tree.CurrentFolder()
	return Frame{
		Mode:               a.mode,
		Effects:            a.effects,
		Width:              a.width,
		Height:             a.height,
		Tiles:              append([]treemap.Tile(nil), a.board.Tiles()...),
		SmallItems:         small,
		Selected:           selected,
		Magnification:      a.board.Magnification(),
		BasePath:           a.tree.Path(),
		CurrentPath:        a.tree.CurrentPath(),
		CurrentSize:        current.Size,
		CurrentDescendants: current.Descendants,
		TotalSize:          a.tree.TotalSize(),
		TotalDescendants:   a.tree.TotalDescendants(),
		SpaceFreed:         a.tree.SpaceFreed(),
		FailedToRead:       a.tree.FailedToRead(),
		Loaded:             a.loaded,
		DeleteConfirmation: !a.opts.DisableDeleteConfirmation,
	}
}
