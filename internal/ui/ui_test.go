package ui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tw93/diskmap/internal/app"
	"github.com/tw93/diskmap/internal/sequencer"
	"github.com/tw93/diskmap/internal/tree"
	"github.com/tw93/diskmap/internal/treemap"
)

func testFrame() app.Frame {
	return app.Frame{
		Mode:   app.Normal{},
		Width:  100,
		Height: 30,
		Tiles: []treemap.Tile{
			{
				Item: treemap.Item{Name: "big", Size: 768, Kind: tree.Folder, Descendants: 2},
				Rect: treemap.Rect{X: 0, Y: 1, Width: 60, Height: 27},
			},
			{
				Item: treemap.Item{Name: "small.txt", Size: 256, Kind: tree.File},
				Rect: treemap.Rect{X: 60, Y: 1, Width: 40, Height: 27},
			},
		},
		Selected:           0,
		BasePath:           "/scan",
		CurrentSize:        1024,
		CurrentDescendants: 3,
		TotalSize:          1024,
		TotalDescendants:   3,
		Loaded:             true,
	}
}

func plainLines(t *testing.T, view string, f app.Frame) []string {
	t.Helper()
	lines := strings.Split(ansi.Strip(view), "\n")
	require.Len(t, lines, f.Height)
	for i, line := range lines {
		assert.Equal(t, f.Width, ansi.StringWidth(line), "line %d", i)
	}
	return lines
}

func TestDrawBoard(t *testing.T) {
	f := testFrame()
	lines := plainLines(t, Draw(f), f)

	assert.Contains(t, lines[0], "Total: 1.0 KiB (3 files), freed: 0 B | /scan (1.0 KiB, 3 files)")
	assert.NotContains(t, lines[0], "Scanning")
	assert.Contains(t, lines[f.Height-2], "SELECTED: big (768 B, 2 files)")
	assert.Contains(t, lines[f.Height-1], "<BACKSPACE>")

	view := strings.Join(lines, "\n")
	assert.Contains(t, view, "big/")
	assert.Contains(t, view, "small.txt")
	assert.Contains(t, view, "┌")
}

func TestDrawWhileLoading(t *testing.T) {
	f := testFrame()
	f.Mode = app.Loading{}
	f.Loaded = false
	f.Selected = -1
	f.Effects.LoadingIndicator = 3
	f.Effects.LastReadPath = "/scan/big/deep"
	lines := plainLines(t, Draw(f), f)

	assert.Contains(t, lines[0], spinnerFrames[3]+" Scanning | ")
	assert.Contains(t, lines[f.Height-2], "/scan/big/deep")
	assert.NotContains(t, lines[f.Height-1], "BACKSPACE")
}

func TestDrawTitleShowsZoomAndFailures(t *testing.T) {
	f := testFrame()
	f.Width = 140
	f.Magnification = 2
	f.FailedToRead = 5
	lines := plainLines(t, Draw(f), f)

	assert.Contains(t, lines[0], "(x4)")
	assert.Contains(t, lines[0], "(failed to read 5 files)")
}

func TestDrawTitleFallsBackWhenNarrow(t *testing.T) {
	f := testFrame()
	f.Width = 50
	f.Tiles = nil
	f.Selected = -1
	lines := plainLines(t, Draw(f), f)

	assert.NotContains(t, lines[0], "Total:")
	assert.Contains(t, lines[0], "/scan (1.0 KiB, 3 files)")
}

func TestDrawSmallItemsLegend(t *testing.T) {
	f := testFrame()
	f.Tiles = append(f.Tiles, treemap.Tile{
		Item:       treemap.Item{Name: "", Size: 4},
		Rect:       treemap.Rect{X: 96, Y: 1, Width: 4, Height: 4},
		SmallItems: 3,
	})
	f.SmallItems = &f.Tiles[2].Rect
	f.Tiles[1].Rect.Width = 36
	f.Selected = 2
	lines := plainLines(t, Draw(f), f)

	assert.Contains(t, lines[f.Height-2], smallFilesLegend)
	assert.Contains(t, lines[f.Height-2], "SELECTED: 3 small files")
	assert.Contains(t, lines[1], "xxxx")
}

func TestDrawModals(t *testing.T) {
	target := testFrame().Tiles[0]
	tests := []struct {
		name    string
		mode    app.Mode
		effects app.Effects
		want    []string
	}{
		{"delete", app.DeleteFile{Target: target}, app.Effects{}, []string{"Delete folder big?", "(768 B, 2 files)", confirmHint}},
		{"deleting", app.DeleteFile{Target: target}, app.Effects{DeletionInProgress: true}, []string{"Deleting folder"}},
		{"error", app.ErrorMessage{Message: "permission denied"}, app.Effects{}, []string{"Error: permission denied", dismissHint}},
		{"warning", app.WarningMessage{Message: "Cannot delete files while scanning"}, app.Effects{}, []string{"Cannot delete files while scanning"}},
		{"exit while scanning", app.Exiting{}, app.Effects{}, []string{"Are you sure you want to quit?", "(the scan is still running)"}},
		{"exit", app.Exiting{AppLoaded: true}, app.Effects{}, []string{"Are you sure you want to quit?"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := testFrame()
			f.Mode = tt.mode
			f.Effects = tt.effects
			view := strings.Join(plainLines(t, Draw(f), f), "\n")
			for _, want := range tt.want {
				assert.Contains(t, view, want)
			}
			assert.Contains(t, view, "╭")
		})
	}
}

func TestDrawScreenTooSmall(t *testing.T) {
	f := app.Frame{Mode: app.ScreenTooSmall{}, Width: 40, Height: 10}
	view := ansi.Strip(Draw(f))
	assert.Contains(t, view, tooSmallMessage)
	assert.Len(t, strings.Split(view, "\n"), 10)
}

func TestTileLabel(t *testing.T) {
	folder := treemap.Tile{Item: treemap.Item{Name: "photos", Size: 2048, Kind: tree.Folder, Descendants: 12}}
	assert.Equal(t, []string{"photos/", "2.0 KiB (12 files)"}, tileLabel(folder, 30))
	assert.Equal(t, []string{"photos/", "2.0 KiB"}, tileLabel(folder, 10))
	assert.Equal(t, []string{"phot…"}, tileLabel(folder, 5))
	assert.Nil(t, tileLabel(folder, 0))
}

func TestTruncateMiddle(t *testing.T) {
	assert.Equal(t, "short", truncateMiddle("short", 10))
	assert.Equal(t, "abc[...]nop", truncateMiddle("abcdefghijklmnop", 11))
	assert.Equal(t, "abcd", truncateMiddle("abcdefghijklmnop", 4))
	assert.Empty(t, truncateMiddle("abc", 0))
}

func TestFirstFitting(t *testing.T) {
	assert.Equal(t, "mid", firstFitting(4, "long one", "mid", "s"))
	assert.Empty(t, firstFitting(0, "a"))
}

func TestSpliceOverlay(t *testing.T) {
	view := "aaaaa\nbbbbb\nccccc"
	out := spliceOverlay(view, []string{"XY", "ZW", "QQ"}, 1, 1)
	lines := strings.Split(ansi.Strip(out), "\n")
	assert.Equal(t, []string{"aaaaa", "bXYbb", "cZWcc"}, lines)
}

func TestTranslate(t *testing.T) {
	runes := func(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }
	tests := []struct {
		msg  tea.KeyMsg
		want sequencer.Key
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, sequencer.KeyUp},
		{runes("j"), sequencer.KeyDown},
		{runes("h"), sequencer.KeyLeft},
		{tea.KeyMsg{Type: tea.KeyRight}, sequencer.KeyRight},
		{tea.KeyMsg{Type: tea.KeyEnter}, sequencer.KeyEnter},
		{tea.KeyMsg{Type: tea.KeyEsc}, sequencer.KeyBack},
		{tea.KeyMsg{Type: tea.KeyBackspace}, sequencer.KeyDelete},
		{runes("+"), sequencer.KeyZoomIn},
		{runes("-"), sequencer.KeyZoomOut},
		{runes("0"), sequencer.KeyZoomReset},
		{runes("y"), sequencer.KeyConfirm},
		{runes("N"), sequencer.KeyCancel},
		{tea.KeyMsg{Type: tea.KeyCtrlC}, sequencer.KeyQuit},
		{runes("q"), sequencer.KeyQuit},
		{runes("z"), sequencer.KeyOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DefaultKeyMap.Translate(tt.msg), tt.msg.String())
	}
}

type chanSender chan tea.Msg

func (c chanSender) Send(msg tea.Msg) { c <- msg }

func TestRendererKeepsLatestFrame(t *testing.T) {
	r := NewRenderer()
	_, ok := r.Latest()
	assert.False(t, ok)

	first := testFrame()
	second := testFrame()
	second.TotalSize = 4096
	r.Render(first)
	r.Render(second)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := make(chanSender, 4)
	done := make(chan error, 1)
	go func() { done <- r.Forward(ctx, out) }()

	select {
	case msg := <-out:
		fm, ok := msg.(frameMsg)
		require.True(t, ok)
		assert.Equal(t, int64(4096), fm.frame.TotalSize)
	case <-time.After(time.Second):
		t.Fatal("no frame forwarded")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Forward did not return")
	}
}

func TestModelDispatchesInstructions(t *testing.T) {
	var sent []sequencer.Instruction
	send := func(_ context.Context, ins sequencer.Instruction) error {
		sent = append(sent, ins)
		return nil
	}
	m := NewModel(context.Background(), send, DefaultKeyMap)
	assert.Empty(t, m.View())

	next, cmd := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.Nil(t, cmd)
	next, cmd = next.Update(tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd)
	next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})

	assert.Equal(t, []sequencer.Instruction{
		sequencer.Resize{Width: 80, Height: 24},
		sequencer.ResetUIMode{},
		sequencer.Render{},
		sequencer.Keypress{Key: sequencer.KeyLeft},
		sequencer.Keypress{Key: sequencer.KeyQuit},
	}, sent)

	next, _ = next.Update(frameMsg{frame: testFrame()})
	assert.Contains(t, ansi.Strip(next.View()), "SELECTED: big")
}

func TestModelQuitsWhenSequencerClosed(t *testing.T) {
	send := func(context.Context, sequencer.Instruction) error { return sequencer.ErrClosed }
	m := NewModel(context.Background(), send, DefaultKeyMap)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
