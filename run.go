package sketchpad

import (
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Resizable lets the user resize the window.
	Resizable bool
	// ShowHUD prints the tool, state and zoom in the top-left corner.
	ShowHUD bool
	// UpdateFunc, when set, is called once per tick after input is processed.
	UpdateFunc func() error
	// DrawFunc, when set, is called after the engine has drawn, for host UI.
	DrawFunc func(screen *ebiten.Image)
}

// Run opens a window and drives the engine from ebiten's mouse, touch,
// wheel and keyboard input until the window is closed.
func Run(e *Engine, cfg RunConfig) error {
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 800
	}
	if cfg.Title == "" {
		cfg.Title = "Sketchpad"
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&gameShell{engine: e, cfg: cfg, width: cfg.Width, height: cfg.Height})
}

// gameShell adapts an Engine to ebiten.Game.
type gameShell struct {
	engine        *Engine
	cfg           RunConfig
	width, height int

	lastX, lastY int
	touchIDs     []ebiten.TouchID
	touchPos     map[ebiten.TouchID][2]int
	cursor       ebiten.CursorShapeType
}

func (g *gameShell) Update() error {
	e := g.engine
	mods := readModifiers()
	dt := 1.0 / float64(ebiten.TPS())

	g.processKeys(mods)
	// Scripted input owns the pointer while the inject queue is non-empty.
	if e.PendingInjected() == 0 {
		g.processMouse(mods)
		g.processTouches()
		g.processWheel(mods)
	}
	e.Update(dt)

	mx, my := ebiten.CursorPosition()
	g.setCursor(e.CursorAt(float64(mx), float64(my), SourceMouse))

	if g.cfg.UpdateFunc != nil {
		return g.cfg.UpdateFunc()
	}
	return nil
}

func (g *gameShell) Draw(screen *ebiten.Image) {
	e := g.engine
	e.Draw(screen)
	if g.cfg.ShowHUD {
		ebitenutil.DebugPrintAt(screen,
			fmt.Sprintf("tool: %s  state: %s  zoom: %.0f%%", e.Tool(), e.State(), e.Viewport().Zoom*100),
			8, g.height-20)
	}
	if g.cfg.DrawFunc != nil {
		g.cfg.DrawFunc(screen)
	}
}

func (g *gameShell) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

// readModifiers reads the current keyboard modifier state, including the
// space bar used as the hand tool.
func readModifiers() KeyModifiers {
	var mods KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) || ebiten.IsKeyPressed(ebiten.KeyShiftLeft) || ebiten.IsKeyPressed(ebiten.KeyShiftRight) {
		mods |= ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyControlLeft) || ebiten.IsKeyPressed(ebiten.KeyControlRight) {
		mods |= ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) || ebiten.IsKeyPressed(ebiten.KeyAltLeft) || ebiten.IsKeyPressed(ebiten.KeyAltRight) {
		mods |= ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) || ebiten.IsKeyPressed(ebiten.KeyMetaLeft) || ebiten.IsKeyPressed(ebiten.KeyMetaRight) {
		mods |= ModMeta
	}
	if ebiten.IsKeyPressed(ebiten.KeySpace) {
		mods |= ModSpace
	}
	return mods
}

// toolKeys maps single-key shortcuts to tools.
var toolKeys = map[ebiten.Key]Tool{
	ebiten.KeyV: ToolSelect,
	ebiten.KeyP: ToolPen,
	ebiten.KeyE: ToolErase,
	ebiten.KeyR: ToolRectangle,
	ebiten.KeyO: ToolCircle,
	ebiten.KeyB: ToolButton,
	ebiten.KeyI: ToolInput,
	ebiten.KeyT: ToolText,
	ebiten.KeyM: ToolImage,
}

func (g *gameShell) processKeys(mods KeyModifiers) {
	e := g.engine
	command := mods&(ModCtrl|ModMeta) != 0

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		e.Cancel()
	case inpututil.IsKeyJustPressed(ebiten.KeyDelete), inpututil.IsKeyJustPressed(ebiten.KeyBackspace):
		e.DeleteSelected()
	case command && inpututil.IsKeyJustPressed(ebiten.KeyG):
		if mods&ModShift != 0 {
			e.UngroupSelected()
		} else {
			e.GroupSelected()
		}
	case command && inpututil.IsKeyJustPressed(ebiten.KeyDigit0):
		e.Viewport().Reset()
		e.emitViewport()
	case command && inpututil.IsKeyJustPressed(ebiten.KeyDigit1):
		e.ZoomToFit(float64(g.width), float64(g.height), 40)
	}
	if command {
		return
	}

	for k, t := range toolKeys {
		if inpututil.IsKeyJustPressed(k) {
			e.SetTool(t)
		}
	}

	step := 1.0
	if mods&ModShift != 0 {
		step = 10
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		e.NudgeSelection(-step, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		e.NudgeSelection(step, 0)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		e.NudgeSelection(0, -step)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		e.NudgeSelection(0, step)
	}
}

// mouseButtons pairs ebiten buttons with the engine's.
var mouseButtons = [...]struct {
	eb ebiten.MouseButton
	mb MouseButton
}{
	{ebiten.MouseButtonLeft, MouseButtonLeft},
	{ebiten.MouseButtonRight, MouseButtonRight},
	{ebiten.MouseButtonMiddle, MouseButtonMiddle},
}

func (g *gameShell) processMouse(mods KeyModifiers) {
	e := g.engine
	mx, my := ebiten.CursorPosition()
	now := time.Now()
	ev := PointerEvent{X: float64(mx), Y: float64(my), Modifiers: mods, Source: SourceMouse, Time: now}

	// Losing focus mid-gesture counts as a release outside the canvas.
	if !ebiten.IsFocused() {
		if e.State() != ActionNone && !e.touch.pinching {
			e.PointerUp(ev)
		}
		return
	}

	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustPressed(b.eb) {
			ev.Button = b.mb
			e.PointerDown(ev)
			break
		}
	}
	if mx != g.lastX || my != g.lastY {
		e.PointerMove(ev)
	}
	for _, b := range mouseButtons {
		if inpututil.IsMouseButtonJustReleased(b.eb) {
			ev.Button = b.mb
			e.PointerUp(ev)
			break
		}
	}
	g.lastX, g.lastY = mx, my
}

func (g *gameShell) processTouches() {
	e := g.engine
	now := time.Now()
	if g.touchPos == nil {
		g.touchPos = make(map[ebiten.TouchID][2]int)
	}

	g.touchIDs = inpututil.AppendJustPressedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		g.touchPos[id] = [2]int{x, y}
		e.TouchStart(int(id), float64(x), float64(y), now)
	}

	g.touchIDs = ebiten.AppendTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := ebiten.TouchPosition(id)
		if prev, ok := g.touchPos[id]; ok && prev == [2]int{x, y} {
			continue
		}
		g.touchPos[id] = [2]int{x, y}
		e.TouchMove(int(id), float64(x), float64(y), now)
	}

	g.touchIDs = inpututil.AppendJustReleasedTouchIDs(g.touchIDs[:0])
	for _, id := range g.touchIDs {
		x, y := inpututil.TouchPositionInPreviousTick(id)
		delete(g.touchPos, id)
		e.TouchEnd(int(id), float64(x), float64(y), now)
	}
}

func (g *gameShell) processWheel(mods KeyModifiers) {
	_, dy := ebiten.Wheel()
	if dy == 0 {
		return
	}
	mx, my := ebiten.CursorPosition()
	g.engine.Wheel(WheelEvent{X: float64(mx), Y: float64(my), DeltaY: dy, Modifiers: mods})
}

// cursorShapes maps engine cursors to ebiten cursor shapes.
var cursorShapes = [...]ebiten.CursorShapeType{
	CursorDefault:    ebiten.CursorShapeDefault,
	CursorMove:       ebiten.CursorShapeMove,
	CursorResizeNS:   ebiten.CursorShapeNSResize,
	CursorResizeEW:   ebiten.CursorShapeEWResize,
	CursorResizeNESW: ebiten.CursorShapeNESWResize,
	CursorResizeNWSE: ebiten.CursorShapeNWSEResize,
	CursorRotate:     ebiten.CursorShapePointer,
	CursorCrosshair:  ebiten.CursorShapeCrosshair,
	CursorGrab:       ebiten.CursorShapeMove,
	CursorGrabbing:   ebiten.CursorShapeMove,
}

func (g *gameShell) setCursor(c Cursor) {
	shape := ebiten.CursorShapeDefault
	if int(c) < len(cursorShapes) {
		shape = cursorShapes[c]
	}
	if shape != g.cursor {
		ebiten.SetCursorShape(shape)
		g.cursor = shape
	}
}
