// Package gui is a raylib window that replays a recorded snapshot series:
// the temperature profile as a line plot above a colour strip of the rod.
package gui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/heatsim/internal/snapshot"
)

const (
	screenW = 1280
	screenH = 720
)

// Monochrome chrome; only the rod itself is coloured.
var (
	colBg      = rl.NewColor(10, 10, 10, 255)
	colAccent  = rl.NewColor(180, 180, 180, 255)
	colSelect  = rl.NewColor(255, 255, 255, 255)
	colText    = rl.NewColor(140, 140, 140, 255)
	colTextDim = rl.NewColor(60, 60, 60, 255)
	colGrid    = rl.NewColor(30, 30, 30, 255)

	colCold = rl.NewColor(0, 51, 255, 255)
	colWarm = rl.NewColor(255, 204, 0, 255)
	colHot  = rl.NewColor(255, 0, 0, 255)
)

type App struct {
	Title     string
	Positions []float64
	Series    snapshot.Series
	Frame     int
	Running   bool
	Loop      bool
	FPS       float64
	Font      rl.Font

	lo, hi  float64
	elapsed float64
}

func initWindow(title string) {
	rl.InitWindow(screenW, screenH, title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont falls back to the raylib default font when the file is missing.
func loadFont() rl.Font {
	font := rl.LoadFontEx("/usr/share/fonts/liberation/LiberationMono-Regular.ttf", 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp opens the window. Frames advance at fps snapshots per second.
func NewApp(title string, positions []float64, series snapshot.Series, fps float64) *App {
	if fps <= 0 {
		fps = 20
	}
	initWindow("heatsim :: " + title)
	a := &App{
		Title:     title,
		Positions: positions,
		Series:    series,
		Running:   true,
		FPS:       fps,
		Font:      loadFont(),
	}
	a.lo, a.hi = axisRange(series)
	return a
}

// Run replays the series until the window is closed or q is pressed.
func Run(title string, positions []float64, series snapshot.Series, fps float64) error {
	if len(series) == 0 {
		return fmt.Errorf("gui: no snapshots to replay")
	}
	a := NewApp(title, positions, series, fps)
	defer rl.CloseWindow()
	defer rl.UnloadFont(a.Font)
	a.RunLoop()
	return nil
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update(float64(rl.GetFrameTime()))
		a.Draw()
	}
}

// Update handles input and advances the replay by dt seconds.
func (a *App) Update(dt float64) {
	last := len(a.Series) - 1
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if !a.Running && a.Frame == last {
			a.Frame = 0
		}
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Frame, a.elapsed = 0, 0
		a.Running = true
	case rl.IsKeyPressed(rl.KeyL):
		a.Loop = !a.Loop
	case rl.IsKeyPressed(rl.KeyRight):
		a.Running = false
		a.Frame = min(a.Frame+1, last)
	case rl.IsKeyPressed(rl.KeyLeft):
		a.Running = false
		a.Frame = max(a.Frame-1, 0)
	}

	if !a.Running {
		return
	}
	a.elapsed += dt
	step := 1 / a.FPS
	for a.elapsed >= step {
		a.elapsed -= step
		if a.Frame < last {
			a.Frame++
			continue
		}
		if a.Loop {
			a.Frame = 0
			continue
		}
		a.Running = false
		a.elapsed = 0
		break
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(colBg)
	a.drawProfile()
	a.drawRod()
	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	fr := a.Series[a.Frame]
	a.drawText("heatsim", 30, 30, 24, colSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Title), 150, 34, 16, colText)
	a.drawText(fmt.Sprintf("Time = %.2f s", fr.Time), 30, 70, 18, colAccent)
	a.drawText(fmt.Sprintf("frame %d/%d", a.Frame+1, len(a.Series)), 250, 72, 14, colText)

	status, col := "RUNNING", colSelect
	switch {
	case a.Running:
	case a.Frame == len(a.Series)-1:
		status, col = "FINISHED", colAccent
	default:
		status, col = "PAUSED", colTextDim
	}
	a.drawText(status, 1150, 30, 16, col)
	if a.Loop {
		a.drawText("LOOP", 1150, 52, 14, colText)
	}

	a.drawText("[SPACE] PAUSE  [R] RESTART  [<-/->] STEP  [L] LOOP  [Q] QUIT", 640, 680, 14, colTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, colTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
