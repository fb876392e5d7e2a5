// Package driver runs a sway Manager inside an Ebitengine game loop.
//
// Wrap your game in a [Game] and every tick the manager's Normal pass runs
// before your Update and its Late pass after it:
//
//	m, _ := sway.NewManager(sway.DefaultSettings())
//	g := &driver.Game{Manager: m, Game: myGame}
//	if err := ebiten.RunGame(g); err != nil {
//		log.Fatal(err)
//	}
//
// Or let [Run] create the window for you.
package driver

import (
	"fmt"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/sway"
)

// Game is an ebiten.Game that advances a sway Manager around an inner game.
type Game struct {
	// Manager is advanced once per tick. Required.
	Manager *sway.Manager
	// Game is the wrapped game. When nil, Game only runs the manager and
	// draws nothing but the stats overlay.
	Game ebiten.Game
	// Watcher, when set, feeds reloaded settings to Manager every tick.
	Watcher *sway.SettingsWatcher
	// Stats, when set, is updated every tick and drawn on top of the game.
	Stats *StatsOverlay
	// Script, when set, issues its commands before the Normal pass.
	Script *Script
}

// TickDelta returns the duration of one Ebitengine tick in seconds.
func TickDelta() float32 {
	tps := ebiten.TPS()
	if tps <= 0 {
		tps = ebiten.DefaultTPS
	}
	return float32(1.0 / float64(tps))
}

// Update runs the Normal pass, the inner game's Update, then the Late pass.
// Every tween gets the same delta; sway applies its own time scales.
func (g *Game) Update() error {
	if g.Watcher != nil {
		if err := g.Manager.ApplyPending(g.Watcher); err != nil {
			log.Printf("[sway] settings reload failed: %v", err)
		}
	}

	if g.Script != nil {
		g.Script.Step(g.Manager)
	}

	dt := TickDelta()
	g.Manager.Update(sway.UpdateNormal, dt, dt)
	if g.Game != nil {
		if err := g.Game.Update(); err != nil {
			return err
		}
	}
	g.Manager.Update(sway.UpdateLate, dt, dt)

	if g.Stats != nil {
		g.Stats.Update(g.Manager, dt)
	}
	return nil
}

// Draw draws the inner game, then the stats overlay.
func (g *Game) Draw(screen *ebiten.Image) {
	if g.Game != nil {
		g.Game.Draw(screen)
	}
	if g.Stats != nil {
		g.Stats.Draw(screen)
	}
}

// Layout delegates to the inner game, or uses the outside size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if g.Game != nil {
		return g.Game.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title  string
	Width  int
	Height int
	// ShowStats draws a live/pooled/playing counter in the top-left corner.
	ShowStats bool
	// SettingsPath, when set, watches a sway settings file and applies it
	// whenever it changes.
	SettingsPath string
	// ScriptPath, when set, loads a Script and runs it from the first tick.
	ScriptPath string
}

// Run opens a window and runs game with m driven around it until the window
// closes or game returns an error.
func Run(m *sway.Manager, game ebiten.Game, cfg RunConfig) error {
	g := &Game{Manager: m, Game: game}
	if cfg.ShowStats {
		g.Stats = NewStatsOverlay()
	}
	if cfg.ScriptPath != "" {
		data, err := os.ReadFile(cfg.ScriptPath)
		if err != nil {
			return fmt.Errorf("failed to read script: %w", err)
		}
		if g.Script, err = LoadScript(data); err != nil {
			return err
		}
	}
	if cfg.SettingsPath != "" {
		w, err := sway.NewSettingsWatcher(cfg.SettingsPath)
		if err != nil {
			return err
		}
		defer w.Close()
		g.Watcher = w
	}

	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	err := ebiten.RunGame(g)
	m.Clear(true)
	return err
}

// ColorScale converts a sway Color into an ebiten ColorScale, premultiplying
// RGB by alpha. Use it to apply tweened colors to DrawImageOptions.
func ColorScale(c sway.Color) ebiten.ColorScale {
	var cs ebiten.ColorScale
	cs.Scale(float32(c.R*c.A), float32(c.G*c.A), float32(c.B*c.A), float32(c.A))
	return cs
}
