package driver

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/phanxgames/sway"
)

// StatsOverlay shows the manager's animation counts with FPS and TPS.
// The text is refreshed every ~0.5 seconds.
type StatsOverlay struct {
	img        *ebiten.Image
	text       string
	lastUpdate float32
}

// NewStatsOverlay creates an overlay with its own backing image.
func NewStatsOverlay() *StatsOverlay {
	// 160x64 is enough for four short lines of debug text.
	return &StatsOverlay{img: ebiten.NewImage(160, 64)}
}

// Text returns the text drawn by the last refresh.
func (o *StatsOverlay) Text() string { return o.text }

// Update refreshes the text when enough time has passed.
func (o *StatsOverlay) Update(m *sway.Manager, dt float32) {
	o.lastUpdate += dt
	if o.text != "" && o.lastUpdate < 0.5 {
		return
	}
	o.lastUpdate = 0
	o.text = statsText(m, ebiten.ActualFPS(), ebiten.ActualTPS())

	o.img.Clear()
	// Semi-transparent background for readability
	o.img.Fill(color.RGBA{0, 0, 0, 128})
	ebitenutil.DebugPrint(o.img, o.text)
}

// Draw draws the overlay in the top-left corner of screen.
func (o *StatsOverlay) Draw(screen *ebiten.Image) {
	screen.DrawImage(o.img, nil)
}

func statsText(m *sway.Manager, fps, tps float64) string {
	pooledTweens, pooledSequences := m.TotalPooled()
	return fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nActive: %d (%d playing)\nPooled: %d/%d",
		fps, tps, m.TotalActive(), m.TotalPlaying(), pooledTweens, pooledSequences)
}
