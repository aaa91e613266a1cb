package catch

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/tilt-catch/internal/core"
	"github.com/vovakirdan/tilt-catch/internal/games/catch/sim"
)

// Visual characters for rendering
const (
	GoodChar   = 'o'
	HazardChar = '*'
	GroundChar = '▔'
)

const (
	minScreenW = 24
	minScreenH = 12
)

// Render draws the arena, HUD and any state overlay.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	w, h := dst.Width(), dst.Height()
	if w < minScreenW || h < minScreenH {
		dst.DrawTextCentered(h/2, "Terminal too small", core.ColorYellow)
		return
	}
	if g.session == nil {
		return
	}

	v := newViewport(g.session.Arena(), w, h)

	dst.DrawHLine(0, h-1, w, GroundChar, core.ColorGray)

	for _, it := range g.session.Arena().Items() {
		x, y := v.cell(it.X, it.Y)
		if it.Kind == sim.ItemHazard {
			dst.SetColor(x, y, HazardChar, core.ColorBrightRed)
		} else {
			dst.SetColor(x, y, GoodChar, core.ColorBrightGreen)
		}
	}

	g.drawCatcher(dst, v)
	g.drawHUD(dst)

	switch g.session.State() {
	case sim.StateInstructions:
		lines := []string{"Catch o  Dodge *", "Tilt the phone or use ←/→", "Enter to start"}
		if g.configErr != nil {
			lines = append(lines, firstLine("Config ignored: "+g.configErr.Error(), w-4))
		}
		g.drawCenteredMessage(dst, "TILT CATCH", core.ColorCyan, lines...)
	case sim.StatePaused:
		g.drawCenteredMessage(dst, "PAUSED", core.ColorYellow, "P resume  R start over  B menu")
	case sim.StateWon:
		g.drawCenteredMessage(dst, "YOU WIN", core.ColorBrightGreen,
			fmt.Sprintf("Score: %d  |  Enter play again  B menu", g.session.Score()))
	case sim.StateLost:
		g.drawCenteredMessage(dst, "GAME OVER", core.ColorRed,
			fmt.Sprintf("Score: %d  |  Enter play again  B menu", g.session.Score()))
	}
}

// viewport maps arena points onto screen cells. Row 0 holds the HUD and
// the last row the ground line.
type viewport struct {
	arenaW, arenaH float64
	cols, rows     int
}

func newViewport(a *sim.Arena, w, h int) viewport {
	return viewport{arenaW: a.Width(), arenaH: a.Height(), cols: w, rows: h - 2}
}

func (v viewport) cell(x, y float64) (int, int) {
	col := int(x / v.arenaW * float64(v.cols))
	row := 1 + int((v.arenaH-y)/v.arenaH*float64(v.rows))
	return core.Clamp(col, 0, v.cols-1), core.Clamp(row, 1, v.rows)
}

func (v viewport) width(w float64) int {
	return core.Max(3, int(w/v.arenaW*float64(v.cols)+0.5))
}

// drawCatcher draws the basket with a facing marker above it.
func (g *Game) drawCatcher(dst *core.Screen, v viewport) {
	c := g.session.Arena().Catcher()
	n := v.width(c.W)
	x, y := v.cell(c.X, c.Y)
	left := x - n/2

	basket := `\` + strings.Repeat("_", n-2) + `/`
	dst.DrawTextColor(left, y, basket, core.ColorCyan)

	marker, mx := '>', left+n-2
	if c.Facing == sim.FacingLeft {
		marker, mx = '<', left+1
	}
	dst.SetColor(mx, y-1, marker, core.ColorBrightYellow)
}

func (g *Game) drawHUD(dst *core.Screen) {
	cfg := g.session.Config()
	score := fmt.Sprintf(" Score: %d/%d ", g.session.Score(), cfg.WinScore)
	dst.DrawTextColor(1, 0, score, core.ColorWhite)

	mode := " tilt: " + cfg.Tilt.Mode.String() + " "
	dst.DrawTextColor(dst.Width()-len(mode)-1, 0, mode, core.ColorGray)

	if g.flashLeft > 0 && g.flash != "" {
		dst.DrawTextCentered(0, " "+g.flash+" ", g.flashColor)
	}
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title string, color core.Color, lines ...string) {
	w := dst.Width()
	h := dst.Height()

	boxW := len([]rune(title))
	for _, l := range lines {
		boxW = core.Max(boxW, len([]rune(l)))
	}
	boxW = core.Min(boxW+4, w)
	boxH := len(lines) + 4
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH), color)
	dst.DrawTextCentered(boxY+1, title, color)
	for i, l := range lines {
		dst.DrawTextCentered(boxY+3+i, firstLine(l, boxW-2), core.ColorDefault)
	}
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	r := []rune(s)
	if max > 3 && len(r) > max {
		return string(r[:max-3]) + "..."
	}
	return s
}
