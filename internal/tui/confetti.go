// internal/tui/confetti.go
//
// Terminal confetti: a fixed batch of particles launched from the top edge,
// pulled down by gravity and dropped once they leave the screen. Nothing is
// respawned unless the celebration asks to recycle.

package tui

import (
	"math"
	"math/rand"

	"github.com/gdamore/tcell/v2"

	"github.com/robalobadob/assembly-endgame/internal/game"
)

const (
	gravity  = 18.0 // cells/s²
	maxSpeed = 14.0
)

var (
	confettiGlyphs = []rune{'*', '•', '+', '░', '▪', '~'}
	confettiColors = []tcell.Color{
		tcell.NewRGBColor(0xE2, 0x68, 0x0F),
		tcell.NewRGBColor(0x32, 0x8A, 0xF1),
		tcell.NewRGBColor(0xF4, 0xEB, 0x13),
		tcell.NewRGBColor(0x2E, 0xD3, 0xE9),
		tcell.NewRGBColor(0x10, 0xA9, 0x5B),
		tcell.NewRGBColor(0xD0, 0x2B, 0x2B),
	}
)

type particle struct {
	x, y   float64
	vx, vy float64
	glyph  rune
	color  tcell.Color
}

type confetti struct {
	width, height int
	recycle       bool
	rng           *rand.Rand
	particles     []particle
}

// newConfetti launches c.Pieces particles over a c.Width × c.Height area.
func newConfetti(c game.Celebration, rng *rand.Rand) *confetti {
	cf := &confetti{
		width:     max(c.Width, 1),
		height:    max(c.Height, 1),
		recycle:   c.Recycle,
		rng:       rng,
		particles: make([]particle, c.Pieces),
	}
	for i := range cf.particles {
		cf.spawn(&cf.particles[i])
	}
	return cf
}

func (cf *confetti) spawn(p *particle) {
	*p = particle{
		x:     cf.rng.Float64() * float64(cf.width),
		y:     -cf.rng.Float64() * float64(cf.height),
		vx:    (cf.rng.Float64() - 0.5) * 6,
		vy:    cf.rng.Float64() * 4,
		glyph: confettiGlyphs[cf.rng.Intn(len(confettiGlyphs))],
		color: confettiColors[cf.rng.Intn(len(confettiColors))],
	}
}

// step advances the particles by dt seconds and reports whether any remain.
func (cf *confetti) step(dt float64) bool {
	live := cf.particles[:0]
	for _, p := range cf.particles {
		p.vy = math.Min(p.vy+gravity*dt, maxSpeed)
		p.x += p.vx * dt
		p.y += p.vy * dt
		if p.y >= float64(cf.height) || p.x < -1 || p.x > float64(cf.width)+1 {
			if !cf.recycle {
				continue
			}
			cf.spawn(&p)
		}
		live = append(live, p)
	}
	cf.particles = live
	return len(cf.particles) > 0
}

func (cf *confetti) draw(s tcell.Screen) {
	for _, p := range cf.particles {
		if p.y < 0 {
			continue
		}
		x, y := int(p.x), int(p.y)
		_, _, style, _ := s.GetContent(x, y)
		s.SetContent(x, y, p.glyph, nil, style.Foreground(p.color))
	}
}

// count returns the number of particles still in flight.
func (cf *confetti) count() int { return len(cf.particles) }
