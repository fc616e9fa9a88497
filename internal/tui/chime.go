// internal/tui/chime.go
//
// Win chime: a short rising arpeggio played through the speaker.
// Audio is optional; when the device cannot be opened the chime is silent
// and the game carries on.

package tui

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
	"github.com/rs/zerolog"

	"github.com/robalobadob/assembly-endgame/internal/game"
)

const (
	sampleRate = beep.SampleRate(48000)
	noteLength = 120 * time.Millisecond
	noteGap    = 20 * time.Millisecond
	chimeLevel = 0.5
)

// chimeNotes is C5 E5 G5 C6.
var chimeNotes = []float64{523.25, 659.25, 783.99, 1046.50}

// Chime is a Celebrator that plays chimeNotes.
type Chime struct {
	mixer *beep.Mixer
	log   zerolog.Logger
	ready bool
}

// NewChime opens the speaker. With enabled false, or when the device is
// unavailable, the returned Chime does nothing.
func NewChime(enabled bool, log zerolog.Logger) *Chime {
	c := &Chime{mixer: &beep.Mixer{}, log: log}
	if !enabled {
		return c
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Millisecond*100)); err != nil {
		log.Warn().Err(err).Msg("audio unavailable, chime disabled")
		return c
	}
	speaker.Play(c.mixer)
	c.ready = true
	return c
}

// Celebrate queues the chime. The celebration parameters only matter for
// the visual effect.
func (c *Chime) Celebrate(game.Celebration) {
	if !c.ready {
		return
	}
	s, err := chimeStreamer(sampleRate)
	if err != nil {
		c.log.Error().Err(err).Msg("build chime")
		return
	}
	speaker.Lock()
	c.mixer.Add(s)
	speaker.Unlock()
}

// Close releases the audio device.
func (c *Chime) Close() {
	if c.ready {
		speaker.Lock()
		c.mixer.Clear()
		speaker.Unlock()
		speaker.Close()
		c.ready = false
	}
}

// chimeStreamer builds the finite arpeggio stream.
func chimeStreamer(sr beep.SampleRate) (beep.Streamer, error) {
	parts := make([]beep.Streamer, 0, len(chimeNotes)*2)
	for _, freq := range chimeNotes {
		tone, err := generators.SineTone(sr, freq)
		if err != nil {
			return nil, err
		}
		parts = append(parts, beep.Take(sr.N(noteLength), tone), beep.Silence(sr.N(noteGap)))
	}
	return &effects.Volume{
		Streamer: beep.Seq(parts...),
		Base:     2,
		Volume:   math.Log2(chimeLevel),
		Silent:   false,
	}, nil
}
