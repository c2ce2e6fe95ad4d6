package assets

import (
	"log"
	"maps"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/platformer/sound"
)

type request struct {
	op     sound.Op
	name   string
	volume float64
}

// Mixer plays named sound effects through ebiten audio. Play and Stop only
// record requests; Update applies them once per frame so a sound asked for
// several times in one tick starts once.
type Mixer struct {
	load    func(file string) (*audio.Player, error)
	clips   map[string]string
	players map[string]*audio.Player
	missing map[string]bool
	pending []request
}

var _ sound.Sink = (*Mixer)(nil)

// NewMixer loads one player per logical sound. clips maps the logical name
// (jump, fire, pop) to an embedded file. Clips that fail to load are logged
// and stay silent.
func NewMixer(ctx *audio.Context, clips map[string]string) *Mixer {
	m := newMixer(func(file string) (*audio.Player, error) {
		return LoadAudioPlayer(ctx, file)
	})
	m.SetClips(clips)
	return m
}

func newMixer(load func(file string) (*audio.Player, error)) *Mixer {
	return &Mixer{
		load:    load,
		players: map[string]*audio.Player{},
		missing: map[string]bool{},
	}
}

// SetClips replaces the clip table and reloads the players. It reports
// whether the table changed; an identical table keeps the loaded players.
func (m *Mixer) SetClips(clips map[string]string) bool {
	if m.clips != nil && maps.Equal(m.clips, clips) {
		return false
	}
	m.Close()
	m.clips = maps.Clone(clips)
	if m.clips == nil {
		m.clips = map[string]string{}
	}
	m.missing = make(map[string]bool)
	for name, file := range clips {
		p, err := m.load(file)
		if err != nil {
			log.Printf("assets: sound %q from %s: %v", name, file, err)
			m.missing[name] = true
			continue
		}
		m.players[name] = p
	}
	return true
}

func (m *Mixer) Play(name string, volume float64) {
	m.pending = append(m.pending, request{op: sound.OpPlay, name: name, volume: volume})
}

func (m *Mixer) Stop(name string) {
	m.pending = append(m.pending, request{op: sound.OpStop, name: name})
}

// Update flushes the requests recorded since the last frame.
func (m *Mixer) Update() {
	started := make(map[string]bool, len(m.pending))
	for _, r := range m.pending {
		player, ok := m.players[r.name]
		if !ok {
			if !m.missing[r.name] {
				log.Printf("assets: no clip for sound %q", r.name)
				m.missing[r.name] = true
			}
			continue
		}

		switch r.op {
		case sound.OpPlay:
			if started[r.name] {
				continue
			}
			started[r.name] = true
			player.SetVolume(r.volume)
			if err := player.Rewind(); err != nil {
				log.Printf("assets: rewind %q: %v", r.name, err)
				continue
			}
			player.Play()
		case sound.OpStop:
			delete(started, r.name)
			if player.IsPlaying() {
				player.Pause()
			}
		}
	}
	m.pending = m.pending[:0]
}

// Pending reports how many requests wait for the next Update.
func (m *Mixer) Pending() int { return len(m.pending) }

func (m *Mixer) Close() {
	for name, p := range m.players {
		if err := p.Close(); err != nil {
			log.Printf("assets: close %q: %v", name, err)
		}
	}
	m.players = map[string]*audio.Player{}
}
