package bgew

import (
	"errors"
	"fmt"
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	"go.uber.org/zap"
)

// ErrNoAudio is returned by RegisterSound when the board has no audio
// backend.
var ErrNoAudio = errors.New("bgew: no audio backend")

// AudioBackend opens playable voices for audio sources.
type AudioBackend interface {
	Open(source string) (Voice, error)
}

// Voice is one independent playback of a source.
type Voice interface {
	Play()
	Pause()
	Seek(pos time.Duration) error
	Position() time.Duration
	SetVolume(v float64)
	Playing() bool
	Close() error
}

// SoundSprite is a named section of a source.
type SoundSprite struct {
	Start    time.Duration
	Duration time.Duration
}

// SoundOptions configures RegisterSound.
type SoundOptions struct {
	Repeat bool
	// Volume in [0, 1]. Zero means 1.
	Volume  float64
	Sprites map[string]SoundSprite
}

// PlayOptions configures one playback.
type PlayOptions struct {
	// Sprite plays only the named section.
	Sprite string
	// Repeat loops the playback. The sound's own Repeat also loops.
	Repeat bool
	// Volume overrides the sound's volume when non-zero.
	Volume float64
}

// StopOptions configures Stop.
type StopOptions struct {
	// ID selects one playback. Zero stops every playback of the sound.
	ID      int
	FadeOut bool
	// FadeDuration defaults to one second.
	FadeDuration time.Duration
}

const defaultSoundFade = time.Second

type playback struct {
	id     int
	voice  Voice
	sprite *SoundSprite
	repeat bool
	volume float64
	fade   *gween.Tween
}

// Sound is a registered audio source. Each Play starts an independent
// playback with its own id. Playbacks advance on the board tick, so sprite
// ends, repeats and fade-outs are tick-accurate.
type Sound struct {
	name    string
	sources []string
	source  string
	Repeat  bool
	Volume  float64
	sprites map[string]SoundSprite

	backend AudioBackend
	log     *zap.Logger
	nextID  int
	plays   []*playback
}

// NewSound picks the first of sources that backend can open.
func NewSound(name string, sources []string, backend AudioBackend, opts SoundOptions, log *zap.Logger) (*Sound, error) {
	if backend == nil {
		return nil, ErrNoAudio
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Sound{
		name:    name,
		sources: sources,
		Repeat:  opts.Repeat,
		Volume:  opts.Volume,
		sprites: opts.Sprites,
		backend: backend,
		log:     log,
	}
	if s.Volume == 0 {
		s.Volume = 1
	}
	var errs []error
	for _, src := range sources {
		v, err := backend.Open(src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		_ = v.Close()
		s.source = src
		return s, nil
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("sound %q: no sources", name)
	}
	return nil, fmt.Errorf("sound %q: %w", name, errors.Join(errs...))
}

// Name returns the registered name.
func (s *Sound) Name() string { return s.name }

// Source returns the source in use.
func (s *Sound) Source() string { return s.source }

// Sprites returns the sprite names.
func (s *Sound) Sprites() []string {
	names := make([]string, 0, len(s.sprites))
	for n := range s.sprites {
		names = append(names, n)
	}
	return names
}

// Playing returns the number of live playbacks.
func (s *Sound) Playing() int { return len(s.plays) }

// Play starts a playback and returns its id. It reports false when the
// sprite is unknown or the source cannot be opened.
func (s *Sound) Play(opts PlayOptions) (int, bool) {
	var sprite *SoundSprite
	if opts.Sprite != "" {
		sp, ok := s.sprites[opts.Sprite]
		if !ok {
			s.log.Warn("unknown sound sprite", zap.String("sound", s.name), zap.String("sprite", opts.Sprite))
			return 0, false
		}
		sprite = &sp
	}
	v, err := s.backend.Open(s.source)
	if err != nil {
		s.log.Error("cannot play sound", zap.String("sound", s.name), zap.Error(err))
		return 0, false
	}
	vol := opts.Volume
	if vol == 0 {
		vol = s.Volume
	}
	if sprite != nil {
		if err := v.Seek(sprite.Start); err != nil {
			_ = v.Close()
			s.log.Error("cannot seek sound", zap.String("sound", s.name), zap.Error(err))
			return 0, false
		}
	}
	v.SetVolume(clamp01(vol))
	v.Play()

	s.nextID++
	s.plays = append(s.plays, &playback{
		id:     s.nextID,
		voice:  v,
		sprite: sprite,
		repeat: opts.Repeat || s.Repeat,
		volume: vol,
	})
	return s.nextID, true
}

// Stop ends one playback, or all of them when opts.ID is zero. With FadeOut
// the volume eases to zero first.
func (s *Sound) Stop(opts StopOptions) bool {
	found := false
	for _, p := range s.snapshot() {
		if opts.ID != 0 && p.id != opts.ID {
			continue
		}
		found = true
		if !opts.FadeOut {
			s.end(p)
			continue
		}
		d := opts.FadeDuration
		if d <= 0 {
			d = defaultSoundFade
		}
		p.repeat = false
		p.fade = gween.New(float32(p.volume), 0, float32(d.Seconds()), ease.InOutSine)
	}
	return found
}

func (s *Sound) snapshot() []*playback {
	out := make([]*playback, len(s.plays))
	copy(out, s.plays)
	return out
}

func (s *Sound) end(p *playback) {
	p.voice.Pause()
	_ = p.voice.Close()
	for i, o := range s.plays {
		if o == p {
			s.plays = append(s.plays[:i], s.plays[i+1:]...)
			break
		}
	}
}

// update advances fades and handles sprite ends and repeats.
func (s *Sound) update(delta time.Duration) {
	for _, p := range s.snapshot() {
		if p.fade != nil {
			v, done := p.fade.Update(float32(delta.Seconds()))
			p.volume = float64(v)
			p.voice.SetVolume(clamp01(p.volume))
			if done {
				s.end(p)
				continue
			}
		}
		if p.sprite != nil {
			if p.voice.Position() < p.sprite.Start+p.sprite.Duration && p.voice.Playing() {
				continue
			}
			if p.repeat {
				_ = p.voice.Seek(p.sprite.Start)
				p.voice.Play()
				continue
			}
			s.end(p)
			continue
		}
		if p.voice.Playing() {
			continue
		}
		if p.repeat {
			_ = p.voice.Seek(0)
			p.voice.Play()
			continue
		}
		s.end(p)
	}
}

// --- Board pass-throughs ---

// RegisterSound opens a sound on the board's audio backend and stores it
// under name, replacing any sound with that name.
func (b *Board) RegisterSound(name string, sources []string, opts SoundOptions) (*Sound, error) {
	s, err := NewSound(name, sources, b.audio, opts, b.log.Named("sound"))
	if err != nil {
		return nil, fmt.Errorf("register sound: %w", err)
	}
	if old, ok := b.sounds[name]; ok {
		old.Stop(StopOptions{})
	}
	b.sounds[name] = s
	return s, nil
}

// Sound returns a registered sound. A miss is logged and returns nil.
func (b *Board) Sound(name string) *Sound {
	s, ok := b.sounds[name]
	if !ok {
		b.log.Warn("sound not found", zap.String("sound", name))
		return nil
	}
	return s
}

// PlaySound plays a registered sound.
func (b *Board) PlaySound(name string, opts PlayOptions) (int, bool) {
	s := b.Sound(name)
	if s == nil {
		return 0, false
	}
	return s.Play(opts)
}

// StopSound stops a registered sound.
func (b *Board) StopSound(name string, opts StopOptions) bool {
	s := b.Sound(name)
	if s == nil {
		return false
	}
	return s.Stop(opts)
}

func (b *Board) updateSounds(delta time.Duration) {
	for _, s := range b.sounds {
		s.update(delta)
	}
}
