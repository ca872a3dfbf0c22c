package bgew

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
)

// DefaultSampleRate is the sample rate of the ebiten audio context.
const DefaultSampleRate = 44100

// EbitenAudio is the AudioBackend used by Run. Sources are paths in an
// fs.FS; mp3, ogg and wav files are decoded once and cached as PCM.
type EbitenAudio struct {
	ctx        *audio.Context
	sampleRate int
	fsys       fs.FS

	mu    sync.Mutex
	cache map[string][]byte
}

// NewEbitenAudio creates the backend, reusing the process-wide audio
// context if one exists.
func NewEbitenAudio(fsys fs.FS) *EbitenAudio {
	ctx := audio.CurrentContext()
	if ctx == nil {
		ctx = audio.NewContext(DefaultSampleRate)
	}
	return &EbitenAudio{
		ctx:        ctx,
		sampleRate: ctx.SampleRate(),
		fsys:       fsys,
		cache:      make(map[string][]byte),
	}
}

// Open decodes source on first use and returns a new player over it.
func (a *EbitenAudio) Open(source string) (Voice, error) {
	pcm, err := a.load(source)
	if err != nil {
		return nil, err
	}
	return &ebitenVoice{p: a.ctx.NewPlayerFromBytes(pcm)}, nil
}

func (a *EbitenAudio) load(source string) ([]byte, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if pcm, ok := a.cache[source]; ok {
		return pcm, nil
	}

	f, err := a.fsys.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open audio %s: %w", source, err)
	}
	defer f.Close()

	var stream io.Reader
	switch strings.ToLower(path.Ext(source)) {
	case ".mp3":
		stream, err = mp3.DecodeWithSampleRate(a.sampleRate, f)
	case ".ogg":
		stream, err = vorbis.DecodeWithSampleRate(a.sampleRate, f)
	case ".wav":
		stream, err = wav.DecodeWithSampleRate(a.sampleRate, f)
	default:
		return nil, fmt.Errorf("unsupported audio format: %s", source)
	}
	if err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", source, err)
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, stream); err != nil {
		return nil, fmt.Errorf("decode audio %s: %w", source, err)
	}
	a.cache[source] = buf.Bytes()
	return buf.Bytes(), nil
}

type ebitenVoice struct {
	p *audio.Player
}

func (v *ebitenVoice) Play()                        { v.p.Play() }
func (v *ebitenVoice) Pause()                       { v.p.Pause() }
func (v *ebitenVoice) Seek(pos time.Duration) error { return v.p.SetPosition(pos) }
func (v *ebitenVoice) Position() time.Duration      { return v.p.Position() }
func (v *ebitenVoice) SetVolume(vol float64)        { v.p.SetVolume(vol) }
func (v *ebitenVoice) Playing() bool                { return v.p.IsPlaying() }
func (v *ebitenVoice) Close() error                 { return v.p.Close() }
