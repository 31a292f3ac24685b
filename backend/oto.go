package backend

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"

	"github.com/coronalabs/openal-soft/mixer"
)

const otoDeviceName = "Default"

// OtoFactory builds playback backends on the system mixer via oto. Only one
// oto context may exist per process, so only one backend created by this
// factory can be open at a time.
type OtoFactory struct{}

func (OtoFactory) Init() error { return nil }

func (OtoFactory) QuerySupport(t Type) bool { return t == Playback }

func (OtoFactory) Probe(t Type) []string {
	if t != Playback {
		return nil
	}

	return []string{otoDeviceName}
}

func (OtoFactory) Create(device *mixer.Device, t Type) (Backend, error) {
	if t != Playback {
		return nil, fmt.Errorf("%w: oto backend is playback only", ErrUnsupported)
	}

	if err := validateDevice(device); err != nil {
		return nil, err
	}

	return &otoBackend{device: *device}, nil
}

type otoBackend struct {
	device mixer.Device

	ctx    *oto.Context
	player *oto.Player
}

func (b *otoBackend) Open(name string) error {
	if b.ctx != nil {
		return fmt.Errorf("backend: %q already open", otoDeviceName)
	}

	if name != "" && name != otoDeviceName {
		return fmt.Errorf("%w: %q", ErrBadDeviceName, name)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(b.device.SampleRate),
		ChannelCount: b.device.Channels,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return fmt.Errorf("backend: open system mixer: %w", err)
	}

	<-ready
	b.ctx = ctx

	return nil
}

func (b *otoBackend) Start(render RenderFunc) error {
	if b.ctx == nil {
		return fmt.Errorf("backend: start before open")
	}

	if b.player != nil {
		return fmt.Errorf("backend: already started")
	}

	b.player = b.ctx.NewPlayer(newRenderReader(&b.device, render, mixer.BufferSize))
	b.player.Play()

	return nil
}

func (b *otoBackend) Stop() {
	if b.player != nil {
		b.player.Pause()
	}
}

func (b *otoBackend) Close() error {
	if b.player != nil {
		if err := b.player.Close(); err != nil {
			return fmt.Errorf("backend: close player: %w", err)
		}

		b.player = nil
	}

	// oto contexts cannot be torn down; dropping the reference is all we
	// can do.
	b.ctx = nil

	return nil
}

// renderReader adapts a planar float64 render callback to the interleaved
// little-endian float32 stream oto pulls from.
type renderReader struct {
	render   RenderFunc
	channels int
	frames   int

	planar [][]float64

	// buf holds encoded bytes not yet consumed by Read.
	buf []byte
	off int
}

func newRenderReader(device *mixer.Device, render RenderFunc, frames int) *renderReader {
	planar := make([][]float64, device.Channels)
	for i := range planar {
		planar[i] = make([]float64, frames)
	}

	return &renderReader{
		render:   render,
		channels: device.Channels,
		frames:   frames,
		planar:   planar,
		buf:      make([]byte, 0, frames*device.Channels*4),
	}
}

func (r *renderReader) Read(p []byte) (int, error) {
	if r.off >= len(r.buf) {
		r.fill()
	}

	n := copy(p, r.buf[r.off:])
	r.off += n

	return n, nil
}

func (r *renderReader) fill() {
	for ch := range r.planar {
		clear(r.planar[ch])
	}

	r.render(r.planar, r.frames)

	r.buf = r.buf[:0]
	r.off = 0

	for i := 0; i < r.frames; i++ {
		for ch := 0; ch < r.channels; ch++ {
			bits := math.Float32bits(float32(r.planar[ch][i]))
			r.buf = binary.LittleEndian.AppendUint32(r.buf, bits)
		}
	}
}
