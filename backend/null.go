package backend

import (
	"fmt"
	"sync"
	"time"

	"github.com/coronalabs/openal-soft/mixer"
)

// nullDeviceName is the only device the null backend exposes.
const nullDeviceName = "No Output"

// NullFactory builds playback backends that discard everything they render.
// Useful for offline processing and tests: the render callback is still
// clocked at the device rate, so timing-sensitive code behaves as it would
// against real hardware.
type NullFactory struct {
	// BlockFrames is the number of frames rendered per tick. Zero selects
	// mixer.BufferSize.
	BlockFrames int
}

func (NullFactory) Init() error { return nil }

func (NullFactory) QuerySupport(t Type) bool { return t == Playback }

func (NullFactory) Probe(t Type) []string {
	if t != Playback {
		return nil
	}

	return []string{nullDeviceName}
}

func (f NullFactory) Create(device *mixer.Device, t Type) (Backend, error) {
	if t != Playback {
		return nil, fmt.Errorf("%w: null backend is playback only", ErrUnsupported)
	}

	if err := validateDevice(device); err != nil {
		return nil, err
	}

	frames := f.BlockFrames
	if frames <= 0 {
		frames = mixer.BufferSize
	}

	return &nullBackend{device: *device, blockFrames: frames}, nil
}

type nullBackend struct {
	device      mixer.Device
	blockFrames int

	opened bool

	mu   sync.Mutex
	done chan struct{}
	wg   sync.WaitGroup
}

func (b *nullBackend) Open(name string) error {
	if b.opened {
		return fmt.Errorf("backend: %q already open", nullDeviceName)
	}

	if name != "" && name != nullDeviceName {
		return fmt.Errorf("%w: %q", ErrBadDeviceName, name)
	}

	b.opened = true

	return nil
}

func (b *nullBackend) Start(render RenderFunc) error {
	if !b.opened {
		return fmt.Errorf("backend: start before open")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.done != nil {
		return fmt.Errorf("backend: already started")
	}

	b.done = make(chan struct{})
	b.wg.Add(1)

	go b.run(render, b.done)

	return nil
}

// run renders one block per tick and throws the audio away. The buffers are
// reused across ticks, matching the contract callbacks must honor.
func (b *nullBackend) run(render RenderFunc, done chan struct{}) {
	defer b.wg.Done()

	out := make([][]float64, b.device.Channels)
	for i := range out {
		out[i] = make([]float64, b.blockFrames)
	}

	interval := time.Duration(float64(b.blockFrames) / b.device.SampleRate * float64(time.Second))
	if interval < time.Millisecond {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			render(out, b.blockFrames)
		}
	}
}

func (b *nullBackend) Stop() {
	b.mu.Lock()
	done := b.done
	b.done = nil
	b.mu.Unlock()

	if done == nil {
		return
	}

	close(done)
	b.wg.Wait()
}

func (b *nullBackend) Close() error {
	b.Stop()
	b.opened = false

	return nil
}
