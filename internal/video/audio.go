package video

import (
	"encoding/binary"
	"sync"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// bytesPerFrame is 2 channels x 16-bit samples: ebiten's audio.Player reads
// interleaved signed 16-bit stereo PCM regardless of the source's channel
// count, so the mono stream this project's APU produces is duplicated to
// both channels.
const bytesPerFrame = 4

// ringReader adapts a growing slice of mono float32 samples to the
// io.Reader ebiten's audio.Player wants, emitting silence once the queue
// the APU fed it runs dry rather than blocking Read.
type ringReader struct {
	mu      sync.Mutex
	samples []float32
}

func (r *ringReader) push(samples []float32) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.samples = append(r.samples, samples...)
}

func (r *ringReader) Read(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	frames := len(p) / bytesPerFrame
	for i := 0; i < frames; i++ {
		var s float32
		if i < len(r.samples) {
			s = r.samples[i]
		}
		v := int16(clampSample(s) * 32767)
		binary.LittleEndian.PutUint16(p[i*bytesPerFrame:], uint16(v))
		binary.LittleEndian.PutUint16(p[i*bytesPerFrame+2:], uint16(v))
	}
	if frames < len(r.samples) {
		r.samples = r.samples[frames:]
	} else {
		r.samples = nil
	}
	return frames * bytesPerFrame, nil
}

func clampSample(s float32) float32 {
	switch {
	case s > 1:
		return 1
	case s < -1:
		return -1
	default:
		return s
	}
}

// AudioStream feeds DrainAudio's per-frame output into an ebiten audio
// player backed by ringReader.
type AudioStream struct {
	player *audio.Player
	ring   *ringReader
}

// NewAudioStream opens an ebiten audio context at sampleRate and starts a
// player reading from an initially empty ring buffer.
func NewAudioStream(sampleRate int) (*AudioStream, error) {
	ctx := audio.NewContext(sampleRate)
	ring := &ringReader{}
	player, err := ctx.NewPlayer(ring)
	if err != nil {
		return nil, err
	}
	player.Play()
	return &AudioStream{player: player, ring: ring}, nil
}

// Push enqueues one frame's worth of mono samples for playback.
func (a *AudioStream) Push(samples []float32) {
	if len(samples) == 0 {
		return
	}
	a.ring.push(samples)
}
