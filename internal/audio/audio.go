// Package audio plays a running simulation as sound. The pendulum angle
// sets the pitch, the angular velocity the loudness and the bob position
// the stereo pan.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"

	"github.com/san-kum/stepsim/internal/physics"
	"github.com/san-kum/stepsim/internal/sim"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	// BaseFreq is the pitch at theta = 0. A half turn either way moves it
	// one octave.
	BaseFreq = 220.0
	// OmegaRef is the angular velocity that plays at full volume.
	OmegaRef = 5.0

	glideSeconds = 0.02
	delaySeconds = 0.3
	cutoff       = 1200.0
	volume       = 0.25
)

// Voice is what the synth is asked to play.
type Voice struct {
	Freq float64
	Amp  float64
	Pan  float64
}

// VoiceFor maps a pendulum frame onto a voice.
func VoiceFor(f sim.Frame) Voice {
	theta, ok := f.Quantity(physics.QuantityTheta)
	if !ok && len(f.State) > 0 {
		theta = f.State[0]
	}
	omega, ok := f.Quantity(physics.QuantityOmega)
	if !ok && len(f.State) > 1 {
		omega = f.State[1]
	}
	return Voice{
		Freq: BaseFreq * math.Pow(2, math.Max(-1, math.Min(1, theta/math.Pi))),
		Amp:  math.Min(1, math.Abs(omega)/OmegaRef),
		Pan:  math.Sin(theta),
	}
}

// Sonifier is a sim.Surface feeding a portaudio output stream. Render only
// swaps the target voice; the stream callback glides towards it.
type Sonifier struct {
	stream *portaudio.Stream

	mu     sync.Mutex
	target Voice

	// owned by the stream callback
	cur    Voice
	phase  float64
	filter [2]float64
	delay  [2][]float64
	head   int
}

func NewSonifier() *Sonifier {
	n := int(SampleRate * delaySeconds)
	return &Sonifier{
		target: Voice{Freq: BaseFreq},
		cur:    Voice{Freq: BaseFreq},
		delay:  [2][]float64{make([]float64, n), make([]float64, n)},
	}
}

// Start opens the default output device and begins playback.
func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("init audio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("start audio stream: %w", err)
	}
	s.stream = stream
	glog.V(1).Infof("audio: playing at %d Hz", SampleRate)
	return nil
}

func (s *Sonifier) Close() error {
	if s.stream == nil {
		return nil
	}
	s.stream.Stop()
	err := s.stream.Close()
	s.stream = nil
	portaudio.Terminate()
	return err
}

func (s *Sonifier) Render(f sim.Frame) error {
	v := VoiceFor(f)
	s.mu.Lock()
	s.target = v
	s.mu.Unlock()
	return nil
}

// triangle is a soft-edged wave in [-1, 1].
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low-pass step.
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills one non-interleaved stereo buffer.
func (s *Sonifier) Process(out [][]float32) {
	s.mu.Lock()
	target := s.target
	s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	k := 1 - math.Exp(-dt/glideSeconds)

	for i := range out[0] {
		s.cur.Freq += (target.Freq - s.cur.Freq) * k
		s.cur.Amp += (target.Amp - s.cur.Amp) * k
		s.cur.Pan += (target.Pan - s.cur.Pan) * k

		s.phase += s.cur.Freq * dt
		if s.phase >= 1 {
			s.phase -= math.Floor(s.phase)
		}
		sample := 0.8*triangle(s.phase) + 0.2*triangle(2*s.phase)
		sample *= s.cur.Amp

		gainL := math.Sqrt((1 - s.cur.Pan) / 2)
		gainR := math.Sqrt((1 + s.cur.Pan) / 2)
		s.filter[0] = lpf(sample*gainL, cutoff, dt, s.filter[0])
		s.filter[1] = lpf(sample*gainR, cutoff, dt, s.filter[1])

		delayL, delayR := s.delay[0][s.head], s.delay[1][s.head]
		mixL := s.filter[0] + delayL*0.3 + delayR*0.1
		mixR := s.filter[1] + delayR*0.3 + delayL*0.1
		s.delay[0][s.head] = mixL * 0.5
		s.delay[1][s.head] = mixR * 0.5
		s.head = (s.head + 1) % len(s.delay[0])

		out[0][i] = float32(mixL * volume)
		out[1][i] = float32(mixR * volume)
	}
}
