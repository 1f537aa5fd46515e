package audio

import (
	"errors"
	"math"
)

// Layer places one clip on the output timeline.
type Layer struct {
	Clip Clip
	// Gain is a linear multiplier; 1.0 leaves the clip untouched.
	Gain float64
	// OffsetSec delays the clip start on the timeline.
	OffsetSec float64
	// Repeat plays the clip this many times back to back (minimum 1).
	Repeat int
}

// Overlay sums all layers into a single clip, clamping to the int16 range.
// All layers must share one sample rate; mismatches are rejected rather than
// resampled.
func Overlay(rate int, layers []Layer) (Clip, error) {
	if rate <= 0 {
		return Clip{}, errors.New("sample rate required")
	}
	if len(layers) == 0 {
		return Clip{}, errors.New("no layers to mix")
	}
	total := 0
	for _, l := range layers {
		if l.Clip.SampleRate != rate {
			return Clip{}, errors.New("layer sample rate mismatch")
		}
		end := offsetSamples(rate, l.OffsetSec) + len(l.Clip.Samples)*repeatCount(l.Repeat)
		if end > total {
			total = end
		}
	}
	acc := make([]int32, total)
	for _, l := range layers {
		gain := l.Gain
		if gain == 0 {
			gain = 1
		}
		start := offsetSamples(rate, l.OffsetSec)
		n := len(l.Clip.Samples)
		for rep := 0; rep < repeatCount(l.Repeat); rep++ {
			base := start + rep*n
			for i, s := range l.Clip.Samples {
				acc[base+i] += int32(math.Round(float64(s) * gain))
			}
		}
	}
	out := make([]int16, total)
	for i, v := range acc {
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		if v < math.MinInt16 {
			v = math.MinInt16
		}
		out[i] = int16(v)
	}
	return Clip{SampleRate: rate, Samples: out}, nil
}

// Concat appends clips back to back at the given rate.
func Concat(rate int, clips []Clip) (Clip, error) {
	if len(clips) == 0 {
		return Clip{}, errors.New("no clips to concat")
	}
	total := 0
	for _, c := range clips {
		if c.SampleRate != rate {
			return Clip{}, errors.New("clip sample rate mismatch")
		}
		total += len(c.Samples)
	}
	out := make([]int16, 0, total)
	for _, c := range clips {
		out = append(out, c.Samples...)
	}
	return Clip{SampleRate: rate, Samples: out}, nil
}

func offsetSamples(rate int, sec float64) int {
	if sec <= 0 {
		return 0
	}
	return int(math.Round(sec * float64(rate)))
}

func repeatCount(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
