package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

// Clip holds decoded 16-bit PCM samples. Stereo input is downmixed to mono
// at decode time so mixing only deals with one channel layout.
type Clip struct {
	SampleRate int
	Samples    []int16
}

const (
	riffHeaderLen = 12
	fmtPCM        = 1
)

var ErrNotWAV = errors.New("not a RIFF/WAVE stream")

// DecodeWAV parses a 16-bit PCM WAV payload.
func DecodeWAV(data []byte) (Clip, error) {
	if len(data) < riffHeaderLen || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return Clip{}, ErrNotWAV
	}
	var (
		sampleRate int
		channels   int
		bits       int
		pcm        []byte
		haveFmt    bool
	)
	off := riffHeaderLen
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if size < 0 || body+size > len(data) {
			return Clip{}, fmt.Errorf("wav chunk %q overruns stream", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return Clip{}, errors.New("wav fmt chunk too short")
			}
			format := int(binary.LittleEndian.Uint16(data[body : body+2]))
			if format != fmtPCM {
				return Clip{}, fmt.Errorf("unsupported wav format %d", format)
			}
			channels = int(binary.LittleEndian.Uint16(data[body+2 : body+4]))
			sampleRate = int(binary.LittleEndian.Uint32(data[body+4 : body+8]))
			bits = int(binary.LittleEndian.Uint16(data[body+14 : body+16]))
			haveFmt = true
		case "data":
			pcm = data[body : body+size]
		}
		// chunks are word aligned
		off = body + size + (size & 1)
	}
	if !haveFmt || pcm == nil {
		return Clip{}, errors.New("wav missing fmt or data chunk")
	}
	if bits != 16 {
		return Clip{}, fmt.Errorf("unsupported wav bit depth %d", bits)
	}
	if channels < 1 || channels > 2 {
		return Clip{}, fmt.Errorf("unsupported wav channel count %d", channels)
	}
	frameBytes := 2 * channels
	frames := len(pcm) / frameBytes
	samples := make([]int16, frames)
	for i := 0; i < frames; i++ {
		base := i * frameBytes
		if channels == 1 {
			samples[i] = int16(binary.LittleEndian.Uint16(pcm[base : base+2]))
			continue
		}
		left := int32(int16(binary.LittleEndian.Uint16(pcm[base : base+2])))
		right := int32(int16(binary.LittleEndian.Uint16(pcm[base+2 : base+4])))
		samples[i] = int16((left + right) / 2)
	}
	return Clip{SampleRate: sampleRate, Samples: samples}, nil
}

// EncodeWAV renders a clip as a mono 16-bit PCM WAV payload.
func EncodeWAV(clip Clip) ([]byte, error) {
	if clip.SampleRate <= 0 {
		return nil, errors.New("sample rate required")
	}
	dataLen := len(clip.Samples) * 2
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataLen))
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataLen))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(fmtPCM))
	binary.Write(buf, binary.LittleEndian, uint16(1))
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(clip.SampleRate*2))
	binary.Write(buf, binary.LittleEndian, uint16(2))
	binary.Write(buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	for _, s := range clip.Samples {
		binary.Write(buf, binary.LittleEndian, uint16(s))
	}
	return buf.Bytes(), nil
}

// Duration returns the clip length in seconds.
func (c Clip) Duration() float64 {
	if c.SampleRate <= 0 {
		return 0
	}
	return float64(len(c.Samples)) / float64(c.SampleRate)
}
