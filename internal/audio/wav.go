package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"time"
)

// Params describes the PCM framing of a WAV stream.
type Params struct {
	SampleRate    int
	Channels      int
	BitsPerSample int
}

// DefaultPCMParams matches the raw PCM produced by the Gemini TTS model.
var DefaultPCMParams = Params{SampleRate: 24000, Channels: 1, BitsPerSample: 16}

// bytesPerSecond returns the PCM byte rate for these params.
func (p Params) bytesPerSecond() int {
	return p.SampleRate * p.Channels * p.BitsPerSample / 8
}

// Duration returns the play time of dataLen bytes of PCM under these params.
func (p Params) Duration(dataLen int) time.Duration {
	bps := p.bytesPerSecond()
	if bps == 0 {
		return 0
	}
	return time.Duration(dataLen) * time.Second / time.Duration(bps)
}

// EncodeWAV wraps raw PCM bytes in a RIFF/WAVE header.
func EncodeWAV(pcm []byte, p Params) []byte {
	var buf bytes.Buffer

	blockAlign := p.Channels * p.BitsPerSample / 8

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(p.Channels))
	binary.Write(&buf, binary.LittleEndian, uint32(p.SampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(p.bytesPerSecond()))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(p.BitsPerSample))

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)

	return buf.Bytes()
}

// DecodeWAV parses a WAV stream and returns its params and PCM payload.
func DecodeWAV(r io.Reader) (Params, []byte, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return Params{}, nil, fmt.Errorf("failed to read WAV header: %w", err)
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return Params{}, nil, fmt.Errorf("not a WAV stream")
	}

	var params Params
	var data []byte
	haveFmt := false

	for {
		var chunk [8]byte
		if _, err := io.ReadFull(r, chunk[:]); err != nil {
			if err == io.EOF || err == io.ErrUnexpectedEOF {
				break
			}
			return Params{}, nil, fmt.Errorf("failed to read chunk header: %w", err)
		}

		id := string(chunk[0:4])
		size := binary.LittleEndian.Uint32(chunk[4:8])

		switch id {
		case "fmt ":
			body := make([]byte, size)
			if _, err := io.ReadFull(r, body); err != nil {
				return Params{}, nil, fmt.Errorf("failed to read fmt chunk: %w", err)
			}
			if len(body) < 16 {
				return Params{}, nil, fmt.Errorf("fmt chunk too short")
			}
			if format := binary.LittleEndian.Uint16(body[0:2]); format != 1 {
				return Params{}, nil, fmt.Errorf("unsupported WAV format code %d", format)
			}
			params.Channels = int(binary.LittleEndian.Uint16(body[2:4]))
			params.SampleRate = int(binary.LittleEndian.Uint32(body[4:8]))
			params.BitsPerSample = int(binary.LittleEndian.Uint16(body[14:16]))
			haveFmt = true
		case "data":
			data = make([]byte, size)
			if _, err := io.ReadFull(r, data); err != nil {
				return Params{}, nil, fmt.Errorf("failed to read data chunk: %w", err)
			}
		default:
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return Params{}, nil, fmt.Errorf("failed to skip %s chunk: %w", id, err)
			}
		}

		// Chunks are word-aligned.
		if size%2 == 1 {
			io.CopyN(io.Discard, r, 1)
		}
	}

	if !haveFmt {
		return Params{}, nil, fmt.Errorf("missing fmt chunk")
	}
	if data == nil {
		return Params{}, nil, fmt.Errorf("missing data chunk")
	}

	return params, data, nil
}

// Silence returns silent PCM of the given duration under these params.
func Silence(d time.Duration, p Params) []byte {
	n := int(d * time.Duration(p.bytesPerSecond()) / time.Second)
	// Align to whole frames.
	frame := p.Channels * p.BitsPerSample / 8
	if frame > 0 {
		n -= n % frame
	}
	return make([]byte, n)
}

// ConcatWAV joins same-format WAV streams, inserting gap of silence between
// consecutive streams. All inputs must share the first stream's params.
func ConcatWAV(streams [][]byte, gap time.Duration) ([]byte, error) {
	if len(streams) == 0 {
		return nil, fmt.Errorf("no streams to concatenate")
	}

	var params Params
	var pcm []byte

	for i, s := range streams {
		p, data, err := DecodeWAV(bytes.NewReader(s))
		if err != nil {
			return nil, fmt.Errorf("stream %d: %w", i, err)
		}
		if i == 0 {
			params = p
		} else if p != params {
			return nil, fmt.Errorf("stream %d: params %+v do not match %+v", i, p, params)
		}
		if i > 0 && gap > 0 {
			pcm = append(pcm, Silence(gap, params)...)
		}
		pcm = append(pcm, data...)
	}

	return EncodeWAV(pcm, params), nil
}
