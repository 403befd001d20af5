package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// WAVHeader is the canonical 44-byte header of a PCM WAV file.
type WAVHeader struct {
	// RIFF header
	ChunkID   [4]byte // "RIFF"
	ChunkSize uint32
	Format    [4]byte // "WAVE"

	// fmt sub-chunk
	Subchunk1ID   [4]byte // "fmt "
	Subchunk1Size uint32  // 16 for PCM
	AudioFormat   uint16  // 1 = PCM
	NumChannels   uint16  // 1 = mono, 2 = stereo
	SampleRate    uint32  // 16000, 44100, etc.
	ByteRate      uint32  // SampleRate * NumChannels * BitsPerSample/8
	BlockAlign    uint16  // NumChannels * BitsPerSample/8
	BitsPerSample uint16  // 8, 16, etc.

	// data sub-chunk
	Subchunk2ID   [4]byte // "data"
	Subchunk2Size uint32  // NumSamples * NumChannels * BitsPerSample/8
}

// Format describes the PCM layout of a WAV file.
type Format struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
}

// WAVFile is an opened WAV file whose header has been parsed.
type WAVFile struct {
	file     *os.File
	Format   Format
	dataSize uint32
	path     string
}

var ErrInvalidWAV = errors.New("invalid WAV file")

// OpenWAV opens a WAV file for reading. Chunks other than fmt and data
// (LIST, fact, ...) are skipped.
func OpenWAV(path string) (*WAVFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open WAV file: %w", err)
	}

	wf := &WAVFile{
		file: file,
		path: path,
	}

	if err := wf.readHeader(); err != nil {
		file.Close()
		return nil, err
	}

	return wf, nil
}

type chunkHeader struct {
	ID   [4]byte
	Size uint32
}

func (wf *WAVFile) readHeader() error {
	var riff struct {
		ChunkID   [4]byte
		ChunkSize uint32
		Format    [4]byte
	}
	if err := binary.Read(wf.file, binary.LittleEndian, &riff); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidWAV, err)
	}
	if string(riff.ChunkID[:]) != "RIFF" {
		return fmt.Errorf("%w: missing RIFF header", ErrInvalidWAV)
	}
	if string(riff.Format[:]) != "WAVE" {
		return fmt.Errorf("%w: missing WAVE format", ErrInvalidWAV)
	}

	seenFmt := false
	for {
		var chunk chunkHeader
		if err := binary.Read(wf.file, binary.LittleEndian, &chunk); err != nil {
			return fmt.Errorf("%w: no data chunk: %w", ErrInvalidWAV, err)
		}

		switch string(chunk.ID[:]) {
		case "fmt ":
			if chunk.Size < 16 {
				return fmt.Errorf("%w: fmt chunk too short", ErrInvalidWAV)
			}
			if err := binary.Read(wf.file, binary.LittleEndian, &wf.Format); err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidWAV, err)
			}
			if err := wf.skip(int64(chunk.Size) - 16); err != nil {
				return err
			}
			seenFmt = true

		case "data":
			if !seenFmt {
				return fmt.Errorf("%w: data chunk before fmt chunk", ErrInvalidWAV)
			}
			wf.dataSize = chunk.Size
			return nil

		default:
			if err := wf.skip(int64(chunk.Size)); err != nil {
				return err
			}
		}
	}
}

// skip moves past n bytes plus the pad byte of odd-sized chunks.
func (wf *WAVFile) skip(n int64) error {
	if n%2 == 1 {
		n++
	}
	if _, err := wf.file.Seek(n, io.SeekCurrent); err != nil {
		return fmt.Errorf("failed to seek: %w", err)
	}
	return nil
}

func (wf *WAVFile) Close() error {
	return wf.file.Close()
}

// DataSize returns the size of the audio data in bytes, as declared by the header.
func (wf *WAVFile) DataSize() int64 {
	return int64(wf.dataSize)
}

// Duration returns the playing time of the audio data.
func (wf *WAVFile) Duration() time.Duration {
	byteRate := int64(wf.Format.ByteRate)
	if byteRate == 0 {
		byteRate = int64(wf.Format.SampleRate) * int64(wf.Format.NumChannels) * int64(wf.Format.BitsPerSample) / 8
	}
	if byteRate == 0 {
		return 0
	}
	return time.Duration(wf.DataSize() * int64(time.Second) / byteRate)
}

// Duration opens path and returns the playing time of its audio data.
func Duration(path string) (time.Duration, error) {
	wf, err := OpenWAV(path)
	if err != nil {
		return 0, err
	}
	defer wf.Close()
	return wf.Duration(), nil
}

// NewHeader builds the canonical PCM header for dataSize bytes of samples.
func NewHeader(sampleRate uint32, channels uint16, bitsPerSample uint16, dataSize uint32) WAVHeader {
	return WAVHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: 16,
		AudioFormat:   1, // PCM
		NumChannels:   channels,
		SampleRate:    sampleRate,
		ByteRate:      sampleRate * uint32(channels) * uint32(bitsPerSample) / 8,
		BlockAlign:    channels * bitsPerSample / 8,
		BitsPerSample: bitsPerSample,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}
}

// WriteWAV saves raw PCM samples as a WAV file.
func WriteWAV(outputPath string, data []byte, sampleRate uint32, channels uint16, bitsPerSample uint16) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer file.Close()

	header := NewHeader(sampleRate, channels, bitsPerSample, uint32(len(data)))
	if err := binary.Write(file, binary.LittleEndian, &header); err != nil {
		return fmt.Errorf("failed to write WAV header: %w", err)
	}

	if _, err := file.Write(data); err != nil {
		return fmt.Errorf("failed to write audio data: %w", err)
	}

	return file.Close()
}
