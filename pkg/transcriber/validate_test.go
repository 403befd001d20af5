package transcriber

import (
	"catatin/pkg/audio"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFile creates a file of the given size. Large files are sparse.
func writeFile(t *testing.T, name string, size int64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, f.Truncate(size))
	require.NoError(t, f.Close())
	return path
}

// writeWAV creates a 16 kHz mono 16-bit WAV whose header declares d of audio.
func writeWAV(t *testing.T, name string, d time.Duration) string {
	t.Helper()
	dataSize := uint32(d.Seconds() * 32000)
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	header := audio.NewHeader(16000, 1, 16, dataSize)
	require.NoError(t, binary.Write(f, binary.LittleEndian, &header))
	require.NoError(t, f.Truncate(44+int64(dataSize)))
	require.NoError(t, f.Close())
	return path
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name        string
		path        func(t *testing.T) string
		expectedErr error
	}{
		{
			name:        "mp4 is not an accepted format",
			path:        func(t *testing.T) string { return writeFile(t, "clip.mp4", 1024) },
			expectedErr: ErrUnsupportedFormat,
		},
		{
			name:        "No extension",
			path:        func(t *testing.T) string { return writeFile(t, "recording", 1024) },
			expectedErr: ErrUnsupportedFormat,
		},
		{
			name:        "60MB file exceeds the ceiling",
			path:        func(t *testing.T) string { return writeFile(t, "long.mp3", 60*1024*1024) },
			expectedErr: ErrTooLarge,
		},
		{
			name:        "Empty file",
			path:        func(t *testing.T) string { return writeFile(t, "empty.ogg", 0) },
			expectedErr: ErrEmptyFile,
		},
		{
			name:        "Missing file counts as empty",
			path:        func(t *testing.T) string { return filepath.Join(t.TempDir(), "gone.m4a") },
			expectedErr: ErrEmptyFile,
		},
		{
			name:        "WAV longer than ten minutes",
			path:        func(t *testing.T) string { return writeWAV(t, "lecture.wav", 11*time.Minute) },
			expectedErr: ErrTooLong,
		},
		{
			name:        "Format is checked before size",
			path:        func(t *testing.T) string { return writeFile(t, "huge.flac", 60*1024*1024) },
			expectedErr: ErrUnsupportedFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := Validate(tt.path(t))

			assert.Nil(t, info)
			assert.ErrorIs(t, err, tt.expectedErr)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.NotEmpty(t, verr.Message)
		})
	}
}

func TestValidate_Accepts(t *testing.T) {
	t.Run("Uppercase extension", func(t *testing.T) {
		info, err := Validate(writeFile(t, "Memo.MP3", 2048))
		require.NoError(t, err)
		assert.Equal(t, "mp3", info.Format)
		assert.Equal(t, int64(2048), info.Size)
		assert.Zero(t, info.Duration)
	})

	t.Run("Exactly 50MB", func(t *testing.T) {
		_, err := Validate(writeFile(t, "edge.aac", MaxFileSize))
		assert.NoError(t, err)
	})

	t.Run("WAV duration is measured", func(t *testing.T) {
		info, err := Validate(writeWAV(t, "note.wav", 90*time.Second))
		require.NoError(t, err)
		assert.Equal(t, 90*time.Second, info.Duration)
	})

	t.Run("Unreadable WAV header passes with unknown duration", func(t *testing.T) {
		info, err := Validate(writeFile(t, "odd.wav", 100))
		require.NoError(t, err)
		assert.Zero(t, info.Duration)
	})

	t.Run("Upload name decides the format", func(t *testing.T) {
		path := writeFile(t, "upload-123456", 512)
		info, err := ValidateAs(path, "voice.ogg")
		require.NoError(t, err)
		assert.Equal(t, "ogg", info.Format)
		assert.Equal(t, "voice.ogg", info.Name)
	})
}

func TestIsSupported(t *testing.T) {
	assert.True(t, IsSupported("memo.WAV"))
	assert.True(t, IsSupported("/tmp/voice.m4a"))
	assert.False(t, IsSupported("clip.mp4"))
	assert.False(t, IsSupported("noext"))
}

func TestValidationMessages(t *testing.T) {
	_, err := Validate(writeFile(t, "clip.mp4", 10))
	assert.EqualError(t, err, "Unsupported file format. Use: mp3, wav, m4a, aac, ogg")

	_, err = Validate(writeFile(t, "big.wav", 60*1024*1024))
	assert.EqualError(t, err, "File is too large. Maximum is 50MB")
}
