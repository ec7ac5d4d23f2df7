package palette

import (
	"bytes"
	"encoding/binary"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dataChunk(cols ...color.NRGBA) []byte {
	payload := []byte{0x00, 0x03}
	payload = binary.LittleEndian.AppendUint16(payload, uint16(len(cols)))
	for _, c := range cols {
		payload = append(payload, c.R, c.G, c.B, 0)
	}

	chunk := append([]byte("data"), binary.LittleEndian.AppendUint32(nil, uint32(len(payload)))...)
	return append(chunk, payload...)
}

func riffPAL(chunks ...[]byte) []byte {
	var body []byte
	for _, c := range chunks {
		body = append(body, c...)
	}

	out := append([]byte("RIFF"), binary.LittleEndian.AppendUint32(nil, uint32(4+len(body)))...)
	out = append(out, "PAL "...)
	return append(out, body...)
}

var (
	teal = color.NRGBA{R: 0x4E, G: 0xCD, B: 0xC4, A: 0xFF}
	navy = color.NRGBA{R: 0x00, G: 0x2A, B: 0x32, A: 0xFF}
	red  = color.NRGBA{R: 0xFF, A: 0xFF}
)

func TestReadFrom(t *testing.T) {
	pals, err := ReadFrom(bytes.NewReader(riffPAL(dataChunk(teal, navy), dataChunk(red))))
	require.NoError(t, err)
	require.Len(t, pals, 2)
	assert.Equal(t, color.Palette{teal, navy}, pals[0])
	assert.Equal(t, color.Palette{red}, pals[1])
}

func TestReadFromRejects(t *testing.T) {
	_, err := ReadFrom(bytes.NewReader([]byte("not a riff file at all")))
	assert.Error(t, err)

	wav := riffPAL(dataChunk(teal))
	copy(wav[8:12], "WAVE")
	_, err = ReadFrom(bytes.NewReader(wav))
	assert.ErrorContains(t, err, "unsupported RIFF content type")

	badVersion := dataChunk(teal)
	badVersion[9] = 0x04
	_, err = ReadFrom(bytes.NewReader(riffPAL(badVersion)))
	assert.ErrorContains(t, err, "unsupported palette version")
}

func TestLoadDuotone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "duo.pal")
	require.NoError(t, os.WriteFile(path, riffPAL(dataChunk(teal), dataChunk(navy, red)), 0o644))

	fg, bg, err := LoadDuotone(path)
	require.NoError(t, err)
	assert.Equal(t, teal, fg)
	assert.Equal(t, navy, bg)
}

func TestLoadDuotoneTooFewColors(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.pal")
	require.NoError(t, os.WriteFile(path, riffPAL(dataChunk(teal)), 0o644))

	_, _, err := LoadDuotone(path)
	assert.ErrorIs(t, err, ErrTooFewColors)

	_, _, err = LoadDuotone(filepath.Join(t.TempDir(), "missing.pal"))
	assert.Error(t, err)
}
