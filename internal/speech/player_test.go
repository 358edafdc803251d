package speech

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeWAV builds a minimal RIFF file with a fmt chunk, an odd-sized junk
// chunk, and a data chunk.
func makeWAV(rate, channels, bits int, pcm []byte) []byte {
	le16 := func(v int) []byte { b := make([]byte, 2); binary.LittleEndian.PutUint16(b, uint16(v)); return b }
	le32 := func(v int) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, uint32(v)); return b }

	var fmtBody []byte
	fmtBody = append(fmtBody, le16(1)...) // PCM
	fmtBody = append(fmtBody, le16(channels)...)
	fmtBody = append(fmtBody, le32(rate)...)
	fmtBody = append(fmtBody, le32(rate*channels*bits/8)...)
	fmtBody = append(fmtBody, le16(channels*bits/8)...)
	fmtBody = append(fmtBody, le16(bits)...)

	var body []byte
	body = append(body, "WAVE"...)
	body = append(body, "fmt "...)
	body = append(body, le32(len(fmtBody))...)
	body = append(body, fmtBody...)
	body = append(body, "junk"...)
	body = append(body, le32(3)...)
	body = append(body, 0, 0, 0, 0) // 3 bytes + pad
	body = append(body, "data"...)
	body = append(body, le32(len(pcm))...)
	body = append(body, pcm...)

	out := append([]byte("RIFF"), le32(len(body))...)
	return append(out, body...)
}

func TestExtractPCM(t *testing.T) {
	pcm := []byte{1, 2, 3, 4}
	got, err := extractPCM(makeWAV(SampleRate, ChannelCount, BitDepth, pcm))
	require.NoError(t, err)
	assert.Equal(t, pcm, got)
}

func TestExtractPCMRejects(t *testing.T) {
	tests := []struct {
		name string
		wav  []byte
	}{
		{"too short", []byte("RIFF")},
		{"not wave", append([]byte("RIFF\x00\x00\x00\x00AVI "), make([]byte, 40)...)},
		{"wrong rate", makeWAV(16000, ChannelCount, BitDepth, []byte{1, 2})},
		{"stereo", makeWAV(SampleRate, 2, BitDepth, []byte{1, 2})},
		{"no data", []byte("RIFF\x04\x00\x00\x00WAVE")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractPCM(tt.wav)
			assert.Error(t, err)
		})
	}
}
