package keycodec

import (
	"encoding/base64"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_KnownVector(t *testing.T) {
	raw, err := Decode("AQID")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, raw)
}

func TestDecode_URLSafeAlphabet(t *testing.T) {
	// 0xfb 0xff 0xbf encodes to "-_-_" in the URL-safe alphabet
	raw, err := Decode("-_-_")
	require.NoError(t, err)
	assert.Equal(t, []byte{0xfb, 0xff, 0xbf}, raw)
}

func TestDecode_PaddingByLengthMod4(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []byte
	}{
		{name: "len mod 4 == 0, no padding", input: "AQID", want: []byte{1, 2, 3}},
		{name: "len mod 4 == 2, two pads", input: "AQ", want: []byte{1}},
		{name: "len mod 4 == 3, one pad", input: "AQI", want: []byte{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw, err := Decode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, raw)
		})
	}
}

func TestDecode_LengthOneIsInvalid(t *testing.T) {
	// A single base64 character cannot encode a whole byte
	_, err := Decode("A")
	assert.Error(t, err)
}

func TestDecode_MalformedInputSurfacesBase64Error(t *testing.T) {
	_, err := Decode("!!!!")

	var corrupt base64.CorruptInputError
	require.ErrorAs(t, err, &corrupt)
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for size := 0; size < 80; size++ {
		raw := make([]byte, size)
		_, _ = rng.Read(raw)

		decoded, err := Decode(Encode(raw))
		require.NoError(t, err)
		assert.Equal(t, raw, decoded, "size %d", size)
	}
}

func TestDecode_VAPIDPublicKeyLength(t *testing.T) {
	// An uncompressed P-256 point is 65 bytes: 0x04 plus two coordinates
	point := make([]byte, 65)
	point[0] = 0x04

	encoded := Encode(point)
	assert.False(t, strings.ContainsAny(encoded, "+/="))

	decoded, err := Decode(encoded)
	require.NoError(t, err)
	assert.Len(t, decoded, 65)
	assert.Equal(t, byte(0x04), decoded[0])
}
