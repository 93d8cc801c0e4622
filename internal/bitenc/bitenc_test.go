package bitenc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []struct {
		name  string
		value string
		typ   ColumnType
	}{
		{"boolean true", "true", Boolean()},
		{"boolean zero", "0", Boolean()},
		{"uint", "42", UnsignedInt()},
		{"uint max", "4294967295", UnsignedInt()},
		{"float", "3.5", Float()},
		{"string exact", "abc", String(3, ASCII)},
		{"string short", "ab", String(5, ASCII)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			block, err := Encode(c.value, c.typ)
			require.NoError(t, err)
			require.Equal(t, c.typ.Width(), len(block))

			got, err := Decode(block, c.typ)
			require.NoError(t, err)
			if c.typ.Kind == KindBoolean {
				// "true"/"0" normalise to "1"/"0"
				require.Contains(t, []string{"0", "1"}, got)
			} else if c.typ.Kind != KindString {
				require.Equal(t, c.value, got)
			}
		})
	}
}

func TestStringTruncation(t *testing.T) {
	typ := String(3, ASCII)
	block, err := Encode("abcdef", typ)
	require.NoError(t, err)
	got, err := Decode(block, typ)
	require.NoError(t, err)
	require.Equal(t, "abc", got)
}

func TestEncodeRejectsMalformedNumber(t *testing.T) {
	_, err := Encode("not-a-number", UnsignedInt())
	require.Error(t, err)
}

func TestPackUnpackBytesRoundTrip(t *testing.T) {
	block, err := Encode("173", UnsignedInt())
	require.NoError(t, err)
	packed := PackBytes(block)
	require.Equal(t, 4, len(packed)) // 32 bits -> 4 bytes
	unpacked := UnpackBytes(packed, len(block))
	require.Equal(t, block, unpacked)
}

func TestWidths(t *testing.T) {
	require.Equal(t, 1, Boolean().Width())
	require.Equal(t, 32, UnsignedInt().Width())
	require.Equal(t, 64, Float().Width())
	require.Equal(t, 24, String(3, UTF8).Width())
	require.Equal(t, 8, RawUint(8).Width())
}
