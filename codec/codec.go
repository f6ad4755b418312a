package codec

// Alphabet is the 64-symbol table, indexed by 6-bit value.
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

// Pad marks the missing tail of a final 1 or 2 byte group.
const Pad = '='

const (
	invalid = 0xFF
	padding = 0xFE
)

// decodeMap is read-only after init.
var decodeMap [256]byte

func init() {
	for i := range decodeMap {
		decodeMap[i] = invalid
	}
	for i := 0; i < len(Alphabet); i++ {
		decodeMap[Alphabet[i]] = byte(i)
	}
	decodeMap[Pad] = padding
}

// EncodedLen returns the length of the encoding of n source bytes.
func EncodedLen(n int) int {
	return (n + 2) / 3 * 4
}

// Encode returns the padded Base64 encoding of src.
// An empty src encodes to the empty string.
func Encode(src []byte) string {
	if len(src) == 0 {
		return ""
	}

	dst := make([]byte, EncodedLen(len(src)))

	di := 0
	for si := 0; si < len(src); si += 3 {
		remain := len(src) - si

		val := uint(src[si]) << 16
		if remain > 1 {
			val |= uint(src[si+1]) << 8
		}
		if remain > 2 {
			val |= uint(src[si+2])
		}

		dst[di+0] = Alphabet[val>>18&0x3F]
		dst[di+1] = Alphabet[val>>12&0x3F]
		dst[di+2] = Alphabet[val>>6&0x3F]
		dst[di+3] = Alphabet[val&0x3F]

		switch remain {
		case 1:
			dst[di+2], dst[di+3] = Pad, Pad
		case 2:
			dst[di+3] = Pad
		}

		di += 4
	}

	return string(dst)
}

// EncodeString encodes the bytes of s.
func EncodeString(s string) string {
	return Encode([]byte(s))
}

// Decode returns the bytes represented by s. Characters that are neither
// alphabet symbols nor [Pad] are ignored. Decode of an empty or fully
// filtered input returns an empty, non-nil slice.
func Decode(s string) []byte {
	syms := filter(s)

	dst := make([]byte, 0, len(syms)/4*3+2)
	for i := 0; i < len(syms); i += 4 {
		dst = appendGroup(dst, syms[i:min(i+4, len(syms))])
	}

	return dst
}

// DecodeString decodes s and returns the result as a string.
func DecodeString(s string) string {
	return string(Decode(s))
}

// filter keeps only alphabet symbols and padding.
func filter(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if decodeMap[s[i]] != invalid {
			out = append(out, s[i])
		}
	}

	return out
}

// appendGroup decodes up to 4 symbols onto dst. The first byte needs the
// first two symbols. The second byte is emitted only when the third symbol
// is data, the third byte only when the fourth is; a padding symbol in
// the third position still counts as zero bits for the third byte.
func appendGroup(dst []byte, group []byte) []byte {
	var (
		v    [4]byte
		data [4]bool
	)
	for i, c := range group {
		if d := decodeMap[c]; d != padding {
			v[i], data[i] = d, true
		}
	}

	if !data[0] || !data[1] {
		return dst
	}

	dst = append(dst, v[0]<<2|v[1]>>4)
	if data[2] {
		dst = append(dst, v[1]<<4|v[2]>>2)
	}
	if data[3] {
		dst = append(dst, v[2]<<6|v[3])
	}

	return dst
}
