// Package codec implements the Base64 transform used to build and read
// HTTP Basic Authentication credentials.
//
// # Encoding
//
// [Encode] maps every 3 input bytes onto 4 symbols of the standard
// alphabet (A–Z a–z 0–9 + /). A final group of 1 byte produces 2 symbols
// followed by "==", a final group of 2 bytes produces 3 symbols followed
// by "=":
//
//	codec.EncodeString("M")   // "TQ=="
//	codec.EncodeString("Ma")  // "TWE="
//	codec.EncodeString("Man") // "TWFu"
//
// # Decoding
//
// [Decode] never fails. Every character outside the alphabet and the
// padding sentinel is discarded before decoding, so wrapped or
// whitespace-laden input decodes the same as its compact form:
//
//	codec.DecodeString("TW\r\nFu") // "Man"
//
// Within each 4-symbol group the second output byte is emitted only when
// the third symbol is not padding, and the third output byte only when the
// fourth symbol is not padding. A trailing group of 2 or 3 symbols decodes
// as if it were padded; a single dangling symbol carries no whole byte and
// is dropped.
//
// # Basic Auth
//
// [BasicAuth] and [ParseBasicAuth] translate between a credential pair and
// the payload of an "Authorization: Basic" header.
package codec
