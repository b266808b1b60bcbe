package stun

import (
	"encoding/binary"
	"hash/crc32"
)

// fingerprintXOR is XORed into the CRC32 result per RFC 5389 §15.5, to
// avoid colliding with other framing protocols that also use CRC32
// (e.g. RTP).
const fingerprintXOR = 0x5354554e

type fingerprintAttr struct{}

// Fingerprint appends a FINGERPRINT attribute covering everything
// encoded so far, with the length field adjusted as if the 8-byte
// attribute were already present. Must be added last, after
// MessageIntegrity.
func Fingerprint() Setter { return fingerprintAttr{} }

func (fingerprintAttr) addTo(enc *encoder) error {
	binary.BigEndian.PutUint16(enc.buf[2:4], uint16(len(enc.buf)-headerSize+8))
	crc := crc32.ChecksumIEEE(enc.buf) ^ fingerprintXOR
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, crc)
	enc.appendAttr(AttrFingerprint, v)
	return nil
}

// checkFingerprint validates a FINGERPRINT attribute's value against
// the CRC32 of everything that precedes it (prefix), with prefix's
// length field adjusted as if the message ended right after the
// fingerprint attribute.
func checkFingerprint(prefix []byte, value []byte) bool {
	if len(value) != 4 {
		return false
	}
	adjusted := make([]byte, len(prefix))
	copy(adjusted, prefix)
	binary.BigEndian.PutUint16(adjusted[2:4], uint16(len(prefix)-headerSize+8))
	want := crc32.ChecksumIEEE(adjusted) ^ fingerprintXOR
	got := binary.BigEndian.Uint32(value)
	return want == got
}
