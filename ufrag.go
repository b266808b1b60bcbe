package ice

import (
	"fmt"

	"github.com/pion/randutil"
)

// ufragLength and pwdLength match RFC 8445 §5.3's suggested
// defaults: a 4-character ufrag (24 bits at 6 bits/char) and a
// 22-character password (132 bits), both comfortably over the
// minimums spec §6 documents (24 / 128 bits).
const (
	ufragLength = 4
	pwdLength   = 22

	minUfragBits = 24
	minPwdBits   = 128
)

// runesAlpha is the character set ufrags and passwords are drawn
// from, matching pion/ice's ICE-char alphabet (RFC 8445 §5.3 allows
// any ice-char; we use the conservative alphanumeric subset).
const runesAlpha = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// errUfragInsufficientBits is returned when a caller-supplied
// ufrag is too short to provide the minimum entropy RFC 8445 expects.
var errUfragInsufficientBits = fmt.Errorf("ice: local ufrag must carry at least %d bits of entropy", minUfragBits)

// errPwdInsufficientBits is the password-length counterpart of
// errUfragInsufficientBits.
var errPwdInsufficientBits = fmt.Errorf("ice: local password must carry at least %d bits of entropy", minPwdBits)

// GenerateUfrag returns a fresh random ufrag of the default length
// (spec §6 local_ufrag: "4 chars").
func GenerateUfrag() (string, error) {
	return randutil.GenerateCryptoRandomString(ufragLength, []byte(runesAlpha))
}

// GeneratePassword returns a fresh random password of the default
// length (spec §6 local_password: "22 chars").
func GeneratePassword() (string, error) {
	return randutil.GenerateCryptoRandomString(pwdLength, []byte(runesAlpha))
}

// validateCredentialBits enforces the minimum-entropy invariant RFC
// 8445 §15.4 places on ufrag/password, assuming one character carries
// log2(len(runesAlpha)) ~= 5.9 bits; we use the conservative 8
// bits/char pion/ice itself assumes for its bit-length checks.
func validateCredentialBits(ufrag, pwd string) error {
	if len([]rune(ufrag))*8 < minUfragBits {
		return errUfragInsufficientBits
	}
	if len([]rune(pwd))*8 < minPwdBits {
		return errPwdInsufficientBits
	}
	return nil
}
