package stun

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

// AttrType is a STUN attribute type (RFC 5389 §18.2, RFC 5766 §14).
type AttrType uint16

// Attribute types used by ICE and TURN.
const (
	AttrMappedAddress     AttrType = 0x0001
	AttrUsername          AttrType = 0x0006
	AttrMessageIntegrity  AttrType = 0x0008
	AttrErrorCode         AttrType = 0x0009
	AttrUnknownAttributes AttrType = 0x000A
	AttrRealm             AttrType = 0x0014
	AttrNonce             AttrType = 0x0015
	AttrXORMappedAddress  AttrType = 0x0020
	AttrSoftware          AttrType = 0x8022
	AttrFingerprint       AttrType = 0x8028
	AttrPriority          AttrType = 0x0024
	AttrUseCandidate      AttrType = 0x0025
	AttrICEControlled     AttrType = 0x8029
	AttrICEControlling    AttrType = 0x802A

	// TURN, RFC 5766.
	AttrChannelNumber      AttrType = 0x000C
	AttrLifetime           AttrType = 0x000D
	AttrXORPeerAddress     AttrType = 0x0012
	AttrData               AttrType = 0x0013
	AttrXORRelayedAddress  AttrType = 0x0016
	AttrRequestedTransport AttrType = 0x0019
	AttrDontFragment       AttrType = 0x001A
)

func (t AttrType) String() string {
	switch t {
	case AttrMappedAddress:
		return "MAPPED-ADDRESS"
	case AttrUsername:
		return "USERNAME"
	case AttrMessageIntegrity:
		return "MESSAGE-INTEGRITY"
	case AttrErrorCode:
		return "ERROR-CODE"
	case AttrRealm:
		return "REALM"
	case AttrNonce:
		return "NONCE"
	case AttrXORMappedAddress:
		return "XOR-MAPPED-ADDRESS"
	case AttrSoftware:
		return "SOFTWARE"
	case AttrFingerprint:
		return "FINGERPRINT"
	case AttrPriority:
		return "PRIORITY"
	case AttrUseCandidate:
		return "USE-CANDIDATE"
	case AttrICEControlled:
		return "ICE-CONTROLLED"
	case AttrICEControlling:
		return "ICE-CONTROLLING"
	case AttrChannelNumber:
		return "CHANNEL-NUMBER"
	case AttrLifetime:
		return "LIFETIME"
	case AttrXORPeerAddress:
		return "XOR-PEER-ADDRESS"
	case AttrData:
		return "DATA"
	case AttrXORRelayedAddress:
		return "XOR-RELAYED-ADDRESS"
	case AttrRequestedTransport:
		return "REQUESTED-TRANSPORT"
	case AttrDontFragment:
		return "DONT-FRAGMENT"
	default:
		return fmt.Sprintf("unknown attribute (%#04x)", uint16(t))
	}
}

const (
	familyIPv4 = 0x01
	familyIPv6 = 0x02
)

// rawAttr is a Setter that writes a pre-encoded value verbatim.
type rawAttr struct {
	t AttrType
	v []byte
}

func (r rawAttr) addTo(enc *encoder) error {
	enc.appendAttr(r.t, r.v)
	return nil
}

// Username sets USERNAME.
func Username(name string) Setter { return rawAttr{AttrUsername, []byte(name)} }

// Software sets SOFTWARE.
func Software(name string) Setter { return rawAttr{AttrSoftware, []byte(name)} }

// Realm sets REALM.
func Realm(realm string) Setter { return rawAttr{AttrRealm, []byte(realm)} }

// Nonce sets NONCE.
func Nonce(nonce string) Setter { return rawAttr{AttrNonce, []byte(nonce)} }

// Priority sets PRIORITY.
func Priority(p uint32) Setter {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, p)
	return rawAttr{AttrPriority, v}
}

// UseCandidate sets the zero-length USE-CANDIDATE attribute.
func UseCandidate() Setter { return rawAttr{AttrUseCandidate, nil} }

// ICEControlling sets ICE-CONTROLLING with the given tie-breaker.
func ICEControlling(tieBreaker uint64) Setter {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, tieBreaker)
	return rawAttr{AttrICEControlling, v}
}

// ICEControlled sets ICE-CONTROLLED with the given tie-breaker.
func ICEControlled(tieBreaker uint64) Setter {
	v := make([]byte, 8)
	binary.BigEndian.PutUint64(v, tieBreaker)
	return rawAttr{AttrICEControlled, v}
}

// Lifetime sets LIFETIME in seconds.
func Lifetime(seconds uint32) Setter {
	v := make([]byte, 4)
	binary.BigEndian.PutUint32(v, seconds)
	return rawAttr{AttrLifetime, v}
}

// protoUDP is the IANA protocol number for UDP, used by
// REQUESTED-TRANSPORT.
const protoUDP = 17

// RequestedTransportUDP sets REQUESTED-TRANSPORT to UDP (17).
func RequestedTransportUDP() Setter {
	return rawAttr{AttrRequestedTransport, []byte{protoUDP, 0, 0, 0}}
}

// DontFragment sets the zero-length DONT-FRAGMENT attribute.
func DontFragment() Setter { return rawAttr{AttrDontFragment, nil} }

// ChannelNumber sets CHANNEL-NUMBER.
func ChannelNumber(n uint16) Setter {
	v := make([]byte, 4)
	binary.BigEndian.PutUint16(v[0:2], n)
	return rawAttr{AttrChannelNumber, v}
}

// Data sets DATA to the given payload.
func Data(payload []byte) Setter { return rawAttr{AttrData, payload} }

// errorCodeAttr encodes ERROR-CODE (RFC 5389 §15.6).
type errorCodeAttr struct {
	Code   int
	Reason string
}

// ErrorCode sets ERROR-CODE.
func ErrorCode(code int, reason string) Setter { return errorCodeAttr{code, reason} }

func (e errorCodeAttr) addTo(enc *encoder) error {
	class := byte(e.Code / 100)
	number := byte(e.Code % 100)
	v := make([]byte, 4+len(e.Reason))
	v[2] = class & 0x07
	v[3] = number
	copy(v[4:], e.Reason)
	enc.appendAttr(AttrErrorCode, v)
	return nil
}

// ParseErrorCode decodes ERROR-CODE from a raw attribute value.
func ParseErrorCode(v []byte) (code int, reason string, err error) {
	if len(v) < 4 {
		return 0, "", errors.New("stun: ERROR-CODE too short")
	}
	class := int(v[2] & 0x07)
	number := int(v[3])
	return class*100 + number, string(v[4:]), nil
}

// addressAttr encodes MAPPED-ADDRESS / XOR-*-ADDRESS family attributes.
type addressAttr struct {
	t   AttrType
	ip  net.IP
	port int
	xor bool
	txID TransactionID
}

// MappedAddress sets MAPPED-ADDRESS.
func MappedAddress(ip net.IP, port int) Setter {
	return addressAttr{t: AttrMappedAddress, ip: ip, port: port}
}

// XORMappedAddress sets XOR-MAPPED-ADDRESS.
func XORMappedAddress(ip net.IP, port int, txID TransactionID) Setter {
	return addressAttr{t: AttrXORMappedAddress, ip: ip, port: port, xor: true, txID: txID}
}

// XORPeerAddress sets XOR-PEER-ADDRESS.
func XORPeerAddress(ip net.IP, port int, txID TransactionID) Setter {
	return addressAttr{t: AttrXORPeerAddress, ip: ip, port: port, xor: true, txID: txID}
}

// XORRelayedAddress sets XOR-RELAYED-ADDRESS.
func XORRelayedAddress(ip net.IP, port int, txID TransactionID) Setter {
	return addressAttr{t: AttrXORRelayedAddress, ip: ip, port: port, xor: true, txID: txID}
}

func (a addressAttr) addTo(enc *encoder) error {
	v, err := encodeAddress(a.ip, a.port, a.xor, a.txID)
	if err != nil {
		return err
	}
	enc.appendAttr(a.t, v)
	return nil
}

func encodeAddress(ip net.IP, port int, xor bool, txID TransactionID) ([]byte, error) {
	ip4 := ip.To4()
	family := byte(familyIPv6)
	var addrBytes []byte
	if ip4 != nil {
		family = familyIPv4
		addrBytes = append([]byte{}, ip4...)
	} else {
		if ip.To16() == nil {
			return nil, errors.New("stun: invalid IP address")
		}
		addrBytes = append([]byte{}, ip.To16()...)
	}

	v := make([]byte, 4+len(addrBytes))
	v[1] = family
	p := uint16(port)
	if xor {
		p ^= uint16(magicCookie >> 16)
	}
	binary.BigEndian.PutUint16(v[2:4], p)

	if xor {
		xorKey := xorKeyBytes(txID)
		for i, b := range addrBytes {
			v[4+i] = b ^ xorKey[i]
		}
	} else {
		copy(v[4:], addrBytes)
	}
	return v, nil
}

// xorKeyBytes returns the 16-byte XOR mask: the magic cookie followed
// by the transaction id, per RFC 5389 §15.2.
func xorKeyBytes(txID TransactionID) []byte {
	key := make([]byte, 16)
	binary.BigEndian.PutUint32(key[0:4], magicCookie)
	copy(key[4:16], txID[:])
	return key
}

// DecodeAddress parses a MAPPED-ADDRESS-shaped attribute value.
func DecodeAddress(v []byte, xor bool, txID TransactionID) (net.IP, int, error) {
	if len(v) < 4 {
		return nil, 0, errors.New("stun: address attribute too short")
	}
	family := v[1]
	p := binary.BigEndian.Uint16(v[2:4])
	if xor {
		p ^= uint16(magicCookie >> 16)
	}

	addrBytes := append([]byte{}, v[4:]...)
	if xor {
		xorKey := xorKeyBytes(txID)
		for i := range addrBytes {
			addrBytes[i] ^= xorKey[i]
		}
	}

	switch family {
	case familyIPv4:
		if len(addrBytes) != 4 {
			return nil, 0, errors.New("stun: bad IPv4 address length")
		}
		return net.IP(addrBytes), int(p), nil
	case familyIPv6:
		if len(addrBytes) != 16 {
			return nil, 0, errors.New("stun: bad IPv6 address length")
		}
		return net.IP(addrBytes), int(p), nil
	default:
		return nil, 0, fmt.Errorf("stun: unknown address family %#x", family)
	}
}
