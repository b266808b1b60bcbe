package turn

import (
	"encoding/binary"
	"fmt"
	"net"
	"sync"

	"github.com/netice/ice/stun"
)

// channelNumberMin and channelNumberMax bound the valid ChannelData
// channel number range (RFC 5766 §11).
const (
	channelNumberMin = 0x4000
	channelNumberMax = 0x7FFE
)

// channelDataHeaderSize is the 4-byte ChannelData header: channel
// number (2 bytes) + length (2 bytes), RFC 5766 §11.4.
const channelDataHeaderSize = 4

// Codec frames and deframes application payloads for one TURN
// allocation: ChannelData for peers with a bound channel, Send/Data
// indications for everyone else (spec §4.4).
//
// It implements the transport.TURNCodec interface without importing
// the transport package, keeping the dependency one-directional.
type Codec struct {
	mu       sync.RWMutex
	server   net.Addr
	channels map[string]uint16 // peer Address.String() -> bound channel number
}

func newCodec(server net.Addr) *Codec {
	return &Codec{server: server, channels: make(map[string]uint16)}
}

// ServerAddr returns the TURN server address frames are exchanged
// with.
func (c *Codec) ServerAddr() net.Addr { return c.server }

func (c *Codec) channelFor(peer net.Addr) (uint16, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.channels[peer.String()]
	return ch, ok
}

func (c *Codec) bind(peer net.Addr, channel uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.channels[peer.String()] = channel
}

// Bindings returns the peer address of every channel currently bound,
// for periodic ChannelBind refresh.
func (c *Codec) Bindings() []net.Addr {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]net.Addr, 0, len(c.channels))
	for peer := range c.channels {
		host, portStr, err := net.SplitHostPort(peer)
		if err != nil {
			continue
		}
		var port int
		if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
			continue
		}
		out = append(out, &net.UDPAddr{IP: net.ParseIP(host), Port: port})
	}
	return out
}

// Encode frames payload for peer: ChannelData if peer has a bound
// channel (the "low-overhead" path, spec §4.4), otherwise a Send
// indication.
func (c *Codec) Encode(payload []byte, peer net.Addr) ([]byte, error) {
	if ch, ok := c.channelFor(peer); ok {
		return encodeChannelData(ch, payload), nil
	}
	return encodeSendIndication(peer, payload)
}

func encodeChannelData(channel uint16, payload []byte) []byte {
	buf := make([]byte, channelDataHeaderSize+len(payload))
	binary.BigEndian.PutUint16(buf[0:2], channel)
	binary.BigEndian.PutUint16(buf[2:4], uint16(len(payload)))
	copy(buf[channelDataHeaderSize:], payload)
	if pad := (4 - len(payload)%4) % 4; pad > 0 {
		buf = append(buf, make([]byte, pad)...)
	}
	return buf
}

func encodeSendIndication(peer net.Addr, payload []byte) ([]byte, error) {
	udp, ok := peer.(*net.UDPAddr)
	if !ok {
		return nil, fmt.Errorf("turn: encode send indication: peer %v is not a UDP address", peer)
	}
	id, err := stun.NewTransactionID()
	if err != nil {
		return nil, err
	}
	return stun.Build(
		stun.Type{Class: stun.ClassIndication, Method: stun.MethodSend},
		id,
		stun.XORPeerAddress(udp.IP, udp.Port, id),
		stun.Data(payload),
	)
}

// Decode extracts an application payload and its sending peer from a
// datagram read off the TURN server socket: ChannelData for a known
// channel number, or a Data indication otherwise. ok is false if b is
// neither.
func (c *Codec) Decode(b []byte) (payload []byte, peer net.Addr, ok bool) {
	if len(b) >= channelDataHeaderSize {
		channel := binary.BigEndian.Uint16(b[0:2])
		if channel >= channelNumberMin && channel <= channelNumberMax {
			length := int(binary.BigEndian.Uint16(b[2:4]))
			if channelDataHeaderSize+length <= len(b) {
				if addr, found := c.peerForChannel(channel); found {
					return b[channelDataHeaderSize : channelDataHeaderSize+length], addr, true
				}
			}
		}
	}

	if !stun.IsMessage(b) {
		return nil, nil, false
	}
	_, m, err := stun.Decode(b, stun.DecodeOptions{})
	if err != nil || m.Type.Class != stun.ClassIndication || m.Type.Method != stun.MethodData {
		return nil, nil, false
	}
	addrAttr, ok := m.Get(stun.AttrXORPeerAddress)
	if !ok {
		return nil, nil, false
	}
	dataAttr, ok := m.Get(stun.AttrData)
	if !ok {
		return nil, nil, false
	}
	ip, port, err := stun.DecodeAddress(addrAttr.Value, true, m.TransactionID)
	if err != nil {
		return nil, nil, false
	}
	return dataAttr.Value, &net.UDPAddr{IP: ip, Port: port}, true
}

func (c *Codec) peerForChannel(channel uint16) (net.Addr, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for peer, ch := range c.channels {
		if ch == channel {
			host, portStr, err := net.SplitHostPort(peer)
			if err != nil {
				continue
			}
			var port int
			if _, err := fmt.Sscanf(portStr, "%d", &port); err != nil {
				continue
			}
			return &net.UDPAddr{IP: net.ParseIP(host), Port: port}, true
		}
	}
	return nil, false
}
