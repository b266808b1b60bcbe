package ice

import (
	"fmt"
	"net"
	"strconv"

	"github.com/netice/ice/transport"
)

// WireCandidate is the candidate record exchanged over the
// signalling channel (spec §6 "Candidate wire format"). The core
// never transmits this itself; callers marshal it into whatever
// out-of-band protocol carries session negotiation.
type WireCandidate struct {
	Component      int    `json:"component"`
	Foundation     string `json:"foundation"`
	Generation     int    `json:"generation"`
	ID             string `json:"id"`
	IP             string `json:"ip"`
	Network        int    `json:"network"`
	Port           int    `json:"port"`
	Priority       uint32 `json:"priority"`
	Protocol       string `json:"protocol"`
	RelatedAddress string `json:"relatedAddress,omitempty"`
	RelatedPort    int    `json:"relatedPort,omitempty"`
	Type           string `json:"type"`
}

func candidateTypeToWire(t CandidateType) (string, error) {
	switch t {
	case CandidateTypeHost:
		return "host", nil
	case CandidateTypePeerReflexive:
		return "prflx", nil
	case CandidateTypeServerReflexive:
		return "srflx", nil
	case CandidateTypeRelayed:
		return "relay", nil
	default:
		return "", fmt.Errorf("ice: unknown candidate type %d", t)
	}
}

func candidateTypeFromWire(s string) (CandidateType, error) {
	switch s {
	case "host":
		return CandidateTypeHost, nil
	case "prflx":
		return CandidateTypePeerReflexive, nil
	case "srflx":
		return CandidateTypeServerReflexive, nil
	case "relay":
		return CandidateTypeRelayed, nil
	default:
		return 0, fmt.Errorf("ice: unknown wire candidate type %q", s)
	}
}

// ToWire converts a gathered CandidateInfo into its wire record.
func ToWire(info CandidateInfo) (WireCandidate, error) {
	typ, err := candidateTypeToWire(info.Type)
	if err != nil {
		return WireCandidate{}, err
	}

	ip, portStr, err := net.SplitHostPort(info.Address.String())
	if err != nil {
		return WireCandidate{}, fmt.Errorf("ice: marshal candidate address: %w", err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return WireCandidate{}, fmt.Errorf("ice: marshal candidate port: %w", err)
	}

	w := WireCandidate{
		Component:  info.ComponentID,
		Foundation: info.Foundation,
		Generation: info.Generation,
		ID:         info.ID,
		IP:         ip,
		Network:    info.NetworkIndex,
		Port:       port,
		Priority:   info.Priority,
		Protocol:   "udp",
		Type:       typ,
	}
	if info.HasRelated {
		relIP, relPortStr, err := net.SplitHostPort(info.RelatedAddress.String())
		if err == nil {
			if relPort, err := strconv.Atoi(relPortStr); err == nil {
				w.RelatedAddress = relIP
				w.RelatedPort = relPort
			}
		}
	}
	return w, nil
}

// FromWire parses a wire record back into a CandidateInfo suitable
// for pairing as a remote candidate.
func FromWire(w WireCandidate) (CandidateInfo, error) {
	typ, err := candidateTypeFromWire(w.Type)
	if err != nil {
		return CandidateInfo{}, err
	}
	if net.ParseIP(w.IP) == nil {
		return CandidateInfo{}, fmt.Errorf("ice: invalid wire candidate IP %q", w.IP)
	}

	info := CandidateInfo{
		ID:           w.ID,
		Type:         typ,
		Priority:     w.Priority,
		ComponentID:  w.Component,
		Foundation:   w.Foundation,
		Address:      transport.AddressFrom(net.ParseIP(w.IP), w.Port),
		Generation:   w.Generation,
		NetworkIndex: w.Network,
	}
	if w.RelatedAddress != "" {
		if relIP := net.ParseIP(w.RelatedAddress); relIP != nil {
			info.RelatedAddress = transport.AddressFrom(relIP, w.RelatedPort)
			info.HasRelated = true
		}
	}
	return info, nil
}
