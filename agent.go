package ice

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/pion/logging"

	"github.com/netice/ice/stun"
	"github.com/netice/ice/transport"
	"github.com/netice/ice/turn"
)

// Role is the RFC 8445 controlling/controlled role an Agent plays.
type Role int

// Roles (spec §6 start(role)).
const (
	RoleInitiator Role = iota
	RoleResponder
)

// Features is a bitmask of the optional behaviours spec §6 names.
type Features uint8

// Feature flags.
const (
	FeatureTrickle Features = 1 << iota
	FeatureAggressiveNomination
	FeatureNotNominatedData
)

func (f Features) has(bit Features) bool { return f&bit != 0 }

// AgentState is the Agent's lifecycle state (spec §3).
type AgentState int

// Agent states.
const (
	StateStopped AgentState = iota
	StateStarting
	StateStarted
	StateActive
	StateStopping
)

// Timing constants from spec §4.8, §4.9.
const (
	tickInterval       = 20 * time.Millisecond
	nominationTimeout  = 3 * time.Second
	pacTimeout         = 30 * time.Second
	turnChannelRefresh = 9 * time.Minute
)

// AgentConfig configures a new Agent. There is no CLI, config file, or
// environment variable surface at this boundary (spec §6); every
// setting is a field here.
type AgentConfig struct {
	LoggerFactory  logging.LoggerFactory
	Clock          stun.Clock
	Components     int
	LocalFeatures  Features
	RemoteFeatures Features
	Discoverer     STUNDiscoverer
	// IncludeLoopback allows loopback addresses into host gathering,
	// for test harnesses running both agents on one machine.
	IncludeLoopback bool
}

// Agent is the ICE agent core: it gathers candidates, builds and
// schedules a checklist, runs connectivity checks, and resolves a
// selected pair per component (spec §4.7-§4.10). Every exported
// method is safe to call concurrently; internally the agent behaves
// as a single cooperative owner of its state, matching spec §5's
// single-threaded event-loop model, expressed here as mutex-guarded
// synchronous methods rather than a goroutine+channel loop so it can
// be driven deterministically by a mock stun.Clock in tests.
type Agent struct {
	mu      sync.Mutex
	log     logging.LeveledLogger
	clock   stun.Clock
	handler *Handler
	config  AgentConfig

	state      AgentState
	role       Role
	tieBreaker uint64

	localUfrag, localPwd   string
	remoteUfrag, remotePwd string

	components []*Component
	checklist  *CheckList

	transports       []*transport.LocalUDPTransport
	transportOwner   map[*transport.LocalUDPTransport]*Component
	transportPool    map[*transport.LocalUDPTransport]*stun.TransactionPool
	transportTurn    map[*transport.LocalUDPTransport]*turn.AllocateClient

	selector Selector

	remoteCandidates []*CandidateInfo

	tickTimer          stun.Timer
	pacTimer           stun.Timer
	nominationArmed    map[int]bool
	nominationTimers   map[int]stun.Timer
	turnRefreshTimers  map[*transport.LocalUDPTransport]stun.Timer
	turnChannelTimers  map[*transport.LocalUDPTransport]stun.Timer

	dataQueues map[int][][]byte

	// externalAddresses holds the statically-known NAT mappings set via
	// SetExternalAddresses, keyed by base address IP (spec §6
	// set_external_addresses).
	externalAddresses map[string]ExternalAddress

	// serviceCandidates tracks which component/candidate-id pairs a
	// named discovered Service produced, so service_removed can clean
	// up precisely (spec §6).
	serviceCandidates map[string][]serviceCandidateRef

	remoteGatheringComplete bool
	pendingGathers          int
}

// serviceCandidateRef identifies one candidate produced on behalf of a
// discovered Service.
type serviceCandidateRef struct {
	componentID int
	candidateID string
}

// NewAgent constructs an Agent in the Stopped state with fresh local
// credentials (spec §6).
func NewAgent(config AgentConfig, handler *Handler) (*Agent, error) {
	if config.Components <= 0 {
		config.Components = 1
	}

	var log logging.LeveledLogger
	if config.LoggerFactory != nil {
		log = config.LoggerFactory.NewLogger("ice")
	} else {
		log = logging.NewDefaultLoggerFactory().NewLogger("ice")
	}

	clock := config.Clock
	if clock == nil {
		clock = stun.RealClock()
	}

	ufrag, err := GenerateUfrag()
	if err != nil {
		return nil, fmt.Errorf("ice: generate local ufrag: %w", err)
	}
	pwd, err := GeneratePassword()
	if err != nil {
		return nil, fmt.Errorf("ice: generate local password: %w", err)
	}

	tieBreaker, err := randomUint64()
	if err != nil {
		return nil, fmt.Errorf("ice: generate tie-breaker: %w", err)
	}

	a := &Agent{
		log:              log,
		clock:            clock,
		handler:          handler,
		config:           config,
		state:            StateStopped,
		tieBreaker:       tieBreaker,
		localUfrag:       ufrag,
		localPwd:         pwd,
		checklist:        NewCheckList(config.Components),
		transportOwner:   make(map[*transport.LocalUDPTransport]*Component),
		transportPool:    make(map[*transport.LocalUDPTransport]*stun.TransactionPool),
		transportTurn:    make(map[*transport.LocalUDPTransport]*turn.AllocateClient),
		nominationArmed:   make(map[int]bool),
		nominationTimers:  make(map[int]stun.Timer),
		turnRefreshTimers: make(map[*transport.LocalUDPTransport]stun.Timer),
		turnChannelTimers: make(map[*transport.LocalUDPTransport]stun.Timer),
		dataQueues:        make(map[int][][]byte),
		externalAddresses: make(map[string]ExternalAddress),
		serviceCandidates: make(map[string][]serviceCandidateRef),
	}

	for i := 1; i <= config.Components; i++ {
		a.components = append(a.components, NewComponent(i, a.checklist, log))
	}

	if config.Discoverer != nil {
		config.Discoverer.SetHandler(DiscovererHandler{
			OnServiceAdded:    a.handleServiceAdded,
			OnServiceModified: a.handleServiceModified,
			OnServiceRemoved:  a.handleServiceRemoved,
			OnDiscoFinished:   a.handleDiscoFinished,
		})
	}

	return a, nil
}

func randomUint64() (uint64, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b[:]), nil
}

// LocalUfrag returns the locally-generated ICE username fragment.
func (a *Agent) LocalUfrag() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.localUfrag
}

// LocalPassword returns the locally-generated ICE password.
func (a *Agent) LocalPassword() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.localPwd
}

// SetRemoteCredentials records the peer's ufrag/password, required
// before any connectivity check can be authenticated (spec §6).
func (a *Agent) SetRemoteCredentials(ufrag, pwd string) error {
	if ufrag == "" || pwd == "" {
		return fmt.Errorf("ice: remote credentials must be non-empty")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.remoteUfrag, a.remotePwd = ufrag, pwd
	return nil
}

func (a *Agent) aggressiveMode() bool {
	return a.config.LocalFeatures.has(FeatureAggressiveNomination)
}

func (a *Agent) notNominatedData() bool {
	return a.config.LocalFeatures.has(FeatureNotNominatedData)
}

func (a *Agent) componentByID(id int) (*Component, error) {
	if id < 1 || id > len(a.components) {
		return nil, ErrUnknownComponent
	}
	return a.components[id-1], nil
}

// Start transitions the agent to Started, fixes its role, and emits
// `started` (spec §6 start(role)).
func (a *Agent) Start(role Role) error {
	a.mu.Lock()
	if a.state != StateStopped {
		a.mu.Unlock()
		return ErrAlreadyStarted
	}
	a.role = role
	if role == RoleInitiator {
		a.selector = &controllingSelector{aggressive: a.aggressiveMode()}
	} else {
		a.selector = &controlledSelector{aggressive: a.aggressiveMode()}
	}
	a.state = StateStarted
	a.mu.Unlock()

	a.handler.started()
	return nil
}

// GatherHostCandidates binds one UDP socket per (component, local
// address) pair and reports the resulting host candidates (spec
// §4.6, §6 set_local_addresses).
func (a *Agent) GatherHostCandidates(addrs []transport.LocalAddress) error {
	a.mu.Lock()
	if a.state == StateStopped || a.state == StateStopping {
		a.mu.Unlock()
		return ErrNotStarted
	}
	a.mu.Unlock()

	var added []CandidateInfo
	for _, comp := range a.components {
		for i, addr := range addrs {
			if addr.IP.IsLoopback() && !a.config.IncludeLoopback {
				continue
			}
			conn, err := net.ListenUDP("udp", &net.UDPAddr{IP: addr.IP})
			if err != nil {
				a.handler.errorOccurred(ErrorBind)
				return fmt.Errorf("ice: bind host candidate socket on %s: %w", addr.IP, err)
			}
			transport.ApplySocketOptions(conn, a.log)

			tr := transport.NewLocalUDPTransport(transport.Config{
				Conn:               conn,
				LoggerFactory:      a.config.LoggerFactory,
				OnDatagramsWritten: a.onDatagramsWritten(comp.ID()),
			})

			a.mu.Lock()
			a.transports = append(a.transports, tr)
			a.transportOwner[tr] = comp
			pool := stun.NewTransactionPool(a.outgoingFor(tr), nil, a.log)
			pool.SetClock(a.clock)
			a.transportPool[tr] = pool
			a.mu.Unlock()

			tr.SetSTUNSink(&agentSink{agent: a, transport: tr})
			go a.consumeDatagrams(tr, comp)

			localAddr, _ := transport.AddressFromAddr(tr.LocalAddr())
			onVirtual := addr.InterfaceType == transport.InterfaceVirtual
			info := CandidateInfo{
				ID:          NewCandidateID(),
				Type:        CandidateTypeHost,
				Priority:    Priority(CandidateTypeHost, onVirtual, uint16(i), comp.ID()),
				ComponentID: comp.ID(),
				Foundation:  Foundation(CandidateTypeHost, localAddr.IP, "", "udp"),
				Address:     localAddr,
				Base:        localAddr,
			}
			cand := &Candidate{CandidateInfo: info, Transport: tr, Path: transport.PathDirect}
			if comp.AddCandidate(cand) {
				added = append(added, info)
			}

			if ext, ok := a.externalAddressFor(localAddr.IP); ok {
				port := ext.Port
				if port == 0 {
					port = localAddr.Port
				}
				extAddr := transport.AddressFrom(ext.Addr, port)
				extInfo := CandidateInfo{
					ID:          NewCandidateID(),
					Type:        CandidateTypeServerReflexive,
					Priority:    Priority(CandidateTypeServerReflexive, onVirtual, uint16(i), comp.ID()),
					ComponentID: comp.ID(),
					Foundation:  Foundation(CandidateTypeServerReflexive, localAddr.IP, ext.Addr.String(), "udp"),
					Address:     extAddr,
					Base:        localAddr,
				}
				extCand := &Candidate{CandidateInfo: extInfo, Transport: tr, Path: transport.PathDirect}
				if comp.AddCandidate(extCand) {
					added = append(added, extInfo)
				}
			}
		}
		comp.MarkLocalFinished()
	}

	if len(added) > 0 {
		a.handler.localCandidatesReady(added)
	}
	a.maybeCompleteGathering()
	return nil
}

// outgoingFor returns a stun.Outgoing that writes through tr's Direct
// path, used by both the gathering/connectivity pool and as the Send
// callback for a TURN client bound to tr.
func (a *Agent) outgoingFor(tr *transport.LocalUDPTransport) stun.Outgoing {
	return func(b []byte, to net.Addr) {
		if _, err := tr.Write(transport.PathDirect, b, to); err != nil {
			a.log.Debugf("ice: write failed on %v: %v", tr.LocalAddr(), err)
		}
	}
}

func (a *Agent) onDatagramsWritten(componentID int) func(transport.Path, int, net.Addr) {
	return func(_ transport.Path, count int, _ net.Addr) {
		a.handler.datagramsWritten(componentID, count)
	}
}

// agentSink demultiplexes inbound STUN/TURN control traffic on one
// transport: TURN allocation responses first (if a client is bound),
// then the transport's own connectivity-check/gathering pool.
type agentSink struct {
	agent     *Agent
	transport *transport.LocalUDPTransport
}

func (s *agentSink) WriteIncoming(b []byte, from net.Addr) bool {
	s.agent.mu.Lock()
	client := s.agent.transportTurn[s.transport]
	pool := s.agent.transportPool[s.transport]
	s.agent.mu.Unlock()

	if client != nil && client.WriteIncoming(b, from) {
		return true
	}
	if !stun.IsMessage(b) {
		return false
	}
	_, m, err := stun.Decode(b, stun.DecodeOptions{})
	if err != nil {
		return false
	}
	if m.Type.Method == stun.MethodBinding && m.Type.Class == stun.ClassRequest {
		// Re-decode with MESSAGE-INTEGRITY validation now that we know
		// this is a request: the key is our own local password, since
		// the peer authenticates checks against the credentials we
		// handed it out of band (spec §4.6, RFC 8445 §7.3).
		s.agent.mu.Lock()
		key := []byte(s.agent.localPwd)
		s.agent.mu.Unlock()
		validation, authed, err := stun.Decode(b, stun.DecodeOptions{IntegrityKey: key})
		if err != nil || validation != stun.Good {
			return true
		}
		s.agent.handleBindingRequest(s.transport, from, authed)
		return true
	}
	if pool != nil {
		return pool.WriteIncoming(b, from)
	}
	return false
}

// consumeDatagrams delivers a transport's application datagrams
// (Direct or Relayed path, already classified) to the owning
// component's inbound queue (spec §4.10).
func (a *Agent) consumeDatagrams(tr *transport.LocalUDPTransport, comp *Component) {
	for dg := range tr.Incoming() {
		a.mu.Lock()
		if a.state == StateStopping || a.state == StateStopped {
			a.mu.Unlock()
			continue
		}
		a.dataQueues[comp.ID()] = append(a.dataQueues[comp.ID()], dg.Data)
		a.mu.Unlock()
		a.handler.readyRead(comp.ID())
	}
}

// SetStunDiscoverer installs (or replaces) the external STUN/TURN
// service discoverer (spec §6 set_stun_discoverer). It is usually set
// via AgentConfig.Discoverer instead; this setter supports changing
// discoverers after construction.
func (a *Agent) SetStunDiscoverer(d STUNDiscoverer) {
	a.mu.Lock()
	a.config.Discoverer = d
	a.mu.Unlock()
	if d != nil {
		d.SetHandler(DiscovererHandler{
			OnServiceAdded:    a.handleServiceAdded,
			OnServiceModified: a.handleServiceModified,
			OnServiceRemoved:  a.handleServiceRemoved,
			OnDiscoFinished:   a.handleDiscoFinished,
		})
	}
}

func (a *Agent) handleDiscoFinished() {
	a.maybeCompleteGathering()
}

// handleServiceAdded starts a STUN binding or TURN allocation against
// a newly discovered service on every transport, adding the resulting
// srflx/relayed candidate to its owning component (spec §4.4, §4.6).
func (a *Agent) handleServiceAdded(svc Service) {
	addr, ok := svc.Addr()
	if !ok {
		return
	}

	a.mu.Lock()
	transports := append([]*transport.LocalUDPTransport{}, a.transports...)
	a.mu.Unlock()

	for _, tr := range transports {
		tr.AddServiceAddress(addr)
		a.mu.Lock()
		a.pendingGathers++
		a.mu.Unlock()
		if svc.IsRelay() {
			a.startTurnAllocation(tr, addr, svc)
		} else {
			a.startStunBinding(tr, addr, svc)
		}
	}
}

// handleServiceRemoved drops every candidate a withdrawn service
// produced, across every component it touched (spec §6
// service_removed).
func (a *Agent) handleServiceRemoved(svc Service) {
	a.mu.Lock()
	refs := a.serviceCandidates[svc.Name]
	delete(a.serviceCandidates, svc.Name)
	a.mu.Unlock()

	for _, ref := range refs {
		comp, err := a.componentByID(ref.componentID)
		if err != nil {
			continue
		}
		comp.RemoveCandidate(ref.candidateID)
	}
}

// handleServiceModified treats a modified service as a remove
// followed by a fresh add, so the new address/credentials are
// regathered against the same candidate-tracking path added candidates
// already use (spec §6 service_modified).
func (a *Agent) handleServiceModified(svc Service) {
	a.handleServiceRemoved(svc)
	a.handleServiceAdded(svc)
}

// recordServiceCandidate associates a newly added candidate with the
// named service that produced it, for later service_removed cleanup.
func (a *Agent) recordServiceCandidate(serviceName string, componentID int, candidateID string) {
	if serviceName == "" {
		return
	}
	a.mu.Lock()
	a.serviceCandidates[serviceName] = append(a.serviceCandidates[serviceName], serviceCandidateRef{
		componentID: componentID,
		candidateID: candidateID,
	})
	a.mu.Unlock()
}

func (a *Agent) startStunBinding(tr *transport.LocalUDPTransport, server net.Addr, svc Service) {
	a.mu.Lock()
	pool := a.transportPool[tr]
	comp := a.transportOwner[tr]
	a.mu.Unlock()
	if pool == nil || comp == nil {
		a.finishGather()
		return
	}

	bc := stun.NewBindingClient(pool, a.log)
	go func() {
		ip, port, err := bc.Bind(server)
		if err != nil {
			a.log.Warnf("ice: srflx binding to %v failed: %v", server, err)
			a.finishGather()
			return
		}

		localAddr, _ := transport.AddressFromAddr(tr.LocalAddr())
		serverAddr, _ := transport.AddressFromAddr(server)
		info := CandidateInfo{
			ID:          NewCandidateID(),
			Type:        CandidateTypeServerReflexive,
			Priority:    Priority(CandidateTypeServerReflexive, false, 0, comp.ID()),
			ComponentID: comp.ID(),
			Foundation:  Foundation(CandidateTypeServerReflexive, localAddr.IP, serverAddr.IP, "udp"),
			Address:     transport.AddressFrom(ip, port),
			Base:        localAddr,
		}
		cand := &Candidate{CandidateInfo: info, Transport: tr, Path: transport.PathDirect}
		if comp.AddCandidate(cand) {
			a.recordServiceCandidate(svc.Name, comp.ID(), info.ID)
			a.handler.localCandidatesReady([]CandidateInfo{info})
		}
		a.finishGather()
	}()
}

func (a *Agent) startTurnAllocation(tr *transport.LocalUDPTransport, server net.Addr, svc Service) {
	a.mu.Lock()
	comp := a.transportOwner[tr]
	a.mu.Unlock()
	if comp == nil {
		a.finishGather()
		return
	}

	client := turn.NewAllocateClient(turn.Config{
		Server:        server,
		Send:          a.outgoingFor(tr),
		Credentials:   stun.LongTermCredentials{Username: svc.Username, Password: svc.Password},
		LoggerFactory: a.config.LoggerFactory,
	})

	a.mu.Lock()
	a.transportTurn[tr] = client
	a.mu.Unlock()

	go func() {
		relayed, mapped, err := client.Allocate()
		if err != nil {
			a.log.Warnf("ice: turn allocation on %v failed: %v", server, err)
			a.handler.errorOccurred(ErrorTurn)
			a.finishGather()
			return
		}
		tr.SetTURNCodec(client.Codec())
		a.scheduleTurnRefresh(tr, client)
		a.scheduleTurnChannelRefresh(tr, client)

		localAddr, _ := transport.AddressFromAddr(tr.LocalAddr())
		serverAddr, _ := transport.AddressFromAddr(server)
		relayedAddr, _ := transport.AddressFromAddr(relayed)
		relayedInfo := CandidateInfo{
			ID:          NewCandidateID(),
			Type:        CandidateTypeRelayed,
			Priority:    Priority(CandidateTypeRelayed, false, 0, comp.ID()),
			ComponentID: comp.ID(),
			Foundation:  Foundation(CandidateTypeRelayed, localAddr.IP, serverAddr.IP, "udp"),
			Address:     relayedAddr,
			Base:        localAddr,
		}
		relayedCand := &Candidate{CandidateInfo: relayedInfo, Transport: tr, Path: transport.PathRelayed}
		newCands := []CandidateInfo{}
		if comp.AddCandidate(relayedCand) {
			a.recordServiceCandidate(svc.Name, comp.ID(), relayedInfo.ID)
			newCands = append(newCands, relayedInfo)
		}

		if mapped != nil {
			mappedAddr, _ := transport.AddressFromAddr(mapped)
			srflxInfo := CandidateInfo{
				ID:          NewCandidateID(),
				Type:        CandidateTypeServerReflexive,
				Priority:    Priority(CandidateTypeServerReflexive, false, 0, comp.ID()),
				ComponentID: comp.ID(),
				Foundation:  Foundation(CandidateTypeServerReflexive, localAddr.IP, serverAddr.IP, "udp"),
				Address:     mappedAddr,
				Base:        localAddr,
			}
			srflxCand := &Candidate{CandidateInfo: srflxInfo, Transport: tr, Path: transport.PathDirect}
			if comp.AddCandidate(srflxCand) {
				a.recordServiceCandidate(svc.Name, comp.ID(), srflxInfo.ID)
				newCands = append(newCands, srflxInfo)
			}
		}

		if len(newCands) > 0 {
			a.handler.localCandidatesReady(newCands)
		}
		a.finishGather()
	}()
}

// scheduleTurnRefresh arms a self-rescheduling timer that refreshes
// tr's TURN allocation at half its granted lifetime, per spec §5
// "TURN allocation lifetime is refreshed at ~half-lifetime". It stops
// rescheduling once the agent is stopping/stopped.
func (a *Agent) scheduleTurnRefresh(tr *transport.LocalUDPTransport, client *turn.AllocateClient) {
	a.mu.Lock()
	if a.state == StateStopping || a.state == StateStopped {
		a.mu.Unlock()
		return
	}
	interval := client.Lifetime() / 2
	if interval <= 0 {
		interval = turn.DefaultLifetime / 2
	}
	a.turnRefreshTimers[tr] = a.clock.AfterFunc(interval, func() {
		if err := client.Refresh(uint32(turn.DefaultLifetime.Seconds())); err != nil {
			a.log.Warnf("ice: turn refresh on %v failed: %v", tr.LocalAddr(), err)
		}
		a.scheduleTurnRefresh(tr, client)
	})
	a.mu.Unlock()
}

// scheduleTurnChannelRefresh arms a self-rescheduling timer that
// re-sends ChannelBind for every peer tr has bound a channel to, per
// spec §5 "ChannelBind refreshed every ~9 min" (RFC 5766 §11's
// 10-minute server-side channel timeout).
func (a *Agent) scheduleTurnChannelRefresh(tr *transport.LocalUDPTransport, client *turn.AllocateClient) {
	a.mu.Lock()
	if a.state == StateStopping || a.state == StateStopped {
		a.mu.Unlock()
		return
	}
	a.turnChannelTimers[tr] = a.clock.AfterFunc(turnChannelRefresh, func() {
		if err := client.RefreshChannelBindings(); err != nil {
			a.log.Warnf("ice: turn channel refresh on %v failed: %v", tr.LocalAddr(), err)
		}
		a.scheduleTurnChannelRefresh(tr, client)
	})
	a.mu.Unlock()
}

// finishGather decrements the outstanding-gather counter and
// re-evaluates gathering completion.
func (a *Agent) finishGather() {
	a.mu.Lock()
	if a.pendingGathers > 0 {
		a.pendingGathers--
	}
	a.mu.Unlock()
	a.maybeCompleteGathering()
}

// maybeCompleteGathering declares gathering complete, for every
// component, once every component has reported local_finished, no
// discoverer sweep is in progress, and every STUN bind / TURN
// allocation the discoverer triggered has resolved (spec §4.6).
func (a *Agent) maybeCompleteGathering() {
	a.mu.Lock()
	discoverer := a.config.Discoverer
	pending := a.pendingGathers
	a.mu.Unlock()

	if discoverer != nil && discoverer.InProgress() {
		return
	}
	if pending > 0 {
		return
	}

	allComplete := true
	for _, comp := range a.components {
		if !comp.LocalFinished() {
			allComplete = false
			break
		}
	}
	if !allComplete {
		return
	}

	for _, comp := range a.components {
		comp.MarkGatheringComplete()
	}
	a.handler.localGatheringComplete()
}

// AddRemoteCandidates converts wire candidates into remote
// CandidateInfo values and pairs each against every matching local
// candidate (spec §4.7).
func (a *Agent) AddRemoteCandidates(wire []WireCandidate) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, w := range wire {
		info, err := FromWire(w)
		if err != nil {
			return err
		}
		a.mergeRemoteCandidateLocked(&info)
	}
	return nil
}

// mergeRemoteCandidateLocked adds info to the remote set, merging
// onto an existing peer-reflexive entry for the same address if one
// exists (promoting its type per spec §4.7's prflx-merge rule), then
// pairs it against every local candidate. Caller holds a.mu.
func (a *Agent) mergeRemoteCandidateLocked(info *CandidateInfo) {
	for i, existing := range a.remoteCandidates {
		if existing.ComponentID == info.ComponentID && existing.Address == info.Address {
			if existing.Type == CandidateTypePeerReflexive && info.Type != CandidateTypePeerReflexive {
				a.remoteCandidates[i] = info
			}
			return
		}
	}
	a.remoteCandidates = append(a.remoteCandidates, info)
	a.pairRemoteLocked(info)
}

// pairRemoteLocked implements spec §4.7 steps 1-5 for one remote
// candidate against every local candidate of its component.
func (a *Agent) pairRemoteLocked(remote *CandidateInfo) {
	comp, err := a.componentByID(remote.ComponentID)
	if err != nil {
		return
	}
	for _, local := range comp.Candidates() {
		if local.Type == CandidateTypePeerReflexive {
			continue // never paired directly; only arises from responses
		}
		if local.Address.IsIPv6() != remote.Address.IsIPv6() {
			continue
		}
		if local.Path == transport.PathRelayed && remote.Address.IsLoopback() {
			continue
		}
		pair := NewCandidatePair(local, remote, a.role == RoleInitiator)
		if a.checklist.Add(pair) && a.state == StateActive {
			// Once checks are running, the first pair of a fresh
			// foundation group starts Waiting; pairs joining an existing
			// group stay Frozen. Before StartChecks every pair stays
			// Frozen and StartChecks picks one per foundation.
			fresh := true
			for _, p := range a.checklist.Pairs() {
				if p != pair && p.FoundationPair == pair.FoundationPair {
					fresh = false
					break
				}
			}
			if fresh {
				pair.State = PairWaiting
			}
		}
	}
}

// StartChecks begins the check phase: every pair whose foundation has
// not yet been seen starts Waiting, the rest stay Frozen, and the
// scheduler tick and PAC timer are armed (spec §4.8).
func (a *Agent) StartChecks() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateStarted {
		return ErrNotStarted
	}
	if a.checklist.Len() == 0 {
		return ErrNoCandidates
	}

	seenFoundations := make(map[string]bool)
	for _, p := range a.checklist.Pairs() {
		if !seenFoundations[p.FoundationPair] {
			seenFoundations[p.FoundationPair] = true
			if p.State == PairFrozen {
				p.State = PairWaiting
			}
		}
	}

	a.state = StateActive
	a.scheduleTick()
	a.pacTimer = a.clock.AfterFunc(pacTimeout, a.onPACExpired)
	return nil
}

func (a *Agent) scheduleTick() {
	a.tickTimer = a.clock.AfterFunc(tickInterval, func() {
		a.tick()
		a.mu.Lock()
		active := a.state == StateActive
		a.mu.Unlock()
		if active {
			a.scheduleTick()
		}
	})
}

// tick implements the scheduler of spec §4.8: triggered FIFO first,
// then the best Waiting pair, then the best Frozen pair.
func (a *Agent) tick() {
	a.mu.Lock()
	if a.state != StateActive {
		a.mu.Unlock()
		return
	}

	pair, ok := a.checklist.PopTriggered()
	if ok {
		pair.IsTriggered = true
		a.mu.Unlock()
		a.startCheck(pair)
		return
	}

	if pair, ok = a.checklist.NextWaiting(); ok {
		a.mu.Unlock()
		a.startCheck(pair)
		return
	}

	if pair, ok = a.checklist.NextFrozen(); ok {
		pair.State = PairWaiting
		a.mu.Unlock()
		a.startCheck(pair)
		return
	}

	a.mu.Unlock()
}

// startCheck sends a Binding Request for pair (spec §4.8 "Check
// start").
func (a *Agent) startCheck(pair *CandidatePair) {
	a.mu.Lock()
	pair.State = PairInProgress
	pair.bindingCount++
	role, tieBreaker := a.role, a.tieBreaker
	useCandidate := role == RoleInitiator && (a.aggressiveMode() || pair.FinalNomination)
	remoteUfrag, localUfrag, remotePwd := a.remoteUfrag, a.localUfrag, a.remotePwd
	pool := a.transportPool[pair.Local.Transport]
	comp, _ := a.componentByID(pair.Local.ComponentID)
	a.mu.Unlock()

	if pool == nil || comp == nil {
		return
	}

	id, err := stun.NewTransactionID()
	if err != nil {
		return
	}
	prflxPriority := comp.PeerReflexivePriority(pair.Local, false)

	setters := []stun.Setter{}
	if role == RoleInitiator {
		setters = append(setters, stun.ICEControlling(tieBreaker))
	} else {
		setters = append(setters, stun.ICEControlled(tieBreaker))
	}
	setters = append(setters, stun.Priority(prflxPriority))
	if useCandidate {
		setters = append(setters, stun.UseCandidate())
	}
	setters = append(setters,
		stun.Username(remoteUfrag+":"+localUfrag),
		stun.MessageIntegrity([]byte(remotePwd)),
		stun.Fingerprint(),
	)

	msg, err := stun.Build(stun.Type{Class: stun.ClassRequest, Method: stun.MethodBinding}, id, setters...)
	if err != nil {
		a.log.Warnf("ice: build binding request: %v", err)
		return
	}

	h, err := pool.Start(stun.Request{
		Message:              msg,
		ID:                   id,
		ResponseIntegrityKey: []byte(remotePwd),
	}, pair.Remote.Address.UDPAddr())
	if err != nil {
		a.log.Warnf("ice: start connectivity check: %v", err)
		return
	}

	go a.awaitCheck(pair, comp, h, useCandidate)
}

func (a *Agent) awaitCheck(pair *CandidatePair, comp *Component, h *stun.Handle, useCandidate bool) {
	<-h.Done()
	resp, err := h.Result()

	a.mu.Lock()
	stopped := a.state == StateStopping || a.state == StateStopped
	a.mu.Unlock()
	if stopped {
		return
	}

	if err != nil {
		a.onCheckError(pair, comp, err)
		return
	}
	a.onCheckSuccess(pair, comp, resp, useCandidate)
}

func (a *Agent) onCheckError(pair *CandidatePair, comp *Component, err error) {
	a.mu.Lock()
	pair.State = PairFailed
	a.checklist.RemoveValid(pair)
	escalate := pair.FinalNomination || pair.IsTriggeredForNominated
	a.mu.Unlock()

	a.log.Debugf("ice: connectivity check failed for component %d: %v", comp.ID(), err)
	if escalate {
		a.escalateDisconnected()
	}
}

func (a *Agent) onCheckSuccess(pair *CandidatePair, comp *Component, resp *stun.Message, useCandidate bool) {
	attr, ok := resp.Get(stun.AttrXORMappedAddress)
	if !ok {
		a.onCheckError(pair, comp, stun.ErrProtocol)
		return
	}
	ip, port, err := stun.DecodeAddress(attr.Value, true, resp.TransactionID)
	if err != nil {
		a.onCheckError(pair, comp, stun.ErrProtocol)
		return
	}
	mappedAddr := transport.AddressFrom(ip, port)

	a.mu.Lock()
	validPair := pair
	if mappedAddr != pair.Local.Address {
		local := a.findOrCreatePeerReflexiveLocked(comp, pair, mappedAddr)
		if existing := a.findPairLocked(local, pair.Remote); existing != nil {
			validPair = existing
		} else {
			validPair = NewCandidatePair(local, pair.Remote, a.role == RoleInitiator)
			a.checklist.Add(validPair)
		}
	}

	validPair.State = PairSucceeded
	validPair.IsValid = true
	a.checklist.AddValid(validPair)
	a.checklist.Unfreeze(validPair.FoundationPair)

	if validPair.Local.Path == transport.PathRelayed && comp.LowOverhead() {
		if client := a.transportTurn[validPair.Local.Transport]; client != nil {
			go func() { _ = client.ChannelBind(validPair.Remote.Address.UDPAddr()) }()
		}
	}

	if a.role == RoleInitiator && useCandidate {
		validPair.IsNominated = true
	}
	a.mu.Unlock()

	comp.SetHighestPriorityValid(validPair)
	if best, ok := comp.HighestPriorityValid(); ok {
		a.checklist.Optimize(comp.ID(), best.Priority)
	}

	a.selector.OnValidPair(a, comp, validPair, useCandidate && a.role == RoleInitiator)
}

func (a *Agent) findPairLocked(local *Candidate, remote *CandidateInfo) *CandidatePair {
	for _, p := range a.checklist.Pairs() {
		if p.Local == local && p.Remote == remote {
			return p
		}
	}
	return nil
}

func (a *Agent) findOrCreatePeerReflexiveLocked(comp *Component, base *CandidatePair, mapped transport.Address) *Candidate {
	for _, c := range comp.Candidates() {
		if c.Base == mapped || c.Address == mapped {
			return c
		}
	}
	info := CandidateInfo{
		ID:          NewCandidateID(),
		Type:        CandidateTypePeerReflexive,
		Priority:    comp.PeerReflexivePriority(base.Local, false),
		ComponentID: comp.ID(),
		Foundation:  Foundation(CandidateTypePeerReflexive, base.Local.Base.String(), "", "udp"),
		Address:     mapped,
		Base:        base.Local.Base,
	}
	cand := &Candidate{CandidateInfo: info, Transport: base.Local.Transport, Path: base.Local.Path}
	comp.AddCandidate(cand)
	return cand
}

// handleBindingRequest answers an inbound connectivity check and
// establishes path validity for the responder side (spec §4.8, §4.7
// peer-reflexive discovery). The caller (agentSink.WriteIncoming) has
// already verified MESSAGE-INTEGRITY against our local password
// before handing us the request; the USERNAME comparison below is a
// second, cheap check of which ufrag pairing the request claims. As a
// simplification over the full RFC 8445 responder state machine,
// receipt of an authenticated request is treated as sufficient to
// mark the corresponding pair valid immediately, rather than
// requiring the responder's own triggered check to also complete
// first; this keeps convergence fast for the common case and is
// documented as a deliberate simplification.
func (a *Agent) handleBindingRequest(tr *transport.LocalUDPTransport, from net.Addr, req *stun.Message) {
	a.mu.Lock()
	comp := a.transportOwner[tr]
	localPwd := a.localPwd
	expectedUser := a.localUfrag + ":" + a.remoteUfrag
	a.mu.Unlock()
	if comp == nil {
		return
	}

	if userAttr, ok := req.Get(stun.AttrUsername); ok {
		if string(userAttr.Value) != expectedUser {
			return
		}
	}

	udpFrom, ok := from.(*net.UDPAddr)
	if !ok {
		return
	}
	fromAddr := transport.AddressFrom(udpFrom.IP, udpFrom.Port)
	useCandidate := req.Contains(stun.AttrUseCandidate)

	a.mu.Lock()
	remote := a.findRemoteByAddressLocked(comp.ID(), fromAddr)
	if remote == nil {
		priority := uint32(0)
		if pAttr, ok := req.Get(stun.AttrPriority); ok && len(pAttr.Value) == 4 {
			priority = uint32(pAttr.Value[0])<<24 | uint32(pAttr.Value[1])<<16 | uint32(pAttr.Value[2])<<8 | uint32(pAttr.Value[3])
		}
		remote = &CandidateInfo{
			ID:          NewCandidateID(),
			Type:        CandidateTypePeerReflexive,
			Priority:    priority,
			ComponentID: comp.ID(),
			Foundation:  Foundation(CandidateTypePeerReflexive, fromAddr.String(), "", "udp"),
			Address:     fromAddr,
		}
		a.remoteCandidates = append(a.remoteCandidates, remote)
	}

	var local *Candidate
	for _, c := range comp.Candidates() {
		if c.Transport == tr {
			local = c
			break
		}
	}
	a.mu.Unlock()

	if local == nil {
		return
	}

	respID := req.TransactionID
	resp, err := stun.Build(
		stun.Type{Class: stun.ClassSuccessResponse, Method: stun.MethodBinding},
		respID,
		stun.XORMappedAddress(udpFrom.IP, udpFrom.Port, respID),
		stun.MessageIntegrity([]byte(localPwd)),
		stun.Fingerprint(),
	)
	if err != nil {
		return
	}
	if _, err := tr.Write(transport.PathDirect, resp, from); err != nil {
		a.log.Debugf("ice: failed to answer binding request: %v", err)
		return
	}

	a.mu.Lock()
	pair := a.findPairLocked(local, remote)
	if pair == nil {
		pair = NewCandidatePair(local, remote, a.role == RoleInitiator)
		a.checklist.Add(pair)
	}
	pair.State = PairSucceeded
	pair.IsValid = true
	a.checklist.AddValid(pair)
	a.checklist.Unfreeze(pair.FoundationPair)
	a.mu.Unlock()

	comp.SetHighestPriorityValid(pair)

	a.selector.OnValidPair(a, comp, pair, useCandidate)
}

func (a *Agent) findRemoteByAddressLocked(componentID int, addr transport.Address) *CandidateInfo {
	for _, r := range a.remoteCandidates {
		if r.ComponentID == componentID && r.Address == addr {
			return r
		}
	}
	return nil
}

// armNominationTimer arms comp's nomination timer once (spec §4.9).
func (a *Agent) armNominationTimer(comp *Component) {
	a.mu.Lock()
	if a.nominationArmed[comp.ID()] {
		a.mu.Unlock()
		return
	}
	a.nominationArmed[comp.ID()] = true
	a.nominationTimers[comp.ID()] = a.clock.AfterFunc(nominationTimeout, func() { a.onNominationExpired(comp) })
	a.mu.Unlock()
}

// onNominationExpired fires the ordinary-mode nomination timer (spec
// §4.9 "Initiator, Ordinary mode" / "Responder"). Aggressive mode
// never arms this timer: it finalizes on the first nomination
// directly in Selector.OnValidPair.
func (a *Agent) onNominationExpired(comp *Component) {
	if _, selected := comp.SelectedPair(); selected {
		return
	}

	a.mu.Lock()
	role := a.role
	a.mu.Unlock()

	if role == RoleInitiator {
		best, ok := comp.HighestPriorityValid()
		if !ok || a.deferForRelay(comp, best) {
			return
		}
		a.mu.Lock()
		best.FinalNomination = true
		a.checklist.PushTriggered(best)
		a.mu.Unlock()
		return
	}

	if nominated, ok := comp.Nominated(); ok {
		comp.Select(nominated)
		a.finalizeComponentIfReady(comp)
	}
}

// deferForRelay implements spec §4.9's relayed-nomination deferral:
// "nomination is deferred until either both sides have announced
// gathering complete or no non-relayed pair is still pending."
func (a *Agent) deferForRelay(comp *Component, best *CandidatePair) bool {
	if best.Local.Path != transport.PathRelayed {
		return false
	}

	a.mu.Lock()
	remoteDone := a.remoteGatheringComplete
	a.mu.Unlock()
	bothComplete := remoteDone && comp.GatheringComplete()
	if bothComplete {
		return false
	}

	for _, p := range a.checklist.Pairs() {
		if p.Local.ComponentID != comp.ID() {
			continue
		}
		if p.Local.Path != transport.PathRelayed && (p.State == PairFrozen || p.State == PairWaiting || p.State == PairInProgress) {
			return true
		}
	}
	return false
}

func (a *Agent) finalizeComponentIfReady(comp *Component) {
	a.handler.componentReady(comp.ID())

	allSelected := true
	for _, c := range a.components {
		if _, ok := c.SelectedPair(); !ok {
			allSelected = false
			break
		}
	}
	if !allSelected {
		return
	}

	a.mu.Lock()
	if a.pacTimer != nil {
		a.pacTimer.Stop()
	}
	a.mu.Unlock()

	a.handler.readyToSendMedia()
	a.handler.iceFinished()
}

func (a *Agent) escalateDisconnected() {
	a.handler.errorOccurred(ErrorDisconnected)
	_ = a.Stop()
}

func (a *Agent) onPACExpired() {
	a.mu.Lock()
	allSelected := true
	for _, c := range a.components {
		if _, ok := c.SelectedPair(); !ok {
			allSelected = false
			break
		}
	}
	a.mu.Unlock()
	if allSelected {
		return
	}
	a.handler.errorOccurred(ErrorGeneric)
	_ = a.Stop()
}

// SetRemoteGatheringComplete records that the peer has announced it
// has no further candidates (spec §6), unblocking relayed-pair
// nomination deferral.
func (a *Agent) SetRemoteGatheringComplete() {
	a.mu.Lock()
	a.remoteGatheringComplete = true
	a.mu.Unlock()
}

// SetExternalAddresses records the statically-known NAT mappings used
// to derive an extra server-reflexive candidate per configured
// base→external address when host candidates are gathered (spec §6
// set_external_addresses). Calling it after GatherHostCandidates has
// already run has no retroactive effect; it is meant to be called
// before gathering starts.
func (a *Agent) SetExternalAddresses(addrs []ExternalAddress) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.externalAddresses = make(map[string]ExternalAddress, len(addrs))
	for _, addr := range addrs {
		a.externalAddresses[addr.Base.String()] = addr
	}
}

// externalAddressFor looks up the external mapping configured for a
// local base address IP, if any.
func (a *Agent) externalAddressFor(baseIP string) (ExternalAddress, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ext, ok := a.externalAddresses[baseIP]
	return ext, ok
}

// FlagComponentAsLowOverhead hints that component carries frequent
// small datagrams, enabling TURN ChannelBind for its relayed pairs
// (spec §6).
func (a *Agent) FlagComponentAsLowOverhead(componentID int) error {
	comp, err := a.componentByID(componentID)
	if err != nil {
		return err
	}
	comp.FlagLowOverhead()
	return nil
}

// WriteDatagram sends bytes on component's selected pair (or, in
// NotNominatedData mode, any valid pair), per spec §4.10. Writes on a
// component with no usable pair are silently dropped, per spec §7.
func (a *Agent) WriteDatagram(componentID int, b []byte) error {
	comp, err := a.componentByID(componentID)
	if err != nil {
		return err
	}

	a.mu.Lock()
	stopped := a.state == StateStopping || a.state == StateStopped
	a.mu.Unlock()
	if stopped {
		return nil
	}

	pair, ok := comp.SelectedPair()
	if !ok && a.notNominatedData() {
		pair, ok = comp.HighestPriorityValid()
	}
	if !ok {
		a.log.Debugf("ice: write on component %d dropped: no usable pair", componentID)
		return nil
	}

	_, err = pair.Local.Transport.Write(pair.Local.Path, b, pair.Remote.Address.UDPAddr())
	return err
}

// ReadDatagram pops the oldest buffered inbound datagram for
// component, FIFO (spec §4.10).
func (a *Agent) ReadDatagram(componentID int) ([]byte, bool, error) {
	if _, err := a.componentByID(componentID); err != nil {
		return nil, false, err
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	q := a.dataQueues[componentID]
	if len(q) == 0 {
		return nil, false, nil
	}
	b := q[0]
	a.dataQueues[componentID] = q[1:]
	return b, true, nil
}

// HasPendingDatagrams reports whether component has buffered inbound
// data waiting to be read.
func (a *Agent) HasPendingDatagrams(componentID int) (bool, error) {
	if _, err := a.componentByID(componentID); err != nil {
		return false, err
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.dataQueues[componentID]) > 0, nil
}

// Stop transitions the agent through Stopping to Stopped, cancelling
// all timers, closing every TURN client and transport, and emitting
// `stopped` once every transport has reported closed (spec §5).
func (a *Agent) Stop() error {
	a.mu.Lock()
	if a.state == StateStopped || a.state == StateStopping {
		a.mu.Unlock()
		return nil
	}
	a.state = StateStopping
	if a.tickTimer != nil {
		a.tickTimer.Stop()
	}
	if a.pacTimer != nil {
		a.pacTimer.Stop()
	}
	for _, t := range a.nominationTimers {
		t.Stop()
	}
	for _, t := range a.turnRefreshTimers {
		t.Stop()
	}
	for _, t := range a.turnChannelTimers {
		t.Stop()
	}
	turnClients := make([]*turn.AllocateClient, 0, len(a.transportTurn))
	for _, c := range a.transportTurn {
		turnClients = append(turnClients, c)
	}
	transports := append([]*transport.LocalUDPTransport{}, a.transports...)
	pools := make([]*stun.TransactionPool, 0, len(a.transportPool))
	for _, p := range a.transportPool {
		pools = append(pools, p)
	}
	a.mu.Unlock()

	for _, c := range turnClients {
		// Best-effort: ask the server to deallocate cleanly before
		// tearing down the local transaction pool (spec §5 stop()
		// "sends TURN Refresh with lifetime=0").
		if err := c.Refresh(0); err != nil {
			a.log.Warnf("ice: turn deallocate on stop failed: %v", err)
		}
		c.Close()
	}
	for _, p := range pools {
		p.Close()
	}
	var firstErr error
	for _, tr := range transports {
		if err := tr.Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	a.mu.Lock()
	a.state = StateStopped
	a.mu.Unlock()

	a.handler.stopped()
	return firstErr
}

// State returns the agent's current lifecycle state.
func (a *Agent) State() AgentState {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state
}
