// Package monitor manages the low-latency audio monitor session: a
// receive-only WebRTC tap on the engine's output pipeline, optionally
// carrying the "meters" data channel. It imports only Pion and stdlib;
// coupling to the rest of the console is via the Signaler interface.
package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/pion/webrtc/v4"

	"github.com/studiocommand/console/internal/engine"
)

// Phase is the console-facing summary of the peer connection lifecycle.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseConnected
	PhaseFailed
	PhaseClosed
)

func (p Phase) String() string {
	switch p {
	case PhaseConnecting:
		return "connecting"
	case PhaseConnected:
		return "connected"
	case PhaseFailed:
		return "failed"
	case PhaseClosed:
		return "closed"
	default:
		return "idle"
	}
}

// phaseFor maps a peer-connection state onto the session phase. Any
// terminal state routes through the one teardown path.
func phaseFor(s webrtc.PeerConnectionState) Phase {
	switch s {
	case webrtc.PeerConnectionStateNew, webrtc.PeerConnectionStateConnecting:
		return PhaseConnecting
	case webrtc.PeerConnectionStateConnected:
		return PhaseConnected
	case webrtc.PeerConnectionStateFailed, webrtc.PeerConnectionStateDisconnected:
		return PhaseFailed
	default:
		return PhaseClosed
	}
}

// terminal reports whether a state must trigger teardown.
func terminal(s webrtc.PeerConnectionState) bool {
	switch s {
	case webrtc.PeerConnectionStateFailed,
		webrtc.PeerConnectionStateDisconnected,
		webrtc.PeerConnectionStateClosed:
		return true
	}
	return false
}

// Signaler is the only surface the monitor needs from the engine API.
type Signaler interface {
	SendOffer(ctx context.Context, sdp string) (string, error)
	SendCandidate(ctx context.Context, candidate string) error
}

// Events are the session's outbound callbacks. All are optional and are
// invoked from Pion goroutines; handlers must be safe for that.
type Events struct {
	OnSample      func(engine.MeterSample)
	OnChannelOpen func(bool)
	OnPhase       func(Phase)
}

// SubStates are the raw peer-connection sub-states for display.
type SubStates struct {
	Peer      string
	ICE       string
	Signaling string
	Gathering string
}

const statePlaceholder = "-"

// idleStates is what the UI shows when no session is running.
func idleStates() SubStates {
	return SubStates{
		Peer:      statePlaceholder,
		ICE:       statePlaceholder,
		Signaling: statePlaceholder,
		Gathering: statePlaceholder,
	}
}

const signalTimeout = 5 * time.Second

// Session is one receive-only monitor tap. At most one is active at a
// time; the Manager enforces that.
type Session struct {
	sig Signaler

	mu     sync.Mutex
	pc     *webrtc.PeerConnection
	phase  Phase
	events Events

	stopOnce sync.Once
	stopped  chan struct{}
}

// Dial builds the peer connection, performs the offer/answer exchange,
// and starts trickling ICE candidates to the engine. Candidates must be
// streamed as they are discovered; withholding them stalls ICE in
// "checking" until the failure handler tears the session down.
func Dial(ctx context.Context, sig Signaler, stunURL string, events Events) (*Session, error) {
	cfg := webrtc.Configuration{}
	if stunURL != "" {
		cfg.ICEServers = []webrtc.ICEServer{{URLs: []string{stunURL}}}
	}

	pc, err := webrtc.NewPeerConnection(cfg)
	if err != nil {
		return nil, fmt.Errorf("create peer connection: %w", err)
	}

	s := &Session{
		sig:     sig,
		pc:      pc,
		phase:   PhaseConnecting,
		events:  events,
		stopped: make(chan struct{}),
	}

	dc, err := pc.CreateDataChannel("meters", nil)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("create meters channel: %w", err)
	}
	dc.OnOpen(func() {
		s.emitChannelOpen(true)
	})
	dc.OnClose(func() {
		s.emitChannelOpen(false)
	})
	dc.OnMessage(func(msg webrtc.DataChannelMessage) {
		var sample engine.MeterSample
		if err := json.Unmarshal(msg.Data, &sample); err != nil {
			return
		}
		if s.events.OnSample != nil {
			s.events.OnSample(sample)
		}
	})

	if _, err := pc.AddTransceiverFromKind(webrtc.RTPCodecTypeAudio, webrtc.RTPTransceiverInit{
		Direction: webrtc.RTPTransceiverDirectionRecvonly,
	}); err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("add audio transceiver: %w", err)
	}

	pc.OnTrack(func(track *webrtc.TrackRemote, _ *webrtc.RTPReceiver) {
		log.Printf("monitor: receiving %s track %s", track.Kind(), track.ID())
	})

	pc.OnICECandidate(func(c *webrtc.ICECandidate) {
		if c == nil {
			return
		}
		sendCtx, cancel := context.WithTimeout(context.Background(), signalTimeout)
		defer cancel()
		if err := sig.SendCandidate(sendCtx, c.ToJSON().Candidate); err != nil {
			log.Printf("monitor: send candidate: %v", err)
		}
	})

	pc.OnConnectionStateChange(func(state webrtc.PeerConnectionState) {
		s.setPhase(phaseFor(state))
		if terminal(state) {
			s.Stop()
		}
	})

	offer, err := pc.CreateOffer(nil)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("create offer: %w", err)
	}
	if err := pc.SetLocalDescription(offer); err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("set local description: %w", err)
	}

	answer, err := sig.SendOffer(ctx, offer.SDP)
	if err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("exchange offer: %w", err)
	}
	if err := pc.SetRemoteDescription(webrtc.SessionDescription{
		Type: webrtc.SDPTypeAnswer,
		SDP:  answer,
	}); err != nil {
		_ = pc.Close()
		return nil, fmt.Errorf("set remote description: %w", err)
	}

	return s, nil
}

// Stop tears the session down: receiving tracks stop, the peer
// connection closes, and the displayed sub-states reset. Idempotent;
// every terminal transition funnels through here exactly once.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		pc := s.pc
		s.pc = nil
		s.phase = PhaseIdle
		s.mu.Unlock()

		if pc != nil {
			for _, receiver := range pc.GetReceivers() {
				_ = receiver.Stop()
			}
			if err := pc.Close(); err != nil {
				log.Printf("monitor: close peer connection: %v", err)
			}
		}

		s.emitChannelOpen(false)
		if s.events.OnPhase != nil {
			s.events.OnPhase(PhaseIdle)
		}
		close(s.stopped)
	})
}

// Done is closed once the session has been torn down.
func (s *Session) Done() <-chan struct{} {
	return s.stopped
}

// Phase returns the current lifecycle phase.
func (s *Session) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// States returns the raw sub-states for display, or placeholders once
// the session is stopped.
func (s *Session) States() SubStates {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pc == nil {
		return idleStates()
	}
	return SubStates{
		Peer:      s.pc.ConnectionState().String(),
		ICE:       s.pc.ICEConnectionState().String(),
		Signaling: s.pc.SignalingState().String(),
		Gathering: s.pc.ICEGatheringState().String(),
	}
}

func (s *Session) setPhase(p Phase) {
	s.mu.Lock()
	s.phase = p
	s.mu.Unlock()
	if s.events.OnPhase != nil {
		s.events.OnPhase(p)
	}
}

func (s *Session) emitChannelOpen(open bool) {
	if s.events.OnChannelOpen != nil {
		s.events.OnChannelOpen(open)
	}
}
