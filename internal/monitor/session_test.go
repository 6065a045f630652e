package monitor

import (
	"testing"

	"github.com/pion/webrtc/v4"
)

func TestPhaseFor(t *testing.T) {
	tests := []struct {
		state webrtc.PeerConnectionState
		want  Phase
	}{
		{webrtc.PeerConnectionStateNew, PhaseConnecting},
		{webrtc.PeerConnectionStateConnecting, PhaseConnecting},
		{webrtc.PeerConnectionStateConnected, PhaseConnected},
		{webrtc.PeerConnectionStateFailed, PhaseFailed},
		{webrtc.PeerConnectionStateDisconnected, PhaseFailed},
		{webrtc.PeerConnectionStateClosed, PhaseClosed},
	}
	for _, tt := range tests {
		if got := phaseFor(tt.state); got != tt.want {
			t.Errorf("phaseFor(%v) = %v, want %v", tt.state, got, tt.want)
		}
	}
}

func TestTerminalStatesTriggerTeardown(t *testing.T) {
	for state, want := range map[webrtc.PeerConnectionState]bool{
		webrtc.PeerConnectionStateNew:          false,
		webrtc.PeerConnectionStateConnecting:   false,
		webrtc.PeerConnectionStateConnected:    false,
		webrtc.PeerConnectionStateFailed:       true,
		webrtc.PeerConnectionStateDisconnected: true,
		webrtc.PeerConnectionStateClosed:       true,
	} {
		if got := terminal(state); got != want {
			t.Errorf("terminal(%v) = %v, want %v", state, got, want)
		}
	}
}

func TestSession_StopIsIdempotent(t *testing.T) {
	var phases []Phase
	s := &Session{
		phase:   PhaseConnecting,
		stopped: make(chan struct{}),
		events: Events{
			OnPhase: func(p Phase) { phases = append(phases, p) },
		},
	}

	s.Stop()
	s.Stop()
	s.Stop()

	if got := s.Phase(); got != PhaseIdle {
		t.Fatalf("phase after stop = %v, want idle", got)
	}
	if len(phases) != 1 || phases[0] != PhaseIdle {
		t.Fatalf("OnPhase calls = %v, want exactly one idle transition", phases)
	}
	select {
	case <-s.Done():
	default:
		t.Fatal("Done not closed after Stop")
	}
}

func TestSession_StatesPlaceholderWhenStopped(t *testing.T) {
	s := &Session{stopped: make(chan struct{})}
	s.Stop()

	got := s.States()
	want := idleStates()
	if got != want {
		t.Fatalf("States = %+v, want placeholders %+v", got, want)
	}
}

func TestManager_IdleWithoutSession(t *testing.T) {
	m := NewManager(nil, "", Events{})
	if m.Active() {
		t.Fatal("Active = true with no session")
	}
	if m.Phase() != PhaseIdle {
		t.Fatalf("Phase = %v, want idle", m.Phase())
	}
	if m.States() != idleStates() {
		t.Fatalf("States = %+v, want placeholders", m.States())
	}
	// Stop with no session must be a no-op.
	m.Stop()
}

func TestPhase_String(t *testing.T) {
	for phase, want := range map[Phase]string{
		PhaseIdle:       "idle",
		PhaseConnecting: "connecting",
		PhaseConnected:  "connected",
		PhaseFailed:     "failed",
		PhaseClosed:     "closed",
	} {
		if got := phase.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", phase, got, want)
		}
	}
}
