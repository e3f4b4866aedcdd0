package emu

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

func TestOppositeFacing(t *testing.T) {
	pairs := map[Direction]Direction{
		DirDown:  DirUp,
		DirUp:    DirDown,
		DirLeft:  DirRight,
		DirRight: DirLeft,
	}
	for d, want := range pairs {
		if got := d.Opposite(); got != want {
			t.Errorf("%v.Opposite() = %v, want %v", d, got, want)
		}
		if d.Opposite().Opposite() != d {
			t.Errorf("%v: double opposite is not the identity", d)
		}
	}
}

func TestDirectionKeys(t *testing.T) {
	if DirUp.Key() != KeyUp || DirDown.Key() != KeyDown ||
		DirLeft.Key() != KeyLeft || DirRight.Key() != KeyRight {
		t.Error("direction to key mapping broken")
	}
}

func TestParseDirection(t *testing.T) {
	for _, name := range []string{"down", "up", "left", "right"} {
		d, err := ParseDirection(name)
		if err != nil {
			t.Fatalf("ParseDirection(%q): %v", name, err)
		}
		if d.String() != name {
			t.Errorf("ParseDirection(%q) = %v", name, d)
		}
	}
	if _, err := ParseDirection("diagonal"); err == nil {
		t.Error("expected error for unknown direction")
	}
}

func TestSequenceBuilders(t *testing.T) {
	p := Press(KeyA, 5, 10)
	if len(p) != 1 || p[0].Keys != KeyA || p[0].Hold != 5 || p[0].Wait != 10 {
		t.Errorf("Press built %+v", p)
	}
	w := Wait(30)
	if len(w) != 1 || w[0].Keys != KeyNone || w[0].Wait != 30 {
		t.Errorf("Wait built %+v", w)
	}
}

// scriptedPeer runs the far side of the bridge protocol: it consumes one
// request line and writes the canned reply, recording what it saw.
type scriptedPeer struct {
	requests []string
	replies  []string
}

func (p *scriptedPeer) bridge(t *testing.T) (*Bridge, func()) {
	t.Helper()
	reqR, reqW := io.Pipe()
	var replyBuf bytes.Buffer
	for _, r := range p.replies {
		replyBuf.WriteString(r + "\n")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		sc := bufio.NewScanner(reqR)
		for sc.Scan() {
			p.requests = append(p.requests, sc.Text())
		}
	}()

	b := &Bridge{in: reqW, out: bufio.NewReader(&replyBuf)}
	return b, func() {
		reqW.Close()
		<-done
	}
}

func TestBridgeReadBytes(t *testing.T) {
	peer := &scriptedPeer{replies: []string{"OK DEADBEEF"}}
	b, drain := peer.bridge(t)

	got, err := b.ReadBytes(0x02024744, 4)
	if err != nil {
		t.Fatalf("ReadBytes: %v", err)
	}
	if !bytes.Equal(got, []byte{0xDE, 0xAD, 0xBE, 0xEF}) {
		t.Errorf("payload = %x", got)
	}
	drain()
	if len(peer.requests) != 1 || peer.requests[0] != "READ 02024744 4" {
		t.Errorf("request = %q", peer.requests)
	}
}

func TestBridgeReadLengthMismatch(t *testing.T) {
	peer := &scriptedPeer{replies: []string{"OK DEAD"}}
	b, drain := peer.bridge(t)
	defer drain()

	if _, err := b.ReadBytes(0x02024744, 4); err == nil {
		t.Fatal("expected length mismatch error")
	}
}

func TestBridgeWriteAndInput(t *testing.T) {
	peer := &scriptedPeer{replies: []string{"OK", "OK", "OK"}}
	b, drain := peer.bridge(t)

	if err := b.WriteBytes(0x03005D80, []byte{0x0D, 0xF0, 0xAD, 0x0B}); err != nil {
		t.Fatalf("WriteBytes: %v", err)
	}
	if err := b.AdvanceFrames(60); err != nil {
		t.Fatalf("AdvanceFrames: %v", err)
	}
	seq := append(Press(KeyA, 5, 10), Wait(30)...)
	if err := b.SendInput(seq); err != nil {
		t.Fatalf("SendInput: %v", err)
	}

	drain()
	want := []string{
		"WRITE 03005D80 0df0ad0b",
		"ADVANCE 60",
		"INPUT 1:5:10 0:0:30",
	}
	if len(peer.requests) != len(want) {
		t.Fatalf("requests = %q", peer.requests)
	}
	for i := range want {
		if peer.requests[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, peer.requests[i], want[i])
		}
	}
}

func TestBridgeErrorReply(t *testing.T) {
	peer := &scriptedPeer{replies: []string{"ERR save state missing"}}
	b, drain := peer.bridge(t)
	defer drain()

	err := b.LoadSnapshot("gone.ss1")
	if err == nil || !strings.Contains(err.Error(), "save state missing") {
		t.Fatalf("err = %v", err)
	}
}

func TestBridgeClosedPipe(t *testing.T) {
	peer := &scriptedPeer{}
	b, drain := peer.bridge(t)
	drain()

	if _, err := b.ReadBytes(0, 4); !errors.Is(err, io.ErrClosedPipe) {
		t.Fatalf("err = %v, want closed pipe", err)
	}
}

func TestStorageBaseFollowsPointer(t *testing.T) {
	// pointer bytes are little-endian 0x0302C000
	peer := &scriptedPeer{replies: []string{"OK 00C00203"}}
	b, drain := peer.bridge(t)

	base, err := StorageBase(b)
	if err != nil {
		t.Fatalf("StorageBase: %v", err)
	}
	if base != 0x0302C000+StorageDataOffset {
		t.Errorf("base = %#x, want %#x", base, uint32(0x0302C000+StorageDataOffset))
	}
	drain()
	if len(peer.requests) != 1 || peer.requests[0] != "READ 03005D94 4" {
		t.Errorf("request = %q", peer.requests)
	}
}

func TestStorageBaseNullPointer(t *testing.T) {
	peer := &scriptedPeer{replies: []string{"OK 00000000"}}
	b, drain := peer.bridge(t)
	defer drain()

	if _, err := StorageBase(b); err == nil {
		t.Fatal("expected error for null storage pointer")
	}
}

func TestPartySlotAddrStride(t *testing.T) {
	if PartySlotAddr(0) != PartyBaseAddr {
		t.Errorf("slot 0 = %#x", PartySlotAddr(0))
	}
	if PartySlotAddr(3) != PartyBaseAddr+3*PartySlotSize {
		t.Errorf("slot 3 = %#x", PartySlotAddr(3))
	}
}
