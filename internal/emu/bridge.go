package emu

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// Bridge adapts the capability to an external emulator process. The bridge
// process is spawned once per session and spoken to over stdin/stdout with
// a newline-delimited request/reply protocol:
//
//	READ <addr-hex> <n>      -> OK <bytes-hex>
//	WRITE <addr-hex> <hex>   -> OK
//	ADVANCE <frames>         -> OK
//	INPUT <keys:hold:wait>.. -> OK
//	LOAD <path>              -> OK
//	SAVE <path>              -> OK <bytes-hex>
//
// Any reply starting with ERR carries the failure text. Calls are strictly
// sequential, matching the single-threaded session contract.
type Bridge struct {
	cmd *exec.Cmd
	in  io.WriteCloser
	out *bufio.Reader
}

// StartBridge launches the bridge process and waits for its READY line.
func StartBridge(command string, args ...string) (*Bridge, error) {
	cmd := exec.Command(command, args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("bridge stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start bridge: %w", err)
	}

	b := &Bridge{cmd: cmd, in: stdin, out: bufio.NewReader(stdout)}
	line, err := b.out.ReadString('\n')
	if err != nil {
		cmd.Process.Kill()
		return nil, fmt.Errorf("bridge handshake: %w", err)
	}
	if strings.TrimSpace(line) != "READY" {
		cmd.Process.Kill()
		return nil, fmt.Errorf("bridge handshake: unexpected %q", strings.TrimSpace(line))
	}
	return b, nil
}

// Close shuts the bridge down and reaps the process.
func (b *Bridge) Close() error {
	b.in.Close()
	return b.cmd.Wait()
}

// roundTrip sends one request line and reads one reply line.
func (b *Bridge) roundTrip(format string, args ...any) (string, error) {
	if _, err := fmt.Fprintf(b.in, format+"\n", args...); err != nil {
		return "", fmt.Errorf("bridge write: %w", err)
	}
	line, err := b.out.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("bridge read: %w", err)
	}
	line = strings.TrimSpace(line)
	if rest, ok := strings.CutPrefix(line, "ERR"); ok {
		return "", fmt.Errorf("bridge: %s", strings.TrimSpace(rest))
	}
	rest, ok := strings.CutPrefix(line, "OK")
	if !ok {
		return "", fmt.Errorf("bridge: malformed reply %q", line)
	}
	return strings.TrimSpace(rest), nil
}

func (b *Bridge) ReadBytes(addr uint32, n int) ([]byte, error) {
	reply, err := b.roundTrip("READ %08X %d", addr, n)
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(reply)
	if err != nil {
		return nil, fmt.Errorf("bridge read payload: %w", err)
	}
	if len(data) != n {
		return nil, fmt.Errorf("bridge read: got %d bytes, want %d", len(data), n)
	}
	return data, nil
}

func (b *Bridge) WriteBytes(addr uint32, data []byte) error {
	_, err := b.roundTrip("WRITE %08X %s", addr, hex.EncodeToString(data))
	return err
}

func (b *Bridge) AdvanceFrames(n int) error {
	_, err := b.roundTrip("ADVANCE %d", n)
	return err
}

func (b *Bridge) SendInput(seq Sequence) error {
	parts := make([]string, len(seq))
	for i, st := range seq {
		parts[i] = fmt.Sprintf("%d:%d:%d", st.Keys, st.Hold, st.Wait)
	}
	_, err := b.roundTrip("INPUT %s", strings.Join(parts, " "))
	return err
}

func (b *Bridge) LoadSnapshot(path string) error {
	_, err := b.roundTrip("LOAD %s", path)
	return err
}

func (b *Bridge) SaveSnapshot(path string) ([]byte, error) {
	reply, err := b.roundTrip("SAVE %s", path)
	if err != nil {
		return nil, err
	}
	if reply == "" || reply == "-" {
		return nil, nil
	}
	data, err := hex.DecodeString(reply)
	if err != nil {
		return nil, fmt.Errorf("bridge save payload: %w", err)
	}
	return data, nil
}
