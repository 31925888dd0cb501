// Package hook connects to a running KINGDOM HEARTS II FINAL MIX process and
// drives live music hot-swaps through the memory contract of the companion
// in-game mod: three ASCII key signatures are laid out once per process
// lifetime in writable heap memory, each followed by a pointer to the buffer
// it names. Writing new path strings into those buffers and raising the apply
// byte makes the mod swap the playing track.
package hook

import (
	"errors"
	"fmt"

	"scdhook/process"

	"github.com/Moonlight-Companies/gologger/coloransi"
	"github.com/Moonlight-Companies/gologger/logger"
)

const (
	// TargetProcessName is the exact executable name of the game.
	TargetProcessName = "KINGDOM HEARTS II FINAL MIX.exe"

	// The three key signatures the mod lays out.
	KeyMusicApply = "MUSIC_APPLY"
	KeyFieldPath  = "FIELD_PATH"
	KeyBattlePath = "BATTLE_PATH"

	// PointerOffset is the fixed distance from the start of a key signature
	// to the pointer slot holding that key's buffer address.
	PointerOffset = 0x20

	// PathBufferSize is the fixed capacity of the two path buffers,
	// terminator included.
	PathBufferSize = 256
)

var (
	// ErrProcessNotFound means the game is not running. Poll and retry.
	ErrProcessNotFound = errors.New("game process not found")

	// ErrKeyNotFound means the game is running but a key signature is not in
	// memory, usually because the companion mod is not loaded.
	ErrKeyNotFound = errors.New("key signature not found")

	// ErrNotConnected is returned by operations that need a live connection.
	ErrNotConnected = errors.New("not connected to the game process")

	// ErrNoPaths rejects a hot-swap request with nothing to swap.
	ErrNoPaths = errors.New("no paths to send")
)

// OpenFunc locates the target process and attaches to it. The default one
// matches TargetProcessName on the running system; tests substitute their
// own.
type OpenFunc func() (process.Inspector, error)

// Session holds the connection to the game: the process handle and the three
// resolved buffer addresses. The zero state is disconnected; Connect
// populates everything or nothing. Addresses are treated as stable for the
// lifetime of a connection, since the mod allocates its buffers once.
//
// A Session is not safe for concurrent use; a host driving it from more than
// one goroutine serializes access itself.
type Session struct {
	open OpenFunc
	log  *logger.Logger

	insp           process.Inspector
	musicApplyAddr process.ProcessMemoryAddress
	fieldPathAddr  process.ProcessMemoryAddress
	battlePathAddr process.ProcessMemoryAddress
}

// NewSession returns a disconnected session wired to the platform's process
// opener. Each caller owns its session; nothing here is process-global.
func NewSession() *Session {
	return NewSessionWith(defaultOpen)
}

// NewSessionWith returns a disconnected session using a custom opener.
func NewSessionWith(open OpenFunc) *Session {
	return &Session{
		open: open,
		log:  logger.NewLogger(coloransi.Color(coloransi.Cyan, coloransi.ColorOrange, "scd-hook")),
	}
}

// HotswapResult reports each write of a hot-swap separately, so a caller can
// tell a dead field buffer from a dead trigger.
type HotswapResult struct {
	Field   bool
	Battle  bool
	Trigger bool
}

// OK reports whether every write succeeded.
func (r HotswapResult) OK() bool {
	return r.Field && r.Battle && r.Trigger
}

func (r HotswapResult) String() string {
	return fmt.Sprintf("field=%t battle=%t trigger=%t", r.Field, r.Battle, r.Trigger)
}

// Paths holds the current contents of the two path buffers. A half that
// failed to read comes back empty.
type Paths struct {
	Field  string
	Battle string
}

// Connect locates the game, attaches, finds the three key signatures and
// resolves their buffer pointers. Either every address resolves and the
// session is connected, or the session rolls back to disconnected and the
// failure is returned. Already connected is a no-op.
//
// The game not running and the mod not loaded are normal outcomes; callers
// poll Connect until it succeeds.
func (s *Session) Connect() error {
	if s.IsConnected() {
		return nil
	}

	insp, err := s.open()
	if err != nil {
		s.log.Debugln("connect:", err)
		return err
	}
	s.insp = insp

	targets := []struct {
		key string
		out *process.ProcessMemoryAddress
	}{
		{KeyMusicApply, &s.musicApplyAddr},
		{KeyFieldPath, &s.fieldPathAddr},
		{KeyBattlePath, &s.battlePathAddr},
	}

	for _, target := range targets {
		sig, ok := s.findSignature(target.key)
		if !ok {
			s.log.Warn(target.key, "signature not found")
			s.Disconnect()
			return fmt.Errorf("%s: %w", target.key, ErrKeyNotFound)
		}

		ptr, err := process.ReadPointer(insp, sig+PointerOffset)
		if err != nil {
			s.log.Warn(target.key, "pointer not resolved:", err)
			s.Disconnect()
			return fmt.Errorf("%s pointer: %w", target.key, err)
		}

		s.log.Infoln(target.key, "signature at", sig.ToString(), "buffer at", ptr.ToString())
		*target.out = ptr
	}

	s.log.Infoln("Connected to", TargetProcessName, "pid", insp.GetPID())

	return nil
}

// IsConnected reports whether the session holds a live connection. A target
// that has exited is detected here and the session disconnects itself, so a
// polling caller heals without extra plumbing.
func (s *Session) IsConnected() bool {
	if s.insp == nil {
		return false
	}

	if !s.insp.Alive() {
		s.log.Warn("game process exited")
		s.Disconnect()
		return false
	}

	return true
}

// Disconnect releases the process handle and clears the resolved addresses.
// Idempotent.
func (s *Session) Disconnect() {
	if s.insp != nil {
		s.insp.Close()
		s.insp = nil
		s.log.Infoln("Disconnected")
	}

	s.musicApplyAddr = 0
	s.fieldPathAddr = 0
	s.battlePathAddr = 0
}

// PID returns the target's process ID while connected.
func (s *Session) PID() (process.ProcessID, bool) {
	if !s.IsConnected() {
		return 0, false
	}
	return s.insp.GetPID(), true
}

// SendHotswap writes the two path buffers and raises the apply byte. An
// empty path tells the mod to leave that slot unchanged; both empty is a
// caller error. The mod consumes each buffer independently, so one failed
// write does not stop the others and the trigger still goes out; the result
// reports every write separately.
func (s *Session) SendHotswap(fieldPath, battlePath string) (HotswapResult, error) {
	var result HotswapResult

	if !s.IsConnected() {
		return result, ErrNotConnected
	}
	if fieldPath == "" && battlePath == "" {
		return result, ErrNoPaths
	}

	result.Field = s.writeString(s.fieldPathAddr, fieldPath)
	result.Battle = s.writeString(s.battlePathAddr, battlePath)
	result.Trigger = s.writeByte(s.musicApplyAddr, 1)

	if result.OK() {
		s.log.Infoln("Hotswap sent, field:", fieldPath, "battle:", battlePath)
	} else {
		s.log.Warn("Hotswap incomplete:", result.String())
	}

	return result, nil
}

// CurrentPaths reads back the contents of the two path buffers. Pure read;
// the target is not modified.
func (s *Session) CurrentPaths() (Paths, error) {
	if !s.IsConnected() {
		return Paths{}, ErrNotConnected
	}

	return Paths{
		Field:  s.readString(s.fieldPathAddr),
		Battle: s.readString(s.battlePathAddr),
	}, nil
}

// ApplyPending reads the trigger byte back: true while the mod has not yet
// consumed an apply request.
func (s *Session) ApplyPending() (bool, error) {
	if !s.IsConnected() {
		return false, ErrNotConnected
	}

	value, err := process.ReadByte(s.insp, s.musicApplyAddr)
	if err != nil {
		return false, err
	}

	return value != 0, nil
}

func (s *Session) findSignature(key string) (process.ProcessMemoryAddress, bool) {
	if !s.IsConnected() {
		return 0, false
	}
	return process.FindFirst(s.insp, process.ExactAOB([]byte(key)))
}

// The primitive operations re-check liveness on every call; the target can
// exit between any two of them.

func (s *Session) writeString(addr process.ProcessMemoryAddress, text string) bool {
	if !s.IsConnected() {
		return false
	}
	if err := process.WriteNTS(s.insp, addr, text, PathBufferSize); err != nil {
		s.log.Warn("string write at", addr.ToString(), "failed:", err)
		return false
	}
	return true
}

func (s *Session) writeByte(addr process.ProcessMemoryAddress, value byte) bool {
	if !s.IsConnected() {
		return false
	}
	if err := process.WriteByte(s.insp, addr, value); err != nil {
		s.log.Warn("byte write at", addr.ToString(), "failed:", err)
		return false
	}
	return true
}

func (s *Session) readString(addr process.ProcessMemoryAddress) string {
	if !s.IsConnected() {
		return ""
	}

	text, err := process.ReadNTS(s.insp, addr, PathBufferSize)
	if err != nil {
		s.log.Debugln("string read at", addr.ToString(), "failed:", err)
		return ""
	}

	return text
}
