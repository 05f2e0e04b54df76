package types

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
	"github.com/cespare/xxhash"
)

// ErrCorruptState is returned when a snapshot fails its integrity check.
var ErrCorruptState = errors.New("corrupt state")

// stateMagic prefixes every compressed snapshot.
var stateMagic = []byte("GBCS")

// State is a flat little-endian snapshot of emulator components,
// used to save and load the machine between runs.
type State struct {
	raw          []byte // raw state data (for serialization)
	readPosition int    // current read position
}

// Stater is an interface that allows an object to be saved
// and loaded from a state.
type Stater interface {
	Load(*State) // Load the state of the object
	Save(*State) // Save the state of the object
}

// NewState creates a new state.
func NewState() *State {
	return &State{
		raw: make([]byte, 0),
	}
}

// StateFromBytes creates a new state from the given bytes.
func StateFromBytes(raw []byte) *State {
	return &State{
		raw: raw,
	}
}

// ResetPosition rewinds the read position to the start of the state.
func (s *State) ResetPosition() {
	s.readPosition = 0
}

func (s *State) Write8(value uint8) {
	s.raw = append(s.raw, value)
}

func (s *State) Write16(value uint16) {
	s.raw = append(s.raw, byte(value), byte(value>>8))
}

func (s *State) WriteBool(value bool) {
	if value {
		s.raw = append(s.raw, 1)
	} else {
		s.raw = append(s.raw, 0)
	}
}

func (s *State) WriteData(data []byte) {
	s.raw = append(s.raw, data...)
}

func (s *State) Read8() uint8 {
	value := s.raw[s.readPosition]
	s.readPosition++
	return value
}

func (s *State) Read16() uint16 {
	value := uint16(s.raw[s.readPosition]) | uint16(s.raw[s.readPosition+1])<<8
	s.readPosition += 2
	return value
}

func (s *State) ReadBool() bool {
	value := s.raw[s.readPosition] != 0
	s.readPosition++
	return value
}

func (s *State) ReadData(p []byte) {
	copy(p, s.raw[s.readPosition:])
	s.readPosition += len(p)
}

func (s *State) Bytes() []byte {
	return s.raw
}

// Sum returns the xxhash64 of the raw state.
func (s *State) Sum() uint64 {
	return xxhash.Sum64(s.raw)
}

// Compress encodes the state as magic, checksum and a brotli
// compressed payload.
func (s *State) Compress() ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(stateMagic)

	var sum [8]byte
	binary.LittleEndian.PutUint64(sum[:], s.Sum())
	buf.Write(sum[:])

	w := brotli.NewWriterLevel(&buf, brotli.DefaultCompression)
	if _, err := w.Write(s.raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// StateFromCompressed reverses Compress, verifying the checksum.
func StateFromCompressed(data []byte) (*State, error) {
	header := len(stateMagic) + 8
	if len(data) < header || !bytes.Equal(data[:len(stateMagic)], stateMagic) {
		return nil, fmt.Errorf("%w: missing header", ErrCorruptState)
	}
	want := binary.LittleEndian.Uint64(data[len(stateMagic):header])

	raw, err := io.ReadAll(brotli.NewReader(bytes.NewReader(data[header:])))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptState, err)
	}

	s := StateFromBytes(raw)
	if got := s.Sum(); got != want {
		return nil, fmt.Errorf("%w: checksum %016x, expected %016x", ErrCorruptState, got, want)
	}
	return s, nil
}

// SaveToFile writes the compressed state to filename.
func (s *State) SaveToFile(filename string) error {
	data, err := s.Compress()
	if err != nil {
		return err
	}
	return os.WriteFile(filename, data, 0644)
}

// LoadStateFile reads a state written by SaveToFile.
func LoadStateFile(filename string) (*State, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return StateFromCompressed(data)
}
