// Package input maps a fixed set of keys and mouse buttons to their pressed state
package input

import (
	"fmt"
	"strings"
)

// Key is a keyboard key the editor reacts to
type Key int

const (
	Space Key = iota
	Delete
	Shift
	Control
	Escape
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	keyCount
)

var keyNames = [...]string{"space", "delete", "shift", "control", "escape"}

// String returns the lowercase key name
func (k Key) String() string {
	switch {
	case k >= A && k <= Z:
		return string(rune('a' + int(k-A)))
	case k >= 0 && int(k) < len(keyNames):
		return keyNames[k]
	}
	return fmt.Sprintf("key(%d)", int(k))
}

// ParseKey parses a key name such as "space" or "q"
func ParseKey(name string) (Key, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 1 && name[0] >= 'a' && name[0] <= 'z' {
		return A + Key(name[0]-'a'), nil
	}
	for i, n := range keyNames {
		if n == name {
			return Key(i), nil
		}
	}
	return 0, fmt.Errorf("unknown key: %q", name)
}

// Button is a mouse button
type Button int

const (
	Left Button = iota
	Middle
	Right
	buttonCount
)

// String returns the lowercase button name
func (b Button) String() string {
	switch b {
	case Left:
		return "left"
	case Middle:
		return "middle"
	case Right:
		return "right"
	}
	return fmt.Sprintf("button(%d)", int(b))
}

// ParseButton parses "left", "middle" or "right"
func ParseButton(name string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "left":
		return Left, nil
	case "middle":
		return Middle, nil
	case "right":
		return Right, nil
	}
	return 0, fmt.Errorf("unknown button: %q", name)
}

// State is the pressed/released state of every key and button
type State struct {
	keys    [keyCount]bool
	buttons [buttonCount]bool
}

// Press marks a key as held down. Out-of-range keys are ignored.
func (s *State) Press(k Key) {
	if k >= 0 && k < keyCount {
		s.keys[k] = true
	}
}

// Release marks a key as released
func (s *State) Release(k Key) {
	if k >= 0 && k < keyCount {
		s.keys[k] = false
	}
}

// Pressed reports whether a key is held down
func (s *State) Pressed(k Key) bool {
	return k >= 0 && k < keyCount && s.keys[k]
}

// PressButton marks a mouse button as held down
func (s *State) PressButton(b Button) {
	if b >= 0 && b < buttonCount {
		s.buttons[b] = true
	}
}

// ReleaseButton marks a mouse button as released
func (s *State) ReleaseButton(b Button) {
	if b >= 0 && b < buttonCount {
		s.buttons[b] = false
	}
}

// ButtonPressed reports whether a mouse button is held down
func (s *State) ButtonPressed(b Button) bool {
	return b >= 0 && b < buttonCount && s.buttons[b]
}

// Reset releases everything
func (s *State) Reset() {
	*s = State{}
}
