package input

import "fmt"

// Code is a key code as delivered by keydown events (the DOM keyCode/which value).
// Backends that know the typed rune tag it with runeFlag instead.
type Code uint32

// runeFlag marks a Code carrying a literal rune rather than a DOM key code
const runeFlag Code = 1 << 24

// RuneCode encodes a literal rune as a Code
func RuneCode(r rune) Code {
	return Code(r) | runeFlag
}

// DOM key codes for non-printing keys
const (
	CodeCtrlC     Code = 3
	CodeBackspace Code = 8
	CodeTab       Code = 9
	CodeLineFeed  Code = 10
	CodeEnter     Code = 13
	CodeEscape    Code = 27
	CodePageUp    Code = 33
	CodePageDown  Code = 34
	CodeEnd       Code = 35
	CodeHome      Code = 36
	CodeLeft      Code = 37
	CodeUp        Code = 38
	CodeRight     Code = 39
	CodeDown      Code = 40
	CodeInsert    Code = 45
	CodeDelete    Code = 46
	CodeF1        Code = 112
	CodeF12       Code = 123
)

// Key represents a parsed input key
type Key uint16

const (
	KeyNone Key = iota
	KeyRune     // Printable character (check Event.Rune)

	KeyEnter
	KeyEscape
	KeyTab
	KeyBackspace
	KeyCtrlC

	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyInsert
	KeyDelete

	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
)

// keyToName uses the portable console key names
var keyToName = map[Key]string{
	KeyEnter:     "enter",
	KeyEscape:    "esc",
	KeyTab:       "tab",
	KeyBackspace: "backspace",
	KeyCtrlC:     "ctrl_c",

	KeyUp:       "up",
	KeyDown:     "down",
	KeyLeft:     "left",
	KeyRight:    "right",
	KeyHome:     "home",
	KeyEnd:      "end",
	KeyPageUp:   "pgup",
	KeyPageDown: "pgdn",
	KeyInsert:   "ins",
	KeyDelete:   "del",

	KeyF1:  "f1",
	KeyF2:  "f2",
	KeyF3:  "f3",
	KeyF4:  "f4",
	KeyF5:  "f5",
	KeyF6:  "f6",
	KeyF7:  "f7",
	KeyF8:  "f8",
	KeyF9:  "f9",
	KeyF10: "f10",
	KeyF11: "f11",
	KeyF12: "f12",
}

// nameToKey is the reverse lookup, built from keyToName
var nameToKey map[string]Key

func init() {
	nameToKey = make(map[string]Key, len(keyToName))
	for k, v := range keyToName {
		nameToKey[v] = k
	}
	// Aliases
	nameToKey["escape"] = KeyEscape
	nameToKey["return"] = KeyEnter
	nameToKey["page_up"] = KeyPageUp
	nameToKey["page_down"] = KeyPageDown
}

// KeyName returns the canonical name of a special key, empty for KeyNone and KeyRune
func KeyName(k Key) string {
	return keyToName[k]
}

// ParseKey resolves a canonical name or alias
func ParseKey(name string) (Key, bool) {
	k, ok := nameToKey[name]
	return k, ok
}

// Event is a translated key press
type Event struct {
	Key  Key
	Rune rune
	Code Code
}

// String returns the printable rune for KeyRune, the key name otherwise
func (e Event) String() string {
	if e.Key == KeyRune {
		return string(e.Rune)
	}
	if n := KeyName(e.Key); n != "" {
		return n
	}
	return fmt.Sprintf("code(%d)", e.Code)
}
