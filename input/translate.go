package input

// codeToKey maps DOM key codes of special keys
var codeToKey = map[Code]Key{
	CodeCtrlC:     KeyCtrlC,
	CodeBackspace: KeyBackspace,
	CodeTab:       KeyTab,
	CodeLineFeed:  KeyEnter,
	CodeEnter:     KeyEnter,
	CodeEscape:    KeyEscape,
	CodePageUp:    KeyPageUp,
	CodePageDown:  KeyPageDown,
	CodeEnd:       KeyEnd,
	CodeHome:      KeyHome,
	CodeLeft:      KeyLeft,
	CodeUp:        KeyUp,
	CodeRight:     KeyRight,
	CodeDown:      KeyDown,
	CodeInsert:    KeyInsert,
	CodeDelete:    KeyDelete,
}

// Translate converts a queued code into a key event.
// Special codes map to named keys; any other code is taken as the character itself.
func Translate(code Code) Event {
	if code&runeFlag != 0 {
		r := rune(code &^ runeFlag)
		switch r {
		case '\r', '\n':
			return Event{Key: KeyEnter, Code: code}
		case 0x03:
			return Event{Key: KeyCtrlC, Code: code}
		case 0x1b:
			return Event{Key: KeyEscape, Code: code}
		}
		return Event{Key: KeyRune, Rune: r, Code: code}
	}

	if k, ok := codeToKey[code]; ok {
		return Event{Key: k, Code: code}
	}
	if code >= CodeF1 && code <= CodeF12 {
		return Event{Key: KeyF1 + Key(code-CodeF1), Code: code}
	}
	return Event{Key: KeyRune, Rune: rune(code), Code: code}
}

// KeyCode returns the DOM code for a special key, used by backends translating
// native key events into queue entries
func KeyCode(k Key) (Code, bool) {
	switch {
	case k >= KeyF1 && k <= KeyF12:
		return CodeF1 + Code(k-KeyF1), true
	case k == KeyEnter:
		return CodeEnter, true
	}
	for c, ck := range codeToKey {
		if ck == k && c != CodeLineFeed {
			return c, true
		}
	}
	return 0, false
}
