package input

import (
	"fmt"
	"strings"
	"unicode"
)

// ActionNone in an override removes the binding
const ActionNone = "none"

// Rune aliases for keys that can't be bare single-char TOML values
var runeAliases = map[string]rune{
	"space":     ' ',
	"backslash": '\\',
}

// Bindings maps key events to action names
type Bindings struct {
	keys  map[Key]string
	runes map[rune]string
}

// NewBindings creates an empty binding table
func NewBindings() *Bindings {
	return &Bindings{
		keys:  make(map[Key]string),
		runes: make(map[rune]string),
	}
}

// ParseBindings builds bindings from action → key names, as found in a [keys]
// config section. Names are special key names ("esc", "f1") or single
// characters. known restricts action names when non-empty
func ParseBindings(actions map[string][]string, known []string) (*Bindings, error) {
	b := NewBindings()
	for action, names := range actions {
		action = strings.ToLower(strings.TrimSpace(action))
		if action != ActionNone && len(known) > 0 && !contains(known, action) {
			return nil, fmt.Errorf("input: unknown action: %q", action)
		}
		for _, name := range names {
			if err := b.bind(name, action); err != nil {
				return nil, fmt.Errorf("input: action %q: %w", action, err)
			}
		}
	}
	return b, nil
}

// Bind attaches action to the named key
func (b *Bindings) Bind(name, action string) error {
	return b.bind(name, strings.ToLower(action))
}

func (b *Bindings) bind(name, action string) error {
	if k, ok := ParseKey(strings.ToLower(name)); ok {
		b.keys[k] = action
		return nil
	}
	r, err := resolveRune(name)
	if err != nil {
		return err
	}
	b.runes[r] = action
	return nil
}

// resolveRune converts a key string to a rune
// Accepts single characters and named aliases
func resolveRune(s string) (rune, error) {
	if r, ok := runeAliases[strings.ToLower(s)]; ok {
		return r, nil
	}
	runes := []rune(s)
	if len(runes) == 1 {
		return runes[0], nil
	}
	return 0, fmt.Errorf("invalid key: %q (expected key name, single character or alias)", s)
}

// Action returns the action bound to ev
func (b *Bindings) Action(ev Event) (string, bool) {
	var action string
	var ok bool
	if ev.Key == KeyRune {
		action, ok = b.runes[ev.Rune]
		if !ok {
			// DOM key codes report letters upper case
			action, ok = b.runes[unicode.ToLower(ev.Rune)]
		}
	} else {
		action, ok = b.keys[ev.Key]
	}
	if !ok || action == ActionNone {
		return "", false
	}
	return action, true
}

// Merge returns a new table with base values overridden by override.
// Override entries bound to "none" delete the key from the result
func (b *Bindings) Merge(override *Bindings) *Bindings {
	result := NewBindings()
	for k, v := range b.keys {
		result.keys[k] = v
	}
	for r, v := range b.runes {
		result.runes[r] = v
	}
	if override == nil {
		return result
	}
	for k, v := range override.keys {
		if v == ActionNone {
			delete(result.keys, k)
		} else {
			result.keys[k] = v
		}
	}
	for r, v := range override.runes {
		if v == ActionNone {
			delete(result.runes, r)
		} else {
			result.runes[r] = v
		}
	}
	return result
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
