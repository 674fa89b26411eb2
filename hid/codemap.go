package hid

// Keystroke pairs a usage code with the modifiers needed to produce it.
type Keystroke struct {
	Usage uint8
	Mods  uint8
}

// punctKeys covers the fixed punctuation set typed text can contain.
var punctKeys = map[rune]Keystroke{
	' ':  {Usage: KeySpace},
	'\n': {Usage: KeyEnter},
	'\r': {Usage: KeyEnter},
	'\t': {Usage: KeyTab},
	'-':  {Usage: KeyMinus},
	'_':  {Usage: KeyMinus, Mods: ModLeftShift},
}

// digitKeys maps '1'-'9' then '0', following the usage-code order.
var digitKeys = map[rune]uint8{
	'1': Key1, '2': Key2, '3': Key3, '4': Key4, '5': Key5,
	'6': Key6, '7': Key7, '8': Key8, '9': Key9, '0': Key0,
}

// danishKeys covers the accented letters of the Danish layout, which carry
// their own usage codes instead of dead-key sequences.
var danishKeys = map[rune]Keystroke{
	'å': {Usage: KeyLeftBrace},
	'Å': {Usage: KeyLeftBrace, Mods: ModLeftShift},
	'æ': {Usage: KeySemicolon},
	'Æ': {Usage: KeySemicolon, Mods: ModLeftShift},
	'ø': {Usage: KeyApostrophe},
	'Ø': {Usage: KeyApostrophe, Mods: ModLeftShift},
}

// Map resolves a character to its usage code and modifier mask. Unknown
// characters map to usage 0 and are dropped by the typist worker.
func Map(r rune) Keystroke {
	if ks, ok := punctKeys[r]; ok {
		return ks
	}
	if usage, ok := digitKeys[r]; ok {
		return Keystroke{Usage: usage}
	}
	if ks, ok := danishKeys[r]; ok {
		return ks
	}
	if r >= 'a' && r <= 'z' {
		return Keystroke{Usage: KeyA + uint8(r-'a')}
	}
	if r >= 'A' && r <= 'Z' {
		return Keystroke{Usage: KeyA + uint8(r-'A'), Mods: ModLeftShift}
	}
	return Keystroke{}
}
