package header

import "strings"

// Flag is a single bit in the header flags byte. Each bit independently
// enables one stream block in the archive body.
type Flag uint8

const (
	FlagQuality  Flag = 0x01
	FlagSequence Flag = 0x02
	FlagMask     Flag = 0x04
	FlagLength   Flag = 0x08
	FlagComment  Flag = 0x10
	FlagID       Flag = 0x20
	FlagTitle    Flag = 0x40
	FlagExtended Flag = 0x80 // reserved for future format extensions
)

// StreamOrder is the fixed order in which stream blocks appear in the
// archive body after the header.
var StreamOrder = []Flag{
	FlagTitle,
	FlagID,
	FlagComment,
	FlagLength,
	FlagSequence,
	FlagMask,
	FlagQuality,
}

func (f Flag) String() string {
	switch f {
	case FlagQuality:
		return "quality"
	case FlagSequence:
		return "sequence"
	case FlagMask:
		return "mask"
	case FlagLength:
		return "length"
	case FlagComment:
		return "comment"
	case FlagID:
		return "id"
	case FlagTitle:
		return "title"
	case FlagExtended:
		return "extended"
	}
	return "unknown"
}

// Flags is the header flags byte.
type Flags uint8

// Test reports whether flag is set.
func (f Flags) Test(flag Flag) bool {
	return uint8(f)&uint8(flag) != 0
}

// With returns f with flag set.
func (f Flags) With(flag Flag) Flags {
	return f | Flags(flag)
}

// Without returns f with flag cleared.
func (f Flags) Without(flag Flag) Flags {
	return f &^ Flags(flag)
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	for _, flag := range StreamOrder {
		if f.Test(flag) {
			names = append(names, flag.String())
		}
	}
	if f.Test(FlagExtended) {
		names = append(names, FlagExtended.String())
	}
	return strings.Join(names, ",")
}
