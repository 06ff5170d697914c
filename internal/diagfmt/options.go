package diagfmt

// PathMode specifies how a diagnostic's file path is displayed.
type PathMode uint8

const (
	// PathModeAuto chooses relative or absolute automatically (source.File.FormatPath).
	PathModeAuto PathMode = iota
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

func (m PathMode) sourceMode() string {
	switch m {
	case PathModeAbsolute:
		return "absolute"
	case PathModeRelative:
		return "relative"
	case PathModeBasename:
		return "basename"
	default:
		return "auto"
	}
}

// PrettyOpts configures Pretty's rendering of a diagnostic Bag.
type PrettyOpts struct {
	Color     bool
	Context   int8 // lines of context above/below the offending line; §6 specifies 2
	PathMode  PathMode
	Width     uint8 // truncate rendered source lines beyond this column, 0 = unlimited
	ShowNotes bool
	BaseDir   string
}

// DefaultPrettyOpts matches the stderr rendering §6 describes: colored,
// two lines of context, notes shown.
func DefaultPrettyOpts() PrettyOpts {
	return PrettyOpts{
		Color:     true,
		Context:   2,
		PathMode:  PathModeAuto,
		ShowNotes: true,
	}
}
