package script

// Line is one line of a movement script. It is a closed set: the only
// implementations are Segment and the passthrough kinds below, so switches
// over Line can be exhaustive.
type Line interface {
	// cloneLine returns a deep copy of the line. It doubles as the sealing
	// method keeping the set of Line kinds closed.
	cloneLine() Line
}

// SaveMarker names a save state to be created when this line is reached.
type SaveMarker struct {
	Name string
}

// SharedSeed overrides the shared RNG seed from this line onward.
type SharedSeed struct {
	Seed uint32
}

// ButtonsToggle switches the key set used for strafing, or resets it.
type ButtonsToggle struct {
	Reset bool
}

// Reset restarts the simulation with the given non-shared seed.
type Reset struct {
	NonSharedSeed int64
}

// Comment is a free-form comment line, preserved verbatim.
type Comment struct {
	Text string
}

// StrafingConstraints bounds vectorial strafing by the given tolerance in
// degrees.
type StrafingConstraints struct {
	Tolerance float32
}

// TargetYawOverride replaces computed target yaw angles with an explicit
// sequence.
type TargetYawOverride struct {
	Yaw []float32
}

func (l SaveMarker) cloneLine() Line          { return l }
func (l SharedSeed) cloneLine() Line          { return l }
func (l ButtonsToggle) cloneLine() Line       { return l }
func (l Reset) cloneLine() Line               { return l }
func (l Comment) cloneLine() Line             { return l }
func (l StrafingConstraints) cloneLine() Line { return l }

func (l TargetYawOverride) cloneLine() Line {
	c := l
	c.Yaw = append([]float32(nil), l.Yaw...)
	return c
}
