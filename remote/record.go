package remote

import (
	"github.com/tasforge/tasforge/oterror"
	"github.com/tasforge/tasforge/script"
	"github.com/tasforge/tasforge/sim"
)

// simulateRecorded runs a dispatch payload from the worker's initial frame
// and returns the frames of the recorded region: everything between the
// begin-record marker and the done marker, excluding the state the region
// starts from.
func simulateRecorded(phys sim.Physics, initial sim.Frame, s *script.Script) ([]sim.Frame, error) {
	begin, done := -1, -1
	for i, l := range s.Lines {
		seg, ok := l.(*script.Segment)
		if !ok {
			continue
		}
		switch seg.Command {
		case BeginRecordCommand:
			if begin == -1 {
				begin = i
			}
		case DoneCommand:
			done = i
		}
	}
	if begin == -1 || done <= begin {
		return nil, oterror.New("payload has no recorded region markers")
	}

	prior, err := sim.RunAll(phys, []sim.Frame{initial}, s.Lines[:begin])
	if err != nil {
		return nil, err
	}

	recorded, err := sim.RunAll(phys, []sim.Frame{prior[len(prior)-1]}, s.Lines[begin:done])
	if err != nil {
		return nil, err
	}
	return recorded[1:], nil
}
