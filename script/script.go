package script

import (
	"errors"

	"github.com/tasforge/tasforge/assert"
	"github.com/tasforge/tasforge/oterror"
)

// Script is an ordered sequence of lines making up a movement script.
// Scripts have value semantics: Clone before mutating a search candidate.
type Script struct {
	Lines []Line
}

// Clone returns a deep copy of the script.
func (s *Script) Clone() *Script {
	c := &Script{Lines: make([]Line, len(s.Lines))}
	for i, l := range s.Lines {
		c.Lines[i] = l.cloneLine()
	}
	return c
}

// TotalFrames returns the number of frames the script simulates to.
func (s *Script) TotalFrames() int {
	total := 0
	for _, l := range s.Lines {
		if seg, ok := l.(*Segment); ok {
			total += int(seg.FrameCount)
		}
	}
	return total
}

// SegmentCount returns the number of segment lines.
func (s *Script) SegmentCount() int {
	n := 0
	for _, l := range s.Lines {
		if _, ok := l.(*Segment); ok {
			n++
		}
	}
	return n
}

// Segments returns the segment lines in script order. The pointers alias
// the script's own lines.
func (s *Script) Segments() []*Segment {
	segs := make([]*Segment, 0, len(s.Lines))
	for _, l := range s.Lines {
		if seg, ok := l.(*Segment); ok {
			segs = append(segs, seg)
		}
	}
	return segs
}

// SegmentStart returns the frame index at which the segment with the given
// index (in Segments() order) starts.
func (s *Script) SegmentStart(index int) int {
	frame := 0
	n := 0
	for _, l := range s.Lines {
		seg, ok := l.(*Segment)
		if !ok {
			continue
		}
		if n == index {
			break
		}
		frame += int(seg.FrameCount)
		n++
	}
	return frame
}

// Locate maps a frame index to the line owning it and the repeat offset
// within that line's segment. Fails with a StructuralError when frame does
// not map into the script.
func (s *Script) Locate(frame int) (lineIndex int, repeat uint32, err error) {
	if frame < 0 {
		return 0, 0, oterror.NewStructural("frame %d is negative", frame)
	}
	cum := 0
	for i, l := range s.Lines {
		seg, ok := l.(*Segment)
		if !ok {
			continue
		}
		if frame < cum+int(seg.FrameCount) {
			return i, uint32(frame - cum), nil
		}
		cum += int(seg.FrameCount)
	}
	return 0, 0, oterror.NewStructural("frame %d out of range: script has %d frames", frame, cum)
}

// SplitAt ensures a segment boundary exists exactly at frame and returns
// the segment starting there. Splitting is a no-op when a boundary is
// already present. When the split lands mid-segment, the owning segment is
// duplicated: the left part keeps repeat frames and the console command,
// the right part gets the remainder and no command.
func (s *Script) SplitAt(frame int) (*Segment, error) {
	l, r, err := s.Locate(frame)
	if err != nil {
		return nil, err
	}
	seg, ok := s.Lines[l].(*Segment)
	assert.IsTrue(ok, "located line %d is not a segment", l)

	if r == 0 {
		return seg, nil
	}

	right := seg.Clone()
	right.FrameCount = seg.FrameCount - r
	right.Command = ""
	seg.FrameCount = r

	s.Lines = append(s.Lines, nil)
	copy(s.Lines[l+2:], s.Lines[l+1:])
	s.Lines[l+1] = right

	return right, nil
}

// SplitSingleAt ensures the given frame forms a segment of exactly one
// frame and returns it. The boundary after the frame is created first; at
// the script's last frame that boundary is legitimately out of range and
// the failure is ignored.
func (s *Script) SplitSingleAt(frame int) (*Segment, error) {
	if _, err := s.SplitAt(frame + 1); err != nil {
		var structural *oterror.StructuralError
		if !errors.As(err, &structural) {
			return nil, err
		}
	}
	return s.SplitAt(frame)
}
