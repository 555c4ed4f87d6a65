package script

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tasforge/tasforge/oterror"
)

// Write serializes the script to its text form. Serialization is read-only:
// a failed Write never leaves the script modified. Failures are reported as
// SerializationError.
func (s *Script) Write(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, l := range s.Lines {
		if _, err := bw.WriteString(formatLine(l) + "\n"); err != nil {
			return oterror.NewSerialization(err)
		}
	}
	if err := bw.Flush(); err != nil {
		return oterror.NewSerialization(err)
	}
	return nil
}

// String returns the script's text form.
func (s *Script) String() string {
	var sb strings.Builder
	_ = s.Write(&sb)
	return sb.String()
}

func formatLine(l Line) string {
	switch v := l.(type) {
	case *Segment:
		return formatSegment(v)
	case SaveMarker:
		return "save " + v.Name
	case SharedSeed:
		return fmt.Sprintf("seed %d", v.Seed)
	case ButtonsToggle:
		if v.Reset {
			return "buttons reset"
		}
		return "buttons set"
	case Reset:
		return fmt.Sprintf("reset %d", v.NonSharedSeed)
	case Comment:
		return "# " + v.Text
	case StrafingConstraints:
		return fmt.Sprintf("constraints %v", v.Tolerance)
	case TargetYawOverride:
		sb := strings.Builder{}
		sb.WriteString("yawoverride")
		for _, y := range v.Yaw {
			sb.WriteString(fmt.Sprintf(" %v", y))
		}
		return sb.String()
	}
	panic(oterror.New("unknown line kind %T", l))
}

func formatSegment(seg *Segment) string {
	parts := []string{"bulk", strconv.FormatUint(uint64(seg.FrameCount), 10), seg.FrameTime}
	if seg.Keys.Use {
		parts = append(parts, "key.use")
	}
	if seg.Keys.Duck {
		parts = append(parts, "key.duck")
	}
	if seg.Keys.Jump {
		parts = append(parts, "key.jump")
	}
	if seg.Keys.Attack {
		parts = append(parts, "key.attack")
	}
	if m := seg.Movement; m != nil {
		parts = append(parts, "strafe."+strafeTypeName(m.Type)+"."+strafeDirName(m.Dir))
	}
	if seg.DuckBeforeGround {
		parts = append(parts, "dbg")
	}
	if a := seg.LeaveGround; a != nil {
		kind := "jump"
		if a.Kind == LeaveGroundDuckTap {
			kind = "ducktap"
			if a.ZeroMs {
				kind = "ducktap0"
			}
		}
		speed := "any"
		if a.Speed == SpeedOptimal {
			speed = "optimal"
		}
		parts = append(parts, "lga."+kind+"."+speed)
	}
	if seg.Command != "" {
		parts = append(parts, "cmd", seg.Command)
	}
	return strings.Join(parts, " ")
}

func strafeTypeName(t StrafeType) string {
	switch t {
	case StrafeMaxAccel:
		return "accel"
	case StrafeMaxAngle:
		return "angle"
	case StrafeMaxDecel:
		return "decel"
	}
	panic(oterror.New("unknown strafe type %d", t))
}

func strafeDirName(d StrafeDir) string {
	switch d.Kind {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirBest:
		return "best"
	case DirYaw:
		return fmt.Sprintf("yaw=%v", d.Yaw)
	case DirLeftRight:
		return fmt.Sprintf("leftright=%d", d.Count)
	case DirRightLeft:
		return fmt.Sprintf("rightleft=%d", d.Count)
	}
	panic(oterror.New("unknown strafe dir kind %d", d.Kind))
}

// Parse reads a script from its text form.
func Parse(r io.Reader) (*Script, error) {
	s := &Script{}
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		l, err := parseLine(text)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		s.Lines = append(s.Lines, l)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return s, nil
}

func parseLine(text string) (Line, error) {
	if rest, ok := strings.CutPrefix(text, "#"); ok {
		return Comment{Text: strings.TrimPrefix(rest, " ")}, nil
	}
	fields := strings.Fields(text)
	switch fields[0] {
	case "bulk":
		return parseSegment(fields[1:])
	case "save":
		if len(fields) != 2 {
			return nil, fmt.Errorf("save takes one name")
		}
		return SaveMarker{Name: fields[1]}, nil
	case "seed":
		if len(fields) != 2 {
			return nil, fmt.Errorf("seed takes one number")
		}
		n, err := strconv.ParseUint(fields[1], 10, 32)
		if err != nil {
			return nil, err
		}
		return SharedSeed{Seed: uint32(n)}, nil
	case "buttons":
		return ButtonsToggle{Reset: len(fields) > 1 && fields[1] == "reset"}, nil
	case "reset":
		if len(fields) != 2 {
			return nil, fmt.Errorf("reset takes one seed")
		}
		n, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return nil, err
		}
		return Reset{NonSharedSeed: n}, nil
	case "constraints":
		if len(fields) != 2 {
			return nil, fmt.Errorf("constraints takes one tolerance")
		}
		f, err := strconv.ParseFloat(fields[1], 32)
		if err != nil {
			return nil, err
		}
		return StrafingConstraints{Tolerance: float32(f)}, nil
	case "yawoverride":
		yaw := make([]float32, 0, len(fields)-1)
		for _, f := range fields[1:] {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, err
			}
			yaw = append(yaw, float32(v))
		}
		return TargetYawOverride{Yaw: yaw}, nil
	}
	return nil, fmt.Errorf("unknown line kind %q", fields[0])
}

func parseSegment(fields []string) (*Segment, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("bulk needs a frame count and a frame time")
	}
	count, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil || count == 0 {
		return nil, fmt.Errorf("bad frame count %q", fields[0])
	}
	seg := &Segment{FrameCount: uint32(count), FrameTime: fields[1]}

	for i := 2; i < len(fields); i++ {
		tok := fields[i]
		switch {
		case tok == "key.use":
			seg.Keys.Use = true
		case tok == "key.duck":
			seg.Keys.Duck = true
		case tok == "key.jump":
			seg.Keys.Jump = true
		case tok == "key.attack":
			seg.Keys.Attack = true
		case tok == "dbg":
			seg.DuckBeforeGround = true
		case strings.HasPrefix(tok, "strafe."):
			m, err := parseStrafe(tok)
			if err != nil {
				return nil, err
			}
			seg.Movement = m
		case strings.HasPrefix(tok, "lga."):
			a, err := parseLeaveGround(tok)
			if err != nil {
				return nil, err
			}
			seg.LeaveGround = a
		case tok == "cmd":
			// The command spans the rest of the line.
			seg.Command = strings.Join(fields[i+1:], " ")
			return seg, nil
		default:
			return nil, fmt.Errorf("unknown bulk token %q", tok)
		}
	}
	return seg, nil
}

func parseStrafe(tok string) (*Strafe, error) {
	parts := strings.SplitN(strings.TrimPrefix(tok, "strafe."), ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad strafe token %q", tok)
	}
	m := &Strafe{}
	switch parts[0] {
	case "accel":
		m.Type = StrafeMaxAccel
	case "angle":
		m.Type = StrafeMaxAngle
	case "decel":
		m.Type = StrafeMaxDecel
	default:
		return nil, fmt.Errorf("unknown strafe type %q", parts[0])
	}
	dir := parts[1]
	switch {
	case dir == "left":
		m.Dir.Kind = DirLeft
	case dir == "right":
		m.Dir.Kind = DirRight
	case dir == "best":
		m.Dir.Kind = DirBest
	case strings.HasPrefix(dir, "yaw="):
		f, err := strconv.ParseFloat(dir[len("yaw="):], 32)
		if err != nil {
			return nil, err
		}
		m.Dir = StrafeDir{Kind: DirYaw, Yaw: float32(f)}
	case strings.HasPrefix(dir, "leftright="), strings.HasPrefix(dir, "rightleft="):
		kind := DirLeftRight
		if strings.HasPrefix(dir, "rightleft=") {
			kind = DirRightLeft
		}
		n, err := strconv.ParseUint(dir[strings.Index(dir, "=")+1:], 10, 32)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("bad strafe count in %q", tok)
		}
		m.Dir = StrafeDir{Kind: kind, Count: uint32(n)}
	default:
		return nil, fmt.Errorf("unknown strafe dir %q", dir)
	}
	return m, nil
}

func parseLeaveGround(tok string) (*LeaveGroundAction, error) {
	parts := strings.SplitN(strings.TrimPrefix(tok, "lga."), ".", 2)
	if len(parts) != 2 {
		return nil, fmt.Errorf("bad leave-ground token %q", tok)
	}
	a := &LeaveGroundAction{}
	switch parts[0] {
	case "jump":
		a.Kind = LeaveGroundJump
	case "ducktap":
		a.Kind = LeaveGroundDuckTap
	case "ducktap0":
		a.Kind = LeaveGroundDuckTap
		a.ZeroMs = true
	default:
		return nil, fmt.Errorf("unknown leave-ground kind %q", parts[0])
	}
	switch parts[1] {
	case "any":
		a.Speed = SpeedAny
	case "optimal":
		a.Speed = SpeedOptimal
	default:
		return nil, fmt.Errorf("unknown leave-ground speed %q", parts[1])
	}
	return a, nil
}
