package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ScanType string

const (
	ScanTypeProgressive ScanType = "progressive"
	ScanTypeInterlaced  ScanType = "interlaced"
)

type ScanOrder string

const (
	ScanOrderTFF         ScanOrder = "TFF"
	ScanOrderBFF         ScanOrder = "BFF"
	ScanOrderProgressive ScanOrder = "Progressive"
)

// FrameRate is a rational frame rate kept as the exact num/den pair so
// NTSC rates like 30000/1001 survive without rounding.
type FrameRate struct {
	Num int
	Den int
}

func (f FrameRate) Float() float64 {
	if f.Den == 0 {
		return 0
	}
	return float64(f.Num) / float64(f.Den)
}

func (f FrameRate) String() string {
	return fmt.Sprintf("%d/%d", f.Num, f.Den)
}

// AspectRatio is a display aspect ratio as the two components of a
// "W:H" ratio string.
type AspectRatio struct {
	W int
	H int
}

func (a AspectRatio) Float() float64 {
	if a.H == 0 {
		return 0
	}
	return float64(a.W) / float64(a.H)
}

func (a AspectRatio) String() string {
	return fmt.Sprintf("%d:%d", a.W, a.H)
}

// GOP describes the group-of-pictures structure: M is the distance
// between reference frames, N the total frames per GOP. Tagged reports
// whether the values came from stream metadata; an untagged GOP is the
// documented (0, 0) default, not a measurement.
type GOP struct {
	M      int
	N      int
	Tagged bool
}

// VideoProperties is the normalized record derived from one probe of
// the first video stream. It is computed fresh per inspection and never
// persisted.
type VideoProperties struct {
	CodecName         string
	FormatName        string
	Profile           string
	Level             int
	Width             int
	Height            int
	BitRate           int64
	FrameRate         FrameRate
	AspectRatio       AspectRatio
	ColorSpace        string
	ChromaSubsampling string
	BitDepth          int
	ScanType          ScanType
	ScanOrder         ScanOrder
	GOP               GOP
}

var (
	errMissing  = errors.New("missing")
	errBadShape = errors.New("malformed")
)

// ParseFrameRate splits a "num/den" fraction string into its integer
// components. The denominator must be positive.
func ParseFrameRate(s string) (FrameRate, error) {
	if s == "" {
		return FrameRate{}, &FieldError{Field: "r_frame_rate", Err: errMissing}
	}
	num, den, ok := splitIntPair(s, "/")
	if !ok || den <= 0 {
		return FrameRate{}, &FieldError{Field: "r_frame_rate", Value: s, Err: errBadShape}
	}
	return FrameRate{Num: num, Den: den}, nil
}

// ParseAspectRatio splits a "W:H" ratio string into its components.
// Both components must be non-zero.
func ParseAspectRatio(s string) (AspectRatio, error) {
	if s == "" {
		return AspectRatio{}, &FieldError{Field: "display_aspect_ratio", Err: errMissing}
	}
	w, h, ok := splitIntPair(s, ":")
	if !ok || w == 0 || h == 0 {
		return AspectRatio{}, &FieldError{Field: "display_aspect_ratio", Value: s, Err: errBadShape}
	}
	return AspectRatio{W: w, H: h}, nil
}

// ParseGOPTag parses a "key=M,key=N" metadata tag. The keys are
// positional: the first token carries M, the second N.
func ParseGOPTag(s string) (GOP, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return GOP{}, &FieldError{Field: "tags.gop_size", Value: s, Err: errBadShape}
	}
	m, ok := tagValue(parts[0])
	if !ok {
		return GOP{}, &FieldError{Field: "tags.gop_size", Value: s, Err: errBadShape}
	}
	n, ok := tagValue(parts[1])
	if !ok {
		return GOP{}, &FieldError{Field: "tags.gop_size", Value: s, Err: errBadShape}
	}
	return GOP{M: m, N: n, Tagged: true}, nil
}

// ScanFromFieldOrder maps ffprobe's field_order vocabulary to scan type
// and order. Anything other than "progressive" (including absence of
// the field, passed as "") classifies progressive for type only when
// empty; "tt" and "bb" mark the two interlaced field orders, all other
// interlaced values report Progressive order.
func ScanFromFieldOrder(fieldOrder string) (ScanType, ScanOrder) {
	scanType := ScanTypeProgressive
	if fieldOrder != "" && fieldOrder != "progressive" {
		scanType = ScanTypeInterlaced
	}
	switch fieldOrder {
	case "tt":
		return scanType, ScanOrderTFF
	case "bb":
		return scanType, ScanOrderBFF
	default:
		return scanType, ScanOrderProgressive
	}
}

func splitIntPair(s, sep string) (a, b int, ok bool) {
	left, right, found := strings.Cut(s, sep)
	if !found {
		return 0, 0, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return 0, 0, false
	}
	b, err = strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}

func tagValue(token string) (int, bool) {
	_, val, found := strings.Cut(token, "=")
	if !found {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(val))
	if err != nil {
		return 0, false
	}
	return n, true
}

const (
	oneMegabitPerSec = 1000000
	oneKilobitPerSec = 1000
)

// FormatBitRate renders a bits/sec value for display, or "unknown" for
// the zero default.
func FormatBitRate(bps int64) string {
	switch {
	case bps <= 0:
		return "unknown"
	case bps >= oneMegabitPerSec:
		return fmt.Sprintf("%.1f Mbps", float64(bps)/oneMegabitPerSec)
	case bps >= oneKilobitPerSec:
		return fmt.Sprintf("%.1f Kbps", float64(bps)/oneKilobitPerSec)
	default:
		return fmt.Sprintf("%d bps", bps)
	}
}

// FormatFrameRate renders a frame rate for display, whole rates without
// decimals.
func FormatFrameRate(f FrameRate) string {
	fps := f.Float()
	if fps == 0 {
		return ""
	}
	if fps == math.Floor(fps) {
		return fmt.Sprintf("%.0f fps", fps)
	}
	return fmt.Sprintf("%.2f fps", fps)
}

// DisplayRows flattens the record into ordered key/value pairs for the
// media page and the CLI table.
func (p VideoProperties) DisplayRows() [][2]string {
	gop := "not specified"
	if p.GOP.Tagged {
		gop = fmt.Sprintf("M=%d, N=%d", p.GOP.M, p.GOP.N)
	}
	return [][2]string{
		{"Codec", p.CodecName},
		{"Profile", p.Profile},
		{"Level", strconv.Itoa(p.Level)},
		{"Resolution", fmt.Sprintf("%dx%d", p.Width, p.Height)},
		{"Bit rate", FormatBitRate(p.BitRate)},
		{"Frame rate", FormatFrameRate(p.FrameRate)},
		{"Aspect ratio", p.AspectRatio.String()},
		{"Color space", p.ColorSpace},
		{"Chroma subsampling", p.ChromaSubsampling},
		{"Bit depth", strconv.Itoa(p.BitDepth)},
		{"Scan type", string(p.ScanType)},
		{"Scan order", string(p.ScanOrder)},
		{"GOP", gop},
	}
}
