package ffmpeg

import (
	"fmt"

	"videoqc/internal/domain"
)

// ArgTemplate is one flag/value pair of a delivery profile. Value is
// resolved against the request at build time; When gates conditional
// flags and may be nil.
type ArgTemplate struct {
	Flag  string
	Value func(req domain.ConversionRequest) string
	When  func(req domain.ConversionRequest) bool
}

// Profile is a named, ordered argument template list for one delivery
// target. The argument order is part of the profile: ffmpeg applies
// output options positionally.
type Profile struct {
	Name      string
	Templates []ArgTemplate
}

// Args builds the full ffmpeg argument vector for a request: input
// path, the profile's resolved templates, output path.
func (p Profile) Args(req domain.ConversionRequest) []string {
	args := []string{"-i", req.InputPath}
	for _, t := range p.Templates {
		if t.When != nil && !t.When(req) {
			continue
		}
		args = append(args, t.Flag, t.Value(req))
	}
	args = append(args, req.OutputPath)
	return args
}

func literal(v string) func(domain.ConversionRequest) string {
	return func(domain.ConversionRequest) string { return v }
}

// XDCAMHD422 is the broadcast delivery profile: 4:2:2 chroma, 12-frame
// GOP, CBR (target/min/max/buffer all pinned to the requested bitrate),
// scaled and flagged top-field-first, 16:9, 25 fps, stereo 48 kHz PCM
// audio at 1536k. The nv12 pixel format rides along only with the
// VideoToolbox hardware encoder, which rejects the planar default.
var XDCAMHD422 = Profile{
	Name: "xdcam_hd422",
	Templates: []ArgTemplate{
		{Flag: "-c:v", Value: func(r domain.ConversionRequest) string { return r.VideoCodec }},
		{Flag: "-profile:v", Value: literal("4:2:2")},
		{Flag: "-g", Value: literal("12")},
		{Flag: "-b:v", Value: func(r domain.ConversionRequest) string { return r.Bitrate }},
		{Flag: "-minrate", Value: func(r domain.ConversionRequest) string { return r.Bitrate }},
		{Flag: "-maxrate", Value: func(r domain.ConversionRequest) string { return r.Bitrate }},
		{Flag: "-bufsize", Value: func(r domain.ConversionRequest) string { return r.Bitrate }},
		{Flag: "-vf", Value: func(r domain.ConversionRequest) string {
			return fmt.Sprintf("scale=%s,setfield=mode=tff", r.Resolution)
		}},
		{Flag: "-aspect", Value: literal("16:9")},
		{Flag: "-r", Value: literal("25")},
		{Flag: "-c:a", Value: func(r domain.ConversionRequest) string { return r.AudioCodec }},
		{Flag: "-ar", Value: literal("48k")},
		{Flag: "-ac", Value: literal("2")},
		{Flag: "-b:a", Value: literal("1536k")},
		{Flag: "-pix_fmt", Value: literal("nv12"), When: func(r domain.ConversionRequest) bool {
			return r.VideoCodec == domain.DefaultVideoCodec
		}},
	},
}

// Profiles is the delivery profile registry. New targets are added here
// as data; the spawn path never changes.
var Profiles = map[string]Profile{
	XDCAMHD422.Name: XDCAMHD422,
}

// ProfileByName looks up a registered delivery profile.
func ProfileByName(name string) (Profile, bool) {
	p, ok := Profiles[name]
	return p, ok
}
