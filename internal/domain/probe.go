package domain

import "strconv"

// ProbeStream mirrors one entry of ffprobe's streams array. Numeric
// fields ffprobe emits as strings stay strings here; conversion happens
// when the normalized record is derived.
type ProbeStream struct {
	Index            int               `json:"index"`
	CodecType        string            `json:"codec_type"`
	CodecName        string            `json:"codec_name"`
	CodecLong        string            `json:"codec_long_name"`
	Profile          string            `json:"profile"`
	Level            int               `json:"level"`
	Width            int               `json:"width"`
	Height           int               `json:"height"`
	PixFmt           string            `json:"pix_fmt"`
	ColorSpace       string            `json:"color_space"`
	ColorRange       string            `json:"color_range"`
	FieldOrder       string            `json:"field_order"`
	RFrameRate       string            `json:"r_frame_rate"`
	AvgFrameRate     string            `json:"avg_frame_rate"`
	DisplayAspect    string            `json:"display_aspect_ratio"`
	Duration         string            `json:"duration"`
	BitRate          string            `json:"bit_rate"`
	BitsPerRawSample string            `json:"bits_per_raw_sample"`
	Tags             map[string]string `json:"tags"`
}

// ProbeResult is the parsed ffprobe output for one file.
type ProbeResult struct {
	Streams []ProbeStream `json:"streams"`
	RawJSON string        `json:"-"`
}

// FirstVideoStream returns stream 0, the only stream the probe is asked
// to select, or nil when the streams array is absent or empty.
func (p *ProbeResult) FirstVideoStream() *ProbeStream {
	if len(p.Streams) == 0 {
		return nil
	}
	return &p.Streams[0]
}

// Properties derives the normalized record from the first video stream.
func (p *ProbeResult) Properties() (VideoProperties, error) {
	vs := p.FirstVideoStream()
	if vs == nil {
		return VideoProperties{}, ErrNoVideoStream
	}

	frameRate, err := ParseFrameRate(vs.RFrameRate)
	if err != nil {
		return VideoProperties{}, err
	}

	aspect, err := ParseAspectRatio(vs.DisplayAspect)
	if err != nil {
		return VideoProperties{}, err
	}

	// Absent tag or tags block is the documented silent default.
	gop := GOP{}
	if tag, ok := vs.Tags["gop_size"]; ok {
		gop, err = ParseGOPTag(tag)
		if err != nil {
			return VideoProperties{}, err
		}
	}

	scanType, scanOrder := ScanFromFieldOrder(vs.FieldOrder)

	return VideoProperties{
		CodecName:         vs.CodecName,
		FormatName:        vs.CodecName,
		Profile:           vs.Profile,
		Level:             vs.Level,
		Width:             vs.Width,
		Height:            vs.Height,
		BitRate:           parseInt64(vs.BitRate, 0),
		FrameRate:         frameRate,
		AspectRatio:       aspect,
		ColorSpace:        vs.ColorSpace,
		ChromaSubsampling: vs.PixFmt,
		BitDepth:          int(parseInt64(vs.BitsPerRawSample, 8)),
		ScanType:          scanType,
		ScanOrder:         scanOrder,
		GOP:               gop,
	}, nil
}

func parseInt64(s string, fallback int64) int64 {
	if s == "" {
		return fallback
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
