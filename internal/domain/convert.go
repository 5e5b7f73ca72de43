package domain

// Default conversion knobs. The video codec default is the macOS
// VideoToolbox hardware H.264 encoder; choosing it also pins the
// nv12 pixel format the hardware path requires (see the ffmpeg
// adapter). Callers overriding the codec are responsible for a
// compatible pixel format.
const (
	DefaultVideoCodec = "h264_videotoolbox"
	DefaultResolution = "1920x1080"
	DefaultBitrate    = "50M"
	DefaultAudioCodec = "pcm_s16le"
)

// ConversionRequest describes one transcode invocation. It lives for
// the duration of the call and is never persisted.
type ConversionRequest struct {
	InputPath  string
	OutputPath string
	VideoCodec string
	Resolution string
	Bitrate    string
	AudioCodec string
}

// NewConversionRequest builds a request with every knob defaulted.
func NewConversionRequest(inputPath, outputPath string) ConversionRequest {
	return ConversionRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		VideoCodec: DefaultVideoCodec,
		Resolution: DefaultResolution,
		Bitrate:    DefaultBitrate,
		AudioCodec: DefaultAudioCodec,
	}
}

// Normalize fills any empty knob with its default so a partially
// populated request behaves like a defaulted one.
func (r *ConversionRequest) Normalize() {
	if r.VideoCodec == "" {
		r.VideoCodec = DefaultVideoCodec
	}
	if r.Resolution == "" {
		r.Resolution = DefaultResolution
	}
	if r.Bitrate == "" {
		r.Bitrate = DefaultBitrate
	}
	if r.AudioCodec == "" {
		r.AudioCodec = DefaultAudioCodec
	}
}
