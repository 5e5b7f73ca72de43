package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"videoqc/internal/adapter/ffmpeg"
	"videoqc/internal/domain"
)

var (
	convertVideoCodec string
	convertResolution string
	convertBitrate    string
	convertAudioCodec string
	convertFFmpeg     string
	convertFFprobe    string
)

var convertCmd = &cobra.Command{
	Use:   "convert <input> <output>",
	Short: "Transcode a video file to XDCAM HD422",
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&convertVideoCodec, "video-codec", domain.DefaultVideoCodec, "video encoder")
	convertCmd.Flags().StringVar(&convertResolution, "resolution", domain.DefaultResolution, "output resolution (WxH)")
	convertCmd.Flags().StringVar(&convertBitrate, "bitrate", domain.DefaultBitrate, "constant video bitrate")
	convertCmd.Flags().StringVar(&convertAudioCodec, "audio-codec", domain.DefaultAudioCodec, "audio encoder")
	convertCmd.Flags().StringVar(&convertFFmpeg, "ffmpeg", "ffmpeg", "path to the ffmpeg binary")
	convertCmd.Flags().StringVar(&convertFFprobe, "ffprobe", "ffprobe", "path to the ffprobe binary")
	rootCmd.AddCommand(convertCmd)
}

func runConvert(cmd *cobra.Command, args []string) error {
	runner := ffmpeg.NewExecRunner()

	// Probe first so the progress bar knows the total duration. A file
	// that fails the probe would fail the transcode too, so bail early.
	prober := ffmpeg.NewProber(runner, convertFFprobe)
	result, err := prober.Probe(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	total := streamDuration(result)

	req := domain.ConversionRequest{
		InputPath:  args[0],
		OutputPath: args[1],
		VideoCodec: convertVideoCodec,
		Resolution: convertResolution,
		Bitrate:    convertBitrate,
		AudioCodec: convertAudioCodec,
	}

	// -1 renders a spinner when the container reports no duration.
	barMax := int64(-1)
	if total > 0 {
		barMax = int64(total / time.Millisecond)
	}
	bar := progressbar.NewOptions64(barMax,
		progressbar.OptionSetDescription("transcoding"),
		progressbar.OptionSetWriter(cmd.ErrOrStderr()),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionClearOnFinish(),
	)

	converter := ffmpeg.NewConverter(runner, convertFFmpeg)
	err = converter.ConvertWithProgress(cmd.Context(), req, func(elapsed time.Duration) {
		_ = bar.Set64(int64(elapsed / time.Millisecond))
	})
	if err != nil {
		return err
	}
	_ = bar.Finish()

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", args[1])
	return nil
}

// streamDuration reads the probed stream duration, or zero when the
// container does not report one; the bar then only shows elapsed time.
func streamDuration(result *domain.ProbeResult) time.Duration {
	vs := result.FirstVideoStream()
	if vs == nil || vs.Duration == "" {
		return 0
	}
	secs, err := strconv.ParseFloat(vs.Duration, 64)
	if err != nil {
		return 0
	}
	return time.Duration(secs * float64(time.Second))
}
