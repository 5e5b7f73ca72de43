package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "videoqc",
	Short: "Broadcast delivery QC: inspect video properties and transcode to XDCAM HD422",
	Long: `videoqc inspects video files with ffprobe and transcodes them to the
XDCAM HD422 broadcast delivery format with ffmpeg.

Run it as a one-shot CLI (inspect, convert) or as a web service (serve)
with upload, inspection, queued conversion and download.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}
