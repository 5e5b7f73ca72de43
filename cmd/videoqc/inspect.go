package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"videoqc/internal/adapter/ffmpeg"
)

var (
	inspectJSON    bool
	inspectFFprobe string
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Probe a video file and print its normalized properties",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectJSON, "json", false, "print the raw ffprobe output instead of a table")
	inspectCmd.Flags().StringVar(&inspectFFprobe, "ffprobe", "ffprobe", "path to the ffprobe binary")
	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	prober := ffmpeg.NewProber(ffmpeg.NewExecRunner(), inspectFFprobe)

	result, err := prober.Probe(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if inspectJSON {
		fmt.Fprintln(cmd.OutOrStdout(), result.RawJSON)
		return nil
	}

	props, err := result.Properties()
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetTitle(args[0])
	t.AppendHeader(table.Row{"Property", "Value"})
	for _, row := range props.DisplayRows() {
		t.AppendRow(table.Row{row[0], row[1]})
	}
	if isatty.IsTerminal(os.Stdout.Fd()) {
		t.SetStyle(table.StyleRounded)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Render()
	return nil
}
