package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/spf13/cobra"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
)

var (
	captureSourceID int64
	captureOutPath  string
)

var captureCmd = &cobra.Command{
	Use:   "capture",
	Short: "Capture a single frame and write it out as a PNG",
	Run: func(cmd *cobra.Command, args []string) {
		c := buildCapturer(opts)
		if captureSourceID != 0 && !c.SelectSource(captureSourceID) {
			fmt.Fprintf(os.Stderr, "unknown source id %d\n", captureSourceID)
			os.Exit(1)
		}

		var sf *frame.SharedFrame
		var result capture.CaptureResult
		c.Start(func(r capture.CaptureResult, f *frame.SharedFrame) {
			result, sf = r, f
		})
		c.CaptureFrame()

		if result != capture.ResultSuccess || sf == nil {
			fmt.Fprintf(os.Stderr, "capture failed: %s\n", result)
			os.Exit(1)
		}
		defer sf.Release()

		if err := writeFramePNG(sf.Frame(), captureOutPath); err != nil {
			fmt.Fprintf(os.Stderr, "write png: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("wrote %s (%dx%d)\n", captureOutPath, sf.Frame().Size.W, sf.Frame().Size.H)
	},
}

func init() {
	captureCmd.Flags().Int64Var(&captureSourceID, "source", 0, "source id to capture (default: entire desktop)")
	captureCmd.Flags().StringVar(&captureOutPath, "out", "capture.png", "output PNG path")
}

// writeFramePNG converts fr's BGRA8 pixels to image/png's RGBA ordering
// and encodes it to path. This is the PNG-dump path exercising
// image/png/image/color alongside the x/image/draw scaling path.
func writeFramePNG(fr *frame.Frame, path string) error {
	img := image.NewRGBA(image.Rect(0, 0, int(fr.Size.W), int(fr.Size.H)))
	for y := int32(0); y < fr.Size.H; y++ {
		row := fr.RowData(y)
		for x := int32(0); x < fr.Size.W; x++ {
			off := int(x) * frame.BytesPerPixel
			b, g, r, a := row[off], row[off+1], row[off+2], row[off+3]
			img.Set(int(x), int(y), color.RGBA{R: r, G: g, B: b, A: a})
		}
	}

	out, err := os.Create(path)
	if err != nil {
		return err
	}
	defer out.Close()
	return png.Encode(out, img)
}
