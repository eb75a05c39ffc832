package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/opentraa/traa-sub001/internal/capture"
	"github.com/opentraa/traa-sub001/internal/frame"
)

var (
	watchSourceID int64
	watchInterval time.Duration
	watchCount    int
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Capture a source repeatedly and log each delivered updated region",
	Run: func(cmd *cobra.Command, args []string) {
		c := buildCapturer(opts)
		if watchSourceID != 0 && !c.SelectSource(watchSourceID) {
			fmt.Fprintf(os.Stderr, "unknown source id %d\n", watchSourceID)
			os.Exit(1)
		}

		detector := buildDetector(opts, c)

		var last *frame.SharedFrame
		c.Start(func(result capture.CaptureResult, f *frame.SharedFrame) {
			defer func() {
				if last != nil {
					last.Release()
				}
				last = f
			}()

			switch result {
			case capture.ResultSuccess:
				r := f.Frame().UpdatedRegion
				log.Info("frame captured", "updatedRects", len(r.Rects()), "size", f.Frame().Size)
			case capture.ResultErrorTemporary:
				log.Warn("capture failed temporarily")
			case capture.ResultErrorPermanent:
				log.Error("capture failed permanently")
			}
		})

		for i := 0; watchCount <= 0 || i < watchCount; i++ {
			c.CaptureFrame()
			if detector != nil {
				detector.UpdateWindowListIfNeeded(watchSourceID, c.GetSourceList)
				if companion := detector.FindFullScreenWindow(watchSourceID); companion != 0 {
					log.Info("full-screen companion detected", "companionId", companion)
				}
			}
			time.Sleep(watchInterval)
		}
		if last != nil {
			last.Release()
		}
	},
}

func init() {
	watchCmd.Flags().Int64Var(&watchSourceID, "source", 0, "source id to watch (default: entire desktop)")
	watchCmd.Flags().DurationVar(&watchInterval, "interval", time.Second, "capture interval")
	watchCmd.Flags().IntVar(&watchCount, "count", 0, "number of captures (0 = unbounded)")
}
