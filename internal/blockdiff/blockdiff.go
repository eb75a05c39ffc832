// Package blockdiff finds the rectangles that changed between two frames by
// comparing fixed-size pixel blocks, coalescing contiguous differing blocks
// in a row into a single rectangle before handing them to a region.
package blockdiff

import (
	"bytes"

	"github.com/opentraa/traa-sub001/internal/frame"
	"github.com/opentraa/traa-sub001/internal/geom"
	"github.com/opentraa/traa-sub001/internal/region"
)

// BlockSize is the edge length, in pixels, of each square comparison block.
const BlockSize int32 = 32

func blockRegionDiffers(old, nw *frame.Frame, left, top, width, height int32) bool {
	lo := int(left) * frame.BytesPerPixel
	hi := int(left+width) * frame.BytesPerPixel
	for y := int32(0); y < height; y++ {
		oldRow := old.RowData(top + y)
		newRow := nw.RowData(top + y)
		if !bytes.Equal(oldRow[lo:hi], newRow[lo:hi]) {
			return true
		}
	}
	return false
}

// compareRow scans the column blocks of [left, right) within the band
// [top, bottom), coalescing runs of differing blocks into rectangles
// appended to output. The last (possibly partial) block is checked on its
// own with its narrower width; a differing run that reaches it is extended
// to right in the same rectangle.
func compareRow(old, nw *frame.Frame, left, right, top, bottom int32, output *region.Region) {
	width := right - left
	height := bottom - top
	blockCount := (width - 1) / BlockSize
	lastBlockWidth := width - blockCount*BlockSize

	firstDirtyBlock := int32(-1)
	for x := int32(0); x < blockCount; x++ {
		blockLeft := left + x*BlockSize
		if blockRegionDiffers(old, nw, blockLeft, top, BlockSize, height) {
			if firstDirtyBlock == -1 {
				firstDirtyBlock = x
			}
		} else if firstDirtyBlock != -1 {
			output.AddRect(geom.RectFromLTRB(firstDirtyBlock*BlockSize+left, top, x*BlockSize+left, bottom))
			firstDirtyBlock = -1
		}
	}

	lastBlockLeft := left + blockCount*BlockSize
	lastDiffers := blockRegionDiffers(old, nw, lastBlockLeft, top, lastBlockWidth, height)
	if lastDiffers {
		if firstDirtyBlock == -1 {
			firstDirtyBlock = blockCount
		}
		output.AddRect(geom.RectFromLTRB(firstDirtyBlock*BlockSize+left, top, right, bottom))
	} else if firstDirtyBlock != -1 {
		output.AddRect(geom.RectFromLTRB(firstDirtyBlock*BlockSize+left, top, blockCount*BlockSize+left, bottom))
	}
}

// CompareFrames compares rect (clipped to old's bounds) between old and nw,
// partitioning it into BlockSize-aligned row bands and appending every
// differing rectangle to output.
func CompareFrames(old, nw *frame.Frame, rect geom.Rect, output *region.Region) {
	rect = rect.IntersectWith(old.Rect())
	if rect.IsEmpty() {
		return
	}

	yBlockCount := (rect.Height() - 1) / BlockSize
	lastYBlockHeight := rect.Height() - yBlockCount*BlockSize

	top := rect.Top
	for y := int32(0); y < yBlockCount; y++ {
		compareRow(old, nw, rect.Left, rect.Right, top, top+BlockSize, output)
		top += BlockSize
	}
	compareRow(old, nw, rect.Left, rect.Right, top, top+lastYBlockHeight, output)
}

// Compute compares hint between old and nw and returns the differing
// rectangles as a fresh region. Callers diffing multiple hint rects against
// the same frame pair should use CompareFrames directly against one output
// region, so runs that span hint boundaries still coalesce.
func Compute(old, nw *frame.Frame, hint geom.Rect) region.Region {
	var out region.Region
	CompareFrames(old, nw, hint, &out)
	return out
}
