package platform

import (
	"errors"
	"image"
	"testing"

	"github.com/opentraa/traa-sub001/internal/capture"
)

type fakeFactory struct {
	called bool
	size   int
}

func (f *fakeFactory) CreateSharedMemory(size int) ([]byte, error) {
	f.called = true
	f.size = size
	return make([]byte, size), nil
}

func uniformRGBA(w, h int, r, g, b, a byte) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(x, y)
			img.Pix[off+0] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = a
		}
	}
	return img
}

func TestRGBAToFrameSwapsChannelsToBGRA(t *testing.T) {
	img := uniformRGBA(4, 3, 10, 20, 30, 255)

	f := rgbaToFrame(img, img.Bounds(), nil)

	if f.Size.W != 4 || f.Size.H != 3 {
		t.Fatalf("Size = %+v, want 4x3", f.Size)
	}
	row := f.RowData(0)
	if row[0] != 30 || row[1] != 20 || row[2] != 10 || row[3] != 255 {
		t.Fatalf("pixel 0 = %v, want BGRA [30 20 10 255]", row[0:4])
	}
}

func TestRGBAToFrameCropsToBounds(t *testing.T) {
	img := uniformRGBA(10, 10, 5, 6, 7, 255)
	crop := image.Rect(2, 2, 6, 5)

	f := rgbaToFrame(img, crop, nil)

	if f.Size.W != 4 || f.Size.H != 3 {
		t.Fatalf("Size = %+v, want 4x3 for cropped bounds", f.Size)
	}
	if f.TopLeft.X != 2 || f.TopLeft.Y != 2 {
		t.Fatalf("TopLeft = %+v, want (2,2)", f.TopLeft)
	}
}

func TestRGBAToFrameUsesSharedMemoryFactoryWhenSupplied(t *testing.T) {
	img := uniformRGBA(2, 2, 1, 2, 3, 255)
	factory := &fakeFactory{}

	f := rgbaToFrame(img, img.Bounds(), factory)

	if !factory.called {
		t.Fatal("expected factory.CreateSharedMemory to be called")
	}
	want := int(f.Stride) * int(f.Size.H)
	if factory.size != want {
		t.Fatalf("factory got size %d, want %d", factory.size, want)
	}
}

func TestRectFromImageRectConvertsCorrectly(t *testing.T) {
	r := rectFromImageRect(image.Rect(1, 2, 100, 200))
	if r.Left != 1 || r.Top != 2 || r.Right != 100 || r.Bottom != 200 {
		t.Fatalf("rectFromImageRect = %+v, want Left=1 Top=2 Right=100 Bottom=200", r)
	}
}

func TestClassifyGrabErrorSortsByKind(t *testing.T) {
	cases := []struct {
		name    string
		err     error
		wantErr error
		kind    capture.ErrorKind
	}{
		{"permission", errors.New("permission denied"), capture.ErrPermissionDenied, capture.KindPermanent},
		{"access denied", errors.New("Access is denied."), capture.ErrPermissionDenied, capture.KindPermanent},
		{"unsupported", errors.New("capture not supported on this platform"), capture.ErrNotSupported, capture.KindUnsupported},
		{"session 0", errors.New("capture unavailable in session 0"), capture.ErrUnsupportedSession, capture.KindPermanent},
		{"unknown", errors.New("X11 connection reset"), nil, capture.KindTemporary},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := classifyGrabError(tc.err)
			var cerr *capture.CaptureError
			if !errors.As(got, &cerr) {
				t.Fatalf("classifyGrabError should always return a *capture.CaptureError")
			}
			if cerr.Kind != tc.kind {
				t.Fatalf("Kind = %v, want %v", cerr.Kind, tc.kind)
			}
			if tc.wantErr != nil && !errors.Is(got, tc.wantErr) {
				t.Fatalf("errors.Is should see through to %v", tc.wantErr)
			}
		})
	}
}
