//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is the in-memory panel the window and headless
// runners present from. ClearRGB and snapshots lock so OS tasks can
// draw while the window thread copies the frame out.
type hostFramebuffer struct {
	mu  sync.Mutex
	w   int
	h   int
	buf []byte
}

func newHostFramebuffer(w, h int) *hostFramebuffer {
	return &hostFramebuffer{w: w, h: h, buf: make([]byte, w*h*2)}
}

func (f *hostFramebuffer) Width() int          { return f.w }
func (f *hostFramebuffer) Height() int         { return f.h }
func (f *hostFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *hostFramebuffer) StrideBytes() int    { return f.w * 2 }
func (f *hostFramebuffer) Buffer() []byte      { return f.buf }
func (f *hostFramebuffer) Present() error      { return nil }

func (f *hostFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p := packRGB565(r, g, b)
	for i := 0; i+1 < len(f.buf); i += 2 {
		f.buf[i] = byte(p)
		f.buf[i+1] = byte(p >> 8)
	}
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
