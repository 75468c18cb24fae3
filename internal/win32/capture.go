// Copyright 2025 Joseph Cumines

//go:build windows

package win32

import (
	"fmt"
	"image"
	"unsafe"

	"golang.org/x/sys/windows"
)

const (
	prfClient    = 0x01
	prfNonClient = 0x02
	prfChildren  = 0x10
	pwRenderFull = 0x02 // PW_RENDERFULLCONTENT, needed for DWM-composited apps

	biRGB       = 0
	dibRGBColors = 0
)

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

type bitmapInfo struct {
	Header bitmapInfoHeader
	Colors [1]uint32
}

// captureWindow renders the window into an offscreen bitmap via PrintWindow
// and reads the pixels back with GetDIBits. The image is cropped to the DWM
// extended frame so the invisible resize border is not part of the result.
func captureWindow(hwnd windows.HWND) (image.Image, error) {
	full := windowRect(hwnd)
	width := int(full.Right - full.Left)
	height := int(full.Bottom - full.Top)
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("window %#x has empty bounds", hwnd)
	}

	screenDC, _, _ := procGetDC.Call(0)
	if screenDC == 0 {
		return nil, fmt.Errorf("cannot acquire screen DC")
	}
	defer procReleaseDC.Call(0, screenDC)

	memDC, _, _ := procCreateCompatibleDC.Call(screenDC)
	if memDC == 0 {
		return nil, fmt.Errorf("cannot create memory DC")
	}
	defer procDeleteDC.Call(memDC)

	bitmap, _, _ := procCreateCompatibleBitmap.Call(screenDC, uintptr(width), uintptr(height))
	if bitmap == 0 {
		return nil, fmt.Errorf("cannot create %dx%d bitmap", width, height)
	}
	defer procDeleteObject.Call(bitmap)

	prev, _, _ := procSelectObject.Call(memDC, bitmap)
	defer procSelectObject.Call(memDC, prev)

	if r, _, _ := procPrintWindow.Call(uintptr(hwnd), memDC, pwRenderFull); r == 0 {
		// Older targets reject PW_RENDERFULLCONTENT; retry the legacy way.
		if r, _, _ := procPrintWindow.Call(uintptr(hwnd), memDC, 0); r == 0 {
			return nil, fmt.Errorf("PrintWindow failed for window %#x", hwnd)
		}
	}

	info := bitmapInfo{Header: bitmapInfoHeader{
		Size:        uint32(unsafe.Sizeof(bitmapInfoHeader{})),
		Width:       int32(width),
		Height:      -int32(height), // top-down rows
		Planes:      1,
		BitCount:    32,
		Compression: biRGB,
	}}
	pixels := make([]byte, width*height*4)
	r, _, _ := procGetDIBits.Call(
		memDC, bitmap, 0, uintptr(height),
		uintptr(unsafe.Pointer(&pixels[0])),
		uintptr(unsafe.Pointer(&info)),
		dibRGBColors,
	)
	if r == 0 {
		return nil, fmt.Errorf("GetDIBits failed for window %#x", hwnd)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := 0; i+3 < len(pixels); i += 4 {
		// GetDIBits delivers BGRA.
		img.Pix[i+0] = pixels[i+2]
		img.Pix[i+1] = pixels[i+1]
		img.Pix[i+2] = pixels[i+0]
		img.Pix[i+3] = 0xFF
	}

	// Crop away the invisible DWM resize border when the extended frame is
	// smaller than the window rect.
	if frame, ok := extendedFrame(hwnd); ok {
		crop := image.Rect(
			int(frame.Left-full.Left), int(frame.Top-full.Top),
			int(frame.Right-full.Left), int(frame.Bottom-full.Top),
		).Intersect(img.Bounds())
		if !crop.Empty() && crop != img.Bounds() {
			return img.SubImage(crop), nil
		}
	}
	return img, nil
}

// extendedFrame returns the DWM extended frame bounds, the rectangle that
// visually belongs to the window.
func extendedFrame(hwnd windows.HWND) (rect, bool) {
	var rc rect
	r, _, _ := procDwmGetWindowAttribute.Call(
		uintptr(hwnd), dwmwaExtendedFrameBounds,
		uintptr(unsafe.Pointer(&rc)), unsafe.Sizeof(rc),
	)
	return rc, r == 0 // S_OK
}
