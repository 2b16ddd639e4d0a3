//go:build !linux

package service

import "errors"

// openDevice is a stub on platforms without a supported camera driver;
// webcam streams report the device as unavailable.
func openDevice() (FrameSource, error) {
	return nil, errors.New("camera capture is not supported on this platform")
}
