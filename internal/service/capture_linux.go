//go:build linux

package service

import (
	"errors"
	"image"

	"github.com/pion/mediadevices/pkg/driver"
	_ "github.com/pion/mediadevices/pkg/driver/camera"
	"github.com/pion/mediadevices/pkg/io/video"
	"github.com/pion/mediadevices/pkg/prop"
)

// openDevice opens the first available camera through the mediadevices
// driver registry.
func openDevice() (FrameSource, error) {
	drivers := driver.GetManager().Query(driver.FilterVideoRecorder())
	if len(drivers) == 0 {
		return nil, errors.New("no camera found")
	}

	d := drivers[0]
	if err := d.Open(); err != nil {
		return nil, err
	}

	recorder, ok := d.(driver.VideoRecorder)
	if !ok {
		_ = d.Close()
		return nil, errors.New("driver is not a video recorder")
	}

	media := prop.Media{Video: prop.Video{Width: 640, Height: 480}}
	if props := d.Properties(); len(props) > 0 {
		media = props[0]
	}

	reader, err := recorder.VideoRecord(media)
	if err != nil {
		_ = d.Close()
		return nil, err
	}

	return &cameraSource{driver: d, reader: reader}, nil
}

type cameraSource struct {
	driver driver.Driver
	reader video.Reader
}

func (s *cameraSource) Read() (image.Image, func(), error) {
	return s.reader.Read()
}

func (s *cameraSource) Close() error {
	return s.driver.Close()
}
