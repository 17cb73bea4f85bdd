//go:build !darwin

package device

import (
	"errors"
	"runtime"
)

var errUnsupported = errors.New("input mute control is not supported on " + runtime.GOOS)

type unsupportedDriver struct{}

// NewDriver returns the platform driver
func NewDriver() Driver {
	return unsupportedDriver{}
}

func (unsupportedDriver) Enumerate() ([]Device, error) {
	return nil, errUnsupported
}

func (unsupportedDriver) IsMuted(Device) (bool, error) {
	return false, errUnsupported
}

func (unsupportedDriver) SetMute(Device, bool) error {
	return errUnsupported
}
