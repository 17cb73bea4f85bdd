package device

import (
	"errors"
	"fmt"
)

// Device is one enumerated audio input device.
// Devices are enumerated once per session and never change afterwards.
type Device struct {
	ID   uint32
	Name string
}

// String returns "id: name", the form used in logs and the tray menu
func (d Device) String() string {
	return fmt.Sprintf("%d: %s", d.ID, d.Name)
}

// Driver is the per-device mute capability provided by the platform backend.
// Implementations must not retain state about mute; the caller owns that.
type Driver interface {
	// Enumerate returns all audio devices that have at least one input stream
	Enumerate() ([]Device, error)

	// IsMuted reports the hardware mute property of a single device
	IsMuted(dev Device) (bool, error)

	// SetMute writes the hardware mute property of a single device
	SetMute(dev Device, muted bool) error
}

// Op names the device operation that failed
type Op string

const (
	OpQuery Op = "query"
	OpSet   Op = "set"
)

// DeviceError is a recoverable failure of one device operation
type DeviceError struct {
	Device Device
	Op     Op
	Err    error
}

func (e *DeviceError) Error() string {
	return fmt.Sprintf("device %s: %s mute failed: %v", e.Device, e.Op, e.Err)
}

func (e *DeviceError) Unwrap() error {
	return e.Err
}

// EnumError is returned when the input devices cannot be enumerated.
// It is fatal at startup.
type EnumError struct {
	Err error
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("failed to enumerate input devices: %v", e.Err)
}

func (e *EnumError) Unwrap() error {
	return e.Err
}

// ErrNoDevices is wrapped in an EnumError when enumeration succeeds but finds no input device
var ErrNoDevices = errors.New("no input devices found")

// ErrReadOnly is returned for devices whose mute property cannot be written
var ErrReadOnly = errors.New("mute property is not settable")
