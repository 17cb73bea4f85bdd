// Package mute owns the aggregate microphone mute state.
//
// The Aggregator is the single source of truth for "are we muted". Every
// read and write of that state, and every hardware call that changes it,
// goes through one reader-writer lock held by the Aggregator.
package mute

import (
	"errors"
	"fmt"
	"sync"

	"github.com/yok-tottii/MuteBar/internal/device"
	"github.com/yok-tottii/MuteBar/internal/logger"
)

// AggregateError is returned when every device failed in one aggregate operation
type AggregateError struct {
	Desired bool
	Errs    []error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("failed to set mute=%v on all %d devices: %v", e.Desired, len(e.Errs), errors.Join(e.Errs...))
}

func (e *AggregateError) Unwrap() []error {
	return e.Errs
}

// Aggregator fans mute operations out to every enumerated input device
type Aggregator struct {
	mu      sync.RWMutex
	driver  device.Driver
	devices []device.Device
	muted   bool
	log     *logger.Logger
}

// New enumerates the input devices and reads the initial aggregate state.
// Enumeration failure, or finding no devices at all, returns a *device.EnumError.
func New(driver device.Driver, log *logger.Logger) (*Aggregator, error) {
	devices, err := driver.Enumerate()
	if err != nil {
		return nil, &device.EnumError{Err: err}
	}
	if len(devices) == 0 {
		return nil, &device.EnumError{Err: device.ErrNoDevices}
	}

	a := &Aggregator{
		driver:  driver,
		devices: devices,
		log:     log,
	}
	for _, dev := range devices {
		a.log.Debug("Input device %s", dev)
	}
	a.muted = a.QueryAll()
	a.log.Info("Found %d input devices, muted=%v", len(devices), a.muted)

	return a, nil
}

// Devices returns a copy of the enumerated devices
func (a *Aggregator) Devices() []device.Device {
	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]device.Device, len(a.devices))
	copy(out, a.devices)
	return out
}

// Muted returns the in-memory aggregate state
func (a *Aggregator) Muted() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.muted
}

// QueryAll asks the hardware whether every device is muted.
// It stops at the first device that is unmuted. A device whose query fails
// counts as unmuted; the failure is logged and never returned.
func (a *Aggregator) QueryAll() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()

	for _, dev := range a.devices {
		muted, err := a.driver.IsMuted(dev)
		if err != nil {
			a.log.Warn("%v", &device.DeviceError{Device: dev, Op: device.OpQuery, Err: err})
			return false
		}
		a.log.Debug("Input device %s is muted=%v", dev, muted)
		if !muted {
			return false
		}
	}
	return true
}

// SetAll writes desired to every device.
// It fails only when every device failed; partial failures are logged and the
// in-memory state is still advanced to desired.
func (a *Aggregator) SetAll(desired bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.setAllLocked(desired, logger.WARN)
}

// Toggle inverts the aggregate state and returns the state after the call
func (a *Aggregator) Toggle() (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	err := a.setAllLocked(!a.muted, logger.WARN)
	return a.muted, err
}

// Reassert writes mute=true again to every device when the aggregate state is muted.
// It catches devices unmuted outside the app. Failures are logged at DEBUG only
// because this runs on every admitted poll.
func (a *Aggregator) Reassert() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.muted {
		return nil
	}
	return a.setAllLocked(true, logger.DEBUG)
}

func (a *Aggregator) setAllLocked(desired bool, failLevel logger.Level) error {
	var errs []error
	for _, dev := range a.devices {
		if err := a.driver.SetMute(dev, desired); err != nil {
			derr := &device.DeviceError{Device: dev, Op: device.OpSet, Err: err}
			if failLevel == logger.DEBUG {
				a.log.Debug("%v", derr)
			} else {
				a.log.Warn("%v", derr)
			}
			errs = append(errs, derr)
			continue
		}
		a.log.Debug("Set mute=%v on %s", desired, dev)
	}

	if len(a.devices) > 0 && len(errs) == len(a.devices) {
		return &AggregateError{Desired: desired, Errs: errs}
	}

	a.muted = desired
	return nil
}
