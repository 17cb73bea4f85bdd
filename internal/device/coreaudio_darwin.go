//go:build darwin

package device

/*
#cgo LDFLAGS: -framework CoreAudio -framework CoreFoundation

#include <CoreAudio/CoreAudio.h>
#include <CoreFoundation/CoreFoundation.h>
#include <stdlib.h>

#define MUTE_NOT_SETTABLE 1

static OSStatus list_device_ids(AudioObjectID *out, UInt32 *count) {
    AudioObjectPropertyAddress addr = {
        kAudioHardwarePropertyDevices,
        kAudioObjectPropertyScopeGlobal,
        kAudioObjectPropertyElementMain
    };
    UInt32 size = 0;
    OSStatus st = AudioObjectGetPropertyDataSize(kAudioObjectSystemObject, &addr, 0, NULL, &size);
    if (st != noErr) {
        return st;
    }
    UInt32 n = size / sizeof(AudioObjectID);
    if (out == NULL || n > *count) {
        *count = n;
        return noErr;
    }
    st = AudioObjectGetPropertyData(kAudioObjectSystemObject, &addr, 0, NULL, &size, out);
    *count = size / sizeof(AudioObjectID);
    return st;
}

static int has_input_streams(AudioObjectID id) {
    AudioObjectPropertyAddress addr = {
        kAudioDevicePropertyStreams,
        kAudioObjectPropertyScopeInput,
        kAudioObjectPropertyElementMain
    };
    UInt32 size = 0;
    if (AudioObjectGetPropertyDataSize(id, &addr, 0, NULL, &size) != noErr) {
        return 0;
    }
    return size > 0;
}

static OSStatus device_name(AudioObjectID id, char *buf, UInt32 buflen) {
    AudioObjectPropertyAddress addr = {
        kAudioObjectPropertyName,
        kAudioObjectPropertyScopeGlobal,
        kAudioObjectPropertyElementMain
    };
    CFStringRef name = NULL;
    UInt32 size = sizeof(name);
    OSStatus st = AudioObjectGetPropertyData(id, &addr, 0, NULL, &size, &name);
    if (st != noErr) {
        return st;
    }
    Boolean ok = CFStringGetCString(name, buf, buflen, kCFStringEncodingUTF8);
    CFRelease(name);
    return ok ? noErr : kAudioHardwareUnspecifiedError;
}

static OSStatus get_input_mute(AudioObjectID id, UInt32 *muted) {
    AudioObjectPropertyAddress addr = {
        kAudioDevicePropertyMute,
        kAudioObjectPropertyScopeInput,
        kAudioObjectPropertyElementMain
    };
    if (!AudioObjectHasProperty(id, &addr)) {
        return kAudioHardwareUnknownPropertyError;
    }
    UInt32 size = sizeof(*muted);
    return AudioObjectGetPropertyData(id, &addr, 0, NULL, &size, muted);
}

static OSStatus set_input_mute(AudioObjectID id, UInt32 muted) {
    AudioObjectPropertyAddress addr = {
        kAudioDevicePropertyMute,
        kAudioObjectPropertyScopeInput,
        kAudioObjectPropertyElementMain
    };
    Boolean settable = false;
    OSStatus st = AudioObjectIsPropertySettable(id, &addr, &settable);
    if (st != noErr) {
        return st;
    }
    if (!settable) {
        return MUTE_NOT_SETTABLE;
    }
    return AudioObjectSetPropertyData(id, &addr, 0, NULL, sizeof(muted), &muted);
}
*/
import "C"

import (
	"fmt"
)

// CoreAudioDriver controls input mute through the CoreAudio HAL
type CoreAudioDriver struct{}

// NewDriver returns the platform driver
func NewDriver() Driver {
	return &CoreAudioDriver{}
}

// osStatusError wraps a CoreAudio OSStatus
type osStatusError int32

func (s osStatusError) Error() string {
	// Most CoreAudio statuses are four-char codes
	v := uint32(s)
	code := []byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)}
	for _, c := range code {
		if c < 0x20 || c > 0x7e {
			return fmt.Sprintf("OSStatus %d", int32(s))
		}
	}
	return fmt.Sprintf("OSStatus '%s'", code)
}

// Enumerate returns all devices with input streams
func (d *CoreAudioDriver) Enumerate() ([]Device, error) {
	var count C.UInt32
	if st := C.list_device_ids(nil, &count); st != 0 {
		return nil, osStatusError(st)
	}
	if count == 0 {
		return nil, nil
	}

	ids := make([]C.AudioObjectID, count)
	if st := C.list_device_ids(&ids[0], &count); st != 0 {
		return nil, osStatusError(st)
	}

	var devices []Device
	buf := make([]C.char, 256)
	for _, id := range ids[:count] {
		if C.has_input_streams(id) == 0 {
			continue
		}
		name := fmt.Sprintf("Device %d", uint32(id))
		if st := C.device_name(id, &buf[0], C.UInt32(len(buf))); st == 0 {
			name = C.GoString(&buf[0])
		}
		devices = append(devices, Device{ID: uint32(id), Name: name})
	}

	return devices, nil
}

// IsMuted reads the input-scope mute property
func (d *CoreAudioDriver) IsMuted(dev Device) (bool, error) {
	var muted C.UInt32
	if st := C.get_input_mute(C.AudioObjectID(dev.ID), &muted); st != 0 {
		return false, osStatusError(st)
	}
	return muted != 0, nil
}

// SetMute writes the input-scope mute property
func (d *CoreAudioDriver) SetMute(dev Device, muted bool) error {
	var v C.UInt32
	if muted {
		v = 1
	}
	st := C.set_input_mute(C.AudioObjectID(dev.ID), v)
	if st == C.MUTE_NOT_SETTABLE {
		return ErrReadOnly
	}
	if st != 0 {
		return osStatusError(st)
	}
	return nil
}
