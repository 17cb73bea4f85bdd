// Package permissions reports macOS privacy permissions the app depends on.
package permissions

import (
	"errors"
	"os/exec"
)

// PermissionStatus represents the status of a system permission.
// Values follow AVAuthorizationStatus.
type PermissionStatus int

const (
	// PermissionNotDetermined means the user hasn't been asked yet
	PermissionNotDetermined PermissionStatus = 0
	// PermissionRestricted means the permission is restricted by parental controls
	PermissionRestricted PermissionStatus = 1
	// PermissionDenied means the user has explicitly denied the permission
	PermissionDenied PermissionStatus = 2
	// PermissionAuthorized means the user has authorized the permission
	PermissionAuthorized PermissionStatus = 3
)

// ErrMicrophoneDenied is returned by RequireMicrophone when access is not granted
var ErrMicrophoneDenied = errors.New("microphone permission not granted")

const microphonePane = "x-apple.systempreferences:com.apple.preference.security?Privacy_Microphone"

// PermissionChecker provides methods for checking macOS system permissions
type PermissionChecker struct {
	microphone func() PermissionStatus
	open       func(url string) error
}

// NewPermissionChecker creates a checker backed by the system
func NewPermissionChecker() *PermissionChecker {
	return &PermissionChecker{
		microphone: microphoneStatus,
		open: func(url string) error {
			return exec.Command("open", url).Run()
		},
	}
}

// CheckMicrophonePermission checks if the application has microphone access permission
func (pc *PermissionChecker) CheckMicrophonePermission() PermissionStatus {
	return pc.microphone()
}

// IsMicrophoneAuthorized returns whether microphone permission is granted
func (pc *PermissionChecker) IsMicrophoneAuthorized() bool {
	return pc.CheckMicrophonePermission() == PermissionAuthorized
}

// RequireMicrophone returns ErrMicrophoneDenied unless access is granted.
// NotDetermined passes: opening the input stream triggers the system prompt.
func (pc *PermissionChecker) RequireMicrophone() error {
	switch pc.CheckMicrophonePermission() {
	case PermissionAuthorized, PermissionNotDetermined:
		return nil
	default:
		return ErrMicrophoneDenied
	}
}

// RequestMicrophonePermission opens system settings for microphone permission
func (pc *PermissionChecker) RequestMicrophonePermission() error {
	return pc.open(microphonePane)
}

// String returns the string representation of the status
func (ps PermissionStatus) String() string {
	switch ps {
	case PermissionNotDetermined:
		return "NotDetermined"
	case PermissionRestricted:
		return "Restricted"
	case PermissionDenied:
		return "Denied"
	case PermissionAuthorized:
		return "Authorized"
	default:
		return "Unknown"
	}
}
