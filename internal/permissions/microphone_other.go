//go:build !darwin

package permissions

// No privacy gate outside macOS
func microphoneStatus() PermissionStatus {
	return PermissionAuthorized
}
