package notification

import (
	"fmt"
	"os/exec"
	"strings"
)

// NotificationType represents the type of notification
type NotificationType string

const (
	// TypeInfo is an informational notification
	TypeInfo NotificationType = "info"
	// TypeWarning is a warning notification
	TypeWarning NotificationType = "warning"
	// TypeError is an error notification
	TypeError NotificationType = "error"
)

// Notification represents a macOS notification
type Notification struct {
	Title   string
	Message string
	Type    NotificationType
}

// Runner executes an external command
type Runner func(name string, args ...string) error

func runCommand(name string, args ...string) error {
	return exec.Command(name, args...).Run()
}

// NotificationManager handles sending notifications to the user
type NotificationManager struct {
	appName string
	run     Runner
}

// NewNotificationManager creates a notification manager that posts through osascript
func NewNotificationManager(appName string) *NotificationManager {
	return &NotificationManager{
		appName: appName,
		run:     runCommand,
	}
}

// WithRunner replaces the command runner, e.g. to capture scripts in tests
func (nm *NotificationManager) WithRunner(run Runner) *NotificationManager {
	nm.run = run
	return nm
}

// Script returns the AppleScript that displays n
func (nm *NotificationManager) Script(n *Notification) string {
	title := n.Title
	if title == "" {
		title = nm.appName
	}
	if n.Type == TypeError && !strings.HasSuffix(title, " Error") {
		title += " Error"
	}

	script := fmt.Sprintf(`display notification "%s" with title "%s"`,
		escapeAppleScript(n.Message),
		escapeAppleScript(title))
	if n.Type == TypeError || n.Type == TypeWarning {
		script += ` sound name "Basso"`
	}
	return script
}

// Send sends a notification to the user via macOS notification center
func (nm *NotificationManager) Send(n *Notification) error {
	if n == nil {
		return fmt.Errorf("notification cannot be nil")
	}

	if err := nm.run("osascript", "-e", nm.Script(n)); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}

	return nil
}

// Info sends an informational notification titled with the app name
func (nm *NotificationManager) Info(message string) error {
	return nm.Send(&Notification{Message: message, Type: TypeInfo})
}

// Warning sends a warning notification titled with the app name
func (nm *NotificationManager) Warning(message string) error {
	return nm.Send(&Notification{Message: message, Type: TypeWarning})
}

// Error sends an error notification titled with the app name
func (nm *NotificationManager) Error(message string) error {
	return nm.Send(&Notification{Message: message, Type: TypeError})
}

// escapeAppleScript escapes special characters for AppleScript
func escapeAppleScript(s string) string {
	// Escape backslashes first to avoid double-escaping
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, "\r", `\r`)
	s = strings.ReplaceAll(s, "\t", `\t`)
	return s
}
