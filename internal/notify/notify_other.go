//go:build !linux && !darwin

package notify

// NewPlatformNotifier returns a no-op notifier on platforms without a
// supported desktop notification command.
func NewPlatformNotifier(bool) Notifier {
	return NopNotifier{}
}
