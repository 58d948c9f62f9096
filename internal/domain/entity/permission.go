package entity

// PermissionState is the user's three-valued consent decision for
// notifications. It is owned by the platform; the application only reads
// it and requests transitions, never caches a copy.
type PermissionState string

const (
	// PermissionDefault means the user has never been asked
	PermissionDefault PermissionState = "default"
	// PermissionGranted means notifications may be shown
	PermissionGranted PermissionState = "granted"
	// PermissionDenied is terminal until changed in browser settings
	PermissionDenied PermissionState = "denied"
)
