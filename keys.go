package outpost

type Key string

const (
	// FlashKey stashes the flash session bound to an HTTP request.
	FlashKey Key = "FlashKey"

	// IpAddrKey stashes the IP address of an HTTP request being handled by outpost.
	IpAddrKey Key = "IpAddrKey"

	// PlayerKey stashes the authenticated player bound to an HTTP request.
	PlayerKey Key = "PlayerKey"

	// RequestIDKey stashes a unique UUID for each HTTP request.
	RequestIDKey Key = "RequestIDKey"
)

// String formats the stringified key with additional contextual information
func (k Key) String() string {
	return "outpost context key: " + string(k)
}
