// Package domain defines the core types of the VK authentication layer.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Permission / Permissions: the scope algebra and its bitmask encoding
//   - Lifetime: the absolute expiry of an access token
//   - AccessToken: the credential and identity returned by the provider
//   - Provider / AppConfig: fixed provider endpoints and the app registration
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
