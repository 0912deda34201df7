// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Transport: HTTP requests to the OAuth and API endpoints
//   - PayloadDecoder: Decodes response bodies into typed-field Payloads
//
// # Optional Interfaces
//
//   - ConfigStore: Application registration. Only the CLI needs it; the
//     library services take a domain.AppConfig directly.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
