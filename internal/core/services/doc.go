// Package services implements the driving port interfaces.
// OAuthService runs the authorization-code flow and APIService executes
// method calls; both reach the network only through driven ports.
package services
