// Package config provides the process-wide application configuration.
//
// Values have code defaults and may be overridden through environment
// variables (typically loaded from a .env file by the command). The match
// runtime only sees the SinglePlayer accessor; the rest configures the HTTP
// surface.
package config
