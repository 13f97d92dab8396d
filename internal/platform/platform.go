// SPDX-License-Identifier: MPL-2.0

// Package platform provides cross-platform compatibility constants.
package platform

// OS names as reported by runtime.GOOS, named to avoid scattering string
// literals through platform switches.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)
