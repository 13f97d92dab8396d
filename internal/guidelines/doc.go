// SPDX-License-Identifier: MPL-2.0

// Package guidelines implements distribution of versioned guideline packs
// from a remote catalog to the local per-user store. It provides catalog
// fetching over HTTPS, SHA256 integrity verification, version comparison,
// and atomic installation of pack artifacts.
//
// The package is organized into six concerns:
//   - client.go: HTTPS-only HTTP fetching with a bounded timeout
//   - catalog.go: remote catalog document parsing and validation
//   - digest.go: SHA256 content addressing and verification
//   - version.go: permissive version-string parsing and ordering
//   - store.go: enumeration and reading of locally installed packs
//   - planner.go / installer.go: update planning and verified installation
package guidelines
