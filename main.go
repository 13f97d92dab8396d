// SPDX-License-Identifier: MPL-2.0

// Command continuum manages versioned guideline packs: it fetches the remote
// catalog, verifies pack artifacts against their published digests, and
// installs them into the local per-user store.
package main

import cmd "continuum-cli/cmd/continuum"

func main() {
	cmd.Execute()
}
