// SPDX-License-Identifier: MPL-2.0

package guidelines

// PendingUpdate pairs a remote pack descriptor with the locally installed
// version it would replace. InstalledVersion is empty for a fresh install.
// Pending updates are computed fresh on every check and never persisted.
type PendingUpdate struct {
	Pack             PackDescriptor
	InstalledVersion string
}

// Install reports whether this update is a fresh install rather than an
// upgrade of an existing pack.
func (u PendingUpdate) Install() bool { return u.InstalledVersion == "" }

// PlanUpdates diffs the remote catalog entries against the installed-version
// map and returns the packs that are missing locally or strictly newer
// remotely, preserving catalog order. Equal or older remote versions are
// omitted: packs are never downgraded and never reinstalled unchanged.
func PlanUpdates(packs []PackDescriptor, installed map[string]string) []PendingUpdate {
	var updates []PendingUpdate

	for _, pack := range packs {
		local, ok := installed[pack.ID]
		if !ok {
			updates = append(updates, PendingUpdate{Pack: pack})
			continue
		}
		if ParseVersion(pack.Version).Compare(ParseVersion(local)) > 0 {
			updates = append(updates, PendingUpdate{Pack: pack, InstalledVersion: local})
		}
	}

	return updates
}
