// Package common contains shared constants and sentinel errors used across
// the document store components.
package common

// DefaultCommitMessage is recorded on versions saved without an explicit
// commit message (editor auto-save).
const DefaultCommitMessage = "Auto-save"

// RestoreCommitMessageFormat is the commit message of a version created by
// restoring an older snapshot. The verb is the restored version number.
const RestoreCommitMessageFormat = "Restored from version %d"
