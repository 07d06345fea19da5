// Package backend builds the configured persistence variant behind the two
// store ports. Three variants exist: the on-device JSON store, the remote
// record-store API, and the SQLite record store.
package backend

import (
	"pennywise/internal/settings"
	"pennywise/internal/store"
)

type Type string

const (
	TypeLocal  Type = "local"
	TypeRemote Type = "remote"
	TypeSQLite Type = "sqlite"
)

func (t Type) IsValid() bool {
	return t == TypeLocal || t == TypeRemote || t == TypeSQLite
}

// Backend bundles the two store ports one persistence variant provides.
type Backend struct {
	Settings     store.SettingsStore
	Transactions store.TransactionStore

	// EmptyListPolicy is the variant's native empty-list behavior; the
	// on-device lineage refills explicit empties from defaults, the
	// record-store lineages preserve them.
	EmptyListPolicy settings.EmptyListPolicy
}

// Result carries the built backend plus its cleanup hook.
type Result struct {
	Backend Backend
	Cleanup func() error
}
