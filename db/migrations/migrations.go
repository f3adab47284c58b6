package migrations

import "embed"

// FS embeds the schema migrations for hubs, campaigns, orders, delivery
// evidence and the earnings and billing ledgers. golang-migrate reads them
// through the iofs driver.
//
//go:embed *.sql
var FS embed.FS

// Version is the schema version the engine requires.
const Version = 1
