// Package cli implements the interactive pulse CLI: a small REPL over the
// portal session and API. Anonymous users can register and log in; members
// can browse the concierge catalog, file service requests, and manage their
// membership and profile.
package cli
