// Package cli implements ledgerctl, the command-line client of the ledger
// service.
//
// Every command resolves its configuration the same way: defaults, then the
// JSON file named by --config, then LEDGER_* environment variables, then
// explicit flags. Results are printed as a table or, with -o json, as JSON.
//
//	ledgerctl token alice --secret "$SECRET" > alice.jwt
//	ledgerctl -k "$(cat alice.jwt)" transfer bob 40
//	ledgerctl -k "$(cat alice.jwt)" history -o json
package cli
