// Package ens resolves ENS style names: it normalizes a name, resolves it to
// an address and looks up its text records.
//
// Two strategies are provided. UniversalResolver talks to an ENS Universal
// Resolver deployment and follows EIP-3668 offchain lookups, which is how
// names delegated to L2 or offchain gateways (for example *.base.eth on
// mainnet) are answered. DirectResolver calls addr/text on one fixed resolver
// contract, which is what a chain with a single public resolver such as the
// Base L2 resolver needs.
//
// All calls are read-only eth_call requests.
package ens
