// Package signature checks that an association's initiatorSignature was
// produced by an expected signer.
//
// Externally owned accounts are checked by recovering the EIP-191 personal
// message signer. When that fails and the expected signer has code, the
// contract is asked through ERC-1271 isValidSignature. Signatures may be
// 65-byte r||s||v, 64-byte EIP-2098 compact, or wrapped per ERC-6492.
package signature
