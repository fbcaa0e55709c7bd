package signature

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/tranvictor/assoc/association"
	assoccommon "github.com/tranvictor/assoc/common"
)

const testMessage = "0x000000000000000000000000aaaa000000000000000000000000000000001111"

func newKey(t *testing.T) (*ecdsa.PrivateKey, common.Address) {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("GenerateKey() error = %v", err)
	}
	return key, crypto.PubkeyToAddress(key.PublicKey)
}

// sign returns a 65-byte signature with v in {27, 28}.
func sign(t *testing.T, key *ecdsa.PrivateKey, message []byte) []byte {
	t.Helper()
	sig, err := crypto.Sign(accounts.TextHash(message), key)
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}
	sig[64] += 27
	return sig
}

func compact(sig []byte) []byte {
	out := make([]byte, 64)
	copy(out, sig[:64])
	if sig[64] == 28 || sig[64] == 1 {
		out[32] |= 0x80
	}
	return out
}

func wrap6492(t *testing.T, sig []byte) []byte {
	t.Helper()
	factory := common.HexToAddress("0x00000000000000000000000000000000000fac70")
	packed, err := erc6492Arguments.Pack(factory, []byte{0xde, 0xad}, sig)
	if err != nil {
		t.Fatalf("pack 6492 wrapper: %v", err)
	}
	return append(packed, ERC6492Magic...)
}

func assocSignedBy(initiator common.Address, sig []byte) association.Association {
	return association.Association{
		ID:                 1,
		InitiatorAddress:   initiator,
		ApproverAddress:    common.HexToAddress("0x2222222222222222222222222222222222222222"),
		InitiatorBytes:     testMessage,
		InitiatorSignature: hexutil.Encode(sig),
		IsActive:           true,
	}
}

func mustVerify(t *testing.T, v *Verifier, a association.Association, expected common.Address) *Result {
	t.Helper()
	res, err := v.Verify(context.Background(), a, expected)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	return res
}

func TestVerifyValidSignature(t *testing.T) {
	key, addr := newKey(t)
	a := assocSignedBy(addr, sign(t, key, []byte(testMessage)))

	res := mustVerify(t, NewVerifier(nil), a, addr)
	if !res.IsValid {
		t.Fatalf("expected a valid signature")
	}
	if res.Method != MethodECDSA {
		t.Errorf("Method = %q", res.Method)
	}
	if res.RecoveredSigner != addr || res.ExpectedSigner != addr {
		t.Errorf("unexpected signers: %+v", res)
	}
}

func TestVerifySignatureEncodings(t *testing.T) {
	key, addr := newKey(t)
	sig := sign(t, key, []byte(testMessage))
	zeroV := append([]byte(nil), sig...)
	zeroV[64] -= 27

	encodings := map[string][]byte{
		"v 27/28":         sig,
		"v 0/1":           zeroV,
		"compact":         compact(sig),
		"erc6492 wrapped": wrap6492(t, sig),
		"erc6492 compact": wrap6492(t, compact(sig)),
	}
	for name, s := range encodings {
		t.Run(name, func(t *testing.T) {
			if !mustVerify(t, NewVerifier(nil), assocSignedBy(addr, s), addr).IsValid {
				t.Errorf("expected %s signature to verify", name)
			}
		})
	}
}

func TestVerifyRejectsEveryBitFlip(t *testing.T) {
	key, addr := newKey(t)
	sig := sign(t, key, []byte(testMessage))
	chain := &fakeChain{}
	v := NewVerifier(chain)

	for i := 0; i < len(sig)*8; i++ {
		mutated := append([]byte(nil), sig...)
		mutated[i/8] ^= 1 << (i % 8)
		if mustVerify(t, v, assocSignedBy(addr, mutated), addr).IsValid {
			t.Fatalf("bit %d flipped still verifies", i)
		}
	}
	if chain.calls != 0 {
		t.Errorf("an EOA without code must never be called, got %d calls", chain.calls)
	}
}

func TestVerifyDifferentSigner(t *testing.T) {
	_, claimed := newKey(t)
	other, _ := newKey(t)
	a := assocSignedBy(claimed, sign(t, other, []byte(testMessage)))

	res := mustVerify(t, NewVerifier(nil), a, claimed)
	if res.IsValid {
		t.Fatalf("signature by another key must not verify")
	}
	if res.RecoveredSigner != claimed {
		t.Errorf("RecoveredSigner must echo the declared initiator, got %s", res.RecoveredSigner.Hex())
	}
}

func TestVerifyChangedMessage(t *testing.T) {
	key, addr := newKey(t)
	a := assocSignedBy(addr, sign(t, key, []byte(testMessage)))
	a.InitiatorBytes = testMessage[:len(testMessage)-1] + "2"
	if mustVerify(t, NewVerifier(nil), a, addr).IsValid {
		t.Fatalf("altered message must not verify")
	}
}

func TestVerifyMalformedSignature(t *testing.T) {
	key, addr := newKey(t)
	sig := sign(t, key, []byte(testMessage))
	badV := append([]byte(nil), sig...)
	badV[64] = 5

	cases := map[string]string{
		"empty":         "",
		"bare prefix":   "0x",
		"not hex":       "0xzz",
		"no prefix":     hexutil.Encode(sig)[2:],
		"short":         "0x1234",
		"bad v":         hexutil.Encode(badV),
		"bad 6492 body": hexutil.Encode(append([]byte{1, 2, 3}, ERC6492Magic...)),
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			a := assocSignedBy(addr, nil)
			a.InitiatorSignature = s
			res, err := NewVerifier(nil).Verify(context.Background(), a, addr)
			if err != nil {
				t.Fatalf("malformed input must not be an error: %v", err)
			}
			if res.IsValid {
				t.Fatalf("malformed signature verified")
			}
		})
	}
}

func TestVerifyRawMessage(t *testing.T) {
	key, addr := newKey(t)
	a := assocSignedBy(addr, sign(t, key, []byte("hello")))
	a.InitiatorBytes = hexutil.Encode([]byte("hello"))

	if !mustVerify(t, NewVerifier(nil, WithRawMessage()), a, addr).IsValid {
		t.Errorf("raw message mode should sign over decoded bytes")
	}
	if mustVerify(t, NewVerifier(nil), a, addr).IsValid {
		t.Errorf("text mode should sign over the literal hex string")
	}
	a.InitiatorBytes = "hello"
	if mustVerify(t, NewVerifier(nil, WithRawMessage()), a, addr).IsValid {
		t.Errorf("undecodable raw message must not verify")
	}
}

// fakeChain is a single smart wallet that accepts signatures by owner.
type fakeChain struct {
	wallet  common.Address
	owner   common.Address
	revert  bool
	codeErr error
	callErr error
	calls   int
}

func (f *fakeChain) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	if f.codeErr != nil {
		return nil, f.codeErr
	}
	if account == f.wallet && f.wallet != (common.Address{}) {
		return []byte{0x60, 0x80}, nil
	}
	return nil, nil
}

func (f *fakeChain) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	f.calls++
	if f.callErr != nil {
		return nil, f.callErr
	}
	if f.revert {
		return nil, errors.New("execution reverted")
	}
	method := erc1271ABI.Methods["isValidSignature"]
	args, err := method.Inputs.Unpack(msg.Data[4:])
	if err != nil {
		return nil, err
	}
	hash := args[0].([32]byte)
	sig := args[1].([]byte)
	if signer, err := recoverSigner(hash[:], sig); err == nil && signer == f.owner {
		return method.Outputs.Pack(ERC1271MagicValue)
	}
	return method.Outputs.Pack([4]byte{0xff, 0xff, 0xff, 0xff})
}

func TestVerifyERC1271(t *testing.T) {
	owner, ownerAddr := newKey(t)
	stranger, _ := newKey(t)
	wallet := common.HexToAddress("0x5555555555555555555555555555555555555555")
	good := sign(t, owner, []byte(testMessage))

	t.Run("accepted", func(t *testing.T) {
		chain := &fakeChain{wallet: wallet, owner: ownerAddr}
		res := mustVerify(t, NewVerifier(chain), assocSignedBy(wallet, good), wallet)
		if !res.IsValid || res.Method != MethodERC1271 {
			t.Fatalf("expected ERC-1271 acceptance, got %+v", res)
		}
		if chain.calls != 1 {
			t.Errorf("expected one isValidSignature call, got %d", chain.calls)
		}
	})

	t.Run("deployed 6492 wrapper", func(t *testing.T) {
		chain := &fakeChain{wallet: wallet, owner: ownerAddr}
		if !mustVerify(t, NewVerifier(chain), assocSignedBy(wallet, wrap6492(t, good)), wallet).IsValid {
			t.Fatalf("wrapped signature of a deployed wallet should verify")
		}
	})

	t.Run("rejected", func(t *testing.T) {
		chain := &fakeChain{wallet: wallet, owner: ownerAddr}
		bad := sign(t, stranger, []byte(testMessage))
		if mustVerify(t, NewVerifier(chain), assocSignedBy(wallet, bad), wallet).IsValid {
			t.Fatalf("wallet rejected the signature but it verified")
		}
	})

	t.Run("reverted", func(t *testing.T) {
		chain := &fakeChain{wallet: wallet, owner: ownerAddr, revert: true}
		if mustVerify(t, NewVerifier(chain), assocSignedBy(wallet, good), wallet).IsValid {
			t.Fatalf("revert must be treated as invalid")
		}
	})

	t.Run("counterfactual", func(t *testing.T) {
		chain := &fakeChain{owner: ownerAddr}
		if mustVerify(t, NewVerifier(chain), assocSignedBy(wallet, wrap6492(t, good)), wallet).IsValid {
			t.Fatalf("undeployed wallet must not verify")
		}
		if chain.calls != 0 {
			t.Errorf("undeployed wallet must not be called")
		}
	})

	t.Run("transport failure", func(t *testing.T) {
		for _, chain := range []*fakeChain{
			{wallet: wallet, owner: ownerAddr, codeErr: errors.New("connection refused")},
			{wallet: wallet, owner: ownerAddr, callErr: errors.New("connection reset")},
		} {
			_, err := NewVerifier(chain).Verify(context.Background(), assocSignedBy(wallet, good), wallet)
			if !errors.Is(err, assoccommon.ErrTransport) {
				t.Errorf("expected ErrTransport, got %v", err)
			}
		}
	})
}
