package signature

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// ERC6492Magic is the suffix that marks a counterfactual signature wrapper.
var ERC6492Magic = common.FromHex("0x6492649264926492649264926492649264926492649264926492649264926492")

var errMalformed = errors.New("malformed signature")

// wrapped6492 is the decoded abi.encode(address, bytes, bytes) wrapper.
type wrapped6492 struct {
	Factory         common.Address
	FactoryCalldata []byte
	Signature       []byte
}

var erc6492Arguments = func() abi.Arguments {
	addressT, _ := abi.NewType("address", "", nil)
	bytesT, _ := abi.NewType("bytes", "", nil)
	return abi.Arguments{{Type: addressT}, {Type: bytesT}, {Type: bytesT}}
}()

func decodeHex(s string) ([]byte, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return nil, errors.Join(errMalformed, err)
	}
	return b, nil
}

// unwrap6492 strips an ERC-6492 wrapper. The returned wrapper is nil for a
// plain signature.
func unwrap6492(sig []byte) ([]byte, *wrapped6492, error) {
	if len(sig) < len(ERC6492Magic) || !bytes.HasSuffix(sig, ERC6492Magic) {
		return sig, nil, nil
	}
	values, err := erc6492Arguments.Unpack(sig[:len(sig)-len(ERC6492Magic)])
	if err != nil || len(values) != 3 {
		return nil, nil, errMalformed
	}
	w := &wrapped6492{}
	var ok bool
	if w.Factory, ok = values[0].(common.Address); !ok {
		return nil, nil, errMalformed
	}
	if w.FactoryCalldata, ok = values[1].([]byte); !ok {
		return nil, nil, errMalformed
	}
	if w.Signature, ok = values[2].([]byte); !ok {
		return nil, nil, errMalformed
	}
	return w.Signature, w, nil
}

// normalizeECDSA returns sig as 65 bytes with v in {0, 1}, the form
// crypto.SigToPub expects. EIP-2098 compact signatures are expanded.
func normalizeECDSA(sig []byte) ([]byte, error) {
	out := make([]byte, crypto.SignatureLength)
	switch len(sig) {
	case crypto.SignatureLength:
		copy(out, sig)
		switch v := out[64]; v {
		case 0, 1:
		case 27, 28:
			out[64] = v - 27
		default:
			return nil, errMalformed
		}
	case 64:
		copy(out, sig[:32])
		copy(out[32:64], sig[32:64])
		out[64] = out[32] >> 7
		out[32] &= 0x7f
	default:
		return nil, errMalformed
	}
	return out, nil
}

// recoverSigner returns the address that produced sig over hash.
func recoverSigner(hash []byte, sig []byte) (common.Address, error) {
	norm, err := normalizeECDSA(sig)
	if err != nil {
		return common.Address{}, err
	}
	pub, err := crypto.SigToPub(hash, norm)
	if err != nil {
		return common.Address{}, errors.Join(errMalformed, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
