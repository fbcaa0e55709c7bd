package signature

import (
	"bytes"
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"

	"github.com/tranvictor/assoc/association"
	assoccommon "github.com/tranvictor/assoc/common"
	"github.com/tranvictor/assoc/util/reader"
)

// ERC1271MagicValue is returned by isValidSignature for an accepted signature.
var ERC1271MagicValue = [4]byte{0x16, 0x26, 0xba, 0x7e}

const erc1271ABIJSON = `[{"type":"function","name":"isValidSignature","stateMutability":"view","inputs":[{"name":"hash","type":"bytes32"},{"name":"signature","type":"bytes"}],"outputs":[{"name":"magicValue","type":"bytes4"}]}]`

var erc1271ABI = func() abi.ABI {
	a, err := abi.JSON(strings.NewReader(erc1271ABIJSON))
	if err != nil {
		panic(err)
	}
	return a
}()

// ChainReader is the subset of util/reader.EthReader the contract path needs.
type ChainReader interface {
	CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
}

// Method names how a valid signature was accepted.
type Method string

const (
	MethodNone    Method = ""
	MethodECDSA   Method = "ecrecover"
	MethodERC1271 Method = "erc1271"
)

// Result of one verification. RecoveredSigner is the initiator the
// association declares, not an address recovered from the signature.
type Result struct {
	IsValid         bool           `json:"isValid"`
	RecoveredSigner common.Address `json:"recoveredSigner"`
	ExpectedSigner  common.Address `json:"expectedSigner"`
	Method          Method         `json:"-"`
}

type Verifier struct {
	chain      ChainReader
	rawMessage bool
	logger     log.Logger
}

type Option func(*Verifier)

// WithRawMessage treats initiatorBytes as hex and signs over the decoded
// bytes instead of the literal text.
func WithRawMessage() Option {
	return func(v *Verifier) { v.rawMessage = true }
}

func WithLogger(l log.Logger) Option {
	return func(v *Verifier) { v.logger = l }
}

// NewVerifier returns a verifier. With a nil chain only ECDSA signatures can
// be accepted.
func NewVerifier(chain ChainReader, opts ...Option) *Verifier {
	v := &Verifier{chain: chain, logger: log.Root()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify reports whether a.InitiatorSignature is expected's signature over
// a.InitiatorBytes. A malformed signature or message yields IsValid false and
// a nil error; only a failed chain read is an error.
func (v *Verifier) Verify(ctx context.Context, a association.Association, expected common.Address) (*Result, error) {
	result := &Result{
		RecoveredSigner: a.InitiatorAddress,
		ExpectedSigner:  expected,
	}
	logger := v.logger.New("id", a.ID, "expected", expected.Hex())

	message, err := v.message(a.InitiatorBytes)
	if err != nil {
		logger.Debug("message is not decodable", "err", err)
		return result, nil
	}
	hash := accounts.TextHash(message)

	raw, err := decodeHex(a.InitiatorSignature)
	if err != nil {
		logger.Debug("signature is not hex", "err", err)
		return result, nil
	}
	sig, wrapper, err := unwrap6492(raw)
	if err != nil {
		logger.Debug("ERC-6492 wrapper is malformed")
		return result, nil
	}

	if signer, err := recoverSigner(hash, sig); err == nil && signer == expected {
		result.IsValid = true
		result.Method = MethodECDSA
		return result, nil
	} else if err == nil {
		logger.Debug("recovered a different signer", "signer", signer.Hex())
	}

	if v.chain == nil {
		return result, nil
	}
	code, err := v.chain.CodeAt(ctx, expected, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: reading code of %s: %w", assoccommon.ErrTransport, expected.Hex(), err)
	}
	if len(code) == 0 {
		if wrapper != nil {
			logger.Debug("counterfactual signer is not deployed", "factory", wrapper.Factory.Hex())
		}
		return result, nil
	}

	ok, err := v.isValidSignature(ctx, expected, hash, sig)
	if err != nil {
		return nil, err
	}
	if ok {
		result.IsValid = true
		result.Method = MethodERC1271
	}
	return result, nil
}

func (v *Verifier) message(initiatorBytes string) ([]byte, error) {
	if !v.rawMessage {
		return []byte(initiatorBytes), nil
	}
	return decodeHex(initiatorBytes)
}

func (v *Verifier) isValidSignature(ctx context.Context, contract common.Address, hash []byte, sig []byte) (bool, error) {
	data, err := erc1271ABI.Pack("isValidSignature", common.BytesToHash(hash), sig)
	if err != nil {
		return false, nil
	}
	out, err := v.chain.CallContract(ctx, ethereum.CallMsg{To: &contract, Data: data}, nil)
	if err != nil {
		if _, reverted := reader.RevertData(err); reverted {
			return false, nil
		}
		return false, fmt.Errorf("%w: isValidSignature on %s: %w", assoccommon.ErrTransport, contract.Hex(), err)
	}
	return len(out) >= 4 && bytes.Equal(out[:4], ERC1271MagicValue[:]), nil
}
