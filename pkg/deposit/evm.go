package deposit

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"

	"wavebridge/config"
	"wavebridge/pkg/amount"
	"wavebridge/pkg/chains"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// nativeTokenSentinel marks a catalog entry as the chain's native asset
// rather than an ERC20 contract.
const nativeTokenSentinel = "0xeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

// ERC20 transfer function ABI.
const erc20TransferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// EVMDepositor signs and broadcasts deposits on Ethereum.
type EVMDepositor struct {
	config     config.EVMConfig
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	from       common.Address
	chainID    *big.Int
}

// NewEVMDepositor creates an Ethereum depositor from config. The chain id
// is read from the RPC endpoint so the signer cannot be pointed at the
// wrong network silently.
func NewEVMDepositor(ctx context.Context, cfg config.EVMConfig) (*EVMDepositor, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Ethereum")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for Ethereum")
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCUrl)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read chain id: %w", err)
	}

	return &EVMDepositor{
		config:     cfg,
		client:     client,
		privateKey: privateKey,
		from:       crypto.PubkeyToAddress(privateKey.PublicKey),
		chainID:    chainID,
	}, nil
}

// SubmitDeposit sends the deposit to toAddress, as a native transfer when
// the token carries the native sentinel address, otherwise as an ERC20
// transfer against the token's contract.
func (e *EVMDepositor) SubmitDeposit(ctx context.Context, fromAddress, toAddress, amountDecimal string, tok chains.CrossChainToken) (string, error) {
	if fromAddress != "" && !strings.EqualFold(fromAddress, e.from.Hex()) {
		return "", fmt.Errorf("deposit signer holds %s, not the requested funding address %s", e.from.Hex(), fromAddress)
	}
	if !common.IsHexAddress(toAddress) {
		return "", fmt.Errorf("invalid deposit address: %s", toAddress)
	}

	baseUnits, err := amount.ToSmallestUnit(amountDecimal, tok.Decimals)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}
	units, ok := new(big.Int).SetString(baseUnits, 10)
	if !ok {
		return "", fmt.Errorf("invalid base unit amount %q", baseUnits)
	}

	nonce, err := e.client.PendingNonceAt(ctx, e.from)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	var tx *types.Transaction
	if strings.EqualFold(tok.Address, nativeTokenSentinel) {
		tx, err = e.buildNativeTransfer(ctx, toAddress, units, nonce, gasPrice)
	} else {
		tx, err = e.buildERC20Transfer(ctx, toAddress, tok.Address, units, nonce, gasPrice)
	}
	if err != nil {
		return "", err
	}

	if err := e.client.SendTransaction(ctx, tx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}
	return tx.Hash().Hex(), nil
}

func (e *EVMDepositor) buildNativeTransfer(ctx context.Context, to string, wei *big.Int, nonce uint64, gasPrice *big.Int) (*types.Transaction, error) {
	balance, err := e.client.BalanceAt(ctx, e.from, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	if balance.Cmp(wei) < 0 {
		return nil, fmt.Errorf("insufficient balance: have %s wei, need %s wei", balance, wei)
	}

	gasLimit := uint64(21000) // standard ETH transfer
	tx := types.NewTransaction(nonce, common.HexToAddress(to), wei, gasLimit, gasPrice, nil)
	return types.SignTx(tx, types.NewEIP155Signer(e.chainID), e.privateKey)
}

func (e *EVMDepositor) buildERC20Transfer(ctx context.Context, to, tokenContract string, units *big.Int, nonce uint64, gasPrice *big.Int) (*types.Transaction, error) {
	if !common.IsHexAddress(tokenContract) {
		return nil, fmt.Errorf("invalid token contract address: %s", tokenContract)
	}
	tokenAddress := common.HexToAddress(tokenContract)

	balance, err := e.erc20Balance(ctx, tokenAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance.Cmp(units) < 0 {
		return nil, fmt.Errorf("insufficient token balance: have %s base units, need %s", balance, units)
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	data, err := parsedABI.Pack("transfer", common.HexToAddress(to), units)
	if err != nil {
		return nil, fmt.Errorf("failed to pack transfer data: %w", err)
	}

	gasLimit := e.config.GasLimit
	if gasLimit == 0 {
		msg := ethereum.CallMsg{From: e.from, To: &tokenAddress, Data: data}
		estimated, err := e.client.EstimateGas(ctx, msg)
		if err != nil {
			return nil, fmt.Errorf("failed to estimate gas: %w", err)
		}
		gasLimit = estimated * 120 / 100 // headroom for balance changes
	}

	tx := types.NewTransaction(nonce, tokenAddress, big.NewInt(0), gasLimit, gasPrice, data)
	return types.SignTx(tx, types.NewEIP155Signer(e.chainID), e.privateKey)
}

func (e *EVMDepositor) erc20Balance(ctx context.Context, tokenAddress common.Address) (*big.Int, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse balanceOf ABI: %w", err)
	}
	data, err := parsedABI.Pack("balanceOf", e.from)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	msg := ethereum.CallMsg{To: &tokenAddress, Data: data}
	result, err := e.client.CallContract(ctx, msg, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}
	return new(big.Int).SetBytes(result), nil
}

// Close releases the RPC connection.
func (e *EVMDepositor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
