package deposit

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"wavebridge/config"
	"wavebridge/pkg/amount"
	"wavebridge/pkg/chains"

	"github.com/gagliardetto/solana-go"
	associatedtokenaccount "github.com/gagliardetto/solana-go/programs/associated-token-account"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
	"github.com/gagliardetto/solana-go/rpc"
)

// solanaFeeLamports is the typical single-signature transaction fee,
// reserved on top of the transfer amount during the balance check.
const solanaFeeLamports = 5000

// SolanaDepositor signs and broadcasts deposits on Solana.
type SolanaDepositor struct {
	config     config.SolanaConfig
	client     *rpc.Client
	privateKey solana.PrivateKey
	publicKey  solana.PublicKey
}

// NewSolanaDepositor creates a Solana depositor from config.
func NewSolanaDepositor(cfg config.SolanaConfig) (*SolanaDepositor, error) {
	if cfg.RPCUrl == "" {
		return nil, fmt.Errorf("RPC URL not configured for Solana")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for Solana")
	}

	privateKey, err := solana.PrivateKeyFromBase58(cfg.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	return &SolanaDepositor{
		config:     cfg,
		client:     rpc.New(cfg.RPCUrl),
		privateKey: privateKey,
		publicKey:  privateKey.PublicKey(),
	}, nil
}

// SubmitDeposit sends the deposit to toAddress. The token's declared mint
// address decides between a native SOL transfer and an SPL token transfer;
// amounts are scaled to lamports / token base units with integer math.
func (s *SolanaDepositor) SubmitDeposit(ctx context.Context, fromAddress, toAddress, amountDecimal string, tok chains.CrossChainToken) (string, error) {
	if fromAddress != "" && fromAddress != s.publicKey.String() {
		return "", fmt.Errorf("deposit signer holds %s, not the requested funding address %s", s.publicKey, fromAddress)
	}

	recipient, err := solana.PublicKeyFromBase58(toAddress)
	if err != nil {
		return "", fmt.Errorf("invalid deposit address: %w", err)
	}

	baseUnits, err := amount.ToSmallestUnit(amountDecimal, tok.Decimals)
	if err != nil {
		return "", fmt.Errorf("invalid amount: %w", err)
	}
	units, err := strconv.ParseUint(baseUnits, 10, 64)
	if err != nil {
		return "", fmt.Errorf("amount exceeds uint64 range: %w", err)
	}

	var signature solana.Signature
	if tok.Address == solana.SolMint.String() {
		signature, err = s.sendNativeSOL(ctx, recipient, units)
	} else {
		signature, err = s.sendSPLToken(ctx, recipient, tok.Address, units)
	}
	if err != nil {
		return "", err
	}
	return signature.String(), nil
}

// sendNativeSOL transfers lamports to the recipient.
func (s *SolanaDepositor) sendNativeSOL(ctx context.Context, recipient solana.PublicKey, lamports uint64) (solana.Signature, error) {
	balance, err := s.client.GetBalance(ctx, s.publicKey, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get balance: %w", err)
	}

	minRequired := lamports + solanaFeeLamports
	if balance.Value < minRequired {
		return solana.Signature{}, fmt.Errorf("insufficient balance: have %d lamports, need %d (including fees)", balance.Value, minRequired)
	}

	recent, err := s.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	instruction := system.NewTransferInstruction(lamports, s.publicKey, recipient).Build()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{instruction},
		recent.Value.Blockhash,
		solana.TransactionPayer(s.publicKey),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.signAndSend(ctx, tx)
}

// sendSPLToken transfers SPL token base units, creating the recipient's
// associated token account when it does not exist yet.
func (s *SolanaDepositor) sendSPLToken(ctx context.Context, recipient solana.PublicKey, mintStr string, units uint64) (solana.Signature, error) {
	mint, err := solana.PublicKeyFromBase58(mintStr)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("invalid token mint address: %w", err)
	}

	sourceAccount, _, err := solana.FindAssociatedTokenAddress(s.publicKey, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive source token account: %w", err)
	}

	balance, err := s.getTokenBalance(ctx, sourceAccount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance < units {
		return solana.Signature{}, fmt.Errorf("insufficient token balance: have %d base units, need %d", balance, units)
	}

	destAccount, _, err := solana.FindAssociatedTokenAddress(recipient, mint)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to derive destination token account: %w", err)
	}

	destExists, err := s.accountExists(ctx, destAccount)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to check destination account: %w", err)
	}

	recent, err := s.client.GetRecentBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to get recent blockhash: %w", err)
	}

	instructions := []solana.Instruction{}
	if !destExists {
		createAccountIx := associatedtokenaccount.NewCreateInstruction(
			s.publicKey, // payer
			recipient,   // wallet
			mint,        // mint
		).Build()
		instructions = append(instructions, createAccountIx)
	}

	transferIx := token.NewTransferInstruction(
		units,
		sourceAccount,
		destAccount,
		s.publicKey,
		[]solana.PublicKey{},
	).Build()
	instructions = append(instructions, transferIx)

	tx, err := solana.NewTransaction(
		instructions,
		recent.Value.Blockhash,
		solana.TransactionPayer(s.publicKey),
	)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to create transaction: %w", err)
	}

	return s.signAndSend(ctx, tx)
}

func (s *SolanaDepositor) signAndSend(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	_, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(s.publicKey) {
			return &s.privateKey
		}
		return nil
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to sign transaction: %w", err)
	}

	opts := rpc.TransactionOpts{
		SkipPreflight:       s.config.SkipPreflight,
		PreflightCommitment: s.commitment(),
	}
	sig, err := s.client.SendTransactionWithOpts(ctx, tx, opts)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

func (s *SolanaDepositor) getTokenBalance(ctx context.Context, tokenAccount solana.PublicKey) (uint64, error) {
	accountInfo, err := s.client.GetTokenAccountBalance(ctx, tokenAccount, rpc.CommitmentFinalized)
	if err != nil {
		return 0, err
	}
	return strconv.ParseUint(accountInfo.Value.Amount, 10, 64)
}

func (s *SolanaDepositor) accountExists(ctx context.Context, account solana.PublicKey) (bool, error) {
	accountInfo, err := s.client.GetAccountInfo(ctx, account)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return false, nil
		}
		return false, err
	}
	return accountInfo.Value != nil, nil
}

func (s *SolanaDepositor) commitment() rpc.CommitmentType {
	switch strings.ToLower(s.config.Commitment) {
	case "finalized":
		return rpc.CommitmentFinalized
	case "processed":
		return rpc.CommitmentProcessed
	default:
		return rpc.CommitmentConfirmed
	}
}
