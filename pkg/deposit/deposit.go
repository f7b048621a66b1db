// Package deposit supplies the chain signing collaborator consumed by the
// bridge engine. The engine only sees the SubmitDeposit contract; how a
// transaction is built and signed for each chain lives here.
package deposit

import (
	"context"
	"fmt"

	"wavebridge/pkg/chains"
)

// ChainDepositor signs and broadcasts a deposit on one chain, returning an
// opaque transaction reference.
type ChainDepositor interface {
	SubmitDeposit(ctx context.Context, fromAddress, toAddress, amountDecimal string, token chains.CrossChainToken) (string, error)
}

// Manager routes deposits to the depositor registered for the chain. It
// implements the engine's Depositor contract.
type Manager struct {
	depositors map[chains.ChainId]ChainDepositor
}

// NewManager creates an empty manager; register depositors per chain.
func NewManager() *Manager {
	return &Manager{depositors: make(map[chains.ChainId]ChainDepositor)}
}

// Register installs a depositor for a chain, replacing any existing one.
func (m *Manager) Register(chain chains.ChainId, d ChainDepositor) {
	m.depositors[chain] = d
}

// Supports reports whether a depositor is registered for the chain.
func (m *Manager) Supports(chain chains.ChainId) bool {
	_, ok := m.depositors[chain]
	return ok
}

// SupportedChains lists every chain with a registered depositor.
func (m *Manager) SupportedChains() []chains.ChainId {
	out := make([]chains.ChainId, 0, len(m.depositors))
	for chain := range m.depositors {
		out = append(out, chain)
	}
	return out
}

// SubmitDeposit signs and broadcasts the deposit on the given chain.
func (m *Manager) SubmitDeposit(ctx context.Context, chain chains.ChainId, fromAddress, toAddress, amountDecimal string, token chains.CrossChainToken) (string, error) {
	d, ok := m.depositors[chain]
	if !ok {
		return "", fmt.Errorf("no deposit signer configured for chain %s; send the deposit manually to %s", chain, toAddress)
	}
	return d.SubmitDeposit(ctx, fromAddress, toAddress, amountDecimal, token)
}
