package types

// BridgeRequest represents a user's bridge command before token
// resolution against the registry.
type BridgeRequest struct {
	Amount        string
	SourceToken   string
	DestToken     string
	SourceChain   string
	DestChain     string
	RecipientAddr string
	RefundAddr    string
	FromAddr      string
}
