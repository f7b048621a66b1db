package native

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wavebridge/pkg/bridge"
	"wavebridge/pkg/chains"
	"wavebridge/pkg/httpx"
)

func testRoute() chains.Route {
	support := chains.BridgeSupport{Native: true}
	return chains.Route{
		Origin: chains.CrossChainToken{
			Symbol: "SOL", Address: "So11111111111111111111111111111111111111112",
			Decimals: 9, Chain: chains.Solana, Support: support,
		},
		Destination: chains.CrossChainToken{
			Symbol: "SOL", Address: "0x04b2f43c5c08fde5916c0f020e5e7f0d5b1cd3b3a6a1a3e7b2d1c0f9e8d7c6b5",
			Decimals: 9, Chain: chains.StarkNet, Support: support,
		},
	}
}

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(httpx.New(5*time.Second, 0), srv.URL)
}

func TestGenerateQuote(t *testing.T) {
	var gotReq quoteRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/quote" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Fatal(err)
		}
		json.NewEncoder(w).Encode(quoteResponse{
			QuoteID:          "nq-1",
			LockVault:        "vault-abc",
			AmountOut:        "1497000000",
			FeeAmount:        "3000000",
			FeeBps:           20,
			EstimatedSeconds: 90,
		})
	})

	quote, err := client.GenerateQuote(context.Background(), testRoute(), "1.5", bridge.QuoteOptions{
		SlippageBps: 50, DeadlineSeconds: 600, RecipientAddress: "0x1",
	})
	if err != nil {
		t.Fatalf("GenerateQuote: %v", err)
	}

	if gotReq.Amount != "1500000000" {
		t.Errorf("request amount = %q, want smallest units", gotReq.Amount)
	}
	if quote.ID != "nq-1" || quote.DepositAddress != "vault-abc" {
		t.Errorf("quote id/deposit = %q/%q", quote.ID, quote.DepositAddress)
	}
	if quote.ToAmount != "1.497" {
		t.Errorf("to amount = %q, want 1.497", quote.ToAmount)
	}
	if quote.FeeAmount != "0.003" {
		t.Errorf("fee amount = %q, want 0.003", quote.FeeAmount)
	}
	if quote.FeePercent != "0.20" {
		t.Errorf("fee percent = %q, want 0.20", quote.FeePercent)
	}
	if quote.Provider != bridge.ProviderNative {
		t.Errorf("provider = %s", quote.Provider)
	}
	if !quote.ExpiresAt.After(time.Now()) {
		t.Error("quote already expired on arrival")
	}
}

func TestGenerateQuoteSameChain(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request expected for a same-chain route")
	})
	route := testRoute()
	route.Destination.Chain = route.Origin.Chain

	_, err := client.GenerateQuote(context.Background(), route, "1", bridge.QuoteOptions{DeadlineSeconds: 60})
	if !bridge.IsCode(err, bridge.CodeInvalidRoute) {
		t.Errorf("error = %v, want code %s", err, bridge.CodeInvalidRoute)
	}
}

func TestGenerateQuoteMissingVault(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(quoteResponse{QuoteID: "nq-1"})
	})
	_, err := client.GenerateQuote(context.Background(), testRoute(), "1", bridge.QuoteOptions{DeadlineSeconds: 60})
	if !bridge.IsCode(err, bridge.CodeProviderUnavailable) {
		t.Errorf("error = %v, want code %s", err, bridge.CodeProviderUnavailable)
	}
}

func TestSettle(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/relay":
			var req relayRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.QuoteID != "nq-1" || req.DepositTx != "lock-tx" {
				t.Errorf("relay request = %+v", req)
			}
			json.NewEncoder(w).Encode(relayResponse{RelayID: "relay-7"})
		case "/v1/relay/relay-7/execute":
			json.NewEncoder(w).Encode(executeResponse{ExecutionTx: "0xexec"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	})

	var steps []string
	ref, err := client.Settle(context.Background(),
		&bridge.BridgeQuote{ID: "nq-1", DestinationChain: chains.StarkNet},
		"lock-tx", func(s string) { steps = append(steps, s) })
	if err != nil {
		t.Fatalf("Settle: %v", err)
	}
	if ref != "relay-7" {
		t.Errorf("settle ref = %q, want relay-7", ref)
	}
	if len(steps) != client.SettlementSteps() {
		t.Errorf("step callback fired %d times, want %d", len(steps), client.SettlementSteps())
	}
}

func TestSettleRelayRejection(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"message":"lock transaction not found"}`))
	})
	_, err := client.Settle(context.Background(), &bridge.BridgeQuote{ID: "nq-1"}, "lock-tx", func(string) {})
	if !bridge.IsCode(err, bridge.CodeExecutionFailed) {
		t.Errorf("error = %v, want code %s", err, bridge.CodeExecutionFailed)
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		name    string
		body    statusResponse
		want    bridge.SettlementState
		wantTx  string
		wantWhy string
	}{
		{name: "completed", body: statusResponse{Status: "COMPLETED", DestinationTx: "0xdone"}, want: bridge.SettlementCompleted, wantTx: "0xdone"},
		{name: "failed", body: statusResponse{Status: "failed", Error: "attestation rejected"}, want: bridge.SettlementFailed, wantWhy: "attestation rejected"},
		{name: "refunded is failed", body: statusResponse{Status: "refunded"}, want: bridge.SettlementFailed},
		{name: "anything else pending", body: statusResponse{Status: "attesting"}, want: bridge.SettlementPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/v1/relay/relay-7" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				json.NewEncoder(w).Encode(tt.body)
			})
			report, err := client.Status(context.Background(), "relay-7")
			if err != nil {
				t.Fatalf("Status: %v", err)
			}
			if report.State != tt.want {
				t.Errorf("state = %s, want %s", report.State, tt.want)
			}
			if report.CompletionTxRef != tt.wantTx {
				t.Errorf("completion tx = %q, want %q", report.CompletionTxRef, tt.wantTx)
			}
			if tt.wantWhy != "" && report.Reason != tt.wantWhy {
				t.Errorf("reason = %q, want %q", report.Reason, tt.wantWhy)
			}
		})
	}
}
