package service

import (
	"context"
	"testing"

	"connectrpc.com/connect"
	"github.com/google/go-cmp/cmp"

	"github.com/mmynk/ecosplit/pkg/api"
)

func TestSuggestionService_GetSuggestion(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	_, aliceToken := env.register(t, "alice")
	_, bobToken := env.register(t, "bob")

	receiptResp, err := env.receipts.CreateReceipt(ctx, authed(aliceToken, &api.CreateReceiptRequest{
		Items: []*api.ReceiptItem{item("Bottled Water", "1.00", false)},
	}))
	if err != nil {
		t.Fatalf("CreateReceipt failed: %v", err)
	}
	receiptID := receiptResp.Msg.Receipt.ID

	resp, err := env.suggestions.GetSuggestion(ctx, authed(aliceToken, &api.GetSuggestionRequest{
		ReceiptID: receiptID,
		ItemNames: []string{" Paper Towels ", ""},
	}))
	if err != nil {
		t.Fatalf("GetSuggestion failed: %v", err)
	}
	if resp.Msg.Suggestion != "Bring a reusable bag." {
		t.Errorf("suggestion = %q", resp.Msg.Suggestion)
	}
	if diff := cmp.Diff([]string{"Paper Towels", "Bottled Water"}, env.advisor.lastNames()); diff != "" {
		t.Errorf("advisor names mismatch (-want +got):\n%s", diff)
	}

	t.Run("nothing to advise on", func(t *testing.T) {
		_, err := env.suggestions.GetSuggestion(ctx, authed(aliceToken, &api.GetSuggestionRequest{}))
		assertCode(t, err, connect.CodeInvalidArgument)
	})

	t.Run("receipt of another user", func(t *testing.T) {
		_, err := env.suggestions.GetSuggestion(ctx, authed(bobToken, &api.GetSuggestionRequest{ReceiptID: receiptID}))
		assertCode(t, err, connect.CodeNotFound)
	})
}

func TestSuggestionService_WithoutAdvisor(t *testing.T) {
	env := newTestEnvWith(t, envOptions{noAdvisor: true})
	_, token := env.register(t, "alice")

	_, err := env.suggestions.GetSuggestion(context.Background(), authed(token, &api.GetSuggestionRequest{
		ItemNames: []string{"Milk"},
	}))
	assertCode(t, err, connect.CodeUnimplemented)
}
