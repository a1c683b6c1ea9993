package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"testing"
)

func TestSanitizePayload_RedactsNestedSensitiveKeys(t *testing.T) {
	payload := map[string]any{
		"cardId": "c-1",
		"PAN":    "4111111111111111",
		"card": map[string]any{
			"cvv":       "123",
			"holder":    "Ada",
			"pan-token": "tok_abc",
		},
		"items": []any{map[string]any{"secret": "s"}},
	}

	out, ok := SanitizePayload(payload).(map[string]any)
	if !ok {
		t.Fatalf("expected map output")
	}
	if out["PAN"] != "******" || out["cardId"] != "c-1" {
		t.Fatalf("unexpected top level %+v", out)
	}
	card := out["card"].(map[string]any)
	if card["cvv"] != "******" || card["pan-token"] != "******" || card["holder"] != "Ada" {
		t.Fatalf("unexpected nested %+v", card)
	}
	item := out["items"].([]any)[0].(map[string]any)
	if item["secret"] != "******" {
		t.Fatalf("expected secret inside slice to be redacted, got %+v", item)
	}
}

func TestError_WritesJSONWithError(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stdout)

	Error("capture failed", errors.New("insufficient funds"), Fields{"transactionId": "t-1", "cvv": "999"})

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected json log line, got %q: %v", buf.String(), err)
	}
	if line["level"] != "ERROR" || line["msg"] != "capture failed" {
		t.Fatalf("unexpected line %+v", line)
	}
	if line["error"] != "insufficient funds" || line["transactionId"] != "t-1" || line["cvv"] != "******" {
		t.Fatalf("unexpected fields %+v", line)
	}
}
