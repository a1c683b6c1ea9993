package main

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/api-sage/card-payment-engine/src/internal/network"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestEncode_ThenDecode(t *testing.T) {
	encoded, err := run(t, "", "encode", "--mti", "0100", "-f", "2=4111", "-f", "7=100.00")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if !strings.HasPrefix(encoded, "30313030"+"4200000000000000") {
		t.Fatalf("expected MTI and bitmap prefix, got %s", encoded)
	}

	decoded, err := run(t, encoded, "decode")
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	var msg decodedMessage
	if err := json.Unmarshal([]byte(decoded), &msg); err != nil {
		t.Fatalf("expected JSON output, got %v", err)
	}
	if msg.MTI != "0100" || len(msg.Fields) != 2 || msg.Fields[1].Value != "100.00" {
		t.Fatalf("unexpected decoded message %+v", msg)
	}
}

func TestEncode_RejectsBadField(t *testing.T) {
	if _, err := run(t, "", "encode", "--mti", "0100", "-f", "99=x"); err == nil {
		t.Fatal("expected error for out of range field")
	}
	if _, err := run(t, "", "encode", "--mti", "0100", "-f", "novalue"); err == nil {
		t.Fatal("expected error for malformed field")
	}
}

func TestDecode_RejectsTruncatedMessage(t *testing.T) {
	if _, err := run(t, "", "decode", "30313030"); err == nil {
		t.Fatal("expected error for truncated message")
	}
}

func TestPing_RequiresPeer(t *testing.T) {
	if _, err := run(t, "", "ping"); err == nil {
		t.Fatal("expected error without peers")
	}
}

func TestPing_AddressesSelectedRoles(t *testing.T) {
	issuer := httptest.NewServer(network.NewReceiver(nil))
	defer issuer.Close()
	hub := httptest.NewServer(network.NewReceiver(nil))
	defer hub.Close()

	out, err := run(t, "", "ping", "--peer", "issuer="+issuer.URL, "--peer", hub.URL, "--role", "issuer")
	if err != nil {
		t.Fatalf("ping: %v", err)
	}
	if !strings.Contains(out, "1 peer(s) answered") {
		t.Fatalf("expected one peer to answer, got %q", out)
	}

	out, err = run(t, "", "ping", "--peer", "issuer="+issuer.URL, "--peer", hub.URL)
	if err != nil || !strings.Contains(out, "2 peer(s) answered") {
		t.Fatalf("expected both peers to answer, got %q, %v", out, err)
	}
}

func TestPing_RejectsUnknownRole(t *testing.T) {
	if _, err := run(t, "", "ping", "--peer", "http://127.0.0.1:1", "--role", "switch"); err == nil {
		t.Fatal("expected error for unknown role")
	}
	if _, err := run(t, "", "ping", "--peer", "switch=http://127.0.0.1:1"); err == nil {
		t.Fatal("expected error for unknown peer role")
	}
}
