// Command wirectl encodes, decodes and sends card network messages.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/api-sage/card-payment-engine/src/internal/network"
	"github.com/api-sage/card-payment-engine/src/internal/wire"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "wirectl",
		Short:         "Encode, decode and send card network messages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(encodeCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(pingCmd())
	return rootCmd
}

func encodeCmd() *cobra.Command {
	var (
		mti    string
		fields []string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a message and print it as hex",
		Example: `  wirectl encode --mti 0100 --field 2=tok_ab12 --field 4=100.00
  wirectl encode --mti 0800 -f 11=000001`,
		RunE: func(cmd *cobra.Command, args []string) error {
			msg, err := buildMessage(mti, fields)
			if err != nil {
				return err
			}
			out, err := msg.Encode()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&mti, "mti", "", "4-character message type indicator")
	cmd.Flags().StringArrayVarP(&fields, "field", "f", nil, "field as number=value, repeatable")
	_ = cmd.MarkFlagRequired("mti")
	return cmd
}

func decodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode [hex]",
		Short: "Decode a hex message and print its fields as JSON",
		Long:  "Decode a hex message. With no argument the hex is read from stdin.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw string
			if len(args) == 1 {
				raw = args[0]
			} else {
				in, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return err
				}
				raw = string(in)
			}

			data, err := hex.DecodeString(strings.TrimSpace(raw))
			if err != nil {
				return fmt.Errorf("decode hex: %w", err)
			}
			msg, err := wire.Decode(data)
			if err != nil {
				return err
			}
			return printMessage(cmd.OutOrStdout(), msg)
		},
	}
}

func pingCmd() *cobra.Command {
	var (
		peers   []string
		roles   []string
		timeout time.Duration
		trace   string
	)

	cmd := &cobra.Command{
		Use:   "ping",
		Short: "Send a network management request to peers",
		Example: `  wirectl ping --peer http://localhost:8080/network/messages
  wirectl ping --peer issuer=http://bank-a/network/messages --peer acquirer=http://bank-b/network/messages --role issuer`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(peers) == 0 {
				return fmt.Errorf("at least one --peer is required")
			}
			parsed, err := network.ParsePeers(peers)
			if err != nil {
				return err
			}
			filter := make([]network.Role, 0, len(roles))
			for _, r := range roles {
				role := network.Role(strings.ToUpper(strings.TrimSpace(r)))
				if !role.Valid() {
					return fmt.Errorf("unknown role %q", r)
				}
				filter = append(filter, role)
			}

			n, err := network.NewBroadcaster(timeout, parsed...).Heartbeat(cmd.Context(), trace, filter...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d peer(s) answered\n", n)
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&peers, "peer", nil, "peer endpoint as URL or role=URL, repeatable")
	cmd.Flags().StringSliceVar(&roles, "role", nil, "only ping peers with these roles (issuer, acquirer, network)")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-peer timeout")
	cmd.Flags().StringVar(&trace, "trace", "000001", "trace number")
	return cmd
}

func buildMessage(mti string, fields []string) (*wire.Message, error) {
	msg := wire.NewMessage(mti)
	for _, f := range fields {
		number, value, ok := strings.Cut(f, "=")
		if !ok {
			return nil, fmt.Errorf("field %q: expected number=value", f)
		}
		n, err := strconv.Atoi(strings.TrimSpace(number))
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f, err)
		}
		if err := msg.SetField(n, value); err != nil {
			return nil, err
		}
	}
	return msg, nil
}

type decodedField struct {
	Number int    `json:"number"`
	Value  string `json:"value"`
}

type decodedMessage struct {
	MTI    string         `json:"mti"`
	Bitmap string         `json:"bitmap"`
	Fields []decodedField `json:"fields"`
}

func printMessage(w io.Writer, msg *wire.Message) error {
	bitmap := msg.Bitmap()
	out := decodedMessage{MTI: msg.MTI, Bitmap: hex.EncodeToString(bitmap[:])}
	for _, f := range msg.Fields() {
		out.Fields = append(out.Fields, decodedField{Number: f.Number, Value: f.Value})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
