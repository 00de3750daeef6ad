package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robynasuro/octra-client/domain"
	"github.com/robynasuro/octra-client/logx"
)

type SendConfig struct {
	To      string
	Amount  string
	Message string
}

var sendConfig SendConfig

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Send tokens to another address",
	Long: `Sends tokens from the configured wallet to the recipient address.

Examples:
  # Send 10.5 tokens
  octra-client send -t oct8pLtxW7z... -a 10.5

  # Send with an attached message
  octra-client send -t oct8pLtxW7z... -a 250 -m "rent"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSend()
	},
}

func init() {
	rootCmd.AddCommand(sendCmd)

	sendCmd.Flags().StringVarP(&sendConfig.To, "to", "t", "", "recipient address")
	sendCmd.Flags().StringVarP(&sendConfig.Amount, "amount", "a", "", "amount in whole tokens")
	sendCmd.Flags().StringVarP(&sendConfig.Message, "message", "m", "", "optional message (not signed)")
	sendCmd.MarkFlagRequired("to")
	sendCmd.MarkFlagRequired("amount")
}

func runSend() error {
	a, err := newApp(true)
	if err != nil {
		return err
	}

	amount, err := domain.TokensToMicro(sendConfig.Amount)
	if err != nil {
		return err
	}

	result, err := a.tx.Send(context.Background(), a.wallet, domain.TransferIntent{
		To:      sendConfig.To,
		Amount:  amount,
		Message: sendConfig.Message,
	})
	if err != nil {
		return err
	}
	if !result.Ok() {
		logx.Error("SEND", "Transfer failed: ", result.Err)
		return result.Err
	}

	fmt.Printf("accepted nonce=%d hash=%s (%.3fs)\n", result.Nonce, result.Hash, result.ResponseTime)
	return nil
}
