package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/robynasuro/octra-client/domain"
)

type MultiSendConfig struct {
	File string
}

var multiSendConfig MultiSendConfig

var multiSendCmd = &cobra.Command{
	Use:   "multisend",
	Short: "Send a batch of transfers from a recipients file",
	Long: `Reads one transfer per line ("<address> <amount> [message...]"), assigns
each a sequential nonce, and submits them in concurrent chunks. Lines
starting with # are skipped.

Example:
  octra-client multisend -f payouts.txt`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMultiSend()
	},
}

func init() {
	rootCmd.AddCommand(multiSendCmd)

	multiSendCmd.Flags().StringVarP(&multiSendConfig.File, "file", "f", "", "recipients file")
	multiSendCmd.MarkFlagRequired("file")
}

func readIntents(path string) ([]domain.TransferIntent, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var intents []domain.TransferIntent
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		fields := strings.Fields(text)
		if len(fields) < 2 {
			return nil, fmt.Errorf("line %d: want \"<address> <amount> [message...]\"", line)
		}
		amount, err := domain.TokensToMicro(fields[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		intents = append(intents, domain.TransferIntent{
			To:      fields[0],
			Amount:  amount,
			Message: strings.Join(fields[2:], " "),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return intents, nil
}

func runMultiSend() error {
	a, err := newApp(true)
	if err != nil {
		return err
	}

	intents, err := readIntents(multiSendConfig.File)
	if err != nil {
		return err
	}
	if len(intents) == 0 {
		return fmt.Errorf("no transfers in %s", multiSendConfig.File)
	}

	results, err := a.tx.SendAll(context.Background(), a.wallet, intents, func(sent, total int) {
		fmt.Printf("progress %d/%d\n", sent, total)
	})
	if err != nil {
		return err
	}

	accepted := 0
	for i, result := range results {
		if result.Ok() {
			accepted++
			fmt.Printf("[%d] accepted nonce=%d hash=%s (%.3fs)\n", i, result.Nonce, result.Hash, result.ResponseTime)
		} else {
			fmt.Printf("[%d] failed nonce=%d: %v\n", i, result.Nonce, result.Err)
		}
	}
	fmt.Printf("%d/%d accepted\n", accepted, len(results))
	return nil
}
