package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/robynasuro/octra-client/common"
	"github.com/robynasuro/octra-client/jsonx"
)

type HistoryConfig struct {
	Address string
	JSON    bool
}

var historyConfig HistoryConfig

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show merged confirmed and pending activity, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runHistory()
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVarP(&historyConfig.Address, "address", "t", "", "address to inspect (defaults to own wallet)")
	historyCmd.Flags().BoolVar(&historyConfig.JSON, "json", false, "emit the feed as JSON")
}

func runHistory() error {
	needWallet := historyConfig.Address == ""
	a, err := newApp(needWallet)
	if err != nil {
		return err
	}

	addr := historyConfig.Address
	if addr == "" {
		addr = a.wallet.Address
	}
	if err := common.ValidateAddress(addr); err != nil {
		return err
	}

	feed, err := a.history.Merged(context.Background(), addr)
	if err != nil {
		return err
	}

	if historyConfig.JSON {
		encoded, err := jsonx.MarshalIndent(feed, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(os.Stdout, string(encoded))
		return nil
	}

	if len(feed) == 0 {
		fmt.Println("no activity")
		return nil
	}
	for _, tx := range feed {
		status := "confirmed"
		if tx.Pending {
			status = "pending"
		}
		when := time.Unix(int64(tx.Timestamp), 0).Format(time.DateTime)
		fmt.Printf("%s  %-9s %-3s %12.6f  n=%-5d %s  %s\n",
			when, status, tx.Direction, tx.Amount, tx.Nonce, tx.Hash, tx.Message)
	}
	return nil
}
