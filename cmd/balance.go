package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/robynasuro/octra-client/common"
	"github.com/robynasuro/octra-client/domain"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show confirmed balance and next usable nonce",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBalance()
	},
}

func init() {
	rootCmd.AddCommand(balanceCmd)

	balanceCmd.Flags().StringVarP(&balanceAddress, "address", "t", "", "address to inspect (defaults to own wallet)")
}

func runBalance() error {
	needWallet := balanceAddress == ""
	a, err := newApp(needWallet)
	if err != nil {
		return err
	}

	addr := balanceAddress
	if addr == "" {
		addr = a.wallet.Address
	}
	if err := common.ValidateAddress(addr); err != nil {
		return err
	}

	ctx := context.Background()
	state, err := a.accounts.GetState(ctx, addr)
	if err != nil {
		return err
	}
	nextNonce, err := a.accounts.NextNonce(ctx, addr)
	if err != nil {
		return err
	}

	fmt.Printf("address:         %s\n", addr)
	fmt.Printf("balance:         %.6f\n", domain.MicroToTokens(state.Balance))
	fmt.Printf("confirmed nonce: %d\n", state.Nonce)
	fmt.Printf("next nonce:      %d\n", nextNonce)
	return nil
}
