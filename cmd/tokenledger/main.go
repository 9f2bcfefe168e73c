// Token ledger CLI - deploys a token into a local word store and drives the
// call router against it.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/spf13/cobra"

	"github.com/packedcell/tokenledger/common"
	"github.com/packedcell/tokenledger/ledger"
	"github.com/packedcell/tokenledger/log"
	"github.com/packedcell/tokenledger/router"
	"github.com/packedcell/tokenledger/storage"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildTime = "unknown"
)

// TokenSpec is the JSON document consumed by `tokenledger init`.
type TokenSpec struct {
	Name          string         `json:"name"`
	Symbol        string         `json:"symbol"`
	InitialSupply string         `json:"initialSupply"`
	Deployer      common.Address `json:"deployer"`
}

func main() {
	var rootCmd = &cobra.Command{
		Use:   "tokenledger",
		Short: "Fungible token ledger over a packed word store",
		Long: `Operates a single fungible token whose balances, allowances and metadata
live as packed 32-byte cells in a local LevelDB word store. Mutating commands
run through the call router, so every command is atomic.`,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	var (
		dbPath       string
		logLevel     string
		debugModules string
		fromAddr     string
	)

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "tokenledger.db", "Path to the LevelDB word store")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (trace|debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&debugModules, "debug-modules", "", "Comma-separated log modules to enable")

	setup := func() (*router.Router, *storage.WordStore) {
		log.InitLogger(logLevel)
		log.EnableModules(debugModules)
		ws, err := storage.Open(dbPath)
		if err != nil {
			fmt.Printf("Failed to open word store: %v\n", err)
			os.Exit(1)
		}
		return router.New(ws), ws
	}

	var initCmd = &cobra.Command{
		Use:   "init <spec.json>",
		Short: "Deploy the token described by a JSON spec file",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Printf("Failed to read token spec: %v\n", err)
				os.Exit(1)
			}
			var spec TokenSpec
			if err := json.Unmarshal(raw, &spec); err != nil {
				fmt.Printf("Failed to parse token spec: %v\n", err)
				os.Exit(1)
			}
			supply, err := uint256.FromDecimal(spec.InitialSupply)
			if err != nil {
				fmt.Printf("Bad initial supply %q: %v\n", spec.InitialSupply, err)
				os.Exit(1)
			}

			r, ws := setup()
			defer ws.Close()
			if err := r.Deploy(spec.Deployer, supply, spec.Name, spec.Symbol); err != nil {
				fmt.Printf("Deploy failed: %s\n", ledger.GetErrorName(err))
				os.Exit(1)
			}
			fmt.Printf("Deployed %s (%s), supply %s, deployer %s\n",
				spec.Name, spec.Symbol, supply.Dec(), spec.Deployer.Hex())
		},
	}

	var infoCmd = &cobra.Command{
		Use:   "info",
		Short: "Show token metadata and total supply",
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			fmt.Printf("Name:         %s\n", callString(r, router.SigName))
			fmt.Printf("Symbol:       %s\n", callString(r, router.SigSymbol))
			fmt.Printf("Decimals:     %s\n", callAmount(r, router.EncodeCall(router.SigDecimals)).Dec())
			fmt.Printf("Total supply: %s\n", callAmount(r, router.EncodeCall(router.SigTotalSupply)).Dec())
		},
	}

	var balanceCmd = &cobra.Command{
		Use:   "balance <address>",
		Short: "Show the balance of an account",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			holder := common.HexToAddress(args[0])
			bal := callAmount(r, router.EncodeCall(router.SigBalanceOf, router.AddressWord(holder)))
			fmt.Printf("%s: %s\n", holder.Hex(), bal.Dec())
		},
	}

	var allowanceCmd = &cobra.Command{
		Use:   "allowance <owner> <spender>",
		Short: "Show how much a spender may move on behalf of an owner",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			owner := common.HexToAddress(args[0])
			spender := common.HexToAddress(args[1])
			a := callAmount(r, router.EncodeCall(router.SigAllowance,
				router.AddressWord(owner), router.AddressWord(spender)))
			fmt.Printf("%s -> %s: %s\n", owner.Hex(), spender.Hex(), a.Dec())
		},
	}

	var transferCmd = &cobra.Command{
		Use:   "transfer <recipient> <amount>",
		Short: "Move tokens from the --from account to a recipient",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			mutate(r, fromAddr, router.EncodeCall(router.SigTransfer,
				router.AddressWord(common.HexToAddress(args[0])),
				router.AmountWord(parseAmount(args[1]))))
			fmt.Printf("Transferred %s to %s\n", args[1], common.HexToAddress(args[0]).Hex())
		},
	}

	var approveCmd = &cobra.Command{
		Use:   "approve <spender> <amount>",
		Short: "Set the allowance granted by the --from account to a spender",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			mutate(r, fromAddr, router.EncodeCall(router.SigApprove,
				router.AddressWord(common.HexToAddress(args[0])),
				router.AmountWord(parseAmount(args[1]))))
			fmt.Printf("Approved %s for %s\n", args[1], common.HexToAddress(args[0]).Hex())
		},
	}

	var transferFromCmd = &cobra.Command{
		Use:   "transfer-from <owner> <recipient> <amount>",
		Short: "Spend an allowance: the --from account moves an owner's tokens",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			r, ws := setup()
			defer ws.Close()
			mutate(r, fromAddr, router.EncodeCall(router.SigTransferFrom,
				router.AddressWord(common.HexToAddress(args[0])),
				router.AddressWord(common.HexToAddress(args[1])),
				router.AmountWord(parseAmount(args[2]))))
			fmt.Printf("Transferred %s from %s to %s\n", args[2],
				common.HexToAddress(args[0]).Hex(), common.HexToAddress(args[1]).Hex())
		},
	}

	for _, c := range []*cobra.Command{transferCmd, approveCmd, transferFromCmd} {
		c.Flags().StringVar(&fromAddr, "from", "", "Calling account (hex address)")
		c.MarkFlagRequired("from")
	}

	var eventsCmd = &cobra.Command{
		Use:   "events",
		Short: "List the event journal in emission order",
		Run: func(cmd *cobra.Command, args []string) {
			_, ws := setup()
			defer ws.Close()
			events, err := ws.Journal().All()
			if err != nil {
				fmt.Printf("Failed to read journal: %v\n", err)
				os.Exit(1)
			}
			for i, ev := range events {
				fmt.Printf("%6d  %s\n", i, ev.String())
			}
			fmt.Printf("%d event(s)\n", len(events))
		},
	}

	var versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("tokenledger %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}

	rootCmd.AddCommand(initCmd, infoCmd, balanceCmd, allowanceCmd,
		transferCmd, approveCmd, transferFromCmd, eventsCmd, versionCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func parseAmount(s string) *uint256.Int {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		fmt.Printf("Bad amount %q: %v\n", s, err)
		os.Exit(1)
	}
	return v
}

func mutate(r *router.Router, from string, calldata []byte) {
	if _, err := r.Call(common.HexToAddress(from), calldata); err != nil {
		fmt.Printf("Call aborted: %s\n", ledger.GetErrorName(err))
		os.Exit(1)
	}
}

func callAmount(r *router.Router, calldata []byte) *uint256.Int {
	out, err := r.Call(common.Address{}, calldata)
	if err != nil {
		fmt.Printf("Call failed: %s\n", ledger.GetErrorName(err))
		os.Exit(1)
	}
	return new(uint256.Int).SetBytes(out)
}

func callString(r *router.Router, sig string) string {
	out, err := r.Call(common.Address{}, router.EncodeCall(sig))
	if err != nil || len(out) != 96 {
		fmt.Printf("Call failed: %v\n", err)
		os.Exit(1)
	}
	n := int(out[63])
	return string(out[64 : 64+n])
}
