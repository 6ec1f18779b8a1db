package main

import (
	"encoding/hex"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokengov/config"
	"tokengov/gov"
	"tokengov/ledger"
	"tokengov/store"
)

const programName = "tokengovd"

var version = "dev"

var (
	configFile string
	dataDir    string
)

func main() {
	root := &cobra.Command{
		Use:           programName,
		Short:         "token-weighted governance engine",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to TOML config file")
	root.PersistentFlags().StringVar(&dataDir, "data-dir", "", "override database directory")

	root.AddCommand(versionCommand())
	root.AddCommand(runCommand())
	root.AddCommand(applyCommand())
	root.AddCommand(showCommand())
	root.AddCommand(proposalsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s %s\n", programName, version)
		},
	}
}

// openEngine wires config, logging, store and engine for one command run.
func openEngine() (*gov.Engine, *store.Badger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	level, _ := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	st, err := store.OpenBadger(cfg.DataDir)
	if err != nil {
		return nil, nil, err
	}
	program, err := cfg.ProgramAddress()
	if err != nil {
		st.Close()
		return nil, nil, err
	}
	engine := gov.New(program, st, ledger.WallClock{}, ledger.NoopInvoker{}, log)
	return engine, st, nil
}

func parseAddress(s string) (ledger.Address, error) {
	addr, err := ledger.AddressFromString(s)
	if err != nil {
		return ledger.ZeroAddress, fmt.Errorf("bad address %q: %w", s, err)
	}
	return addr, nil
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "open the database and hold it until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, st, err := openEngine()
			if err != nil {
				return err
			}
			defer st.Close()

			fmt.Printf("%s %s running, program %s\n", programName, version, engine.Program())
			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			<-sig
			return nil
		},
	}
}

func applyCommand() *cobra.Command {
	var caller string
	cmd := &cobra.Command{
		Use:   "apply <instruction-hex>",
		Short: "decode and process one wire instruction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, st, err := openEngine()
			if err != nil {
				return err
			}
			defer st.Close()

			callerAddr, err := parseAddress(caller)
			if err != nil {
				return err
			}
			data, err := hex.DecodeString(args[0])
			if err != nil {
				return fmt.Errorf("bad instruction hex: %w", err)
			}
			return engine.Dispatch(callerAddr, data)
		},
	}
	cmd.Flags().StringVar(&caller, "caller", "", "hex address of the calling identity")
	cmd.MarkFlagRequired("caller")
	return cmd
}

func showCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "print a stored record",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "realm <address>",
			Short: "print a realm record",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, st, err := openEngine()
				if err != nil {
					return err
				}
				defer st.Close()
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				r, err := engine.RealmInfo(addr)
				if err != nil {
					return err
				}
				fmt.Printf("name:            %s\n", r.Name)
				fmt.Printf("governance mint: %s\n", r.GovernanceMint)
				if !r.CouncilMint.IsZero() {
					fmt.Printf("council mint:    %s\n", r.CouncilMint)
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "governance <address>",
			Short: "print a governance config",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, st, err := openEngine()
				if err != nil {
					return err
				}
				defer st.Close()
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				g, err := engine.GovernanceInfo(addr)
				if err != nil {
					return err
				}
				fmt.Printf("name:           %s\n", g.Name)
				fmt.Printf("target:         %s\n", g.GovernedTarget)
				fmt.Printf("vote threshold: %d%%\n", g.VoteThreshold)
				fmt.Printf("min hold up:    %d slots\n", g.MinInstructionHoldUpTime)
				fmt.Printf("max voting:     %d slots\n", g.MaxVotingTime)
				fmt.Printf("proposals:      %d\n", g.ProposalCount)
				return nil
			},
		},
		&cobra.Command{
			Use:   "proposal <address>",
			Short: "print a proposal and its state",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				engine, st, err := openEngine()
				if err != nil {
					return err
				}
				defer st.Close()
				addr, err := parseAddress(args[0])
				if err != nil {
					return err
				}
				state, err := engine.ProposalStateInfo(addr)
				if err != nil {
					return err
				}
				fmt.Printf("name:         %s\n", state.Name)
				fmt.Printf("status:       %s\n", state.Status)
				fmt.Printf("description:  %s\n", state.DescriptionLink)
				fmt.Printf("created at:   %d\n", state.CreatedAt)
				fmt.Printf("voting began: %d\n", state.VotingBeganAt)
				fmt.Printf("voting ended: %d\n", state.VotingEndedAt)
				fmt.Printf("transactions: %d queued, %d executed\n",
					state.NumberOfTransactions, state.NumberOfExecutedTransactions)
				return nil
			},
		},
	)
	return cmd
}

func proposalsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "proposals <governance-address>",
		Short: "list proposals under a governance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, st, err := openEngine()
			if err != nil {
				return err
			}
			defer st.Close()
			addr, err := parseAddress(args[0])
			if err != nil {
				return err
			}
			list, err := engine.Proposals(addr)
			if err != nil {
				return err
			}
			for _, p := range list {
				fmt.Println(p)
			}
			return nil
		},
	}
}
