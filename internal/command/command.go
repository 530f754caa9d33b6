package command

import (
	commandHandler "intake/internal/command/handler"

	"github.com/google/wire"
	"github.com/spf13/cobra"
)

var ProviderSet = wire.NewSet(
	NewCommand,
	commandHandler.NewKeygenHandler,
	commandHandler.NewTokenHandler,
)

type Command struct {
	keygenCommandHandler *commandHandler.KeygenHandler
	tokenCommandHandler  *commandHandler.TokenHandler
}

// NewCommand .
func NewCommand(
	keygenCommandHandler *commandHandler.KeygenHandler,
	tokenCommandHandler *commandHandler.TokenHandler,
) *Command {
	return &Command{
		keygenCommandHandler: keygenCommandHandler,
		tokenCommandHandler:  tokenCommandHandler,
	}
}

func Register(rootCmd *cobra.Command, newCmd func() (*Command, func(), error)) {
	keygenCmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate a webhook credential and its SHA-256 hash",
		Run: func(cmd *cobra.Command, args []string) {
			command, cleanup, err := newCmd()
			if err != nil {
				panic(err)
			}
			defer cleanup()

			command.keygenCommandHandler.Generate(cmd, args)
		},
	}

	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "mint an admin API bearer token",
		Run: func(cmd *cobra.Command, args []string) {
			command, cleanup, err := newCmd()
			if err != nil {
				panic(err)
			}
			defer cleanup()

			command.tokenCommandHandler.Mint(cmd, args)
		},
	}
	tokenCmd.Flags().String("operator", "admin", "operator name embedded in the token")
	tokenCmd.Flags().Int("hours", 24, "token lifetime in hours")

	rootCmd.AddCommand(keygenCmd, tokenCmd)
}
