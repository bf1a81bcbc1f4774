package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// mineCmd represents the mine command
var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Extract entity facts from settled claims",
	Long: `Mine visits verified and debunked claims the miner has not seen yet and
distills them into durable facts about named entities. Mined facts feed
the context of future verifications.

The continuous worker runs this on a timer; the command exists for
catch-up runs and debugging.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		mined, err := a.miner.MineOnce(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Mined %d facts\n", mined)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mineCmd)
}
