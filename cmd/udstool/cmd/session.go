package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.Flags().Bool("hold", false, "keep the session alive until interrupted")
}

var sessionCmd = &cobra.Command{
	Use:   "session <level>",
	Short: "switch diagnostic session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level, err := parseHexID(args[0])
		if err != nil {
			return err
		}
		hold, err := cmd.Flags().GetBool("hold")
		if err != nil {
			return err
		}

		c, conn, err := initClient(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()
		if err := c.DiagnosticSessionControl(ctx, byte(level)); err != nil {
			return err
		}
		log.Printf("session 0x%02X active", level)
		if !hold {
			return nil
		}

		// S3 timeout is 5s, ping well inside it
		t := time.NewTicker(2 * time.Second)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-t.C:
				if err := c.TesterPresent(ctx); err != nil {
					return err
				}
			}
		}
	},
}
