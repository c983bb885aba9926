package cmd

import (
	"log"
	"time"

	"github.com/spf13/cobra"

	"github.com/openveh/uds"
)

func init() {
	rootCmd.AddCommand(monitorCmd)
}

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "print incoming payloads until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		conn, err := initConnection(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()
		for {
			select {
			case <-ctx.Done():
				return nil
			case err := <-conn.Err():
				return err
			default:
			}
			frame, err := conn.WaitFrame(200 * time.Millisecond)
			if err != nil {
				return err
			}
			if frame == nil {
				continue
			}
			log.Println(uds.ColorDump("in", frame))
		}
	},
}
