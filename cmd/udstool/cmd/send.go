package cmd

import (
	"encoding/hex"
	"log"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/openveh/uds"
)

func init() {
	rootCmd.AddCommand(sendCmd)
}

var sendCmd = &cobra.Command{
	Use:   "send <hex payload>",
	Short: "send a raw service payload and print the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		payload, err := hex.DecodeString(strings.ReplaceAll(args[0], " ", ""))
		if err != nil {
			return err
		}
		conn, err := initConnection(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := conn.SendRaw(payload); err != nil {
			return err
		}
		log.Println(uds.ColorDump("out", payload))

		frame, err := conn.MustWaitFrame(2 * time.Second)
		if err != nil {
			return err
		}
		log.Println(uds.ColorDump("in", frame))
		resp := uds.ParseResponse(uds.ISO14229(), frame)
		if resp.Valid {
			log.Println(resp.String())
		}
		return nil
	},
}
