package cmd

import (
	"errors"
	"log"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/openveh/uds"
)

func init() {
	rootCmd.AddCommand(dtcCmd)
	dtcCmd.AddCommand(dtcClearCmd)
}

var dtcCmd = &cobra.Command{
	Use:   "dtc",
	Short: "show stored trouble codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, conn, err := initClient(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		dtcs, err := c.ReadDTCs(cmd.Context(), 0xFF)
		if err != nil {
			var nre *uds.NegativeResponseError
			if errors.As(err, &nre) {
				log.Printf("server refused: %s", nre.Response.CodeName)
				return nil
			}
			return err
		}
		if len(dtcs) == 0 {
			log.Println("no trouble codes stored")
			return nil
		}
		red := color.New(color.FgRed).SprintfFunc()
		for _, d := range dtcs {
			code := d.Code()
			if d.Confirmed {
				code = red("%s", code)
			}
			log.Printf("%s status=0x%02X severity=%s", code, d.Status(), d.Severity)
		}
		return nil
	},
}

var dtcClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "clear all trouble codes",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, conn, err := initClient(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		if err := c.ClearDTCs(cmd.Context(), 0xFFFFFF); err != nil {
			return err
		}
		log.Println("trouble codes cleared")
		return nil
	},
}
