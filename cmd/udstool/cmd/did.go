package cmd

import (
	"log"

	"github.com/spf13/cobra"
)

var didCmd = &cobra.Command{
	Use:   "did",
	Short: "data identifier commands",
}

func init() {
	rootCmd.AddCommand(didCmd)
	didCmd.AddCommand(didReadCmd)
}

var didReadCmd = &cobra.Command{
	Use:   "read <hex id>",
	Short: "read a data identifier",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseHexID(args[0])
		if err != nil {
			return err
		}
		c, conn, err := initClient(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		value, err := c.ReadDID(cmd.Context(), uint16(id))
		if err != nil {
			return err
		}
		switch v := value.(type) {
		case []byte:
			log.Printf("0x%04X: % X (%q)", id, v, printable(v))
		default:
			log.Printf("0x%04X: %v", id, v)
		}
		return nil
	},
}

func printable(data []byte) string {
	out := make([]byte, len(data))
	for i, b := range data {
		if b < 32 || b > 127 {
			out[i] = '.'
			continue
		}
		out[i] = b
	}
	return string(out)
}
