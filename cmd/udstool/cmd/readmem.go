package cmd

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/openveh/uds/pkg/bar"
)

const readChunkSize = 0x80

func init() {
	rootCmd.AddCommand(readmemCmd)
	readmemCmd.Flags().StringP("output", "o", "", "write dump to file instead of stdout")
}

var readmemCmd = &cobra.Command{
	Use:   "readmem <hex addr> <hex length>",
	Short: "dump a memory range",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, err := parseHexID(args[0])
		if err != nil {
			return err
		}
		length, err := parseHexID(args[1])
		if err != nil {
			return err
		}
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return err
		}

		c, conn, err := initClient(cmd)
		if err != nil {
			return err
		}
		defer conn.Close()

		ctx := cmd.Context()
		b := bar.New(int(length), "reading")
		dump := make([]byte, 0, length)
		for read := uint64(0); read < length; {
			chunk := length - read
			if chunk > readChunkSize {
				chunk = readChunkSize
			}
			data, err := c.ReadMemoryByAddress(ctx, addr+read, uint32(chunk), 4, 2)
			if err != nil {
				return err
			}
			dump = append(dump, data...)
			read += uint64(len(data))
			b.Add(len(data))
		}
		b.Finish()

		if output != "" {
			if err := os.WriteFile(output, dump, 0644); err != nil {
				return err
			}
			log.Printf("wrote %d bytes to %s", len(dump), output)
			return nil
		}
		for i := 0; i < len(dump); i += 16 {
			end := i + 16
			if end > len(dump) {
				end = len(dump)
			}
			log.Printf("%08X  % X", addr+uint64(i), dump[i:end])
		}
		return nil
	},
}
