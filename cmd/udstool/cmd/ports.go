package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/openveh/uds/adapter"
)

func init() {
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(adaptersCmd)
}

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "list serial ports",
	RunE: func(cmd *cobra.Command, args []string) error {
		ports, err := adapter.PortDetails()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			log.Println("no serial ports found")
			return nil
		}
		for _, p := range ports {
			log.Println(p)
		}
		return nil
	},
}

var adaptersCmd = &cobra.Command{
	Use:   "adapters",
	Short: "list supported adapters",
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, info := range adapter.List() {
			log.Println(info.String())
		}
		return nil
	},
}
