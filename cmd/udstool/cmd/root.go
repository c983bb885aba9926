package cmd

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/openveh/uds"
	"github.com/openveh/uds/adapter"
	"github.com/openveh/uds/pkg/client"
)

var rootCmd = &cobra.Command{
	Use:          "udstool",
	Short:        "UDS diagnostic swiss army tool",
	Long:         `Talk ISO-14229 to an ECU through a serial ISO-TP adapter`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute(ctx context.Context) {
	rootCmd.ExecuteContext(ctx)
}

const (
	flagPort     = "port"
	flagBaudrate = "baudrate"
	flagDebug    = "debug"
	flagAdapter  = "adapter"
	flagTxID     = "txid"
	flagRxID     = "rxid"
)

func init() {
	log.SetFlags(log.Lshortfile | log.LstdFlags)

	pf := rootCmd.PersistentFlags()
	pf.StringP(flagPort, "p", "*", "com-port, * = select interactively")
	pf.IntP(flagBaudrate, "b", 115200, "baudrate")
	pf.BoolP(flagDebug, "d", false, "debug mode")
	pf.StringP(flagAdapter, "a", "ELM327", "what adapter to use")
	pf.Uint32(flagTxID, 0x7E0, "CAN id requests are sent on")
	pf.Uint32(flagRxID, 0x7E8, "CAN id responses arrive on")
}

// initConnection builds and opens a connection from the persistent flags.
// The caller owns the returned connection and must Close it.
func initConnection(cmd *cobra.Command) (*uds.Connection, error) {
	port, err := cmd.Flags().GetString(flagPort)
	if err != nil {
		return nil, err
	}
	baudrate, err := cmd.Flags().GetInt(flagBaudrate)
	if err != nil {
		return nil, err
	}
	debug, err := cmd.Flags().GetBool(flagDebug)
	if err != nil {
		return nil, err
	}
	adapterName, err := cmd.Flags().GetString(flagAdapter)
	if err != nil {
		return nil, err
	}
	txid, err := cmd.Flags().GetUint32(flagTxID)
	if err != nil {
		return nil, err
	}
	rxid, err := cmd.Flags().GetUint32(flagRxID)
	if err != nil {
		return nil, err
	}

	if port == "*" {
		port, err = selectPort()
		if err != nil {
			return nil, err
		}
	}

	sock, err := adapter.New(adapterName, &adapter.Config{
		Port:         port,
		PortBaudrate: baudrate,
		Debug:        debug,
		OnMessage:    func(msg string) { log.Println(msg) },
		OnError:      func(err error) { log.Println(err) },
	})
	if err != nil {
		return nil, err
	}

	conn := uds.NewConnection(sock, "can0", rxid, txid)
	if err := conn.Open(); err != nil {
		return nil, err
	}
	return conn, nil
}

func initClient(cmd *cobra.Command) (*client.Client, *uds.Connection, error) {
	conn, err := initConnection(cmd)
	if err != nil {
		return nil, nil, err
	}
	return client.New(conn), conn, nil
}

func selectPort() (string, error) {
	ports, err := adapter.PortNames()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", fmt.Errorf("no serial ports found")
	}
	prompt := promptui.Select{
		Label:    "Select com port",
		HideHelp: true,
		Items:    ports,
	}
	_, result, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}
	return result, nil
}

func parseHexID(s string) (uint64, error) {
	if len(s) > 2 && (s[:2] == "0x" || s[:2] == "0X") {
		s = s[2:]
	}
	return strconv.ParseUint(s, 16, 64)
}
