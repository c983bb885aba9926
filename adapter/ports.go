package adapter

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"go.bug.st/serial/enumerator"
)

// portInfo resolves the configured port name against the ports present
// on the machine. Passing "*" lists every discovered port instead.
func portInfo(portName string, output func(string)) (string, error) {
	if runtime.GOOS == "windows" {
		portName = strings.ToUpper(portName)
	}
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return "", err
	}
	if len(ports) == 0 {
		return "", errors.New("no serial ports found")
	}
	if portName == "*" {
		output("discovered com ports:")
	}
	for _, port := range ports {
		if port.Name == portName || portName == "*" {
			output(fmt.Sprintf("port: %s", port.Name))
			if port.IsUSB {
				output(fmt.Sprintf("   USB ID      %s:%s", port.VID, port.PID))
				output(fmt.Sprintf("   USB serial  %s", port.SerialNumber))
			}
			if portName == "*" {
				continue
			}
			return portName, nil
		}
	}
	return "", errors.New("no device selected")
}

// PortNames returns the names of every serial port on the machine.
func PortNames() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, port := range ports {
		out = append(out, port.Name)
	}
	return out, nil
}

// PortDetails returns a printable description per discovered port.
func PortDetails() ([]string, error) {
	ports, err := enumerator.GetDetailedPortsList()
	if err != nil {
		return nil, err
	}
	var out []string
	for _, port := range ports {
		desc := port.Name
		if port.IsUSB {
			desc += fmt.Sprintf(" [USB %s:%s serial %s]", port.VID, port.PID, port.SerialNumber)
		}
		out = append(out, desc)
	}
	return out, nil
}
