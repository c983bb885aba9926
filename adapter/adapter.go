package adapter

import (
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/openveh/uds"
)

// Config carries everything an adapter needs to reach its hardware.
type Config struct {
	Port         string
	PortBaudrate int
	Debug        bool
	OnMessage    func(string)
	OnError      func(error)
}

type Info struct {
	Name               string
	Description        string
	RequiresSerialPort bool
	New                func(*Config) (uds.Socket, error)
}

func (i *Info) String() string {
	return fmt.Sprintf("%s | %s, requires serial port: %v", i.Name, i.Description, i.RequiresSerialPort)
}

var adapterMap = make(map[string]*Info)

func Register(info *Info) error {
	if _, found := adapterMap[info.Name]; found {
		return fmt.Errorf("adapter %s already registered", info.Name)
	}
	adapterMap[info.Name] = info
	return nil
}

// New creates the named adapter. Lookup is case insensitive.
func New(name string, cfg *Config) (uds.Socket, error) {
	if cfg.OnMessage == nil {
		cfg.OnMessage = func(msg string) { log.Println(msg) }
	}
	if cfg.OnError == nil {
		cfg.OnError = func(err error) { log.Println(err) }
	}
	for _, info := range adapterMap {
		if strings.EqualFold(info.Name, name) {
			return info.New(cfg)
		}
	}
	return nil, fmt.Errorf("unknown adapter %q", name)
}

func Names() []string {
	var out []string
	for name := range adapterMap {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i]) < strings.ToLower(out[j]) })
	return out
}

func List() []Info {
	var out []Info
	for _, info := range adapterMap {
		out = append(out, *info)
	}
	sort.Slice(out, func(i, j int) bool { return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name) })
	return out
}
