package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/VishruthaAcharya/pest-detection-and-pesticide-reccomendation-system/server"
	"github.com/akamensky/argparse"
	"github.com/coreos/go-systemd/daemon"
)

func main() {
	parser := argparse.NewParser("pestserver", "Pest detection and pesticide recommendation server")
	configFilePath := parser.String("c", "config", &argparse.Options{Help: "Config file path", Default: "pestserver.json"})
	err := parser.Parse(os.Args)
	if err != nil {
		fmt.Print(parser.Usage(err))
		os.Exit(1)
	}

	s, err := server.NewServer(*configFilePath)
	if err != nil {
		fmt.Printf("Failed to start server: %v\n", err)
		os.Exit(1)
	}
	s.ListenForKillSignals()

	// Tell systemd that we're alive
	daemon.SdNotify(false, daemon.SdNotifyReady)

	if s.Config.Hostname != "" {
		home, _ := os.UserHomeDir()
		err = s.ListenHTTPS(filepath.Join(home, ".local", "share", "certmagic"))
	} else {
		err = s.ListenHTTP(fmt.Sprintf(":%v", s.Config.HTTPPort))
	}
	if err != nil {
		fmt.Printf("%v\n", err)
	}
}
