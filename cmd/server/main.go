package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/luxigo/dynlist/internal/core"
	"github.com/luxigo/dynlist/internal/network"
	"github.com/luxigo/dynlist/internal/utils"
)

func main() {
	configPathPtr := flag.String("config", "", "Path of the YAML configuration file")
	portPtr := flag.Int("port", 0, "Port of server")
	debugPtr := flag.Bool("debug", false, "Print debug logs to the console")
	flag.Parse()

	// Load configurations
	configPath := *configPathPtr
	if configPath == "" {
		var err error
		configPath, err = utils.DefaultConfigPath()
		if err != nil {
			utils.NewLogger("", true).Error("Error getting home directory: " + err.Error())
			os.Exit(1)
		}
	}
	config, configErr := utils.LoadConfig(configPath)

	logFile, debug := "", *debugPtr
	if config != nil {
		logFile, debug = config.LogFile, config.Debug || *debugPtr
	}
	logger := utils.NewLogger(logFile, debug)
	if configErr != nil {
		logger.Error("Error loading configuration: " + configErr.Error())
		os.Exit(1)
	}
	logger.Info("Loaded configurations from " + configPath)

	if *portPtr != 0 {
		config.Port = *portPtr
	}
	logger.Infof("Port assigned: %d", config.Port)

	handler := core.NewCommandHandler(core.NewStore(config.MaxLists))
	server, err := network.NewServer(config.Port, handler)
	if err != nil {
		logger.Error("Server creation failed: " + err.Error())
		os.Exit(1)
	}
	if err := server.Listen(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-signals
		logger.Info("Received " + sig.String() + ", shutting down")
		server.Close()
	}()

	if err := server.Serve(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
