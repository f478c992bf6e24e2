package main

import (
	"log"
	"os"

	"github.com/somahub/portal/core"
	"github.com/somahub/portal/core/lms"
	logsvc "github.com/somahub/portal/services/logger"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	conf := core.NewConfig()
	gateway := lms.NewClient(conf, logsvc.NewConsoleLogger(logger))

	// start CLI
	cli := commandLine{gateway: gateway}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			logger.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
