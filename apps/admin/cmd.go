package main

import (
	"errors"
	"flag"
	"fmt"
	"syscall"

	"golang.org/x/term"

	"github.com/somahub/portal/core/lms"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	gateway *lms.Client
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  checklms - ping the LMS site and print its info")
	fmt.Println("  token -username USERNAME - exchange credentials for a web-service token")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	tokenCmd := flag.NewFlagSet("token", flag.ExitOnError)
	tokenUname := tokenCmd.String("username", "", "The user's username. The password will be prompted next.")

	switch args[1] {
	case "checklms":
		return cli.checkLMS()
	case "token":
		if err := tokenCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *tokenUname == "" {
			tokenCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			tokenCmd.Usage()
			return errHelp
		}
		return cli.token(*tokenUname, string(pwd))
	default:
		cli.printUsage()
		return errHelp
	}
}
