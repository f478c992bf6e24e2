package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) token(uname, pwd string) error {
	tok, err := cli.gateway.Login(context.Background(), uname, pwd)
	if err != nil {
		return err
	}
	fmt.Printf("token: %s\n", tok.Token)
	return nil
}
