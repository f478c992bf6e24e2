package main

import (
	"context"
	"fmt"
)

func (cli *commandLine) checkLMS() error {
	info, err := cli.gateway.Site(context.Background())
	if err != nil {
		return err
	}
	fmt.Printf("site: %s\nrelease: %s\nservice user: %s (id=%d)\n",
		info.SiteName, info.Release, info.Username, info.UserID)
	return nil
}
