package main

import (
	"os"

	"github.com/dmitrijs2005/workcredits/internal/client/cli"
)

func main() {
	os.Exit(cli.Execute())
}
