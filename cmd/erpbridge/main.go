// Command erpbridge syncs ERP inventory to a resource-sharing ledger.
package main

import (
	"os"

	"github.com/roach88/erpbridge/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
