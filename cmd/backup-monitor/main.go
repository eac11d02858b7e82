// Package main is the entry point for backup-monitor.
package main

import "github.com/tbrooke/backup-monitor/internal/cli"

func main() {
	cli.Execute()
}
