// smartlog runs the SmartLOG API and its companion tools.
//
// Usage:
//
//	smartlog serve [--plan=<maintenance.yaml>]
//	smartlog token --owner=<id> [--role=admin] [--ttl=24h]
//	smartlog watch [--owner=<id>] [--interval=5s]
//	smartlog simulate [--couriers=3] [--deliveries=12]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
