// Package main is the entry point of the microblog application.
// It sets up and starts the server by calling initialization functions from the internal package.
package main

import (
	"microblog/internal"
)

func main() {
	internal.Init()
}
