/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import (
	"github.com/ssargent/freyjatree/cmd/freyjatree/cmd"
)

func main() {
	cmd.Execute()
}
