/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/stackshift/stack-migrator/cmd"

func main() {
	cmd.Execute()
}
