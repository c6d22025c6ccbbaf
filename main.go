package main

import "github.com/hardwaylabs/jwt-hack/cmd"

func main() {
	cmd.Execute()
}
