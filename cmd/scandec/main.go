package main

import "github.com/MeKo-Tech/scandec/cmd/scandec/cmd"

func main() {
	cmd.Execute()
}
