package main

import "gamecatalog/cmd/catalog-cli/cmd"

func main() {
	cmd.Execute()
}
