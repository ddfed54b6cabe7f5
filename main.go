package main

import "github.com/quochuy242/AdidasScraper/cmd"

func main() {
	cmd.Execute()
}
