package main

import "github.com/bryhearnchi-bot/kgaytripguides-sub004/cmd/console/commands"

func main() {
	commands.Execute()
}
