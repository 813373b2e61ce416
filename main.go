package main

import (
	_ "github.com/joho/godotenv/autoload"

	"github.com/Zachkp/kussetech/cmd"
)

func main() {
	cmd.Execute()
}
