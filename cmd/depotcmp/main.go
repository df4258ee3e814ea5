// Command depotcmp compares candidate depots for a scenario file: it
// builds the distance matrices, writes the comparison CSV, prints the
// summary and one tour per depot, and estimates consumption potential.
package main

import (
	"log"
	"os"

	"depot-analysis/internal/config"

	"github.com/urfave/cli"
)

func main() {
	config.LoadDotEnv()

	app := cli.NewApp()
	app.Name = "depotcmp"
	app.Usage = "compare candidate distribution depots"
	app.Commands = []cli.Command{
		compareCommand(),
		routeCommand(),
		potentialCommand(),
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
