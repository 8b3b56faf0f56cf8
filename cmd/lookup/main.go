// Command lookup is the vehicle lookup wizard: a browser front end, a
// terminal front end and a few one-shot queries against NHTSA's vPIC API.
package main

import (
	"os"

	"github.com/WessleyAI/vehicle-lookup/cmd/lookup/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
