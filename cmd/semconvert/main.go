// semconvert converts RDF documents into tables, charts and graphs.
package main

import (
	"os"

	"github.com/hupe1980/semconvert/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
