// nisarls prints the raster layers of a NISAR product as JSON, one entry
// per rank >=2 array, using the driver's listing mode.
package main

import (
	"bufio"
	"encoding/json"
	"log"
	"os"

	"github.com/nci/nisar"
)

func ensure(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func main() {

	if len(os.Args) != 2 {
		log.Fatal("Please provide a NISAR connection string or '-' for reading from stdin")
	}

	conn := os.Args[1]

	if conn == "-" {
		scanner := bufio.NewScanner(os.Stdin)
		scanner.Scan()
		conn = scanner.Text()
	}

	if !nisar.Identify(conn) {
		log.Fatalf("%s does not look like a NISAR product", conn)
	}

	ds, err := nisar.Open(conn, nisar.OpenOptions{})
	ensure(err)
	defer ds.Close()

	if !ds.IsListing() {
		log.Fatalf("%s selects a single layer, expected a container reference", conn)
	}

	out, err := json.Marshal(ds.Listing())
	ensure(err)

	_, err = os.Stdout.Write(out)
	ensure(err)
}
