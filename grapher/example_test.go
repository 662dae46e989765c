// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package grapher_test

import (
	"bytes"
	"fmt"
	"log"

	"github.com/GermanBionicSystems/thermalgrapher/grapher"
)

func Example() {
	// Use a thermal.Dev to print on paper. A buffer shows what is sent.
	var printer bytes.Buffer
	g, err := grapher.New(&printer, &grapher.Opts{Min: 0, Max: 100})
	if err != nil {
		log.Fatal(err)
	}
	for _, v := range []int{0, 100, 50} {
		if err := g.RecordValue(v); err != nil {
			log.Fatal(err)
		}
		col, _ := g.Last()
		fmt.Printf("value=%d column=%d sent=%d\n", v, col, printer.Len())
	}
	fmt.Printf("header=% x\n", printer.Bytes()[:grapher.HeaderSize])
	// Output:
	// value=0 column=2 sent=0
	// value=100 column=382 sent=772
	// value=50 column=192 sent=1544
	// header=12 2a 10 30
}
