// seed genera un script SQL idempotente con el catálogo inicial (productos y bodegas)
// a partir de un CSV exportado del sistema anterior.
//
// Uso: go run ./cmd/seed [-encoding auto|utf8|latin1] [-out archivo.sql] catalogo.csv
// Sin -out escribe en stdout.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
)

func main() {
	encoding := flag.String("encoding", "auto", "codificación del CSV: auto, utf8 o latin1")
	outPath := flag.String("out", "", "archivo SQL de salida (por defecto stdout)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Uso: seed [-encoding auto|utf8|latin1] [-out archivo.sql] catalogo.csv")
		os.Exit(2)
	}

	raw, err := os.ReadFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	r, err := decodeReader(raw, *encoding)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Codificación: %v\n", err)
		os.Exit(1)
	}

	cat, err := parseCatalog(r)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Procesar CSV: %v\n", err)
		os.Exit(1)
	}

	var out io.Writer = os.Stdout
	if *outPath != "" {
		f, err := os.Create(*outPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	if err := writeSQL(out, cat); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "Generado: %d productos, %d bodegas\n", len(cat.products), len(cat.warehouses))
}
