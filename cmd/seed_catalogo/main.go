// seed_catalogo genera un script SQL para cargar el catálogo de productos a partir de la hoja
// exportada por el sistema anterior (CSV separado por ';' en ISO-8859-1).
//
// Uso: go run ./cmd/seed_catalogo [ruta/catalogo.csv] [salida.sql]
// Por defecto lee catalogo.csv del directorio actual y escribe en stdout.
//
// Columnas: codigo;nombre;categoria;unidad_medida;stock_minimo;ubicacion
// La primera fila es el encabezado. Los productos se insertan con stock 0: las existencias
// iniciales se cargan después como movimientos de entrada.
package main

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

func main() {
	csvPath := "catalogo.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	f, err := os.Open(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	rows, skipped, err := parseCatalog(transform.NewReader(f, charmap.ISO8859_1.NewDecoder()))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}
	for _, s := range skipped {
		fmt.Fprintf(os.Stderr, "omitida: %s\n", s)
	}

	var out io.Writer = os.Stdout
	if len(os.Args) > 2 {
		w, err := os.Create(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crear salida: %v\n", err)
			os.Exit(1)
		}
		defer w.Close()
		out = w
	}
	if err := writeSQL(out, rows); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "%d productos, %d filas omitidas\n", len(rows), len(skipped))
}
