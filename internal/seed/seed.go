// Package seed carga usuarios en bloque desde un CSV a través del cliente REST.
package seed

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/usuarios-crud/internal/client"
)

// Columnas esperadas, en orden: nome;email;senha;endereco;telefone.
var columns = []string{
	client.FieldNome,
	client.FieldEmail,
	client.FieldSenha,
	client.FieldEndereco,
	client.FieldTelefone,
}

// Row fila leída del CSV (línea 1-based en el archivo).
type Row struct {
	Line    int
	Payload client.Payload
}

// ReadOptions formato de entrada.
type ReadOptions struct {
	Latin1 bool // decodificar ISO-8859-1
	Comma  rune // separador; ';' por defecto
}

// ReadCSV lee todas las filas. Una cabecera cuyo primer campo sea "nome" se salta. Las filas
// deben tener 3 a 5 columnas; endereco y telefone vacíos no se envían.
func ReadCSV(r io.Reader, opts ReadOptions) ([]Row, error) {
	if opts.Latin1 {
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	}
	cr := csv.NewReader(r)
	cr.Comma = ';'
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var rows []Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("leer CSV: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if len(rows) == 0 && line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), client.FieldNome) {
			continue
		}
		if len(rec) < 3 || len(rec) > len(columns) {
			return nil, fmt.Errorf("línea %d: se esperaban 3 a %d columnas, hay %d", line, len(columns), len(rec))
		}
		p := client.Payload{}
		for i, v := range rec {
			v = strings.TrimSpace(v)
			if v == "" && i >= 3 {
				continue
			}
			p[columns[i]] = v
		}
		rows = append(rows, Row{Line: line, Payload: p})
	}
	return rows, nil
}

// Result conteo de la carga.
type Result struct {
	Created int
	Skipped int
	Failed  int
}

// Run crea cada fila con api.Create. Un 409 (email ya cadastrado) se cuenta como omitido;
// otros errores del servidor como fallidos. Un error de red aborta la carga.
func Run(ctx context.Context, api client.UserAPI, rows []Row, log zerolog.Logger) (Result, error) {
	var res Result
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		_, err := api.Create(ctx, row.Payload)
		switch {
		case err == nil:
			res.Created++
		case client.IsStatus(err, http.StatusConflict):
			res.Skipped++
			log.Info().Int("line", row.Line).Str("email", row.Payload[client.FieldEmail]).Msg("email já cadastrado, omitido")
		default:
			var se *client.ServerError
			if !errors.As(err, &se) {
				return res, fmt.Errorf("línea %d: %w", row.Line, err)
			}
			res.Failed++
			log.Warn().Int("line", row.Line).Int("status", se.Status).Str("message", client.MessageOf(err)).Msg("fila rechazada")
		}
	}
	return res, nil
}
