package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	corehojaruta "sedeges/ms_hojas_ruta/internal/core/hojaruta"
)

// previewInput is the envelope form of the preview input. A bare record is
// accepted as well.
type previewInput struct {
	Registro   corehojaruta.Registro          `json:"registro"`
	Respuestas []corehojaruta.RespuestaUnidad `json:"respuestas"`
}

func newPreviewCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "preview [file]",
		Short: "Render the print layout of a routing-slip record",
		Long: "Reads a routing-slip record as JSON from file, or stdin when file is omitted or \"-\",\n" +
			"and prints its print layout. The input may be the bare record or\n" +
			"{\"registro\": {...}, \"respuestas\": [...]} to overlay unit responses.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unsupported format %q, use json or yaml", format)
			}

			in := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("open input: %w", err)
				}
				defer f.Close()
				in = f
			}

			input, err := readPreviewInput(in)
			if err != nil {
				return err
			}

			vista := corehojaruta.BuildPreview(input.Registro, input.Respuestas)
			return writeVista(cmd.OutOrStdout(), vista, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}

func readPreviewInput(r io.Reader) (previewInput, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return previewInput{}, fmt.Errorf("read input: %w", err)
	}

	var input previewInput
	if err := decodeJSON(raw, &input); err != nil {
		return previewInput{}, fmt.Errorf("decode input: %w", err)
	}
	if input.Registro != nil {
		return input, nil
	}

	var registro corehojaruta.Registro
	if err := decodeJSON(raw, &registro); err != nil {
		return previewInput{}, fmt.Errorf("decode input: %w", err)
	}
	return previewInput{Registro: registro}, nil
}

func decodeJSON(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

func writeVista(w io.Writer, vista corehojaruta.Vista, format string) error {
	if format == "yaml" {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(vista); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}
		return enc.Close()
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(vista); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}
