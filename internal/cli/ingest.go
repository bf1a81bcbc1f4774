package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/veredicto/veredicto/internal/model"
)

// ingestCmd represents the ingest command
var ingestCmd = &cobra.Command{
	Use:   "ingest [file]",
	Short: "Load scraped sources into the work queue",
	Long: `Ingest reads sources as JSON and appends them to the durable work
queue. Input is either a JSON array of source objects or one JSON object
per line, from a file or stdin.

Each source needs at least "platform" and "content"; "id", "author",
"url", and "timestamp" are optional. Sources without an id get one
assigned.

Example:
  veredicto ingest sources.json
  scraper --out json | veredicto ingest`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if len(args) == 1 {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening input: %w", err)
		}
		defer func() { _ = f.Close() }()
		in = f
	}

	sources, err := decodeSources(in)
	if err != nil {
		return err
	}
	if len(sources) == 0 {
		return fmt.Errorf("no sources in input")
	}

	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	var stored int
	for _, src := range sources {
		if src.ID == "" {
			src.ID = uuid.NewString()
		}
		if err := st.InsertSource(src); err != nil {
			fmt.Fprintf(os.Stderr, "skipped %s: %v\n", src.ID, err)
			continue
		}
		stored++
	}

	fmt.Printf("Queued %d of %d sources\n", stored, len(sources))
	return nil
}

// decodeSources accepts a JSON array or a stream of JSON objects.
func decodeSources(in io.Reader) ([]model.Source, error) {
	data, err := io.ReadAll(in)
	if err != nil {
		return nil, fmt.Errorf("reading input: %w", err)
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, nil
	}

	if data[0] == '[' {
		var sources []model.Source
		if err := json.Unmarshal(data, &sources); err != nil {
			return nil, fmt.Errorf("decoding source array: %w", err)
		}
		return sources, nil
	}

	var sources []model.Source
	dec := json.NewDecoder(bytes.NewReader(data))
	for {
		var src model.Source
		if err := dec.Decode(&src); errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, fmt.Errorf("decoding source: %w", err)
		}
		sources = append(sources, src)
	}
	return sources, nil
}
