package store

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/parquet-go/parquet-go/compress/zstd"
)

// BenchSchema is written into each file's key/value metadata.
const BenchSchema = "bench_row_v1"

// BenchRow is one search measurement: a single position searched once at a
// given depth, with or without alpha-beta pruning.
//
// Position uses the board text format with rows joined by '/', top row first.
// Agree reports whether the pruned and unpruned searches of the same position
// returned the same value.
type BenchRow struct {
	RunID         string `parquet:"run_id,dict"`
	Position      string `parquet:"position"`
	Piece         string `parquet:"piece,dict"`
	Depth         int32  `parquet:"depth"`
	Pruned        bool   `parquet:"pruned"`
	Column        int32  `parquet:"column"`
	Value         int64  `parquet:"value"`
	Nodes         int64  `parquet:"nodes"`
	ElapsedMicros int64  `parquet:"elapsed_micros"`
	Agree         bool   `parquet:"agree"`
}

func writeOptions() []parquet.WriterOption {
	return []parquet.WriterOption{
		parquet.Compression(&zstd.Codec{Level: zstd.SpeedBetterCompression}),
		parquet.KeyValueMetadata("schema", BenchSchema),
	}
}

// WriteBenchParquet writes rows to outPath via a temp file and rename.
func WriteBenchParquet(outPath string, rows []BenchRow) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	tmpPath := outPath + ".tmp"
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writeOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename parquet: %w", err)
	}
	return nil
}

// WriteBenchParquetAtomic writes a Parquet file into outDir/tmp and then
// moves it into outDir, so readers of outDir never see a partial file.
// The returned path is the final file path.
func WriteBenchParquetAtomic(outDir string, rows []BenchRow) (string, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("no rows to write")
	}
	tmpDir := filepath.Join(outDir, "tmp")
	if err := os.MkdirAll(tmpDir, 0o755); err != nil {
		return "", fmt.Errorf("create tmp dir: %w", err)
	}

	name := fmt.Sprintf("bench_%d.parquet", time.Now().UnixNano())
	finalPath := filepath.Join(outDir, name)
	tmpPath := filepath.Join(tmpDir, name+".tmp")
	_ = os.Remove(tmpPath)

	if err := parquet.WriteFile(tmpPath, rows, writeOptions()...); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write parquet: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename parquet: %w", err)
	}
	return finalPath, nil
}

// ReadBenchParquet loads every row of a bench file. Files written with a
// different schema tag are rejected.
func ReadBenchParquet(path string) ([]BenchRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, err
	}
	pf, err := parquet.OpenFile(f, stat.Size())
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}
	if schema, ok := pf.Lookup("schema"); ok && schema != BenchSchema {
		return nil, fmt.Errorf("%s: unexpected schema %q", path, schema)
	}

	reader := parquet.NewGenericReader[BenchRow](pf)
	defer reader.Close()

	rows := make([]BenchRow, reader.NumRows())
	read := 0
	for read < len(rows) {
		n, err := reader.Read(rows[read:])
		read += n
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read parquet: %w", err)
		}
	}
	return rows[:read], nil
}
