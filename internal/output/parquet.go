package output

import (
	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/source"
	"github.com/xitongsys/parquet-go/writer"

	"github.com/pgnsieve/pgnsieve/internal/chess"
	"github.com/pgnsieve/pgnsieve/internal/processing"
)

// MatchRecord is one row of the match report: who played, what
// matched and the duplicate-detection hashes, in a columnar form that
// downstream analysis can query without re-parsing PGN.
type MatchRecord struct {
	White          string `parquet:"name=white, type=BYTE_ARRAY, convertedtype=UTF8"`
	Black          string `parquet:"name=black, type=BYTE_ARRAY, convertedtype=UTF8"`
	Event          string `parquet:"name=event, type=BYTE_ARRAY, convertedtype=UTF8"`
	Date           string `parquet:"name=date, type=BYTE_ARRAY, convertedtype=UTF8"`
	Result         string `parquet:"name=result, type=BYTE_ARRAY, convertedtype=UTF8"`
	ECO            string `parquet:"name=eco, type=BYTE_ARRAY, convertedtype=UTF8"`
	PlyCount       int32  `parquet:"name=ply_count, type=INT32"`
	FinalHash      int64  `parquet:"name=final_hash, type=INT64"`
	CumulativeHash int64  `parquet:"name=cumulative_hash, type=INT64"`
	PatternLabel   string `parquet:"name=pattern_label, type=BYTE_ARRAY, convertedtype=UTF8"`
	EndingSpec     string `parquet:"name=ending_spec, type=BYTE_ARRAY, convertedtype=UTF8"`
	FiftyMoveRule  bool   `parquet:"name=fifty_move_rule, type=BOOLEAN"`
	Repetition     bool   `parquet:"name=repetition, type=BOOLEAN"`
	Underpromotion bool   `parquet:"name=underpromotion, type=BOOLEAN"`
}

// ParquetReporter appends match records to a Parquet file.
type ParquetReporter struct {
	fw source.ParquetFile
	pw *writer.ParquetWriter
}

// NewParquetReporter creates the report file. Close must be called to
// finish the file; an unclosed report is unreadable.
func NewParquetReporter(path string) (*ParquetReporter, error) {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return nil, err
	}
	pw, err := writer.NewParquetWriter(fw, new(MatchRecord), 1)
	if err != nil {
		fw.Close()
		return nil, err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	return &ParquetReporter{fw: fw, pw: pw}, nil
}

// Report appends one replayed game.
func (pr *ParquetReporter) Report(res *processing.Result) error {
	game := res.Game
	return pr.pw.Write(MatchRecord{
		White:          game.Tag(chess.TagWhite),
		Black:          game.Tag(chess.TagBlack),
		Event:          game.Tag(chess.TagEvent),
		Date:           game.Tag(chess.TagDate),
		Result:         gameResult(game),
		ECO:            game.Tag(chess.TagECO),
		PlyCount:       int32(game.PlyCount()),
		FinalHash:      int64(game.FinalHash),
		CumulativeHash: int64(game.CumulativeHash),
		PatternLabel:   res.PatternLabel,
		EndingSpec:     res.EndingSpec,
		FiftyMoveRule:  res.FiftyMoveRule,
		Repetition:     res.Repetition,
		Underpromotion: res.Underpromotion,
	})
}

// Close flushes the row groups and finishes the file.
func (pr *ParquetReporter) Close() error {
	if err := pr.pw.WriteStop(); err != nil {
		pr.fw.Close()
		return err
	}
	return pr.fw.Close()
}
