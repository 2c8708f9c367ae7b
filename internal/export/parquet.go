package export

import (
	"fmt"
	"io"

	parquetbuffer "github.com/xitongsys/parquet-go-source/buffer"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"critspeed/internal/service"
)

type predictionParquetRow struct {
	Percent          int32   `parquet:"name=percent, type=INT32"`
	SpeedMs          float64 `parquet:"name=speed_ms, type=DOUBLE"`
	SpeedKmh         float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	TimeLimitSeconds float64 `parquet:"name=time_limit_s, type=DOUBLE"`
	PaceSecondsPerKm float64 `parquet:"name=pace_s_per_km, type=DOUBLE"`
	Model            string  `parquet:"name=model, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	CriticalSpeedMs  float64 `parquet:"name=critical_speed_ms, type=DOUBLE"`
	DPrimeMeters     float64 `parquet:"name=d_prime_m, type=DOUBLE"`
}

// MarshalParquet encodes the prediction rows as a snappy-compressed Parquet file.
// Every row repeats CS and D′ so the file stands alone.
func MarshalParquet(data *service.ResultsData) ([]byte, error) {
	fw := parquetbuffer.NewBufferFile()
	pw, err := writer.NewParquetWriter(fw, new(predictionParquetRow), 4)
	if err != nil {
		return nil, fmt.Errorf("creating parquet writer: %w", err)
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY

	for _, r := range data.Rows {
		row := predictionParquetRow{
			Percent:          int32(r.Percent),
			SpeedMs:          r.SpeedMs,
			SpeedKmh:         r.SpeedKmh,
			TimeLimitSeconds: r.TimeLimitSeconds,
			PaceSecondsPerKm: r.PaceSecondsPerKm,
			Model:            r.Model,
			CriticalSpeedMs:  data.CriticalSpeedMs,
			DPrimeMeters:     data.DPrimeMeters,
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			return nil, fmt.Errorf("writing parquet row: %w", err)
		}
	}
	if err := pw.WriteStop(); err != nil {
		return nil, fmt.Errorf("finishing parquet file: %w", err)
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}
	return append([]byte(nil), fw.Bytes()...), nil
}

// WriteParquet writes the Parquet encoding to w
func WriteParquet(w io.Writer, data *service.ResultsData) error {
	b, err := MarshalParquet(data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}
