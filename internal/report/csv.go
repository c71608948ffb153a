package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/signalwatch/signalwatch/internal/model"
)

// CSVWriter outputs the connection list as CSV.
// This format is designed for spreadsheet analysis and import into
// graph tools; one row per observed (company, director, role) edge.
//
// Design decision: We export connections rather than companies because
// the edge list is the lossless representation: both the company list
// and the director list can be recovered from it.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{
		baseWriter: newBaseWriter(output),
	}
}

// csvHeader is the column layout of the connection export.
var csvHeader = []string{
	"company_number",
	"company_name",
	"director_id",
	"director_name",
	"role",
	"depth",
}

// Write outputs the snapshot's connections in CSV format.
// The byte count returned is approximate: encoding/csv does not expose
// the exact number of bytes written, so we count through a wrapper.
func (w *CSVWriter) Write(network *model.Network) (int, error) {
	counter := &countingWriter{inner: w.output}
	cw := csv.NewWriter(counter)

	if err := cw.Write(csvHeader); err != nil {
		return counter.n, err
	}

	for _, conn := range network.Connections {
		record := []string{
			conn.CompanyNumber,
			conn.CompanyName,
			conn.DirectorID,
			conn.DirectorName,
			conn.Role,
			strconv.Itoa(conn.Depth),
		}
		if err := cw.Write(record); err != nil {
			return counter.n, err
		}
	}

	cw.Flush()
	return counter.n, cw.Error()
}

// countingWriter tracks bytes written to the wrapped writer.
type countingWriter struct {
	inner io.Writer
	n     int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.inner.Write(p)
	c.n += n
	return n, err
}
