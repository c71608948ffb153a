package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/signalwatch/signalwatch/internal/analysis"
	"github.com/signalwatch/signalwatch/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// showConnections includes the full connection list in the output.
	showConnections bool

	// maxSharedDirectors limits the shared-director ranking length.
	// Zero means no limit.
	maxSharedDirectors int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithConnections includes the full connection list in the output.
func WithConnections(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showConnections = show
	}
}

// WithMaxSharedDirectors limits the shared-director ranking length.
func WithMaxSharedDirectors(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.maxSharedDirectors = n
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the snapshot in human-readable format.
func (w *SimpleWriter) Write(network *model.Network) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, network)
	w.writeSummary(&sb, network)
	w.writeCompanies(&sb, network)
	w.writeSharedDirectors(&sb, network)
	w.writeClusters(&sb, network)
	if w.showConnections {
		w.writeConnections(&sb, network)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with scan information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, network *model.Network) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                    DIRECTOR NETWORK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Seed Companies: %s\n", strings.Join(network.SeedCompanies, ", ")))
	sb.WriteString(fmt.Sprintf("Scan Date:      %s\n", network.ScannedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Max Depth:      %d\n", network.MaxDepth))
	sb.WriteString("\n")
}

// writeSummary writes the statistics summary section.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, network *model.Network) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	stats := network.Statistics
	sb.WriteString(fmt.Sprintf("  Companies:   %d\n", stats.TotalCompanies))
	sb.WriteString(fmt.Sprintf("  Directors:   %d\n", stats.TotalDirectors))
	sb.WriteString(fmt.Sprintf("  Connections: %d\n", stats.TotalConnections))
	sb.WriteString(fmt.Sprintf("  Depth:       %d\n", stats.DepthReached))
	sb.WriteString("\n")
}

// writeCompanies writes the company list grouped by discovery depth.
func (w *SimpleWriter) writeCompanies(sb *strings.Builder, network *model.Network) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COMPANIES BY DEPTH\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for depth := 0; depth <= network.Statistics.DepthReached; depth++ {
		label := fmt.Sprintf("Depth %d", depth)
		if depth == 0 {
			label = "Depth 0 (seeds)"
		}
		sb.WriteString(fmt.Sprintf("%s:\n", label))

		for _, company := range network.CompaniesInOrder() {
			if company.Depth != depth {
				continue
			}
			sb.WriteString(fmt.Sprintf("  [%s] %s (%s, %d officers)\n",
				company.CompanyNumber, company.CompanyName, company.CompanyStatus, company.OfficerCount))
		}
		sb.WriteString("\n")
	}
}

// writeSharedDirectors writes the shared-director ranking.
func (w *SimpleWriter) writeSharedDirectors(sb *strings.Builder, network *model.Network) {
	shared := analysis.SharedDirectors(network)

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("SHARED DIRECTORS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(shared) == 0 {
		sb.WriteString("  No directors shared between companies\n\n")
		return
	}

	limit := len(shared)
	if w.maxSharedDirectors > 0 && w.maxSharedDirectors < limit {
		limit = w.maxSharedDirectors
	}

	for i, director := range shared[:limit] {
		sb.WriteString(fmt.Sprintf("  %d. %s (%d companies)\n",
			i+1, director.Name, director.CompanyCount()))
		for _, companyNumber := range director.Companies {
			name := companyNumber
			if company, ok := network.Companies[companyNumber]; ok {
				name = fmt.Sprintf("%s (%s)", company.CompanyName, companyNumber)
			}
			sb.WriteString(fmt.Sprintf("     - %s\n", name))
		}
	}
	if limit < len(shared) {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(shared)-limit))
	}
	sb.WriteString("\n")
}

// writeClusters writes the connected company clusters.
func (w *SimpleWriter) writeClusters(sb *strings.Builder, network *model.Network) {
	clusters := analysis.Clusters(network)
	if len(clusters) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("COMPANY CLUSTERS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for i, cluster := range clusters {
		sb.WriteString(fmt.Sprintf("  Cluster %d (%d companies):\n", i+1, cluster.Size()))
		for _, companyNumber := range cluster.Companies {
			name := companyNumber
			if company, ok := network.Companies[companyNumber]; ok {
				name = fmt.Sprintf("%s (%s)", company.CompanyName, companyNumber)
			}
			sb.WriteString(fmt.Sprintf("     - %s\n", name))
		}
	}
	sb.WriteString("\n")
}

// writeConnections writes the full connection list.
func (w *SimpleWriter) writeConnections(sb *strings.Builder, network *model.Network) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CONNECTIONS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, conn := range network.Connections {
		sb.WriteString(fmt.Sprintf("  %s -> %s [%s] (depth %d)\n",
			conn.DirectorName, conn.CompanyName, conn.Role, conn.Depth))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by SignalWatch\n")
	sb.WriteString("https://github.com/signalwatch/signalwatch\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
