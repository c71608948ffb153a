package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/signalwatch/signalwatch/internal/analysis"
	"github.com/signalwatch/signalwatch/internal/model"
)

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the snapshot in Markdown format.
func (w *MarkdownWriter) Write(network *model.Network) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, network)
	w.writeSummary(md, network)
	w.writeCompanies(md, network)
	w.writeSharedDirectors(md, network)
	w.writeClusters(md, network)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with scan information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, network *model.Network) {
	md.H1("Director Network Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Seed Companies", "`" + strings.Join(network.SeedCompanies, "`, `") + "`"},
			{"Scan Date", network.ScannedAt.Format("2006-01-02 15:04:05 MST")},
			{"Max Depth", strconv.Itoa(network.MaxDepth)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the statistics summary section.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, network *model.Network) {
	md.H2("Summary")
	md.PlainText("")

	stats := network.Statistics
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"Companies", strconv.Itoa(stats.TotalCompanies)},
			{"Directors", strconv.Itoa(stats.TotalDirectors)},
			{"Connections", strconv.Itoa(stats.TotalConnections)},
			{"Depth Reached", strconv.Itoa(stats.DepthReached)},
		},
	})
	md.PlainText("")

	if stats.TotalCompanies > 0 {
		w.writeDepthChart(md, network)
	}

	w.writeAlert(md, network)
}

// writeDepthChart writes a mermaid pie chart of companies per depth.
func (w *MarkdownWriter) writeDepthChart(md *markdown.Markdown, network *model.Network) {
	counts := make(map[int]int)
	for _, company := range network.Companies {
		counts[company.Depth]++
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Companies by Discovery Depth"),
		piechart.WithShowData(true),
	)

	for depth := 0; depth <= network.Statistics.DepthReached; depth++ {
		if counts[depth] == 0 {
			continue
		}
		chart.LabelAndIntValue(fmt.Sprintf("Depth %d", depth), uint64(counts[depth]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on what the scan found.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, network *model.Network) {
	shared := analysis.SharedDirectors(network)
	switch {
	case len(shared) > 0:
		md.Importantf(
			"%d director identit(ies) link more than one company in this network.",
			len(shared),
		)
	case network.Statistics.TotalCompanies > 1:
		md.Note("No directors are shared between the discovered companies.")
	default:
		md.Tip("The network contains a single company; widen the depth bound to discover connections.")
	}
	md.PlainText("")
}

// writeCompanies writes the company table.
func (w *MarkdownWriter) writeCompanies(md *markdown.Markdown, network *model.Network) {
	md.H2("Companies")
	md.PlainText("")

	companies := network.CompaniesInOrder()
	if len(companies) == 0 {
		md.PlainText("No companies discovered.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(companies))
	for i, company := range companies {
		rows[i] = []string{
			"`" + company.CompanyNumber + "`",
			company.CompanyName,
			company.CompanyStatus,
			strconv.Itoa(company.Depth),
			strconv.Itoa(company.OfficerCount),
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Number", "Name", "Status", "Depth", "Officers"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeSharedDirectors writes the shared-director ranking table.
func (w *MarkdownWriter) writeSharedDirectors(md *markdown.Markdown, network *model.Network) {
	md.H2("Shared Directors")
	md.PlainText("")

	shared := analysis.SharedDirectors(network)
	if len(shared) == 0 {
		md.PlainText("No directors shared between companies.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(shared))
	for i, director := range shared {
		rows[i] = []string{
			director.Name,
			strconv.Itoa(director.CompanyCount()),
			"`" + strings.Join(director.Companies, "`, `") + "`",
		}
	}

	md.Table(markdown.TableSet{
		Header: []string{"Director", "Companies", "Company Numbers"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeClusters writes the cluster list.
func (w *MarkdownWriter) writeClusters(md *markdown.Markdown, network *model.Network) {
	clusters := analysis.Clusters(network)
	if len(clusters) == 0 {
		return
	}

	md.H2("Company Clusters")
	md.PlainText("")

	for i, cluster := range clusters {
		md.PlainTextf("**Cluster %d** (%d companies)", i+1, cluster.Size())
		md.PlainText("")
		items := make([]string, len(cluster.Companies))
		for j, companyNumber := range cluster.Companies {
			label := companyNumber
			if company, ok := network.Companies[companyNumber]; ok {
				label = fmt.Sprintf("%s (`%s`)", company.CompanyName, companyNumber)
			}
			items[j] = label
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SignalWatch](https://github.com/signalwatch/signalwatch)*")
}
