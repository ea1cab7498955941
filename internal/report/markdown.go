package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"

	"github.com/linkgraph/webrank/internal/graph"
)

// WriteMarkdown renders the report as a markdown document suitable for
// sharing or archiving alongside the run.
func WriteMarkdown(w io.Writer, s Summary) error {
	md := markdown.NewMarkdown(w)

	md.H1("PageRank Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Bucket", "`" + s.Bucket + "`"},
			{"Total pages", strconv.Itoa(s.Pages)},
			{"Dangling pages", strconv.Itoa(s.Dangling)},
			{"Dropped external links", strconv.Itoa(s.DroppedLinks)},
			{"Iterations", strconv.Itoa(s.Iterations)},
			{"Converged", strconv.FormatBool(s.Converged)},
			{"Final delta", fmt.Sprintf("%.6f", s.Delta)},
			{"Score sum", fmt.Sprintf("%.6f", s.ScoreSum)},
			{"Elapsed", s.Elapsed.Round(time.Millisecond).String()},
		},
	})
	md.PlainText("")

	md.H2("Top Pages")
	md.PlainText("")
	topRows := make([][]string, 0, len(s.Top))
	for i, ps := range s.Top {
		topRows = append(topRows, []string{
			strconv.Itoa(i + 1),
			"`" + ps.Key + "`",
			fmt.Sprintf("%.6f", ps.Score),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Page", "Score"},
		Rows:   topRows,
	})
	md.PlainText("")

	md.H2("Link Statistics")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Direction", "Average", "Median", "Max", "Min"},
		Rows: [][]string{
			degreeRow("Outgoing", s.Stats.Outgoing),
			degreeRow("Incoming", s.Stats.Incoming),
		},
	})

	if d := s.Diagnostics; d != nil && len(d.Failures) > 0 {
		md.PlainText("")
		md.H2("Fetch Failures")
		md.PlainText("")
		rows := make([][]string, 0, len(d.Failures))
		for _, f := range d.Failures {
			rows = append(rows, []string{"`" + f.Key + "`", strconv.Itoa(f.Attempts), f.Reason})
		}
		md.Table(markdown.TableSet{
			Header: []string{"Page", "Attempts", "Reason"},
			Rows:   rows,
		})
	}

	if err := md.Build(); err != nil {
		return fmt.Errorf("build markdown report: %w", err)
	}
	return nil
}

func degreeRow(direction string, d graph.DegreeStats) []string {
	return []string{
		direction,
		fmt.Sprintf("%.2f", d.Average),
		fmt.Sprintf("%.2f", d.Median),
		fmt.Sprintf("%.0f", d.Max),
		fmt.Sprintf("%.0f", d.Min),
	}
}
