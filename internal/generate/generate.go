// Package generate fills a template and turns it into a named PDF in the
// outputs directory.
package generate

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	pb "github.com/schollz/progressbar/v3"

	"github.com/bobiverse/docxfill"
	"github.com/bobiverse/docxfill/internal/convert"
	"github.com/bobiverse/docxfill/internal/output"
)

// Generator holds everything needed to go from template to PDF.
type Generator struct {
	Converter   convert.Converter
	OutputsDir  string
	Prefix      string
	DateToken   string
	CompanyKeys []string

	// Now returns the current time; time.Now when nil.
	Now func() time.Time
}

// Job is one document to generate.
type Job struct {
	Template string
	Values   docxfill.Values

	// Docx, when set, also receives the filled .docx.
	Docx string
}

// Result describes a generated document.
type Result struct {
	Output     string
	Values     docxfill.Values // values used, auto date included
	Unresolved []docxfill.Placeholder
}

func (g *Generator) today() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Run opens job.Template and renders it.
func (g *Generator) Run(ctx context.Context, job Job) (Result, error) {
	tdoc, err := docxfill.OpenTemplate(job.Template)
	if err != nil {
		return Result{}, err
	}
	return g.Render(ctx, tdoc, job.Values, job.Docx)
}

// Render fills tdoc, converts the result and places the PDF. The
// intermediate .docx lives in a private temp dir under a ULID name and is
// removed afterwards.
func (g *Generator) Render(ctx context.Context, tdoc *docxfill.Template, values docxfill.Values, docxOut string) (Result, error) {
	today := g.today()
	opts := docxfill.FillOptions{Today: today, DateToken: g.DateToken}

	used := docxfill.Merge(docxfill.AutoValues(tdoc.Placeholders(), g.DateToken, today), values)
	filled := tdoc.FillWith(values, opts)

	tmp, err := os.MkdirTemp("", "docxfill-")
	if err != nil {
		return Result{}, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	docx := filepath.Join(tmp, ulid.Make().String()+".docx")
	if err := filled.ExportDocx(docx); err != nil {
		return Result{}, err
	}
	if docxOut != "" {
		if err := filled.ExportDocx(docxOut); err != nil {
			return Result{}, err
		}
	}

	pdf, err := g.Converter.Convert(ctx, docx, tmp)
	if err != nil {
		return Result{}, err
	}

	name := output.Name(g.Prefix, output.CompanyName(used, g.CompanyKeys), today)
	dst, err := output.Place(g.OutputsDir, name, pdf)
	if err != nil {
		return Result{}, err
	}

	unresolved := filled.Placeholders()
	if len(unresolved) > 0 {
		log.Printf("generate: %s has %d unresolved placeholder(s): %v", filepath.Base(dst), len(unresolved), unresolved)
	}

	return Result{Output: dst, Values: used, Unresolved: unresolved}, nil
}

// JobError is a failed batch job; Row counts from 1.
type JobError struct {
	Row int
	Err error
}

func (e JobError) Error() string {
	return fmt.Sprintf("job %d: %v", e.Row, e.Err)
}

func (e JobError) Unwrap() error { return e.Err }

// BatchResult holds the outcome of a batch run.
type BatchResult struct {
	Generated []Result
	Failed    []JobError
}

// Total returns the number of jobs processed.
func (r BatchResult) Total() int {
	return len(r.Generated) + len(r.Failed)
}

// HasFailures reports whether any job failed.
func (r BatchResult) HasFailures() bool {
	return len(r.Failed) > 0
}

// Batch renders template once per job, one after another. A failing job is
// recorded and the loop goes on. Progress is drawn on w when not nil.
func (g *Generator) Batch(ctx context.Context, template string, jobs []docxfill.Values, w io.Writer) (BatchResult, error) {
	var res BatchResult

	tdoc, err := docxfill.OpenTemplate(template)
	if err != nil {
		return res, err
	}

	var bar *pb.ProgressBar
	if w != nil {
		bar = pb.NewOptions(len(jobs),
			pb.OptionSetWriter(w),
			pb.OptionSetWidth(20),
			pb.OptionShowCount(),
			pb.OptionSetPredictTime(false),
			pb.OptionSetDescription("Generating"),
			pb.OptionOnCompletion(func() {
				fmt.Fprint(w, "\n")
			}),
		)
	}

	for i, values := range jobs {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		r, err := g.Render(ctx, tdoc, values, "")
		if err != nil {
			res.Failed = append(res.Failed, JobError{Row: i + 1, Err: err})
		} else {
			res.Generated = append(res.Generated, r)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}

	return res, nil
}
