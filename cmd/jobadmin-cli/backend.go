package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/giraone/jobadmin/internal/bootstrap"
	"github.com/giraone/jobadmin/internal/client"
	"github.com/giraone/jobadmin/internal/domain/model"
)

// backendResource adapts one typed REST client to the generic CLI commands.
// Entities are handed out in their wire form so output matches the REST API.
type backendResource interface {
	list(ctx context.Context, params client.QueryParams) ([]any, int64, error)
	get(ctx context.Context, id string) (any, error)
	delete(ctx context.Context, id string) error
	deleteAll(ctx context.Context) error
	header() []string
	row(item any) []string
}

type typedResource[T, W any] struct {
	res    client.Resource[T]
	toWire func(T) W
	cols   []string
	cells  func(W) []string
}

func (r typedResource[T, W]) list(ctx context.Context, params client.QueryParams) ([]any, int64, error) {
	page, err := r.res.Query(ctx, params)
	if err != nil {
		return nil, 0, err
	}
	items := make([]any, 0, len(page.Items))
	for _, e := range page.Items {
		items = append(items, r.toWire(e))
	}
	return items, page.TotalCount, nil
}

func (r typedResource[T, W]) get(ctx context.Context, id string) (any, error) {
	e, err := r.res.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, fmt.Errorf("%s not found", id)
	}
	return r.toWire(*e), nil
}

func (r typedResource[T, W]) delete(ctx context.Context, id string) error { return r.res.Delete(ctx, id) }

func (r typedResource[T, W]) deleteAll(ctx context.Context) error { return r.res.DeleteAll(ctx) }

func (r typedResource[T, W]) header() []string { return r.cols }

func (r typedResource[T, W]) row(item any) []string {
	w, ok := item.(W)
	if !ok {
		return nil
	}
	return r.cells(w)
}

var resourceNames = []string{"job-records", "processes"}

func openResource(cmdCtx *commandContext, name string) (backendResource, error) {
	jobRecords, processes, err := bootstrap.NewBackendClients(cmdCtx.Ctx, cmdCtx.Config.Backend, nil, cmdCtx.Logger)
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "job-records", "job-record", "jobrecords":
		return typedResource[model.JobRecord, model.JobRecordWire]{
			res:    jobRecords,
			toWire: model.JobRecordToWire,
			cols:   []string{"ID", "STATUS", "PROCESS", "ACCEPTED", "LAST EVENT", "PAUSED BUCKET"},
			cells: func(w model.JobRecordWire) []string {
				process := ""
				if w.Process != nil {
					process = w.Process.Key
				}
				return []string{
					w.ID.String(), w.Status, process,
					deref(w.JobAcceptedTimestamp), deref(w.LastEventTimestamp), deref(w.PausedBucketKey),
				}
			},
		}, nil
	case "processes", "process":
		return typedResource[model.Process, model.ProcessWire]{
			res:    processes,
			toWire: model.ProcessToWire,
			cols:   []string{"ID", "KEY", "NAME", "ACTIVATION", "AGENT", "PAUSED BUCKET"},
			cells: func(w model.ProcessWire) []string {
				return []string{w.ID.String(), w.Key, w.Name, w.Activation, deref(w.AgentKey), deref(w.BucketKeyIfPaused)}
			},
		}, nil
	default:
		return nil, fmt.Errorf("unknown resource %q (expected one of %s)", name, strings.Join(resourceNames, ", "))
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

type listOptions struct {
	Page    int
	Size    int
	Sort    []string
	Status  string
	Process string
	Output  outputOptions
}

func runList(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "list")
	opts := listOptions{}
	fs.IntVar(&opts.Page, "page", 0, "Zero-based page number")
	fs.IntVar(&opts.Size, "size", 20, "Page size")
	fs.StringArrayVar(&opts.Sort, "sort", nil, "Sort predicate field[,asc|desc]; repeatable")
	fs.StringVar(&opts.Status, "status", "", "Filter job records by status")
	fs.StringVar(&opts.Process, "process", "", "Filter job records by process id")
	opts.Output.register(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: list <%s> [flags]", strings.Join(resourceNames, "|"))
	}
	if opts.Size <= 0 {
		return errors.New("--size must be greater than zero")
	}

	res, err := openResource(cmdCtx, fs.Arg(0))
	if err != nil {
		return err
	}
	params := client.QueryParams{Page: opts.Page, Size: opts.Size, Sort: opts.Sort, Filters: map[string]string{}}
	if opts.Status != "" {
		status, ok := model.ParseJobStatus(opts.Status)
		if !ok {
			return fmt.Errorf("unknown status %q", opts.Status)
		}
		params.Filters["status"] = string(status)
	}
	if opts.Process != "" {
		params.Filters["processId"] = opts.Process
	}

	items, total, err := res.list(cmdCtx.Ctx, params)
	if err != nil {
		return err
	}
	if err := writeItems(cmdCtx.Stdout, opts.Output, res, items); err != nil {
		return err
	}
	if opts.Output.Format == formatTable {
		fmt.Fprintf(cmdCtx.Stderr, "%d of %d shown (page %d)\n", len(items), total, opts.Page)
	}
	return nil
}

func runGet(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "get")
	var out outputOptions
	out.register(fs)
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: get <%s> <id> [flags]", strings.Join(resourceNames, "|"))
	}
	res, err := openResource(cmdCtx, fs.Arg(0))
	if err != nil {
		return err
	}
	item, err := res.get(cmdCtx.Ctx, fs.Arg(1))
	if err != nil {
		return err
	}
	if out.Format == formatTable && out.Query == "" {
		return writeTable(cmdCtx.Stdout, res, []any{item})
	}
	return writeValue(cmdCtx.Stdout, out, item)
}

func runDelete(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "delete")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: delete <%s> <id>...", strings.Join(resourceNames, "|"))
	}
	res, err := openResource(cmdCtx, fs.Arg(0))
	if err != nil {
		return err
	}
	for _, id := range fs.Args()[1:] {
		if err := res.delete(cmdCtx.Ctx, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
		fmt.Fprintf(cmdCtx.Stdout, "deleted %s\n", id)
	}
	return nil
}

func runDeleteAll(cmdCtx *commandContext, args []string) error {
	fs := newFlagSet(cmdCtx, "delete-all")
	var yes bool
	fs.BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: delete-all <%s> [--yes]", strings.Join(resourceNames, "|"))
	}
	res, err := openResource(cmdCtx, fs.Arg(0))
	if err != nil {
		return err
	}
	if !yes {
		warning := fmt.Sprintf("This will delete every %s at %s.", fs.Arg(0), cmdCtx.Config.Backend.BaseURL)
		if err := confirm(cmdCtx, warning); err != nil {
			return err
		}
	}
	if err := res.deleteAll(cmdCtx.Ctx); err != nil {
		return err
	}
	fmt.Fprintf(cmdCtx.Stdout, "deleted all %s\n", fs.Arg(0))
	return nil
}
