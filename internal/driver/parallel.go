package driver

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"ddl/internal/diag"
	"ddl/internal/trace"
)

// Ext is the extension ProcessDir looks for.
const Ext = ".ddl"

// Batch configures ProcessFiles.
type Batch struct {
	Options   Options
	Pretext   string
	Jobs      int           // 0 = GOMAXPROCS
	Cache     Cache         // nil = no cache
	Heartbeat time.Duration // 0 = no heartbeat events
}

// listDDLFiles возвращает отсортированный список всех *.ddl файлов в директории
func listDDLFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(path, Ext) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Сортируем для детерминированного порядка
	sort.Strings(files)
	return files, nil
}

// ProcessDir processes every *.ddl file under dir as its own unit.
func ProcessDir(ctx context.Context, dir string, batch Batch) ([]*Result, error) {
	files, err := listDDLFiles(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	return ProcessFiles(ctx, files, batch)
}

// ProcessFiles evaluates every path as an independent unit, in parallel.
// Results follow the order of paths. Every unit gets its own FileEngine, so
// units share neither files nor limits. Source errors are in each result's
// Bag; the error return is for cancellation and cache failures.
func ProcessFiles(ctx context.Context, paths []string, batch Batch) ([]*Result, error) {
	opts := batch.Options.withDefaults()
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "process-files")
	var cached, done atomic.Int32
	hb := trace.StartHeartbeat(trace.FromContext(ctx), batch.Heartbeat, func() string {
		return strconv.Itoa(int(done.Load())) + "/" + strconv.Itoa(len(paths)) + " units"
	})
	defer func() {
		hb.Stop()
		span.WithExtra("units", strconv.Itoa(len(paths))).
			WithExtra("cached", strconv.Itoa(int(cached.Load())))
		span.End("")
	}()

	results := make([]*Result, len(paths))
	if len(paths) == 0 {
		return results, nil
	}

	// Настраиваем параллелизм
	jobs := batch.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			defer done.Add(1)
			if err := gctx.Err(); err != nil {
				return err
			}
			key, res := lookup(path, batch.Pretext, opts, batch.Cache)
			if res != nil {
				cached.Add(1)
				results[i] = res
				return nil
			}

			res = NewFileEngine(opts).Process(gctx, path, batch.Pretext)
			// индекс i уникален для горутины, мьютекс не нужен
			results[i] = res
			if batch.Cache != nil && key != nil && res.OK() {
				if err := batch.Cache.Put(*key, snapshotOf(res)); err != nil {
					return fmt.Errorf("cache %s: %w", path, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// lookup returns the key of path and, on a fresh hit, the cached result.
// An unreadable file or a broken entry is a miss; the engine reports the
// file problem itself.
func lookup(path, pretext string, opts Options, cache Cache) (*Digest, *Result) {
	if cache == nil {
		return nil, nil
	}
	content, err := os.ReadFile(path) // #nosec G304 -- path is provided by the caller
	if err != nil {
		return nil, nil
	}
	key := UnitKey(content, pretext, opts)
	var s Snapshot
	if ok, err := cache.Get(key, &s); err != nil || !ok || !s.fresh() {
		return &key, nil
	}
	return &key, &Result{
		Path:    path,
		Bag:     diag.NewBag(opts.ErrorCap),
		Printed: s.Printed,
		Cached:  true,
	}
}
