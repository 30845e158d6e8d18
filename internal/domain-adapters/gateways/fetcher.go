package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/regrolabs/modelci/internal/domain/entities"
)

// ErrDestinationOccupied is returned when the fetch destination already
// holds content. Two snapshots must never be mixed, so the fetch refuses
// rather than merging with stale data.
var ErrDestinationOccupied = errors.New("fetch destination already occupied")

// Fetcher retrieves a depth-1 snapshot of an externally owned repository.
// Snapshots are never cached or updated incrementally: freshness of the
// data matters more than run latency.
type Fetcher struct {
	runner  Runner
	binary  string
	timeout time.Duration
}

// NewFetcher creates a new dataset fetcher
func NewFetcher(runner Runner) *Fetcher {
	return &Fetcher{
		runner:  runner,
		binary:  "git",
		timeout: 15 * time.Minute,
	}
}

// Fetch clones the latest commit of url into dest. History beyond the tip
// of the default branch is never fetched, which bounds run time and
// bandwidth regardless of the remote's total history size.
func (f *Fetcher) Fetch(ctx context.Context, url, dest string) (*entities.DatasetSnapshot, error) {
	if err := checkDestination(dest); err != nil {
		return nil, err
	}

	result := f.runner.Run(ctx, CommandSpec{
		Prog:        f.binary,
		Args:        []string{"clone", "--depth=1", url, dest},
		Timeout:     f.timeout,
		Stream:      true,
		Description: fmt.Sprintf("clone %s", url),
	})

	if !result.Started {
		return nil, fmt.Errorf("failed to start %s: %w", f.binary, result.Error)
	}
	if !result.Success {
		return nil, fmt.Errorf("clone failed (exit %d): %w\nStderr: %s",
			result.ExitCode, result.Error, result.Stderr)
	}

	commit, err := f.headCommit(ctx, dest)
	if err != nil {
		return nil, err
	}

	if err := f.assertDepthOne(ctx, dest); err != nil {
		return nil, err
	}

	return &entities.DatasetSnapshot{
		URL:       url,
		Path:      dest,
		Commit:    commit,
		FetchedAt: time.Now(),
	}, nil
}

func (f *Fetcher) headCommit(ctx context.Context, dest string) (string, error) {
	result := f.runner.Run(ctx, CommandSpec{
		Prog:    f.binary,
		Args:    []string{"-C", dest, "rev-parse", "HEAD"},
		Timeout: time.Minute,
	})
	if !result.Success {
		return "", fmt.Errorf("failed to read snapshot commit: %w\nStderr: %s", result.Error, result.Stderr)
	}
	return strings.TrimSpace(result.Stdout), nil
}

// assertDepthOne verifies the depth invariant: the working tree carries
// exactly one revision.
func (f *Fetcher) assertDepthOne(ctx context.Context, dest string) error {
	result := f.runner.Run(ctx, CommandSpec{
		Prog:    f.binary,
		Args:    []string{"-C", dest, "rev-list", "--count", "HEAD"},
		Timeout: time.Minute,
	})
	if !result.Success {
		return fmt.Errorf("failed to count snapshot revisions: %w\nStderr: %s", result.Error, result.Stderr)
	}

	count, err := strconv.Atoi(strings.TrimSpace(result.Stdout))
	if err != nil {
		return fmt.Errorf("unexpected rev-list output %q: %w", result.Stdout, err)
	}
	if count != 1 {
		return fmt.Errorf("snapshot at %s holds %d revisions, want exactly 1", dest, count)
	}
	return nil
}

func checkDestination(dest string) error {
	entries, err := os.ReadDir(dest)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to inspect destination %s: %w", dest, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("%w: %s", ErrDestinationOccupied, dest)
	}
	return nil
}
