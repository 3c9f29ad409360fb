// Package promo validates promotional codes against one or more code
// lists. Lists can be huge (hundreds of MB), so each source is loaded
// into a bloom filter: constant memory at the cost of a small
// false-positive rate, which is acceptable for a percent discount.
package promo

import (
	"bufio"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
)

const (
	minCodeLength = 8
	maxCodeLength = 10

	estimatedCodesPerSource = 1 << 20
	falsePositiveRate       = 0.001
)

// Validator holds one bloom set per loaded source. A code is valid
// when it has 8-10 characters and appears in at least half of the
// loaded sets.
type Validator struct {
	mu    sync.RWMutex
	sets  []*bloom.BloomFilter
	codes int
}

type loadResult struct {
	index  int
	filter *bloom.BloomFilter
	count  int
	err    error
}

func NewValidator() *Validator {
	return &Validator{}
}

// Load reads every source concurrently and replaces the active sets.
// A source is a local file path or an http(s) URL; a ".gz" suffix
// selects gzip decoding. Any source failing fails the whole load.
func (v *Validator) Load(ctx context.Context, sources []string) error {
	if len(sources) == 0 {
		return fmt.Errorf("no promo code sources provided")
	}

	resultChan := make(chan loadResult, len(sources))
	var wg sync.WaitGroup

	for i, src := range sources {
		wg.Add(1)
		go func(index int, source string) {
			defer wg.Done()

			filter, count, err := loadSource(ctx, source)
			resultChan <- loadResult{index: index, filter: filter, count: count, err: err}
		}(i, src)
	}

	go func() {
		wg.Wait()
		close(resultChan)
	}()

	results := make([]loadResult, len(sources))
	for result := range resultChan {
		results[result.index] = result
	}

	total := 0
	for i, result := range results {
		if result.err != nil {
			return fmt.Errorf("load promo codes from %s: %w", sources[i], result.err)
		}
		total += result.count
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.sets = make([]*bloom.BloomFilter, len(results))
	for i, result := range results {
		v.sets[i] = result.filter
	}
	v.codes = total
	return nil
}

// IsValid reports whether code passes the length rule and appears in
// at least half of the loaded sets. Matching is case-insensitive and
// ignores surrounding whitespace. A nil or unloaded validator rejects
// everything.
func (v *Validator) IsValid(code string) bool {
	if v == nil {
		return false
	}
	code = canonicalCode(code)
	if len(code) < minCodeLength || len(code) > maxCodeLength {
		return false
	}

	v.mu.RLock()
	defer v.mu.RUnlock()

	if len(v.sets) == 0 {
		return false
	}

	required := (len(v.sets) + 1) / 2
	found := 0
	for _, set := range v.sets {
		if set.TestString(code) {
			found++
			if found >= required {
				return true
			}
		}
	}
	return false
}

// Stats reports the number of loaded sets and total codes, for
// startup logging.
func (v *Validator) Stats() (sets, codes int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.sets), v.codes
}

func loadSource(ctx context.Context, source string) (*bloom.BloomFilter, int, error) {
	reader, err := openSource(ctx, source)
	if err != nil {
		return nil, 0, err
	}
	defer reader.Close()

	var body io.Reader = reader
	if strings.HasSuffix(source, ".gz") {
		gz, err := gzip.NewReader(reader)
		if err != nil {
			return nil, 0, fmt.Errorf("open gzip stream: %w", err)
		}
		defer gz.Close()
		body = gz
	}

	return parseCodes(body)
}

func openSource(ctx context.Context, source string) (io.ReadCloser, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 5 * time.Minute}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("download codes: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	file, err := os.Open(source)
	if err != nil {
		return nil, fmt.Errorf("open codes file: %w", err)
	}
	return file, nil
}

func parseCodes(r io.Reader) (*bloom.BloomFilter, int, error) {
	filter := bloom.NewWithEstimates(estimatedCodesPerSource, falsePositiveRate)
	count := 0

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := canonicalCode(scanner.Text())
		if line == "" {
			continue
		}
		filter.AddString(line)
		count++
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("read codes: %w", err)
	}
	return filter, count, nil
}

func canonicalCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
