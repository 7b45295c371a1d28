package app

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
)

// Input modes for commands that read stdin.
const (
	InputModeLine = "line"
	InputModeFull = "full"
)

// ReadInput streams records from r: one per line, or the whole input as a
// single record in full mode. A read error is queued on the error channel
// before out is closed. The reader stops and closes out once ctx is done.
func ReadInput(ctx context.Context, r io.Reader, mode string, bufferSize int) (<-chan []byte, <-chan error, error) {
	out := make(chan []byte, 1)
	errCh := make(chan error, 1)
	switch mode {
	case InputModeFull:
		go readFull(ctx, r, out, errCh)
	case InputModeLine, "":
		go readLines(ctx, r, out, errCh, bufferSize)
	default:
		return nil, nil, fmt.Errorf("invalid input mode %q: must be %s or %s", mode, InputModeLine, InputModeFull)
	}
	return out, errCh, nil
}

func readLines(ctx context.Context, reader io.Reader, out chan []byte, errCh chan<- error, bufferSize int) {
	defer close(out)

	scanner := bufio.NewScanner(reader)
	if bufferSize > 0 {
		scanner.Buffer(make([]byte, bufferSize), bufferSize)
	}
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		select {
		case out <- bytes.Clone(scanner.Bytes()):
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		errCh <- fmt.Errorf("scanning input failed: %w", err)
	}
}

func readFull(ctx context.Context, reader io.Reader, out chan []byte, errCh chan<- error) {
	defer close(out)

	data, err := io.ReadAll(reader)
	if err != nil {
		errCh <- fmt.Errorf("unable to read data: %w", err)
		return
	}
	select {
	case out <- data:
	case <-ctx.Done():
	}
}

// Drain returns the pending read error, if any, once out has been consumed.
func Drain(errCh <-chan error) error {
	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
