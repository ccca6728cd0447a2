package console

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"

	"github.com/user/seo-meta-service/internal/domain"
)

// ErrStreamClosed means the state stream ended before a terminal state.
var ErrStreamClosed = errors.New("state stream closed before the request finished")

// Watch shows a spinner on w while the newest state is loading and returns
// the first terminal state it sees.
func Watch(ctx context.Context, states <-chan domain.RequestState, w io.Writer) (domain.RequestState, error) {
	opt := spinner.WithWriter(w)
	if f, ok := w.(*os.File); ok {
		opt = spinner.WithWriterFile(f)
	}
	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, opt)
	s.Suffix = " Analyzing the page and writing meta tags..."
	defer s.Stop()

	for {
		select {
		case <-ctx.Done():
			return domain.RequestState{}, ctx.Err()
		case state, ok := <-states:
			if !ok {
				return domain.RequestState{}, ErrStreamClosed
			}
			switch {
			case state.Kind == domain.StateLoading:
				s.Start()
			case state.Terminal():
				s.Stop()
				return state, nil
			}
		}
	}
}
