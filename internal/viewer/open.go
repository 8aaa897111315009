package viewer

import (
	"errors"
	"sync/atomic"
)

// ErrCancelled is returned by a PickFunc when the user closes the dialog.
var ErrCancelled = errors.New("cancelled")

// PickFunc shows a file chooser and blocks until the user picks a file.
type PickFunc func() (string, error)

// Opener runs the file chooser off the render loop. The chosen path is
// handed back through Poll, so only the main loop touches the mesh.
type Opener struct {
	pick    PickFunc
	busy    atomic.Bool
	pending chan string
	errs    chan error
}

// NewOpener creates an opener around pick.
func NewOpener(pick PickFunc) *Opener {
	return &Opener{
		pick:    pick,
		pending: make(chan string, 1),
		errs:    make(chan error, 1),
	}
}

// Open shows the chooser unless one is already open. It does not block.
func (o *Opener) Open() bool {
	if !o.busy.CompareAndSwap(false, true) {
		return false
	}
	go func() {
		defer o.busy.Store(false)
		path, err := o.pick()
		switch {
		case errors.Is(err, ErrCancelled):
		case err != nil:
			o.errs <- err
		case path != "":
			o.pending <- path
		}
	}()
	return true
}

// Poll returns the chosen path without blocking. Both results are zero
// while the chooser is still open or nothing was picked.
func (o *Opener) Poll() (string, error) {
	select {
	case path := <-o.pending:
		return path, nil
	case err := <-o.errs:
		return "", err
	default:
		return "", nil
	}
}
