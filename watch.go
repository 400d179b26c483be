package shi

import (
	"encoding/binary"
	"time"

	"golang.org/x/sys/unix"
)

// hostByteOrder decodes struct signalfd_siginfo's leading ssi_signo
// field, which the kernel always writes in host (little-endian on
// every Linux target this runtime supports) byte order.
var hostByteOrder = binary.LittleEndian

// watcherKind names the four event-loop watcher types spec.md §4.10
// supports.
type watcherKind int

const (
	watchReadReady watcherKind = iota
	watchWriteReady
	watchTimer
	watchSignal
)

// watcher is one registered callback. cb/arg are heap Refs kept alive
// purely by being reachable from the registry — forwardWatchers (called
// from gc.go's collect) is what keeps them valid across a collection, since nothing on the
// host stack references them between ev-start and the callback firing.
type watcher struct {
	id      int
	kind    watcherKind
	fd      int // target fd (read/write-ready), or the owned timerfd/signalfd
	signum  int // watchSignal only
	cb, arg Ref
	stopped bool
}

// watcherRegistry is the event loop's state: one epoll instance
// multiplexing every fd/timerfd/signalfd a watcher owns. Grounded on
// golang.org/x/sys/unix's epoll/timerfd/signalfd wrappers — the pack's
// only complete raw-syscall story for this (see SPEC_FULL.md DOMAIN
// STACK).
type watcherRegistry struct {
	epfd   int
	nextID int

	watchers map[int]*watcher // watcher id -> watcher

	fdWatcher map[int]int // read/write-ready: target fd -> watcher id

	sigfd       int // shared signalfd, -1 until the first signal watcher
	sigset      unix.Sigset_t
	sigWatchers map[int]int // signum -> watcher id
}

func newWatcherRegistry() *watcherRegistry {
	epfd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		// No epoll available in this environment: ev-start primitives
		// report a resource error rather than the runtime failing to
		// start at all.
		epfd = -1
	}
	return &watcherRegistry{
		epfd:        epfd,
		watchers:    make(map[int]*watcher),
		fdWatcher:   make(map[int]int),
		sigfd:       -1,
		sigWatchers: make(map[int]int),
	}
}

// forwardWatchers rewrites every live watcher's cb/arg during a
// collection (gc.go calls this right after forwarding the other
// roots). The registry itself is not heap-allocated, so only these two
// fields per watcher need attention.
func (rt *Runtime) forwardWatchers() {
	for _, w := range rt.watchers.watchers {
		w.cb = rt.forward(w.cb)
		w.arg = rt.forward(w.arg)
	}
}

func (reg *watcherRegistry) epollAdd(fd int, events uint32) error {
	return unix.EpollCtl(reg.epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: events, Fd: int32(fd)})
}

func (reg *watcherRegistry) epollDel(fd int) error {
	return unix.EpollCtl(reg.epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// startReadWrite registers a read-ready or write-ready watcher on an
// existing fd.
func (reg *watcherRegistry) startReadWrite(kind watcherKind, fd int, cb, arg Ref) (int, error) {
	events := uint32(unix.EPOLLIN)
	if kind == watchWriteReady {
		events = unix.EPOLLOUT
	}
	if err := reg.epollAdd(fd, events); err != nil {
		return 0, err
	}
	id := reg.nextID
	reg.nextID++
	w := &watcher{id: id, kind: kind, fd: fd, cb: cb, arg: arg}
	reg.watchers[id] = w
	reg.fdWatcher[fd] = id
	return id, nil
}

// startTimer creates a timerfd firing every periodMS milliseconds.
func (reg *watcherRegistry) startTimer(periodMS int64, cb, arg Ref) (int, error) {
	tfd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, unix.TFD_CLOEXEC|unix.TFD_NONBLOCK)
	if err != nil {
		return 0, err
	}
	d := timerfdDuration(periodMS)
	spec := unix.ItimerSpec{Interval: d, Value: d}
	if err := unix.TimerfdSettime(tfd, 0, &spec, nil); err != nil {
		unix.Close(tfd)
		return 0, err
	}
	if err := reg.epollAdd(tfd, unix.EPOLLIN); err != nil {
		unix.Close(tfd)
		return 0, err
	}
	id := reg.nextID
	reg.nextID++
	w := &watcher{id: id, kind: watchTimer, fd: tfd, cb: cb, arg: arg}
	reg.watchers[id] = w
	reg.fdWatcher[tfd] = id
	return id, nil
}

func timerfdDuration(ms int64) unix.Timespec {
	d := time.Duration(ms) * time.Millisecond
	return unix.NsecToTimespec(d.Nanoseconds())
}

// sigsetAdd/sigsetDel set or clear signum's bit in a Sigset_t, since
// x/sys/unix exposes the raw struct (a 16-word bitmap on linux/amd64)
// rather than libc's sigaddset/sigdelset macros.
func sigsetAdd(set *unix.Sigset_t, signum int) {
	set.Val[(signum-1)/64] |= 1 << uint((signum-1)%64)
}

func sigsetDel(set *unix.Sigset_t, signum int) {
	set.Val[(signum-1)/64] &^= 1 << uint((signum-1)%64)
}

// startSignal adds signum to the shared signalfd's mask, creating it
// (and blocking the signal via pthread_sigmask so the kernel delivers
// it through the fd instead of the default disposition) on first use.
func (reg *watcherRegistry) startSignal(signum int, cb, arg Ref) (int, error) {
	sigsetAdd(&reg.sigset, signum)
	if err := unix.PthreadSigmask(unix.SIG_BLOCK, &reg.sigset, nil); err != nil {
		return 0, err
	}
	if reg.sigfd < 0 {
		fd, err := unix.Signalfd(-1, &reg.sigset, unix.SFD_CLOEXEC|unix.SFD_NONBLOCK)
		if err != nil {
			return 0, err
		}
		if err := reg.epollAdd(fd, unix.EPOLLIN); err != nil {
			unix.Close(fd)
			return 0, err
		}
		reg.sigfd = fd
	} else if _, err := unix.Signalfd(reg.sigfd, &reg.sigset, unix.SFD_CLOEXEC|unix.SFD_NONBLOCK); err != nil {
		return 0, err
	}
	id := reg.nextID
	reg.nextID++
	w := &watcher{id: id, kind: watchSignal, fd: reg.sigfd, signum: signum, cb: cb, arg: arg}
	reg.watchers[id] = w
	reg.sigWatchers[signum] = id
	return id, nil
}

// stop implements `ev-stop`: it takes effect no later than the next
// event-loop iteration (spec.md §4.10) — here, immediately, since
// nothing is in flight between calls.
func (reg *watcherRegistry) stop(id int) {
	w, ok := reg.watchers[id]
	if !ok {
		return
	}
	w.stopped = true
	delete(reg.watchers, id)
	switch w.kind {
	case watchReadReady, watchWriteReady:
		reg.epollDel(w.fd)
		delete(reg.fdWatcher, w.fd)
	case watchTimer:
		reg.epollDel(w.fd)
		unix.Close(w.fd)
		delete(reg.fdWatcher, w.fd)
	case watchSignal:
		sigsetDel(&reg.sigset, w.signum)
		delete(reg.sigWatchers, w.signum)
		unix.Signalfd(reg.sigfd, &reg.sigset, unix.SFD_CLOEXEC|unix.SFD_NONBLOCK)
	}
}

// PumpEvents waits up to timeout for ready descriptors and dispatches
// every matching watcher's callback once, in the order epoll_wait
// returns them — the FIFO-of-readiness guarantee spec.md §4.10 asks
// for, since there is exactly one waiting syscall feeding one
// dispatch loop. Returns false if there are no watchers left to wait
// on at all (callers use this to know when to stop pumping).
func (rt *Runtime) PumpEvents(timeout time.Duration) (bool, error) {
	reg := rt.watchers
	if len(reg.watchers) == 0 {
		return false, nil
	}
	events := make([]unix.EpollEvent, 16)
	ms := int(timeout / time.Millisecond)
	n, err := unix.EpollWait(reg.epfd, events, ms)
	if err == unix.EINTR {
		return true, nil
	}
	if err != nil {
		return true, newError(ErrResource, "event loop: %s", err)
	}
	for i := 0; i < n; i++ {
		fd := int(events[i].Fd)
		if fd == reg.sigfd {
			rt.dispatchSignals()
			continue
		}
		id, ok := reg.fdWatcher[fd]
		if !ok {
			continue
		}
		w := reg.watchers[id]
		if w.kind == watchTimer {
			var buf [8]byte
			unix.Read(fd, buf[:])
		}
		if err := rt.fireWatcher(w); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (rt *Runtime) dispatchSignals() {
	reg := rt.watchers
	var buf [128]byte // sizeof(struct signalfd_siginfo) == 128
	for {
		n, err := unix.Read(reg.sigfd, buf[:])
		if err != nil || n < 128 {
			return
		}
		signum := int(hostByteOrder.Uint32(buf[0:4]))
		id, ok := reg.sigWatchers[signum]
		if !ok {
			continue
		}
		if err := rt.fireWatcher(reg.watchers[id]); err != nil {
			return
		}
	}
}

func (rt *Runtime) fireWatcher(w *watcher) error {
	f := rt.PushFrame()
	defer rt.PopFrame(f)
	cb := w.cb
	arg := w.arg
	f.Add(&cb)
	f.Add(&arg)
	argList := rt.Cons(arg, RefNil)
	f.Add(&argList)
	_, err := rt.guardTopLevel(func() (Ref, error) { return rt.Apply(cb, argList) })
	return err
}

// evStartPrim: (ev-start type cb arg) -> integer watcher id.
func evStartPrim(rt *Runtime, env, args Ref) (Ref, error) {
	var typeRef, cb, arg Ref
	_, err := rt.withEvaledArgs(env, args, func(slots []*Ref) (Ref, error) {
		if len(slots) != 3 {
			return RefNil, arityErrorf("ev-start", "expected 3 arguments, got %d", len(slots))
		}
		typeRef, cb, arg = *slots[0], *slots[1], *slots[2]
		return RefNil, nil
	})
	if err != nil {
		return RefNil, err
	}
	if typeRef.IsSingleton() || rt.cellAt(typeRef).tag != TagSym {
		return RefNil, rt.typeErrorf(typeRef, "sym", "ev-start")
	}
	if rt.watchers.epfd < 0 {
		return RefNil, newError(ErrResource, "ev-start: event loop unavailable")
	}
	var id int
	switch rt.SymName(typeRef) {
	case "read-ready":
		if arg.IsSingleton() || rt.cellAt(arg).tag != TagInt {
			return RefNil, rt.typeErrorf(arg, "int", "ev-start read-ready")
		}
		id, err = rt.watchers.startReadWrite(watchReadReady, int(rt.cellAt(arg).i), cb, arg)
	case "write-ready":
		if arg.IsSingleton() || rt.cellAt(arg).tag != TagInt {
			return RefNil, rt.typeErrorf(arg, "int", "ev-start write-ready")
		}
		id, err = rt.watchers.startReadWrite(watchWriteReady, int(rt.cellAt(arg).i), cb, arg)
	case "timer":
		if arg.IsSingleton() || rt.cellAt(arg).tag != TagInt {
			return RefNil, rt.typeErrorf(arg, "int", "ev-start timer")
		}
		id, err = rt.watchers.startTimer(rt.cellAt(arg).i, cb, arg)
	case "signal":
		if arg.IsSingleton() || rt.cellAt(arg).tag != TagInt {
			return RefNil, rt.typeErrorf(arg, "int", "ev-start signal")
		}
		id, err = rt.watchers.startSignal(int(rt.cellAt(arg).i), cb, arg)
	default:
		return RefNil, newError(ErrType, "ev-start: unknown watcher type: %s", rt.SymName(typeRef))
	}
	if err != nil {
		return RefNil, newError(ErrResource, "ev-start: %s", err)
	}
	return rt.NewInt(int64(id)), nil
}

func evStopPrim(rt *Runtime, env, args Ref) (Ref, error) {
	idRef, err := rt.evalOneArg(env, args, "ev-stop")
	if err != nil {
		return RefNil, err
	}
	if idRef.IsSingleton() || rt.cellAt(idRef).tag != TagInt {
		return RefNil, rt.typeErrorf(idRef, "int", "ev-stop")
	}
	rt.watchers.stop(int(rt.cellAt(idRef).i))
	return RefNil, nil
}

func installEvPrims(rt *Runtime) {
	rt.registerPrim("ev-start", evStartPrim)
	rt.registerPrim("ev-stop", evStopPrim)
}
